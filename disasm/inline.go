package disasm

// NoInlineComplexity bounds how deep the inliner will fold a producer
// into its consumer before it stops and renders a named temporary
// instead. Composite constructs use the tighter CompositeConstructCap.
// Kept configurable per §9's design note; config.Inliner carries values
// for both, which cmd/spvdis passes on through spvdis.DecompileWithOptions.
var NoInlineComplexity = 3

// CompositeConstructCap is NoInlineComplexity's tighter sibling for
// OpCompositeConstruct consumers.
var CompositeConstructCap = 2

// inliner runs the dataflow optimizer of §4.5 over one function, after
// parse and before control-flow reconstruction. It is not safe to run
// concurrently with control-flow rebuilding on the same function (§5:
// the pipeline is strictly sequenced).
type inliner struct {
	m  *Module
	fn *Function

	// order is every Operation-bearing instruction in the function, in
	// block-then-member order, used for the purity scan's "strictly
	// between from and to" test.
	order []*Instruction
	index map[ID]int
}

// RunInliner performs argument folding, single-store/single-load
// elision, adjacent store-of-temp merging, and function-call parameter
// elision over fn, mutating Operation annotations in place.
func RunInliner(m *Module, fn *Function) {
	in := &inliner{m: m, fn: fn, index: make(map[ID]int)}
	in.buildOrder()
	in.foldArguments()
	in.elideSingleStoreSingleLoad()
	in.mergeAdjacentStoreOfTemp()
	in.elideCallParameters()
}

func (in *inliner) buildOrder() {
	for _, b := range in.fn.Blocks {
		for _, m := range b.Members {
			if m.ID != 0 {
				in.index[m.ID] = len(in.order)
			}
			in.order = append(in.order, m)
		}
	}
}

func (in *inliner) get(id ID) *Instruction {
	inst, _ := in.m.GetByID(id)
	return inst
}

// isUnmodified implements the purity predicate of §4.5: evaluating
// `from` at the program point of `to` would yield the same value as at
// from's original point.
func (in *inliner) isUnmodified(from, to *Instruction) bool {
	op, ok := from.Payload.(*Operation)
	if !ok {
		// Constant or variable: pure by definition. (A function
		// parameter carries an argument-less Operation and is pure by
		// the argument loop below.)
		return true
	}
	if from.Opcode == OpLoad && len(op.Args) == 1 {
		ptr := op.Args[0]
		return !in.hasInterveningStore(ptr, from, to)
	}
	for _, argID := range op.Args {
		arg := in.get(argID)
		if arg == nil {
			continue
		}
		if !in.isUnmodified(arg, to) {
			return false
		}
	}
	return true
}

// hasInterveningStore scans program order for a Store to ptr strictly
// between from and to.
func (in *inliner) hasInterveningStore(ptr ID, from, to *Instruction) bool {
	fromIdx, toIdx := in.posOf(from), in.posOf(to)
	if fromIdx < 0 || toIdx < 0 || fromIdx >= toIdx {
		return false
	}
	for i := fromIdx + 1; i < toIdx; i++ {
		inst := in.order[i]
		if inst.Opcode != OpStore {
			continue
		}
		op, ok := inst.Payload.(*Operation)
		if !ok || len(op.Args) < 1 {
			continue
		}
		if op.Args[0] == ptr {
			return true
		}
	}
	return false
}

func (in *inliner) posOf(inst *Instruction) int {
	for i, o := range in.order {
		if o == inst {
			return i
		}
	}
	return -1
}

// foldArguments implements §4.5's argument-inlining rule.
func (in *inliner) foldArguments() {
	for _, consumer := range in.order {
		op, ok := consumer.Payload.(*Operation)
		if !ok {
			continue
		}
		limit := NoInlineComplexity
		if consumer.Opcode == OpCompositeConstruct {
			limit = CompositeConstructCap
		}
		maxComplexity := 0
		for i, argID := range op.Args {
			if consumer.Opcode == OpStore && i == 0 {
				continue // destination of a Store is never folded
			}
			arg := in.get(argID)
			if arg == nil {
				continue
			}
			argOp, isOp := arg.Payload.(*Operation)
			if !isOp {
				continue
			}
			if argOp.Complexity >= limit {
				if argOp.Complexity > maxComplexity {
					maxComplexity = argOp.Complexity
				}
				continue
			}
			wide := isWideAllowed(arg.Opcode)
			if len(argOp.Args) > 2 && !wide {
				if argOp.Complexity > maxComplexity {
					maxComplexity = argOp.Complexity
				}
				continue
			}
			if !in.isUnmodified(arg, consumer) {
				if argOp.Complexity > maxComplexity {
					maxComplexity = argOp.Complexity
				}
				continue
			}
			op.SetFolded(i)
			if argOp.Complexity > maxComplexity {
				maxComplexity = argOp.Complexity
			}
		}
		if consumer.Opcode != OpStore && consumer.Opcode != OpLoad && consumer.Opcode != OpCompositeExtract {
			maxComplexity++
		}
		op.Complexity = maxComplexity
	}
}

// isWideAllowed reports whether op is permitted more than two arguments
// while still being eligible for folding (access-chain / select /
// composite-construct, per §4.5 rule 2).
func isWideAllowed(op Opcode) bool {
	switch op {
	case OpAccessChain, OpSelect, OpCompositeConstruct:
		return true
	default:
		return false
	}
}

// elideSingleStoreSingleLoad implements §4.5's single-store/single-load
// variable elision.
func (in *inliner) elideSingleStoreSingleLoad() {
	stores := map[ID][]*Instruction{}
	loads := map[ID][]*Instruction{}
	for _, inst := range in.order {
		op, ok := inst.Payload.(*Operation)
		if !ok || len(op.Args) == 0 {
			continue
		}
		switch inst.Opcode {
		case OpStore:
			stores[op.Args[0]] = append(stores[op.Args[0]], inst)
		case OpLoad:
			loads[op.Args[0]] = append(loads[op.Args[0]], inst)
		}
	}

	var keptVars []*Instruction
	for _, v := range in.fn.Variables {
		if in.usedAsCallArgument(v.ID) {
			// A variable whose address is passed to a call is exactly
			// what elideCallParameters' in/out/inout classification
			// handles; collapsing its store/load pair here first would
			// corrupt the pointer identity that classification keys on.
			keptVars = append(keptVars, v)
			continue
		}
		storeList := stores[v.ID]
		loadList := loads[v.ID]
		if len(storeList) == 1 && len(loadList) == 1 &&
			in.posOf(storeList[0]) < in.posOf(loadList[0]) &&
			in.isUnmodified(storeList[0], loadList[0]) {
			store := storeList[0]
			load := loadList[0]
			storeOp := store.Payload.(*Operation)
			loadOp := load.Payload.(*Operation)
			loadOp.Args[0] = storeOp.Args[1]
			in.removeFromBlocks(store)
			continue
		}
		keptVars = append(keptVars, v)
	}
	in.fn.Variables = keptVars
}

// usedAsCallArgument reports whether v's address is ever passed as an
// OpFunctionCall argument.
func (in *inliner) usedAsCallArgument(v ID) bool {
	for _, inst := range in.order {
		if inst.Opcode != OpFunctionCall {
			continue
		}
		op := inst.Payload.(*Operation)
		for _, argID := range op.Args {
			if argID == v {
				return true
			}
		}
	}
	return false
}

func (in *inliner) removeFromBlocks(target *Instruction) {
	for _, b := range in.fn.Blocks {
		for i, m := range b.Members {
			if m == target {
				b.Members = append(b.Members[:i], b.Members[i+1:]...)
				return
			}
		}
	}
}

// mergeAdjacentStoreOfTemp implements §4.5's adjacent store-of-temp
// merging: if I = Store <v>, <t> (or CompositeInsert ... <t>) where <t>
// is the immediately preceding emitted instruction, fold <t> into I.
func (in *inliner) mergeAdjacentStoreOfTemp() {
	for _, b := range in.fn.Blocks {
		for i := 1; i < len(b.Members); i++ {
			inst := b.Members[i]
			prev := b.Members[i-1]
			op, ok := inst.Payload.(*Operation)
			if !ok {
				continue
			}
			switch inst.Opcode {
			case OpStore:
				if len(op.Args) == 2 && op.Args[1] == prev.ID {
					op.SetFolded(1)
					op.Complexity++
				}
			case OpCompositeInsert:
				if len(op.Args) == 2 && op.Args[0] == prev.ID {
					op.SetFolded(0)
					op.Complexity++
				}
			}
		}
	}
}

// elideCallParameters implements §4.5's function-call parameter elision,
// classifying each OpFunctionCall argument as in/out/inout and collapsing
// the compiler-introduced temporary pointer variables used to pass it.
func (in *inliner) elideCallParameters() {
	for _, inst := range in.order {
		if inst.Opcode != OpFunctionCall {
			continue
		}
		op := inst.Payload.(*Operation)
		for i, argID := range op.Args {
			arg := in.get(argID)
			if arg == nil || arg.Opcode != OpVariable {
				continue
			}
			if in.classifyInParam(arg, inst, op, i) {
				continue
			}
			if in.classifyOutParam(arg, inst, op, i) {
				continue
			}
			in.classifyInoutParam(arg, inst, op, i)
		}
	}
}

func (in *inliner) storesTo(v ID) []*Instruction {
	var out []*Instruction
	for _, inst := range in.order {
		if inst.Opcode != OpStore {
			continue
		}
		op := inst.Payload.(*Operation)
		if op.Args[0] == v {
			out = append(out, inst)
		}
	}
	return out
}

func (in *inliner) loadsFrom(v ID) []*Instruction {
	var out []*Instruction
	for _, inst := range in.order {
		if inst.Opcode != OpLoad {
			continue
		}
		op := inst.Payload.(*Operation)
		if op.Args[0] == v {
			out = append(out, inst)
		}
	}
	return out
}

func (in *inliner) classifyInParam(v *Instruction, call *Instruction, callOp *Operation, argIdx int) bool {
	stores := in.storesTo(v.ID)
	loads := in.loadsFrom(v.ID)
	if len(stores) != 1 || len(loads) != 0 {
		return false
	}
	store := stores[0]
	if in.posOf(store) >= in.posOf(call) {
		return false
	}
	storeOp := store.Payload.(*Operation)
	callOp.Args[argIdx] = storeOp.Args[1]
	in.removeFromBlocks(store)
	in.removeVariable(v)
	return true
}

func (in *inliner) classifyOutParam(v *Instruction, call *Instruction, callOp *Operation, argIdx int) bool {
	for _, s := range in.storesTo(v.ID) {
		if in.posOf(s) < in.posOf(call) {
			// A pre-call store makes this an inout parameter, not a
			// pure out parameter.
			return false
		}
	}
	loads := in.loadsFrom(v.ID)
	if len(loads) != 1 {
		return false
	}
	load := loads[0]
	if in.posOf(load) <= in.posOf(call) {
		return false
	}
	stores := in.storesFromValue(load.ID)
	if len(stores) != 1 {
		return false
	}
	store := stores[0]
	storeOp := store.Payload.(*Operation)
	callOp.Args[argIdx] = storeOp.Args[0]
	in.removeFromBlocks(store)
	in.removeVariable(v)
	return true
}

// storesFromValue finds every Store whose source operand (not
// destination) is v — the out-parameter pattern is `%t = Load v;
// Store u, %t`, so the post-call store's destination is the unknown
// `u` we're solving for and its source is the load's result.
func (in *inliner) storesFromValue(v ID) []*Instruction {
	var out []*Instruction
	for _, inst := range in.order {
		if inst.Opcode != OpStore {
			continue
		}
		op := inst.Payload.(*Operation)
		if len(op.Args) >= 2 && op.Args[1] == v {
			out = append(out, inst)
		}
	}
	return out
}

func (in *inliner) classifyInoutParam(v *Instruction, call *Instruction, callOp *Operation, argIdx int) {
	stores := in.storesTo(v.ID)
	loads := in.loadsFrom(v.ID)
	if len(stores) != 1 || len(loads) != 1 {
		return
	}
	preStore := stores[0]
	postLoad := loads[0]
	if in.posOf(preStore) >= in.posOf(call) || in.posOf(postLoad) <= in.posOf(call) {
		return
	}
	preStoreOp := preStore.Payload.(*Operation)
	srcLoad := in.get(preStoreOp.Args[1])
	if srcLoad == nil || srcLoad.Opcode != OpLoad {
		return
	}
	srcLoadOp := srcLoad.Payload.(*Operation)
	target := srcLoadOp.Args[0]

	// The post-call write-back is `Store v, %t2` where %t2 is postLoad's
	// result — the same source-not-destination search classifyOutParam
	// uses, since postLoad.ID never appears as anything's store
	// destination.
	postStores := in.storesFromValue(postLoad.ID)
	if len(postStores) != 1 {
		return
	}
	postStore := postStores[0]
	postStoreOp := postStore.Payload.(*Operation)
	if postStoreOp.Args[0] != target {
		return
	}

	callOp.Args[argIdx] = target
	in.removeFromBlocks(preStore)
	in.removeFromBlocks(postStore)
	in.removeVariable(v)
}

func (in *inliner) removeVariable(v *Instruction) {
	for i, vv := range in.fn.Variables {
		if vv == v {
			in.fn.Variables = append(in.fn.Variables[:i], in.fn.Variables[i+1:]...)
			return
		}
	}
}
