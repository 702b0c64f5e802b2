package disasm

import (
	"fmt"
	"strings"
)

// controlBuilder rebuilds structured control flow (if/else, loops, plain
// sequences) from a function's basic blocks, per §4.6's stack-based
// algorithm (five stacks below): a block's merge target closes whichever construct opened
// at it. Rather than reconstructing arbitrary CFGs, it trusts the
// SelectionMerge/LoopMerge annotations the producing compiler already
// attached — the same assumption every block-structured SPIR-V consumer
// makes.
type controlBuilder struct {
	m    *Module
	fn   *Function
	d    *Disassembler
	out  *strings.Builder
	seen map[ID]bool

	selectionMerge []ID // merge-block stack, pushed for each open if/else and switch
	elseTarget     []ID // false-branch target of each else branch being walked
	loopHeader     []ID
	loopStart      []ID
	loopMerge      []ID
}

// BuildFunction renders fn's body as structured text, given the
// disassembler used for every expression and statement inside it. Call
// RunInliner(m, fn) first; the inliner's fold/elision annotations are
// what keep the emitted text from drowning in named temporaries.
func BuildFunction(m *Module, fn *Function, d *Disassembler) string {
	cb := &controlBuilder{
		m: m, fn: fn, d: d,
		out:  &strings.Builder{},
		seen: make(map[ID]bool),
	}
	if len(fn.Blocks) == 0 {
		return ""
	}
	cb.walk(fn.Blocks[0], 0)
	cb.sweepRedundantLabels()
	return cb.out.String()
}

func (cb *controlBuilder) blockByLabel(id ID) *Block {
	for _, b := range cb.fn.Blocks {
		if b.Label == id {
			return b
		}
	}
	return nil
}

func (cb *controlBuilder) indent(depth int) string {
	return strings.Repeat("    ", depth)
}

// currentMerge returns the innermost open merge target, or 0 if none.
func (cb *controlBuilder) currentMerge() ID {
	if n := len(cb.selectionMerge); n > 0 {
		return cb.selectionMerge[n-1]
	}
	if n := len(cb.loopMerge); n > 0 {
		return cb.loopMerge[n-1]
	}
	return 0
}

// walk emits block and everything structurally dominated by it, up to
// (but not including) the open merge target, at the given indent depth.
func (cb *controlBuilder) walk(block *Block, depth int) {
	for block != nil {
		if cb.seen[block.Label] {
			return
		}
		if block.Label == cb.currentMerge() {
			return
		}
		cb.seen[block.Label] = true

		for _, inst := range block.Members {
			if isStatementOpcode(inst.Opcode) {
				fmt.Fprintf(cb.out, "%s%s;\n", cb.indent(depth), cb.d.Statement(inst))
				continue
			}
			op, ok := inst.Payload.(*Operation)
			if !ok || isFolded(cb.fn, inst) {
				continue
			}
			if inst.Opcode == OpFunctionCall && isVoidType(cb.m, op.ResultType) {
				fmt.Fprintf(cb.out, "%s%s;\n", cb.indent(depth), cb.d.Statement(inst))
				continue
			}
			if inst.Opcode == OpCompositeInsert && len(op.Args) >= 2 {
				tmp := inst.IDName()
				chain := cb.d.compositeChain(cb.d.valueTypeOf(op.Args[0]), op.Literals)
				fmt.Fprintf(cb.out, "%s%s = %s;\n", cb.indent(depth), tmp, cb.d.arg(op, 0))
				fmt.Fprintf(cb.out, "%s%s%s = %s;\n", cb.indent(depth), tmp, chain, cb.d.arg(op, 1))
				continue
			}
			fmt.Fprintf(cb.out, "%s%s = %s;\n", cb.indent(depth), inst.IDName(), cb.d.Disassemble(inst.ID))
		}

		if block.MergeFlow != nil {
			fc := block.MergeFlow.Payload.(*FlowControl)
			if block.MergeFlow.Opcode == OpLoopMerge {
				block = cb.walkLoop(block, fc, depth)
				continue
			}
		}

		exit := block.ExitFlow
		if exit == nil {
			return
		}
		fc := exit.Payload.(*FlowControl)
		switch exit.Opcode {
		case OpBranch:
			target := fc.Targets[0]
			switch {
			case len(cb.loopHeader) > 0 && target == cb.loopHeader[len(cb.loopHeader)-1]:
				if !cb.branchesToLoopTail(block) {
					fmt.Fprintf(cb.out, "%scontinue;\n", cb.indent(depth))
				}
				return
			case len(cb.loopMerge) > 0 && target == cb.loopMerge[len(cb.loopMerge)-1]:
				fmt.Fprintf(cb.out, "%sbreak;\n", cb.indent(depth))
				return
			case len(cb.selectionMerge) > 0 && target == cb.selectionMerge[len(cb.selectionMerge)-1]:
				return
			case cb.seen[target] || cb.blockByLabel(target) == nil:
				fmt.Fprintf(cb.out, "%sgoto Label%d;\n", cb.indent(depth), target)
				return
			}
			block = cb.blockByLabel(target)
			continue
		case OpBranchConditional:
			block = cb.walkSelection(block, fc, depth)
			continue
		case OpSwitch:
			cb.walkSwitch(fc, depth)
			block = cb.blockByLabel(block.MergeFlow.Payload.(*FlowControl).Targets[0])
			continue
		case OpReturn:
			// A bare void return at the outermost scope is how every
			// function ends; only an early return nested inside a
			// selection or loop body needs explicit text.
			if depth == 0 {
				return
			}
			fmt.Fprintf(cb.out, "%s%s;\n", cb.indent(depth), cb.d.Statement(exit))
			return
		case OpReturnValue, OpKill, OpUnreachable:
			fmt.Fprintf(cb.out, "%s%s;\n", cb.indent(depth), cb.d.Statement(exit))
			return
		}
		return
	}
}

// walkSelection handles an if/else opened by header's SelectionMerge.
func (cb *controlBuilder) walkSelection(header *Block, fc *FlowControl, depth int) *Block {
	merge := header.MergeFlow.Payload.(*FlowControl).Targets[0]
	trueTarget, falseTarget := fc.Targets[0], fc.Targets[1]

	cb.selectionMerge = append(cb.selectionMerge, merge)
	defer func() { cb.selectionMerge = cb.selectionMerge[:len(cb.selectionMerge)-1] }()

	fmt.Fprintf(cb.out, "%sif (%s)%s {\n", cb.indent(depth), cb.d.nameOf(fc.Condition), BranchWeightString(fc.Literals))
	cb.walk(cb.blockByLabel(trueTarget), depth+1)

	if falseTarget != merge {
		fmt.Fprintf(cb.out, "%s} else {\n", cb.indent(depth))
		cb.elseTarget = append(cb.elseTarget, falseTarget)
		cb.walk(cb.blockByLabel(falseTarget), depth+1)
		cb.elseTarget = cb.elseTarget[:len(cb.elseTarget)-1]
	}
	fmt.Fprintf(cb.out, "%s}\n", cb.indent(depth))

	return cb.blockByLabel(merge)
}

// walkLoop handles a loop opened by header's LoopMerge. Per §4.6, the
// header's own exit flow must be the OpBranchConditional that tests the
// loop condition: its true-target is the loop body (pushed as
// loop-start) and its false-target must be the merge block. Returns the
// merge block, where the walk continues once the loop body has been
// emitted.
func (cb *controlBuilder) walkLoop(header *Block, fc *FlowControl, depth int) *Block {
	merge := fc.Targets[0]
	exit := header.ExitFlow
	var start ID
	cond := "true"
	if exit != nil && exit.Opcode == OpBranchConditional {
		exitFC := exit.Payload.(*FlowControl)
		if len(exitFC.Targets) > 0 {
			start = exitFC.Targets[0]
		}
		cond = cb.d.Disassemble(exitFC.Condition)
	}

	cb.loopMerge = append(cb.loopMerge, merge)
	cb.loopHeader = append(cb.loopHeader, header.Label)
	cb.loopStart = append(cb.loopStart, start)

	fmt.Fprintf(cb.out, "%swhile (%s) {\n", cb.indent(depth), cond)
	cb.walk(cb.blockByLabel(start), depth+1)
	fmt.Fprintf(cb.out, "%s}\n", cb.indent(depth))

	cb.loopMerge = cb.loopMerge[:len(cb.loopMerge)-1]
	cb.loopHeader = cb.loopHeader[:len(cb.loopHeader)-1]
	cb.loopStart = cb.loopStart[:len(cb.loopStart)-1]

	return cb.blockByLabel(merge)
}

// branchesToLoopTail reports whether block's unconditional branch back
// to the loop header is the implicit back-edge at the end of the loop
// body — i.e. block is immediately followed, in the function's own
// block order, by the current loop-merge label — rather than an early
// continue reached from inside a nested construct. Per §4.6, only the
// latter gets an explicit `continue;`.
func (cb *controlBuilder) branchesToLoopTail(block *Block) bool {
	if len(cb.loopMerge) == 0 {
		return false
	}
	merge := cb.loopMerge[len(cb.loopMerge)-1]
	for i, b := range cb.fn.Blocks {
		if b.Label == block.Label {
			return i+1 < len(cb.fn.Blocks) && cb.fn.Blocks[i+1].Label == merge
		}
	}
	return false
}

func (cb *controlBuilder) walkSwitch(fc *FlowControl, depth int) {
	fmt.Fprintf(cb.out, "%sswitch (%s) {\n", cb.indent(depth), cb.d.nameOf(fc.Condition))
	merge := fc.Targets[0]
	cb.selectionMerge = append(cb.selectionMerge, merge)
	for i, lit := range fc.Literals {
		target := fc.Targets[i+1]
		fmt.Fprintf(cb.out, "%scase %d:\n", cb.indent(depth+1), lit)
		cb.walk(cb.blockByLabel(target), depth+2)
	}
	cb.selectionMerge = cb.selectionMerge[:len(cb.selectionMerge)-1]
	fmt.Fprintf(cb.out, "%s}\n", cb.indent(depth))
}

// isStatementOpcode reports whether inst is rendered as a standalone
// statement line rather than folded as an expression operand.
func isStatementOpcode(op Opcode) bool {
	switch op {
	case OpStore, OpCopyMemory, OpKill, OpReturn, OpReturnValue:
		return true
	default:
		return false
	}
}

// isVoidType reports whether typeID names OpTypeVoid — used to tell a
// void-returning OpFunctionCall (rendered as a bare statement) from one
// whose result feeds into an expression.
func isVoidType(m *Module, typeID ID) bool {
	inst, ok := m.GetByID(typeID)
	if !ok {
		return false
	}
	decl, ok := inst.Payload.(*TypeDecl)
	return ok && decl.Kind == TypeVoid
}

// isFolded reports whether every consumer of inst's result has folded
// it into its own expression text, meaning inst needs no named
// temporary of its own. A block terminator that reads the value (a
// branch or switch condition, a returned value) prints it by name, so it
// counts as a consumer that has not folded it; a loop header's condition
// is the exception, since walkLoop renders it inline. Statement-position
// calls (OpFunctionCall used for side effect) are never elided this way.
func isFolded(fn *Function, inst *Instruction) bool {
	if inst.Opcode == OpFunctionCall {
		return false
	}
	if inst.ID == 0 {
		return true
	}
	for _, b := range fn.Blocks {
		if b.ExitFlow != nil && (b.MergeFlow == nil || b.MergeFlow.Opcode != OpLoopMerge) {
			if fc, ok := b.ExitFlow.Payload.(*FlowControl); ok && fc.Condition == inst.ID {
				return false
			}
		}
		for _, consumer := range b.Members {
			op, ok := consumer.Payload.(*Operation)
			if !ok {
				continue
			}
			for i, argID := range op.Args {
				if argID == inst.ID && !op.Folded(i) {
					return false
				}
			}
		}
	}
	return true
}

// sweepRedundantLabels is a placeholder hook for §4.6's redundant-label
// sweep: once block text is fully emitted, any label whose only
// predecessor fell through to it unconditionally has already been
// elided by walk's straight-line OpBranch following, so there is
// nothing left to sweep here for the single-pass builder above.
func (cb *controlBuilder) sweepRedundantLabels() {}
