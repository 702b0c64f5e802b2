package disasm

import (
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// hasResultType is the set of opcodes whose first two operand words are
// (result type, result id) rather than bare operands. Everything not in
// this set either has no result (flow control, decorations, ...) or is
// handled by its own case in decodeStructural or decodeOperation.
var hasResultType = map[Opcode]bool{
	OpUndef: true, OpFunctionCall: true, OpVariable: true, OpLoad: true,
	OpAccessChain: true, OpVectorShuffle: true, OpCompositeConstruct: true,
	OpCompositeExtract: true, OpCompositeInsert: true, OpTranspose: true,
	OpSampledImage: true, OpImageSampleImplicitLod: true, OpImageSampleExplicitLod: true,
	OpConvertFToU: true, OpConvertFToS: true, OpConvertSToF: true, OpConvertUToF: true,
	OpUConvert: true, OpSConvert: true, OpFConvert: true, OpBitcast: true,
	OpSNegate: true, OpFNegate: true, OpNot: true, OpLogicalNot: true,
	OpIAdd: true, OpFAdd: true, OpISub: true, OpFSub: true, OpIMul: true, OpFMul: true,
	OpUDiv: true, OpSDiv: true, OpFDiv: true, OpUMod: true, OpSRem: true, OpSMod: true,
	OpFRem: true, OpFMod: true, OpVectorTimesScalar: true, OpMatrixTimesScalar: true,
	OpVectorTimesMatrix: true, OpMatrixTimesVector: true, OpMatrixTimesMatrix: true,
	OpDot: true, OpShiftRightLogical: true, OpShiftRightArithmetic: true,
	OpShiftLeftLogical: true, OpBitwiseOr: true, OpBitwiseXor: true, OpBitwiseAnd: true,
	OpLogicalEqual: true, OpLogicalNotEqual: true, OpLogicalOr: true, OpLogicalAnd: true,
	OpSelect: true, OpIEqual: true, OpINotEqual: true, OpUGreaterThan: true,
	OpSGreaterThan: true, OpUGreaterThanEqual: true, OpSGreaterThanEqual: true,
	OpULessThan: true, OpSLessThan: true, OpULessThanEqual: true, OpSLessThanEqual: true,
	OpFOrdEqual: true, OpFUnordEqual: true, OpFOrdNotEqual: true, OpFUnordNotEqual: true,
	OpFOrdLessThan: true, OpFUnordLessThan: true, OpFOrdGreaterThan: true,
	OpFUnordGreaterThan: true, OpFOrdLessThanEqual: true, OpFUnordLessThanEqual: true,
	OpFOrdGreaterThanEqual: true, OpFUnordGreaterThanEqual: true, OpPhi: true,
	OpExtInst: true, OpImage: true, OpImageTexelPointer: true,
	OpVectorExtractDynamic: true, OpVectorInsertDynamic: true,
}

// typeOpcodes allocate an id but never a (result-type, id) pair; they
// describe a type directly by opcode family.
var typeOpcodes = map[Opcode]bool{
	OpTypeVoid: true, OpTypeBool: true, OpTypeInt: true, OpTypeFloat: true,
	OpTypeVector: true, OpTypeMatrix: true, OpTypeArray: true, OpTypeRuntimeArray: true,
	OpTypePointer: true, OpTypeStruct: true, OpTypeImage: true, OpTypeSampler: true,
	OpTypeSampledImage: true, OpTypeFunction: true,
}

// Parse decodes a buffer of 32-bit little-endian SPIR-V words into a
// Module. It fails only on a malformed header (bad magic or unsupported
// version); everything else is handled best-effort with a logged
// warning, per §7's error-kind taxonomy.
func Parse(words []uint32) (*Module, error) {
	if len(words) < 5 {
		return NewModule(0), errors.New("spirv: buffer shorter than the 5-word header")
	}
	if words[0] != MagicNumber {
		return NewModule(0), errors.Wrap(
			NewError(ErrMalformedHeader, "bad magic number"), "spirv header")
	}
	version := words[1]
	if major := (version >> 16) & 0xff; major != 1 {
		return NewModule(0), errors.Wrap(
			NewError(ErrMalformedHeader, "unsupported major version"), "spirv header")
	}

	m := NewModule(words[3])
	m.Version = version
	m.Generator = words[2]

	p := &parser{m: m, words: words, offset: 5}
	p.structuralPass()
	p.annotationPass()
	return m, nil
}

// MagicNumber is the SPIR-V binary sentinel (first header word).
const MagicNumber = 0x07230203

type parser struct {
	m      *Module
	words  []uint32
	offset int

	curFunc  *Function
	curBlock *Block
}

// nextInstruction returns the opcode, the instruction's operand words
// (excluding the leading packed opcode word), and advances the cursor.
// ok is false once the buffer is exhausted.
func (p *parser) nextInstruction() (Opcode, []uint32, bool) {
	if p.offset >= len(p.words) {
		return 0, nil, false
	}
	packed := p.words[p.offset]
	count := int(packed >> 16)
	op := Opcode(packed & 0xffff)
	if count == 0 || p.offset+count > len(p.words) {
		// Malformed instruction length; stop rather than read garbage.
		p.offset = len(p.words)
		return 0, nil, false
	}
	operands := p.words[p.offset+1 : p.offset+count]
	p.offset += count
	return op, operands, true
}

func (p *parser) structuralPass() {
	start := p.offset
	for {
		op, ops, ok := p.nextInstruction()
		if !ok {
			break
		}
		p.decodeStructural(op, ops)
	}
	p.offset = start
}

func (p *parser) decodeStructural(op Opcode, ops []uint32) {
	switch {
	case op == OpCapability:
		p.m.Capabilities = append(p.m.Capabilities, Capability(ops[0]))
		return
	case op == OpSource:
		p.m.SourceLang = SourceLanguage(ops[0])
		p.m.SourceVersion = ops[1]
		return
	case op == OpSourceExtension:
		p.m.SourceExts = append(p.m.SourceExts, decodeString(ops))
		return
	case op == OpSourceContinued:
		return
	case op == OpString:
		p.m.SourceFiles = append(p.m.SourceFiles, decodeString(ops[1:]))
		return
	case op == OpExtInstImport:
		id := ID(ops[0])
		set := &ExtInstSet{ID: id, Name: decodeString(ops[1:])}
		if p.m.ExtInstSets == nil {
			p.m.ExtInstSets = make(map[ID]*ExtInstSet)
		}
		p.m.ExtInstSets[id] = set
		p.m.allocPlaceholder(id)
		return
	case op == OpEntryPoint:
		ep := &EntryPoint{
			ExecutionModel: ExecutionModel(ops[0]),
			Function:       ID(ops[1]),
		}
		name, rest := decodeStringAt(ops, 2)
		ep.Name = name
		for _, w := range rest {
			ep.Interface = append(ep.Interface, ID(w))
		}
		p.m.Entries = append(p.m.Entries, ep)
		return
	case op == OpExecutionMode:
		target := ID(ops[0])
		mode := ExecutionMode(ops[1])
		for _, ep := range p.m.Entries {
			if ep.Function == target {
				ep.Modes = append(ep.Modes, ExecutionModeValue{Mode: mode, Literals: append([]uint32{}, ops[2:]...)})
			}
		}
		return
	case op == OpMemoryModel, op == OpExtension:
		return
	case typeOpcodes[op]:
		p.decodeType(op, ops)
		return
	case op == OpConstantTrue, op == OpConstantFalse, op == OpConstant,
		op == OpConstantComposite, op == OpConstantSampler, op == OpConstantNull:
		p.decodeConstant(op, ops)
		return
	case op == OpVariable:
		p.decodeVariable(ops)
		return
	case op == OpFunction:
		p.decodeFunction(ops)
		return
	case op == OpFunctionParameter:
		id := ID(ops[1])
		inst := &Instruction{Opcode: op, ID: id, Payload: &Operation{ResultType: ID(ops[0])}}
		p.m.record(id, inst)
		if p.curFunc != nil {
			p.curFunc.Params = append(p.curFunc.Params, inst)
		}
		return
	case op == OpFunctionEnd:
		p.curFunc = nil
		p.curBlock = nil
		return
	case op == OpLabel:
		id := ID(ops[0])
		inst := &Instruction{Opcode: op, ID: id}
		p.m.record(id, inst)
		block := &Block{Label: id}
		if p.curFunc != nil {
			p.curFunc.Blocks = append(p.curFunc.Blocks, block)
		}
		p.curBlock = block
		return
	case op == OpSelectionMerge, op == OpLoopMerge:
		p.decodeMerge(op, ops)
		return
	case op == OpBranch, op == OpBranchConditional, op == OpSwitch,
		op == OpReturn, op == OpReturnValue, op == OpKill, op == OpUnreachable:
		p.decodeTerminator(op, ops)
		return
	case op == OpName, op == OpMemberName, op == OpLine, op == OpDecorate,
		op == OpMemberDecorate, op == OpDecorationGroup, op == OpGroupDecorate,
		op == OpGroupMemberDecorate:
		// Deferred to the annotation pass.
		return
	default:
		p.decodeOperation(op, ops)
	}
}

func (p *parser) decodeType(op Opcode, ops []uint32) {
	id := ID(ops[0])
	decl := &TypeDecl{}
	switch op {
	case OpTypeVoid:
		decl.Kind = TypeVoid
	case OpTypeBool:
		decl.Kind = TypeBool
	case OpTypeInt:
		decl.Kind = TypeInt
		decl.Width = ops[1]
		decl.Signed = ops[2] != 0
	case OpTypeFloat:
		decl.Kind = TypeFloat
		decl.Width = ops[1]
	case OpTypeVector:
		decl.Kind = TypeVector
		decl.ComponentType = ID(ops[1])
		decl.ComponentCount = ops[2]
	case OpTypeMatrix:
		decl.Kind = TypeMatrix
		decl.ComponentType = ID(ops[1])
		decl.ComponentCount = ops[2]
	case OpTypeArray:
		decl.Kind = TypeArray
		decl.ComponentType = ID(ops[1])
		decl.ArrayLength = ID(ops[2])
	case OpTypeRuntimeArray:
		decl.Kind = TypeRuntimeArray
		decl.ComponentType = ID(ops[1])
	case OpTypePointer:
		decl.Kind = TypePointer
		decl.StorageClass = StorageClass(ops[1])
		decl.ComponentType = ID(ops[2])
	case OpTypeStruct:
		decl.Kind = TypeStruct
		for _, w := range ops[1:] {
			decl.Members = append(decl.Members, StructMember{Type: ID(w)})
		}
	case OpTypeImage:
		decl.Kind = TypeImage
		decl.SampledType = ID(ops[1])
		decl.Dim = Dim(ops[2])
		decl.Depth = ops[3]
		if ops[4] != 0 {
			decl.Arrayed = true
		}
		if ops[5] != 0 {
			decl.Multisampled = true
		}
		decl.Sampled = ops[6]
		if len(ops) > 7 {
			decl.ImageFormat = ops[7]
		}
	case OpTypeSampler:
		decl.Kind = TypeSampler
	case OpTypeSampledImage:
		decl.Kind = TypeSampledImage
		decl.ImageType = ID(ops[1])
	case OpTypeFunction:
		decl.Kind = TypeFunction
		decl.ReturnType = ID(ops[1])
		for _, w := range ops[2:] {
			decl.ParamTypes = append(decl.ParamTypes, ID(w))
		}
	}
	inst := &Instruction{Opcode: op, ID: id, Payload: decl}
	p.m.record(id, inst)
	if decl.Kind == TypeStruct {
		p.m.Structs = append(p.m.Structs, inst)
	}
}

func (p *parser) decodeConstant(op Opcode, ops []uint32) {
	typeID := ID(ops[0])
	id := ID(ops[1])
	c := &Constant{Type: typeID}
	switch op {
	case OpConstantTrue:
		c.Bits = 1
	case OpConstantFalse:
		c.Bits = 0
	case OpConstant:
		payload := ops[2:]
		if len(payload) > 2 {
			p.m.logWarning(ErrUnsupportedConstruct, "constant wider than 64 bits truncated", id)
			payload = payload[:2]
		}
		c.Bits = decodeWidePayload(payload)
	case OpConstantComposite:
		for _, w := range ops[2:] {
			c.Children = append(c.Children, ID(w))
		}
	case OpConstantSampler:
		c.Sampler = &SamplerLiteral{
			AddressingMode: ops[2],
			Normalized:     ops[3] != 0,
			FilterMode:     ops[4],
		}
	case OpConstantNull:
		// zero value; Bits/Children already default to zero/nil.
	}
	inst := &Instruction{Opcode: op, ID: id, Payload: c}
	p.m.record(id, inst)
}

func decodeWidePayload(words []uint32) uint64 {
	if len(words) == 0 {
		return 0
	}
	v := uint64(words[0])
	if len(words) > 1 {
		v |= uint64(words[1]) << 32
	}
	return v
}

func (p *parser) decodeVariable(ops []uint32) {
	typeID := ID(ops[0])
	id := ID(ops[1])
	v := &Variable{PointerType: typeID, StorageClass: StorageClass(ops[2])}
	if len(ops) > 3 {
		v.Initializer = ID(ops[3])
	}
	inst := &Instruction{Opcode: OpVariable, ID: id, Payload: v}
	p.m.record(id, inst)
	if p.curFunc != nil && v.StorageClass == StorageClassFunction {
		p.curFunc.Variables = append(p.curFunc.Variables, inst)
	} else {
		p.m.Globals = append(p.m.Globals, inst)
	}
}

func (p *parser) decodeFunction(ops []uint32) {
	returnType := ID(ops[0])
	id := ID(ops[1])
	fn := &Function{ID: id, ReturnType: returnType, Control: ops[2], FuncType: ID(ops[3])}
	inst := &Instruction{Opcode: OpFunction, ID: id, Payload: fn}
	p.m.record(id, inst)
	p.m.Funcs = append(p.m.Funcs, fn)
	p.curFunc = fn
	p.curBlock = nil
}

func (p *parser) decodeMerge(op Opcode, ops []uint32) {
	fc := &FlowControl{IsMerge: true}
	switch op {
	case OpSelectionMerge:
		fc.Targets = []ID{ID(ops[0])}
		fc.SelectionControl = ops[1]
	case OpLoopMerge:
		fc.Targets = []ID{ID(ops[0])}
		fc.ContinueTarget = ID(ops[1])
		fc.LoopControl = ops[2]
	}
	inst := &Instruction{Opcode: op, Payload: fc}
	p.m.operations = append(p.m.operations, inst)
	if p.curBlock != nil {
		p.curBlock.MergeFlow = inst
	}
}

func (p *parser) decodeTerminator(op Opcode, ops []uint32) {
	fc := &FlowControl{IsTerminator: true}
	switch op {
	case OpBranch:
		fc.Targets = []ID{ID(ops[0])}
	case OpBranchConditional:
		fc.Condition = ID(ops[0])
		fc.Targets = []ID{ID(ops[1]), ID(ops[2])}
		if len(ops) > 3 {
			fc.Literals = append([]uint32{}, ops[3:]...)
		}
	case OpSwitch:
		fc.Condition = ID(ops[0])
		fc.Targets = []ID{ID(ops[1])}
		for i := 2; i+1 < len(ops); i += 2 {
			fc.Literals = append(fc.Literals, ops[i])
			fc.Targets = append(fc.Targets, ID(ops[i+1]))
		}
	case OpReturnValue:
		fc.Condition = ID(ops[0])
	case OpReturn, OpKill, OpUnreachable:
		// no operands
	}
	inst := &Instruction{Opcode: op, Payload: fc}
	p.m.operations = append(p.m.operations, inst)
	if p.curBlock != nil {
		p.curBlock.ExitFlow = inst
	}
}

func (p *parser) decodeOperation(op Opcode, ops []uint32) {
	if op == OpStore || op == OpCopyMemory {
		o := &Operation{Args: idsOf(ops[:2])}
		if len(ops) > 2 {
			o.MemoryAccess = ops[2]
		}
		inst := &Instruction{Opcode: op, Payload: o}
		p.m.operations = append(p.m.operations, inst)
		if p.curBlock != nil {
			p.curBlock.Members = append(p.curBlock.Members, inst)
		}
		return
	}
	if !hasResultType[op] {
		// An unmodeled opcode still allocates an Instruction so its
		// result-ID resolves (§4.2); assume the common (type, id, ...)
		// shape when there are enough operand words to guess it.
		var id ID
		var resultType ID
		if len(ops) >= 2 {
			resultType, id = ID(ops[0]), ID(ops[1])
		} else if len(ops) == 1 {
			id = ID(ops[0])
		}
		p.m.logWarning(ErrUnknownOpcode, "unmodeled opcode", id)
		if id == 0 {
			return
		}
		inst := &Instruction{Opcode: op, ID: id, Payload: &Operation{ResultType: resultType, Args: idsOf(ops[2:])}}
		p.m.record(id, inst)
		if p.curBlock != nil {
			p.curBlock.Members = append(p.curBlock.Members, inst)
		}
		return
	}
	resultType := ID(ops[0])
	id := ID(ops[1])
	rest := ops[2:]

	o := &Operation{ResultType: resultType}
	switch op {
	case OpAccessChain:
		o.Args = idsOf(rest)
	case OpCompositeExtract:
		if len(rest) > 0 {
			o.Args = []ID{ID(rest[0])}
			o.Literals = append([]uint32{}, rest[1:]...)
		}
	case OpCompositeInsert:
		// The wire order is (object, composite); Args keeps the
		// composite first, so Args[0] is the source value and Args[1]
		// the inserted one.
		if len(rest) >= 2 {
			o.Args = []ID{ID(rest[1]), ID(rest[0])}
			o.Literals = append([]uint32{}, rest[2:]...)
		}
	case OpVectorShuffle:
		if len(rest) >= 2 {
			o.Args = []ID{ID(rest[0]), ID(rest[1])}
			o.Literals = append([]uint32{}, rest[2:]...)
		}
	case OpFunctionCall:
		if len(rest) > 0 {
			o.CallTarget = ID(rest[0])
			o.Args = idsOf(rest[1:])
		}
	case OpLoad:
		if len(rest) > 0 {
			o.Args = []ID{ID(rest[0])}
			if len(rest) > 1 {
				o.MemoryAccess = rest[1]
			}
		}
	case OpExtInst:
		if len(rest) >= 2 {
			o.ExtSet = ID(rest[0])
			o.ExtOp = rest[1]
			o.Args = idsOf(rest[2:])
		}
	case OpPhi:
		for i := 0; i+1 < len(rest); i += 2 {
			o.Args = append(o.Args, ID(rest[i]), ID(rest[i+1]))
		}
	default:
		o.Args = idsOf(rest)
	}

	inst := &Instruction{Opcode: op, ID: id, Payload: o}
	p.m.record(id, inst)
	if p.curBlock != nil {
		p.curBlock.Members = append(p.curBlock.Members, inst)
	}
}

func idsOf(words []uint32) []ID {
	if len(words) == 0 {
		return nil
	}
	ids := make([]ID, len(words))
	for i, w := range words {
		ids[i] = ID(w)
	}
	return ids
}

func decodeString(words []uint32) string {
	s, _ := decodeStringAt(words, 0)
	return s
}

// decodeStringAt decodes a null-terminated UTF-8 string starting at
// words[from], returning it plus the words following its terminator.
func decodeStringAt(words []uint32, from int) (string, []uint32) {
	var b []byte
	for i := from; i < len(words); i++ {
		w := words[i]
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return string(b), words[i+1:]
			}
			b = append(b, c)
		}
	}
	return string(b), nil
}

// annotationPass applies OpName, OpMemberName, OpDecorate and
// OpMemberDecorate now that every ID has been allocated by the
// structural pass (OpLine is read and skipped: no source position is
// recorded on any instruction), expanding OpDecorationGroup/OpGroupDecorate/
// OpGroupMemberDecorate inline (the redesign of spec §9's open
// question: groups are declared before they're referenced, so a single
// left-to-right pass resolves a group's own decoration list before
// fanning it out).
func (p *parser) annotationPass() {
	groups := make(map[ID][]InstructionDecoration)

	for {
		op, ops, ok := p.nextInstruction()
		if !ok {
			break
		}
		switch op {
		case OpName:
			id := ID(ops[0])
			inst, known := p.m.GetByID(id)
			if !known {
				p.m.logWarning(ErrDanglingReference, "OpName targets unknown id", id)
				continue
			}
			name := decodeString(ops[1:])
			if i := indexByte(name, '('); i >= 0 {
				name = name[:i]
			}
			inst.Name = name
		case OpMemberName:
			id := ID(ops[0])
			member := ops[1]
			inst, known := p.m.GetByID(id)
			if !known {
				continue
			}
			if inst.MemberName == nil {
				inst.MemberName = make(map[uint32]string)
			}
			inst.MemberName[member] = decodeString(ops[2:])
			if decl, ok := inst.Payload.(*TypeDecl); ok && int(member) < len(decl.Members) {
				decl.Members[member].Name = inst.MemberName[member]
			}
		case OpLine:
			// Best-effort source position; not tracked per-instruction
			// since it would require re-entering the structural stream.
		case OpDecorate:
			id := ID(ops[0])
			dec := InstructionDecoration{Decoration: Decoration(ops[1]), Params: append([]uint32{}, ops[2:]...), Member: -1}
			if inst, known := p.m.GetByID(id); known && !isGroupInstruction(inst) {
				inst.Decorations = append(inst.Decorations, dec)
			}
			groups[id] = append(groups[id], dec)
		case OpMemberDecorate:
			id := ID(ops[0])
			member := int(ops[1])
			dec := InstructionDecoration{Decoration: Decoration(ops[2]), Params: append([]uint32{}, ops[3:]...), Member: member}
			if inst, known := p.m.GetByID(id); known {
				inst.Decorations = append(inst.Decorations, dec)
				if decl, ok := inst.Payload.(*TypeDecl); ok && member < len(decl.Members) {
					decl.Members[member].Decorations = append(decl.Members[member].Decorations, dec)
				}
			}
		case OpDecorationGroup:
			id := ID(ops[0])
			inst, known := p.m.GetByID(id)
			if !known {
				inst = p.m.allocPlaceholder(id)
			}
			inst.Opcode = OpDecorationGroup
		case OpGroupDecorate:
			group := ID(ops[0])
			decs := groups[group]
			for _, target := range ops[1:] {
				if inst, known := p.m.GetByID(ID(target)); known {
					inst.Decorations = append(inst.Decorations, decs...)
				}
			}
		case OpGroupMemberDecorate:
			group := ID(ops[0])
			decs := groups[group]
			for i := 1; i+1 < len(ops); i += 2 {
				target := ID(ops[i])
				member := ops[i+1]
				if inst, known := p.m.GetByID(target); known {
					for _, d := range decs {
						d.Member = int(member)
						inst.Decorations = append(inst.Decorations, d)
					}
				}
			}
		}
	}
}

func isGroupInstruction(inst *Instruction) bool {
	return inst.Opcode == OpDecorationGroup
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// logSpan emits a structured diagnostic for a non-fatal parse warning,
// used by higher-level callers (Decompile) that want every *Error on the
// module surfaced through the ambient logger rather than just collected.
func logSpan(tag string, e *Error) {
	tlog.Printw(tag, "kind", e.Kind.String(), "id", e.ID, "message", e.Message)
}
