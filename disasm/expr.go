package disasm

import (
	"fmt"
	"strings"
)

// Disassembler renders the value-producing and statement-producing
// instructions of one module into C-like expression text. It holds the
// type-name cache so composite/type text is computed once per module
// (§4.3), not once per instruction.
type Disassembler struct {
	m     *Module
	types *typeNameCache
}

// NewDisassembler builds a disassembler for m. A *Disassembler is
// scratch for a single Decompile call; it is not safe to share across
// concurrent decompiles of different modules.
func NewDisassembler(m *Module) *Disassembler {
	return &Disassembler{m: m, types: newTypeNameCache(m)}
}

// Disassemble renders the expression that produces id's value. Callers
// in statement position (the control-flow rebuilder) call this directly
// for a temporary's right-hand side; nested calls happen through arg,
// which additionally consults the inliner's fold annotations.
func (d *Disassembler) Disassemble(id ID) string {
	inst, ok := d.m.GetByID(id)
	if !ok {
		return DefaultIDName(uint32(id))
	}
	return d.disassembleInst(inst)
}

func (d *Disassembler) disassembleInst(inst *Instruction) string {
	switch inst.Payload.(type) {
	case *Constant:
		return d.types.ConstantLiteral(inst)
	case *Variable:
		return inst.IDName()
	}
	if inst.Opcode == OpFunctionParameter {
		return inst.IDName()
	}

	op, ok := inst.Payload.(*Operation)
	if !ok {
		return inst.IDName()
	}

	switch inst.Opcode {
	case OpLoad:
		return d.disassembleLoad(op)
	case OpAccessChain:
		return d.disassembleAccessChain(op)
	case OpCompositeExtract:
		return d.disassembleExtract(inst, op)
	case OpCompositeInsert:
		return d.disassembleInsert(inst, op)
	case OpCompositeConstruct:
		return d.disassembleConstruct(inst, op)
	case OpVectorShuffle:
		return d.disassembleShuffle(inst, op)
	case OpVectorExtractDynamic:
		return fmt.Sprintf("%s[%s]", d.arg(op, 0), d.arg(op, 1))
	case OpVectorInsertDynamic:
		return fmt.Sprintf("insert(%s, %s, %s)", d.arg(op, 0), d.arg(op, 1), d.arg(op, 2))
	case OpFunctionCall:
		return d.disassembleCall(op)
	case OpExtInst:
		return d.disassembleExtInst(op)
	case OpSelect:
		return fmt.Sprintf("(%s ? %s : %s)", d.arg(op, 0), d.arg(op, 1), d.arg(op, 2))
	case OpDot:
		return fmt.Sprintf("dot(%s, %s)", d.arg(op, 0), d.arg(op, 1))
	case OpTranspose:
		return fmt.Sprintf("transpose(%s)", d.arg(op, 0))
	case OpBitcast:
		return fmt.Sprintf("(%s)%s", d.types.TypeName(op.ResultType), d.arg(op, 0))
	case OpConvertFToU, OpConvertFToS, OpConvertSToF, OpConvertUToF, OpUConvert, OpSConvert, OpFConvert:
		return fmt.Sprintf("(%s)%s", d.types.TypeName(op.ResultType), d.arg(op, 0))
	case OpSampledImage:
		return fmt.Sprintf("sample_combine(%s, %s)", d.arg(op, 0), d.arg(op, 1))
	case OpImageSampleImplicitLod, OpImageSampleExplicitLod:
		return fmt.Sprintf("%s.Sample(%s)", d.arg(op, 0), d.arg(op, 1))
	case OpImage:
		return fmt.Sprintf("image(%s)", d.arg(op, 0))
	case OpImageTexelPointer:
		return fmt.Sprintf("texel_ptr(%s, %s)", d.arg(op, 0), d.arg(op, 1))
	case OpPhi:
		return d.disassemblePhi(op)
	}

	if name, ok := unaryOperators[inst.Opcode]; ok && len(op.Args) == 1 {
		return fmt.Sprintf("(%s%s)", name, d.arg(op, 0))
	}
	if name, ok := binaryOperators[inst.Opcode]; ok && len(op.Args) == 2 {
		return fmt.Sprintf("(%s %s %s)", d.arg(op, 0), name, d.arg(op, 1))
	}

	return d.disassembleFallback(inst, op)
}

// arg renders argument index i of op: the inliner's fold annotation
// decides whether the producing instruction's full expression is
// substituted in place, or whether the producer is named and left as a
// separate statement (§4.5's complexity-capped folding).
func (d *Disassembler) arg(op *Operation, i int) string {
	if i >= len(op.Args) {
		return "?"
	}
	id := op.Args[i]
	if op.Folded(i) {
		return d.Disassemble(id)
	}
	return d.nameOf(id)
}

func (d *Disassembler) nameOf(id ID) string {
	inst, ok := d.m.GetByID(id)
	if !ok {
		return DefaultIDName(uint32(id))
	}
	if _, ok := inst.Payload.(*Constant); ok {
		return d.types.ConstantLiteral(inst)
	}
	return inst.IDName()
}

func (d *Disassembler) disassembleLoad(op *Operation) string {
	// A surviving Load (the inliner elides single-store/single-load
	// pairs) is transparent: the pointer it reads has no separate
	// identity in the decompiled text, so its pointee's name stands in
	// for the dereferenced value.
	if len(op.Args) == 0 {
		return "?"
	}
	return d.arg(op, 0)
}

// disassembleAccessChain walks the chain tracking the current pointee
// type, delegating each step to typeChainSegment — a constant vector
// index renders as a swizzle component (".x", ".y", ...), a constant
// struct index renders as ".member", and everything else (dynamic
// vector/array/matrix indices) renders bracketed. The "a matrix
// followed by one more index drills into the row vector" rule falls
// out of this naturally, since a matrix's component type is its column
// vector and the index right after it lands in the TypeVector case.
func (d *Disassembler) disassembleAccessChain(op *Operation) string {
	if len(op.Args) == 0 {
		return "?"
	}
	var b strings.Builder
	b.WriteString(d.arg(op, 0))
	curType := d.pointeeTypeOf(op.Args[0])

	for i := 1; i < len(op.Args); i++ {
		idx, isConst := d.constIndex(op.Args[i])
		seg, next := d.typeChainSegment(curType, d.arg(op, i), idx, isConst)
		b.WriteString(seg)
		curType = next
	}
	return b.String()
}

// typeChainSegment renders one step of an access/extract/insert chain
// against curType: ".field" for a constant struct index (using the
// member's recorded name, falling back to "field<i>" if the struct was
// declared without OpMemberName), ".x"/".y"/".z"/".w" for a constant
// vector index, and "[idx]" — using idxExpr, which may itself be a
// rendered dynamic expression — for everything else (arrays, matrices,
// and any non-constant index). Returns the segment and the type the
// chain continues from.
func (d *Disassembler) typeChainSegment(curType ID, idxExpr string, idxConst int, isConst bool) (string, ID) {
	decl, ok := d.typeDeclOf(curType)
	if !ok {
		return fmt.Sprintf("[%s]", idxExpr), 0
	}
	switch decl.Kind {
	case TypeVector:
		if isConst && idxConst >= 0 && idxConst < 4 {
			return fmt.Sprintf(".%c", swizzleLetter(uint32(idxConst))), decl.ComponentType
		}
		return fmt.Sprintf("[%s]", idxExpr), decl.ComponentType
	case TypeMatrix, TypeArray, TypeRuntimeArray:
		return fmt.Sprintf("[%s]", idxExpr), decl.ComponentType
	case TypeStruct:
		if isConst && idxConst >= 0 && idxConst < len(decl.Members) {
			name := decl.Members[idxConst].Name
			if name == "" {
				name = fmt.Sprintf("field%d", idxConst)
			}
			return "." + name, decl.Members[idxConst].Type
		}
		return fmt.Sprintf("[%s]", idxExpr), 0
	default:
		return fmt.Sprintf("[%s]", idxExpr), 0
	}
}

// compositeChain renders a CompositeExtract/CompositeInsert literal
// index list against baseType using the same per-step rules as an
// access chain's dynamic indices.
func (d *Disassembler) compositeChain(baseType ID, literals []uint32) string {
	var b strings.Builder
	cur := baseType
	for _, lit := range literals {
		seg, next := d.typeChainSegment(cur, fmt.Sprint(lit), int(lit), true)
		b.WriteString(seg)
		cur = next
	}
	return b.String()
}

// valueTypeOf resolves the type of a composite value (as opposed to
// pointeeTypeOf, which dereferences a pointer) — the type CompositeExtract
// and CompositeInsert index into.
func (d *Disassembler) valueTypeOf(id ID) ID {
	inst, ok := d.m.GetByID(id)
	if !ok {
		return 0
	}
	switch p := inst.Payload.(type) {
	case *Operation:
		return p.ResultType
	case *Constant:
		return p.Type
	default:
		return 0
	}
}

// pointeeTypeOf resolves the type an access-chain base resolves to:
// the variable's pointee, or the prior link's own result type (already
// a pointer into the next level).
func (d *Disassembler) pointeeTypeOf(id ID) ID {
	inst, ok := d.m.GetByID(id)
	if !ok {
		return 0
	}
	var ptrType ID
	switch p := inst.Payload.(type) {
	case *Variable:
		ptrType = p.PointerType
	case *Operation:
		ptrType = p.ResultType
	default:
		return 0
	}
	typeInst, ok := d.m.GetByID(ptrType)
	if !ok {
		return 0
	}
	decl, ok := typeInst.Payload.(*TypeDecl)
	if !ok || decl.Kind != TypePointer {
		return 0
	}
	return decl.ComponentType
}

func (d *Disassembler) typeDeclOf(id ID) (*TypeDecl, bool) {
	inst, ok := d.m.GetByID(id)
	if !ok {
		return nil, false
	}
	decl, ok := inst.Payload.(*TypeDecl)
	return decl, ok
}

func (d *Disassembler) constIndex(id ID) (int, bool) {
	inst, ok := d.m.GetByID(id)
	if !ok {
		return 0, false
	}
	cst, ok := inst.Payload.(*Constant)
	if !ok {
		return 0, false
	}
	return int(cst.Bits), true
}

func (d *Disassembler) disassembleExtract(inst *Instruction, op *Operation) string {
	if len(op.Args) == 0 {
		return "?"
	}
	return d.arg(op, 0) + d.compositeChain(d.valueTypeOf(op.Args[0]), op.Literals)
}

// disassembleInsert renders the collapsed form of a CompositeInsert:
// <source><chain> = <new_value>. This is the shape spec.md §4.4
// describes for an insert folded into a surrounding store to the same
// base; an unfolded CompositeInsert reached as a full statement is
// instead expanded into the two-statement `tmp = <source>;
// tmp<chain> = <new_value>;` form directly by the control-flow
// rebuilder, which is the only place that can emit two output lines
// for one instruction.
func (d *Disassembler) disassembleInsert(inst *Instruction, op *Operation) string {
	if len(op.Args) < 2 {
		return "?"
	}
	chain := d.compositeChain(d.valueTypeOf(op.Args[0]), op.Literals)
	return fmt.Sprintf("%s%s = %s", d.arg(op, 0), chain, d.arg(op, 1))
}

func (d *Disassembler) disassembleConstruct(inst *Instruction, op *Operation) string {
	parts := make([]string, len(op.Args))
	for i := range op.Args {
		parts[i] = d.arg(op, i)
	}
	return fmt.Sprintf("%s(%s)", d.types.TypeName(op.ResultType), strings.Join(parts, ", "))
}

func (d *Disassembler) disassembleShuffle(inst *Instruction, op *Operation) string {
	if len(op.Args) < 2 {
		return "?"
	}
	vecLen := len(op.Literals)
	name1 := d.arg(op, 0)
	name2 := d.arg(op, 1)
	len1 := d.vectorLength(op.Args[0])
	swizzle := make([]byte, 0, vecLen)
	singleSource := true
	for _, sel := range op.Literals {
		if sel == 0xffffffff {
			swizzle = append(swizzle, '?')
			continue
		}
		idx := sel
		if int(idx) >= len1 {
			singleSource = false
			idx -= uint32(len1)
		}
		swizzle = append(swizzle, swizzleLetter(idx))
	}
	if singleSource {
		return fmt.Sprintf("%s.%s", name1, string(swizzle))
	}
	return fmt.Sprintf("shuffle(%s, %s, %s)", name1, name2, string(swizzle))
}

func (d *Disassembler) vectorLength(id ID) int {
	inst, ok := d.m.GetByID(id)
	if !ok {
		return 0
	}
	var typeID ID
	switch p := inst.Payload.(type) {
	case *Operation:
		typeID = p.ResultType
	case *Variable:
		typeID = p.PointerType
	default:
		return 0
	}
	typeInst, ok := d.m.GetByID(typeID)
	if !ok {
		return 0
	}
	decl, ok := typeInst.Payload.(*TypeDecl)
	if !ok || decl.Kind != TypeVector {
		return 0
	}
	return int(decl.ComponentCount)
}

func swizzleLetter(i uint32) byte {
	letters := "xyzw"
	if int(i) < len(letters) {
		return letters[i]
	}
	return '?'
}

func (d *Disassembler) disassembleCall(op *Operation) string {
	target := d.nameOf(op.CallTarget)
	parts := make([]string, len(op.Args))
	for i := range op.Args {
		parts[i] = d.arg(op, i)
	}
	return fmt.Sprintf("%s(%s)", target, strings.Join(parts, ", "))
}

// glslStd450Names covers the handful of GLSL.std.450 opcodes common
// enough in shader IR to be worth a readable name; anything else
// renders through its numeric index.
var glslStd450Names = map[uint32]string{
	1: "Round", 4: "FAbs", 5: "SAbs", 6: "FSign", 7: "SSign",
	8: "Floor", 9: "Ceil", 10: "Fract", 11: "Radians", 12: "Degrees",
	13: "Sin", 14: "Cos", 15: "Tan", 26: "Pow", 27: "Exp", 28: "Log",
	29: "Exp2", 30: "Log2", 31: "Sqrt", 32: "InverseSqrt",
	37: "FMin", 38: "UMin", 39: "SMin", 40: "FMax", 41: "UMax", 42: "SMax",
	43: "FClamp", 46: "FMix", 66: "Length", 67: "Distance", 68: "Cross",
	69: "Normalize", 71: "Reflect", 72: "Refract",
}

func (d *Disassembler) disassembleExtInst(op *Operation) string {
	name := fmt.Sprintf("ext%d", op.ExtOp)
	if set, ok := d.m.ExtInstSets[op.ExtSet]; ok && set.Name == "GLSL.std.450" {
		if n, ok := glslStd450Names[op.ExtOp]; ok {
			name = n
		}
	}
	parts := make([]string, len(op.Args))
	for i := range op.Args {
		parts[i] = d.arg(op, i)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

func (d *Disassembler) disassemblePhi(op *Operation) string {
	parts := make([]string, 0, len(op.Args)/2)
	for i := 0; i+1 < len(op.Args); i += 2 {
		parts = append(parts, fmt.Sprintf("%s: %s", d.nameOf(op.Args[i+1]), d.arg(op, i)))
	}
	return fmt.Sprintf("phi(%s)", strings.Join(parts, ", "))
}

func (d *Disassembler) disassembleFallback(inst *Instruction, op *Operation) string {
	parts := make([]string, len(op.Args))
	for i := range op.Args {
		parts[i] = d.arg(op, i)
	}
	return fmt.Sprintf("%s(%s)", inst.Opcode.String(), strings.Join(parts, ", "))
}

// Statement renders a void-result instruction (Store, CopyMemory, Kill,
// Return, ReturnValue, FunctionCall used for side effect) as a complete
// statement line, without a trailing semicolon; the control-flow
// rebuilder owns indentation and punctuation.
func (d *Disassembler) Statement(inst *Instruction) string {
	switch inst.Opcode {
	case OpStore:
		return d.statementStore(inst)
	case OpCopyMemory:
		op := inst.Payload.(*Operation)
		return fmt.Sprintf("%s = %s", d.arg(op, 0), d.arg(op, 1))
	case OpFunctionCall:
		return d.disassembleInst(inst)
	case OpKill:
		return "discard"
	case OpReturn:
		return "return"
	case OpReturnValue:
		fc := inst.Payload.(*FlowControl)
		return fmt.Sprintf("return %s", d.nameOf(fc.Condition))
	}
	return d.disassembleInst(inst)
}

// statementStore renders an OpStore, collapsing the common "store of a
// just-computed CompositeInsert" shape (already folded by
// mergeAdjacentStoreOfTemp) into the indexed assignment
// `<dst><chain> = <new_value>` rather than an assignment whose
// right-hand side is the insert's own text.
func (d *Disassembler) statementStore(inst *Instruction) string {
	op := inst.Payload.(*Operation)
	dst := d.arg(op, 0)
	if op.Folded(1) {
		if src, ok := d.m.GetByID(op.Args[1]); ok {
			if srcOp, ok := src.Payload.(*Operation); ok && src.Opcode == OpCompositeInsert && len(srcOp.Args) >= 2 {
				chain := d.compositeChain(d.pointeeTypeOf(op.Args[0]), srcOp.Literals)
				return fmt.Sprintf("%s%s = %s", dst, chain, d.arg(srcOp, 1))
			}
		}
	}
	return fmt.Sprintf("%s = %s", dst, d.arg(op, 1))
}
