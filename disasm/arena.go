package disasm

// ID is an SSA result-ID: a non-zero integer naming the single definition
// of a value in a module. 0 means "no result" (an instruction like
// OpReturn or OpStore that produces no value).
type ID uint32

// Module is the in-memory graph a binary SPIR-V buffer decodes into. It
// is the sole ownership root: every Instruction pointer below is a
// non-owning reference into ids/operations and becomes invalid once the
// Module is released.
//
// Grounded on the teacher's arena/handle idiom (ir.Module's parallel
// typed slices addressed by integer handle), generalized from naga's
// closed per-kind arenas to one arena keyed by the wire format's own
// SSA IDs.
type Module struct {
	Version   uint32 // packed major<<16 | minor<<8
	Generator uint32
	Bound     uint32

	SourceLang    SourceLanguage
	SourceVersion uint32
	SourceExts    []string
	SourceFiles   []string // OpString-named source files, if any

	Capabilities []Capability

	// ids maps every allocated result-ID to its Instruction, including
	// the dummy placeholders allocPlaceholder creates.
	ids map[ID]*Instruction

	// operations owns every Instruction ever allocated; ids is a view
	// over the same pointers keyed by result-ID.
	operations []*Instruction

	Entries []*EntryPoint
	Structs []*Instruction // TypeDecl instructions with a Struct payload
	Globals []*Instruction // Variable instructions outside any function
	Funcs   []*Function

	ExtInstSets map[ID]*ExtInstSet

	Errors []*Error
}

// NewModule creates an empty module with room for idBound instructions.
func NewModule(idBound uint32) *Module {
	return &Module{
		Bound: idBound,
		ids:   make(map[ID]*Instruction, idBound),
	}
}

// GetByID resolves a result-ID to its Instruction. Every ID in
// [0, Bound) that the parser has touched resolves, per spec property 2
// ("lookup totality"); an ID the parser never saw (valid per the header
// bound but unreferenced by any instruction) returns ok=false.
func (m *Module) GetByID(id ID) (*Instruction, bool) {
	inst, ok := m.ids[id]
	return inst, ok
}

// allocPlaceholder creates (or returns the existing) dummy Instruction
// for id. The parser uses it for OpExtInstImport and OpDecorationGroup
// ids only; an operand ID that refers forward gets no placeholder (it
// resolves once its own instruction is recorded), and an unknown opcode
// is recorded as a real instruction.
func (m *Module) allocPlaceholder(id ID) *Instruction {
	if inst, ok := m.ids[id]; ok {
		return inst
	}
	inst := &Instruction{ID: id, Opcode: OpUndef, Payload: nil}
	m.ids[id] = inst
	m.operations = append(m.operations, inst)
	return inst
}

// record finalizes a real (non-placeholder) instruction under id,
// reusing any placeholder already allocated for it so existing
// references stay valid.
func (m *Module) record(id ID, inst *Instruction) {
	if id == 0 {
		m.operations = append(m.operations, inst)
		return
	}
	if existing, ok := m.ids[id]; ok {
		*existing = *inst
		m.operations = append(m.operations, existing)
		return
	}
	m.ids[id] = inst
	m.operations = append(m.operations, inst)
}

func (m *Module) logWarning(kind ErrorKind, message string, id ID) {
	m.Errors = append(m.Errors, NewErrorWithID(kind, message, uint32(id)))
}

// Instruction is the universal node of the module graph: one opcode tag,
// an optional result-ID and name, and exactly one payload variant.
type Instruction struct {
	Opcode Opcode
	ID     ID // 0 = no result

	Name       string // from OpName, stripped at the first '(' if present
	MemberName map[uint32]string

	Decorations []InstructionDecoration

	// Source position fields. The parser skips OpLine and never sets
	// them, so they stay zero.
	File   string
	Line   int
	Column int

	Payload any // one of TypeDecl, Constant, Variable, Operation, FlowControl, Block
}

// InstructionDecoration is a single OpDecorate/OpMemberDecorate applied
// to an instruction, or to one of its struct members when Member >= 0.
type InstructionDecoration struct {
	Decoration Decoration
	Params     []uint32
	Member     int // -1 unless this came from OpMemberDecorate
}

// HasDecoration reports whether d is present on the instruction, ignoring
// member-scoped decorations.
func (inst *Instruction) HasDecoration(d Decoration) bool {
	for _, dec := range inst.Decorations {
		if dec.Member < 0 && dec.Decoration == d {
			return true
		}
	}
	return false
}

// DecorationParams returns the operand words of the first non-member
// occurrence of d, and whether it was found.
func (inst *Instruction) DecorationParams(d Decoration) ([]uint32, bool) {
	for _, dec := range inst.Decorations {
		if dec.Member < 0 && dec.Decoration == d {
			return dec.Params, true
		}
	}
	return nil, false
}

// IDName renders the instruction's display name: its OpName-derived
// name if set, otherwise DefaultIDName(id).
func (inst *Instruction) IDName() string {
	if inst.Name != "" {
		return inst.Name
	}
	return DefaultIDName(uint32(inst.ID))
}

// TypeDeclKind tags which TypeDecl variant a type instruction carries.
type TypeDeclKind uint8

const (
	TypeVoid TypeDeclKind = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeVector
	TypeMatrix
	TypeArray
	TypeRuntimeArray
	TypePointer
	TypeStruct
	TypeImage
	TypeSampler
	TypeSampledImage
	TypeFunction
)

// TypeDecl is the payload of an instruction declaring a type.
type TypeDecl struct {
	Kind TypeDeclKind

	// Scalar / vector / matrix component info.
	Signed bool // Int only
	Width  uint32

	ComponentType ID // Vector, Matrix (column type), Pointer (pointee), RuntimeArray/Array element
	ComponentCount uint32 // Vector size, Matrix column count

	// Array.
	ArrayLength ID // the constant instruction giving the element count

	// Pointer.
	StorageClass StorageClass

	// Struct.
	Members []StructMember

	// Image.
	SampledType  ID
	Dim          Dim
	Depth        uint32 // 0 no, 1 yes, 2 unknown
	Arrayed      bool
	Multisampled bool
	Sampled      uint32 // 0 unknown, 1 sampled, 2 storage
	ImageFormat  uint32

	// SampledImage.
	ImageType ID

	// Function.
	ReturnType ID
	ParamTypes []ID
}

// StructMember is one (type, name, decorations) triple of a struct type.
type StructMember struct {
	Type        ID
	Name        string
	Decorations []InstructionDecoration
}

// Constant is the payload of a constant-declaring instruction.
type Constant struct {
	Type ID

	// Raw payload, truncated to 64 bits if the producer declared more
	// (see the >64-bit open question: we truncate and log
	// UnsupportedConstruct rather than reject).
	Bits uint64

	// Composite children (for ConstantComposite); nil for scalars.
	Children []ID

	// Present only for OpConstantSampler: addressing mode, normalized
	// flag, filter mode, inline per spec §3's "sampler-descriptor
	// literal" and SPEC_FULL's supplemented feature 8.
	Sampler *SamplerLiteral
}

// SamplerLiteral is an inline sampler description carried by
// OpConstantSampler, rendered by the constant printer as
// Sampler(<addressing>, <normalized>, <filter>).
type SamplerLiteral struct {
	AddressingMode uint32
	Normalized     bool
	FilterMode     uint32
}

// Variable is the payload of an OpVariable instruction.
type Variable struct {
	PointerType  ID
	StorageClass StorageClass
	Initializer  ID // 0 if none
}

// Operation is the payload of a general computational instruction
// (arithmetic, loads/stores, calls, composite manipulation, ...).
type Operation struct {
	ResultType ID
	Args       []ID     // operand instruction IDs, in source order (OpCompositeInsert: composite, then object)
	Literals   []uint32 // trailing literal words (indices, selectors, ...)

	MemoryAccess uint32 // memory-access mask, if the opcode carries one
	CallTarget   ID     // OpFunctionCall's target function ID

	ExtSet ID     // OpExtInst's imported-set ID
	ExtOp  uint32 // OpExtInst's instruction index within the set

	// Mutable annotations owned by this payload, written by the inliner
	// (§4.5) and read by the control-flow rebuilder (§4.6). Discardable
	// once text output is produced.
	Complexity int
	InlineArgs uint32 // bitset over Args indices
	Line       int
}

// Folded reports whether argument index i has been folded into its
// consumer by the inliner.
func (op *Operation) Folded(i int) bool {
	return op.InlineArgs&(1<<uint(i)) != 0
}

// SetFolded marks argument index i as folded.
func (op *Operation) SetFolded(i int) {
	op.InlineArgs |= 1 << uint(i)
}

// FlowControl is the payload of OpSelectionMerge / OpLoopMerge /
// OpBranch / OpBranchConditional / OpSwitch / OpReturn / OpReturnValue /
// OpKill / OpUnreachable — anything that can end a block or annotate its
// merge behavior.
type FlowControl struct {
	SelectionControl uint32 // set by OpSelectionMerge
	LoopControl      uint32 // set by OpLoopMerge
	ContinueTarget   ID     // OpLoopMerge's continue-target block

	Condition ID // OpBranchConditional's condition, OpReturnValue's value

	// Branch weights, switch literals, or similar trailing literals.
	Literals []uint32

	// Targets[0] is the unconditional/true branch or the merge block
	// (for OpSelectionMerge/OpLoopMerge); Targets[1] is the false
	// branch for OpBranchConditional. OpSwitch lists case targets after.
	Targets []ID

	IsMerge      bool // true for OpSelectionMerge / OpLoopMerge themselves
	IsTerminator bool // true for Branch/BranchConditional/Switch/Return/ReturnValue/Kill/Unreachable
}

// Block is a maximal run of instructions ending in a terminator, named
// by its opening OpLabel.
type Block struct {
	Label ID

	// Members is the ordered instruction list within the block,
	// excluding the opening label and the mergeFlow/exitFlow
	// instructions (those live in MergeFlow/ExitFlow below).
	Members []*Instruction

	// MergeFlow is the block's OpSelectionMerge/OpLoopMerge, if any; it
	// does not end the block.
	MergeFlow *Instruction

	// ExitFlow is the block's terminator. It stays nil for a block that
	// OpFunctionEnd closes without one; the parser records no error for
	// that, and the control-flow rebuilder stops at such a block.
	ExitFlow *Instruction
}

// Function is the payload-bearing container for one OpFunction ..
// OpFunctionEnd range.
type Function struct {
	ID         ID
	ReturnType ID
	FuncType   ID
	Control    uint32

	Params []*Instruction // OpFunctionParameter instructions, in order

	Blocks    []*Block // ordered; Blocks[0] is the entry block
	Variables []*Instruction // function-local OpVariable instructions
}

// EntryPoint is the payload of an OpEntryPoint declaration.
type EntryPoint struct {
	Function       ID
	ExecutionModel ExecutionModel
	Name           string
	Interface      []ID

	Modes []ExecutionModeValue
}

// ExecutionModeValue is one OpExecutionMode applied to an entry point.
type ExecutionModeValue struct {
	Mode    ExecutionMode
	Literals []uint32
}

// ExtInstSet is an imported extended instruction set (e.g.
// "GLSL.std.450"), recorded by ID and name. Only GLSL.std.450 gets
// readable instruction names, from expr.go's glslStd450Names table;
// instructions of any other set render by number.
type ExtInstSet struct {
	ID   ID
	Name string
}
