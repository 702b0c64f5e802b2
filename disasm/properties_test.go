package disasm

import (
	"strings"
	"testing"

	"github.com/gogpu/spvdis/spirv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Property 1: a buffer whose first word is not the SPIR-V magic number
// produces no instructions and a diagnostic, per §7/§8.1.
func TestParseRejectsBadMagic(t *testing.T) {
	words := []uint32{0xdeadbeef, 0x00010300, 0, 1, 0}
	m, err := Parse(words)
	require.Error(t, err)
	assert.Empty(t, m.Funcs)
	assert.Equal(t, uint32(0), m.Bound)
}

// A header shorter than five words is rejected the same way.
func TestParseRejectsShortHeader(t *testing.T) {
	words := []uint32{MagicNumber, 0x00010300}
	_, err := Parse(words)
	require.Error(t, err)
}

// Property 2: after parsing, GetByID(k) succeeds for every ID actually
// assigned to a result by the module (every k in [1, idBound) for a
// well-formed module with no unused ID holes).
func TestParseLookupIsTotalOverAssignedIDs(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	voidTy := b.AddTypeVoid()
	fnTy := b.AddTypeFunction(voidTy)
	fn := b.AddFunction(fnTy, voidTy, spirv.FunctionControl(0))
	b.AddName(fn, "main")
	b.AddLabel()
	b.AddReturn()
	b.AddFunctionEnd()
	b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", nil)

	words := wordsFromBytes(t, b.Build())
	m, err := Parse(words)
	require.NoError(t, err)

	require.Greater(t, m.Bound, uint32(1))
	for k := ID(1); k < ID(m.Bound); k++ {
		_, ok := m.GetByID(k)
		assert.True(t, ok, "id %d must resolve", k)
	}
}

// Property 3: folding must not cross an intervening store to the same
// variable a folded load depends on.
func TestInlinerPuritySoundness(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	floatTy := b.AddTypeFloat(32)
	ptrTy := b.AddTypePointer(spirv.StorageClassFunction, floatTy)
	fnTy := b.AddTypeFunction(floatTy)
	one := b.AddConstantFloat32(floatTy, 1.0)
	two := b.AddConstantFloat32(floatTy, 2.0)

	b.AddFunction(fnTy, floatTy, spirv.FunctionControl(0))
	b.AddLabel()
	v := b.AddVariable(ptrTy, spirv.StorageClassFunction)
	b.AddStore(v, one)
	load := b.AddLoad(floatTy, v)
	b.AddStore(v, two) // intervening store to the same variable
	sum := b.AddBinaryOp(spirv.OpCode(129), floatTy, load, load)
	b.AddReturnValue(sum)
	b.AddFunctionEnd()

	words := wordsFromBytes(t, b.Build())
	m, err := Parse(words)
	require.NoError(t, err)
	require.Len(t, m.Funcs, 1)

	f := m.Funcs[0]
	in := &inliner{m: m, fn: f, index: make(map[ID]int)}
	in.buildOrder()

	loadInst, ok := m.GetByID(ID(load))
	require.True(t, ok)
	sumInst, ok := m.GetByID(ID(sum))
	require.True(t, ok)

	assert.False(t, in.isUnmodified(loadInst, sumInst),
		"a load separated from its use by a store to the same variable must not be pure")
}

// The clean counterpart: no intervening store means the load is pure
// and RunInliner actually folds it into its consumer.
func TestInlinerFoldsPureLoad(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	floatTy := b.AddTypeFloat(32)
	ptrTy := b.AddTypePointer(spirv.StorageClassFunction, floatTy)
	fnTy := b.AddTypeFunction(floatTy)
	one := b.AddConstantFloat32(floatTy, 1.0)

	b.AddFunction(fnTy, floatTy, spirv.FunctionControl(0))
	b.AddLabel()
	v := b.AddVariable(ptrTy, spirv.StorageClassFunction)
	b.AddStore(v, one)
	load := b.AddLoad(floatTy, v)
	sum := b.AddBinaryOp(spirv.OpCode(129), floatTy, load, load) // OpFAdd
	b.AddReturnValue(sum)
	b.AddFunctionEnd()

	words := wordsFromBytes(t, b.Build())
	m, err := Parse(words)
	require.NoError(t, err)

	f := m.Funcs[0]
	RunInliner(m, f)

	sumInst, ok := m.GetByID(ID(sum))
	require.True(t, ok)
	sumOp := sumInst.Payload.(*Operation)
	assert.True(t, sumOp.Folded(0))
	assert.True(t, sumOp.Folded(1))
}

// Property 4: once a function's control-flow rebuild finishes, every
// stack the builder pushes while walking selections and loops has
// unwound back to empty.
func TestControlBuilderStacksEndEmpty(t *testing.T) {
	words := buildNestedIfInLoop(t)
	m, err := Parse(words)
	require.NoError(t, err)
	require.Len(t, m.Funcs, 1)

	f := m.Funcs[0]
	RunInliner(m, f)
	d := NewDisassembler(m)

	cb := &controlBuilder{
		m: m, fn: f, d: d,
		out:  &strings.Builder{},
		seen: make(map[ID]bool),
	}
	cb.walk(f.Blocks[0], 0)

	assert.Empty(t, cb.selectionMerge)
	assert.Empty(t, cb.elseTarget)
	assert.Empty(t, cb.loopHeader)
	assert.Empty(t, cb.loopStart)
	assert.Empty(t, cb.loopMerge)
}

// Property 6: an unconditional branch straight to the very next label,
// where that label has no other reference, must not surface as either
// a goto or a standalone label line.
func TestDeadLabelElision(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	voidTy := b.AddTypeVoid()
	fnTy := b.AddTypeFunction(voidTy)

	b.AddFunction(fnTy, voidTy, spirv.FunctionControl(0))
	a := b.AddLabel()
	b.AddBranch(a + 1) // falls straight through to the very next label
	_ = b.AddLabel()
	b.AddReturn()
	b.AddFunctionEnd()

	words := wordsFromBytes(t, b.Build())
	m, err := Parse(words)
	require.NoError(t, err)

	f := m.Funcs[0]
	RunInliner(m, f)
	body := BuildFunction(m, f, NewDisassembler(m))

	assert.NotContains(t, body, "goto")
	assert.NotContains(t, body, "Label")
}

// Property 7: running the inliner twice produces the same fold
// annotations as running it once — elision is idempotent.
func TestInlinerIdempotence(t *testing.T) {
	words := buildAbsFunction(t)
	m, err := Parse(words)
	require.NoError(t, err)

	f := m.Funcs[0]
	RunInliner(m, f)

	before := snapshotFoldState(f)
	RunInliner(m, f)
	after := snapshotFoldState(f)

	assert.Equal(t, before, after)
}

func snapshotFoldState(f *Function) map[ID]uint32 {
	out := make(map[ID]uint32)
	for _, blk := range f.Blocks {
		for _, inst := range blk.Members {
			if op, ok := inst.Payload.(*Operation); ok {
				out[inst.ID] = op.InlineArgs
			}
		}
	}
	return out
}

// buildNestedIfInLoop assembles:
//
//	void main() {
//	    while (true) {
//	        if (true) {
//	        }
//	    }
//	}
//
// IDs are consecutive from the function's own ID onward since none of
// OpLoopMerge/OpSelectionMerge/OpBranch/OpBranchConditional/OpReturn
// allocate a result ID; this lets every forward branch target below be
// written as a literal one past the previous block's label.
func buildNestedIfInLoop(t *testing.T) []uint32 {
	t.Helper()
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	boolTy := b.AddTypeBool()
	voidTy := b.AddTypeVoid()
	fnTy := b.AddTypeFunction(voidTy)
	cond := b.AddConstant(boolTy, 1)

	fn := b.AddFunction(fnTy, voidTy, spirv.FunctionControl(0))
	b.AddName(fn, "main")

	entry := b.AddLabel()
	header := entry + 1
	bodyStart := entry + 2
	trueLabel := entry + 3
	ifMerge := entry + 4
	loopMerge := entry + 5
	b.AddBranch(header)

	gotHeader := b.AddLabel()
	require.Equal(t, header, gotHeader)
	b.AddLoopMerge(loopMerge, ifMerge, spirv.LoopControl(0))
	b.AddBranchConditional(cond, bodyStart, loopMerge)

	gotBodyStart := b.AddLabel()
	require.Equal(t, bodyStart, gotBodyStart)
	b.AddSelectionMerge(ifMerge, spirv.SelectionControl(0))
	b.AddBranchConditional(cond, trueLabel, ifMerge)

	gotTrueLabel := b.AddLabel()
	require.Equal(t, trueLabel, gotTrueLabel)
	b.AddBranch(ifMerge)

	gotIfMerge := b.AddLabel()
	require.Equal(t, ifMerge, gotIfMerge)
	b.AddBranch(header)

	gotLoopMerge := b.AddLabel()
	require.Equal(t, loopMerge, gotLoopMerge)
	b.AddReturn()
	b.AddFunctionEnd()

	b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", nil)

	return wordsFromBytes(t, b.Build())
}
