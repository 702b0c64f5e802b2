package disasm

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/spvdis/spirv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordsFromBytes reinterprets a little-endian SPIR-V binary, as produced
// by spirv.ModuleBuilder.Build, as the []uint32 word stream Parse wants.
func wordsFromBytes(t *testing.T, b []byte) []uint32 {
	t.Helper()
	require.Equal(t, 0, len(b)%4, "binary length must be word-aligned")
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words
}

// buildAbsFunction assembles a tiny module:
//
//	float main(float x) {
//	    if (x < 0.0) {
//	        x = -x;
//	    }
//	    return x;
//	}
//
// exercising OpFunctionParameter, a structured selection with no else
// branch, an OpPhi at the merge block, and OpReturnValue.
func buildAbsFunction(t *testing.T) []uint32 {
	t.Helper()
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.Capability(1)) // Shader
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	floatTy := b.AddTypeFloat(32)
	boolTy := b.AddTypeBool()
	fnTy := b.AddTypeFunction(floatTy, floatTy)
	zero := b.AddConstantFloat32(floatTy, 0.0)

	fn := b.AddFunction(fnTy, floatTy, spirv.FunctionControl(0))
	param := b.AddFunctionParameter(floatTy)

	entry := b.AddLabel()
	cond := b.AddBinaryOp(spirv.OpCode(184), boolTy, param, zero) // OpFOrdLessThan
	// AddLabel takes the next free ID, so the branch targets are known in
	// advance: the true label follows cond, then the negation, then the
	// merge label.
	trueLabel := cond + 1
	merge := cond + 3
	b.AddSelectionMerge(merge, spirv.SelectionControl(0))
	b.AddBranchConditional(cond, trueLabel, merge)

	gotTrueLabel := b.AddLabel()
	require.Equal(t, trueLabel, gotTrueLabel)
	neg := b.AddUnaryOp(spirv.OpCode(127), floatTy, param) // OpFNegate
	b.AddBranch(merge)

	gotMerge := b.AddLabel()
	require.Equal(t, merge, gotMerge)
	result := b.AddPhi(floatTy, neg, trueLabel, param, entry)
	b.AddReturnValue(result)
	b.AddFunctionEnd()

	b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", nil)

	return wordsFromBytes(t, b.Build())
}

func TestParseAndDecompileAbsFunction(t *testing.T) {
	words := buildAbsFunction(t)

	m, err := Parse(words)
	require.NoError(t, err)
	require.Len(t, m.Funcs, 1)

	result := Decompile(m)
	fn := m.Funcs[0]
	body, ok := result.Functions[fn.ID]
	require.True(t, ok)

	assert.Contains(t, body, "if (")
	assert.Contains(t, body, "return")
}

func TestDisassemblerFoldsConstantArguments(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	floatTy := b.AddTypeFloat(32)
	fnTy := b.AddTypeFunction(floatTy)
	one := b.AddConstantFloat32(floatTy, 1.0)
	two := b.AddConstantFloat32(floatTy, 2.0)

	b.AddFunction(fnTy, floatTy, spirv.FunctionControl(0))
	b.AddLabel()
	sum := b.AddBinaryOp(spirv.OpCode(129), floatTy, one, two) // OpFAdd
	b.AddReturnValue(sum)
	b.AddFunctionEnd()

	words := wordsFromBytes(t, b.Build())
	m, err := Parse(words)
	require.NoError(t, err)

	f := m.Funcs[0]
	RunInliner(m, f)
	body := BuildFunction(m, f, NewDisassembler(m))

	assert.Contains(t, body, "1")
	assert.Contains(t, body, "2")
}

func TestReflectSortsSystemValuesBeforeLocations(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	floatTy := b.AddTypeFloat(32)
	vec4Ty := b.AddTypeVector(floatTy, 4)
	ptrIn := b.AddTypePointer(spirv.StorageClassInput, vec4Ty)

	colorVar := b.AddVariable(ptrIn, spirv.StorageClassInput)
	b.AddDecorate(colorVar, spirv.Decoration(30), 0) // Location 0
	b.AddName(colorVar, "color")

	posVar := b.AddVariable(ptrIn, spirv.StorageClassInput)
	b.AddDecorate(posVar, spirv.Decoration(11), 0) // BuiltIn Position
	b.AddName(posVar, "gl_Position")

	voidTy := b.AddTypeVoid()
	fnTy := b.AddTypeFunction(voidTy)
	fn := b.AddFunction(fnTy, voidTy, spirv.FunctionControl(0))
	b.AddLabel()
	b.AddReturn()
	b.AddFunctionEnd()

	b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{colorVar, posVar})

	words := wordsFromBytes(t, b.Build())
	m, err := Parse(words)
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)

	types := newTypeNameCache(m)
	refl := Reflect(m, m.Entries[0], types)

	require.Len(t, refl.Inputs, 2)
	assert.True(t, refl.Inputs[0].IsSystem, "system-value input must sort first")
	assert.Equal(t, "color", refl.Inputs[1].Name)
}

func TestBranchWeightStringFormatsPercentages(t *testing.T) {
	assert.Equal(t, "", BranchWeightString(nil))
	assert.Equal(t, "", BranchWeightString([]uint32{1}))
	assert.Equal(t, " [true: 75.00%, false: 25.00%]", BranchWeightString([]uint32{3, 1}))
}
