package disasm

import (
	"fmt"
	"testing"

	"github.com/gogpu/spvdis/spirv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: an empty void main renders its signature, no body, and the
// trailing name comment, with no blank line where the body would be.
func TestScenarioEmptyMain(t *testing.T) {
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

	result := Decompile(m)
	f := m.Funcs[0]

	rendered := fmt.Sprintf("%s {\n%s} // %s\n", result.Signatures[f.ID], result.Functions[f.ID], result.Names[f.ID])
	assert.Equal(t, "void main() {\n} // main\n", rendered)
}

// S2: storing a non-uniform constant vector into an output variable
// renders as a single assignment with no intermediate temporaries.
func TestScenarioConstantVectorStore(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	floatTy := b.AddTypeFloat(32)
	vec4Ty := b.AddTypeVector(floatTy, 4)
	ptrOut := b.AddTypePointer(spirv.StorageClassOutput, vec4Ty)
	voidTy := b.AddTypeVoid()
	fnTy := b.AddTypeFunction(voidTy)

	c0 := b.AddConstantFloat32(floatTy, 1.0)
	c1 := b.AddConstantFloat32(floatTy, 0.0)
	c2 := b.AddConstantFloat32(floatTy, 0.0)
	c3 := b.AddConstantFloat32(floatTy, 1.0)
	vec := b.AddConstantComposite(vec4Ty, c0, c1, c2, c3)

	outVar := b.AddVariable(ptrOut, spirv.StorageClassOutput)
	b.AddName(outVar, "gl_Position")
	b.AddDecorate(outVar, spirv.Decoration(11), uint32(BuiltInPosition))

	fn := b.AddFunction(fnTy, voidTy, spirv.FunctionControl(0))
	b.AddName(fn, "main")
	b.AddLabel()
	b.AddStore(outVar, vec)
	b.AddReturn()
	b.AddFunctionEnd()
	b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{outVar})

	words := wordsFromBytes(t, b.Build())
	m, err := Parse(words)
	require.NoError(t, err)

	f := m.Funcs[0]
	RunInliner(m, f)
	body := BuildFunction(m, f, NewDisassembler(m))

	assert.Equal(t, "gl_Position = float4(1.0, 0.0, 0.0, 1.0);\n", body)
}

// S4: a structured loop with an early exit renders as a while loop
// containing an if that breaks out.
func TestScenarioWhileLoopWithBreak(t *testing.T) {
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
	b.AddBranch(loopMerge) // break out of the loop

	gotIfMerge := b.AddLabel()
	require.Equal(t, ifMerge, gotIfMerge)
	b.AddBranch(header)

	gotLoopMerge := b.AddLabel()
	require.Equal(t, loopMerge, gotLoopMerge)
	b.AddReturn()
	b.AddFunctionEnd()

	b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", nil)

	words := wordsFromBytes(t, b.Build())
	m, err := Parse(words)
	require.NoError(t, err)

	f := m.Funcs[0]
	RunInliner(m, f)
	body := BuildFunction(m, f, NewDisassembler(m))

	assert.Contains(t, body, "while (")
	assert.Contains(t, body, "if (")
	assert.Contains(t, body, "break;")
}

// S5: an inout call collapses its compiler-introduced staging variable
// entirely, leaving only the call against the real variable.
func TestScenarioInoutCall(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	floatTy := b.AddTypeFloat(32)
	ptrTy := b.AddTypePointer(spirv.StorageClassFunction, floatTy)
	voidTy := b.AddTypeVoid()
	calleeTy := b.AddTypeFunction(voidTy, ptrTy)
	mainTy := b.AddTypeFunction(voidTy)

	callee := b.AddFunction(calleeTy, voidTy, spirv.FunctionControl(0))
	b.AddName(callee, "f")
	b.AddFunctionParameter(ptrTy)
	b.AddLabel()
	b.AddReturn()
	b.AddFunctionEnd()

	mainFn := b.AddFunction(mainTy, voidTy, spirv.FunctionControl(0))
	b.AddName(mainFn, "main")
	b.AddLabel()
	v := b.AddVariable(ptrTy, spirv.StorageClassFunction)
	b.AddName(v, "v")
	tmp := b.AddVariable(ptrTy, spirv.StorageClassFunction)

	srcLoad := b.AddLoad(floatTy, v)
	b.AddStore(tmp, srcLoad)
	b.AddFunctionCall(voidTy, callee, tmp)
	postLoad := b.AddLoad(floatTy, tmp)
	b.AddStore(v, postLoad)
	b.AddReturn()
	b.AddFunctionEnd()

	words := wordsFromBytes(t, b.Build())
	m, err := Parse(words)
	require.NoError(t, err)
	require.Len(t, m.Funcs, 2)

	main := m.Funcs[1]
	require.Equal(t, ID(mainFn), main.ID)

	RunInliner(m, main)
	body := BuildFunction(m, main, NewDisassembler(m))

	assert.Equal(t, "f(v);\n", body)
}

// S6: a two-source vector shuffle renders through the general shuffle
// form, since the renderer does not special-case contiguous half-swaps
// into nested constructors.
func TestScenarioVectorShuffle(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	floatTy := b.AddTypeFloat(32)
	vec4Ty := b.AddTypeVector(floatTy, 4)
	ptrIn := b.AddTypePointer(spirv.StorageClassInput, vec4Ty)
	ptrOut := b.AddTypePointer(spirv.StorageClassOutput, vec4Ty)
	voidTy := b.AddTypeVoid()
	fnTy := b.AddTypeFunction(voidTy)

	aVar := b.AddVariable(ptrIn, spirv.StorageClassInput)
	b.AddName(aVar, "a")
	bVar := b.AddVariable(ptrIn, spirv.StorageClassInput)
	b.AddName(bVar, "b")
	outVar := b.AddVariable(ptrOut, spirv.StorageClassOutput)
	b.AddName(outVar, "out_color")

	fn := b.AddFunction(fnTy, voidTy, spirv.FunctionControl(0))
	b.AddName(fn, "main")
	b.AddLabel()
	aLoad := b.AddLoad(vec4Ty, aVar)
	bLoad := b.AddLoad(vec4Ty, bVar)
	shuffle := b.AddVectorShuffle(vec4Ty, aLoad, bLoad, []uint32{0, 1, 4, 5})
	b.AddStore(outVar, shuffle)
	b.AddReturn()
	b.AddFunctionEnd()

	b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{aVar, bVar, outVar})

	words := wordsFromBytes(t, b.Build())
	m, err := Parse(words)
	require.NoError(t, err)

	f := m.Funcs[0]
	RunInliner(m, f)
	body := BuildFunction(m, f, NewDisassembler(m))

	assert.Equal(t, "out_color = shuffle(a, b, xyxy);\n", body)
}
