package spvdis

import (
	"testing"

	"github.com/gogpu/spvdis/spirv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompileEmptyModule(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	words, err := WordsFromBytes(b.Build())
	require.NoError(t, err)

	result, err := Decompile(words)
	require.NoError(t, err)
	assert.Empty(t, result.Functions)
	assert.Empty(t, result.Reflections)
}

func TestWordsFromBytesRejectsUnalignedInput(t *testing.T) {
	_, err := WordsFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestDecompileWithOptionsRestoresGlobals(t *testing.T) {
	before := DefaultOptions()

	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	words, err := WordsFromBytes(b.Build())
	require.NoError(t, err)

	_, err = DecompileWithOptions(words, DecompileOptions{NoInlineComplexity: 9, CompositeConstructCap: 9})
	require.NoError(t, err)

	after := DefaultOptions()
	assert.Equal(t, before, after, "inliner tunables must be restored after the call")
}
