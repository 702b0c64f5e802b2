// Package spvdis decompiles SPIR-V binary modules into readable
// pseudocode and extracts their shader-interface reflection.
//
// The package provides a simple, high-level API on top of disasm as
// well as lower-level access to the individual pipeline stages.
//
// Example usage:
//
//	words, err := spvdis.ReadWords(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := spvdis.Decompile(words)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, body := range result.Functions {
//	    fmt.Println(body)
//	}
package spvdis

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/gogpu/spvdis/disasm"
)

// Result is the top-level decompilation output: everything a caller
// needs to print a readable module, wrapped around disasm.Result.
type Result = disasm.Result

// DecompileOptions configures a Decompile call.
type DecompileOptions struct {
	// NoInlineComplexity overrides disasm.NoInlineComplexity when > 0.
	NoInlineComplexity int

	// CompositeConstructCap overrides disasm.CompositeConstructCap when > 0.
	CompositeConstructCap int
}

// DefaultOptions returns the package's built-in inliner tunables.
func DefaultOptions() DecompileOptions {
	return DecompileOptions{
		NoInlineComplexity:    disasm.NoInlineComplexity,
		CompositeConstructCap: disasm.CompositeConstructCap,
	}
}

// ReadWords reads a .spv file from disk and reinterprets its bytes as
// the little-endian word stream Parse expects.
func ReadWords(path string) ([]uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return WordsFromBytes(raw)
}

// WordsFromBytes reinterprets a little-endian SPIR-V binary buffer as
// its []uint32 word stream.
func WordsFromBytes(raw []byte) ([]uint32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("spvdis: binary length %d is not a multiple of 4", len(raw))
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return words, nil
}

// Parse decodes a buffer of SPIR-V words into a *disasm.Module without
// running the decompile pipeline. Useful for tools that only need
// structural inspection (module.Errors, entry points, capabilities).
func Parse(words []uint32) (*disasm.Module, error) {
	return disasm.Parse(words)
}

// Decompile parses words and runs the full pipeline: inlining, control-
// flow rebuild, expression disassembly, and reflection extraction.
func Decompile(words []uint32) (*Result, error) {
	return DecompileWithOptions(words, DefaultOptions())
}

// DecompileWithOptions is Decompile with caller-supplied inliner
// tunables. The package-level disasm.NoInlineComplexity and
// disasm.CompositeConstructCap are process-wide, so options are applied
// for the duration of this call and restored afterward — callers
// running concurrent decompiles with different tunables should
// serialize those calls themselves.
func DecompileWithOptions(words []uint32, opts DecompileOptions) (*Result, error) {
	m, err := disasm.Parse(words)
	if err != nil {
		return nil, fmt.Errorf("spvdis: parse: %w", err)
	}

	restoreComplexity, restoreCap := disasm.NoInlineComplexity, disasm.CompositeConstructCap
	if opts.NoInlineComplexity > 0 {
		disasm.NoInlineComplexity = opts.NoInlineComplexity
	}
	if opts.CompositeConstructCap > 0 {
		disasm.CompositeConstructCap = opts.CompositeConstructCap
	}
	defer func() {
		disasm.NoInlineComplexity, disasm.CompositeConstructCap = restoreComplexity, restoreCap
	}()

	return disasm.Decompile(m), nil
}
