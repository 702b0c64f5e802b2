// Package disasm decompiles SPIR-V binary modules into readable,
// C-like pseudocode.
//
// Unlike a disassembler that prints one line per instruction, this
// package reconstructs the structured form a human author would
// plausibly have written: expressions are folded back into their
// consumers, single-use stack variables disappear, and branch/merge
// pairs become if/else and loop blocks.
//
// # Pipeline
//
// Decompiling a module goes through the package's seven components in
// a fixed order:
//
//	Parse(words)        -> *Module              (structural + annotation pass)
//	RunInliner(m, fn)    mutates fn's Operations (dataflow folding)
//	BuildFunction(...)  -> function body text    (control-flow rebuild + expression disassembly)
//	Reflect(m, ep, ...) -> *Reflection           (interface extraction)
//
// Decompile ties all of this together for a whole module:
//
//	words := ... // little-endian SPIR-V words
//	m, err := disasm.Parse(words)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result := disasm.Decompile(m)
//	for id, body := range result.Functions {
//	    fmt.Println(body)
//	    _ = id
//	}
//
// # Error handling
//
// Parse only fails on a malformed header. Everything else — an unknown
// opcode, a dangling reference, a construct the decompiler doesn't
// model — is recorded as an *Error on Module.Errors and logged through
// Decompile's call to logSpan; the rest of the module still decompiles.
package disasm
