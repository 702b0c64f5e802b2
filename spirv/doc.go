// Package spirv provides the raw SPIR-V vocabulary (opcodes, decorations,
// storage classes, version numbers) and a low-level binary encoder.
//
// It no longer compiles an in-memory IR down to SPIR-V; that forward
// direction belonged to a pipeline this repository does not build. What
// remains, and is used throughout, is the wire format's shared vocabulary
// (package-level consts matching the Khronos numbering) and ModuleBuilder,
// a word-at-a-time encoder for constructing well-formed SPIR-V binaries.
//
// # Building fixtures
//
// The disasm package's tests use ModuleBuilder to construct known-good
// SPIR-V modules rather than hand-writing uint32 word slices:
//
//	b := spirv.NewModuleBuilder(spirv.Version1_3)
//	b.AddCapability(spirv.CapabilityShader)
//	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//	voidType := b.AddTypeVoid()
//	fnType := b.AddTypeFunction(voidType)
//	fn := b.AddFunction(fnType, voidType, spirv.FunctionControlNone)
//	b.AddLabel()
//	b.AddReturn()
//	b.AddFunctionEnd()
//	binary := b.Build()
//
// cmd/spvdis's "emit-sample" subcommand uses the same builder to produce
// a small sample module for smoke-testing the decompiler.
//
// # Module layout
//
// SPIR-V modules are a fixed 5-word header followed by sections in a
// mandated order: capabilities, extensions, extended-instruction-set
// imports, the memory model, entry points, execution modes, debug strings
// and names, annotations, types and constants, global variables, then
// function bodies. ModuleBuilder tracks each section separately and
// concatenates them in this order on Build.
package spirv
