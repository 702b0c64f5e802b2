// Package spirv provides the raw SPIR-V vocabulary (opcodes, enums, the
// binary header layout) and a low-level word encoder.
//
// It no longer compiles naga IR to SPIR-V: that forward direction, and the
// ir package it depended on, were dropped when this module was retargeted
// into a SPIR-V decompiler (see the disasm package). What remains here is
// the binary format's shared vocabulary and a builder for constructing
// well-formed SPIR-V modules word-by-word — used throughout disasm's test
// suite to build fixtures instead of hand-writing uint32 slices.
package spirv

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions.
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Options groups SPIR-V generation settings. ModuleBuilder does not read
// it: NewModuleBuilder takes its Version argument directly.
type Options struct {
	Version      Version
	Capabilities []Capability
	Debug        bool
	Validation   bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Version:    Version1_3,
		Debug:      false,
		Validation: true,
	}
}

// SPIR-V magic number and generator constants.
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // unregistered generator
)

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes used by the encoder and by disasm's fixture builders. Numeric
// values per the Khronos SPIR-V specification.
const (
	OpNop                           OpCode = 0
	OpUndef                         OpCode = 1
	OpSourceContinued               OpCode = 2
	OpSource                        OpCode = 3
	OpSourceExtension               OpCode = 4
	OpName                          OpCode = 5
	OpMemberName                    OpCode = 6
	OpString                        OpCode = 7
	OpExtension                     OpCode = 10
	OpExtInstImport                 OpCode = 11
	OpExtInst                       OpCode = 12
	OpMemoryModel                   OpCode = 14
	OpEntryPoint                    OpCode = 15
	OpExecutionMode                 OpCode = 16
	OpCapability                    OpCode = 17
	OpTypeVoid                      OpCode = 19
	OpTypeBool                      OpCode = 20
	OpTypeInt                       OpCode = 21
	OpTypeFloat                     OpCode = 22
	OpTypeVector                    OpCode = 23
	OpTypeMatrix                    OpCode = 24
	OpTypeImage                     OpCode = 25
	OpTypeSampler                   OpCode = 26
	OpTypeSampledImage              OpCode = 27
	OpTypeArray                     OpCode = 28
	OpTypeRuntimeArray              OpCode = 29
	OpTypeStruct                    OpCode = 30
	OpTypePointer                   OpCode = 32
	OpTypeFunction                  OpCode = 33
	OpConstantTrue                  OpCode = 41
	OpConstantFalse                 OpCode = 42
	OpConstant                      OpCode = 43
	OpConstantComposite             OpCode = 44
	OpConstantSampler               OpCode = 45
	OpFunction                      OpCode = 54
	OpFunctionParameter             OpCode = 55
	OpFunctionEnd                   OpCode = 56
	OpFunctionCall                  OpCode = 57
	OpVariable                      OpCode = 59
	OpLoad                          OpCode = 61
	OpStore                         OpCode = 62
	OpAccessChain                   OpCode = 65
	OpDecorate                      OpCode = 71
	OpMemberDecorate                OpCode = 72
	OpDecorationGroup               OpCode = 73
	OpGroupDecorate                 OpCode = 74
	OpGroupMemberDecorate           OpCode = 75
	OpVectorShuffle                 OpCode = 79
	OpCompositeConstruct            OpCode = 80
	OpCompositeExtract              OpCode = 81
	OpCompositeInsert               OpCode = 82
	OpTranspose                     OpCode = 84
	OpSampledImage                  OpCode = 86
	OpImageSampleImplicitLod        OpCode = 87
	OpConvertFToU                   OpCode = 109
	OpConvertFToS                   OpCode = 110
	OpConvertSToF                   OpCode = 111
	OpConvertUToF                   OpCode = 112
	OpBitcast                       OpCode = 124
	OpSNegate                       OpCode = 126
	OpFNegate                       OpCode = 127
	OpIAdd                          OpCode = 128
	OpFAdd                          OpCode = 129
	OpISub                          OpCode = 130
	OpFSub                          OpCode = 131
	OpIMul                          OpCode = 132
	OpFMul                          OpCode = 133
	OpUDiv                          OpCode = 134
	OpSDiv                          OpCode = 135
	OpFDiv                          OpCode = 136
	OpVectorTimesScalar             OpCode = 142
	OpDot                           OpCode = 148
	OpSelect                        OpCode = 169
	OpPhi                           OpCode = 245
	OpLoopMerge                     OpCode = 246
	OpSelectionMerge                OpCode = 247
	OpLabel                         OpCode = 248
	OpBranch                        OpCode = 249
	OpBranchConditional             OpCode = 250
	OpSwitch                        OpCode = 251
	OpKill                          OpCode = 252
	OpReturn                        OpCode = 253
	OpReturnValue                   OpCode = 254
	OpUnreachable                   OpCode = 255
)

// AddressingModel is the OpMemoryModel addressing model operand.
type AddressingModel uint32

const (
	AddressingModelLogical AddressingModel = 0
	AddressingModelPhysical32 AddressingModel = 1
	AddressingModelPhysical64 AddressingModel = 2
)

// MemoryModel is the OpMemoryModel memory model operand.
type MemoryModel uint32

const (
	MemoryModelSimple  MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
	MemoryModelOpenCL  MemoryModel = 2
	MemoryModelVulkan  MemoryModel = 3
)

// ExecutionModel is the OpEntryPoint execution model operand.
type ExecutionModel uint32

const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry                ExecutionModel = 3
	ExecutionModelFragment                ExecutionModel = 4
	ExecutionModelGLCompute                ExecutionModel = 5
	ExecutionModelKernel                   ExecutionModel = 6
)

// ExecutionMode is the OpExecutionMode mode operand.
type ExecutionMode uint32

const (
	ExecutionModeInvocations          ExecutionMode = 0
	ExecutionModeOriginUpperLeft      ExecutionMode = 7
	ExecutionModeOriginLowerLeft      ExecutionMode = 8
	ExecutionModeDepthReplacing       ExecutionMode = 12
	ExecutionModeLocalSize            ExecutionMode = 17
	ExecutionModeVecTypeHint          ExecutionMode = 30
)

// StorageClass is the variable/pointer storage class operand.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
)

// FunctionControl is the OpFunction function-control mask.
type FunctionControl uint32

const (
	FunctionControlNone FunctionControl = 0
)

// SelectionControl is the OpSelectionMerge selection-control mask.
type SelectionControl uint32

const (
	SelectionControlNone SelectionControl = 0
)

// LoopControl is the OpLoopMerge loop-control mask.
type LoopControl uint32

const (
	LoopControlNone LoopControl = 0
)

// Capability represents a SPIR-V capability.
type Capability uint32

// Commonly used capabilities.
const (
	CapabilityMatrix Capability = 0
	CapabilityShader Capability = 1
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

// Commonly used decorations.
const (
	DecorationRelaxedPrecision Decoration = 0
	DecorationBlock            Decoration = 2
	DecorationBufferBlock      Decoration = 3
	DecorationRowMajor         Decoration = 4
	DecorationColMajor         Decoration = 5
	DecorationArrayStride      Decoration = 6
	DecorationMatrixStride     Decoration = 7
	DecorationGLSLShared       Decoration = 8
	DecorationBuiltIn          Decoration = 11
	DecorationNoPerspective    Decoration = 13
	DecorationFlat             Decoration = 14
	DecorationPatch            Decoration = 15
	DecorationCentroid         Decoration = 16
	DecorationSample           Decoration = 17
	DecorationInvariant        Decoration = 18
	DecorationLocation         Decoration = 30
	DecorationComponent        Decoration = 31
	DecorationIndex            Decoration = 32
	DecorationBinding          Decoration = 33
	DecorationDescriptorSet    Decoration = 34
	DecorationOffset           Decoration = 35
	DecorationSpecId           Decoration = 1
)
