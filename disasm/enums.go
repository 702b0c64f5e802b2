package disasm

import (
	"fmt"
	"strings"
)

// Opcode identifies a SPIR-V instruction's operation.
type Opcode uint16

// Opcodes, numbered per the Khronos SPIR-V specification. Only the subset
// the decompiler needs to name or dispatch on is listed; everything else
// renders through the Opcode.String fallback.
const (
	OpNop                   Opcode = 0
	OpUndef                 Opcode = 1
	OpSourceContinued       Opcode = 2
	OpSource                Opcode = 3
	OpSourceExtension       Opcode = 4
	OpName                  Opcode = 5
	OpMemberName            Opcode = 6
	OpString                Opcode = 7
	OpLine                  Opcode = 8
	OpExtension             Opcode = 10
	OpExtInstImport         Opcode = 11
	OpExtInst               Opcode = 12
	OpMemoryModel           Opcode = 14
	OpEntryPoint            Opcode = 15
	OpExecutionMode         Opcode = 16
	OpCapability            Opcode = 17
	OpTypeVoid              Opcode = 19
	OpTypeBool              Opcode = 20
	OpTypeInt               Opcode = 21
	OpTypeFloat             Opcode = 22
	OpTypeVector            Opcode = 23
	OpTypeMatrix            Opcode = 24
	OpTypeImage             Opcode = 25
	OpTypeSampler           Opcode = 26
	OpTypeSampledImage      Opcode = 27
	OpTypeArray             Opcode = 28
	OpTypeRuntimeArray      Opcode = 29
	OpTypeStruct            Opcode = 30
	OpTypeOpaque            Opcode = 31
	OpTypePointer           Opcode = 32
	OpTypeFunction          Opcode = 33
	OpConstantTrue          Opcode = 41
	OpConstantFalse         Opcode = 42
	OpConstant              Opcode = 43
	OpConstantComposite     Opcode = 44
	OpConstantSampler       Opcode = 45
	OpConstantNull          Opcode = 46
	OpFunction              Opcode = 54
	OpFunctionParameter     Opcode = 55
	OpFunctionEnd           Opcode = 56
	OpFunctionCall          Opcode = 57
	OpVariable              Opcode = 59
	OpImageTexelPointer     Opcode = 60
	OpLoad                  Opcode = 61
	OpStore                 Opcode = 62
	OpCopyMemory            Opcode = 63
	OpAccessChain           Opcode = 65
	OpDecorate              Opcode = 71
	OpMemberDecorate        Opcode = 72
	OpDecorationGroup       Opcode = 73
	OpGroupDecorate         Opcode = 74
	OpGroupMemberDecorate   Opcode = 75
	OpVectorExtractDynamic  Opcode = 77
	OpVectorInsertDynamic   Opcode = 78
	OpVectorShuffle         Opcode = 79
	OpCompositeConstruct    Opcode = 80
	OpCompositeExtract      Opcode = 81
	OpCompositeInsert       Opcode = 82
	OpTranspose             Opcode = 84
	OpSampledImage          Opcode = 86
	OpImageSampleImplicitLod      Opcode = 87
	OpImageSampleExplicitLod      Opcode = 88
	OpImage                 Opcode = 100
	OpConvertFToU           Opcode = 109
	OpConvertFToS           Opcode = 110
	OpConvertSToF           Opcode = 111
	OpConvertUToF           Opcode = 112
	OpUConvert              Opcode = 113
	OpSConvert              Opcode = 114
	OpFConvert              Opcode = 115
	OpBitcast               Opcode = 124
	OpSNegate               Opcode = 126
	OpFNegate               Opcode = 127
	OpIAdd                  Opcode = 128
	OpFAdd                  Opcode = 129
	OpISub                  Opcode = 130
	OpFSub                  Opcode = 131
	OpIMul                  Opcode = 132
	OpFMul                  Opcode = 133
	OpUDiv                  Opcode = 134
	OpSDiv                  Opcode = 135
	OpFDiv                  Opcode = 136
	OpUMod                  Opcode = 137
	OpSRem                  Opcode = 138
	OpSMod                  Opcode = 139
	OpFRem                  Opcode = 140
	OpFMod                  Opcode = 141
	OpVectorTimesScalar     Opcode = 142
	OpMatrixTimesScalar     Opcode = 143
	OpVectorTimesMatrix     Opcode = 144
	OpMatrixTimesVector     Opcode = 145
	OpMatrixTimesMatrix     Opcode = 146
	OpDot                   Opcode = 148
	OpNot                   Opcode = 200
	OpShiftRightLogical     Opcode = 194
	OpShiftRightArithmetic  Opcode = 195
	OpShiftLeftLogical      Opcode = 196
	OpBitwiseOr             Opcode = 197
	OpBitwiseXor            Opcode = 198
	OpBitwiseAnd            Opcode = 199
	OpLogicalEqual          Opcode = 164
	OpLogicalNotEqual       Opcode = 165
	OpLogicalOr             Opcode = 166
	OpLogicalAnd            Opcode = 167
	OpLogicalNot            Opcode = 168
	OpSelect                Opcode = 169
	OpIEqual                Opcode = 170
	OpINotEqual             Opcode = 171
	OpUGreaterThan          Opcode = 172
	OpSGreaterThan          Opcode = 173
	OpUGreaterThanEqual     Opcode = 174
	OpSGreaterThanEqual     Opcode = 175
	OpULessThan             Opcode = 176
	OpSLessThan             Opcode = 177
	OpULessThanEqual        Opcode = 178
	OpSLessThanEqual        Opcode = 179
	OpFOrdEqual             Opcode = 180
	OpFUnordEqual           Opcode = 181
	OpFOrdNotEqual          Opcode = 182
	OpFUnordNotEqual        Opcode = 183
	OpFOrdLessThan          Opcode = 184
	OpFUnordLessThan        Opcode = 185
	OpFOrdGreaterThan       Opcode = 186
	OpFUnordGreaterThan     Opcode = 187
	OpFOrdLessThanEqual     Opcode = 188
	OpFUnordLessThanEqual   Opcode = 189
	OpFOrdGreaterThanEqual  Opcode = 190
	OpFUnordGreaterThanEqual Opcode = 191
	OpPhi                   Opcode = 245
	OpLoopMerge             Opcode = 246
	OpSelectionMerge        Opcode = 247
	OpLabel                 Opcode = 248
	OpBranch                Opcode = 249
	OpBranchConditional     Opcode = 250
	OpSwitch                Opcode = 251
	OpKill                  Opcode = 252
	OpReturn                Opcode = 253
	OpReturnValue           Opcode = 254
	OpUnreachable           Opcode = 255
)

var opcodeNames = map[Opcode]string{
	OpNop: "Nop", OpUndef: "Undef", OpSourceContinued: "SourceContinued",
	OpSource: "Source", OpSourceExtension: "SourceExtension", OpName: "Name",
	OpMemberName: "MemberName", OpString: "String", OpLine: "Line",
	OpExtension: "Extension", OpExtInstImport: "ExtInstImport", OpExtInst: "ExtInst",
	OpMemoryModel: "MemoryModel", OpEntryPoint: "EntryPoint", OpExecutionMode: "ExecutionMode",
	OpCapability: "Capability", OpTypeVoid: "TypeVoid", OpTypeBool: "TypeBool",
	OpTypeInt: "TypeInt", OpTypeFloat: "TypeFloat", OpTypeVector: "TypeVector",
	OpTypeMatrix: "TypeMatrix", OpTypeImage: "TypeImage", OpTypeSampler: "TypeSampler",
	OpTypeSampledImage: "TypeSampledImage", OpTypeArray: "TypeArray",
	OpTypeRuntimeArray: "TypeRuntimeArray", OpTypeStruct: "TypeStruct",
	OpTypeOpaque: "TypeOpaque", OpTypePointer: "TypePointer", OpTypeFunction: "TypeFunction",
	OpConstantTrue: "ConstantTrue", OpConstantFalse: "ConstantFalse", OpConstant: "Constant",
	OpConstantComposite: "ConstantComposite", OpConstantSampler: "ConstantSampler",
	OpConstantNull: "ConstantNull", OpFunction: "Function", OpFunctionParameter: "FunctionParameter",
	OpFunctionEnd: "FunctionEnd", OpFunctionCall: "FunctionCall", OpVariable: "Variable",
	OpImageTexelPointer: "ImageTexelPointer", OpLoad: "Load", OpStore: "Store",
	OpCopyMemory: "CopyMemory", OpAccessChain: "AccessChain", OpDecorate: "Decorate",
	OpMemberDecorate: "MemberDecorate", OpDecorationGroup: "DecorationGroup",
	OpGroupDecorate: "GroupDecorate", OpGroupMemberDecorate: "GroupMemberDecorate",
	OpVectorExtractDynamic: "VectorExtractDynamic", OpVectorInsertDynamic: "VectorInsertDynamic",
	OpVectorShuffle: "VectorShuffle", OpCompositeConstruct: "CompositeConstruct",
	OpCompositeExtract: "CompositeExtract", OpCompositeInsert: "CompositeInsert",
	OpTranspose: "Transpose", OpSampledImage: "SampledImage",
	OpImageSampleImplicitLod: "ImageSampleImplicitLod", OpImageSampleExplicitLod: "ImageSampleExplicitLod",
	OpImage: "Image", OpConvertFToU: "ConvertFToU", OpConvertFToS: "ConvertFToS",
	OpConvertSToF: "ConvertSToF", OpConvertUToF: "ConvertUToF", OpUConvert: "UConvert",
	OpSConvert: "SConvert", OpFConvert: "FConvert", OpBitcast: "Bitcast",
	OpSNegate: "SNegate", OpFNegate: "FNegate", OpIAdd: "IAdd", OpFAdd: "FAdd",
	OpISub: "ISub", OpFSub: "FSub", OpIMul: "IMul", OpFMul: "FMul", OpUDiv: "UDiv",
	OpSDiv: "SDiv", OpFDiv: "FDiv", OpUMod: "UMod", OpSRem: "SRem", OpSMod: "SMod",
	OpFRem: "FRem", OpFMod: "FMod", OpVectorTimesScalar: "VectorTimesScalar",
	OpMatrixTimesScalar: "MatrixTimesScalar", OpVectorTimesMatrix: "VectorTimesMatrix",
	OpMatrixTimesVector: "MatrixTimesVector", OpMatrixTimesMatrix: "MatrixTimesMatrix",
	OpDot: "Dot", OpNot: "Not", OpShiftRightLogical: "ShiftRightLogical",
	OpShiftRightArithmetic: "ShiftRightArithmetic", OpShiftLeftLogical: "ShiftLeftLogical",
	OpBitwiseOr: "BitwiseOr", OpBitwiseXor: "BitwiseXor", OpBitwiseAnd: "BitwiseAnd",
	OpLogicalEqual: "LogicalEqual", OpLogicalNotEqual: "LogicalNotEqual",
	OpLogicalOr: "LogicalOr", OpLogicalAnd: "LogicalAnd", OpLogicalNot: "LogicalNot",
	OpSelect: "Select", OpIEqual: "IEqual", OpINotEqual: "INotEqual",
	OpUGreaterThan: "UGreaterThan", OpSGreaterThan: "SGreaterThan",
	OpUGreaterThanEqual: "UGreaterThanEqual", OpSGreaterThanEqual: "SGreaterThanEqual",
	OpULessThan: "ULessThan", OpSLessThan: "SLessThan", OpULessThanEqual: "ULessThanEqual",
	OpSLessThanEqual: "SLessThanEqual", OpFOrdEqual: "FOrdEqual", OpFUnordEqual: "FUnordEqual",
	OpFOrdNotEqual: "FOrdNotEqual", OpFUnordNotEqual: "FUnordNotEqual",
	OpFOrdLessThan: "FOrdLessThan", OpFUnordLessThan: "FUnordLessThan",
	OpFOrdGreaterThan: "FOrdGreaterThan", OpFUnordGreaterThan: "FUnordGreaterThan",
	OpFOrdLessThanEqual: "FOrdLessThanEqual", OpFUnordLessThanEqual: "FUnordLessThanEqual",
	OpFOrdGreaterThanEqual: "FOrdGreaterThanEqual", OpFUnordGreaterThanEqual: "FUnordGreaterThanEqual",
	OpPhi: "Phi", OpLoopMerge: "LoopMerge", OpSelectionMerge: "SelectionMerge",
	OpLabel: "Label", OpBranch: "Branch", OpBranchConditional: "BranchConditional",
	OpSwitch: "Switch", OpKill: "Kill", OpReturn: "Return", OpReturnValue: "ReturnValue",
	OpUnreachable: "Unreachable",
}

// String renders the opcode's mnemonic, or "Unrecognised{n}" if unknown.
// This is the single place raw opcode-name knowledge lives; everything
// else in the package names an opcode through this method.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Unrecognised{%d}", uint16(op))
}

// binaryOperators maps a math opcode to its C-style infix operator, for
// the subset of opcodes the expression disassembler renders as "a OP b"
// rather than as a call-shaped expression.
var binaryOperators = map[Opcode]string{
	OpIAdd: "+", OpFAdd: "+", OpISub: "-", OpFSub: "-",
	OpIMul: "*", OpFMul: "*", OpUDiv: "/", OpSDiv: "/", OpFDiv: "/",
	OpUMod: "%", OpSRem: "%", OpSMod: "%", OpFRem: "%", OpFMod: "%",
	OpVectorTimesScalar: "*", OpMatrixTimesScalar: "*", OpVectorTimesMatrix: "*",
	OpMatrixTimesVector: "*", OpMatrixTimesMatrix: "*",
	OpShiftRightLogical: ">>", OpShiftRightArithmetic: ">>", OpShiftLeftLogical: "<<",
	OpBitwiseOr: "|", OpBitwiseXor: "^", OpBitwiseAnd: "&",
	OpLogicalOr: "||", OpLogicalAnd: "&&",
	OpLogicalEqual: "==", OpLogicalNotEqual: "!=",
	OpIEqual: "==", OpINotEqual: "!=",
	OpUGreaterThan: ">", OpSGreaterThan: ">", OpUGreaterThanEqual: ">=", OpSGreaterThanEqual: ">=",
	OpULessThan: "<", OpSLessThan: "<", OpULessThanEqual: "<=", OpSLessThanEqual: "<=",
	OpFOrdEqual: "==", OpFUnordEqual: "==", OpFOrdNotEqual: "!=", OpFUnordNotEqual: "!=",
	OpFOrdLessThan: "<", OpFUnordLessThan: "<", OpFOrdGreaterThan: ">", OpFUnordGreaterThan: ">",
	OpFOrdLessThanEqual: "<=", OpFUnordLessThanEqual: "<=",
	OpFOrdGreaterThanEqual: ">=", OpFUnordGreaterThanEqual: ">=",
}

// unaryOperators maps a unary math opcode to its C-style prefix operator.
var unaryOperators = map[Opcode]string{
	OpSNegate: "-", OpFNegate: "-", OpNot: "~", OpLogicalNot: "!",
}

// IsMathOp reports whether op is one of the binary or unary math opcodes
// the expression disassembler renders via an infix/prefix operator rather
// than a call-shaped expression (spec §4.4's "mathop" classification).
func IsMathOp(op Opcode) bool {
	if _, ok := binaryOperators[op]; ok {
		return true
	}
	_, ok := unaryOperators[op]
	return ok
}

// StorageClass is where a variable lives.
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

var storageClassNames = map[StorageClass]string{
	StorageClassUniformConstant: "UniformConstant", StorageClassInput: "Input",
	StorageClassUniform: "Uniform", StorageClassOutput: "Output",
	StorageClassWorkgroup: "Workgroup", StorageClassCrossWorkgroup: "CrossWorkgroup",
	StorageClassPrivate: "Private", StorageClassFunction: "Function",
	StorageClassGeneric: "Generic", StorageClassPushConstant: "PushConstant",
	StorageClassAtomicCounter: "AtomicCounter", StorageClassImage: "Image",
	StorageClassStorageBuffer: "StorageBuffer",
}

func (s StorageClass) String() string {
	if name, ok := storageClassNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unrecognised{%d}", uint32(s))
}

// Decoration is a side-band annotation on a type or variable.
type Decoration uint32

const (
	DecorationRelaxedPrecision Decoration = 0
	DecorationSpecId           Decoration = 1
	DecorationBlock            Decoration = 2
	DecorationBufferBlock      Decoration = 3
	DecorationRowMajor         Decoration = 4
	DecorationColMajor         Decoration = 5
	DecorationArrayStride      Decoration = 6
	DecorationMatrixStride     Decoration = 7
	DecorationGLSLShared       Decoration = 8
	DecorationGLSLPacked       Decoration = 9
	DecorationCPacked          Decoration = 10
	DecorationBuiltIn          Decoration = 11
	DecorationNoPerspective    Decoration = 13
	DecorationFlat             Decoration = 14
	DecorationPatch            Decoration = 15
	DecorationCentroid         Decoration = 16
	DecorationSample           Decoration = 17
	DecorationInvariant        Decoration = 18
	DecorationRestrict         Decoration = 19
	DecorationAliased          Decoration = 20
	DecorationVolatile         Decoration = 21
	DecorationConstant         Decoration = 22
	DecorationCoherent         Decoration = 23
	DecorationNonWritable      Decoration = 24
	DecorationNonReadable      Decoration = 25
	DecorationUniform          Decoration = 26
	DecorationNoContraction    Decoration = 42
	DecorationLocation         Decoration = 30
	DecorationComponent        Decoration = 31
	DecorationIndex            Decoration = 32
	DecorationBinding          Decoration = 33
	DecorationDescriptorSet    Decoration = 34
	DecorationOffset           Decoration = 35
	DecorationXfbBuffer        Decoration = 36
	DecorationXfbStride        Decoration = 37
	DecorationNoPerspectiveNV  Decoration = 5013
)

var decorationNames = map[Decoration]string{
	DecorationRelaxedPrecision: "RelaxedPrecision", DecorationSpecId: "SpecId",
	DecorationBlock: "Block", DecorationBufferBlock: "BufferBlock",
	DecorationRowMajor: "RowMajor", DecorationColMajor: "ColMajor",
	DecorationArrayStride: "ArrayStride", DecorationMatrixStride: "MatrixStride",
	DecorationGLSLShared: "GLSLShared", DecorationGLSLPacked: "GLSLPacked",
	DecorationCPacked: "CPacked", DecorationBuiltIn: "BuiltIn",
	DecorationNoPerspective: "NoPerspective", DecorationFlat: "Flat",
	DecorationPatch: "Patch", DecorationCentroid: "Centroid", DecorationSample: "Sample",
	DecorationInvariant: "Invariant", DecorationRestrict: "Restrict",
	DecorationAliased: "Aliased", DecorationVolatile: "Volatile",
	DecorationConstant: "Constant", DecorationCoherent: "Coherent",
	DecorationNonWritable: "NonWritable", DecorationNonReadable: "NonReadable",
	DecorationUniform: "Uniform", DecorationNoContraction: "NoContraction",
	DecorationLocation: "Location", DecorationComponent: "Component",
	DecorationIndex: "Index", DecorationBinding: "Binding",
	DecorationDescriptorSet: "DescriptorSet", DecorationOffset: "Offset",
	DecorationXfbBuffer: "XfbBuffer", DecorationXfbStride: "XfbStride",
}

func (d Decoration) String() string {
	if name, ok := decorationNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Unrecognised{%d}", uint32(d))
}

// bareDecorations renders with no value, no leading "Name="; everything
// not in this set renders as "Name=value" except BuiltIn, which renders
// as "Builtin <name>". Grounded on SPVDecoration::Str() in the original
// RenderDoc disassembler.
var bareDecorations = map[Decoration]bool{
	DecorationRowMajor: true, DecorationColMajor: true, DecorationBlock: true,
	DecorationBufferBlock: true, DecorationFlat: true, DecorationNoPerspective: true,
	DecorationCentroid: true, DecorationPatch: true, DecorationSample: true,
	DecorationInvariant: true, DecorationRestrict: true, DecorationAliased: true,
	DecorationVolatile: true, DecorationCoherent: true, DecorationNonWritable: true,
	DecorationNonReadable: true, DecorationUniform: true, DecorationRelaxedPrecision: true,
	DecorationNoContraction: true, DecorationGLSLShared: true, DecorationGLSLPacked: true,
	DecorationCPacked: true,
}

// decorationAbbrev shortens a handful of decoration names in their
// "Name=value" rendering, matching the original's abbreviated strings.
var decorationAbbrev = map[Decoration]string{
	DecorationBinding:       "Bind",
	DecorationDescriptorSet: "DescSet",
}

// DecorationString renders a single decoration for the declarator text,
// given its operand words (empty if the decoration carries none).
func DecorationString(d Decoration, params []uint32) string {
	if d == DecorationBuiltIn && len(params) == 1 {
		return "Builtin " + BuiltIn(params[0]).String()
	}
	if bareDecorations[d] {
		return d.String()
	}
	name := d.String()
	if abbrev, ok := decorationAbbrev[d]; ok {
		name = abbrev
	}
	if len(params) == 0 {
		return name
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return fmt.Sprintf("%s=%s", name, strings.Join(parts, ","))
}

// BuiltIn names a built-in variable semantic.
type BuiltIn uint32

const (
	BuiltInPosition             BuiltIn = 0
	BuiltInPointSize            BuiltIn = 1
	BuiltInClipDistance         BuiltIn = 3
	BuiltInCullDistance         BuiltIn = 4
	BuiltInVertexId             BuiltIn = 5
	BuiltInInstanceId           BuiltIn = 6
	BuiltInPrimitiveId          BuiltIn = 7
	BuiltInInvocationId         BuiltIn = 8
	BuiltInLayer                BuiltIn = 9
	BuiltInViewportIndex        BuiltIn = 10
	BuiltInTessLevelOuter       BuiltIn = 11
	BuiltInTessLevelInner       BuiltIn = 12
	BuiltInTessCoord            BuiltIn = 13
	BuiltInPatchVertices        BuiltIn = 14
	BuiltInFrontFacing          BuiltIn = 17
	BuiltInSampleId             BuiltIn = 18
	BuiltInSamplePosition       BuiltIn = 19
	BuiltInSampleMask           BuiltIn = 20
	BuiltInFragDepth            BuiltIn = 22
	BuiltInWorkgroupId          BuiltIn = 26
	BuiltInGlobalInvocationId   BuiltIn = 28
	BuiltInLocalInvocationId    BuiltIn = 27
	BuiltInLocalInvocationIndex BuiltIn = 29
	BuiltInVertexIndex          BuiltIn = 42
	BuiltInInstanceIndex        BuiltIn = 43
)

var builtInNames = map[BuiltIn]string{
	BuiltInPosition: "Position", BuiltInPointSize: "PointSize",
	BuiltInClipDistance: "ClipDistance", BuiltInCullDistance: "CullDistance",
	BuiltInVertexId: "VertexId", BuiltInInstanceId: "InstanceId",
	BuiltInPrimitiveId: "PrimitiveId", BuiltInInvocationId: "InvocationId",
	BuiltInLayer: "Layer", BuiltInViewportIndex: "ViewportIndex",
	BuiltInTessLevelOuter: "TessLevelOuter", BuiltInTessLevelInner: "TessLevelInner",
	BuiltInTessCoord: "TessCoord", BuiltInPatchVertices: "PatchVertices",
	BuiltInFrontFacing: "FrontFacing", BuiltInSampleId: "SampleId",
	BuiltInSamplePosition: "SamplePosition", BuiltInSampleMask: "SampleMask",
	BuiltInFragDepth: "FragDepth", BuiltInWorkgroupId: "WorkgroupId",
	BuiltInGlobalInvocationId: "GlobalInvocationId", BuiltInLocalInvocationId: "LocalInvocationId",
	BuiltInLocalInvocationIndex: "LocalInvocationIndex", BuiltInVertexIndex: "VertexIndex",
	BuiltInInstanceIndex: "InstanceIndex",
}

func (b BuiltIn) String() string {
	if name, ok := builtInNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Unrecognised{%d}", uint32(b))
}

// ExecutionModel names a shader stage an entry point targets.
type ExecutionModel uint32

const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
	ExecutionModelKernel                 ExecutionModel = 6
)

var executionModelNames = map[ExecutionModel]string{
	ExecutionModelVertex: "Vertex", ExecutionModelTessellationControl: "TessellationControl",
	ExecutionModelTessellationEvaluation: "TessellationEvaluation",
	ExecutionModelGeometry: "Geometry", ExecutionModelFragment: "Fragment",
	ExecutionModelGLCompute: "GLCompute", ExecutionModelKernel: "Kernel",
}

func (m ExecutionModel) String() string {
	if name, ok := executionModelNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Unrecognised{%d}", uint32(m))
}

// ExecutionMode further configures an entry point's execution model.
type ExecutionMode uint32

const (
	ExecutionModeInvocations     ExecutionMode = 0
	ExecutionModeSpacingEqual    ExecutionMode = 1
	ExecutionModeVertexOrderCw   ExecutionMode = 4
	ExecutionModeVertexOrderCcw  ExecutionMode = 5
	ExecutionModePixelCenterInteger ExecutionMode = 6
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeOriginLowerLeft ExecutionMode = 8
	ExecutionModeEarlyFragmentTests ExecutionMode = 9
	ExecutionModeDepthReplacing  ExecutionMode = 12
	ExecutionModeDepthGreater    ExecutionMode = 14
	ExecutionModeDepthLess       ExecutionMode = 15
	ExecutionModeDepthUnchanged  ExecutionMode = 16
	ExecutionModeLocalSize       ExecutionMode = 17
	ExecutionModeOutputVertices  ExecutionMode = 26
	ExecutionModeVecTypeHint     ExecutionMode = 30
	ExecutionModeContractionOff  ExecutionMode = 31
)

var executionModeNames = map[ExecutionMode]string{
	ExecutionModeInvocations: "Invocations", ExecutionModeSpacingEqual: "SpacingEqual",
	ExecutionModeVertexOrderCw: "VertexOrderCw", ExecutionModeVertexOrderCcw: "VertexOrderCcw",
	ExecutionModePixelCenterInteger: "PixelCenterInteger",
	ExecutionModeOriginUpperLeft: "OriginUpperLeft", ExecutionModeOriginLowerLeft: "OriginLowerLeft",
	ExecutionModeEarlyFragmentTests: "EarlyFragmentTests", ExecutionModeDepthReplacing: "DepthReplacing",
	ExecutionModeDepthGreater: "DepthGreater", ExecutionModeDepthLess: "DepthLess",
	ExecutionModeDepthUnchanged: "DepthUnchanged", ExecutionModeLocalSize: "LocalSize",
	ExecutionModeOutputVertices: "OutputVertices", ExecutionModeVecTypeHint: "VecTypeHint",
	ExecutionModeContractionOff: "ContractionOff",
}

func (m ExecutionMode) String() string {
	if name, ok := executionModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Unrecognised{%d}", uint32(m))
}

// Dim is an image's dimensionality.
type Dim uint32

const (
	Dim1D     Dim = 0
	Dim2D     Dim = 1
	Dim3D     Dim = 2
	DimCube   Dim = 3
	DimRect   Dim = 4
	DimBuffer Dim = 5
	DimSubpassData Dim = 6
)

var dimNames = map[Dim]string{
	Dim1D: "1D", Dim2D: "2D", Dim3D: "3D", DimCube: "Cube",
	DimRect: "Rect", DimBuffer: "Buffer", DimSubpassData: "SubpassData",
}

func (d Dim) String() string {
	if name, ok := dimNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Unrecognised{%d}", uint32(d))
}

// Capability is a SPIR-V feature a module declares it requires.
type Capability uint32

const (
	CapabilityMatrix            Capability = 0
	CapabilityShader            Capability = 1
	CapabilityGeometry          Capability = 2
	CapabilityTessellation      Capability = 3
	CapabilityAddresses         Capability = 4
	CapabilityLinkage           Capability = 5
	CapabilityKernel            Capability = 6
	CapabilityFloat16Buffer     Capability = 8
	CapabilityFloat16           Capability = 9
	CapabilityFloat64           Capability = 10
	CapabilityInt64             Capability = 11
	CapabilitySampled1D         Capability = 43
	CapabilityImage1D           Capability = 44
	CapabilitySampledBuffer     Capability = 46
	CapabilityImageBuffer       Capability = 47
	CapabilityImageMSArray      Capability = 48
)

var capabilityNames = map[Capability]string{
	CapabilityMatrix: "Matrix", CapabilityShader: "Shader", CapabilityGeometry: "Geometry",
	CapabilityTessellation: "Tessellation", CapabilityAddresses: "Addresses",
	CapabilityLinkage: "Linkage", CapabilityKernel: "Kernel",
	CapabilityFloat16Buffer: "Float16Buffer", CapabilityFloat16: "Float16",
	CapabilityFloat64: "Float64", CapabilityInt64: "Int64",
	CapabilitySampled1D: "Sampled1D", CapabilityImage1D: "Image1D",
	CapabilitySampledBuffer: "SampledBuffer", CapabilityImageBuffer: "ImageBuffer",
	CapabilityImageMSArray: "ImageMSArray",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unrecognised{%d}", uint32(c))
}

// SourceLanguage names the shading language an OpSource declares.
type SourceLanguage uint32

const (
	SourceLanguageUnknown SourceLanguage = 0
	SourceLanguageESSL    SourceLanguage = 1
	SourceLanguageGLSL    SourceLanguage = 2
	SourceLanguageOpenCL_C SourceLanguage = 3
	SourceLanguageOpenCL_CPP SourceLanguage = 4
	SourceLanguageHLSL    SourceLanguage = 5
)

var sourceLanguageNames = map[SourceLanguage]string{
	SourceLanguageUnknown: "Unknown", SourceLanguageESSL: "ESSL", SourceLanguageGLSL: "GLSL",
	SourceLanguageOpenCL_C: "OpenCL_C", SourceLanguageOpenCL_CPP: "OpenCL_CPP",
	SourceLanguageHLSL: "HLSL",
}

func (l SourceLanguage) String() string {
	if name, ok := sourceLanguageNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Unrecognised{%d}", uint32(l))
}

// knownGenerators maps a module header's generator magic to a human name,
// grounded on the original disassembler's KnownGenerators table.
var knownGenerators = map[uint32]string{
	0x051a00bb: "glslang",
	0x000d0007: "shaderc over glslang",
	0x00090007: "SPIRV-Tools Assembler",
	0x00090008: "SPIRV-Tools Linker",
}

// GeneratorName renders a generator magic as a known tool name, falling
// back to its raw hex form when the magic isn't in the known table.
func GeneratorName(magic uint32) string {
	if name, ok := knownGenerators[magic]; ok {
		return name
	}
	return fmt.Sprintf("0x%08x", magic)
}

// DefaultIDName renders a result-ID that has no recorded OpName as "{n}",
// not a bare number, matching the original's DefaultIDName.
func DefaultIDName(id uint32) string {
	return fmt.Sprintf("{%d}", id)
}

// OptionalFlagString renders a flag mask as a bracketed comma-joined
// list of set flag names, or the empty string when the mask is zero.
// This is the single mechanism every mask-typed field (function control,
// loop control, selection control, memory access) goes through.
func OptionalFlagString(mask uint32, names map[uint32]string) string {
	if mask == 0 {
		return ""
	}
	var set []string
	for bit := uint32(1); bit != 0; bit <<= 1 {
		if mask&bit == 0 {
			continue
		}
		if name, ok := names[bit]; ok {
			set = append(set, name)
		} else {
			set = append(set, fmt.Sprintf("Unrecognised{%d}", bit))
		}
	}
	if len(set) == 0 {
		return ""
	}
	return " [" + strings.Join(set, ", ") + "]"
}

var memoryAccessFlagNames = map[uint32]string{
	1: "Volatile", 2: "Aligned", 4: "Nontemporal",
}

var functionControlFlagNames = map[uint32]string{
	1: "Inline", 2: "DontInline", 4: "Pure", 8: "Const",
}

var loopControlFlagNames = map[uint32]string{
	1: "Unroll", 2: "DontUnroll",
}

var selectionControlFlagNames = map[uint32]string{
	1: "Flatten", 2: "DontFlatten",
}

// MemoryAccessString renders an OpLoad/OpStore memory-access mask.
func MemoryAccessString(mask uint32) string {
	return OptionalFlagString(mask, memoryAccessFlagNames)
}

// FunctionControlString renders an OpFunction control mask.
func FunctionControlString(mask uint32) string {
	return OptionalFlagString(mask, functionControlFlagNames)
}

// LoopControlString renders an OpLoopMerge control mask.
func LoopControlString(mask uint32) string {
	return OptionalFlagString(mask, loopControlFlagNames)
}

// SelectionControlString renders an OpSelectionMerge control mask.
func SelectionControlString(mask uint32) string {
	return OptionalFlagString(mask, selectionControlFlagNames)
}

// BranchWeightString renders an OpBranchConditional's optional branch
// weights (true-weight, false-weight) as normalized percentages, or
// the empty string when no weights were carried.
func BranchWeightString(weights []uint32) string {
	if len(weights) != 2 {
		return ""
	}
	sum := float64(weights[0]) + float64(weights[1])
	if sum == 0 {
		return ""
	}
	t := float64(weights[0]) / sum * 100
	f := float64(weights[1]) / sum * 100
	return fmt.Sprintf(" [true: %.2f%%, false: %.2f%%]", t, f)
}
