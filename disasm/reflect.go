package disasm

import (
	"fmt"
	"sort"
)

// InputAttributeSlots is the fixed size of the vertex input-attribute
// table: hardware vertex-fetch stages bind attributes to one of this
// many slots regardless of what the shader actually declares.
const InputAttributeSlots = 16

// Signature describes one entry of an entry point's input or output
// interface: either a user Location or a system BuiltIn, never both.
type Signature struct {
	Name     string
	Type     string
	BuiltIn  BuiltIn
	IsSystem bool
	Location uint32
	Register int // assigned index within its table, after sorting
}

// Resource describes one descriptor-bound global (uniform block,
// storage buffer, image, sampler) reachable from an entry point.
type Resource struct {
	Name          string
	Type          string
	DescriptorSet uint32
	Binding       uint32
	HasBinding    bool
	StorageClass  StorageClass
}

// ConstantBlock describes a uniform or push-constant block reachable
// from an entry point: any Uniform/UniformConstant/PushConstant
// variable whose pointee is a struct, per §4.7.
type ConstantBlock struct {
	Name    string
	Type    string
	Size    int // best-effort, in 32-bit words of the flattened member list
	Members []ConstantBlockMember
}

// ConstantBlockMember is one flattened leaf of a constant block's
// struct layout: nested structs are recursed into and fixed-size
// arrays are flattened into one entry per element, per §4.7's member
// walk.
type ConstantBlockMember struct {
	Name     string
	Type     string
	RowMajor bool
}

// InputAttribute is one slot of the fixed-size vertex input-attribute
// table (§4.7): index == Location for a bound slot; a slot the vertex
// shader left unbound is a zero-valued entry with Bound false.
type InputAttribute struct {
	Bound bool
	Name  string
	Type  string
}

// Reflection is the extracted interface summary of a single entry
// point: everything a host application needs to bind resources and lay
// out vertex buffers without re-parsing the module.
type Reflection struct {
	EntryPoint string
	Model      ExecutionModel

	Inputs  []Signature
	Outputs []Signature

	ConstantBlocks []ConstantBlock
	Resources      []Resource

	InputAttributes [InputAttributeSlots]InputAttribute
}

// Reflect extracts the interface of ep from m. It assumes the
// structural and annotation passes have already run (decorations and
// names are read directly off the Module's instructions).
func Reflect(m *Module, ep *EntryPoint, types *typeNameCache) *Reflection {
	r := &Reflection{EntryPoint: ep.Name, Model: ep.ExecutionModel}
	if types == nil {
		types = newTypeNameCache(m)
	}

	for _, ifaceID := range ep.Interface {
		v, ok := m.GetByID(ifaceID)
		if !ok {
			continue
		}
		varPayload, ok := v.Payload.(*Variable)
		if !ok {
			continue
		}
		sigs := signaturesOf(v, varPayload, m, types)
		switch varPayload.StorageClass {
		case StorageClassInput:
			r.Inputs = append(r.Inputs, sigs...)
		case StorageClassOutput:
			r.Outputs = append(r.Outputs, sigs...)
		}
	}

	sortSignatures(r.Inputs)
	sortSignatures(r.Outputs)

	for _, g := range m.Globals {
		v, ok := g.Payload.(*Variable)
		if !ok {
			continue
		}
		switch v.StorageClass {
		case StorageClassUniform, StorageClassUniformConstant, StorageClassPushConstant:
			if isStructPointee(m, v.PointerType) {
				r.ConstantBlocks = append(r.ConstantBlocks, constantBlockOf(g, v, m, types))
			} else {
				r.Resources = append(r.Resources, resourceOf(g, v, types))
			}
		case StorageClassStorageBuffer, StorageClassImage:
			r.Resources = append(r.Resources, resourceOf(g, v, types))
		}
	}
	sortResources(r.Resources)

	if ep.ExecutionModel == ExecutionModelVertex {
		fillInputAttributes(r)
	}

	return r
}

// pointeeTypeName renders the type a pointer type points to, since
// every OpVariable's declared type is a pointer and reflection callers
// want the value type, not "T*".
func pointeeTypeName(types *typeNameCache, pointerTypeID ID) string {
	inst, ok := types.m.GetByID(pointerTypeID)
	if !ok {
		return types.TypeName(pointerTypeID)
	}
	decl, ok := inst.Payload.(*TypeDecl)
	if !ok || decl.Kind != TypePointer {
		return types.TypeName(pointerTypeID)
	}
	return types.TypeName(decl.ComponentType)
}

// signaturesOf produces the Signatures for inst, per §4.7: a scalar or
// vector variable yields exactly one entry; a matrix variable yields one
// entry per column, named "<var>:col<i>" (or "<var>:row<i>" when the
// variable is decorated RowMajor; the count is still the column count)
// and assigned consecutive locations starting at the variable's own
// Location.
func signaturesOf(inst *Instruction, v *Variable, m *Module, types *typeNameCache) []Signature {
	base := Signature{Name: inst.IDName(), Type: pointeeTypeName(types, v.PointerType)}
	if params, ok := inst.DecorationParams(DecorationBuiltIn); ok && len(params) == 1 {
		base.IsSystem = true
		base.BuiltIn = BuiltIn(params[0])
		return []Signature{base}
	}
	if params, ok := inst.DecorationParams(DecorationLocation); ok && len(params) == 1 {
		base.Location = params[0]
	}

	rows := matrixRowCount(m, v.PointerType)
	if rows <= 1 {
		return []Signature{base}
	}
	tag := "col"
	if inst.HasDecoration(DecorationRowMajor) {
		tag = "row"
	}
	sigs := make([]Signature, rows)
	for i := 0; i < rows; i++ {
		sigs[i] = base
		sigs[i].Name = fmt.Sprintf("%s:%s%d", base.Name, tag, i)
		sigs[i].Location = base.Location + uint32(i)
	}
	return sigs
}

// matrixRowCount returns the column count of pointerType's pointee if
// it's a matrix (each column/row occupies one signature entry), or 0
// if the pointee isn't a matrix.
func matrixRowCount(m *Module, pointerType ID) int {
	ptrInst, ok := m.GetByID(pointerType)
	if !ok {
		return 0
	}
	ptrDecl, ok := ptrInst.Payload.(*TypeDecl)
	if !ok || ptrDecl.Kind != TypePointer {
		return 0
	}
	pointee, ok := m.GetByID(ptrDecl.ComponentType)
	if !ok {
		return 0
	}
	decl, ok := pointee.Payload.(*TypeDecl)
	if !ok || decl.Kind != TypeMatrix {
		return 0
	}
	return int(decl.ComponentCount)
}

// isStructPointee reports whether pointerType's pointee is a struct —
// the §4.7 test that routes a Uniform/UniformConstant/PushConstant
// variable to a ConstantBlock rather than a flat Resource.
func isStructPointee(m *Module, pointerType ID) bool {
	ptrInst, ok := m.GetByID(pointerType)
	if !ok {
		return false
	}
	ptrDecl, ok := ptrInst.Payload.(*TypeDecl)
	if !ok || ptrDecl.Kind != TypePointer {
		return false
	}
	pointee, ok := m.GetByID(ptrDecl.ComponentType)
	if !ok {
		return false
	}
	decl, ok := pointee.Payload.(*TypeDecl)
	return ok && decl.Kind == TypeStruct
}

// sortSignatures orders system-value entries first (by built-in enum
// value, for a stable order), then user-location entries by ascending
// Location, and assigns each its final Register index.
func sortSignatures(sigs []Signature) {
	sort.SliceStable(sigs, func(i, j int) bool {
		a, b := sigs[i], sigs[j]
		if a.IsSystem != b.IsSystem {
			return a.IsSystem
		}
		if a.IsSystem {
			return a.BuiltIn < b.BuiltIn
		}
		return a.Location < b.Location
	})
	for i := range sigs {
		sigs[i].Register = i
	}
}

func resourceOf(inst *Instruction, v *Variable, types *typeNameCache) Resource {
	res := Resource{
		Name:         inst.IDName(),
		Type:         pointeeTypeName(types, v.PointerType),
		StorageClass: v.StorageClass,
	}
	if params, ok := inst.DecorationParams(DecorationDescriptorSet); ok && len(params) == 1 {
		res.DescriptorSet = params[0]
	}
	if params, ok := inst.DecorationParams(DecorationBinding); ok && len(params) == 1 {
		res.Binding = params[0]
		res.HasBinding = true
	}
	return res
}

// sortResources orders resources by (descriptor set, binding); every
// resource missing an explicit Binding decoration sorts after all bound
// ones (by set among themselves) and has its Binding set to 0, with
// HasBinding left false.
func sortResources(resources []Resource) {
	sort.SliceStable(resources, func(i, j int) bool {
		a, b := resources[i], resources[j]
		if a.HasBinding != b.HasBinding {
			return a.HasBinding
		}
		if a.DescriptorSet != b.DescriptorSet {
			return a.DescriptorSet < b.DescriptorSet
		}
		return a.Binding < b.Binding
	})

	for i := range resources {
		if !resources[i].HasBinding {
			resources[i].Binding = 0
		}
	}
}

func constantBlockOf(inst *Instruction, v *Variable, m *Module, types *typeNameCache) ConstantBlock {
	block := ConstantBlock{Name: inst.IDName(), Type: pointeeTypeName(types, v.PointerType)}
	ptrInst, ok := m.GetByID(v.PointerType)
	if !ok {
		return block
	}
	ptrDecl, ok := ptrInst.Payload.(*TypeDecl)
	if !ok {
		return block
	}
	structInst, ok := m.GetByID(ptrDecl.ComponentType)
	if !ok {
		return block
	}
	structDecl, ok := structInst.Payload.(*TypeDecl)
	if !ok {
		return block
	}
	block.Members, block.Size = flattenMembers(m, structDecl, types)
	return block
}

// flattenMembers implements §4.7's member walk: it recurses into nested
// structs (flattening their fields under "<field>.<nested>"), flattens
// fixed-size arrays into one entry per element, and records each
// member's RowMajor decoration. Returns the flattened member list and a
// best-effort size in 32-bit words.
func flattenMembers(m *Module, decl *TypeDecl, types *typeNameCache) ([]ConstantBlockMember, int) {
	var members []ConstantBlockMember
	size := 0
	for i, field := range decl.Members {
		rowMajor := hasMemberDecoration(decl, i, DecorationRowMajor)

		fieldInst, ok := m.GetByID(field.Type)
		var fieldDecl *TypeDecl
		if ok {
			fieldDecl, ok = fieldInst.Payload.(*TypeDecl)
		}
		if !ok {
			members = append(members, ConstantBlockMember{Name: field.Name, Type: types.TypeName(field.Type), RowMajor: rowMajor})
			size++
			continue
		}

		switch fieldDecl.Kind {
		case TypeStruct:
			nested, nestedSize := flattenMembers(m, fieldDecl, types)
			for _, n := range nested {
				members = append(members, ConstantBlockMember{Name: field.Name + "." + n.Name, Type: n.Type, RowMajor: n.RowMajor})
			}
			size += nestedSize
		case TypeArray:
			length := constArrayLength(m, fieldDecl.ArrayLength)
			elemType := types.TypeName(fieldDecl.ComponentType)
			elemSize := typeWordSize(m, fieldDecl.ComponentType)
			for idx := 0; idx < length; idx++ {
				members = append(members, ConstantBlockMember{
					Name:     fmt.Sprintf("%s[%d]", field.Name, idx),
					Type:     elemType,
					RowMajor: rowMajor,
				})
			}
			size += length * elemSize
		default:
			members = append(members, ConstantBlockMember{Name: field.Name, Type: types.TypeName(field.Type), RowMajor: rowMajor})
			size += typeWordSize(m, field.Type)
		}
	}
	return members, size
}

func hasMemberDecoration(decl *TypeDecl, member int, d Decoration) bool {
	if member < 0 || member >= len(decl.Members) {
		return false
	}
	for _, dec := range decl.Members[member].Decorations {
		if dec.Decoration == d {
			return true
		}
	}
	return false
}

func constArrayLength(m *Module, lengthID ID) int {
	inst, ok := m.GetByID(lengthID)
	if !ok {
		return 0
	}
	cst, ok := inst.Payload.(*Constant)
	if !ok {
		return 0
	}
	return int(cst.Bits)
}

// typeWordSize is a best-effort size, in 32-bit words, of a scalar,
// vector, or matrix type — used to size a flattened array without a
// full offset/stride layout model.
func typeWordSize(m *Module, id ID) int {
	inst, ok := m.GetByID(id)
	if !ok {
		return 1
	}
	decl, ok := inst.Payload.(*TypeDecl)
	if !ok {
		return 1
	}
	switch decl.Kind {
	case TypeVector:
		return int(decl.ComponentCount)
	case TypeMatrix:
		return int(decl.ComponentCount) * typeWordSize(m, decl.ComponentType)
	default:
		return 1
	}
}

// fillInputAttributes populates the fixed-size vertex input-attribute
// table from the already-sorted input signature list, leaving unused
// slots zero-valued.
func fillInputAttributes(r *Reflection) {
	for _, in := range r.Inputs {
		if in.IsSystem {
			continue
		}
		if int(in.Location) >= InputAttributeSlots {
			continue
		}
		r.InputAttributes[in.Location] = InputAttribute{Bound: true, Name: in.Name, Type: in.Type}
	}
}
