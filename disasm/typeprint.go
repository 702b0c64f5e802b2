package disasm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// typeNameCache is mutable scratch owned by a single decompile call; it
// memoizes TypeName so a type shared by many declarations is stringified
// once ("lazily and once" per §4.3).
type typeNameCache struct {
	m     *Module
	names map[ID]string
}

func newTypeNameCache(m *Module) *typeNameCache {
	return &typeNameCache{m: m, names: make(map[ID]string)}
}

// TypeName computes the canonical short name of the type at id, per
// §4.3's per-kind rendering rules.
func (c *typeNameCache) TypeName(id ID) string {
	if name, ok := c.names[id]; ok {
		return name
	}
	name := c.computeTypeName(id)
	c.names[id] = name
	return name
}

func (c *typeNameCache) computeTypeName(id ID) string {
	inst, ok := c.m.GetByID(id)
	if !ok {
		return DefaultIDName(uint32(id))
	}
	decl, ok := inst.Payload.(*TypeDecl)
	if !ok {
		return DefaultIDName(uint32(id))
	}
	switch decl.Kind {
	case TypeVoid:
		return "void"
	case TypeBool:
		return "bool"
	case TypeInt:
		return scalarIntName(decl.Width, decl.Signed)
	case TypeFloat:
		return scalarFloatName(decl.Width)
	case TypeVector:
		base := c.TypeName(decl.ComponentType)
		return fmt.Sprintf("%s%d", base, decl.ComponentCount)
	case TypeMatrix:
		colInst, ok := c.m.GetByID(decl.ComponentType)
		if !ok {
			return fmt.Sprintf("mat%dx%d", decl.ComponentCount, decl.ComponentCount)
		}
		colDecl, _ := colInst.Payload.(*TypeDecl)
		rows := decl.ComponentCount
		base := "float"
		if colDecl != nil {
			base = c.TypeName(colDecl.ComponentType)
			rows = colDecl.ComponentCount
		}
		return fmt.Sprintf("%s%dx%d", base, rows, decl.ComponentCount)
	case TypePointer:
		return c.TypeName(decl.ComponentType) + "*"
	case TypeArray:
		return c.TypeName(decl.ComponentType)
	case TypeRuntimeArray:
		return c.TypeName(decl.ComponentType)
	case TypeStruct:
		if inst.Name != "" {
			return inst.Name
		}
		return fmt.Sprintf("struct%d", id)
	case TypeImage:
		return c.imageTypeName(decl)
	case TypeSampler:
		return "Sampler"
	case TypeSampledImage:
		imgInst, ok := c.m.GetByID(decl.ImageType)
		if !ok {
			return "SampledImage"
		}
		return "Sampled" + c.TypeName(imgInst.ID)
	case TypeFunction:
		return c.TypeName(decl.ReturnType)
	}
	return DefaultIDName(uint32(id))
}

func (c *typeNameCache) imageTypeName(decl *TypeDecl) string {
	var prefix strings.Builder
	if decl.Depth == 1 {
		prefix.WriteString("Depth")
	}
	if decl.Multisampled {
		prefix.WriteString("MS")
	}
	if decl.Arrayed {
		prefix.WriteString("Array")
	}
	base := c.TypeName(decl.SampledType)
	if decl.ImageFormat != 0 {
		return fmt.Sprintf("%sImage%s<%s, %d>", prefix.String(), decl.Dim.String(), base, decl.ImageFormat)
	}
	return fmt.Sprintf("%sImage%s<%s>", prefix.String(), decl.Dim.String(), base)
}

// Declarator renders a named declaration of the type at id, in the
// array-aware "<elt> <name>[<size>]" declarator form §4.3 specifies for
// arrays and plain "<type> <name>" otherwise.
func (c *typeNameCache) Declarator(id ID, name string) string {
	inst, ok := c.m.GetByID(id)
	if ok {
		if decl, ok := inst.Payload.(*TypeDecl); ok {
			switch decl.Kind {
			case TypeArray:
				length := "?"
				if lenInst, ok := c.m.GetByID(decl.ArrayLength); ok {
					if cst, ok := lenInst.Payload.(*Constant); ok {
						length = strconv.FormatUint(cst.Bits, 10)
					}
				}
				return fmt.Sprintf("%s %s[%s]", c.TypeName(decl.ComponentType), name, length)
			case TypeRuntimeArray:
				return fmt.Sprintf("%s %s[]", c.TypeName(decl.ComponentType), name)
			}
		}
	}
	return fmt.Sprintf("%s %s", c.TypeName(id), name)
}

func scalarIntName(width uint32, signed bool) string {
	switch {
	case width == 8 && signed:
		return "byte"
	case width == 8:
		return "ubyte"
	case width == 16 && signed:
		return "short"
	case width == 16:
		return "ushort"
	case width == 32 && signed:
		return "int"
	case width == 32:
		return "uint"
	case width == 64 && signed:
		return "long"
	case width == 64:
		return "ulong"
	default:
		return fmt.Sprintf("int%d", width)
	}
}

func scalarFloatName(width uint32) string {
	switch width {
	case 16:
		return "half"
	case 32:
		return "float"
	case 64:
		return "double"
	default:
		return fmt.Sprintf("float%d", width)
	}
}

// ConstantLiteral renders a constant instruction's value, given the
// type-name cache so composite printing can resolve element types.
func (c *typeNameCache) ConstantLiteral(inst *Instruction) string {
	cst, ok := inst.Payload.(*Constant)
	if !ok {
		return inst.IDName()
	}
	if cst.Sampler != nil {
		return fmt.Sprintf("Sampler(%d, %v, %d)", cst.Sampler.AddressingMode, cst.Sampler.Normalized, cst.Sampler.FilterMode)
	}
	if len(cst.Children) > 0 {
		return c.compositeLiteral(cst)
	}
	return c.scalarLiteral(cst)
}

func (c *typeNameCache) scalarLiteral(cst *Constant) string {
	typeInst, ok := c.m.GetByID(cst.Type)
	if !ok {
		return strconv.FormatUint(cst.Bits, 10)
	}
	decl, ok := typeInst.Payload.(*TypeDecl)
	if !ok {
		return strconv.FormatUint(cst.Bits, 10)
	}
	switch decl.Kind {
	case TypeBool:
		if cst.Bits != 0 {
			return "true"
		}
		return "false"
	case TypeFloat:
		var f float64
		switch decl.Width {
		case 16:
			f = float64(halfToFloat32(uint16(cst.Bits)))
		case 32:
			f = float64(math.Float32frombits(uint32(cst.Bits)))
		default:
			f = math.Float64frombits(cst.Bits)
		}
		return formatFloatWithDecimal(f)
	case TypeInt:
		if decl.Signed {
			return strconv.FormatInt(signExtend(cst.Bits, decl.Width), 10)
		}
		return strconv.FormatUint(maskBits(cst.Bits, decl.Width), 10)
	default:
		return strconv.FormatUint(cst.Bits, 10)
	}
}

// compositeLiteral renders a composite constant. A vector whose
// components are all textually equal collapses to "<scalar>.xxxx"
// (§4.3); arrays line-wrap for readability beyond eight elements.
func (c *typeNameCache) compositeLiteral(cst *Constant) string {
	parts := make([]string, len(cst.Children))
	for i, childID := range cst.Children {
		childInst, ok := c.m.GetByID(childID)
		if !ok {
			parts[i] = DefaultIDName(uint32(childID))
			continue
		}
		parts[i] = c.ConstantLiteral(childInst)
	}

	if typeInst, ok := c.m.GetByID(cst.Type); ok && allEqual(parts) && len(parts) >= 1 {
		if decl, ok := typeInst.Payload.(*TypeDecl); ok && decl.Kind == TypeVector {
			return fmt.Sprintf("%s.%s", parts[0], strings.Repeat("x", len(parts)))
		}
	}

	typeName := c.TypeName(cst.Type)
	if len(parts) > 8 {
		var b strings.Builder
		fmt.Fprintf(&b, "%s(\n", typeName)
		for i := 0; i < len(parts); i += 8 {
			end := i + 8
			if end > len(parts) {
				end = len(parts)
			}
			fmt.Fprintf(&b, "  %s,\n", strings.Join(parts[i:end], ", "))
		}
		b.WriteString(")")
		return b.String()
	}
	return fmt.Sprintf("%s(%s)", typeName, strings.Join(parts, ", "))
}

func allEqual(parts []string) bool {
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts[1:] {
		if p != parts[0] {
			return false
		}
	}
	return true
}

// formatFloatWithDecimal renders f the way the host's "%@" specifier
// does (§6): always with a decimal point, even for whole numbers.
func formatFloatWithDecimal(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func signExtend(bits uint64, width uint32) int64 {
	if width >= 64 {
		return int64(bits)
	}
	shift := 64 - width
	return int64(bits<<shift) >> shift
}

func maskBits(bits uint64, width uint32) uint64 {
	if width >= 64 {
		return bits
	}
	return bits & ((1 << width) - 1)
}

// halfToFloat32 widens an IEEE 754 binary16 value to float32 before
// printing, per §4.3's "converted through a 16->32 bit widening" rule.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 0x1
	exp := int32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	var bits uint32
	switch exp {
	case 0:
		if frac == 0 {
			bits = sign << 31
		} else {
			// subnormal half -> normalize into float32
			for frac&0x400 == 0 {
				frac <<= 1
				exp--
			}
			exp++
			frac &= 0x3ff
			bits = (sign << 31) | (uint32(exp+112) << 23) | (frac << 13)
		}
	case 0x1f:
		bits = (sign << 31) | (0xff << 23) | (frac << 13)
	default:
		bits = (sign << 31) | (uint32(exp+112) << 23) | (frac << 13)
	}
	return math.Float32frombits(bits)
}
