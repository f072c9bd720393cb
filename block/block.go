// Package block implements the std140 and std430 GLSL block field
// packing rules: size, alignment, stride and offset for mixed
// scalar/vector/matrix/array fields.
//
// Grounded in _examples/original_source/libnodegl/block.c
// (ngli_block_init/ngli_block_add_field/ngli_block_field_copy), with
// the strides/aligns/sizes maps transcribed from its static tables.
package block

import (
	"fmt"

	"github.com/nopeforge/ngpu/gpuerr"
)

// Layout selects a GLSL memory layout.
type Layout int

const (
	// Std140 is the UBO layout: every element is padded to a
	// 16-byte (vec4) boundary.
	Std140 Layout = iota
	// Std430 is the relaxed SSBO layout.
	Std430
)

// Type is a block field's scalar/vector/matrix element type.
type Type int

// Field element types.
const (
	None Type = iota
	Bool
	Int
	IVec2
	IVec3
	IVec4
	UInt
	UVec2
	UVec3
	UVec4
	Float
	Vec2
	Vec3
	Vec4
	Mat3
	Mat4
	nbType
)

// Variadic, used as a field's Count, means the field is runtime-sized.
// It is only valid for the last field of a std430 storage block.
const Variadic = -1

const wordSize = 4 // sizeof(int32) == sizeof(float32)

// sizesMap is the tightly-packed CPU/GPU scalar size of one element,
// independent of layout (block.c's sizes_map).
var sizesMap = [nbType]int{
	Bool:  wordSize,
	Int:   wordSize,
	IVec2: wordSize * 2,
	IVec3: wordSize * 3,
	IVec4: wordSize * 4,
	UInt:  wordSize,
	UVec2: wordSize * 2,
	UVec3: wordSize * 3,
	UVec4: wordSize * 4,
	Float: wordSize,
	Vec2:  wordSize * 2,
	Vec3:  wordSize * 3,
	Vec4:  wordSize * 4,
	Mat3:  wordSize * 3 * 3,
	Mat4:  wordSize * 4 * 4,
}

// stridesMap is the per-layout, per-array-element stride (block.c's
// strides_map), i.e. the distance in bytes between two consecutive
// elements of an array of this type (or, for a scalar, the minimum
// alignment contribution it would have as an array element).
var stridesMap = [2][nbType]int{
	Std140: {
		Bool:  wordSize * 4,
		Int:   wordSize * 4,
		IVec2: wordSize * 4,
		IVec3: wordSize * 4,
		IVec4: wordSize * 4,
		UInt:  wordSize * 4,
		UVec2: wordSize * 4,
		UVec3: wordSize * 4,
		UVec4: wordSize * 4,
		Float: wordSize * 4,
		Vec2:  wordSize * 4,
		Vec3:  wordSize * 4,
		Vec4:  wordSize * 4,
		Mat3:  wordSize * 4 * 3, // 16 bytes per column, 3 columns
		Mat4:  wordSize * 4 * 4, // 16 bytes per column, 4 columns
	},
	Std430: {
		Bool:  wordSize * 1,
		Int:   wordSize * 1,
		IVec2: wordSize * 2,
		IVec3: wordSize * 4,
		IVec4: wordSize * 4,
		UInt:  wordSize * 1,
		UVec2: wordSize * 2,
		UVec3: wordSize * 4,
		UVec4: wordSize * 4,
		Float: wordSize * 1,
		Vec2:  wordSize * 2,
		Vec3:  wordSize * 4,
		Vec4:  wordSize * 4,
		Mat3:  wordSize * 4 * 3,
		Mat4:  wordSize * 4 * 4,
	},
}

// alignsMap is the natural (non-array) alignment of a scalar field,
// independent of layout (block.c's aligns_map).
var alignsMap = [nbType]int{
	Bool:  wordSize * 1,
	Int:   wordSize * 1,
	IVec2: wordSize * 2,
	IVec3: wordSize * 4,
	IVec4: wordSize * 4,
	UInt:  wordSize * 1,
	UVec2: wordSize * 2,
	UVec3: wordSize * 4,
	UVec4: wordSize * 4,
	Float: wordSize * 1,
	Vec2:  wordSize * 2,
	Vec3:  wordSize * 4,
	Vec4:  wordSize * 4,
	Mat3:  wordSize * 4,
	Mat4:  wordSize * 4,
}

func bufferStride(typ Type, layout Layout) int { return stridesMap[layout][typ] }

func bufferSize(count int, typ Type, layout Layout) int { return count * bufferStride(typ, layout) }

func fieldSize(count int, typ Type, layout Layout) int {
	if count > 0 {
		return bufferSize(count, typ, layout)
	}
	return sizesMap[typ]
}

func fieldAlign(count int, typ Type, layout Layout) int {
	if count > 0 && typ != Mat4 {
		return bufferStride(typ, layout)
	}
	return alignsMap[typ]
}

func alignUp(n, align int) int {
	if r := n % align; r != 0 {
		return n + align - r
	}
	return n
}

// Field is one packed field of a Desc, with its computed layout.
type Field struct {
	Name      string
	Type      Type
	Count     int // 0 = scalar, Variadic = runtime-sized
	Precision int // shader-specific, e.g. GLSL precision qualifier; 0 = default
	Size      int
	Stride    int
	Offset    int
}

// Desc is an ordered list of typed fields packed according to a
// std140 or std430 Layout. It mirrors libnodegl's struct block.
type Desc struct {
	Layout    Layout
	Fields    []Field
	TotalSize int
}

// NewDesc creates an empty block descriptor for the given layout.
func NewDesc(layout Layout) *Desc { return &Desc{Layout: layout} }

// AddField appends one field, computing its size/stride/offset and
// advancing TotalSize. count == 0 means a scalar (non-array) field;
// count == Variadic marks a runtime-sized field, which must be the
// last field added and is only valid in a Std430 block.
func (d *Desc) AddField(name string, typ Type, count int, precision int) (*Field, error) {
	const op = "block.Desc.AddField"
	if typ == None || typ <= 0 || typ >= nbType {
		return nil, gpuerr.New(op, gpuerr.InvalidArg, "field type must not be none")
	}
	if count == Variadic {
		if d.Layout != Std430 {
			return nil, gpuerr.New(op, gpuerr.InvalidArg, "variadic field requires std430 layout")
		}
		for _, f := range d.Fields {
			if f.Count == Variadic {
				return nil, gpuerr.New(op, gpuerr.InvalidArg, "block already has a variadic field")
			}
		}
		// The variadic field itself contributes zero fixed size;
		// its contribution is computed on demand by Size.
		align := fieldAlign(1, typ, d.Layout)
		offset := alignUp(d.TotalSize, align)
		field := Field{
			Name:   name,
			Type:   typ,
			Count:  Variadic,
			Stride: bufferStride(typ, d.Layout),
			Offset: offset,
		}
		d.Fields = append(d.Fields, field)
		d.TotalSize = offset
		return &d.Fields[len(d.Fields)-1], nil
	}
	if count < 0 {
		return nil, gpuerr.New(op, gpuerr.InvalidArg, "negative field count")
	}

	size := fieldSize(count, typ, d.Layout)
	align := fieldAlign(count, typ, d.Layout)
	if size == 0 || align == 0 {
		return nil, gpuerr.New(op, gpuerr.Bug, fmt.Sprintf("unmapped type %d", typ))
	}

	offset := alignUp(d.TotalSize, align)
	field := Field{
		Name:   name,
		Type:   typ,
		Count:  count,
		Stride: bufferStride(typ, d.Layout),
		Offset: offset,
		Size:   size,
	}
	d.Fields = append(d.Fields, field)
	d.TotalSize = offset + size
	return &d.Fields[len(d.Fields)-1], nil
}

// Size returns TotalSize, plus runtimeVariadicCount * stride when the
// block ends in a variadic field. It is a no-op addition (0) if the
// block has no variadic field.
func (d *Desc) Size(runtimeVariadicCount int) int {
	if n := len(d.Fields); n > 0 {
		last := d.Fields[n-1]
		if last.Count == Variadic {
			return d.TotalSize + runtimeVariadicCount*last.Stride
		}
	}
	return d.TotalSize
}

// FieldCopy packs a tightly-packed CPU source array of f.Count elements
// (or one element, if f.Count == 0) of f.Type's natural size into dst,
// which must have at least f.Size (or runtimeCount*f.Stride, for a
// variadic field) bytes. When the source element size equals f.Stride
// a single copy suffices; otherwise each element is copied individually
// with the destination advancing by f.Stride and the source by the
// type's natural (tightly packed) size.
func FieldCopy(f *Field, dst, src []byte) {
	srcStride := sizesMap[f.Type]
	if f.Count == 0 || srcStride == f.Stride {
		n := f.Size
		if f.Count == Variadic {
			n = len(src)
		}
		copy(dst, src[:n])
		return
	}
	count := f.Count
	if count == Variadic {
		count = len(src) / srcStride
	}
	for i := 0; i < count; i++ {
		copy(dst[i*f.Stride:], src[i*srcStride:(i+1)*srcStride])
	}
}
