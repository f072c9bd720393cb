package pgcraft

import "github.com/nopeforge/ngpu/block"

// UniformDecl declares one non-texture uniform value. Per spec.md
// §4.J every uniform, regardless of backend default-block support, is
// injected into a single per-stage compat uniform block rather than
// emitted as a separate GLSL `uniform` declaration.
type UniformDecl struct {
	Name  string
	Type  block.Type
	Count int // 0 = scalar, matches block.Field.Count
}

// BlockDecl declares one named uniform/storage block.
type BlockDecl struct {
	Name   string
	Layout block.Layout
	Desc   *block.Desc
	// Storage selects between a uniform block (false, std140) and a
	// shader storage block (true, std430); Desc.Layout must agree.
	Storage bool
}

// Attribute declares one vertex input.
type Attribute struct {
	Name   string
	Format string // GLSL type, e.g. "vec3", "mat4"
	Buffer int    // which vertex_buffer_layout this attribute belongs to
}

// Locations returns how many consecutive attribute locations a
// mat3/mat4 attribute occupies (3/4), 1 for everything else, per
// spec.md §4.J.
func (a Attribute) Locations() int {
	switch a.Format {
	case "mat3":
		return 3
	case "mat4":
		return 4
	default:
		return 1
	}
}

// IOVar declares one vertex-to-fragment interpolated variable.
type IOVar struct {
	Name      string
	Type      string // GLSL type, e.g. "vec2", "flat int"
	Flat      bool
	Precision string
}

// Stage is the textual body supplied by the caller for one
// programmable stage, to be wrapped with synthesized header/iovar/
// uniform/texture/block/attribute declarations.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
)

// Params is the declarative input to Craft: the caller's source
// bodies plus every resource the crafted program binds.
type Params struct {
	Info     Info
	VertSrc  string
	FragSrc  string
	CompSrc  string
	Uniforms []UniformDecl
	Blocks   []BlockDecl
	Textures []TextureDecl
	Attrs    []Attribute
	IOVars   []IOVar
	// WorkgroupSize, for compute, is encoded into the shader source
	// as a local_size_x/y/z layout qualifier.
	WorkgroupSize [3]int
}
