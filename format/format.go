// Package format is the GPU format registry: a static table keyed by
// driver.PixelFmt that carries, per backend, the native API symbols
// needed to create images of that format plus a feature mask refined
// at device-init time.
//
// Grounded in _examples/original_source/libnopegl/src/ngpu/opengl/format_gl.h
// (struct ngpu_format_gl: format/internal_format/type/features) and in
// spec.md §4.B. The GL/VK native symbol fields are left as opaque
// uint32 placeholders (gl* enum values or VkFormat, depending on which
// backend reads the row) so this package has no cgo or backend import.
package format

import "github.com/nopeforge/ngpu/driver"

// Feature is a bit in a format's feature mask.
type Feature uint32

const (
	// Sampled means the format can be sampled in a shader.
	Sampled Feature = 1 << iota
	// LinearFilter means the format supports linear (as opposed
	// to only nearest) texture filtering.
	LinearFilter
	// ColorAttachment means the format can be used as a color
	// render target.
	ColorAttachment
	// Blendable means a color attachment of this format supports
	// blending.
	Blendable
	// DepthStencilAttachment means the format can be used as a
	// depth/stencil render target.
	DepthStencilAttachment
	// Storage means the format can be bound as a storage image.
	Storage
)

// Row is one format registry entry.
type Row struct {
	NComp         int // number of components
	BytesPerPixel int
	// GLInternal/GLFormat/GLType and VKFormat are native symbol
	// placeholders; a concrete backend package casts them to its
	// own enum type (e.g. driver/gl casts GLInternal to gl.Enum).
	GLInternal uint32
	GLFormat   uint32
	GLType     uint32
	VKFormat   uint32
	// Features is the feature mask assumed at registration time;
	// Refine narrows it per the features actually probed for a
	// live device.
	Features Feature
}

// table is the static baseline, indexed by driver.PixelFmt. Values
// not set here default to the zero Row (NComp 0, no features) and are
// treated as unrepresentable by a given backend.
// GL enum values below are transcribed from the khronos GL/GLES
// registry; they are plain numeric constants so this package can list
// them without importing a GL binding. driver/gl casts them to its own
// gl.Enum (they are numerically identical).
const (
	glRGBA8                       = 0x8058
	glSRGB8Alpha8                 = 0x8C43
	glRGBA                        = 0x1908
	glBGRA                        = 0x80E1
	glRG8                         = 0x822B
	glRG                          = 0x8227
	glR8                          = 0x8229
	glRed                         = 0x1903
	glUnsignedByte                = 0x1401
	glByte                        = 0x1400
	glRGBA16F                     = 0x881A
	glRG16F                       = 0x822F
	glR16F                        = 0x822D
	glHalfFloat                   = 0x140B
	glRGBA32F                     = 0x8814
	glRG32F                       = 0x8230
	glR32F                        = 0x822E
	glFloat                       = 0x1406
	glDepthComponent16            = 0x81A5
	glDepthComponent32F           = 0x8CAC
	glDepthComponent              = 0x1902
	glUnsignedShort               = 0x1403
	glStencilIndex8               = 0x8D48
	glStencilIndex                = 0x1901
	glDepth24Stencil8             = 0x88F0
	glDepth32FStencil8            = 0x8CAD
	glDepthStencil                = 0x84F9
	glUnsignedInt248              = 0x84FA
	glFloat32UnsignedInt248Rev    = 0x8DAD
)

var table = map[driver.PixelFmt]Row{
	driver.RGBA8un:   {NComp: 4, BytesPerPixel: 4, GLInternal: glRGBA8, GLFormat: glRGBA, GLType: glUnsignedByte, Features: Sampled | LinearFilter | ColorAttachment | Blendable},
	driver.RGBA8n:    {NComp: 4, BytesPerPixel: 4, GLInternal: glRGBA8, GLFormat: glRGBA, GLType: glByte, Features: Sampled | LinearFilter},
	driver.RGBA8sRGB: {NComp: 4, BytesPerPixel: 4, GLInternal: glSRGB8Alpha8, GLFormat: glRGBA, GLType: glUnsignedByte, Features: Sampled | LinearFilter | ColorAttachment | Blendable},
	driver.BGRA8un:   {NComp: 4, BytesPerPixel: 4, GLInternal: glRGBA8, GLFormat: glBGRA, GLType: glUnsignedByte, Features: Sampled | LinearFilter | ColorAttachment | Blendable},
	driver.BGRA8sRGB: {NComp: 4, BytesPerPixel: 4, GLInternal: glSRGB8Alpha8, GLFormat: glBGRA, GLType: glUnsignedByte, Features: Sampled | LinearFilter | ColorAttachment | Blendable},
	driver.RG8un:     {NComp: 2, BytesPerPixel: 2, GLInternal: glRG8, GLFormat: glRG, GLType: glUnsignedByte, Features: Sampled | LinearFilter | ColorAttachment | Blendable},
	driver.RG8n:      {NComp: 2, BytesPerPixel: 2, GLInternal: glRG8, GLFormat: glRG, GLType: glByte, Features: Sampled | LinearFilter},
	driver.R8un:      {NComp: 1, BytesPerPixel: 1, GLInternal: glR8, GLFormat: glRed, GLType: glUnsignedByte, Features: Sampled | LinearFilter | ColorAttachment | Blendable},
	driver.R8n:       {NComp: 1, BytesPerPixel: 1, GLInternal: glR8, GLFormat: glRed, GLType: glByte, Features: Sampled | LinearFilter},
	driver.RGBA16f:   {NComp: 4, BytesPerPixel: 8, GLInternal: glRGBA16F, GLFormat: glRGBA, GLType: glHalfFloat, Features: Sampled | ColorAttachment | Storage},
	driver.RG16f:     {NComp: 2, BytesPerPixel: 4, GLInternal: glRG16F, GLFormat: glRG, GLType: glHalfFloat, Features: Sampled | ColorAttachment | Storage},
	driver.R16f:      {NComp: 1, BytesPerPixel: 2, GLInternal: glR16F, GLFormat: glRed, GLType: glHalfFloat, Features: Sampled | ColorAttachment | Storage},
	driver.RGBA32f:   {NComp: 4, BytesPerPixel: 16, GLInternal: glRGBA32F, GLFormat: glRGBA, GLType: glFloat, Features: Sampled | ColorAttachment | Storage},
	driver.RG32f:     {NComp: 2, BytesPerPixel: 8, GLInternal: glRG32F, GLFormat: glRG, GLType: glFloat, Features: Sampled | ColorAttachment | Storage},
	driver.R32f:      {NComp: 1, BytesPerPixel: 4, GLInternal: glR32F, GLFormat: glRed, GLType: glFloat, Features: Sampled | ColorAttachment | Storage},
	driver.D16un:     {NComp: 1, BytesPerPixel: 2, GLInternal: glDepthComponent16, GLFormat: glDepthComponent, GLType: glUnsignedShort, Features: DepthStencilAttachment},
	driver.D32f:      {NComp: 1, BytesPerPixel: 4, GLInternal: glDepthComponent32F, GLFormat: glDepthComponent, GLType: glFloat, Features: DepthStencilAttachment},
	driver.S8ui:      {NComp: 1, BytesPerPixel: 1, GLInternal: glStencilIndex8, GLFormat: glStencilIndex, GLType: glUnsignedByte, Features: DepthStencilAttachment},
	driver.D24unS8ui: {NComp: 2, BytesPerPixel: 4, GLInternal: glDepth24Stencil8, GLFormat: glDepthStencil, GLType: glUnsignedInt248, Features: DepthStencilAttachment},
	driver.D32fS8ui:  {NComp: 2, BytesPerPixel: 8, GLInternal: glDepth32FStencil8, GLFormat: glDepthStencil, GLType: glFloat32UnsignedInt248Rev, Features: DepthStencilAttachment},
}

// Get returns the registry row for pf. The second return is false for
// a format with no entry.
func Get(pf driver.PixelFmt) (Row, bool) {
	r, ok := table[pf]
	return r, ok
}

// NComp returns the number of components of pf, or 0 if pf is unknown.
func NComp(pf driver.PixelFmt) int { r, _ := Get(pf); return r.NComp }

// BytesPerPixel returns the pixel size in bytes of pf, or 0 if pf is
// unknown.
func BytesPerPixel(pf driver.PixelFmt) int { r, _ := Get(pf); return r.BytesPerPixel }

// Features returns the (possibly device-refined) feature mask of pf.
func Features(pf driver.PixelFmt) Feature { r, _ := Get(pf); return r.Features }

// Registry is a per-device, mutable copy of the static table, refined
// by Refine as extensions/features are probed at context init. The
// static table itself (accessed via the package-level Get/Features) is
// never mutated; spec.md §9 calls this "an immutable baseline + an
// upgrade phase that ORs in bits when extensions are detected".
type Registry struct {
	rows map[driver.PixelFmt]Row
}

// NewRegistry creates a per-device registry seeded from the baseline
// table.
func NewRegistry() *Registry {
	r := &Registry{rows: make(map[driver.PixelFmt]Row, len(table))}
	for k, v := range table {
		r.rows[k] = v
	}
	return r
}

// Refine ORs extra bits into pf's feature mask. It is called once per
// detected extension/capability (e.g. "FLOAT_LINEAR",
// "COLOR_BUFFER_FLOAT", "TEXTURE_NORM16" in spec.md §4.B).
func (r *Registry) Refine(pf driver.PixelFmt, extra Feature) {
	row := r.rows[pf]
	row.Features |= extra
	r.rows[pf] = row
}

// Get returns the device-refined row for pf.
func (r *Registry) Get(pf driver.PixelFmt) (Row, bool) {
	row, ok := r.rows[pf]
	return row, ok
}

// Features returns the device-refined feature mask of pf.
func (r *Registry) Features(pf driver.PixelFmt) Feature {
	row, _ := r.Get(pf)
	return row.Features
}
