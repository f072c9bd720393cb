// Package gl implements driver interfaces using desktop OpenGL (4.3
// core) via github.com/go-gl/gl, following spec.md §4.I-§4.H's
// description of the GL backend: a software command buffer that
// records commands and replays them at submit, explicit barriers
// derived from usage flags, and state diffing on the draw path.
//
// Grounded in driver/vk's structure (one package per concern: driver,
// buffer, image, desc, pass, pipeln, cmd) with Vulkan calls replaced
// by github.com/go-gl/gl/v4.3-core/gl calls, and in
// _examples/original_source/libnopegl/src/backends/gl for the
// load/store/resolve/barrier algorithms spec.md §4.F-§4.H describe.
//
// Unlike driver/vk, this package assumes the caller has already made
// a native GL context current on the calling OS thread before calling
// Driver.Open (spec.md Non-goals: the core never owns a window
// system); Open only initializes the function pointers and probes
// capabilities against that context.
package gl

import (
	glfn "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/format"
)

// glFormat resolves the (internal format, format, type) triple for a
// pixel format from the shared format registry, panicking only if the
// format truly has no registry row (a driver bug, not a runtime
// condition).
func glFormat(pf driver.PixelFmt) (internal, extFormat, typ uint32) {
	row, ok := format.Get(pf)
	if !ok {
		return 0, 0, 0
	}
	return row.GLInternal, row.GLFormat, row.GLType
}

func isDepthStencil(pf driver.PixelFmt) bool {
	switch pf {
	case driver.D16un, driver.D32f, driver.S8ui, driver.D24unS8ui, driver.D32fS8ui:
		return true
	}
	return false
}

func hasStencil(pf driver.PixelFmt) bool {
	switch pf {
	case driver.S8ui, driver.D24unS8ui, driver.D32fS8ui:
		return true
	}
	return false
}

// bufferTarget picks a binding target for glBindBuffer. The target
// chosen at creation time is mostly cosmetic (GL lets any buffer be
// rebound to any target) but it drives the usage hint below and keeps
// the initial bind meaningful for debug tools.
func bufferTarget(usg driver.Usage) uint32 {
	switch {
	case usg&driver.UVertexData != 0:
		return glfn.ARRAY_BUFFER
	case usg&driver.UIndexData != 0:
		return glfn.ELEMENT_ARRAY_BUFFER
	case usg&driver.UShaderConst != 0:
		return glfn.UNIFORM_BUFFER
	case usg&(driver.UShaderRead|driver.UShaderWrite) != 0:
		return glfn.SHADER_STORAGE_BUFFER
	default:
		return glfn.COPY_WRITE_BUFFER
	}
}

// usageHint picks a glBufferData usage hint. Visible (host-mapped)
// buffers are DYNAMIC, everything else is treated as set up once and
// read many times on the device.
func usageHint(visible bool) uint32 {
	if visible {
		return glfn.DYNAMIC_DRAW
	}
	return glfn.STATIC_DRAW
}

// barrierBits returns the glMemoryBarrier bits a resource's usage
// flags imply, per spec.md §4.C step 3 and §4.D's bind-group barrier
// union.
func barrierBits(usg driver.Usage) uint32 {
	var bits uint32
	if usg&driver.UShaderConst != 0 {
		bits |= glfn.UNIFORM_BARRIER_BIT
	}
	if usg&(driver.UShaderRead|driver.UShaderWrite) != 0 {
		bits |= glfn.SHADER_STORAGE_BARRIER_BIT
	}
	if usg&driver.UVertexData != 0 {
		bits |= glfn.VERTEX_ATTRIB_ARRAY_BARRIER_BIT
	}
	if usg&driver.UIndexData != 0 {
		bits |= glfn.ELEMENT_ARRAY_BARRIER_BIT
	}
	if usg&driver.UShaderWrite != 0 {
		bits |= glfn.SHADER_IMAGE_ACCESS_BARRIER_BIT
	}
	return bits
}

func vertexFmtInfo(f driver.VertexFmt) (size int32, typ uint32, normalized bool, integer bool) {
	switch f {
	case driver.Int8:
		return 1, glfn.BYTE, false, true
	case driver.Int8x2:
		return 2, glfn.BYTE, false, true
	case driver.Int8x3:
		return 3, glfn.BYTE, false, true
	case driver.Int8x4:
		return 4, glfn.BYTE, false, true
	case driver.Int16:
		return 1, glfn.SHORT, false, true
	case driver.Int16x2:
		return 2, glfn.SHORT, false, true
	case driver.Int16x3:
		return 3, glfn.SHORT, false, true
	case driver.Int16x4:
		return 4, glfn.SHORT, false, true
	case driver.Int32:
		return 1, glfn.INT, false, true
	case driver.Int32x2:
		return 2, glfn.INT, false, true
	case driver.Int32x3:
		return 3, glfn.INT, false, true
	case driver.Int32x4:
		return 4, glfn.INT, false, true
	case driver.UInt8:
		return 1, glfn.UNSIGNED_BYTE, false, true
	case driver.UInt8x2:
		return 2, glfn.UNSIGNED_BYTE, false, true
	case driver.UInt8x3:
		return 3, glfn.UNSIGNED_BYTE, false, true
	case driver.UInt8x4:
		return 4, glfn.UNSIGNED_BYTE, false, true
	case driver.UInt16:
		return 1, glfn.UNSIGNED_SHORT, false, true
	case driver.UInt16x2:
		return 2, glfn.UNSIGNED_SHORT, false, true
	case driver.UInt16x3:
		return 3, glfn.UNSIGNED_SHORT, false, true
	case driver.UInt16x4:
		return 4, glfn.UNSIGNED_SHORT, false, true
	case driver.UInt32:
		return 1, glfn.UNSIGNED_INT, false, true
	case driver.UInt32x2:
		return 2, glfn.UNSIGNED_INT, false, true
	case driver.UInt32x3:
		return 3, glfn.UNSIGNED_INT, false, true
	case driver.UInt32x4:
		return 4, glfn.UNSIGNED_INT, false, true
	case driver.Float32:
		return 1, glfn.FLOAT, false, false
	case driver.Float32x2:
		return 2, glfn.FLOAT, false, false
	case driver.Float32x3:
		return 3, glfn.FLOAT, false, false
	case driver.Float32x4:
		return 4, glfn.FLOAT, false, false
	default:
		return 0, 0, false, false
	}
}

func topologyMode(t driver.Topology) uint32 {
	switch t {
	case driver.TPoint:
		return glfn.POINTS
	case driver.TLine:
		return glfn.LINES
	case driver.TLnStrip:
		return glfn.LINE_STRIP
	case driver.TTriangle:
		return glfn.TRIANGLES
	case driver.TTriStrip:
		return glfn.TRIANGLE_STRIP
	default:
		return glfn.TRIANGLES
	}
}

func indexFmtType(f driver.IndexFmt) uint32 {
	if f == driver.Index16 {
		return glfn.UNSIGNED_SHORT
	}
	return glfn.UNSIGNED_INT
}

func cullMode(m driver.CullMode) (enable bool, face uint32) {
	switch m {
	case driver.CFront:
		return true, glfn.FRONT
	case driver.CBack:
		return true, glfn.BACK
	default:
		return false, 0
	}
}

func cmpFunc(f driver.CmpFunc) uint32 {
	switch f {
	case driver.CNever:
		return glfn.NEVER
	case driver.CLess:
		return glfn.LESS
	case driver.CEqual:
		return glfn.EQUAL
	case driver.CLessEqual:
		return glfn.LEQUAL
	case driver.CGreater:
		return glfn.GREATER
	case driver.CNotEqual:
		return glfn.NOTEQUAL
	case driver.CGreaterEqual:
		return glfn.GEQUAL
	default:
		return glfn.ALWAYS
	}
}

func stencilOp(op driver.StencilOp) uint32 {
	switch op {
	case driver.SZero:
		return glfn.ZERO
	case driver.SReplace:
		return glfn.REPLACE
	case driver.SIncClamp:
		return glfn.INCR
	case driver.SDecClamp:
		return glfn.DECR
	case driver.SInvert:
		return glfn.INVERT
	case driver.SIncWrap:
		return glfn.INCR_WRAP
	case driver.SDecWrap:
		return glfn.DECR_WRAP
	default:
		return glfn.KEEP
	}
}

func blendOp(op driver.BlendOp) uint32 {
	switch op {
	case driver.BSubtract:
		return glfn.FUNC_SUBTRACT
	case driver.BRevSubtract:
		return glfn.FUNC_REVERSE_SUBTRACT
	case driver.BMin:
		return glfn.MIN
	case driver.BMax:
		return glfn.MAX
	default:
		return glfn.FUNC_ADD
	}
}

func blendFac(f driver.BlendFac) uint32 {
	switch f {
	case driver.BOne:
		return glfn.ONE
	case driver.BSrcColor:
		return glfn.SRC_COLOR
	case driver.BInvSrcColor:
		return glfn.ONE_MINUS_SRC_COLOR
	case driver.BSrcAlpha:
		return glfn.SRC_ALPHA
	case driver.BInvSrcAlpha:
		return glfn.ONE_MINUS_SRC_ALPHA
	case driver.BDstColor:
		return glfn.DST_COLOR
	case driver.BInvDstColor:
		return glfn.ONE_MINUS_DST_COLOR
	case driver.BDstAlpha:
		return glfn.DST_ALPHA
	case driver.BInvDstAlpha:
		return glfn.ONE_MINUS_DST_ALPHA
	case driver.BSrcAlphaSaturated:
		return glfn.SRC_ALPHA_SATURATE
	case driver.BBlendColor:
		return glfn.CONSTANT_COLOR
	case driver.BInvBlendColor:
		return glfn.ONE_MINUS_CONSTANT_COLOR
	default:
		return glfn.ZERO
	}
}

func filterMode(f driver.Filter) uint32 {
	if f == driver.FLinear {
		return glfn.LINEAR
	}
	return glfn.NEAREST
}

func minFilterMode(min, mip driver.Filter) uint32 {
	switch {
	case mip == driver.FNoMipmap && min == driver.FLinear:
		return glfn.LINEAR
	case mip == driver.FNoMipmap:
		return glfn.NEAREST
	case min == driver.FLinear && mip == driver.FLinear:
		return glfn.LINEAR_MIPMAP_LINEAR
	case min == driver.FLinear:
		return glfn.LINEAR_MIPMAP_NEAREST
	case mip == driver.FLinear:
		return glfn.NEAREST_MIPMAP_LINEAR
	default:
		return glfn.NEAREST_MIPMAP_NEAREST
	}
}

func addrMode(m driver.AddrMode) int32 {
	switch m {
	case driver.AMirror:
		return glfn.MIRRORED_REPEAT
	case driver.AClamp:
		return glfn.CLAMP_TO_EDGE
	default:
		return glfn.REPEAT
	}
}
