package gl

import (
	glfn "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/nopeforge/ngpu/driver"
)

// glState caches the fixed-function bindings applied while replaying a
// command buffer, so a Set* call that leaves GL state unchanged from
// the last draw issues no GL calls at all, per spec.md §4.G's
// requirement that the draw path only emit the state changes that
// actually differ.
type glState struct {
	program uint32
	fbo     uint32
	vao     uint32

	rasterValid bool
	raster      driver.RasterState

	dsValid bool
	ds      driver.DSState

	blendValid bool
	blend      driver.BlendState

	blendColor [4]float32
	stencilRef uint32
}

func newGLState() glState { return glState{} }

func (s *glState) bindProgram(prog uint32) {
	if s.program == prog {
		return
	}
	glfn.UseProgram(prog)
	s.program = prog
}

func (s *glState) bindFramebuffer(fbo uint32) {
	if s.fbo == fbo {
		return
	}
	glfn.BindFramebuffer(glfn.FRAMEBUFFER, fbo)
	s.fbo = fbo
}

func (s *glState) bindVAO(vao uint32) {
	if s.vao == vao {
		return
	}
	glfn.BindVertexArray(vao)
	s.vao = vao
}

func (s *glState) applyRaster(r driver.RasterState) {
	if s.rasterValid && s.raster == r {
		return
	}
	if r.Clockwise {
		glfn.FrontFace(glfn.CW)
	} else {
		glfn.FrontFace(glfn.CCW)
	}
	if enable, face := cullMode(r.Cull); enable {
		glfn.Enable(glfn.CULL_FACE)
		glfn.CullFace(face)
	} else {
		glfn.Disable(glfn.CULL_FACE)
	}
	if r.Fill == driver.FLines {
		glfn.PolygonMode(glfn.FRONT_AND_BACK, glfn.LINE)
	} else {
		glfn.PolygonMode(glfn.FRONT_AND_BACK, glfn.FILL)
	}
	if r.DepthBias {
		glfn.Enable(glfn.POLYGON_OFFSET_FILL)
		glfn.PolygonOffset(r.BiasSlope, r.BiasValue)
	} else {
		glfn.Disable(glfn.POLYGON_OFFSET_FILL)
	}
	s.raster, s.rasterValid = r, true
}

// applyStencilRef updates the cached reference value used by
// applyDS's stencil func calls. Since the ref is not itself part of
// driver.DSState, changing it alone must force applyDS to re-issue
// the stencil function even when the DSState value is unchanged.
func (s *glState) applyStencilRef(ref uint32) {
	if s.stencilRef == ref {
		return
	}
	s.stencilRef = ref
	s.dsValid = false
}

func (s *glState) applyDS(d driver.DSState) {
	if s.dsValid && s.ds == d {
		return
	}
	if d.DepthTest {
		glfn.Enable(glfn.DEPTH_TEST)
		glfn.DepthFunc(cmpFunc(d.DepthCmp))
	} else {
		glfn.Disable(glfn.DEPTH_TEST)
	}
	glfn.DepthMask(d.DepthWrite)
	if d.StencilTest {
		glfn.Enable(glfn.STENCIL_TEST)
		glfn.StencilFuncSeparate(glfn.FRONT, cmpFunc(d.Front.Cmp), int32(s.stencilRef), d.Front.ReadMask)
		glfn.StencilOpSeparate(glfn.FRONT, stencilOp(d.Front.DSFail[0]), stencilOp(d.Front.DSFail[1]), stencilOp(d.Front.Pass))
		glfn.StencilMaskSeparate(glfn.FRONT, d.Front.WriteMask)
		glfn.StencilFuncSeparate(glfn.BACK, cmpFunc(d.Back.Cmp), int32(s.stencilRef), d.Back.ReadMask)
		glfn.StencilOpSeparate(glfn.BACK, stencilOp(d.Back.DSFail[0]), stencilOp(d.Back.DSFail[1]), stencilOp(d.Back.Pass))
		glfn.StencilMaskSeparate(glfn.BACK, d.Back.WriteMask)
	} else {
		glfn.Disable(glfn.STENCIL_TEST)
	}
	s.ds, s.dsValid = d, true
}

func (s *glState) applyBlend(b driver.BlendState) {
	if s.blendValid && sameBlend(s.blend, b) {
		return
	}
	for i := range b.Color {
		idx := i
		if !b.IndependentBlend {
			idx = 0
		}
		c := b.Color[idx]
		if c.Blend {
			glfn.Enablei(glfn.BLEND, uint32(i))
			glfn.BlendEquationSeparatei(uint32(i), blendOp(c.Op[0]), blendOp(c.Op[1]))
			glfn.BlendFuncSeparatei(uint32(i), blendFac(c.SrcFac[0]), blendFac(c.DstFac[0]), blendFac(c.SrcFac[1]), blendFac(c.DstFac[1]))
		} else {
			glfn.Disablei(glfn.BLEND, uint32(i))
		}
		glfn.ColorMaski(uint32(i),
			c.WriteMask&driver.CRed != 0,
			c.WriteMask&driver.CGreen != 0,
			c.WriteMask&driver.CBlue != 0,
			c.WriteMask&driver.CAlpha != 0)
	}
	s.blend, s.blendValid = b, true
}

func sameBlend(a, b driver.BlendState) bool {
	if a.IndependentBlend != b.IndependentBlend || len(a.Color) != len(b.Color) {
		return false
	}
	for i := range a.Color {
		if a.Color[i] != b.Color[i] {
			return false
		}
	}
	return true
}

func (s *glState) applyBlendColor(r, g, b, a float32) {
	c := [4]float32{r, g, b, a}
	if c == s.blendColor {
		return
	}
	glfn.BlendColor(r, g, b, a)
	s.blendColor = c
}
