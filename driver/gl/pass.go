package gl

import (
	glfn "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/nopeforge/ngpu/driver"
)

// renderPass implements driver.RenderPass. GL has no render-pass
// object, so renderPass just retains the attachment/subpass
// description needed to drive glDrawBuffers, glInvalidateFramebuffer
// and glBlitFramebuffer at BeginPass/EndPass time.
type renderPass struct {
	att []driver.Attachment
	sub []driver.Subpass
}

// NewRenderPass creates a new render pass.
func (d *Driver) NewRenderPass(att []driver.Attachment, sub []driver.Subpass) (driver.RenderPass, error) {
	if len(sub) == 0 {
		return nil, driver.ErrFatal
	}
	return &renderPass{att: append([]driver.Attachment(nil), att...), sub: append([]driver.Subpass(nil), sub...)}, nil
}

// Destroy is a no-op: a renderPass owns no GL objects.
func (p *renderPass) Destroy() {}

// framebuf implements driver.Framebuf as a single GL framebuffer
// object carrying every attachment named by the render pass; the
// active subpass's glDrawBuffers subset is applied at BeginPass/
// NextSubpass.
type framebuf struct {
	pass           *renderPass
	fbo            uint32
	views          []driver.ImageView
	width, height  int
	layers         int
}

// NewFB creates a new framebuffer.
func (p *renderPass) NewFB(iv []driver.ImageView, width, height, layers int) (driver.Framebuf, error) {
	var fbo uint32
	glfn.GenFramebuffers(1, &fbo)
	glfn.BindFramebuffer(glfn.FRAMEBUFFER, fbo)

	colorNr := uint32(0)
	for i, v := range iv {
		if v == nil {
			continue
		}
		view := v.(*imageView)
		attach := attachmentPoint(p.att[i].Format, &colorNr)
		attachImage(attach, view)
	}
	glfn.BindFramebuffer(glfn.FRAMEBUFFER, 0)

	return &framebuf{pass: p, fbo: fbo, views: append([]driver.ImageView(nil), iv...), width: width, height: height, layers: layers}, nil
}

// attachmentPoint picks the GL attachment enum for a pixel format,
// consuming and advancing colorNr for color attachments.
func attachmentPoint(pf driver.PixelFmt, colorNr *uint32) uint32 {
	if !isDepthStencil(pf) {
		a := glfn.COLOR_ATTACHMENT0 + *colorNr
		*colorNr++
		return a
	}
	if hasStencil(pf) {
		return glfn.DEPTH_STENCIL_ATTACHMENT
	}
	if pf == driver.S8ui {
		return glfn.STENCIL_ATTACHMENT
	}
	return glfn.DEPTH_ATTACHMENT
}

// attachImage binds view to attach on the currently-bound framebuffer,
// choosing FramebufferTexture*/FramebufferRenderbuffer depending on
// how the underlying image was created.
func attachImage(attach uint32, view *imageView) {
	im := view.img
	if im.rb != 0 {
		glfn.FramebufferRenderbuffer(glfn.FRAMEBUFFER, attach, glfn.RENDERBUFFER, im.rb)
		return
	}
	if view.layers > 1 || im.target == glfn.TEXTURE_2D_ARRAY || im.target == glfn.TEXTURE_3D {
		glfn.FramebufferTextureLayer(glfn.FRAMEBUFFER, attach, im.tex, int32(view.level), int32(view.layer))
		return
	}
	glfn.FramebufferTexture2D(glfn.FRAMEBUFFER, attach, im.target, im.tex, int32(view.level))
}

// Destroy deletes the underlying GL framebuffer object.
func (f *framebuf) Destroy() {
	glfn.DeleteFramebuffers(1, &f.fbo)
}

// drawBuffersFor returns the glDrawBuffers argument for the given
// subpass, one COLOR_ATTACHMENTi (or NONE) per entry in sub.Color.
func drawBuffersFor(sub driver.Subpass) []uint32 {
	if len(sub.Color) == 0 {
		return []uint32{glfn.NONE}
	}
	bufs := make([]uint32, len(sub.Color))
	for i, c := range sub.Color {
		if c < 0 {
			bufs[i] = glfn.NONE
			continue
		}
		bufs[i] = glfn.COLOR_ATTACHMENT0 + uint32(c)
	}
	return bufs
}

// clearPass issues glClear for every attachment whose load op in
// clear is LClear, using the corresponding ClearValue.
func clearPass(pass *renderPass, sub driver.Subpass, clear []driver.ClearValue) {
	var mask uint32
	for _, c := range sub.Color {
		if c >= 0 && c < len(pass.att) && pass.att[c].Load[0] == driver.LClear {
			if c < len(clear) {
				cv := clear[c]
				glfn.ClearColor(cv.Color[0], cv.Color[1], cv.Color[2], cv.Color[3])
			}
			mask |= glfn.COLOR_BUFFER_BIT
		}
	}
	if sub.DS >= 0 && sub.DS < len(pass.att) {
		a := pass.att[sub.DS]
		if a.Load[0] == driver.LClear {
			if sub.DS < len(clear) {
				glfn.ClearDepthf(clear[sub.DS].Depth)
			}
			mask |= glfn.DEPTH_BUFFER_BIT
		}
		if a.Load[1] == driver.LClear {
			if sub.DS < len(clear) {
				glfn.ClearStencil(int32(clear[sub.DS].Stencil))
			}
			mask |= glfn.STENCIL_BUFFER_BIT
		}
	}
	if mask != 0 {
		glfn.Clear(mask)
	}
}

// invalidatePass issues glInvalidateFramebuffer for every attachment
// whose store op is SDontCare, matching spec.md §4.F's treatment of
// DONT_CARE stores as a hint rather than a guarantee.
func invalidatePass(pass *renderPass, sub driver.Subpass) {
	var atts []uint32
	for _, c := range sub.Color {
		if c >= 0 && c < len(pass.att) && pass.att[c].Store[0] == driver.SDontCare {
			atts = append(atts, glfn.COLOR_ATTACHMENT0+uint32(c))
		}
	}
	if sub.DS >= 0 && sub.DS < len(pass.att) {
		a := pass.att[sub.DS]
		if a.Store[0] == driver.SDontCare && a.Store[1] == driver.SDontCare {
			atts = append(atts, glfn.DEPTH_STENCIL_ATTACHMENT)
		} else if a.Store[0] == driver.SDontCare {
			atts = append(atts, glfn.DEPTH_ATTACHMENT)
		} else if a.Store[1] == driver.SDontCare {
			atts = append(atts, glfn.STENCIL_ATTACHMENT)
		}
	}
	if len(atts) > 0 {
		glfn.InvalidateFramebuffer(glfn.FRAMEBUFFER, int32(len(atts)), &atts[0])
	}
}

// resolvePass blits every color attachment named by sub.Color onto
// its matching single-sample attachment named by sub.MSR, both bound
// within fb, per spec.md §4.F's multisample resolve step. Using the
// same framebuffer object as both the read and draw target is valid
// GL as long as the selected read/draw buffers differ.
func resolvePass(fb *framebuf, sub driver.Subpass) {
	if len(sub.MSR) == 0 {
		return
	}
	glfn.BindFramebuffer(glfn.READ_FRAMEBUFFER, fb.fbo)
	glfn.BindFramebuffer(glfn.DRAW_FRAMEBUFFER, fb.fbo)
	for i, c := range sub.Color {
		if i >= len(sub.MSR) || sub.MSR[i] < 0 {
			continue
		}
		glfn.ReadBuffer(glfn.COLOR_ATTACHMENT0 + uint32(c))
		dst := glfn.COLOR_ATTACHMENT0 + uint32(sub.MSR[i])
		glfn.DrawBuffers(1, &dst)
		glfn.BlitFramebuffer(0, 0, int32(fb.width), int32(fb.height), 0, 0, int32(fb.width), int32(fb.height), glfn.COLOR_BUFFER_BIT, glfn.NEAREST)
	}
}
