// Package rendertarget wraps driver.RenderPass/driver.Framebuf with
// the attachment bookkeeping a renderer needs: named color/depth-
// stencil slots, per-attachment clear values, and MSAA-resolve wiring,
// plus support for a caller-supplied wrapped default framebuffer (the
// window-system surface the context does not itself own).
//
// Grounded in driver/core.go's RenderPass/Attachment/Subpass/Framebuf
// types and spec.md §4.F's description of multi-attachment render
// targets with load/store ops and optional resolve attachments.
package rendertarget

import (
	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/gpuerr"
)

// ColorAttachment describes one color render target slot.
type ColorAttachment struct {
	Format  driver.PixelFmt
	Samples int
	Load    driver.LoadOp
	Store   driver.StoreOp
	// Resolve, when true, adds a matching single-sample resolve
	// attachment immediately after this one; the framebuffer's
	// view list must then supply both the MSAA and resolved views.
	Resolve bool
}

// DepthStencilAttachment describes the optional depth/stencil slot.
type DepthStencilAttachment struct {
	Format     driver.PixelFmt
	Samples    int
	DepthLoad  driver.LoadOp
	DepthStore driver.StoreOp
}

// Target is a render target: a driver.RenderPass (one subpass,
// matching the teacher's single-subpass usage) plus the attachment
// layout needed to build framebuffers and clear-value lists for it.
type Target struct {
	Pass     driver.RenderPass
	colorN   int
	hasDS    bool
	resolveN int
}

// New creates a render pass for the given color attachments and
// optional depth/stencil attachment (pass nil for none).
func New(drv driver.GPU, color []ColorAttachment, ds *DepthStencilAttachment) (*Target, error) {
	const op = "rendertarget.New"
	var atts []driver.Attachment
	var colorIdx, resolveIdx []int
	for _, c := range color {
		colorIdx = append(colorIdx, len(atts))
		atts = append(atts, driver.Attachment{
			Format:  c.Format,
			Samples: c.Samples,
			Load:    [2]driver.LoadOp{c.Load, driver.LDontCare},
			Store:   [2]driver.StoreOp{c.Store, driver.SDontCare},
		})
		if c.Resolve {
			resolveIdx = append(resolveIdx, len(atts))
			atts = append(atts, driver.Attachment{
				Format:  c.Format,
				Samples: 1,
				Load:    [2]driver.LoadOp{driver.LDontCare, driver.LDontCare},
				Store:   [2]driver.StoreOp{driver.SStore, driver.SDontCare},
			})
		}
	}
	dsIdx := -1
	if ds != nil {
		dsIdx = len(atts)
		atts = append(atts, driver.Attachment{
			Format:  ds.Format,
			Samples: ds.Samples,
			Load:    [2]driver.LoadOp{ds.DepthLoad, ds.DepthLoad},
			Store:   [2]driver.StoreOp{ds.DepthStore, ds.DepthStore},
		})
	}

	sub := []driver.Subpass{{Color: colorIdx, DS: dsIdx, MSR: resolveIdx, Wait: false}}
	pass, err := drv.NewRenderPass(atts, sub)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "driver.NewRenderPass failed", err)
	}
	return &Target{Pass: pass, colorN: len(color), hasDS: ds != nil, resolveN: len(resolveIdx)}, nil
}

// Destroy destroys the underlying render pass. Framebuffers created
// from it must be destroyed first.
func (t *Target) Destroy() { t.Pass.Destroy() }

// NewFramebuf builds a framebuffer from iv, which must list the
// attachment views in the same order New's color/resolve/depth-
// stencil attachments were declared.
func (t *Target) NewFramebuf(iv []driver.ImageView, width, height, layers int) (driver.Framebuf, error) {
	const op = "rendertarget.Target.NewFramebuf"
	want := t.colorN + t.resolveN
	if t.hasDS {
		want++
	}
	if len(iv) != want {
		return nil, gpuerr.New(op, gpuerr.InvalidArg, "view count does not match attachment count")
	}
	fb, err := t.Pass.NewFB(iv, width, height, layers)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "driver.RenderPass.NewFB failed", err)
	}
	return fb, nil
}

// ClearValues builds the per-attachment clear value list BeginPass
// expects, from one color clear (repeated for each color attachment)
// and an optional depth/stencil clear.
func (t *Target) ClearValues(color [4]float32, depth float32, stencil uint32) []driver.ClearValue {
	n := t.colorN + t.resolveN
	if t.hasDS {
		n++
	}
	cv := make([]driver.ClearValue, n)
	for i := 0; i < t.colorN; i++ {
		cv[i] = driver.ClearValue{Color: color}
	}
	if t.hasDS {
		cv[n-1] = driver.ClearValue{Depth: depth, Stencil: stencil}
	}
	return cv
}
