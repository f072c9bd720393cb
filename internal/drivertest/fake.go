// Package drivertest provides an in-memory fake of driver.GPU for unit
// tests of packages built atop it, so those tests do not require a
// real OpenGL/Vulkan device.
//
// Grounded in the mock-hal pattern used throughout
// _examples/gogpu-gg/backend/native's *_test.go files (mockHALDevice /
// mockHALBuffer): a hand-written test double satisfying the real
// production interface, tracking call counts instead of touching
// hardware.
package drivertest

import (
	"github.com/nopeforge/ngpu/driver"
)

// GPU is a fake driver.GPU backed by plain Go memory.
type GPU struct {
	BuffersCreated  int
	ImagesCreated   int
	ShadersCreated  int
	DescHeapsMade   int
	DescTablesMade  int
	PipelinesMade   int
	CmdBuffersMade  int
	CommitCalls     int
	limits          driver.Limits
}

// New creates a fake GPU with generous default limits.
func New() *GPU {
	return &GPU{limits: driver.Limits{
		MaxImage1D: 16384, MaxImage2D: 16384, MaxImageCube: 16384,
	}}
}

func (g *GPU) Driver() driver.Driver { return nil }

func (g *GPU) Commit(cb []driver.CmdBuffer, ch chan<- error) {
	g.CommitCalls++
	if ch != nil {
		ch <- nil
	}
}

func (g *GPU) NewCmdBuffer() (driver.CmdBuffer, error) {
	g.CmdBuffersMade++
	return &CmdBuffer{}, nil
}

func (g *GPU) NewRenderPass(att []driver.Attachment, sub []driver.Subpass) (driver.RenderPass, error) {
	return &RenderPass{att: att, sub: sub}, nil
}

func (g *GPU) NewShaderCode(data []byte) (driver.ShaderCode, error) {
	g.ShadersCreated++
	cp := append([]byte(nil), data...)
	return &ShaderCode{Src: cp}, nil
}

func (g *GPU) NewDescHeap(ds []driver.Descriptor) (driver.DescHeap, error) {
	g.DescHeapsMade++
	return &DescHeap{descs: ds}, nil
}

func (g *GPU) NewDescTable(dh []driver.DescHeap) (driver.DescTable, error) {
	g.DescTablesMade++
	return &DescTable{}, nil
}

func (g *GPU) NewPipeline(state any) (driver.Pipeline, error) {
	g.PipelinesMade++
	return &Pipeline{State: state}, nil
}

func (g *GPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	g.BuffersCreated++
	var mem []byte
	if visible {
		mem = make([]byte, size)
	}
	return &Buffer{mem: mem, visible: visible, size: size}, nil
}

func (g *GPU) NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) (driver.Image, error) {
	g.ImagesCreated++
	return &Image{PF: pf, Sz: size, Layers: layers, Levels: levels, Samples: samples, Usage: usg}, nil
}

func (g *GPU) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	return &Sampler{Sampling: *spln}, nil
}

func (g *GPU) Limits() driver.Limits { return g.limits }

// Buffer is a fake driver.Buffer.
type Buffer struct {
	mem       []byte
	visible   bool
	size      int64
	Destroyed bool
}

func (b *Buffer) Destroy()         { b.Destroyed = true }
func (b *Buffer) Visible() bool    { return b.visible }
func (b *Buffer) Bytes() []byte    { return b.mem }
func (b *Buffer) Cap() int64       { return b.size }

// Image is a fake driver.Image.
type Image struct {
	PF                          driver.PixelFmt
	Sz                          driver.Dim3D
	Layers, Levels, Samples     int
	Usage                       driver.Usage
	Destroyed                   bool
	Views                       []*ImageView
}

func (im *Image) Destroy() { im.Destroyed = true }

func (im *Image) NewView(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	v := &ImageView{Typ: typ, Layer: layer, Layers: layers, Level: level, Levels: levels}
	im.Views = append(im.Views, v)
	return v, nil
}

// ImageView is a fake driver.ImageView.
type ImageView struct {
	Typ                     driver.ViewType
	Layer, Layers           int
	Level, Levels           int
	Destroyed               bool
}

func (v *ImageView) Destroy() { v.Destroyed = true }

// Sampler is a fake driver.Sampler.
type Sampler struct {
	Sampling  driver.Sampling
	Destroyed bool
}

func (s *Sampler) Destroy() { s.Destroyed = true }

// ShaderCode is a fake driver.ShaderCode.
type ShaderCode struct {
	Src       []byte
	Destroyed bool
}

func (s *ShaderCode) Destroy() { s.Destroyed = true }

// DescHeap is a fake driver.DescHeap.
type DescHeap struct {
	descs     []driver.Descriptor
	count     int
	Destroyed bool
}

func (h *DescHeap) Destroy()      { h.Destroyed = true }
func (h *DescHeap) New(n int) error { h.count = n; return nil }
func (h *DescHeap) Count() int    { return h.count }
func (h *DescHeap) SetBuffer(cpy, nr, start int, buf []driver.Buffer, off, size []int64)  {}
func (h *DescHeap) SetImage(cpy, nr, start int, iv []driver.ImageView)                    {}
func (h *DescHeap) SetSampler(cpy, nr, start int, splr []driver.Sampler)                  {}

// DescTable is a fake driver.DescTable.
type DescTable struct{ Destroyed bool }

func (t *DescTable) Destroy() { t.Destroyed = true }

// Pipeline is a fake driver.Pipeline.
type Pipeline struct {
	State     any
	Destroyed bool
}

func (p *Pipeline) Destroy() { p.Destroyed = true }

// RenderPass is a fake driver.RenderPass.
type RenderPass struct {
	att       []driver.Attachment
	sub       []driver.Subpass
	Destroyed bool
}

func (p *RenderPass) Destroy() { p.Destroyed = true }

func (p *RenderPass) NewFB(iv []driver.ImageView, width, height, layers int) (driver.Framebuf, error) {
	return &Framebuf{Views: iv, W: width, H: height, Layers: layers}, nil
}

// Framebuf is a fake driver.Framebuf.
type Framebuf struct {
	Views        []driver.ImageView
	W, H, Layers int
	Destroyed    bool
}

func (f *Framebuf) Destroy() { f.Destroyed = true }

// CmdBuffer is a fake driver.CmdBuffer recording calls instead of
// issuing them to hardware.
type CmdBuffer struct {
	Began       bool
	Ended       bool
	BufCopies   []driver.BufferCopy
	ImgCopies   []driver.ImageCopy
	BufImgCopies []driver.BufImgCopy
	Transitions []driver.Transition
	Barriers    []driver.Barrier
	Destroyed   bool
}

func (c *CmdBuffer) Destroy()                                         { c.Destroyed = true }
func (c *CmdBuffer) Begin() error                                     { c.Began = true; return nil }
func (c *CmdBuffer) BeginPass(pass driver.RenderPass, fb driver.Framebuf, clear []driver.ClearValue) {}
func (c *CmdBuffer) NextSubpass()                                     {}
func (c *CmdBuffer) EndPass()                                         {}
func (c *CmdBuffer) BeginWork(wait bool)                              {}
func (c *CmdBuffer) EndWork()                                         {}
func (c *CmdBuffer) BeginBlit(wait bool)                              {}
func (c *CmdBuffer) EndBlit()                                         {}
func (c *CmdBuffer) SetPipeline(pl driver.Pipeline)                   {}
func (c *CmdBuffer) SetViewport(vp []driver.Viewport)                 {}
func (c *CmdBuffer) SetScissor(sciss []driver.Scissor)                {}
func (c *CmdBuffer) SetBlendColor(r, g, b, a float32)                 {}
func (c *CmdBuffer) SetStencilRef(value uint32)                       {}
func (c *CmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {}
func (c *CmdBuffer) SetIndexBuf(format driver.IndexFmt, buf driver.Buffer, off int64) {}
func (c *CmdBuffer) SetDescTableGraph(table driver.DescTable, start int, heapCopy []int) {}
func (c *CmdBuffer) SetDescTableComp(table driver.DescTable, start int, heapCopy []int)  {}
func (c *CmdBuffer) Draw(vertCount, instCount, baseVert, baseInst int)        {}
func (c *CmdBuffer) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {}
func (c *CmdBuffer) Dispatch(grpCountX, grpCountY, grpCountZ int)             {}
func (c *CmdBuffer) CopyBuffer(param *driver.BufferCopy)                     { c.BufCopies = append(c.BufCopies, *param) }
func (c *CmdBuffer) CopyImage(param *driver.ImageCopy)                       { c.ImgCopies = append(c.ImgCopies, *param) }
func (c *CmdBuffer) CopyBufToImg(param *driver.BufImgCopy)                   { c.BufImgCopies = append(c.BufImgCopies, *param) }
func (c *CmdBuffer) CopyImgToBuf(param *driver.BufImgCopy)                   { c.BufImgCopies = append(c.BufImgCopies, *param) }
func (c *CmdBuffer) Fill(buf driver.Buffer, off int64, value byte, size int64) {}
func (c *CmdBuffer) Barrier(b []driver.Barrier)                              { c.Barriers = append(c.Barriers, b...) }
func (c *CmdBuffer) Transition(t []driver.Transition)                        { c.Transitions = append(c.Transitions, t...) }
func (c *CmdBuffer) End() error                                              { c.Ended = true; return nil }
func (c *CmdBuffer) Reset() error                                            { c.Began, c.Ended = false, false; return nil }
