// Package ctx is the GPU context: the single entry point an
// application opens once per device, wiring together a driver.GPU, a
// command-buffer ring, a format registry, and (for offscreen use) a
// default render target and capture buffer.
//
// Grounded in the teacher's now-removed engine/internal/ctxt package
// (a package-level driver/gpu/limits singleton with loadDriver), here
// turned into an explicit, non-singleton Context so multiple devices
// can coexist, per spec.md §4.I.
package ctx

import (
	"fmt"

	"github.com/nopeforge/ngpu/cmdbuffer"
	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/format"
	"github.com/nopeforge/ngpu/gpuerr"
	"github.com/nopeforge/ngpu/internal/logx"
	"github.com/nopeforge/ngpu/linear"
	"github.com/nopeforge/ngpu/rendertarget"
)

// Platform selects the backend a Context opens.
type Platform int

const (
	// PlatformAuto picks the first backend driver.Drivers() offers.
	PlatformAuto Platform = iota
	PlatformGL
	PlatformVulkan
)

// Config configures a Context at Open time.
type Config struct {
	Platform Platform
	// Offscreen, when true, means the context owns its own default
	// render target (Width x Height, ColorFormat/DepthFormat,
	// Samples) instead of rendering into a caller-supplied surface.
	// spec.md §4.I / Non-goals: a Context never creates a native
	// window or owns a window system; Offscreen only governs
	// whether it allocates its own backing images.
	Offscreen    bool
	Width        int
	Height       int
	ColorFormat  driver.PixelFmt
	DepthFormat  driver.PixelFmt
	Samples      int
	FramesInFlight int
	LogLevel     logx.Level

	// Surface, when Offscreen is false and Kind is not
	// driver.SurfaceNone, names a pre-created native window or
	// display surface for Open to wrap into a driver.Swapchain. The
	// Context never creates the surface itself (spec.md §1
	// Non-goals); the caller owns Surface's handles for as long as
	// the resulting Context is open.
	Surface driver.NativeSurface

	// SwapchainImages requests a minimum swapchain image count. Zero
	// lets the backend choose.
	SwapchainImages int
}

// driverName maps a Platform to the driver.Driver.Name string the
// teacher's driver registry expects.
func driverName(p Platform) string {
	switch p {
	case PlatformGL:
		return "opengl"
	case PlatformVulkan:
		return "vulkan"
	default:
		return ""
	}
}

// Context is an opened GPU device plus the helper state every ngpu
// package above driver.GPU needs: the render target it draws the
// default frame into, a ring of in-flight command buffers, and a
// per-device format registry.
type Context struct {
	Config   Config
	Drv      driver.Driver
	GPU      driver.GPU
	Formats  *format.Registry
	Ring     *cmdbuffer.Ring
	Default  *rendertarget.Target
	Swapchain driver.Swapchain

	frameIdx uint64
}

// Open selects a driver per cfg.Platform, opens a device, and builds
// the command-buffer ring. Default-render-target creation is left to
// NewOffscreenTarget / the caller's own rendertarget.New when
// Offscreen is false, since a non-offscreen context does not own the
// surface it renders into (spec.md Non-goals).
func Open(cfg Config) (*Context, error) {
	const op = "ctx.Open"
	logx.SetMinLevel(cfg.LogLevel)

	var drv driver.Driver
	name := driverName(cfg.Platform)
	for _, d := range driver.Drivers() {
		if name == "" || d.Name() == name {
			drv = d
			break
		}
	}
	if drv == nil {
		return nil, gpuerr.New(op, gpuerr.NotFound, fmt.Sprintf("no driver registered for platform %v", cfg.Platform))
	}

	gpu, err := drv.Open()
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "driver.Open failed", err)
	}
	logx.Logf(logx.Info, "opened GPU context on driver %q", drv.Name())

	n := cfg.FramesInFlight
	if n < 1 {
		n = 2
	}
	var raws []driver.CmdBuffer
	for i := 0; i < n; i++ {
		cb, err := gpu.NewCmdBuffer()
		if err != nil {
			return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "NewCmdBuffer failed", err)
		}
		raws = append(raws, cb)
	}

	c := &Context{
		Config:  cfg,
		Drv:     drv,
		GPU:     gpu,
		Formats: format.NewRegistry(),
		Ring:    cmdbuffer.NewRing(raws),
	}

	if cfg.Offscreen {
		target, err := rendertarget.New(gpu,
			[]rendertarget.ColorAttachment{{Format: cfg.ColorFormat, Samples: cfg.Samples, Load: driver.LClear, Store: driver.SStore}},
			depthAttachment(cfg),
		)
		if err != nil {
			return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "default render target creation failed", err)
		}
		c.Default = target
	} else if cfg.Surface.Kind != driver.SurfaceNone {
		p, ok := gpu.(driver.Presenter)
		if !ok {
			c.Close()
			return nil, gpuerr.New(op, gpuerr.NotFound, fmt.Sprintf("driver %q does not implement Presenter", drv.Name()))
		}
		n := cfg.SwapchainImages
		if n < 1 {
			n = 2
		}
		sc, err := p.NewSwapchain(cfg.Surface, n)
		if err != nil {
			c.Close()
			return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "NewSwapchain failed", err)
		}
		c.Swapchain = sc
		logx.Logf(logx.Info, "opened swapchain with %d views", len(sc.Views()))
	}
	return c, nil
}

// depthAttachment builds the default target's depth attachment, or
// nil if the caller opted out. driver.PixelFmt's zero value
// (RGBA8un) is a legitimate color format, so "no depth attachment" is
// signaled with the sentinel NoDepth rather than the zero value.
const NoDepth driver.PixelFmt = -1

func depthAttachment(cfg Config) *rendertarget.DepthStencilAttachment {
	if cfg.DepthFormat == NoDepth {
		return nil
	}
	return &rendertarget.DepthStencilAttachment{
		Format: cfg.DepthFormat, Samples: cfg.Samples,
		DepthLoad: driver.LClear, DepthStore: driver.SDontCare,
	}
}

// Close destroys the default target (if any), the command-buffer
// ring, and the underlying device.
func (c *Context) Close() {
	if c.Default != nil {
		c.Default.Destroy()
	}
	if c.Swapchain != nil {
		c.Swapchain.Destroy()
	}
	if c.Ring != nil {
		c.Ring.Destroy()
	}
	c.Drv.Close()
}

// BeginFrame acquires the next in-flight command buffer, advances the
// frame counter, and calls Begin on it.
func (c *Context) BeginFrame() (*cmdbuffer.Buffer, error) {
	const op = "ctx.Context.BeginFrame"
	b, err := c.Ring.Acquire()
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "ring acquire failed", err)
	}
	if err := b.Begin(); err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "CmdBuffer.Begin failed", err)
	}
	c.frameIdx++
	return b, nil
}

// EndFrame ends recording and submits b as a single-buffer batch,
// returning the fence for the submission.
func (c *Context) EndFrame(b *cmdbuffer.Buffer) (*cmdbuffer.Fence, error) {
	const op = "ctx.Context.EndFrame"
	if err := b.End(); err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "CmdBuffer.End failed", err)
	}
	return cmdbuffer.Commit(c.GPU, []*cmdbuffer.Buffer{b}), nil
}

// FrameIndex returns the number of frames BeginFrame has started.
func (c *Context) FrameIndex() uint64 { return c.frameIdx }

// Ortho2D returns the orthographic projection matrix mapping
// [0,width]x[0,height] pixel coordinates to clip space, accounting for
// each backend's differing NDC/viewport convention (GL: Y-up,
// [-1,1] depth; Vulkan: Y-down, [0,1] depth). spec.md §4.I calls this
// out as a required per-backend coordinate-convention transform.
func (c *Context) Ortho2D(width, height float32) linear.M4 {
	var m linear.M4
	switch c.Config.Platform {
	case PlatformVulkan:
		m = linear.M4{
			{2 / width, 0, 0, 0},
			{0, 2 / height, 0, 0},
			{0, 0, 1, 0},
			{-1, -1, 0, 1},
		}
	default: // GL and GLES share the Y-up, [-1,1]-depth convention.
		m = linear.M4{
			{2 / width, 0, 0, 0},
			{0, -2 / height, 0, 0},
			{0, 0, 2, 0},
			{-1, 1, -1, 1},
		}
	}
	return m
}
