// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"
	"unsafe"
)

// ErrCannotPresent means that the driver and/or device do not
// support presentation.
var ErrCannotPresent = errors.New("presentation not supported")

// ErrWindow represents an error related to a specific window.
// This error usually indicates that a window misconfiguration
// is preventing correct operation. For instance, the driver
// may require a visible window to create a swapchain.
var ErrWindow = errors.New("window-related error")

// ErrCompositor represents an error related to the compositor.
// This error usually indicates that the compositor behavior
// is preventing correct operation. For instance, the driver
// may require support for opaque composition.
var ErrCompositor = errors.New("compositor-related error")

// ErrSwapchain represents an error related to a specific
// swapchain.
// This error usually indicates that changes to the window or
// compositor made the swapchain unusable.
var ErrSwapchain = errors.New("swapchain-related error")

// ErrNoBackbuffer means that all available backbuffers
// were acquired.
// Backbuffers are released during presentation.
var ErrNoBackbuffer = errors.New("all backbuffers in use")

// SurfaceKind identifies which of NativeSurface's native handles are
// valid. The zero value, SurfaceNone, requests a headless
// presentation path with no native window at all (e.g. VK_KHR_display
// direct-to-display output).
type SurfaceKind int

const (
	SurfaceNone SurfaceKind = iota
	SurfaceXCB
	SurfaceWayland
	SurfaceWin32
	SurfaceAndroid
)

// NativeSurface describes a pre-created native window or display
// surface for a Presenter to wrap into a Swapchain. Per spec.md §1's
// Non-goals, the driver never creates a window, owns a display
// connection, or runs an event loop: the caller constructs (with
// whatever windowing toolkit it prefers) and owns the handles below
// for as long as the resulting Swapchain exists.
type NativeSurface struct {
	Kind SurfaceKind

	// Connection is the display connection handle backing Window:
	// xcb_connection_t* for SurfaceXCB, wl_display* for
	// SurfaceWayland. Unused for SurfaceWin32/SurfaceAndroid/
	// SurfaceNone.
	Connection unsafe.Pointer

	// Window is the native window handle: wl_surface* (Wayland),
	// HWND (Win32), ANativeWindow* (Android). Unused for SurfaceXCB,
	// which addresses windows by integer id instead (WindowXCB).
	Window unsafe.Pointer

	// WindowXCB is the xcb_window_t id, valid only for SurfaceXCB.
	WindowXCB uint32

	// Width/Height seed the swapchain's image extent for platforms
	// that cannot report the surface's current extent directly.
	Width, Height int
}

// Presenter is the interface that a GPU may implement
// to enable presentation on a display.
type Presenter interface {
	// NewSwapchain creates a new swapchain.
	// Only one swapchain can be associated with a specific
	// NativeSurface at a time.
	NewSwapchain(surf NativeSurface, imageCount int) (Swapchain, error)
}

// Swapchain is the interface that defines a n-buffered
// swapchain for presentation.
// Presentation works similar as commands, such that it
// only takes effect after calling GPU.Commit.
// To present, one calls the Next and Present methods of
// the swapchain and then commits the command buffer(s)
// that it targets for execution.
// As a limitation, only one Next/Present pair can be
// recorded in a single Commit.
type Swapchain interface {
	Destroyer

	// Views returns the list of image views that
	// comprises the swapchain.
	// This value remains unchanged as long as the
	// swapchain's Destroy or Recreate methods are
	// not called.
	Views() []ImageView

	// Next returns the index of the next writable
	// image view.
	// cb must be the first command buffer that will
	// access the image's contents.
	// This method must be called before the image
	// is written, i.e., any render pass that uses
	// the image as render target must be recorded
	// after Next.
	Next(cb CmdBuffer) (int, error)

	// Present presents the image view identified
	// by index.
	// cb must be the last command buffer that will
	// write to the image.
	// This method must be called after the image is
	// written, i.e., any render pass that uses the
	// image as render target must be recorded
	// before Present.
	Present(index int, cb CmdBuffer) error

	// Recreate recreates the swapchain.
	// It is meant to be called in response to a
	// ErrSwapchain error.
	Recreate() error

	// Format returns the image views' PixelFmt.
	Format() PixelFmt
}
