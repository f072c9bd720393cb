// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build linux

package vk

// #include <proc.h>
import "C"

import (
	"github.com/nopeforge/ngpu/driver"
)

// initSurface creates s.sf from s.surf, dispatching on the caller-supplied
// NativeSurface.Kind. The driver never opens a display connection of its
// own (spec.md §1 Non-goals); it only wraps the handles the caller passed
// in NewSwapchain.
func (s *swapchain) initSurface() error {
	switch s.surf.Kind {
	case driver.SurfaceXCB:
		return s.initXCBSurface()
	case driver.SurfaceWayland:
		return s.initWaylandSurface()
	}
	return driver.ErrCannotPresent
}

func (s *swapchain) initXCBSurface() error {
	if !s.d.exts[extXCBSurface] {
		return driver.ErrCannotPresent
	}
	info := C.VkXcbSurfaceCreateInfoKHR{
		sType:      C.VK_STRUCTURE_TYPE_XCB_SURFACE_CREATE_INFO_KHR,
		connection: (*C.xcb_connection_t)(s.surf.Connection),
		window:     C.uint32_t(s.surf.WindowXCB),
	}
	var sf C.VkSurfaceKHR
	err := checkResult(C.vkCreateXcbSurfaceKHR(s.d.inst, &info, nil, &sf))
	if err != nil {
		return err
	}
	qfam, err := s.d.presQueueFor(sf)
	if err != nil {
		C.vkDestroySurfaceKHR(s.d.inst, sf, nil)
		return err
	}
	s.qfam = qfam
	s.sf = sf
	return nil
}

// TODO: Wayland surface creation (VkWaylandSurfaceCreateInfoKHR) needs the
// wl_display/wl_surface C types pulled in from proc.h; report unsupported
// until that plumbing exists rather than guessing at the layout.
func (s *swapchain) initWaylandSurface() error {
	return driver.ErrCannotPresent
}
