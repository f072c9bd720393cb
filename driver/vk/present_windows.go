// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build windows

package vk

import "github.com/nopeforge/ngpu/driver"

func (s *swapchain) initSurface() error {
	if s.surf.Kind != driver.SurfaceWin32 {
		return driver.ErrCannotPresent
	}
	return s.initWin32Surface()
}

// TODO: Win32 surface creation (VkWin32SurfaceCreateInfoKHR) requires
// HINSTANCE/HWND plumbing that this package does not yet pull in from
// proc.h; until then Win32 presentation reports unsupported rather than
// pretending to work.
func (s *swapchain) initWin32Surface() error {
	return driver.ErrCannotPresent
}
