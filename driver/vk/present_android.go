// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build android

package vk

import "github.com/nopeforge/ngpu/driver"

func (s *swapchain) initSurface() error {
	if s.surf.Kind != driver.SurfaceAndroid {
		return driver.ErrCannotPresent
	}
	return s.initAndroidSurface()
}

// TODO: Android surface creation (VkAndroidSurfaceCreateInfoKHR) needs the
// ANativeWindow C type pulled in from proc.h; report unsupported until
// that plumbing exists rather than guessing at the layout.
func (s *swapchain) initAndroidSurface() error {
	return driver.ErrCannotPresent
}
