// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build !linux && !windows && !android

package vk

import "github.com/nopeforge/ngpu/driver"

// initSurface always fails on generic platforms: platformInstanceExts
// never requests a windowing-system surface extension here (see
// ext_generic.go), so d.exts[extSurface] is false and NewSwapchain
// already returns driver.ErrCannotPresent before initSurface would be
// reached. It exists only to satisfy the swapchain interface.
func (s *swapchain) initSurface() error {
	return driver.ErrCannotPresent
}
