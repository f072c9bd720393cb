// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build !linux && !windows && !android

package vk

// platformInstanceExts reports no windowing-system surface extension.
// VK_KHR_display direct-to-display presentation was never finished
// upstream (initDisplaySurface has no implementation), so generic
// platforms (including darwin/MoltenVK) request no presentation
// extensions and Presenter.NewSwapchain always fails with
// driver.ErrCannotPresent.
func platformInstanceExts() extInfo {
	return extInfo{}
}

func platformDeviceExts(d *Driver) extInfo {
	return extInfo{}
}
