// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"testing"

	"github.com/nopeforge/ngpu/driver"
)

// TestSwapchainUnsupported exercises the paths that do not depend on a
// live native surface being available in the test environment: a
// SurfaceNone request must always fail, and a Driver without the
// swapchain extensions enabled must refuse any NativeSurface.
func TestSwapchainUnsupported(t *testing.T) {
	_, err := tDrv.NewSwapchain(driver.NativeSurface{}, 2)
	if err != driver.ErrCannotPresent {
		t.Errorf("tDrv.NewSwapchain(NativeSurface{}, 2)\nhave %v\nwant %v", err, driver.ErrCannotPresent)
	}

	d := &Driver{}
	surf := driver.NativeSurface{Kind: driver.SurfaceXCB, Width: 480, Height: 360}
	if _, err := d.NewSwapchain(surf, 2); err != driver.ErrCannotPresent {
		t.Errorf("(*Driver)(nil-ish).NewSwapchain()\nhave %v\nwant %v", err, driver.ErrCannotPresent)
	}
}
