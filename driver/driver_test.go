// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package driver_test

import (
	"testing"

	"github.com/nopeforge/ngpu/driver"
)

type fakeDriver struct {
	name string
}

func (d *fakeDriver) Open() (driver.GPU, error) { return nil, driver.ErrNoDevice }
func (d *fakeDriver) Name() string              { return d.name }
func (d *fakeDriver) Close()                    {}

func TestRegister(t *testing.T) {
	before := len(driver.Drivers())
	driver.Register(&fakeDriver{name: "test-driver"})
	drvs := driver.Drivers()
	if len(drvs) != before+1 {
		t.Fatalf("Drivers: got %d drivers, want %d", len(drvs), before+1)
	}
	var found bool
	for _, d := range drvs {
		if d.Name() == "test-driver" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Drivers: registered driver not present")
	}

	// Registering a driver under the same name replaces the previous one.
	driver.Register(&fakeDriver{name: "test-driver"})
	if n := len(driver.Drivers()); n != before+1 {
		t.Errorf("Drivers: re-registering changed count: got %d, want %d", n, before+1)
	}
}

func TestNativeSurfaceZeroValue(t *testing.T) {
	var surf driver.NativeSurface
	if surf.Kind != driver.SurfaceNone {
		t.Errorf("NativeSurface: zero value Kind = %v, want SurfaceNone", surf.Kind)
	}
}
