package rendertarget

import (
	"testing"

	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/internal/drivertest"
)

func TestNewFramebufValidatesViewCount(t *testing.T) {
	gpu := drivertest.New()
	target, err := New(gpu, []ColorAttachment{{Format: driver.RGBA8un, Samples: 1, Load: driver.LClear, Store: driver.SStore}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer target.Destroy()

	if _, err := target.NewFramebuf(nil, 64, 64, 1); err == nil {
		t.Fatal("expected error for wrong view count")
	}

	img, _ := gpu.NewImage(driver.RGBA8un, driver.Dim3D{Width: 64, Height: 64, Depth: 1}, 1, 1, 1, driver.URenderTarget)
	view, _ := img.NewView(driver.IView2D, 0, 1, 0, 1)
	if _, err := target.NewFramebuf([]driver.ImageView{view}, 64, 64, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClearValuesCountsResolveAndDepth(t *testing.T) {
	gpu := drivertest.New()
	target, err := New(gpu,
		[]ColorAttachment{{Format: driver.RGBA8un, Samples: 4, Load: driver.LClear, Store: driver.SStore, Resolve: true}},
		&DepthStencilAttachment{Format: driver.D32f, Samples: 4, DepthLoad: driver.LClear, DepthStore: driver.SDontCare},
	)
	if err != nil {
		t.Fatal(err)
	}
	defer target.Destroy()

	cv := target.ClearValues([4]float32{0, 0, 0, 1}, 1, 0)
	if len(cv) != 3 {
		t.Fatalf("len(ClearValues) = %d, want 3 (color + resolve + depth)", len(cv))
	}
	if cv[2].Depth != 1 {
		t.Errorf("depth clear = %v, want 1", cv[2].Depth)
	}
}
