package pipeline

import (
	"testing"

	"github.com/nopeforge/ngpu/bindgroup"
	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/internal/drivertest"
	"github.com/nopeforge/ngpu/program"
	"github.com/nopeforge/ngpu/rendertarget"
)

func setup(t *testing.T) (*drivertest.GPU, *program.Graphics, *bindgroup.Group, *rendertarget.Target) {
	t.Helper()
	gpu := drivertest.New()
	cache := program.NewCache(gpu)
	prog, err := program.NewGraphics(cache, []byte("vert"), []byte("frag"))
	if err != nil {
		t.Fatal(err)
	}
	layout, err := bindgroup.NewLayout(nil, bindgroup.PolicyShared)
	if err != nil {
		t.Fatal(err)
	}
	group, err := bindgroup.New(gpu, layout, 1)
	if err != nil {
		t.Fatal(err)
	}
	target, err := rendertarget.New(gpu, []rendertarget.ColorAttachment{
		{Format: driver.RGBA8un, Samples: 1, Load: driver.LClear, Store: driver.SStore},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return gpu, prog, group, target
}

func TestNewGraphicsPipeline(t *testing.T) {
	gpu, prog, group, target := setup(t)
	gp, err := NewGraphics(gpu, prog, GraphicsDesc{Topology: driver.TTriangle, Samples: 1}, group, target)
	if err != nil {
		t.Fatal(err)
	}
	if gpu.PipelinesMade != 1 {
		t.Errorf("PipelinesMade = %d, want 1", gpu.PipelinesMade)
	}
	if !gp.Equivalent(gp.state) {
		t.Error("pipeline should be equivalent to its own state")
	}
}

func TestEquivalentDetectsTopologyChange(t *testing.T) {
	gpu, prog, group, target := setup(t)
	gp, err := NewGraphics(gpu, prog, GraphicsDesc{Topology: driver.TTriangle, Samples: 1}, group, target)
	if err != nil {
		t.Fatal(err)
	}
	other := gp.state
	other.Topology = driver.TLine
	if gp.Equivalent(other) {
		t.Error("expected Equivalent to detect topology change")
	}
}
