package ctx

import "testing"

func TestOrtho2DGLIsYUp(t *testing.T) {
	c := &Context{Config: Config{Platform: PlatformGL}}
	m := c.Ortho2D(800, 600)
	if m[1][1] >= 0 {
		t.Error("GL ortho projection should flip Y (negative [1][1])")
	}
}

func TestOrtho2DVulkanIsYDown(t *testing.T) {
	c := &Context{Config: Config{Platform: PlatformVulkan}}
	m := c.Ortho2D(800, 600)
	if m[1][1] <= 0 {
		t.Error("Vulkan ortho projection should not flip Y (positive [1][1])")
	}
	if m[3][2] != 0 || m[2][2] != 1 {
		t.Error("Vulkan ortho projection should target [0,1] depth range")
	}
}

func TestNoDepthSentinelSkipsAttachment(t *testing.T) {
	cfg := Config{ColorFormat: 0, DepthFormat: NoDepth}
	if got := depthAttachment(cfg); got != nil {
		t.Errorf("depthAttachment(NoDepth) = %+v, want nil", got)
	}
}
