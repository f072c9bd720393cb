package program

import (
	"testing"

	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/internal/drivertest"
)

func TestCacheDeduplicatesIdenticalSource(t *testing.T) {
	gpu := drivertest.New()
	c := NewCache(gpu)
	src := []byte("void main() {}")

	if _, err := c.Get(driver.SVertex, src); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(driver.SVertex, src); err != nil {
		t.Fatal(err)
	}
	if gpu.ShadersCreated != 1 {
		t.Errorf("ShadersCreated = %d, want 1", gpu.ShadersCreated)
	}
}

func TestCacheDistinguishesStages(t *testing.T) {
	gpu := drivertest.New()
	c := NewCache(gpu)
	src := []byte("void main() {}")

	if _, err := c.Get(driver.SVertex, src); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(driver.SFragment, src); err != nil {
		t.Fatal(err)
	}
	if gpu.ShadersCreated != 2 {
		t.Errorf("ShadersCreated = %d, want 2 (same source, different stage)", gpu.ShadersCreated)
	}
}

func TestPutDestroysOnLastReference(t *testing.T) {
	gpu := drivertest.New()
	c := NewCache(gpu)
	src := []byte("void main() {}")

	fn1, _ := c.Get(driver.SVertex, src)
	_, _ = c.Get(driver.SVertex, src)
	c.Put(driver.SVertex, src)
	if fn1.Code.(*drivertest.ShaderCode).Destroyed {
		t.Fatal("shader destroyed while still referenced")
	}
	c.Put(driver.SVertex, src)
	if !fn1.Code.(*drivertest.ShaderCode).Destroyed {
		t.Fatal("shader not destroyed after last reference released")
	}
}

func TestNewGraphicsReleasesVertOnFragmentFailure(t *testing.T) {
	gpu := drivertest.New()
	c := NewCache(gpu)
	vertSrc := []byte("vert")
	g, err := NewGraphics(c, vertSrc, []byte("frag"))
	if err != nil {
		t.Fatal(err)
	}
	g.Destroy()
	if gpu.ShadersCreated != 2 {
		t.Fatalf("ShadersCreated = %d, want 2", gpu.ShadersCreated)
	}
}
