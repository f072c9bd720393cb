package cmdbuffer

import (
	"testing"

	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/internal/drivertest"
)

type destroyed struct{ did *bool }

func (d destroyed) Destroy() { *d.did = true }

func TestRetainReleasesOnRelease(t *testing.T) {
	gpu := drivertest.New()
	raw, _ := gpu.NewCmdBuffer()
	b := New(raw)

	var flag bool
	b.Retain(destroyed{&flag})
	if flag {
		t.Fatal("resource destroyed too early")
	}
	b.Release()
	if !flag {
		t.Fatal("resource not destroyed on Release")
	}
}

func TestFenceWaitIsIdempotent(t *testing.T) {
	gpu := drivertest.New()
	raw, _ := gpu.NewCmdBuffer()
	b := New(raw)
	f := Commit(gpu, []*Buffer{b})
	if err := f.Wait(); err != nil {
		t.Fatal(err)
	}
	if err := f.Wait(); err != nil {
		t.Fatal("second Wait should return cached nil, got", err)
	}
}

func TestRingAcquireReleasesPreviousFrame(t *testing.T) {
	gpu := drivertest.New()
	var raws []driver.CmdBuffer
	for i := 0; i < 2; i++ {
		cb, _ := gpu.NewCmdBuffer()
		raws = append(raws, cb)
	}
	ring := NewRing(raws)

	var flag bool
	b0, err := ring.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	b0.Retain(destroyed{&flag})
	Commit(gpu, []*Buffer{b0})

	if _, err := ring.Acquire(); err != nil {
		t.Fatal(err)
	}

	b0again, err := ring.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	if !flag {
		t.Fatal("wraparound Acquire did not release the previous frame's retained resources")
	}
	if b0again != b0 {
		t.Fatal("expected the ring to wrap back to the first slot")
	}
}
