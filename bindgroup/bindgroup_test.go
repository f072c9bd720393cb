package bindgroup

import (
	"testing"

	"github.com/nopeforge/ngpu/driver"
)

func TestSharedPolicyIsMonotonic(t *testing.T) {
	entries := []Entry{
		{Type: driver.DConstant, Stages: driver.SVertex, Count: 1},
		{Type: driver.DTexture, Stages: driver.SFragment, Count: 1},
		{Type: driver.DBuffer, Stages: driver.SCompute, Count: 1},
	}
	l, err := NewLayout(entries, PolicyShared)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 2}
	for i, b := range l.Bindings {
		if b != want[i] {
			t.Errorf("Bindings[%d] = %d, want %d", i, b, want[i])
		}
	}
}

func TestSplitPolicySeparatesCounters(t *testing.T) {
	entries := []Entry{
		{Type: driver.DConstant, Stages: driver.SVertex, Count: 1}, // ubo 0
		{Type: driver.DTexture, Stages: driver.SFragment, Count: 1}, // tex 0
		{Type: driver.DConstant, Stages: driver.SFragment, Count: 1}, // ubo 1
		{Type: driver.DBuffer, Stages: driver.SCompute, Count: 1},  // ssbo 0
		{Type: driver.DSampler, Stages: driver.SFragment, Count: 1}, // tex 1 (shares with DTexture)
		{Type: driver.DImage, Stages: driver.SCompute, Count: 1},   // img 0
	}
	l, err := NewLayout(entries, PolicySplit)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 0, 1, 0, 1, 0}
	for i, b := range l.Bindings {
		if b != want[i] {
			t.Errorf("Bindings[%d] = %d, want %d", i, b, want[i])
		}
	}
}

func TestBarrierMaskUnion(t *testing.T) {
	entries := []Entry{
		{Type: driver.DBuffer, Stages: driver.SCompute, Count: 1},
		{Type: driver.DTexture, Stages: driver.SFragment, Count: 1},
	}
	l, _ := NewLayout(entries, PolicyShared)
	mask := l.BarrierMask()
	if mask&driver.AShaderRead == 0 || mask&driver.AShaderWrite == 0 {
		t.Errorf("BarrierMask() = %v, want AShaderRead|AShaderWrite set", mask)
	}
}

func TestNewLayoutRejectsUnknownPolicy(t *testing.T) {
	_, err := NewLayout(nil, BindingPolicy(99))
	if err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
