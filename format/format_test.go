package format

import (
	"testing"

	"github.com/nopeforge/ngpu/driver"
)

func TestGetKnownFormat(t *testing.T) {
	row, ok := Get(driver.RGBA8un)
	if !ok {
		t.Fatal("RGBA8un: not found")
	}
	if row.NComp != 4 || row.BytesPerPixel != 4 {
		t.Errorf("RGBA8un = %+v, want NComp 4, BytesPerPixel 4", row)
	}
	if row.Features&Sampled == 0 || row.Features&ColorAttachment == 0 {
		t.Errorf("RGBA8un features = %v, want Sampled|ColorAttachment set", row.Features)
	}
}

func TestDepthFormatHasNoColorFeatures(t *testing.T) {
	row, ok := Get(driver.D32f)
	if !ok {
		t.Fatal("D32f: not found")
	}
	if row.Features&ColorAttachment != 0 {
		t.Error("D32f should not report ColorAttachment")
	}
	if row.Features&DepthStencilAttachment == 0 {
		t.Error("D32f should report DepthStencilAttachment")
	}
}

func TestNCompAndBytesPerPixelHelpers(t *testing.T) {
	if n := NComp(driver.RG32f); n != 2 {
		t.Errorf("NComp(RG32f) = %d, want 2", n)
	}
	if b := BytesPerPixel(driver.RG32f); b != 8 {
		t.Errorf("BytesPerPixel(RG32f) = %d, want 8", b)
	}
}

func TestRegistryRefineDoesNotMutateBaseline(t *testing.T) {
	r := NewRegistry()
	before := Features(driver.R16f)
	r.Refine(driver.R16f, LinearFilter)
	after := r.Features(driver.R16f)
	if after&LinearFilter == 0 {
		t.Error("Refine did not set LinearFilter on the registry copy")
	}
	if Features(driver.R16f) != before {
		t.Error("Refine mutated the package-level baseline table")
	}
}

func TestUnknownFormatReturnsZeroRow(t *testing.T) {
	const bogus driver.PixelFmt = -1
	if _, ok := Get(bogus); ok {
		t.Error("expected bogus format to be absent from the registry")
	}
	if NComp(bogus) != 0 {
		t.Error("NComp of unknown format should be 0")
	}
}
