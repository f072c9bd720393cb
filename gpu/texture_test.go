package gpu

import (
	"testing"

	"github.com/nopeforge/ngpu/driver"
)

func TestComputeLevels(t *testing.T) {
	cases := []struct{ w, h, want int }{
		{1, 1, 1},
		{2, 2, 2},
		{4, 4, 3},
		{256, 256, 9},
		{256, 1, 9},
		{3, 1, 2},
	}
	for _, c := range cases {
		if got := ComputeLevels(c.w, c.h); got != c.want {
			t.Errorf("ComputeLevels(%d,%d) = %d, want %d", c.w, c.h, got, c.want)
		}
	}
}

func TestAlignRow(t *testing.T) {
	cases := []struct{ n, want int64 }{
		{0, 0},
		{1, 256},
		{256, 256},
		{257, 512},
	}
	for _, c := range cases {
		if got := AlignRow(c.n); got != c.want {
			t.Errorf("AlignRow(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestPackTightToStridedNoOp(t *testing.T) {
	size := driver.Dim3D{Width: 2, Height: 2, Depth: 1}
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dst := make([]byte, len(src))
	packTightToStrided(dst, src, size, 4, 8)
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("byte %d = %d, want %d", i, dst[i], src[i])
		}
	}
}

func TestPackTightToStridedPadded(t *testing.T) {
	size := driver.Dim3D{Width: 2, Height: 2, Depth: 1}
	const bpp = 4
	src := make([]byte, size.Width*bpp*size.Height)
	for i := range src {
		src[i] = byte(i + 1)
	}
	const rowStride = 16
	dst := make([]byte, rowStride*int64(size.Height))
	packTightToStrided(dst, src, size, bpp, rowStride)
	tightRow := size.Width * bpp
	for r := 0; r < size.Height; r++ {
		got := dst[r*rowStride : r*rowStride+tightRow]
		want := src[r*tightRow : (r+1)*tightRow]
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("row %d byte %d = %d, want %d", r, i, got[i], want[i])
			}
		}
	}
}
