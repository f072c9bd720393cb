package gpu

import (
	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/format"
	"github.com/nopeforge/ngpu/gpuerr"
)

// Upload describes one CopyBufToImg transfer from CPU data into a
// texture subresource.
type Upload struct {
	Layer, Level int
	Off          driver.Off3D
	Size         driver.Dim3D
	Data         []byte
}

// StageUpload copies upl.Data into a freshly allocated, host-visible
// staging Buffer and records a CopyBufToImg into cb. The caller must
// keep the returned Buffer alive (and eventually Destroy it) until the
// command buffer has finished executing; cmdbuffer.Buffer tracks this
// via reference retention.
func (t *Texture) StageUpload(cb driver.CmdBuffer, upl Upload) (*Buffer, error) {
	const op = "gpu.Texture.StageUpload"
	bpp := format.BytesPerPixel(t.pf)
	if bpp == 0 {
		return nil, gpuerr.New(op, gpuerr.InvalidArg, "unrepresentable pixel format")
	}
	rowStride := AlignRow(int64(upl.Size.Width * bpp))
	size := rowStride * int64(upl.Size.Height) * int64(upl.Size.Depth)
	if size <= 0 {
		return nil, gpuerr.New(op, gpuerr.InvalidArg, "empty upload region")
	}

	staging, err := NewBuffer(t.drv, size, true, driver.UGeneric)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "staging buffer allocation failed", err)
	}
	packTightToStrided(staging.buf.Bytes(), upl.Data, upl.Size, bpp, rowStride)

	cb.CopyBufToImg(&driver.BufImgCopy{
		Buf:    staging.buf,
		BufOff: 0,
		Stride: [2]int64{rowStride / int64(bpp), int64(upl.Size.Height)},
		Img:    t.img,
		ImgOff: upl.Off,
		Layer:  upl.Layer,
		Level:  upl.Level,
		Size:   upl.Size,
	})
	return staging, nil
}

// packTightToStrided copies a tightly packed (no row padding) source
// image into dst using rowStride-byte rows, matching the alignment
// driver.BufImgCopy requires.
func packTightToStrided(dst, src []byte, size driver.Dim3D, bpp int, rowStride int64) {
	tightRow := int64(size.Width * bpp)
	if tightRow == rowStride {
		copy(dst, src)
		return
	}
	rows := size.Height * size.Depth
	for r := 0; r < rows; r++ {
		srcOff := int64(r) * tightRow
		dstOff := int64(r) * rowStride
		copy(dst[dstOff:dstOff+tightRow], src[srcOff:srcOff+tightRow])
	}
}
