// Package gpu wraps driver.Buffer and driver.Image with the
// higher-level bookkeeping a renderer needs: typed usage derivation,
// mipmap/cube-face iteration, staging-buffer upload, and per-subresource
// layout tracking.
//
// Grounded in the teacher's (now-removed) engine/texture package, one
// layer above driver.GPU; the interfaces it wraps are driver.Buffer and
// driver.Image from the driver package.
package gpu

import (
	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/gpuerr"
)

// Buffer wraps a driver.Buffer, remembering the usage it was created
// with so higher layers can validate binds without re-deriving flags.
type Buffer struct {
	drv   driver.GPU
	buf   driver.Buffer
	usage driver.Usage
	size  int64
}

// NewBuffer creates a buffer of size bytes, visible to the CPU if
// visible is set, usable per usg.
func NewBuffer(drv driver.GPU, size int64, visible bool, usg driver.Usage) (*Buffer, error) {
	const op = "gpu.NewBuffer"
	if size <= 0 {
		return nil, gpuerr.New(op, gpuerr.InvalidArg, "size must be positive")
	}
	b, err := drv.NewBuffer(size, visible, usg)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "driver.NewBuffer failed", err)
	}
	return &Buffer{drv: drv, buf: b, usage: usg, size: size}, nil
}

// Destroy releases the underlying driver resource.
func (b *Buffer) Destroy() { b.buf.Destroy() }

// Visible reports whether the buffer is CPU-mapped.
func (b *Buffer) Visible() bool { return b.buf.Visible() }

// Usage returns the usage mask the buffer was created with.
func (b *Buffer) Usage() driver.Usage { return b.usage }

// Size returns the requested size in bytes (may be smaller than the
// driver's actual capacity).
func (b *Buffer) Size() int64 { return b.size }

// Driver exposes the underlying driver.Buffer for command recording
// (SetVertexBuf, CopyBuffer, ...).
func (b *Buffer) Driver() driver.Buffer { return b.buf }

// Write copies data into the buffer's host-visible memory at off. It
// fails if the buffer is not CPU-visible or the range is out of bounds.
func (b *Buffer) Write(off int64, data []byte) error {
	const op = "gpu.Buffer.Write"
	if !b.buf.Visible() {
		return gpuerr.New(op, gpuerr.InvalidUsage, "buffer is not host visible")
	}
	dst := b.buf.Bytes()
	if off < 0 || off+int64(len(data)) > int64(len(dst)) {
		return gpuerr.New(op, gpuerr.InvalidArg, "write range out of bounds")
	}
	copy(dst[off:], data)
	return nil
}

// Read returns a view of n bytes starting at off from the buffer's
// host-visible memory. The slice aliases the buffer's backing storage.
func (b *Buffer) Read(off, n int64) ([]byte, error) {
	const op = "gpu.Buffer.Read"
	if !b.buf.Visible() {
		return nil, gpuerr.New(op, gpuerr.InvalidUsage, "buffer is not host visible")
	}
	src := b.buf.Bytes()
	if off < 0 || off+n > int64(len(src)) {
		return nil, gpuerr.New(op, gpuerr.InvalidArg, "read range out of bounds")
	}
	return src[off : off+n], nil
}
