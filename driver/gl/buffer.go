package gl

import (
	"unsafe"

	glfn "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/nopeforge/ngpu/driver"
)

// unsafeBytes turns a CPU pointer returned by glMapBufferRange into a
// Go byte slice valid for the mapping's lifetime.
func unsafeBytes(ptr unsafe.Pointer, n int) []byte {
	return unsafe.Slice((*byte)(ptr), n)
}

// buffer implements driver.Buffer as a single GL buffer object. Per
// spec.md §4.C, map flags are derived solely from usage: a buffer
// requested visible is persistently mapped coherent storage, matching
// MAP_PERSISTENT's "persistent+coherent" rule; a non-visible buffer is
// never mapped and Bytes returns nil.
type buffer struct {
	name     uint32
	target   uint32
	size     int64
	visible  bool
	usg      driver.Usage
	mapped   []byte
}

// NewBuffer creates a new buffer of sz bytes. visible buffers are
// allocated with glBufferStorage's persistent+coherent+map-read/write
// bits (derived from usg) so Bytes can return a CPU pointer valid for
// the buffer's lifetime, per spec.md §4.C.
func (d *Driver) NewBuffer(sz int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	if sz <= 0 {
		return nil, driver.ErrFatal
	}
	var name uint32
	glfn.GenBuffers(1, &name)
	target := bufferTarget(usg)
	glfn.BindBuffer(target, name)

	b := &buffer{name: name, target: target, size: sz, visible: visible, usg: usg}
	if visible {
		var flags uint32 = glfn.MAP_PERSISTENT_BIT | glfn.MAP_COHERENT_BIT
		if usg&driver.UShaderRead != 0 || usg == 0 {
			flags |= glfn.MAP_READ_BIT
		}
		flags |= glfn.MAP_WRITE_BIT
		glfn.BufferStorage(target, int(sz), nil, flags)
		ptr := glfn.MapBufferRange(target, 0, int(sz), flags)
		if ptr != nil {
			b.mapped = unsafeBytes(ptr, int(sz))
		}
	} else {
		glfn.BufferData(target, int(sz), nil, usageHint(false))
	}
	glfn.BindBuffer(target, 0)
	return b, nil
}

// Visible reports whether the buffer is host-visible.
func (b *buffer) Visible() bool { return b.visible }

// Bytes returns the persistently-mapped slice, or nil for a
// device-local buffer.
func (b *buffer) Bytes() []byte { return b.mapped }

// Cap returns the buffer's byte size.
func (b *buffer) Cap() int64 { return b.size }

// Destroy deletes the underlying GL buffer object.
func (b *buffer) Destroy() {
	if b.mapped != nil {
		glfn.BindBuffer(b.target, b.name)
		glfn.UnmapBuffer(b.target)
		glfn.BindBuffer(b.target, 0)
	}
	glfn.DeleteBuffers(1, &b.name)
}
