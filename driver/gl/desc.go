package gl

import (
	glfn "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/nopeforge/ngpu/driver"
)

// bufBinding records one bound buffer range.
type bufBinding struct {
	buf driver.Buffer
	off int64
	size int64
}

// descHeap implements driver.DescHeap. GL has no analogue of a
// Vulkan descriptor set, so a heap copy is simply a flat table of
// resource slots indexed by descriptor Nr/array-element, consulted at
// draw time by descTable's bind step.
type descHeap struct {
	ds  []driver.Descriptor
	off map[int]int // descriptor Nr -> base slot offset
	n   int         // slots per copy

	bufs  [][]bufBinding
	imgs  [][]driver.ImageView
	splrs [][]driver.Sampler
}

// NewDescHeap creates a new descriptor heap.
func (d *Driver) NewDescHeap(ds []driver.Descriptor) (driver.DescHeap, error) {
	off := make(map[int]int, len(ds))
	n := 0
	for i := range ds {
		off[ds[i].Nr] = n
		n += ds[i].Len
	}
	return &descHeap{ds: append([]driver.Descriptor(nil), ds...), off: off, n: n}, nil
}

// typeOf returns the descriptor type bound at nr.
func (h *descHeap) typeOf(nr int) driver.DescType {
	for i := range h.ds {
		if h.ds[i].Nr == nr {
			return h.ds[i].Type
		}
	}
	return driver.DBuffer
}

// New creates enough storage for n copies of each descriptor.
func (h *descHeap) New(n int) error {
	if n == len(h.bufs) {
		return nil
	}
	if n == 0 {
		h.bufs, h.imgs, h.splrs = nil, nil, nil
		return nil
	}
	h.bufs = make([][]bufBinding, n)
	h.imgs = make([][]driver.ImageView, n)
	h.splrs = make([][]driver.Sampler, n)
	for i := 0; i < n; i++ {
		h.bufs[i] = make([]bufBinding, h.n)
		h.imgs[i] = make([]driver.ImageView, h.n)
		h.splrs[i] = make([]driver.Sampler, h.n)
	}
	return nil
}

// SetBuffer updates the buffer ranges referred by the given
// descriptor of the given heap copy.
func (h *descHeap) SetBuffer(cpy, nr, start int, buf []driver.Buffer, off, size []int64) {
	base := h.off[nr] + start
	for i := range buf {
		h.bufs[cpy][base+i] = bufBinding{buf: buf[i], off: off[i], size: size[i]}
	}
}

// SetImage updates the image views referred by the given descriptor
// of the given heap copy.
func (h *descHeap) SetImage(cpy, nr, start int, iv []driver.ImageView) {
	base := h.off[nr] + start
	for i := range iv {
		h.imgs[cpy][base+i] = iv[i]
	}
}

// SetSampler updates the samplers referred by the given descriptor of
// the given heap copy.
func (h *descHeap) SetSampler(cpy, nr, start int, splr []driver.Sampler) {
	base := h.off[nr] + start
	for i := range splr {
		h.splrs[cpy][base+i] = splr[i]
	}
}

// Count returns the number of heap copies created by New.
func (h *descHeap) Count() int { return len(h.bufs) }

// Destroy releases the heap's resource slots. It does not destroy the
// buffers/images/samplers referenced by them, which are owned by the
// caller.
func (h *descHeap) Destroy() { *h = descHeap{} }

// descTable implements driver.DescTable as an ordered list of
// descHeap, matching driver/vk's set-of-sets model.
type descTable struct {
	h []*descHeap
}

// NewDescTable creates a new descriptor table.
func (d *Driver) NewDescTable(dh []driver.DescHeap) (driver.DescTable, error) {
	h := make([]*descHeap, len(dh))
	for i := range dh {
		h[i] = dh[i].(*descHeap)
	}
	return &descTable{h: h}, nil
}

// Destroy is a no-op: a descTable owns no GL objects of its own, only
// references to descHeaps that outlive it.
func (t *descTable) Destroy() {}

// bindTable binds every resource in table's heaps starting at heap
// index start, using heapCopy[i] to select which copy of heap
// start+i to read from. GL's binding model has four independent
// counters (UBO, SSBO, texture unit, image unit), so each descriptor
// type advances its own running index across all heaps in the table,
// per spec.md §4.D's documented divergence from Vulkan's single
// shared set/binding space.
func bindTable(t *descTable, start int, heapCopy []int) {
	var ubo, ssbo, tex, img uint32
	for i, h := range t.h[start:] {
		cpy := 0
		if i < len(heapCopy) {
			cpy = heapCopy[i]
		}
		if cpy >= len(h.bufs) {
			continue
		}
		for _, d := range h.ds {
			base := h.off[d.Nr]
			for j := 0; j < d.Len; j++ {
				slot := base + j
				switch d.Type {
				case driver.DConstant:
					b := h.bufs[cpy][slot]
					if b.buf != nil {
						glfn.BindBufferRange(glfn.UNIFORM_BUFFER, ubo, b.buf.(*buffer).name, int(b.off), int(b.size))
					}
					ubo++
				case driver.DBuffer:
					b := h.bufs[cpy][slot]
					if b.buf != nil {
						glfn.BindBufferRange(glfn.SHADER_STORAGE_BUFFER, ssbo, b.buf.(*buffer).name, int(b.off), int(b.size))
					}
					ssbo++
				case driver.DTexture:
					iv := h.imgs[cpy][slot]
					if iv != nil {
						im := iv.(*imageView).img
						glfn.ActiveTexture(glfn.TEXTURE0 + tex)
						glfn.BindTexture(im.target, im.tex)
					}
					tex++
				case driver.DSampler:
					s := h.splrs[cpy][slot]
					if s != nil {
						glfn.BindSampler(tex, s.(*sampler).name)
					}
				case driver.DImage:
					iv := h.imgs[cpy][slot]
					if iv != nil {
						im := iv.(*imageView).img
						internal, _, _ := glFormat(im.pf)
						glfn.BindImageTexture(img, im.tex, int32(iv.(*imageView).level), iv.(*imageView).layers > 1, int32(iv.(*imageView).layer), glfn.READ_WRITE, internal)
					}
					img++
				}
			}
		}
	}
}
