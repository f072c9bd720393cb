package gpu

import (
	"sync/atomic"

	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/gpuerr"
)

// Texture wraps a driver.Image plus the per-layer/per-level layout
// state a command recorder needs to emit correct Transition barriers,
// and a cache of driver.ImageView instances keyed by view parameters.
//
// Grounded in the teacher's (now-removed) engine/texture.Texture,
// which tracked image layout with one atomic.Int64 per array layer so
// concurrent command-buffer recorders could transition disjoint
// layers without a shared lock.
type Texture struct {
	drv    driver.GPU
	img    driver.Image
	pf     driver.PixelFmt
	size   driver.Dim3D
	layers int
	levels int
	samples int
	usage  driver.Usage

	// layout holds one atomic driver.Layout per array layer; all
	// mip levels of a layer are assumed to share a layout, which
	// holds for every transition this package issues (it never
	// transitions individual levels).
	layout []atomic.Int64

	views map[viewKey]driver.ImageView
}

type viewKey struct {
	typ           driver.ViewType
	layer, layers int
	level, levels int
}

// NewTexture creates an Image of the given format/size/layer/level/
// sample counts, usable per usg. levels == 0 means a single mip level.
func NewTexture(drv driver.GPU, pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) (*Texture, error) {
	const op = "gpu.NewTexture"
	if layers < 1 {
		layers = 1
	}
	if levels < 1 {
		levels = 1
	}
	if samples < 1 {
		samples = 1
	}
	img, err := drv.NewImage(pf, size, layers, levels, samples, usg)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "driver.NewImage failed", err)
	}
	t := &Texture{
		drv: drv, img: img, pf: pf, size: size,
		layers: layers, levels: levels, samples: samples, usage: usg,
		layout: make([]atomic.Int64, layers),
		views:  make(map[viewKey]driver.ImageView),
	}
	for i := range t.layout {
		t.layout[i].Store(int64(driver.LUndefined))
	}
	return t, nil
}

// Destroy destroys all cached views, then the underlying image. Views
// must not be destroyed individually by the caller.
func (t *Texture) Destroy() {
	for _, v := range t.views {
		v.Destroy()
	}
	t.views = nil
	t.img.Destroy()
}

// PixelFmt, Size, Layers, Levels, Samples and Usage return the
// parameters the texture was created with.
func (t *Texture) PixelFmt() driver.PixelFmt { return t.pf }
func (t *Texture) Size() driver.Dim3D        { return t.size }
func (t *Texture) Layers() int               { return t.layers }
func (t *Texture) Levels() int                { return t.levels }
func (t *Texture) Samples() int               { return t.samples }
func (t *Texture) Usage() driver.Usage        { return t.usage }

// Layout returns the current tracked layout of layer.
func (t *Texture) Layout(layer int) driver.Layout {
	return driver.Layout(t.layout[layer].Load())
}

// SetLayout records that layer has been transitioned to l, without
// itself emitting a command. Callers issue the driver.Transition and
// then call SetLayout to keep the tracker in sync.
func (t *Texture) SetLayout(layer int, l driver.Layout) {
	t.layout[layer].Store(int64(l))
}

// TransitionAll returns one driver.Transition per layer whose tracked
// layout differs from to, for all layers currently in the from
// layout (pass driver.LUndefined for from to match every layer
// regardless of current layout), and updates the tracker to record
// the new layout. The command recorder is responsible for calling
// CmdBuffer.Transition with the result.
func (t *Texture) TransitionAll(to driver.Layout, b driver.Barrier, view func(layer int) (driver.ImageView, error)) ([]driver.Transition, error) {
	const op = "gpu.Texture.TransitionAll"
	var trans []driver.Transition
	for layer := 0; layer < t.layers; layer++ {
		cur := t.Layout(layer)
		if cur == to {
			continue
		}
		iv, err := view(layer)
		if err != nil {
			return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "view callback failed", err)
		}
		trans = append(trans, driver.Transition{
			Barrier:      b,
			LayoutBefore: cur,
			LayoutAfter:  to,
			IView:        iv,
		})
		t.SetLayout(layer, to)
	}
	return trans, nil
}

// View returns a cached driver.ImageView for the given parameters,
// creating it on first use.
func (t *Texture) View(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	const op = "gpu.Texture.View"
	key := viewKey{typ, layer, layers, level, levels}
	if v, ok := t.views[key]; ok {
		return v, nil
	}
	v, err := t.img.NewView(typ, layer, layers, level, levels)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "driver.Image.NewView failed", err)
	}
	t.views[key] = v
	return v, nil
}

// ComputeLevels returns the number of mip levels a full mipmap chain
// would have for the given 2D extent (1 at the 1x1 level).
func ComputeLevels(width, height int) int {
	levels := 1
	for width > 1 || height > 1 {
		if width > 1 {
			width >>= 1
		}
		if height > 1 {
			height >>= 1
		}
		levels++
	}
	return levels
}

// CubeFace identifies one of the six faces of a cube image, in the
// array-layer order driver.IViewCube expects.
type CubeFace int

// Cube faces, in +X/-X/+Y/-Y/+Z/-Z order.
const (
	FacePosX CubeFace = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
	NbCubeFace
)

// RowAlign is the minimum alignment, in bytes, of the row stride used
// in a BufImgCopy, per spec.md §4.C / driver.BufImgCopy's doc comment.
const RowAlign = 256

// AlignRow rounds n up to the next multiple of RowAlign.
func AlignRow(n int64) int64 {
	if r := n % RowAlign; r != 0 {
		return n + RowAlign - r
	}
	return n
}
