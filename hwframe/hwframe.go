// Package hwframe maps hardware-decoder surfaces (vaapi/DMA-BUF on
// Linux, VideoToolbox CVPixelBuffer on iOS) into sampleable textures,
// producing the semantic Image a pgcraft-crafted video texture
// expects: a pixel layout plus the color space/scale information the
// ngl_texvideo() color_matrix uniform needs.
//
// Grounded in
// _examples/original_source/libnopegl/src/backends/gl/hwmap_vaapi_gl.c
// and the VideoToolbox mapper referenced alongside it in _INDEX.md;
// spec.md §4.K.
package hwframe

import "github.com/nopeforge/ngpu/pgcraft"

// ColorMatrix selects the YUV-to-RGB conversion matrix a mapped frame
// requires.
type ColorMatrix int

const (
	ColorMatrixIdentity ColorMatrix = iota
	ColorMatrixBT601Limited
	ColorMatrixBT601Full
	ColorMatrixBT709Limited
	ColorMatrixBT709Full
)

// Image is the mapper's output: a semantic view over one or more
// planes, ready to be bound as the sampler(s) a VIDEO pgcraft texture
// declares.
type Image struct {
	Layout pgcraft.ImageLayout
	Matrix ColorMatrix
	// Rev increments every time MapFrame produces new plane
	// contents for the same logical Image, so callers can detect
	// "same object, new frame" without comparing plane handles.
	Rev uint64
	// Planes holds one entry per sampler the Layout requires, in
	// the order pgcraft's texture declarations expect
	// (plane 0, 1, 2, oes, rect_0, rect_1).
	Planes []Plane
}

// Plane is one mapped GPU view backing an Image.
type Plane struct {
	// Native is the backend-specific texture name: a GLuint for
	// the GL mappers (vaapi/EGLImage, VideoToolbox), wrapped by the
	// concrete mapper so this package stays backend-agnostic at
	// the type level.
	Native uintptr
	Width  int
	Height int
}

// Frame is the opaque hardware-decoder surface handed to a Mapper;
// concrete mappers type-assert it to their own pointer type.
type Frame any

// Mapper maps decoder-owned Frames into a reusable Image without
// copying pixel data, per frame, for the lifetime of an init/uninit
// session.
type Mapper interface {
	// Init prepares the mapper for a given expected frame layout
	// (width/height/pixel format); called once before the first
	// MapFrame.
	Init(width, height int) error
	// MapFrame populates (or reuses and updates) img to reference
	// frame's planes, incrementing img.Rev.
	MapFrame(frame Frame, img *Image) error
	// Uninit releases any mapper-owned GPU objects (EGLImages, CV
	// texture caches, ...). MapFrame must not be called afterward.
	Uninit()
}
