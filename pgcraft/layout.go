// Package pgcraft crafts backend-portable GLSL from a declarative
// description of uniforms, blocks, textures, attributes and iovars,
// including the hand-written ngl_texvideo() rewriter that expands a
// custom sampling operator into layout-specific texture fetches.
//
// Grounded in _examples/original_source/libnopegl/src/pgcraft.c.
package pgcraft

// ImageLayout is the semantic interpretation of one or more sampler
// bindings backing a video texture. Mirrors the original's
// NGLI_IMAGE_LAYOUT_* enum (image.h, not present in the filtered
// original_source tree; reconstructed from pgcraft.c's usage and
// spec.md §3/§4.K).
type ImageLayout int

const (
	// LayoutDefault is a single RGBA 2D sampler.
	LayoutDefault ImageLayout = iota
	// LayoutNV12 is two 2D planes (luma, interleaved chroma).
	LayoutNV12
	// LayoutNV12Rectangle is NV12 backed by rectangle (unnormalized
	// coordinate) textures, as vaapi/DMA-BUF import produces.
	LayoutNV12Rectangle
	// LayoutYUV is three planar 2D samplers.
	LayoutYUV
	// LayoutRectangle is a single rectangle-coordinate 2D sampler.
	LayoutRectangle
	// LayoutMediacodec is a single external-OES sampler (Android
	// MediaCodec surface textures).
	LayoutMediacodec
)

// Backend is the target graphics API, governing which image layouts,
// GLSL version features, and binding conventions are available.
type Backend int

const (
	BackendGL Backend = iota
	BackendGLES
	BackendVulkan
)

// SupportedLayouts returns the image layouts sampleable on backend,
// in the fixed precedence order the texvideo rewriter tests them in
// (MEDIACODEC, NV12_RECTANGLE, RECTANGLE, NV12, YUV; DEFAULT is
// always last and always available). GL has no external-OES or
// rectangle-texture equivalent of GLES/EGL's, so MEDIACODEC is GLES-
// only; vaapi/DMA-BUF rectangle import is Linux/GL-only.
func SupportedLayouts(b Backend) []ImageLayout {
	switch b {
	case BackendGLES:
		return []ImageLayout{LayoutMediacodec, LayoutNV12, LayoutYUV}
	case BackendGL:
		return []ImageLayout{LayoutNV12Rectangle, LayoutRectangle, LayoutNV12, LayoutYUV}
	case BackendVulkan:
		return []ImageLayout{LayoutNV12, LayoutYUV}
	default:
		return nil
	}
}

func supports(layouts []ImageLayout, l ImageLayout) bool {
	for _, x := range layouts {
		if x == l {
			return true
		}
	}
	return false
}

// TexType is the semantic type of a declared texture.
type TexType int

const (
	TexNone TexType = iota
	Tex2D
	Tex2DArray
	Tex3D
	TexCube
	// TexVideo textures are the only ones ngl_texvideo() expands
	// into a multi-layout conditional; everything else degenerates
	// to a plain texture() call.
	TexVideo
)

// TextureDecl declares one texture binding.
type TextureDecl struct {
	Name       string
	Type       TexType
	ClampVideo bool
}
