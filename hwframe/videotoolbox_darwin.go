//go:build darwin

package hwframe

// #cgo LDFLAGS: -framework CoreVideo -framework OpenGLES
// #include <CoreVideo/CoreVideo.h>
// #include <OpenGLES/ES3/gl.h>
import "C"

import (
	"unsafe"

	"github.com/nopeforge/ngpu/gpuerr"
	"github.com/nopeforge/ngpu/pgcraft"
)

// VideoToolboxFrame is the CVPixelBuffer-backed surface handed to
// VideoToolboxMapper.MapFrame, produced by an external VideoToolbox
// decode pipeline.
type VideoToolboxFrame struct {
	PixelBuffer C.CVPixelBufferRef
}

// VideoToolboxMapper imports a CVPixelBuffer's planes into
// CVOpenGLESTexture objects through a texture cache, binding one GLES
// texture per plane with no pixel copy: the returned textures alias
// the decoder's own IOSurface-backed memory for as long as the pixel
// buffer is not released by the decoder.
//
// Grounded in
// _examples/original_source/libnopegl/src/backends/gl/hwmap_videotoolbox_ios_gl.c
// (struct hwmap_vt_ios / vt_ios_init / vt_ios_map_frame).
type VideoToolboxMapper struct {
	cache     C.CVOpenGLESTextureCacheRef
	textures  [2]C.CVOpenGLESTextureRef
	format    C.OSType
	nbPlanes  int
	filterMip bool
}

// NewVideoToolboxMapper creates a mapper that caches textures against
// eaglCtx, an EAGLContext retained by the caller for the lifetime of
// the GL context. mipmapFilter mirrors pgcraft texture params: when
// true, direct (zero-copy) rendering is disallowed because
// VideoToolbox textures cannot be mipmapped.
func NewVideoToolboxMapper(eaglCtx unsafe.Pointer, mipmapFilter bool) (*VideoToolboxMapper, error) {
	const op = "hwframe.NewVideoToolboxMapper"
	var cache C.CVOpenGLESTextureCacheRef
	ret := C.CVOpenGLESTextureCacheCreate(C.kCFAllocatorDefault, nil,
		(C.CVEAGLContext)(eaglCtx), nil, &cache)
	if ret != C.kCVReturnSuccess {
		return nil, gpuerr.New(op, gpuerr.External, "CVOpenGLESTextureCacheCreate failed")
	}
	return &VideoToolboxMapper{cache: cache, filterMip: mipmapFilter}, nil
}

func (m *VideoToolboxMapper) Init(width, height int) error {
	return nil
}

// formatDesc mirrors vt_get_format_desc: BGRA maps to a single DEFAULT
// plane, the two bi-planar NV12 4:2:0 full/video-range formats map to
// a two-plane NV12 layout.
func formatDesc(format C.OSType) (layout pgcraft.ImageLayout, nbPlanes int, ok bool) {
	switch format {
	case C.kCVPixelFormatType_32BGRA:
		return pgcraft.LayoutDefault, 1, true
	case C.kCVPixelFormatType_420YpCbCr8BiPlanarFullRange,
		C.kCVPixelFormatType_420YpCbCr8BiPlanarVideoRange:
		return pgcraft.LayoutNV12, 2, true
	default:
		return pgcraft.LayoutDefault, 0, false
	}
}

// MapFrame creates (or replaces) one CVOpenGLESTexture per plane from
// frame's CVPixelBuffer, reporting the frame's semantic layout and
// bumping img.Rev. direct-rendering eligibility (no mipmap filter
// requested) is left to the caller via RequiresConversion.
func (m *VideoToolboxMapper) MapFrame(frame Frame, img *Image) error {
	const op = "hwframe.VideoToolboxMapper.MapFrame"
	vf, ok := frame.(*VideoToolboxFrame)
	if !ok {
		return gpuerr.New(op, gpuerr.InvalidArg, "frame is not a *VideoToolboxFrame")
	}

	format := C.CVPixelBufferGetPixelFormatType(vf.PixelBuffer)
	layout, nbPlanes, ok := formatDesc(format)
	if !ok {
		return gpuerr.New(op, gpuerr.Unsupported, "unsupported CVPixelBuffer format")
	}
	m.format = format
	m.nbPlanes = nbPlanes

	planes := make([]Plane, nbPlanes)
	for i := 0; i < nbPlanes; i++ {
		if m.textures[i] != 0 {
			C.CFRelease(C.CFTypeRef(m.textures[i]))
			m.textures[i] = 0
		}

		width := C.CVPixelBufferGetWidthOfPlane(vf.PixelBuffer, C.size_t(i))
		height := C.CVPixelBufferGetHeightOfPlane(vf.PixelBuffer, C.size_t(i))

		internalFormat, glFormat, glType := planeGLFormats(layout, i)

		var tex C.CVOpenGLESTextureRef
		ret := C.CVOpenGLESTextureCacheCreateTextureFromImage(
			C.kCFAllocatorDefault, m.cache, vf.PixelBuffer, nil,
			C.GLenum(C.GL_TEXTURE_2D), internalFormat,
			C.GLsizei(width), C.GLsizei(height),
			glFormat, glType, C.size_t(i), &tex)
		if ret != C.kCVReturnSuccess {
			return gpuerr.New(op, gpuerr.External, "CVOpenGLESTextureCacheCreateTextureFromImage failed")
		}
		m.textures[i] = tex

		id := C.CVOpenGLESTextureGetName(tex)
		C.glBindTexture(C.GL_TEXTURE_2D, id)
		C.glTexParameteri(C.GL_TEXTURE_2D, C.GL_TEXTURE_MIN_FILTER, C.GL_LINEAR)
		C.glTexParameteri(C.GL_TEXTURE_2D, C.GL_TEXTURE_MAG_FILTER, C.GL_LINEAR)
		C.glTexParameteri(C.GL_TEXTURE_2D, C.GL_TEXTURE_WRAP_S, C.GL_CLAMP_TO_EDGE)
		C.glTexParameteri(C.GL_TEXTURE_2D, C.GL_TEXTURE_WRAP_T, C.GL_CLAMP_TO_EDGE)
		C.glBindTexture(C.GL_TEXTURE_2D, 0)

		planes[i] = Plane{Native: uintptr(id), Width: int(width), Height: int(height)}
	}

	img.Layout = layout
	img.Matrix = ColorMatrixBT601Limited
	img.Rev++
	img.Planes = planes
	return nil
}

// planeGLFormats mirrors vt_get_format_desc's per-plane ngpu_format:
// DEFAULT is a single BGRA8 plane, NV12 is R8 luma + RG8 chroma.
func planeGLFormats(layout pgcraft.ImageLayout, plane int) (internal C.GLint, format, typ C.GLenum) {
	if layout == pgcraft.LayoutDefault {
		return C.GL_BGRA_EXT, C.GL_BGRA_EXT, C.GL_UNSIGNED_BYTE
	}
	if plane == 0 {
		return C.GL_LUMINANCE, C.GL_LUMINANCE, C.GL_UNSIGNED_BYTE
	}
	return C.GL_LUMINANCE_ALPHA, C.GL_LUMINANCE_ALPHA, C.GL_UNSIGNED_BYTE
}

// RequiresConversion reports whether frame cannot be sampled directly
// (mirrors support_direct_rendering's negation): mipmap filtering was
// requested, which VideoToolbox textures never support.
func (m *VideoToolboxMapper) RequiresConversion() bool {
	return m.filterMip
}

func (m *VideoToolboxMapper) Uninit() {
	for i := range m.textures {
		if m.textures[i] != 0 {
			C.CFRelease(C.CFTypeRef(m.textures[i]))
			m.textures[i] = 0
		}
	}
	if m.cache != 0 {
		C.CFRelease(C.CFTypeRef(m.cache))
		m.cache = 0
	}
}
