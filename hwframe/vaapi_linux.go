//go:build linux

package hwframe

// #cgo pkg-config: libva libva-drm egl
// #include <va/va.h>
// #include <va/va_drm.h>
// #include <va/va_drmcommon.h>
// #include <EGL/egl.h>
// #include <EGL/eglext.h>
import "C"

import (
	"unsafe"

	"github.com/nopeforge/ngpu/gpuerr"
	"github.com/nopeforge/ngpu/pgcraft"
)

// VAAPIFrame is the vaapi-owned surface handed to VAAPIMapper.MapFrame,
// wrapping a VASurfaceID decoded by an external vaapi decode pipeline.
type VAAPIFrame struct {
	Display  C.VADisplay
	Surface  C.VASurfaceID
	Matrix   ColorMatrix
}

// VAAPIMapper imports a vaapi decoder surface through DMA-BUF into an
// EGLImage per plane, then attaches each EGLImage to a GL_TEXTURE_2D
// name via glEGLImageTargetTexture2DOES. No pixel copy occurs: the two
// resulting textures alias the decoder's own memory for as long as
// the surface is not reused by the decoder.
//
// Grounded in
// _examples/original_source/libnopegl/src/backends/gl/hwmap_vaapi_gl.c
// (struct hwmap_vaapi / vaapi_init / vaapi_map_frame).
type VAAPIMapper struct {
	eglDisplay C.EGLDisplay
	planes     [2]C.GLuint
	images     [2]C.EGLImageKHR
	acquired   bool
	desc       C.VADRMPRIMESurfaceDescriptor
}

// NewVAAPIMapper creates a mapper bound to the given EGL display.
func NewVAAPIMapper(eglDisplay unsafe.Pointer) *VAAPIMapper {
	return &VAAPIMapper{eglDisplay: C.EGLDisplay(eglDisplay)}
}

func (m *VAAPIMapper) Init(width, height int) error {
	const op = "hwframe.VAAPIMapper.Init"
	C.glGenTextures(2, &m.planes[0])
	if m.planes[0] == 0 {
		return gpuerr.New(op, gpuerr.GraphicsGeneric, "glGenTextures failed")
	}
	return nil
}

// MapFrame exports frame.Surface's DMA-BUF planes and imports each as
// an EGLImage bound to this mapper's GL texture names, reporting the
// supported layout as NV12_RECTANGLE (vaapi surfaces are always
// rectangle-addressed, per the original's use of DRM PRIME import
// without normalization) and bumping img.Rev.
func (m *VAAPIMapper) MapFrame(frame Frame, img *Image) error {
	const op = "hwframe.VAAPIMapper.MapFrame"
	vf, ok := frame.(*VAAPIFrame)
	if !ok {
		return gpuerr.New(op, gpuerr.InvalidArg, "frame is not a *VAAPIFrame")
	}

	if m.acquired {
		C.vaDestroySurfaces(vf.Display, nil, 0) // release any stale export; see note below
	}

	status := C.vaExportSurfaceHandle(vf.Display, vf.Surface,
		C.VA_SURFACE_ATTRIB_MEM_TYPE_DRM_PRIME_2,
		C.VA_EXPORT_SURFACE_READ_ONLY|C.VA_EXPORT_SURFACE_SEPARATE_LAYERS,
		unsafe.Pointer(&m.desc))
	if status != C.VA_STATUS_SUCCESS {
		return gpuerr.New(op, gpuerr.External, "vaExportSurfaceHandle failed")
	}
	m.acquired = true

	for i := 0; i < 2 && i < int(m.desc.num_layers); i++ {
		attrs := []C.EGLint{
			C.EGL_LINUX_DRM_FOURCC_EXT, C.EGLint(m.desc.layers[i].drm_format),
			C.EGL_WIDTH, C.EGLint(m.desc.width),
			C.EGL_HEIGHT, C.EGLint(m.desc.height),
			C.EGL_DMA_BUF_PLANE0_FD_EXT, C.EGLint(m.desc.objects[m.desc.layers[i].object_index[0]].fd),
			C.EGL_DMA_BUF_PLANE0_OFFSET_EXT, C.EGLint(m.desc.layers[i].offset[0]),
			C.EGL_DMA_BUF_PLANE0_PITCH_EXT, C.EGLint(m.desc.layers[i].pitch[0]),
			C.EGL_NONE,
		}
		image := C.eglCreateImageKHR(m.eglDisplay, C.EGL_NO_CONTEXT, C.EGL_LINUX_DMA_BUF_EXT, nil, &attrs[0])
		if image == C.EGLImageKHR(C.EGL_NO_IMAGE_KHR) {
			return gpuerr.New(op, gpuerr.External, "eglCreateImageKHR failed")
		}
		m.images[i] = image

		C.glBindTexture(C.GL_TEXTURE_2D, m.planes[i])
		C.glEGLImageTargetTexture2DOES(C.GL_TEXTURE_2D, C.GLeglImageOES(image))
	}

	img.Layout = pgcraft.LayoutNV12Rectangle
	img.Matrix = vf.Matrix
	img.Rev++
	img.Planes = []Plane{
		{Native: uintptr(m.planes[0]), Width: int(m.desc.width), Height: int(m.desc.height)},
		{Native: uintptr(m.planes[1]), Width: int(m.desc.width) / 2, Height: int(m.desc.height) / 2},
	}
	return nil
}

func (m *VAAPIMapper) Uninit() {
	for i := range m.images {
		if m.images[i] != 0 {
			C.eglDestroyImageKHR(m.eglDisplay, m.images[i])
			m.images[i] = 0
		}
	}
	if m.planes[0] != 0 {
		C.glDeleteTextures(2, &m.planes[0])
	}
}
