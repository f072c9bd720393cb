package gl

import (
	glfn "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/nopeforge/ngpu/driver"
)

// image implements driver.Image. Per spec.md §4.C, a texture created
// purely with color- or depth/stencil-attachment usage (no sampling)
// is realized as a renderbuffer rather than a texture, since GL
// distinguishes the two and renderbuffers are cheaper when a resource
// is never sampled.
type image struct {
	pf      driver.PixelFmt
	size    driver.Dim3D
	layers  int
	levels  int
	samples int
	usg     driver.Usage

	// Exactly one of tex/rb is non-zero.
	tex    uint32
	rb     uint32
	target uint32 // GL texture target (TEXTURE_2D, TEXTURE_2D_ARRAY, ...), unset for renderbuffers
}

func isRenderbufferOnly(usg driver.Usage) bool {
	attachOnly := usg&(driver.URenderTarget) != 0
	neverSampled := usg&(driver.UShaderRead|driver.UShaderSample|driver.UShaderWrite) == 0
	return attachOnly && neverSampled
}

func mipLevels(w, h int) int {
	n := 1
	for w > 1 || h > 1 {
		w >>= 1
		h >>= 1
		n++
	}
	return n
}

// NewImage creates a new 2D/array/3D image, dispatching to a
// renderbuffer when usg is attachment-only, per spec.md §4.C.
func (d *Driver) NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) (driver.Image, error) {
	internal, _, _ := glFormat(pf)

	if isRenderbufferOnly(usg) {
		var rb uint32
		glfn.GenRenderbuffers(1, &rb)
		glfn.BindRenderbuffer(glfn.RENDERBUFFER, rb)
		if samples > 1 {
			glfn.RenderbufferStorageMultisample(glfn.RENDERBUFFER, int32(samples), internal, int32(size.Width), int32(size.Height))
		} else {
			glfn.RenderbufferStorage(glfn.RENDERBUFFER, internal, int32(size.Width), int32(size.Height))
		}
		glfn.BindRenderbuffer(glfn.RENDERBUFFER, 0)
		return &image{pf: pf, size: size, layers: 1, levels: 1, samples: samples, usg: usg, rb: rb}, nil
	}

	if levels <= 0 {
		levels = 1
	}
	target := uint32(glfn.TEXTURE_2D)
	switch {
	case samples > 1:
		if layers > 1 {
			target = glfn.TEXTURE_2D_MULTISAMPLE_ARRAY
		} else {
			target = glfn.TEXTURE_2D_MULTISAMPLE
		}
	case size.Depth > 1:
		target = glfn.TEXTURE_3D
	case layers > 1:
		target = glfn.TEXTURE_2D_ARRAY
	}

	var tex uint32
	glfn.GenTextures(1, &tex)
	glfn.BindTexture(target, tex)

	switch target {
	case glfn.TEXTURE_2D_MULTISAMPLE:
		glfn.TexImage2DMultisample(target, int32(samples), internal, int32(size.Width), int32(size.Height), true)
	case glfn.TEXTURE_2D_MULTISAMPLE_ARRAY:
		glfn.TexImage3DMultisample(target, int32(samples), internal, int32(size.Width), int32(size.Height), int32(layers), true)
	case glfn.TEXTURE_3D:
		glfn.TexStorage3D(target, int32(levels), internal, int32(size.Width), int32(size.Height), int32(size.Depth))
	case glfn.TEXTURE_2D_ARRAY:
		glfn.TexStorage3D(target, int32(levels), internal, int32(size.Width), int32(size.Height), int32(layers))
	default:
		glfn.TexStorage2D(target, int32(levels), internal, int32(size.Width), int32(size.Height))
	}
	glfn.BindTexture(target, 0)

	l := layers
	if l < 1 {
		l = 1
	}
	return &image{pf: pf, size: size, layers: l, levels: levels, samples: samples, usg: usg, tex: tex, target: target}, nil
}

// NewView creates an image view. Rather than allocating a second
// texture object via glTextureView, a view here is metadata only: the
// subresource range it names is resolved by the render-target/
// bind-group code that consumes it (glFramebufferTextureLayer for
// attachments, glBindImageTexture's level/layer params for storage
// images, whole-texture sampling for shader reads).
func (im *image) NewView(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	return &imageView{img: im, typ: typ, layer: layer, layers: layers, level: level, levels: levels}, nil
}

// Destroy deletes the underlying texture or renderbuffer.
func (im *image) Destroy() {
	if im.tex != 0 {
		glfn.DeleteTextures(1, &im.tex)
	}
	if im.rb != 0 {
		glfn.DeleteRenderbuffers(1, &im.rb)
	}
}

// imageView implements driver.ImageView.
type imageView struct {
	img    *image
	typ    driver.ViewType
	layer  int
	layers int
	level  int
	levels int
}

// Destroy is a no-op: views created here do not own storage.
func (*imageView) Destroy() {}
