package gl

import (
	glfn "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/nopeforge/ngpu/driver"
)

// sampler implements driver.Sampler as a GL sampler object, decoupled
// from any particular texture per core GL's sampler-object model.
type sampler struct {
	name uint32
}

// NewSampler creates a new sampler object from spln.
func (d *Driver) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	var name uint32
	glfn.GenSamplers(1, &name)
	glfn.SamplerParameteri(name, glfn.TEXTURE_MIN_FILTER, int32(minFilterMode(spln.Min, spln.Mipmap)))
	glfn.SamplerParameteri(name, glfn.TEXTURE_MAG_FILTER, int32(filterMode(spln.Mag)))
	glfn.SamplerParameteri(name, glfn.TEXTURE_WRAP_S, addrMode(spln.AddrU))
	glfn.SamplerParameteri(name, glfn.TEXTURE_WRAP_T, addrMode(spln.AddrV))
	glfn.SamplerParameteri(name, glfn.TEXTURE_WRAP_R, addrMode(spln.AddrW))
	glfn.SamplerParameterf(name, glfn.TEXTURE_MIN_LOD, spln.MinLOD)
	glfn.SamplerParameterf(name, glfn.TEXTURE_MAX_LOD, spln.MaxLOD)
	if spln.MaxAniso > 1 {
		glfn.SamplerParameterf(name, glfn.TEXTURE_MAX_ANISOTROPY, float32(spln.MaxAniso))
	}
	glfn.SamplerParameteri(name, glfn.TEXTURE_COMPARE_FUNC, int32(cmpFunc(spln.Cmp)))
	return &sampler{name: name}, nil
}

// Destroy deletes the underlying GL sampler object.
func (s *sampler) Destroy() {
	glfn.DeleteSamplers(1, &s.name)
}
