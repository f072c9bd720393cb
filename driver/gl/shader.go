package gl

import (
	"github.com/nopeforge/ngpu/driver"
)

// shaderCode implements driver.ShaderCode as raw GLSL source text.
// Unlike driver/vk's SPIR-V modules, GL shader objects are stage-bound
// at creation time, so compilation is deferred to NewPipeline, where
// the GraphState/CompState field a given ShaderCode is attached to
// determines its stage.
type shaderCode struct {
	src []byte
}

// NewShaderCode stores data as GLSL source, to be compiled once its
// stage is known.
func (d *Driver) NewShaderCode(data []byte) (driver.ShaderCode, error) {
	if len(data) == 0 {
		return nil, driver.ErrFatal
	}
	src := make([]byte, len(data))
	copy(src, data)
	return &shaderCode{src: src}, nil
}

// Destroy is a no-op: the source bytes are GC-managed, and any
// compiled GL shader object derived from them is owned and destroyed
// by the pipeline that compiled it.
func (c *shaderCode) Destroy() {}
