package gl

import (
	"fmt"

	glfn "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/nopeforge/ngpu/driver"
)

// pipeline implements driver.Pipeline for both graphics and compute
// states. Unlike driver/vk's immutable pipeline state objects, a GL
// program's vertex/fragment/compute shaders are linked once here and
// the remaining fixed-function state (raster/DS/blend/topology) is
// retained for cmd.go's SetPipeline to feed into glState's diffing on
// the next draw.
type pipeline struct {
	program  uint32
	compute  bool
	input    []driver.VertexIn
	topology uint32
	raster   driver.RasterState
	samples  int
	ds       driver.DSState
	blend    driver.BlendState
}

// Destroy deletes the underlying GL program object.
func (p *pipeline) Destroy() { glfn.DeleteProgram(p.program) }

// NewPipeline creates a new pipeline from either a *driver.GraphState
// or a *driver.CompState.
func (d *Driver) NewPipeline(state any) (driver.Pipeline, error) {
	switch st := state.(type) {
	case *driver.GraphState:
		return d.newGraphicsPipeline(st)
	case *driver.CompState:
		return d.newComputePipeline(st)
	default:
		return nil, driver.ErrFatal
	}
}

func (d *Driver) newGraphicsPipeline(st *driver.GraphState) (driver.Pipeline, error) {
	vs, err := compileShader(glfn.VERTEX_SHADER, st.VertFunc.Code.(*shaderCode).src)
	if err != nil {
		return nil, err
	}
	defer glfn.DeleteShader(vs)
	fs, err := compileShader(glfn.FRAGMENT_SHADER, st.FragFunc.Code.(*shaderCode).src)
	if err != nil {
		glfn.DeleteShader(vs)
		return nil, err
	}
	defer glfn.DeleteShader(fs)

	prog := glfn.CreateProgram()
	glfn.AttachShader(prog, vs)
	glfn.AttachShader(prog, fs)
	// GLSL 330 core already allows explicit layout(location=N)
	// qualifiers, but binding the locations here too keeps linking
	// correct for shaders emitted without them (see pgcraft's
	// has_explicit_bindings switch).
	for _, in := range st.Input {
		if in.Name != "" {
			glfn.BindAttribLocation(prog, uint32(in.Nr), glfn.Str(in.Name+"\x00"))
		}
	}
	if err := linkProgram(prog); err != nil {
		glfn.DeleteProgram(prog)
		return nil, err
	}
	glfn.DetachShader(prog, vs)
	glfn.DetachShader(prog, fs)

	return &pipeline{
		program:  prog,
		input:    append([]driver.VertexIn(nil), st.Input...),
		topology: topologyMode(st.Topology),
		raster:   st.Raster,
		samples:  st.Samples,
		ds:       st.DS,
		blend:    st.Blend,
	}, nil
}

func (d *Driver) newComputePipeline(st *driver.CompState) (driver.Pipeline, error) {
	cs, err := compileShader(glfn.COMPUTE_SHADER, st.Func.Code.(*shaderCode).src)
	if err != nil {
		return nil, err
	}
	defer glfn.DeleteShader(cs)

	prog := glfn.CreateProgram()
	glfn.AttachShader(prog, cs)
	if err := linkProgram(prog); err != nil {
		glfn.DeleteProgram(prog)
		return nil, err
	}
	glfn.DetachShader(prog, cs)

	return &pipeline{program: prog, compute: true}, nil
}

func compileShader(stage uint32, src []byte) (uint32, error) {
	sh := glfn.CreateShader(stage)
	csrc, free := glfn.Strs(string(src) + "\x00")
	glfn.ShaderSource(sh, 1, csrc, nil)
	free()
	glfn.CompileShader(sh)

	var ok int32
	glfn.GetShaderiv(sh, glfn.COMPILE_STATUS, &ok)
	if ok == glfn.FALSE {
		var logLen int32
		glfn.GetShaderiv(sh, glfn.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		glfn.GetShaderInfoLog(sh, logLen, nil, &log[0])
		glfn.DeleteShader(sh)
		return 0, fmt.Errorf("%w: shader compile failed: %s", driver.ErrFatal, string(log))
	}
	return sh, nil
}

func linkProgram(prog uint32) error {
	glfn.LinkProgram(prog)
	var ok int32
	glfn.GetProgramiv(prog, glfn.LINK_STATUS, &ok)
	if ok == glfn.FALSE {
		var logLen int32
		glfn.GetProgramiv(prog, glfn.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		glfn.GetProgramInfoLog(prog, logLen, nil, &log[0])
		return fmt.Errorf("%w: program link failed: %s", driver.ErrFatal, string(log))
	}
	return nil
}
