// Package pipeline builds driver.Pipeline objects from the higher-
// level program/rendertarget/bindgroup wrappers, and diffs two
// graphics states to decide whether a new driver.Pipeline must be
// created or an existing one can be reused.
//
// Grounded in driver/core.go's GraphState/CompState/Pipeline types.
package pipeline

import (
	"github.com/nopeforge/ngpu/bindgroup"
	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/gpuerr"
	"github.com/nopeforge/ngpu/program"
	"github.com/nopeforge/ngpu/rendertarget"
)

// GraphicsDesc is the caller-facing description of a graphics
// pipeline, independent of the bind group and render target it will
// be used with (those come from the Group/Target parameters of New).
type GraphicsDesc struct {
	Input    []driver.VertexIn
	Topology driver.Topology
	Raster   driver.RasterState
	Samples  int
	DS       driver.DSState
	Blend    driver.BlendState
	Subpass  int
}

// Graphics wraps a driver.Pipeline created from a GraphicsDesc, the
// program that fed its shader stages, and the GraphState used to
// create it (retained so Equivalent can diff without recomputation).
type Graphics struct {
	driver.Pipeline
	state driver.GraphState
}

// NewGraphics creates a graphics pipeline from prog/desc bound against
// group's descriptor table and rendering into target.
func NewGraphics(drv driver.GPU, prog *program.Graphics, desc GraphicsDesc, group *bindgroup.Group, target *rendertarget.Target) (*Graphics, error) {
	const op = "pipeline.NewGraphics"
	state := driver.GraphState{
		VertFunc: prog.Vert,
		FragFunc: prog.Frag,
		Desc:     group.Table,
		Input:    desc.Input,
		Topology: desc.Topology,
		Raster:   desc.Raster,
		Samples:  desc.Samples,
		DS:       desc.DS,
		Blend:    desc.Blend,
		Pass:     target.Pass,
		Subpass:  desc.Subpass,
	}
	pl, err := drv.NewPipeline(&state)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "driver.NewPipeline failed", err)
	}
	return &Graphics{Pipeline: pl, state: state}, nil
}

// Equivalent reports whether other would produce byte-identical
// driver.GraphState to g's, i.e. whether a fresh driver.Pipeline
// object is actually needed. Shader funcs and descriptor tables are
// compared by identity (pointer/interface equality), everything else
// by value.
func (g *Graphics) Equivalent(other driver.GraphState) bool {
	a, b := g.state, other
	if a.VertFunc.Code != b.VertFunc.Code || a.FragFunc.Code != b.FragFunc.Code {
		return false
	}
	if a.Desc != b.Desc || a.Pass != b.Pass || a.Subpass != b.Subpass {
		return false
	}
	if a.Topology != b.Topology || a.Samples != b.Samples {
		return false
	}
	if a.Raster != b.Raster || a.DS != b.DS {
		return false
	}
	if len(a.Input) != len(b.Input) {
		return false
	}
	for i := range a.Input {
		if a.Input[i] != b.Input[i] {
			return false
		}
	}
	if a.Blend.IndependentBlend != b.Blend.IndependentBlend || len(a.Blend.Color) != len(b.Blend.Color) {
		return false
	}
	for i := range a.Blend.Color {
		if a.Blend.Color[i] != b.Blend.Color[i] {
			return false
		}
	}
	return true
}

// Compute wraps a driver.Pipeline created from a compute program.
type Compute struct {
	driver.Pipeline
}

// NewCompute creates a compute pipeline from prog bound against
// group's descriptor table.
func NewCompute(drv driver.GPU, prog *program.Compute, group *bindgroup.Group) (*Compute, error) {
	const op = "pipeline.NewCompute"
	state := driver.CompState{Func: prog.Func, Desc: group.Table}
	pl, err := drv.NewPipeline(&state)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "driver.NewPipeline failed", err)
	}
	return &Compute{Pipeline: pl}, nil
}
