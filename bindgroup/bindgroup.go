// Package bindgroup implements bind-group layouts and bind groups: a
// backend-neutral description of the resources a set of shader stages
// expects, built on driver.DescHeap/driver.DescTable, plus the
// per-backend binding-number allocation policy a shader crafter needs
// to assign `layout(binding = N)` consistently with how the bind
// group itself orders its descriptors.
//
// Grounded in driver/core.go's DescHeap/DescTable/Descriptor types and
// in spec.md §4.D's binding-pool description: OpenGL exposes four
// independent binding namespaces (uniform buffers, storage buffers,
// texture units, image units) while Vulkan shares one namespace per
// descriptor set. original_source/libnopegl/src/ngpu/opengl confirms
// the four-counter split; libnopegl/src/ngpu/vulkan confirms the
// single shared counter.
package bindgroup

import (
	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/gpuerr"
)

// Entry describes one binding slot in a Layout.
type Entry struct {
	Type   driver.DescType
	Stages driver.Stage
	// Count is the number of array elements this binding occupies
	// (1 for a non-array binding).
	Count int
}

// Layout is an ordered list of Entry, the bind-group analog of
// driver.DescHeap's descriptor list, plus the resolved binding number
// for each entry under a given BindingPolicy.
type Layout struct {
	Entries  []Entry
	Bindings []int // Bindings[i] is the resolved binding number of Entries[i]
}

// BindingPolicy assigns binding numbers to a Layout's entries. GL and
// Vulkan diverge here: GL counts bindings separately per descriptor
// class (buffer vs. image vs. sampler), Vulkan counts them in one
// shared, monotonically increasing namespace.
type BindingPolicy int

const (
	// PolicyShared assigns one monotonically increasing binding
	// number across all descriptor types (Vulkan descriptor sets).
	PolicyShared BindingPolicy = iota
	// PolicySplit assigns independent counters per descriptor
	// class: uniform buffers (DConstant), storage buffers
	// (DBuffer), textures (DTexture), images (DImage); samplers
	// (DSampler) share the texture counter, matching GLSL's
	// combined sampler model.
	PolicySplit
)

// NewLayout computes binding numbers for entries under policy.
func NewLayout(entries []Entry, policy BindingPolicy) (*Layout, error) {
	const op = "bindgroup.NewLayout"
	l := &Layout{Entries: entries, Bindings: make([]int, len(entries))}
	switch policy {
	case PolicyShared:
		for i := range entries {
			l.Bindings[i] = i
		}
	case PolicySplit:
		var ubo, ssbo, tex, img int
		for i, e := range entries {
			switch e.Type {
			case driver.DConstant:
				l.Bindings[i] = ubo
				ubo++
			case driver.DBuffer:
				l.Bindings[i] = ssbo
				ssbo++
			case driver.DTexture, driver.DSampler:
				l.Bindings[i] = tex
				tex++
			case driver.DImage:
				l.Bindings[i] = img
				img++
			default:
				return nil, gpuerr.New(op, gpuerr.InvalidArg, "unknown descriptor type")
			}
		}
	default:
		return nil, gpuerr.New(op, gpuerr.InvalidArg, "unknown binding policy")
	}
	return l, nil
}

// Descriptors converts the Layout's entries into the driver.Descriptor
// slice expected by driver.GPU.NewDescHeap, preserving entry order (so
// the index-based Bindings mapping stays valid against heap copies).
func (l *Layout) Descriptors() []driver.Descriptor {
	ds := make([]driver.Descriptor, len(l.Entries))
	for i, e := range l.Entries {
		ds[i] = driver.Descriptor{Type: e.Type, Stages: e.Stages, Nr: i, Len: e.Count}
	}
	return ds
}

// Group is a bind group: a Layout paired with the driver.DescHeap that
// backs its storage and the driver.DescTable binding it to a pipeline.
type Group struct {
	Layout *Layout
	Heap   driver.DescHeap
	Table  driver.DescTable
}

// New creates the driver.DescHeap for layout (with room for one copy
// per in-flight frame) and the driver.DescTable binding it.
func New(drv driver.GPU, layout *Layout, framesInFlight int) (*Group, error) {
	const op = "bindgroup.New"
	if framesInFlight < 1 {
		framesInFlight = 1
	}
	heap, err := drv.NewDescHeap(layout.Descriptors())
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "NewDescHeap failed", err)
	}
	if err := heap.New(framesInFlight); err != nil {
		heap.Destroy()
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "DescHeap.New failed", err)
	}
	table, err := drv.NewDescTable([]driver.DescHeap{heap})
	if err != nil {
		heap.Destroy()
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "NewDescTable failed", err)
	}
	return &Group{Layout: layout, Heap: heap, Table: table}, nil
}

// Destroy releases the bind group's descriptor table and heap.
func (g *Group) Destroy() {
	g.Table.Destroy()
	g.Heap.Destroy()
}

// BarrierMask derives the driver.Access bits a bind group's resources
// require before a draw/dispatch that reads them, from the descriptor
// types it contains; spec.md §4.D calls this "a union of the access
// masks implied by each bound descriptor's type and declared stage".
func (l *Layout) BarrierMask() driver.Access {
	var a driver.Access
	for _, e := range l.Entries {
		switch e.Type {
		case driver.DConstant:
			a |= driver.AShaderRead
		case driver.DBuffer, driver.DImage:
			a |= driver.AShaderRead | driver.AShaderWrite
		case driver.DTexture, driver.DSampler:
			a |= driver.AShaderRead
		}
	}
	return a
}
