// Package cmdbuffer wraps driver.CmdBuffer with resource retention and
// a fence abstraction built on driver.GPU.Commit's completion channel,
// plus a ring of N in-flight frames so a renderer can record frame
// N+1 while frame N is still executing on the device.
//
// Grounded in driver/core.go's CmdBuffer/GPU.Commit (the channel
// passed to Commit is this package's fence primitive: Commit sends to
// it once every command buffer in the batch has finished executing)
// and in the teacher's now-removed engine/internal/ctxt update/draw
// ring-buffer pattern (nb_in_flight_frames).
package cmdbuffer

import (
	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/gpuerr"
)

// Buffer wraps a driver.CmdBuffer, retaining references to resources
// (buffers, images, samplers, descriptor heaps, ...) that must stay
// alive until the command buffer finishes executing. Call Retain for
// every Destroyer a recorded command references; Release frees them
// once the buffer's fence has signaled.
type Buffer struct {
	driver.CmdBuffer
	retained []driver.Destroyer
	fence    *Fence
}

// New wraps cb, ready for Retain/recording.
func New(cb driver.CmdBuffer) *Buffer {
	return &Buffer{CmdBuffer: cb}
}

// Retain keeps d alive until Release is called (normally by the
// owning Ring once this buffer's fence has signaled).
func (b *Buffer) Retain(d driver.Destroyer) { b.retained = append(b.retained, d) }

// Release destroys every retained resource and clears the list. It
// must only be called once the command buffer is known to have
// finished executing (i.e. after its Fence has signaled).
func (b *Buffer) Release() {
	for _, d := range b.retained {
		d.Destroy()
	}
	b.retained = b.retained[:0]
}

// Fence tracks the completion of a batch of command buffers submitted
// together via driver.GPU.Commit.
type Fence struct {
	ch     chan error
	waited bool
	err    error
}

// NewFence creates an unsignaled fence.
func NewFence() *Fence { return &Fence{ch: make(chan error, 1)} }

// Commit submits cbs as a single batch and returns a Fence that
// signals when the whole batch finishes executing.
func Commit(gpu driver.GPU, cbs []*Buffer) *Fence {
	f := NewFence()
	raw := make([]driver.CmdBuffer, len(cbs))
	for i, b := range cbs {
		raw[i] = b.CmdBuffer
		b.fence = f
	}
	gpu.Commit(raw, f.ch)
	return f
}

// Wait blocks until the fence signals, returning the execution error
// (if any) exactly once; subsequent calls return the same cached
// result without blocking again.
func (f *Fence) Wait() error {
	if f.waited {
		return f.err
	}
	f.err = <-f.ch
	f.waited = true
	return f.err
}

// Ring cycles through n in-flight Buffer slots (spec.md's
// nb_in_flight_frames), blocking in Acquire until the slot about to
// be reused has signaled its fence, then releasing its retained
// resources before handing it back for re-recording.
type Ring struct {
	slots []*Buffer
	next  int
}

// NewRing wraps the given command buffers (already created via
// driver.GPU.NewCmdBuffer) as a ring of len(cbs) in-flight slots.
func NewRing(cbs []driver.CmdBuffer) *Ring {
	slots := make([]*Buffer, len(cbs))
	for i, cb := range cbs {
		slots[i] = New(cb)
	}
	return &Ring{slots: slots}
}

// Acquire waits for the next slot's previous fence (if any) to signal,
// releases its retained resources, resets it for recording, and
// returns it. The caller must call Begin on the result.
func (r *Ring) Acquire() (*Buffer, error) {
	const op = "cmdbuffer.Ring.Acquire"
	if len(r.slots) == 0 {
		return nil, gpuerr.New(op, gpuerr.InvalidUsage, "ring has no slots")
	}
	b := r.slots[r.next]
	r.next = (r.next + 1) % len(r.slots)
	if b.fence != nil {
		if err := b.fence.Wait(); err != nil {
			return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "previous submission failed", err)
		}
		b.Release()
		b.fence = nil
	}
	if err := b.Reset(); err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.GraphicsGeneric, "CmdBuffer.Reset failed", err)
	}
	return b, nil
}

// Destroy waits on every slot's outstanding fence, releases retained
// resources, and destroys the underlying command buffers.
func (r *Ring) Destroy() {
	for _, b := range r.slots {
		if b.fence != nil {
			b.fence.Wait()
			b.Release()
		}
		b.Destroy()
	}
}
