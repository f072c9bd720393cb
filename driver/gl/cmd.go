package gl

import (
	glfn "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/nopeforge/ngpu/driver"
)

// recordedCmd is one entry of a software command buffer: a closure
// over its call's parameters, replayed against a fresh replayState at
// Commit time. This is the "record now, replay later" strategy
// spec.md §4.H describes for the GL backend, standing in for the
// cgo Vulkan backend's native VkCommandBuffer recording.
type recordedCmd func(rs *replayState)

// replayState is the GL-side equivalent of the state a real command
// buffer would track natively (bound pipeline, vertex/index buffers,
// descriptor tables, current pass). It is reinitialized at the start
// of every replay so that resubmitting the same cmdBuffer behaves the
// same way each time.
type replayState struct {
	d *Driver

	pipeline *pipeline

	vertBufs []driver.Buffer
	vertOffs []int64

	indexBuf driver.Buffer
	indexOff int64
	indexFmt driver.IndexFmt

	graphTable    *descTable
	graphStart    int
	graphHeapCopy []int

	compTable    *descTable
	compStart    int
	compHeapCopy []int

	pass    *renderPass
	fb      *framebuf
	subpass int
	clear   []driver.ClearValue

	viewport []driver.Viewport
	scissor  []driver.Scissor

	blendR, blendG, blendB, blendA float32
	stencilRef                     uint32
}

// cmdBuffer implements driver.CmdBuffer as a list of recordedCmd.
type cmdBuffer struct {
	d         *Driver
	recording bool
	cmds      []recordedCmd
}

// NewCmdBuffer creates a new command buffer.
func (d *Driver) NewCmdBuffer() (driver.CmdBuffer, error) {
	return &cmdBuffer{d: d}, nil
}

// Commit replays each command buffer's recorded commands against the
// context current on the calling thread, in order. Unlike a real
// queue submission, this happens synchronously: the GL calls this
// core issues serialize on the bound context regardless, so there is
// no asynchronous completion to wait for, and ch is signaled before
// Commit returns.
func (d *Driver) Commit(cb []driver.CmdBuffer, ch chan<- error) {
	for _, c := range cb {
		buf := c.(*cmdBuffer)
		rs := &replayState{d: d}
		for _, f := range buf.cmds {
			f(rs)
		}
	}
	if ch != nil {
		ch <- nil
	}
}

func (cb *cmdBuffer) record(f recordedCmd) { cb.cmds = append(cb.cmds, f) }

// Begin prepares the command buffer for recording.
func (cb *cmdBuffer) Begin() error {
	cb.cmds = cb.cmds[:0]
	cb.recording = true
	return nil
}

// End ends command recording.
func (cb *cmdBuffer) End() error {
	cb.recording = false
	return nil
}

// Reset discards all recorded commands.
func (cb *cmdBuffer) Reset() error {
	cb.cmds = nil
	cb.recording = false
	return nil
}

// Destroy releases the command buffer. GL owns no native object for
// it, so this just drops the recorded command list.
func (cb *cmdBuffer) Destroy() { cb.cmds = nil }

// BeginPass begins the first subpass of pass, binding fb and clearing
// attachments whose load op is LClear.
func (cb *cmdBuffer) BeginPass(pass driver.RenderPass, fb driver.Framebuf, clear []driver.ClearValue) {
	rp := pass.(*renderPass)
	f := fb.(*framebuf)
	cl := append([]driver.ClearValue(nil), clear...)
	cb.record(func(rs *replayState) {
		rs.pass, rs.fb, rs.subpass, rs.clear = rp, f, 0, cl
		rs.d.glstate.bindFramebuffer(f.fbo)
		if len(rp.sub) > 0 {
			bufs := drawBuffersFor(rp.sub[0])
			glfn.DrawBuffers(int32(len(bufs)), &bufs[0])
			clearPass(rp, rp.sub[0], cl)
		}
	})
}

// NextSubpass ends the current subpass and begins the next one.
func (cb *cmdBuffer) NextSubpass() {
	cb.record(func(rs *replayState) {
		invalidatePass(rs.pass, rs.pass.sub[rs.subpass])
		rs.subpass++
		sub := rs.pass.sub[rs.subpass]
		bufs := drawBuffersFor(sub)
		glfn.DrawBuffers(int32(len(bufs)), &bufs[0])
		clearPass(rs.pass, sub, rs.clear)
	})
}

// EndPass ends the current render pass.
func (cb *cmdBuffer) EndPass() {
	cb.record(func(rs *replayState) {
		invalidatePass(rs.pass, rs.pass.sub[rs.subpass])
		rs.pass, rs.fb = nil, nil
	})
}

// BeginWork begins compute work. wait is a no-op here: GL serializes
// commands issued on a single context in submission order already.
func (cb *cmdBuffer) BeginWork(wait bool) {}

// EndWork ends the current compute work.
func (cb *cmdBuffer) EndWork() {}

// BeginBlit begins data transfer.
func (cb *cmdBuffer) BeginBlit(wait bool) {}

// EndBlit ends the current data transfer.
func (cb *cmdBuffer) EndBlit() {}

// SetPipeline sets the pipeline and binds its program.
func (cb *cmdBuffer) SetPipeline(pl driver.Pipeline) {
	p := pl.(*pipeline)
	cb.record(func(rs *replayState) {
		rs.pipeline = p
		rs.d.glstate.bindProgram(p.program)
		if !p.compute {
			rs.d.glstate.applyRaster(p.raster)
			rs.d.glstate.applyDS(p.ds)
			rs.d.glstate.applyBlend(p.blend)
		}
	})
}

// SetViewport sets the bounds of one or more viewports. GL 4.3 core
// has a single viewport/scissor (ARB_viewport_array is not assumed),
// so only vp[0] is applied.
func (cb *cmdBuffer) SetViewport(vp []driver.Viewport) {
	v := append([]driver.Viewport(nil), vp...)
	cb.record(func(rs *replayState) {
		rs.viewport = v
		if len(v) > 0 {
			glfn.Viewport(int32(v[0].X), int32(v[0].Y), int32(v[0].Width), int32(v[0].Height))
			glfn.DepthRangef(v[0].Znear, v[0].Zfar)
		}
	})
}

// SetScissor sets the rectangles of one or more viewport scissors.
func (cb *cmdBuffer) SetScissor(sciss []driver.Scissor) {
	s := append([]driver.Scissor(nil), sciss...)
	cb.record(func(rs *replayState) {
		rs.scissor = s
		if len(s) > 0 {
			glfn.Enable(glfn.SCISSOR_TEST)
			glfn.Scissor(int32(s[0].X), int32(s[0].Y), int32(s[0].Width), int32(s[0].Height))
		} else {
			glfn.Disable(glfn.SCISSOR_TEST)
		}
	})
}

// SetBlendColor sets the constant blend color.
func (cb *cmdBuffer) SetBlendColor(r, g, b, a float32) {
	cb.record(func(rs *replayState) {
		rs.blendR, rs.blendG, rs.blendB, rs.blendA = r, g, b, a
		rs.d.glstate.applyBlendColor(r, g, b, a)
	})
}

// SetStencilRef sets the stencil reference value.
func (cb *cmdBuffer) SetStencilRef(value uint32) {
	cb.record(func(rs *replayState) {
		rs.stencilRef = value
		rs.d.glstate.applyStencilRef(value)
		if rs.pipeline != nil {
			rs.d.glstate.applyDS(rs.pipeline.ds)
		}
	})
}

// SetVertexBuf sets one or more vertex buffers starting at start.
func (cb *cmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {
	bufCopy := append([]driver.Buffer(nil), buf...)
	offCopy := append([]int64(nil), off...)
	cb.record(func(rs *replayState) {
		need := start + len(bufCopy)
		if len(rs.vertBufs) < need {
			gb := make([]driver.Buffer, need)
			go_ := make([]int64, need)
			copy(gb, rs.vertBufs)
			copy(go_, rs.vertOffs)
			rs.vertBufs, rs.vertOffs = gb, go_
		}
		copy(rs.vertBufs[start:], bufCopy)
		copy(rs.vertOffs[start:], offCopy)
	})
}

// SetIndexBuf sets the index buffer.
func (cb *cmdBuffer) SetIndexBuf(format driver.IndexFmt, buf driver.Buffer, off int64) {
	cb.record(func(rs *replayState) {
		rs.indexFmt, rs.indexBuf, rs.indexOff = format, buf, off
	})
}

// SetDescTableGraph sets a descriptor table range for graphics
// pipelines.
func (cb *cmdBuffer) SetDescTableGraph(table driver.DescTable, start int, heapCopy []int) {
	t, _ := table.(*descTable)
	hc := append([]int(nil), heapCopy...)
	cb.record(func(rs *replayState) {
		rs.graphTable, rs.graphStart, rs.graphHeapCopy = t, start, hc
	})
}

// SetDescTableComp sets a descriptor table range for compute
// pipelines.
func (cb *cmdBuffer) SetDescTableComp(table driver.DescTable, start int, heapCopy []int) {
	t, _ := table.(*descTable)
	hc := append([]int(nil), heapCopy...)
	cb.record(func(rs *replayState) {
		rs.compTable, rs.compStart, rs.compHeapCopy = t, start, hc
	})
}

// bindVertexState issues glBindBuffer+glVertexAttribPointer for every
// vertex input of rs.pipeline, using rs.vertBufs[i] as the buffer
// bound at binding i. Per driver.VertexIn's doc comment, each input is
// its own buffer binding (no interleaving), so binding index i always
// matches the order of rs.pipeline.input.
func bindVertexState(rs *replayState) {
	for i, in := range rs.pipeline.input {
		if i >= len(rs.vertBufs) || rs.vertBufs[i] == nil {
			continue
		}
		b := rs.vertBufs[i].(*buffer)
		glfn.BindBuffer(glfn.ARRAY_BUFFER, b.name)
		size, typ, normalized, integer := vertexFmtInfo(in.Format)
		loc := uint32(in.Nr)
		glfn.EnableVertexAttribArray(loc)
		if integer {
			glfn.VertexAttribIPointer(loc, size, typ, int32(in.Stride), glfn.PtrOffset(int(rs.vertOffs[i])))
		} else {
			glfn.VertexAttribPointer(loc, size, typ, normalized, int32(in.Stride), glfn.PtrOffset(int(rs.vertOffs[i])))
		}
	}
	glfn.BindBuffer(glfn.ARRAY_BUFFER, 0)
	if rs.graphTable != nil {
		bindTable(rs.graphTable, rs.graphStart, rs.graphHeapCopy)
	}
}

// Draw draws primitives.
func (cb *cmdBuffer) Draw(vertCount, instCount, baseVert, baseInst int) {
	cb.record(func(rs *replayState) {
		bindVertexState(rs)
		if instCount > 1 || baseInst != 0 {
			glfn.DrawArraysInstancedBaseInstance(rs.pipeline.topology, int32(baseVert), int32(vertCount), int32(instCount), uint32(baseInst))
		} else {
			glfn.DrawArrays(rs.pipeline.topology, int32(baseVert), int32(vertCount))
		}
	})
}

// DrawIndexed draws indexed primitives.
func (cb *cmdBuffer) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {
	cb.record(func(rs *replayState) {
		bindVertexState(rs)
		ib := rs.indexBuf.(*buffer)
		glfn.BindBuffer(glfn.ELEMENT_ARRAY_BUFFER, ib.name)
		typ := indexFmtType(rs.indexFmt)
		off := rs.indexOff + int64(baseIdx)*int64(rs.indexFmt)
		switch {
		case instCount > 1 && baseInst != 0:
			glfn.DrawElementsInstancedBaseVertexBaseInstance(rs.pipeline.topology, int32(idxCount), typ, glfn.PtrOffset(int(off)), int32(instCount), int32(vertOff), uint32(baseInst))
		case instCount > 1:
			glfn.DrawElementsInstancedBaseVertex(rs.pipeline.topology, int32(idxCount), typ, glfn.PtrOffset(int(off)), int32(instCount), int32(vertOff))
		default:
			glfn.DrawElementsBaseVertex(rs.pipeline.topology, int32(idxCount), typ, glfn.PtrOffset(int(off)), int32(vertOff))
		}
	})
}

// Dispatch dispatches compute thread groups.
func (cb *cmdBuffer) Dispatch(grpCountX, grpCountY, grpCountZ int) {
	cb.record(func(rs *replayState) {
		if rs.compTable != nil {
			bindTable(rs.compTable, rs.compStart, rs.compHeapCopy)
		}
		glfn.DispatchCompute(uint32(grpCountX), uint32(grpCountY), uint32(grpCountZ))
		glfn.MemoryBarrier(glfn.ALL_BARRIER_BITS)
	})
}

// CopyBuffer copies data between buffers.
func (cb *cmdBuffer) CopyBuffer(param *driver.BufferCopy) {
	p := *param
	cb.record(func(rs *replayState) {
		from, to := p.From.(*buffer), p.To.(*buffer)
		glfn.BindBuffer(glfn.COPY_READ_BUFFER, from.name)
		glfn.BindBuffer(glfn.COPY_WRITE_BUFFER, to.name)
		glfn.CopyBufferSubData(glfn.COPY_READ_BUFFER, glfn.COPY_WRITE_BUFFER, int(p.FromOff), int(p.ToOff), int(p.Size))
	})
}

// CopyImage copies data between images.
func (cb *cmdBuffer) CopyImage(param *driver.ImageCopy) {
	p := *param
	cb.record(func(rs *replayState) {
		from, to := p.From.(*image), p.To.(*image)
		glfn.CopyImageSubData(
			from.tex, from.target, int32(p.FromLevel), int32(p.FromOff.X), int32(p.FromOff.Y), int32(p.FromLayer+p.FromOff.Z),
			to.tex, to.target, int32(p.ToLevel), int32(p.ToOff.X), int32(p.ToOff.Y), int32(p.ToLayer+p.ToOff.Z),
			int32(p.Size.Width), int32(p.Size.Height), int32(max1(p.Layers)))
	})
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// CopyBufToImg copies data from a buffer to an image.
func (cb *cmdBuffer) CopyBufToImg(param *driver.BufImgCopy) {
	p := *param
	cb.record(func(rs *replayState) {
		im := p.Img.(*image)
		_, extFormat, typ := glFormat(im.pf)
		glfn.BindBuffer(glfn.PIXEL_UNPACK_BUFFER, p.Buf.(*buffer).name)
		glfn.BindTexture(im.target, im.tex)
		glfn.PixelStorei(glfn.UNPACK_ROW_LENGTH, int32(p.Stride[0]))
		glfn.PixelStorei(glfn.UNPACK_IMAGE_HEIGHT, int32(p.Stride[1]))
		switch im.target {
		case glfn.TEXTURE_3D, glfn.TEXTURE_2D_ARRAY:
			glfn.TexSubImage3D(im.target, int32(p.Level), int32(p.ImgOff.X), int32(p.ImgOff.Y), int32(p.Layer+p.ImgOff.Z),
				int32(p.Size.Width), int32(p.Size.Height), int32(max1(p.Size.Depth)), extFormat, typ, glfn.PtrOffset(int(p.BufOff)))
		default:
			glfn.TexSubImage2D(im.target, int32(p.Level), int32(p.ImgOff.X), int32(p.ImgOff.Y),
				int32(p.Size.Width), int32(p.Size.Height), extFormat, typ, glfn.PtrOffset(int(p.BufOff)))
		}
		glfn.PixelStorei(glfn.UNPACK_ROW_LENGTH, 0)
		glfn.PixelStorei(glfn.UNPACK_IMAGE_HEIGHT, 0)
		glfn.BindBuffer(glfn.PIXEL_UNPACK_BUFFER, 0)
	})
}

// CopyImgToBuf copies data from an image to a buffer.
func (cb *cmdBuffer) CopyImgToBuf(param *driver.BufImgCopy) {
	p := *param
	cb.record(func(rs *replayState) {
		im := p.Img.(*image)
		_, extFormat, typ := glFormat(im.pf)
		var fbo uint32
		glfn.GenFramebuffers(1, &fbo)
		glfn.BindFramebuffer(glfn.READ_FRAMEBUFFER, fbo)
		glfn.FramebufferTextureLayer(glfn.READ_FRAMEBUFFER, glfn.COLOR_ATTACHMENT0, im.tex, int32(p.Level), int32(p.Layer))
		glfn.BindBuffer(glfn.PIXEL_PACK_BUFFER, p.Buf.(*buffer).name)
		glfn.ReadPixels(int32(p.ImgOff.X), int32(p.ImgOff.Y), int32(p.Size.Width), int32(p.Size.Height), extFormat, typ, glfn.PtrOffset(int(p.BufOff)))
		glfn.BindBuffer(glfn.PIXEL_PACK_BUFFER, 0)
		glfn.BindFramebuffer(glfn.READ_FRAMEBUFFER, 0)
		glfn.DeleteFramebuffers(1, &fbo)
	})
}

// Fill fills a buffer range with copies of value.
func (cb *cmdBuffer) Fill(buf driver.Buffer, off int64, value byte, size int64) {
	cb.record(func(rs *replayState) {
		b := buf.(*buffer)
		glfn.BindBuffer(glfn.COPY_WRITE_BUFFER, b.name)
		v := [4]byte{value, value, value, value}
		glfn.ClearBufferSubData(glfn.COPY_WRITE_BUFFER, glfn.R8UI, int(off), int(size), glfn.RED_INTEGER, glfn.UNSIGNED_BYTE, glfn.Ptr(&v[0]))
	})
}

// Barrier inserts a number of global barriers.
func (cb *cmdBuffer) Barrier(b []driver.Barrier) {
	cb.record(func(rs *replayState) {
		var bits uint32
		for _, bar := range b {
			if bar.AccessBefore&(driver.AShaderRead|driver.AShaderWrite) != 0 || bar.AccessAfter&(driver.AShaderRead|driver.AShaderWrite) != 0 {
				bits |= glfn.SHADER_STORAGE_BARRIER_BIT | glfn.SHADER_IMAGE_ACCESS_BARRIER_BIT
			}
			if bar.AccessBefore&(driver.AVertexBufRead|driver.AIndexBufRead) != 0 {
				bits |= glfn.VERTEX_ATTRIB_ARRAY_BARRIER_BIT | glfn.ELEMENT_ARRAY_BARRIER_BIT
			}
			if bar.AccessBefore&(driver.AColorWrite|driver.ADSWrite) != 0 {
				bits |= glfn.FRAMEBUFFER_BARRIER_BIT
			}
			if bar.AccessBefore&(driver.ACopyRead|driver.ACopyWrite) != 0 {
				bits |= glfn.BUFFER_UPDATE_BARRIER_BIT | glfn.TEXTURE_UPDATE_BARRIER_BIT
			}
		}
		if bits != 0 {
			glfn.MemoryBarrier(bits)
		}
		if rs.d.workaroundRadeonsiSync() {
			glfn.Finish()
		}
	})
}

// Transition inserts a number of image layout transitions. GL has no
// explicit layout concept, so this is a synchronization point only:
// every transition implies the same shader/framebuffer barrier bits
// as Barrier.
func (cb *cmdBuffer) Transition(t []driver.Transition) {
	b := make([]driver.Barrier, len(t))
	for i := range t {
		b[i] = t[i].Barrier
	}
	cb.Barrier(b)
}
