package gl

import (
	"fmt"
	"strings"

	glfn "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/internal/logx"
)

const driverName = "opengl"

// Driver implements driver.Driver and driver.GPU. Like driver/vk's
// Driver, a single struct plays both roles: Open returns the same
// value it is called on.
type Driver struct {
	open bool
	lim  driver.Limits

	// exts is the set of probed GL extension strings, consulted by
	// the device-workaround checks in pass.go (spec.md §4.D,
	// workaround_radeonsi_sync).
	exts map[string]bool
	// vendor/renderer back the same workaround probing.
	vendor, renderer string

	glstate glState
}

func init() {
	driver.Register(&Driver{})
}

// Name returns "opengl".
func (d *Driver) Name() string { return driverName }

// Open initializes GL function pointers against the context current
// on the calling thread and probes capabilities. A context must
// already be current (spec.md Non-goals: this core never creates a
// window or native context itself).
func (d *Driver) Open() (driver.GPU, error) {
	if d.open {
		return d, nil
	}
	if err := glfn.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", driver.ErrFatal, err)
	}
	ver := glfn.GoStr(glfn.GetString(glfn.VERSION))
	logx.Logf(logx.Info, "gl: opened context, GL_VERSION=%q", ver)

	d.vendor = glfn.GoStr(glfn.GetString(glfn.VENDOR))
	d.renderer = glfn.GoStr(glfn.GetString(glfn.RENDERER))

	var next int32
	glfn.GetIntegerv(glfn.NUM_EXTENSIONS, &next)
	d.exts = make(map[string]bool, next)
	for i := int32(0); i < next; i++ {
		d.exts[glfn.GoStr(glfn.GetStringi(glfn.EXTENSIONS, uint32(i)))] = true
	}

	d.probeLimits()
	d.glstate = newGLState()
	d.open = true
	return d, nil
}

// Close deinitializes the driver. It does not destroy the native GL
// context, which this core never created.
func (d *Driver) Close() { d.open = false }

func (d *Driver) hasExt(name string) bool { return d.exts[name] }

// workaroundRadeonsiSync reports whether spec.md §4.D/§9's
// radeonsi-specific pre-draw framebuffer barrier should be applied,
// probed from the GL_RENDERER string the way the original
// implementation's ctx_gl.c workaround table does.
func (d *Driver) workaroundRadeonsiSync() bool {
	return strings.Contains(strings.ToLower(d.renderer), "radeonsi")
}

func (d *Driver) probeLimits() {
	getInt := func(name uint32) int {
		var v int32
		glfn.GetIntegerv(name, &v)
		return int(v)
	}
	var pointRange [2]float32
	glfn.GetFloatv(glfn.ALIASED_POINT_SIZE_RANGE, &pointRange[0])
	getIntIdx := func(name uint32, idx uint32) int {
		var v int32
		glfn.GetIntegeri_v(name, idx, &v)
		return int(v)
	}

	d.lim = driver.Limits{
		MaxImage1D:        getInt(glfn.MAX_TEXTURE_SIZE),
		MaxImage2D:        getInt(glfn.MAX_TEXTURE_SIZE),
		MaxImageCube:      getInt(glfn.MAX_CUBE_MAP_TEXTURE_SIZE),
		MaxImage3D:        getInt(glfn.MAX_3D_TEXTURE_SIZE),
		MaxLayers:         getInt(glfn.MAX_ARRAY_TEXTURE_LAYERS),
		MaxDescHeaps:      4, // GL's four independent binding pools (UBO/SSBO/texture/image), spec.md §4.D
		MaxDBuffer:        getInt(glfn.MAX_SHADER_STORAGE_BUFFER_BINDINGS),
		MaxDImage:         getInt(glfn.MAX_IMAGE_UNITS),
		MaxDConstant:      getInt(glfn.MAX_UNIFORM_BUFFER_BINDINGS),
		MaxDTexture:       getInt(glfn.MAX_COMBINED_TEXTURE_IMAGE_UNITS),
		MaxDSampler:       getInt(glfn.MAX_COMBINED_TEXTURE_IMAGE_UNITS),
		MaxDBufferRange:   int64(getInt(glfn.MAX_SHADER_STORAGE_BLOCK_SIZE)),
		MaxDConstantRange: int64(getInt(glfn.MAX_UNIFORM_BLOCK_SIZE)),
		MaxColorTargets:   min(getInt(glfn.MAX_COLOR_ATTACHMENTS), 8),
		MaxFBSize:         [2]int{getInt(glfn.MAX_TEXTURE_SIZE), getInt(glfn.MAX_TEXTURE_SIZE)},
		MaxFBLayers:        getInt(glfn.MAX_FRAMEBUFFER_LAYERS),
		MaxPointSize:      pointRange[1],
		MaxViewports:      1,
		MaxVertexIn:       getInt(glfn.MAX_VERTEX_ATTRIBS),
		MaxFragmentIn:     getInt(glfn.MAX_FRAGMENT_INPUT_COMPONENTS) / 4,
		MaxDispatch: [3]int{
			getIntIdx(glfn.MAX_COMPUTE_WORK_GROUP_COUNT, 0),
			getIntIdx(glfn.MAX_COMPUTE_WORK_GROUP_COUNT, 1),
			getIntIdx(glfn.MAX_COMPUTE_WORK_GROUP_COUNT, 2),
		},
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Limits returns the implementation limits probed at Open.
func (d *Driver) Limits() driver.Limits { return d.lim }

// Driver returns d itself, per driver.GPU.Driver.
func (d *Driver) Driver() driver.Driver { return d }
