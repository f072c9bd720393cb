package pgcraft

import "fmt"

// Info holds the GLSL capability facts the crafter derives once at
// construction from a (Backend, version) pair, per spec.md §4.J's
// "GLSL info discovery" list.
type Info struct {
	Backend Backend
	Version int // e.g. 310, 420, 460

	// VersionSuffix is " es" for GLES, "" otherwise.
	VersionSuffix string
	// VertexIndexSym/InstanceIndexSym name the built-in the target
	// exposes for the current vertex/instance index.
	VertexIndexSym   string
	InstanceIndexSym string
	// HasInOutLayoutQualifiers: GLSL ES >= 310, GLSL >= 410, or Vulkan.
	HasInOutLayoutQualifiers bool
	// HasPrecisionQualifiers: GLES only.
	HasPrecisionQualifiers bool
	// HasExplicitBindings: GLSL ES >= 310, GLSL >= 420, the
	// GL_ARB_shading_language_420pack extension, or Vulkan.
	HasExplicitBindings bool
	// Use420PackExtension requests GL_ARB_shading_language_420pack
	// to obtain explicit bindings on desktop GL below 420.
	Use420PackExtension bool
}

// NewInfo derives an Info for backend at the given GLSL/GLSL-ES
// version (e.g. 320 for "#version 320 es", 460 for "#version 460").
func NewInfo(backend Backend, version int) Info {
	info := Info{Backend: backend, Version: version}
	switch backend {
	case BackendGLES:
		info.VersionSuffix = " es"
		info.VertexIndexSym = "gl_VertexID"
		info.InstanceIndexSym = "gl_InstanceID"
		info.HasPrecisionQualifiers = true
		info.HasInOutLayoutQualifiers = version >= 310
		info.HasExplicitBindings = version >= 310
	case BackendVulkan:
		info.VertexIndexSym = "gl_VertexIndex"
		info.InstanceIndexSym = "gl_InstanceIndex"
		info.HasInOutLayoutQualifiers = true
		info.HasExplicitBindings = true
	default: // BackendGL
		info.VertexIndexSym = "gl_VertexID"
		info.InstanceIndexSym = "gl_InstanceID"
		info.HasInOutLayoutQualifiers = version >= 410
		info.HasExplicitBindings = version >= 420
		info.Use420PackExtension = !info.HasExplicitBindings
		if info.Use420PackExtension {
			info.HasExplicitBindings = true
		}
	}
	return info
}

// VersionLine returns the "#version N[ es]" directive for this Info.
func (i Info) VersionLine() string {
	return fmt.Sprintf("#version %d%s\n", i.Version, i.VersionSuffix)
}

// Extensions returns the "#extension NAME : require" lines needed
// given whether the shader declares compute work or video textures.
func (i Info) Extensions(hasCompute, hasVideoTexture bool) []string {
	var ext []string
	if i.Use420PackExtension {
		ext = append(ext, "GL_ARB_shading_language_420pack")
	}
	if hasVideoTexture && i.Backend == BackendGLES {
		ext = append(ext, "GL_OES_EGL_image_external_essl3")
	}
	if hasCompute && i.Backend == BackendGL && i.Version < 430 {
		ext = append(ext, "GL_ARB_compute_shader")
	}
	return ext
}
