package pgcraft

import (
	"fmt"
	"strings"

	"github.com/nopeforge/ngpu/bindgroup"
	"github.com/nopeforge/ngpu/block"
	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/gpuerr"
	"github.com/nopeforge/ngpu/program"
)

// Crafted is the result of Craft: compiled program stages, the
// bind-group layout describing every texture/block binding, and a
// symbol table resolving declared names to bind-group entry indices.
type Crafted struct {
	Graphics *program.Graphics
	Compute  *program.Compute
	Layout   *bindgroup.Layout
	Symbols  map[string]int // name -> index into Layout.Entries
}

func glslType(t block.Type) string {
	switch t {
	case block.Bool:
		return "bool"
	case block.Int:
		return "int"
	case block.IVec2:
		return "ivec2"
	case block.IVec3:
		return "ivec3"
	case block.IVec4:
		return "ivec4"
	case block.UInt:
		return "uint"
	case block.UVec2:
		return "uvec2"
	case block.UVec3:
		return "uvec3"
	case block.UVec4:
		return "uvec4"
	case block.Float:
		return "float"
	case block.Vec2:
		return "vec2"
	case block.Vec3:
		return "vec3"
	case block.Vec4:
		return "vec4"
	case block.Mat3:
		return "mat3"
	case block.Mat4:
		return "mat4"
	default:
		return "float"
	}
}

// compatUniformBlockSource synthesizes the per-stage "compat uniform
// block" every non-texture uniform is injected into, per spec.md
// §4.J: uniforms are never emitted as separate default-block
// `uniform` declarations, only as fields of this one std140 block.
func compatUniformBlockSource(stage string, binding int, uniforms []UniformDecl) string {
	if len(uniforms) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "layout(std140, binding = %d) uniform %sUniforms {\n", binding, stage)
	for _, u := range uniforms {
		t := glslType(u.Type)
		if u.Count > 0 {
			fmt.Fprintf(&b, "    %s %s[%d];\n", t, u.Name, u.Count)
		} else {
			fmt.Fprintf(&b, "    %s %s;\n", t, u.Name)
		}
	}
	b.WriteString("};\n\n")
	return b.String()
}

// blockSource synthesizes one named uniform/storage block declaration
// from its already-computed block.Desc.
func blockSource(binding int, decl BlockDecl) string {
	qualifier := "uniform"
	layoutName := "std140"
	if decl.Storage {
		qualifier = "buffer"
		layoutName = "std430"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "layout(%s, binding = %d) %s %sBlock {\n", layoutName, binding, qualifier, decl.Name)
	for _, f := range decl.Desc.Fields {
		t := glslType(f.Type)
		switch {
		case f.Count == block.Variadic:
			fmt.Fprintf(&b, "    %s %s[];\n", t, f.Name)
		case f.Count > 0:
			fmt.Fprintf(&b, "    %s %s[%d];\n", t, f.Name, f.Count)
		default:
			fmt.Fprintf(&b, "    %s %s;\n", t, f.Name)
		}
	}
	fmt.Fprintf(&b, "} %s;\n\n", decl.Name)
	return b.String()
}

// textureDeclSource synthesizes the sampler/image declaration(s) for
// one texture, including the auxiliary _sampling_mode/_color_matrix
// uniforms VIDEO textures need, restricted to the layouts the target
// backend actually supports.
func textureDeclSource(binding int, t TextureDecl, backend Backend) string {
	var b strings.Builder
	switch t.Type {
	case TexVideo:
		fmt.Fprintf(&b, "layout(binding = %d) uniform sampler2D %s;\n", binding, t.Name)
		fmt.Fprintf(&b, "uniform int %s_sampling_mode;\n", t.Name)
		fmt.Fprintf(&b, "uniform mat4 %s_color_matrix;\n", t.Name)
		fmt.Fprintf(&b, "uniform mat4 %s_coord_matrix;\n", t.Name)
		layouts := SupportedLayouts(backend)
		if supports(layouts, LayoutNV12) || supports(layouts, LayoutNV12Rectangle) {
			fmt.Fprintf(&b, "uniform sampler2D %s_1;\n", t.Name)
		}
		if supports(layouts, LayoutYUV) {
			fmt.Fprintf(&b, "uniform sampler2D %s_2;\n", t.Name)
		}
		if supports(layouts, LayoutMediacodec) {
			fmt.Fprintf(&b, "uniform samplerExternalOES %s_oes;\n", t.Name)
		}
		if supports(layouts, LayoutNV12Rectangle) || supports(layouts, LayoutRectangle) {
			fmt.Fprintf(&b, "uniform sampler2DRect %s_rect_0;\n", t.Name)
		}
		if supports(layouts, LayoutNV12Rectangle) {
			fmt.Fprintf(&b, "uniform sampler2DRect %s_rect_1;\n", t.Name)
		}
	case TexCube:
		fmt.Fprintf(&b, "layout(binding = %d) uniform samplerCube %s;\n", binding, t.Name)
	case Tex2DArray:
		fmt.Fprintf(&b, "layout(binding = %d) uniform sampler2DArray %s;\n", binding, t.Name)
	case Tex3D:
		fmt.Fprintf(&b, "layout(binding = %d) uniform sampler3D %s;\n", binding, t.Name)
	default:
		fmt.Fprintf(&b, "layout(binding = %d) uniform sampler2D %s;\n", binding, t.Name)
	}
	return b.String()
}

func attributeSource(info Info, attrs []Attribute) string {
	var b strings.Builder
	loc := 0
	for _, a := range attrs {
		if info.HasInOutLayoutQualifiers {
			fmt.Fprintf(&b, "layout(location = %d) in %s %s;\n", loc, a.Format, a.Name)
		} else {
			fmt.Fprintf(&b, "in %s %s;\n", a.Format, a.Name)
		}
		loc += a.Locations()
	}
	return b.String()
}

func iovarSource(info Info, iovars []IOVar, qualifier string) string {
	var b strings.Builder
	for i, v := range iovars {
		flat := ""
		if v.Flat {
			flat = "flat "
		}
		if info.HasInOutLayoutQualifiers {
			fmt.Fprintf(&b, "layout(location = %d) %s%s %s %s;\n", i, flat, qualifier, v.Type, v.Name)
		} else {
			fmt.Fprintf(&b, "%s%s %s %s;\n", flat, qualifier, v.Type, v.Name)
		}
	}
	return b.String()
}

// buildLayout assembles the bind-group Layout for every declared
// texture and block, recording each entry's resolved name in syms.
func buildLayout(p Params) (*bindgroup.Layout, map[string]int, error) {
	var entries []bindgroup.Entry
	syms := make(map[string]int)
	for _, t := range p.Textures {
		syms[t.Name] = len(entries)
		entries = append(entries, bindgroup.Entry{Type: driver.DTexture, Stages: driver.SFragment, Count: 1})
	}
	for _, blk := range p.Blocks {
		dty := driver.DConstant
		if blk.Storage {
			dty = driver.DBuffer
		}
		syms[blk.Name] = len(entries)
		entries = append(entries, bindgroup.Entry{Type: dty, Stages: driver.SVertex | driver.SFragment | driver.SCompute, Count: 1})
	}
	policy := bindgroup.PolicyShared
	if p.Info.Backend != BackendVulkan {
		policy = bindgroup.PolicySplit
	}
	layout, err := bindgroup.NewLayout(entries, policy)
	if err != nil {
		return nil, nil, err
	}
	return layout, syms, nil
}

func backendName(b Backend) string {
	switch b {
	case BackendVulkan:
		return "vulkan"
	case BackendGLES:
		return "es"
	default:
		return "gl"
	}
}

// synthesizeStage assembles one complete stage source: version line,
// extensions, iovars, compat uniform block, texture declarations,
// block declarations, attributes (vertex only), then the user body,
// followed by the ngl_texvideo rewriter pass.
func synthesizeStage(p Params, stage Stage, body string) (string, error) {
	info := p.Info
	hasVideo := false
	for _, t := range p.Textures {
		if t.Type == TexVideo {
			hasVideo = true
		}
	}
	var b strings.Builder
	b.WriteString(info.VersionLine())
	for _, e := range info.Extensions(stage == StageCompute, hasVideo) {
		fmt.Fprintf(&b, "#extension %s : require\n", e)
	}
	b.WriteString("\n")

	switch stage {
	case StageVertex:
		b.WriteString(attributeSource(info, p.Attrs))
		b.WriteString(iovarSource(info, p.IOVars, "out"))
	case StageFragment:
		b.WriteString(iovarSource(info, p.IOVars, "in"))
	case StageCompute:
		fmt.Fprintf(&b, "layout(local_size_x = %d, local_size_y = %d, local_size_z = %d) in;\n\n",
			max1(p.WorkgroupSize[0]), max1(p.WorkgroupSize[1]), max1(p.WorkgroupSize[2]))
	}

	b.WriteString(compatUniformBlockSource(stageName(stage), 0, p.Uniforms))

	binding := 1
	for _, t := range p.Textures {
		b.WriteString(textureDeclSource(binding, t, info.Backend))
		binding++
	}
	for _, blk := range p.Blocks {
		b.WriteString(blockSource(binding, blk))
		binding++
	}

	b.WriteString("\n")
	b.WriteString(body)

	return RewriteTexVideo(b.String(), p.Textures, info.Backend)
}

func stageName(s Stage) string {
	switch s {
	case StageVertex:
		return "Vert"
	case StageFragment:
		return "Frag"
	default:
		return "Comp"
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Craft synthesizes sources for p, compiles them through cache, and
// builds the resulting bind-group layout and symbol table.
func Craft(cache *program.Cache, p Params) (*Crafted, error) {
	const op = "pgcraft.Craft"
	layout, syms, err := buildLayout(p)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.InvalidArg, "layout construction failed", err)
	}

	if p.CompSrc != "" {
		src, err := synthesizeStage(p, StageCompute, p.CompSrc)
		if err != nil {
			return nil, gpuerr.Wrap(op, gpuerr.InvalidData, "compute stage synthesis failed", err)
		}
		comp, err := program.NewCompute(cache, []byte(src))
		if err != nil {
			return nil, gpuerr.Wrap(op, gpuerr.InvalidData, "compute compilation failed", err)
		}
		return &Crafted{Compute: comp, Layout: layout, Symbols: syms}, nil
	}

	vertSrc, err := synthesizeStage(p, StageVertex, p.VertSrc)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.InvalidData, "vertex stage synthesis failed", err)
	}
	fragSrc, err := synthesizeStage(p, StageFragment, p.FragSrc)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.InvalidData, "fragment stage synthesis failed", err)
	}
	graphics, err := program.NewGraphics(cache, []byte(vertSrc), []byte(fragSrc))
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.InvalidData, "graphics compilation failed", err)
	}
	return &Crafted{Graphics: graphics, Layout: layout, Symbols: syms}, nil
}
