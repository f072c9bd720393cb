package pgcraft

import (
	"strings"
	"testing"

	"github.com/nopeforge/ngpu/block"
	"github.com/nopeforge/ngpu/internal/drivertest"
	"github.com/nopeforge/ngpu/program"
)

func TestCraftGraphicsProgram(t *testing.T) {
	gpu := drivertest.New()
	cache := program.NewCache(gpu)

	desc := block.NewDesc(block.Std140)
	desc.AddField("mvp", block.Mat4, 0, 0)

	p := Params{
		Info:     NewInfo(BackendGL, 460),
		VertSrc:  "void main() { gl_Position = transformBlock.mvp * vec4(pos, 1.0); }",
		FragSrc:  "out vec4 fragColor;\nvoid main() { fragColor = ngl_texvideo(tex, uv); }",
		Textures: []TextureDecl{{Name: "tex", Type: TexVideo}},
		Blocks:   []BlockDecl{{Name: "transform", Layout: block.Std140, Desc: desc}},
		Attrs:    []Attribute{{Name: "pos", Format: "vec3", Buffer: 0}},
	}
	crafted, err := Craft(cache, p)
	if err != nil {
		t.Fatal(err)
	}
	if crafted.Graphics == nil {
		t.Fatal("expected a graphics program")
	}
	if _, ok := crafted.Symbols["tex"]; !ok {
		t.Error("expected symbol table to resolve texture name")
	}
	if _, ok := crafted.Symbols["transform"]; !ok {
		t.Error("expected symbol table to resolve block name")
	}
}

func TestCraftComputeProgram(t *testing.T) {
	gpu := drivertest.New()
	cache := program.NewCache(gpu)
	p := Params{
		Info:          NewInfo(BackendVulkan, 460),
		CompSrc:       "void main() {}",
		WorkgroupSize: [3]int{8, 8, 1},
	}
	crafted, err := Craft(cache, p)
	if err != nil {
		t.Fatal(err)
	}
	if crafted.Compute == nil {
		t.Fatal("expected a compute program")
	}
}

func TestSynthesizeStageEmitsVersionAndTexVideo(t *testing.T) {
	p := Params{
		Info:     NewInfo(BackendGLES, 320),
		Textures: []TextureDecl{{Name: "tex", Type: TexVideo}},
	}
	src, err := synthesizeStage(p, StageFragment, "vec4 c = ngl_texvideo(tex, uv);")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(src, "#version 320 es") {
		t.Errorf("expected GLES version line, got:\n%s", src)
	}
	if strings.Contains(src, "ngl_texvideo") {
		t.Error("ngl_texvideo token should have been rewritten")
	}
	if !strings.Contains(src, "GL_OES_EGL_image_external_essl3") {
		t.Error("expected OES external image extension for a video texture on GLES")
	}
}
