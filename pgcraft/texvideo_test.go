package pgcraft

import (
	"strings"
	"testing"
)

func TestRewriteNonVideoTextureDegeneratesToPlainSample(t *testing.T) {
	textures := []TextureDecl{{Name: "tex", Type: Tex2D}}
	out, err := RewriteTexVideo("vec4 c = ngl_texvideo(tex, uv);", textures, BackendGL)
	if err != nil {
		t.Fatal(err)
	}
	want := "vec4 c = texture(tex, uv);"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRewriteVideoTextureGLBranches(t *testing.T) {
	textures := []TextureDecl{{Name: "tex", Type: TexVideo}}
	out, err := RewriteTexVideo("vec4 c = ngl_texvideo(tex, uv);", textures, BackendGL)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"tex_sampling_mode == 2", // LayoutNV12Rectangle
		"tex_sampling_mode == 4", // LayoutRectangle
		"tex_sampling_mode == 1", // LayoutNV12
		"tex_sampling_mode == 3", // LayoutYUV
		"texture(tex, uv)",       // DEFAULT fallback
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "_oes") {
		t.Error("GL backend should not emit a MEDIACODEC/OES branch")
	}
}

func TestRewriteVideoTextureGLESHasMediacodec(t *testing.T) {
	textures := []TextureDecl{{Name: "tex", Type: TexVideo}}
	out, err := RewriteTexVideo("ngl_texvideo(tex, uv)", textures, BackendGLES)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "tex_oes") {
		t.Error("GLES backend should emit a MEDIACODEC/OES branch")
	}
	if strings.Contains(out, "_rect_0") {
		t.Error("GLES backend should not emit a rectangle-texture branch")
	}
}

func TestRewriteClampWrapsExpansion(t *testing.T) {
	textures := []TextureDecl{{Name: "tex", Type: TexVideo, ClampVideo: true}}
	out, err := RewriteTexVideo("ngl_texvideo(tex, uv)", textures, BackendVulkan)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "clamp((") || !strings.HasSuffix(out, ", 0.0, 1.0)") {
		t.Errorf("expected clamp(...) wrapper, got %q", out)
	}
}

func TestRewriteHandlesMultipleOccurrencesRightToLeft(t *testing.T) {
	textures := []TextureDecl{{Name: "a", Type: TexVideo}, {Name: "b", Type: TexVideo}}
	src := "vec4 x = ngl_texvideo(a, uv); vec4 y = ngl_texvideo(b, uv2);"
	out, err := RewriteTexVideo(src, textures, BackendVulkan)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "a_sampling_mode") || !strings.Contains(out, "b_sampling_mode") {
		t.Errorf("expected both occurrences expanded, got %q", out)
	}
	// The first occurrence's prefix text must be untouched.
	if !strings.HasPrefix(out, "vec4 x = (") {
		t.Errorf("unexpected prefix in %q", out)
	}
}

func TestRewriteCommentInArgumentDoesNotConfuseParser(t *testing.T) {
	textures := []TextureDecl{{Name: "tex", Type: TexVideo}}
	src := "ngl_texvideo(tex, uv /* , fake comma */ + offset)"
	out, err := RewriteTexVideo(src, textures, BackendVulkan)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "uv /* , fake comma */ + offset") {
		t.Errorf("comment-embedded comma should not split the coords argument: %q", out)
	}
}

func TestRewriteNoTexturesIsNoOp(t *testing.T) {
	src := "ngl_texvideo(tex, uv)"
	out, err := RewriteTexVideo(src, nil, BackendGL)
	if err != nil {
		t.Fatal(err)
	}
	if out != src {
		t.Errorf("expected no-op with zero declared textures, got %q", out)
	}
}
