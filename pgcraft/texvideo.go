package pgcraft

import (
	"fmt"
	"strings"

	"github.com/nopeforge/ngpu/gpuerr"
)

const tokenIDChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"

// readTokenID reads the maximal run of identifier characters starting
// at pos and returns it along with the position just past it.
// Grounded in pgcraft.c's read_token_id.
func readTokenID(s string, pos int) (id string, end int) {
	end = pos
	for end < len(s) && strings.ContainsRune(tokenIDChars, rune(s[end])) {
		end++
	}
	return s[pos:end], end
}

// skipArg scans one argument of a ngl_* call starting at pos, up to
// (but not including) the next top-level comma or the closing paren
// that balances the call's opening paren, skipping // and /* */
// comments so that a ',' or ')' inside one does not end the argument
// prematurely. Grounded in pgcraft.c's skip_arg.
func skipArg(s string, pos int) int {
	depth := 0
	p := pos
	for p < len(s) {
		switch {
		case s[p] == ',' && depth == 0:
			return p
		case s[p] == '(':
			depth++
			p++
		case s[p] == ')':
			if depth == 0 {
				return p
			}
			depth--
			p++
		case strings.HasPrefix(s[p:], "//"):
			if i := strings.IndexAny(s[p:], "\r\n"); i >= 0 {
				p += i
			} else {
				p = len(s)
			}
		case strings.HasPrefix(s[p:], "/*"):
			if i := strings.Index(s[p+2:], "*/"); i >= 0 {
				p += 2 + i + 2
			} else {
				p = len(s)
			}
		default:
			p++
		}
	}
	return p
}

// texInfo looks up the declared type/clamp flag of a texture by name,
// matched against params.Textures; unknown names degenerate to
// TexNone (a plain texture() call), matching pgcraft.c's
// get_texture_type/texture_needs_clamping defaulting to "not video".
func texInfo(textures []TextureDecl, name string) (TexType, bool) {
	for _, t := range textures {
		if t.Name == name {
			return t.Type, t.ClampVideo
		}
	}
	return TexNone, false
}

// handleToken expands one ngl_texvideo(arg0, coords) occurrence found
// at tokPos in s (tokPos points at the 'n' of "ngl_texvideo") into its
// replacement text, followed by the unmodified remainder of s. It
// does not touch any text before tokPos.
// Grounded in pgcraft.c's handle_token.
func handleToken(s string, tokPos int, textures []TextureDecl, backend Backend) (string, error) {
	const op = "pgcraft.handleToken"
	const id = "ngl_texvideo"
	p := tokPos + len(id)
	p += countLeadingSpace(s[p:])
	if p >= len(s) || s[p] != '(' {
		return "", gpuerr.New(op, gpuerr.InvalidData, "expected '(' after ngl_texvideo")
	}
	p++
	p += countLeadingSpace(s[p:])

	arg0Start := p
	p = skipArg(s, p)
	arg0 := strings.TrimSpace(s[arg0Start:p])

	if p >= len(s) || s[p] != ',' {
		return "", gpuerr.New(op, gpuerr.InvalidData, "ngl_texvideo requires two arguments")
	}
	p++
	p += countLeadingSpace(s[p:])

	coordsStart := p
	p = skipArg(s, p)
	coords := strings.TrimSpace(s[coordsStart:p])

	if p >= len(s) || s[p] != ')' {
		return "", gpuerr.New(op, gpuerr.InvalidData, "unterminated ngl_texvideo call")
	}
	p++
	tail := s[p:]

	typ, clamp := texInfo(textures, arg0)
	if typ != TexVideo {
		return fmt.Sprintf("texture(%s, %s)%s", arg0, coords, tail), nil
	}

	var b strings.Builder
	if clamp {
		b.WriteString("clamp(")
	}
	b.WriteString("(")

	layouts := SupportedLayouts(backend)
	if supports(layouts, LayoutMediacodec) {
		fmt.Fprintf(&b, "%s_sampling_mode == %d ? texture(%s_oes, %s) : ", arg0, LayoutMediacodec, arg0, coords)
	}
	if supports(layouts, LayoutNV12Rectangle) {
		fmt.Fprintf(&b, "%s_sampling_mode == %d ? %s_color_matrix * vec4(texture(%s_rect_0, (%s) * textureSize(%s_rect_0)).r, texture(%s_rect_1, (%s) * textureSize(%s_rect_1)).rg, 1.0) : ",
			arg0, LayoutNV12Rectangle, arg0, arg0, coords, arg0, arg0, coords, arg0)
	}
	if supports(layouts, LayoutRectangle) {
		fmt.Fprintf(&b, "%s_sampling_mode == %d ? texture(%s_rect_0, (%s) * textureSize(%s_rect_0)) : ",
			arg0, LayoutRectangle, arg0, coords, arg0)
	}
	if supports(layouts, LayoutNV12) {
		fmt.Fprintf(&b, "%s_sampling_mode == %d ? %s_color_matrix * vec4(texture(%s, %s).r, texture(%s_1, %s).rg, 1.0) : ",
			arg0, LayoutNV12, arg0, arg0, coords, arg0, coords)
	}
	if supports(layouts, LayoutYUV) {
		fmt.Fprintf(&b, "%s_sampling_mode == %d ? %s_color_matrix * vec4(texture(%s, %s).r, texture(%s_1, %s).r, texture(%s_2, %s).r, 1.0) : ",
			arg0, LayoutYUV, arg0, arg0, coords, arg0, coords, arg0, coords)
	}
	// DEFAULT has no guarding condition: it is always supported and
	// always the final branch of the ternary chain.
	fmt.Fprintf(&b, "texture(%s, %s)", arg0, coords)

	b.WriteString(")")
	if clamp {
		b.WriteString(", 0.0, 1.0)")
	}
	b.WriteString(tail)
	return b.String(), nil
}

func countLeadingSpace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t' || s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

// RewriteTexVideo expands every ngl_texvideo(tex, uv) occurrence in
// src into the layout-specific conditional texture.Read expression
// (or, for non-VIDEO textures, a plain texture() call).
//
// Not a macro system: it is a recursive-capable string substitution
// rather than a GLSL preprocessor (token pasting, which a real
// preprocessor would need, is illegal in GLES). Occurrences are
// collected left-to-right, then replaced right-to-left so that an
// earlier occurrence's source offset is never invalidated by a later
// occurrence's (possibly size-changing) replacement — including a
// later occurrence nested inside an earlier one's coordinate
// argument. Grounded in pgcraft.c's samplers_preproc.
func RewriteTexVideo(src string, textures []TextureDecl, backend Backend) (string, error) {
	if len(textures) == 0 {
		return src, nil
	}
	var positions []int
	for p := strings.Index(src, "ngl"); p >= 0; {
		id, end := readTokenID(src, p)
		if id == "ngl_texvideo" {
			positions = append(positions, p)
		}
		next := strings.Index(src[end:], "ngl")
		if next < 0 {
			break
		}
		p = end + next
	}

	for i := len(positions) - 1; i >= 0; i-- {
		pos := positions[i]
		replaced, err := handleToken(src, pos, textures, backend)
		if err != nil {
			return "", err
		}
		src = src[:pos] + replaced
	}
	return src, nil
}
