package quill

import (
	"strings"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Alignment controls horizontal placement of printed lines.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Font prints text as quads sampled from a bitmap face's glyph mask.
// Printed geometry is measured in character units: one unit is the face's
// line height, so a label scaled to 13 draws a 13 pixel tall face at 1:1.
type Font struct {
	face *basicfont.Face
	mat  *Material

	// Extra pixels between glyphs and between lines.
	SpacingX int
	SpacingY int
}

// NewFont creates a font from a bitmap face. A nil face uses
// basicfont.Face7x13.
func NewFont(face *basicfont.Face) *Font {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &Font{face: face, mat: NewMaterial("font", face.Mask)}
}

// Material returns the material holding the glyph mask.
func (f *Font) Material() *Material {
	return f.mat
}

// CharSize returns the face's height in pixels.
func (f *Font) CharSize() int {
	return f.face.Height
}

func (f *Font) lineHeight() int {
	return f.face.Height + f.SpacingY
}

// glyph looks up r with the dot at the top-left of the line.
func (f *Font) glyph(r rune) (dr, src glyphRect, advance int, ok bool) {
	dot := fixed.P(0, f.face.Ascent)
	d, _, maskp, adv, ok := f.face.Glyph(dot, r)
	if !ok {
		return glyphRect{}, glyphRect{}, 0, false
	}
	dr = glyphRect{d.Min.X, d.Min.Y, d.Dx(), d.Dy()}
	src = glyphRect{maskp.X, maskp.Y, d.Dx(), d.Dy()}
	return dr, src, adv.Round(), true
}

// glyphRect is an integer pixel rectangle.
type glyphRect struct {
	X, Y, W, H int
}

func (f *Font) kern(prev, r rune) int {
	if prev == 0 {
		return 0
	}
	return f.face.Kern(prev, r).Round()
}

// CalculatePrintedSize returns the size of text in character units.
func (f *Font) CalculatePrintedSize(text string) Vec2 {
	if text == "" {
		return Vec2{}
	}
	scale := 1 / float64(f.CharSize())
	lh := f.lineHeight()
	maxX, x, y := 0, 0, 0
	var prev rune
	for _, r := range text {
		if r == '\n' {
			maxX = max(maxX, x)
			x = 0
			y += lh
			prev = 0
			continue
		}
		if r < ' ' {
			prev = 0
			continue
		}
		if _, _, adv, ok := f.glyph(r); ok {
			x += f.SpacingX + f.kern(prev, r) + adv
			prev = r
		}
	}
	maxX = max(maxX, x)
	return Vec2{scale * float64(maxX), scale * float64(y+lh)}
}

// WrapText inserts line breaks so no line is wider than maxWidth character
// units. Without multiline, text past the first line is dropped.
func (f *Font) WrapText(text string, maxWidth float64, multiline bool) string {
	var b strings.Builder
	space := f.CalculatePrintedSize(" ").X

	for li, line := range strings.Split(text, "\n") {
		if li > 0 {
			if !multiline {
				break
			}
			b.WriteByte('\n')
		}
		left := maxWidth
		for _, word := range strings.Fields(line) {
			w := f.CalculatePrintedSize(word).X
			fresh := left == maxWidth
			if !fresh {
				left -= space
			}
			if w < left || fresh {
				if !fresh {
					b.WriteByte(' ')
				}
				b.WriteString(word)
				left -= w
				continue
			}
			if !multiline {
				return b.String()
			}
			b.WriteByte('\n')
			b.WriteString(word)
			left = maxWidth - w
		}
	}
	return b.String()
}

// Print appends one quad per glyph of text to g. lineWidth, in pixels, is
// the width lines are aligned within for AlignCenter and AlignRight.
func (f *Font) Print(text string, c Color, g *Geometry, align Alignment, lineWidth int) {
	scale := 1 / float64(f.CharSize())
	tw, th := f.mat.TextureSize()
	invX, invY := 1/float64(tw), 1/float64(th)
	lh := f.lineHeight()

	lineStart := len(g.Verts)
	x, y := 0, 0
	var prev rune
	for _, r := range text {
		if r == '\n' {
			f.align(g, lineStart, align, x, lineWidth)
			lineStart = len(g.Verts)
			x = 0
			y += lh
			prev = 0
			continue
		}
		if r < ' ' {
			prev = 0
			continue
		}
		dr, src, adv, ok := f.glyph(r)
		if !ok {
			continue
		}
		x += f.kern(prev, r)

		x0 := scale * float64(x+dr.X)
		y0 := -scale * float64(y+dr.Y)
		x1 := x0 + scale*float64(dr.W)
		y1 := y0 - scale*float64(dr.H)

		u0 := invX * float64(src.X)
		v0 := invY * float64(src.Y)
		u1 := u0 + invX*float64(src.W)
		v1 := v0 + invY*float64(src.H)

		g.AddQuad(
			[4]Vec3{{x1, y0, 0}, {x1, y1, 0}, {x0, y1, 0}, {x0, y0, 0}},
			[4]Vec2{{u1, v0}, {u1, v1}, {u0, v1}, {u0, v0}},
			c,
		)
		x += f.SpacingX + adv
		prev = r
	}
	f.align(g, lineStart, align, x, lineWidth)
}

// align shifts the vertices of the line starting at index from so that a
// line x pixels wide sits centered or right-aligned within lineWidth.
func (f *Font) align(g *Geometry, from int, align Alignment, x, lineWidth int) {
	if align == AlignLeft || from >= len(g.Verts) {
		return
	}
	offset := float64(lineWidth - x)
	if align == AlignCenter {
		offset *= 0.5
	}
	if offset <= 0 {
		return
	}
	offset /= float64(f.CharSize())
	for i := from; i < len(g.Verts); i++ {
		g.Verts[i].X += offset
	}
}
