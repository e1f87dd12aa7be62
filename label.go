package quill

import (
	"math"
	"strings"
)

// Label prints a string with a Font. The transform's scale sets the text
// size in pixels per character unit.
type Label struct {
	WidgetBase

	font      *Font
	text      string
	processed string
	align     Alignment
	lineWidth int
	multiLine bool
	dirtyText bool
	size      Vec2
	lastScale float64
}

// NewLabel creates a label using the font's material.
func NewLabel(f *Font, text string) *Label {
	l := &Label{font: f, text: text, multiLine: true, dirtyText: true}
	initWidgetBase(&l.WidgetBase, f.Material())
	l.pivot = PivotLeft
	return l
}

// Text returns the label's text.
func (l *Label) Text() string {
	return l.text
}

// SetText changes the text.
func (l *Label) SetText(s string) {
	if l.text != s {
		l.text = s
		l.dirtyText = true
		l.MarkAsChanged()
	}
}

// Font returns the label's font.
func (l *Label) Font() *Font {
	return l.font
}

// SetFont changes the font and moves the label to its material.
func (l *Label) SetFont(f *Font) error {
	if l.font == f {
		return nil
	}
	l.font = f
	l.dirtyText = true
	l.MarkAsChanged()
	return l.SetMaterial(f.Material())
}

// Alignment returns the horizontal alignment of lines.
func (l *Label) Alignment() Alignment {
	return l.align
}

// SetAlignment changes the horizontal alignment of lines.
func (l *Label) SetAlignment(a Alignment) {
	if l.align != a {
		l.align = a
		l.MarkAsChanged()
	}
}

// LineWidth returns the wrap width in pixels, 0 for no wrapping.
func (l *Label) LineWidth() int {
	return l.lineWidth
}

// SetLineWidth sets the wrap width in pixels. 0 disables wrapping.
func (l *Label) SetLineWidth(w int) {
	if l.lineWidth != w {
		l.lineWidth = w
		l.dirtyText = true
		l.MarkAsChanged()
	}
}

// MultiLine reports whether wrapped text may span several lines.
func (l *Label) MultiLine() bool {
	return l.multiLine
}

// SetMultiLine controls whether wrapped text may span several lines.
func (l *Label) SetMultiLine(m bool) {
	if l.multiLine != m {
		l.multiLine = m
		l.dirtyText = true
		l.MarkAsChanged()
	}
}

// processText wraps the text to the line width and measures it.
func (l *Label) processText() {
	if !l.dirtyText {
		return
	}
	l.dirtyText = false
	l.processed = l.text
	t := l.Transform()
	if l.lineWidth > 0 && t != nil && t.ScaleX > 0 {
		l.processed = l.font.WrapText(l.text, float64(l.lineWidth)/t.ScaleX, l.multiLine)
	} else if !l.multiLine {
		if i := strings.IndexByte(l.processed, '\n'); i >= 0 {
			l.processed = l.processed[:i]
		}
	}
	l.size = l.font.CalculatePrintedSize(l.processed)
	if l.size.X == 0 {
		l.size.X = 1
	}
	if l.size.Y == 0 {
		l.size.Y = 1
	}
}

// OnUpdate re-wraps wrapped text when the transform's horizontal scale
// changed.
func (l *Label) OnUpdate() bool {
	t := l.Transform()
	if t == nil || l.lineWidth == 0 || t.ScaleX == l.lastScale {
		return false
	}
	l.lastScale = t.ScaleX
	l.dirtyText = true
	return true
}

// RelativeSize returns the printed size in character units.
func (l *Label) RelativeSize() Vec2 {
	l.processText()
	return l.size
}

// MakePixelPerfect scales the transform to the font's native size.
func (l *Label) MakePixelPerfect() {
	if t := l.Transform(); t != nil {
		cs := float64(l.font.CharSize())
		t.SetScale(cs, cs)
		l.dirtyText = true
	}
	l.WidgetBase.MakePixelPerfect()
}

// OnFill prints the processed text.
func (l *Label) OnFill(g *Geometry) {
	l.processText()
	cs := float64(l.font.CharSize())
	width := int(math.Round(l.size.X * cs))
	if t := l.Transform(); l.lineWidth > 0 && t != nil && t.ScaleX > 0 {
		width = int(math.Round(float64(l.lineWidth) / t.ScaleX * cs))
	}
	l.font.Print(l.processed, l.color, g, l.align, width)
}
