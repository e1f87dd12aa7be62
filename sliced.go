package quill

import "math"

// SlicedSprite draws a 9-sliced sprite: corners keep their pixel size while
// the edges and center stretch with the transform's scale.
type SlicedSprite struct {
	Sprite

	fillCenter bool
	lastScale  Vec2
}

// NewSlicedSprite creates a 9-sliced sprite from the named atlas region.
// Regions without an inner rectangle are drawn as plain sprites.
func NewSlicedSprite(a *Atlas, name string) (*SlicedSprite, error) {
	r, err := a.Region(name)
	if err != nil {
		return nil, err
	}
	s := &SlicedSprite{fillCenter: true}
	s.region = r
	initWidgetBase(&s.WidgetBase, a.Material(r))
	return s, nil
}

// FillCenter reports whether the center slice is drawn.
func (s *SlicedSprite) FillCenter() bool {
	return s.fillCenter
}

// SetFillCenter turns the center slice on or off.
func (s *SlicedSprite) SetFillCenter(fill bool) {
	if s.fillCenter != fill {
		s.fillCenter = fill
		s.MarkAsChanged()
	}
}

// OnUpdate reports a change whenever the transform's scale changed, since
// border sizes are computed relative to it.
func (s *SlicedSprite) OnUpdate() bool {
	t := s.Transform()
	if t == nil {
		return false
	}
	sc := Vec2{t.ScaleX, t.ScaleY}
	if sc != s.lastScale {
		s.lastScale = sc
		return true
	}
	return false
}

// MakePixelPerfect snaps position to whole pixels and scale to even sizes.
// Unlike Sprite it keeps the current size.
func (s *SlicedSprite) MakePixelPerfect() {
	t := s.Transform()
	if t == nil {
		return
	}
	t.X = math.Round(t.X)
	t.Y = math.Round(t.Y)
	t.ScaleX = math.Round(t.ScaleX*0.5) * 2
	t.ScaleY = math.Round(t.ScaleY*0.5) * 2
}

// OnFill emits up to nine quads.
func (s *SlicedSprite) OnFill(g *Geometry) {
	r := s.region
	if !r.HasBorder() || r.Rotated {
		s.Sprite.OnFill(g)
		return
	}
	t := s.Transform()
	sx, sy := max(0, t.ScaleX), max(0, t.ScaleY)
	if sx == 0 || sy == 0 {
		return
	}

	// Border widths in relative units.
	left := (r.Inner.X - r.Outer.X) / sx
	right := (r.Outer.MaxX() - r.Inner.MaxX()) / sx
	top := (r.Inner.Y - r.Outer.Y) / sy
	bottom := (r.Outer.MaxY() - r.Inner.MaxY()) / sy

	// Column and row edges. Rows run downward from 0 to -1. The sprite never
	// shrinks below its summed border size; the pivot decides which side
	// grows past the transform's bounds.
	var xs, ys [4]float64
	switch s.pivot {
	case PivotTopRight, PivotRight, PivotBottomRight:
		xs[0] = min(0, 1-(left+right))
	}
	xs[1] = xs[0] + left
	xs[2] = xs[0] + max(left, 1-right)
	xs[3] = xs[0] + max(left+right, 1)

	switch s.pivot {
	case PivotBottomLeft, PivotBottom, PivotBottomRight:
		ys[0] = max(0, -1+(top+bottom))
	}
	ys[1] = ys[0] - top
	ys[2] = ys[0] + min(-top, -1+bottom)
	ys[3] = ys[0] + min(-(top+bottom), -1)

	tw, th := s.mat.TextureSize()
	var us, vs [4]float64
	if tw > 0 && th > 0 {
		fw, fh := float64(tw), float64(th)
		us = [4]float64{r.Outer.X / fw, r.Inner.X / fw, r.Inner.MaxX() / fw, r.Outer.MaxX() / fw}
		vs = [4]float64{r.Outer.Y / fh, r.Inner.Y / fh, r.Inner.MaxY() / fh, r.Outer.MaxY() / fh}
	}

	for x := range 3 {
		x2 := x + 1
		for y := range 3 {
			if !s.fillCenter && x == 1 && y == 1 {
				continue
			}
			y2 := y + 1
			g.AddQuad(
				[4]Vec3{{xs[x2], ys[y], 0}, {xs[x2], ys[y2], 0}, {xs[x], ys[y2], 0}, {xs[x], ys[y], 0}},
				[4]Vec2{{us[x2], vs[y]}, {us[x2], vs[y2]}, {us[x], vs[y2]}, {us[x], vs[y]}},
				s.color,
			)
		}
	}
}
