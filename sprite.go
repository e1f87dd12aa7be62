package quill

// Sprite draws one textured quad. Its size comes from the transform's scale,
// so a sprite scaled to (w, h) covers w×h units.
type Sprite struct {
	WidgetBase
	region SpriteRegion
}

// NewSprite creates a sprite showing the named atlas region.
func NewSprite(a *Atlas, name string) (*Sprite, error) {
	r, err := a.Region(name)
	if err != nil {
		return nil, err
	}
	s := &Sprite{region: r}
	initWidgetBase(&s.WidgetBase, a.Material(r))
	return s, nil
}

// NewTextureSprite creates a sprite showing the whole texture of mat.
func NewTextureSprite(mat *Material) *Sprite {
	w, h := mat.TextureSize()
	r := Rect{0, 0, float64(w), float64(h)}
	s := &Sprite{region: SpriteRegion{Name: mat.Name, Outer: r, Inner: r}}
	initWidgetBase(&s.WidgetBase, mat)
	return s
}

// Region returns the displayed region.
func (s *Sprite) Region() SpriteRegion {
	return s.region
}

// SetRegion changes the displayed region of the same atlas page.
func (s *Sprite) SetRegion(r SpriteRegion) {
	if s.region != r {
		s.region = r
		s.MarkAsChanged()
	}
}

// MakePixelPerfect sizes the transform to the region's pixel size and snaps
// it to whole pixels.
func (s *Sprite) MakePixelPerfect() {
	if t := s.Transform(); t != nil {
		w, h := s.region.Outer.Width, s.region.Outer.Height
		if s.region.Rotated {
			w, h = h, w
		}
		t.SetScale(w, h)
	}
	s.WidgetBase.MakePixelPerfect()
}

// OnFill emits a unit quad (top-right, bottom-right, bottom-left, top-left).
func (s *Sprite) OnFill(g *Geometry) {
	g.AddQuad(unitQuad, regionUVs(s.region.Outer, s.region.Rotated, s.mat), s.color)
}

var unitQuad = [4]Vec3{{1, 0, 0}, {1, -1, 0}, {0, -1, 0}, {0, 0, 0}}

// regionUVs returns normalized texture coordinates for a quad in unitQuad
// order. UV (0, 0) is the texture's top-left corner.
func regionUVs(r Rect, rotated bool, mat *Material) [4]Vec2 {
	tw, th := mat.TextureSize()
	if tw == 0 || th == 0 {
		return [4]Vec2{}
	}
	u0, v0 := r.X/float64(tw), r.Y/float64(th)
	u1, v1 := r.MaxX()/float64(tw), r.MaxY()/float64(th)
	if rotated {
		// Stored 90° clockwise: the sprite's top edge runs down the right
		// side of the page rectangle.
		return [4]Vec2{{u1, v1}, {u0, v1}, {u0, v0}, {u1, v0}}
	}
	return [4]Vec2{{u1, v0}, {u1, v1}, {u0, v1}, {u0, v0}}
}
