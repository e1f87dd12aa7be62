package quill

import "math"

// Clipping returns the panel's clip mode.
func (p *Panel) Clipping() ClipMode {
	return p.clipping
}

// SetClipping changes the clip mode and pushes it to every draw call.
func (p *Panel) SetClipping(m ClipMode) {
	if p.clipping == m {
		return
	}
	p.clipping = m
	p.recull = true
	p.clipSettingsChanged()
}

// ClipRange returns the clip rectangle as (center X, center Y, width, height)
// in panel space.
func (p *Panel) ClipRange() Vec4 {
	return p.clipRange
}

// SetClipRange sets the clip rectangle as (center X, center Y, width, height).
// A zero width or height uses the screen size.
func (p *Panel) SetClipRange(r Vec4) {
	if p.clipRange == r {
		return
	}
	p.clipRange = r
	p.recull = true
	p.clipSettingsChanged()
}

// ClipSoftness returns the fade width used by ClipSoft, in pixels.
func (p *Panel) ClipSoftness() Vec2 {
	return p.clipSoftness
}

// SetClipSoftness sets the fade width used by ClipSoft.
func (p *Panel) SetClipSoftness(s Vec2) {
	if p.clipSoftness == s {
		return
	}
	p.clipSoftness = s
	p.clipSettingsChanged()
}

// ScreenSize returns the size used for zero clip dimensions.
func (p *Panel) ScreenSize() (w, h float64) {
	return p.screenW, p.screenH
}

// SetScreenSize sets the size used for zero clip dimensions.
func (p *Panel) SetScreenSize(w, h float64) {
	if p.screenW == w && p.screenH == h {
		return
	}
	p.screenW, p.screenH = w, h
	p.recull = true
	p.clipSettingsChanged()
}

func (p *Panel) clipSettingsChanged() {
	p.matrixFrame = -1
	p.updateDrawCalls()
}

// updateTransformMatrix refreshes the cached world-to-local matrix and the
// clip bounds once per frame. Before the first Tick it always recomputes.
func (p *Panel) updateTransformMatrix() {
	if p.frame != 0 && p.matrixFrame == p.frame {
		return
	}
	p.matrixFrame = p.frame
	p.worldToLocal = p.trans.WorldToLocal()

	if p.clipping == ClipNone {
		return
	}
	size := Vec2{p.clipRange.Z, p.clipRange.W}
	if size.X == 0 {
		size.X = p.screenW
	}
	if size.Y == 0 {
		size.Y = p.screenH
	}
	size.X *= 0.5
	size.Y *= 0.5

	p.clipMin = Vec2{p.clipRange.X - size.X, p.clipRange.Y - size.Y}
	p.clipMax = Vec2{p.clipRange.X + size.X, p.clipRange.Y + size.Y}
}

// IsVisible reports whether w would be drawn by the panel: it must be
// enabled, active, textured and not transparent, and when clipping is on its
// bounds must overlap the clip rectangle. Touching edges count as overlap.
func (p *Panel) IsVisible(w Widget) bool {
	b := w.Base()
	t := b.trans
	if !b.enabled || t == nil || !t.ActiveInHierarchy() ||
		b.mat == nil || b.mat.Texture == nil || b.color.A < alphaEpsilon {
		return false
	}
	if p.clipping == ClipNone {
		return true
	}

	size := RelativeSize(w)
	a := b.PivotOffset().Mul(size)
	c := a
	a.X += size.X
	a.Y -= size.Y

	m := t.LocalToWorld()
	var corners [4]Vec2
	corners[0].X, corners[0].Y = transformPoint(m, a.X, a.Y)
	corners[1].X, corners[1].Y = transformPoint(m, a.X, c.Y)
	corners[2].X, corners[2].Y = transformPoint(m, c.X, a.Y)
	corners[3].X, corners[3].Y = transformPoint(m, c.X, c.Y)
	return p.isVisibleCorners(corners)
}

// isVisibleCorners tests four world-space corners against the clip bounds.
func (p *Panel) isVisibleCorners(corners [4]Vec2) bool {
	p.updateTransformMatrix()

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := transformPoint(p.worldToLocal, c.X, c.Y)
		minX = min(minX, x)
		maxX = max(maxX, x)
		minY = min(minY, y)
		maxY = max(maxY, y)
	}

	if maxX < p.clipMin.X || maxY < p.clipMin.Y {
		return false
	}
	if minX > p.clipMax.X || minY > p.clipMax.Y {
		return false
	}
	return true
}

// clipRangeForDrawCalls converts the clip rectangle to the (center, half
// size) form draw calls expect.
func (p *Panel) clipRangeForDrawCalls() Vec4 {
	var r Vec4
	if p.clipping != ClipNone {
		r = Vec4{p.clipRange.X, p.clipRange.Y, p.clipRange.Z * 0.5, p.clipRange.W * 0.5}
	}
	if r.Z == 0 {
		r.Z = p.screenW * 0.5
	}
	if r.W == 0 {
		r.W = p.screenH * 0.5
	}
	if p.HalfPixelOffset {
		r.X -= 0.5
		r.Y += 0.5
	}
	return r
}

// updateDrawCalls pushes the clip settings and the panel's world transform
// into every draw call.
func (p *Panel) updateDrawCalls() {
	if len(p.drawCalls) == 0 {
		return
	}
	rng := p.clipRangeForDrawCalls()
	m := p.trans.LocalToWorld()
	for _, dc := range p.drawCalls {
		dc.SetClip(p.clipping, rng, p.clipSoftness)
		dc.SetTransform(m)
	}
}
