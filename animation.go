package quill

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values on a transform or widget together.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenRotation, TweenColor, TweenAlpha) and call Update(dt) each frame, or
// hand it to a Stage. If the target transform is disposed, the group stops
// immediately.
//
// Transform fields are written directly; panels pick the change up on their
// next Tick. Widget colors go through SetColor so geometry is refilled.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(v [4]float64)
	target *Transform
	Done   bool
}

func newTweenGroup(target *Transform, from, to []float64, duration float32, fn ease.TweenFunc, apply func([4]float64)) *TweenGroup {
	g := &TweenGroup{count: len(from), target: target, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and applies the values. If the
// target has been disposed, Done is set and nothing is written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target == nil || g.target.IsDisposed() {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
}

// TweenPosition animates t.X and t.Y to the given coordinates.
func TweenPosition(t *Transform, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(t, []float64{t.X, t.Y}, []float64{toX, toY}, duration, fn, func(v [4]float64) {
		t.X, t.Y = v[0], v[1]
	})
}

// TweenScale animates t.ScaleX and t.ScaleY to the given values.
func TweenScale(t *Transform, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(t, []float64{t.ScaleX, t.ScaleY}, []float64{toSX, toSY}, duration, fn, func(v [4]float64) {
		t.ScaleX, t.ScaleY = v[0], v[1]
	})
}

// TweenRotation animates t.Rotation to the given angle in radians.
func TweenRotation(t *Transform, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(t, []float64{t.Rotation}, []float64{to}, duration, fn, func(v [4]float64) {
		t.Rotation = v[0]
	})
}

// TweenColor animates all four components of the widget's color. The widget
// must be attached to a transform.
func TweenColor(w Widget, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	b := w.Base()
	c := b.color
	return newTweenGroup(b.trans, []float64{c.R, c.G, c.B, c.A}, []float64{to.R, to.G, to.B, to.A}, duration, fn, func(v [4]float64) {
		b.SetColor(Color{v[0], v[1], v[2], v[3]})
	})
}

// TweenAlpha animates the alpha of the widget's color. The widget must be
// attached to a transform.
func TweenAlpha(w Widget, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	b := w.Base()
	return newTweenGroup(b.trans, []float64{b.color.A}, []float64{to}, duration, fn, func(v [4]float64) {
		c := b.color
		c.A = v[0]
		b.SetColor(c)
	})
}
