package quill

import (
	"image"
	"testing"
)

func newTestMaterial(name string) *Material {
	return NewMaterial(name, image.NewRGBA(image.Rect(0, 0, 64, 64)))
}

// newTestPanel returns a root transform with a panel that records its draw
// calls on the CPU.
func newTestPanel() (*Transform, *Panel) {
	root := NewTransform("ui")
	p := NewPanel(root)
	p.SetDrawCallFactory(NewMeshDrawCall)
	return root, p
}

// addSprite attaches a whole-texture sprite of size w×h at (x, y) below parent.
func addSprite(t *testing.T, parent *Transform, name string, mat *Material, x, y, w, h float64) (*Transform, *Sprite) {
	t.Helper()
	tr := NewTransform(name)
	tr.SetPosition(x, y)
	tr.SetScale(w, h)
	parent.AddChild(tr)
	s := NewTextureSprite(mat)
	if err := Attach(tr, s); err != nil {
		t.Fatalf("Attach(%s): %v", name, err)
	}
	return tr, s
}

// meshFor returns the recorded draw call for mat, or nil.
func meshFor(t *testing.T, p *Panel, mat *Material) *MeshDrawCall {
	t.Helper()
	dc := p.DrawCallFor(mat)
	if dc == nil {
		return nil
	}
	m, ok := dc.(*MeshDrawCall)
	if !ok {
		t.Fatalf("draw call is %T, want *MeshDrawCall", dc)
	}
	return m
}

// quadWidget emits a configurable number of unit quads and counts fills.
type quadWidget struct {
	WidgetBase
	quads   int
	fills   int
	explode bool
	size    Vec2
}

func newQuadWidget(mat *Material, quads int) *quadWidget {
	w := &quadWidget{quads: quads, size: Vec2{1, 1}}
	initWidgetBase(&w.WidgetBase, mat)
	return w
}

func (w *quadWidget) RelativeSize() Vec2 {
	return w.size
}

func (w *quadWidget) OnFill(g *Geometry) {
	w.fills++
	if w.explode {
		panic("boom")
	}
	for range w.quads {
		g.AddQuad(unitQuad, [4]Vec2{{1, 0}, {1, 1}, {0, 1}, {0, 0}}, w.color)
	}
}

func attachQuad(t *testing.T, parent *Transform, name string, w *quadWidget) *Transform {
	t.Helper()
	tr := NewTransform(name)
	parent.AddChild(tr)
	if err := Attach(tr, w); err != nil {
		t.Fatalf("Attach(%s): %v", name, err)
	}
	return tr
}
