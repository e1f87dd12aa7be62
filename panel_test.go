package quill

import (
	"errors"
	"math"
	"testing"
)

func TestTickBatchesSprite(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	addSprite(t, root, "icon", mat, 0, 0, 10, 10)

	p.Tick()

	m := meshFor(t, p, mat)
	if m == nil {
		t.Fatal("expected a draw call for the sprite's material")
	}
	want := []Vec3{{5, 5, 0}, {5, -5, 0}, {-5, -5, 0}, {-5, 5, 0}}
	if len(m.Verts) != len(want) {
		t.Fatalf("verts = %d, want %d", len(m.Verts), len(want))
	}
	for i, v := range want {
		assertNear(t, "x", m.Verts[i].X, v.X)
		assertNear(t, "y", m.Verts[i].Y, v.Y)
	}
	if len(m.UVs) != 4 || len(m.Cols) != 4 {
		t.Errorf("uvs = %d, cols = %d, want 4 each", len(m.UVs), len(m.Cols))
	}
	if m.Norms != nil && len(m.Norms) != 0 {
		t.Error("normals should be empty when GenerateNormals is off")
	}
}

func TestNoOpFramesAreIdle(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	addSprite(t, root, "a", mat, 0, 0, 10, 10)
	addSprite(t, root, "b", mat, 20, 0, 10, 10)

	p.Tick()
	if p.Stats().Idle() {
		t.Fatal("first tick should do work")
	}
	m := meshFor(t, p, mat)
	sets := m.SetCount

	for range 3 {
		p.Tick()
		s := p.Stats()
		if !s.Idle() {
			t.Errorf("frame %d not idle: %+v", s.Frame, s)
		}
		for tr, n := range p.children {
			if n.changeFlag != flagUnchanged {
				t.Errorf("%s: changeFlag = %d, want %d", tr.Name, n.changeFlag, flagUnchanged)
			}
		}
		if p.changed.len() != 0 {
			t.Error("changed set should be empty after a tick")
		}
	}
	if m.SetCount != sets {
		t.Errorf("draw call refilled %d times on idle frames", m.SetCount-sets)
	}
}

func TestClipNoneNeverHides(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	tr, s := addSprite(t, root, "far", mat, 0, 0, 10, 10)

	for _, pos := range []Vec2{{0, 0}, {1e6, -1e6}, {-5e4, 3e7}} {
		tr.SetPosition(pos.X, pos.Y)
		p.Tick()
		if !p.IsVisible(s) {
			t.Errorf("at %v: IsVisible = false under ClipNone", pos)
		}
		if s.VisibleFlag() != 1 {
			t.Errorf("at %v: VisibleFlag = %d, want 1", pos, s.VisibleFlag())
		}
	}
	if len(p.DrawCalls()) != 1 {
		t.Errorf("draw calls = %d, want 1", len(p.DrawCalls()))
	}
}

func TestClipVisibility(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 0, 0, true},
		{"outside right", 200, 0, false},
		{"outside below", 0, -70, false},
		{"straddling edge", 50, 0, true},
		{"touching right edge", 55, 0, true},
		{"touching bottom edge", 0, -55, true},
		{"just past right edge", 55.5, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, p := newTestPanel()
			p.SetClipping(ClipHard)
			p.SetClipRange(Vec4{0, 0, 100, 100})
			mat := newTestMaterial("atlas")
			_, s := addSprite(t, root, "w", mat, tt.x, tt.y, 10, 10)

			p.Tick()

			if got := p.IsVisible(s); got != tt.want {
				t.Errorf("IsVisible = %v, want %v", got, tt.want)
			}
			if got := s.VisibleFlag() == 1; got != tt.want {
				t.Errorf("VisibleFlag = %d, want visible %v", s.VisibleFlag(), tt.want)
			}
			if got := p.DrawCallFor(mat) != nil; got != tt.want {
				t.Errorf("draw call present = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClipZeroSizeUsesScreen(t *testing.T) {
	root, p := newTestPanel()
	p.SetClipping(ClipHard)
	p.SetScreenSize(200, 100)
	mat := newTestMaterial("atlas")
	_, inside := addSprite(t, root, "in", mat, 90, 0, 10, 10)
	_, outside := addSprite(t, root, "out", mat, 0, 70, 10, 10)

	p.Tick()

	if !p.IsVisible(inside) {
		t.Error("widget within half the screen width should be visible")
	}
	if p.IsVisible(outside) {
		t.Error("widget beyond half the screen height should be hidden")
	}
}

func TestIsVisibleRejectsInactive(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	tr, s := addSprite(t, root, "w", mat, 0, 0, 10, 10)

	tr.SetActive(false)
	if p.IsVisible(s) {
		t.Error("inactive widget should not be visible")
	}
	tr.SetActive(true)
	s.SetEnabled(false)
	if p.IsVisible(s) {
		t.Error("disabled widget should not be visible")
	}
	s.SetEnabled(true)
	s.SetColor(Color{1, 1, 1, 0.0005})
	if p.IsVisible(s) {
		t.Error("transparent widget should not be visible")
	}
	s.SetColor(ColorWhite)
	mat.Texture = nil
	if p.IsVisible(s) {
		t.Error("widget without texture should not be visible")
	}
}

func TestParentMovementPropagates(t *testing.T) {
	root, p := newTestPanel()
	group := NewTransform("group")
	root.AddChild(group)
	mat := newTestMaterial("atlas")
	child, _ := addSprite(t, group, "child", mat, 0, 0, 10, 10)

	p.Tick()
	m := meshFor(t, p, mat)

	group.X = 20
	p.Tick()

	if n := p.getNode(child); n.changeFlag != flagChanged {
		t.Errorf("child changeFlag = %d, want %d", n.changeFlag, flagChanged)
	}
	if s := p.Stats(); s.WidgetsTransformed != 1 || s.MaterialsFilled != 1 {
		t.Errorf("stats = %+v, want one widget transformed and one material filled", s)
	}
	assertNear(t, "verts[0].x", m.Verts[0].X, 25)
	assertNear(t, "verts[2].x", m.Verts[2].X, 15)
}

func TestInactiveParentHidesChild(t *testing.T) {
	root, p := newTestPanel()
	group := NewTransform("group")
	root.AddChild(group)
	mat := newTestMaterial("atlas")
	addSprite(t, group, "child", mat, 0, 0, 10, 10)

	p.Tick()
	group.SetActive(false)
	p.Tick()
	if p.DrawCallFor(mat) != nil {
		t.Error("draw call should be removed while the parent is inactive")
	}

	group.SetActive(true)
	p.Tick()
	if m := meshFor(t, p, mat); m == nil || len(m.Verts) != 4 {
		t.Error("draw call should come back when the parent is re-activated")
	}
}

func TestZeroAlphaRemovesDrawCall(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	_, s := addSprite(t, root, "red", mat, 0, 0, 10, 10)
	s.SetColor(Color{1, 0, 0, 1})

	p.Tick()
	m := meshFor(t, p, mat)
	if len(p.DrawCalls()) != 1 || m == nil {
		t.Fatalf("draw calls = %d, want 1", len(p.DrawCalls()))
	}

	s.SetColor(Color{1, 0, 0, 0})
	p.Tick()

	if len(p.DrawCalls()) != 0 {
		t.Errorf("draw calls = %d, want 0", len(p.DrawCalls()))
	}
	if !m.IsDisposed() {
		t.Error("removed draw call should be disposed")
	}
}

func TestEmptyFillRemovesDrawCall(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	w := newQuadWidget(mat, 2)
	attachQuad(t, root, "q", w)

	p.Tick()
	if m := meshFor(t, p, mat); m == nil || len(m.Verts) != 8 {
		t.Fatal("expected 8 vertices for two quads")
	}

	w.quads = 0
	w.MarkAsChanged()
	p.Tick()
	if p.DrawCallFor(mat) != nil {
		t.Error("material with no geometry should lose its draw call")
	}
}

func TestDepthOrdersGeometry(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	deep := newQuadWidget(mat, 1)
	deep.SetDepth(5)
	shallow := newQuadWidget(mat, 1)
	shallow.SetDepth(2)
	attachQuad(t, root, "deep", deep).SetPosition(100, 0)
	attachQuad(t, root, "shallow", shallow).SetPosition(-100, 0)

	p.Tick()
	m := meshFor(t, p, mat)
	assertNear(t, "first quad x", m.Verts[0].X, -99.5)
	assertNear(t, "second quad x", m.Verts[4].X, 100.5)

	deep.SetDepth(1)
	p.Tick()
	assertNear(t, "first quad x after re-sort", m.Verts[0].X, 100.5)
	assertNear(t, "second quad x after re-sort", m.Verts[4].X, -99.5)
	if p.Widgets()[0] != Widget(deep) {
		t.Error("widget list should be sorted by depth")
	}
}

func TestDepthTiesKeepInsertionOrder(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	var ws []*quadWidget
	for i := range 4 {
		w := newQuadWidget(mat, 1)
		attachQuad(t, root, "w", w).SetPosition(float64(i*10), 0)
		ws = append(ws, w)
	}
	ws[3].SetDepth(-1)

	p.Tick()

	want := []*quadWidget{ws[3], ws[0], ws[1], ws[2]}
	for i, w := range want {
		if p.Widgets()[i] != Widget(w) {
			t.Errorf("widget %d out of order", i)
		}
	}
}

func TestOutsideToInsideScenario(t *testing.T) {
	root, p := newTestPanel()
	p.SetClipping(ClipHard)
	p.SetClipRange(Vec4{0, 0, 100, 100})
	mat := newTestMaterial("atlas")
	tr, s := addSprite(t, root, "sprite", mat, 200, 0, 10, 10)

	p.Tick()
	if p.IsVisible(s) {
		t.Error("sprite at (200, 0) should not be visible")
	}
	if len(p.DrawCalls()) != 0 {
		t.Fatalf("draw calls = %d, want 0", len(p.DrawCalls()))
	}

	tr.SetPosition(0, 0)
	p.Tick()
	if !p.IsVisible(s) {
		t.Error("sprite at (0, 0) should be visible")
	}
	if len(p.DrawCalls()) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(p.DrawCalls()))
	}
	m := meshFor(t, p, mat)
	if len(m.Verts) == 0 || len(m.Verts)%4 != 0 {
		t.Errorf("verts = %d, want a non-zero multiple of 4", len(m.Verts))
	}
	if len(m.UVs) != len(m.Verts) || len(m.Cols) != len(m.Verts) {
		t.Errorf("streams differ: verts %d, uvs %d, cols %d", len(m.Verts), len(m.UVs), len(m.Cols))
	}
}

func TestFillPanicIsIsolated(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	bad := newQuadWidget(mat, 1)
	bad.explode = true
	good := newQuadWidget(mat, 1)
	attachQuad(t, root, "bad", bad)
	attachQuad(t, root, "good", good)

	p.Tick()

	m := meshFor(t, p, mat)
	if m == nil || len(m.Verts) != 4 {
		t.Fatal("good widget's geometry should still be batched")
	}
	if good.fills != 1 || bad.fills != 1 {
		t.Errorf("fills: good %d, bad %d, want 1 each", good.fills, bad.fills)
	}
}

func TestMaterialsBatchSeparately(t *testing.T) {
	root, p := newTestPanel()
	a := newTestMaterial("a")
	b := newTestMaterial("b")
	addSprite(t, root, "a1", a, 0, 0, 10, 10)
	addSprite(t, root, "a2", a, 20, 0, 10, 10)
	_, sb := addSprite(t, root, "b1", b, 40, 0, 10, 10)

	p.Tick()
	ma, mb := meshFor(t, p, a), meshFor(t, p, b)
	if len(ma.Verts) != 8 || len(mb.Verts) != 4 {
		t.Fatalf("verts: a %d, b %d, want 8 and 4", len(ma.Verts), len(mb.Verts))
	}

	// Only the material of the changed widget is refilled.
	aSets := ma.SetCount
	sb.SetColor(Color{0, 1, 0, 1})
	p.Tick()
	if ma.SetCount != aSets {
		t.Error("untouched material should not be refilled")
	}
	if s := p.Stats(); s.MaterialsFilled != 1 {
		t.Errorf("MaterialsFilled = %d, want 1", s.MaterialsFilled)
	}
}

func TestDrawCallsOrderedByRenderQueue(t *testing.T) {
	root, p := newTestPanel()
	late := newTestMaterial("late")
	late.RenderQueue = 10
	early := newTestMaterial("early")
	addSprite(t, root, "late", late, 0, 0, 10, 10)
	addSprite(t, root, "early", early, 0, 0, 10, 10)

	p.Tick()

	dcs := p.DrawCalls()
	if len(dcs) != 2 {
		t.Fatalf("draw calls = %d, want 2", len(dcs))
	}
	if dcs[0].Material() != early || dcs[1].Material() != late {
		t.Error("draw calls should be ordered by render queue")
	}
}

func TestGenerateNormals(t *testing.T) {
	root, p := newTestPanel()
	p.SetGenerateNormals(true)
	mat := newTestMaterial("atlas")
	tr, _ := addSprite(t, root, "w", mat, 0, 0, 10, 10)
	tr.Rotation = math.Pi / 2

	p.Tick()

	m := meshFor(t, p, mat)
	if len(m.Norms) != 4 || len(m.Tans) != 4 {
		t.Fatalf("norms %d, tans %d, want 4 each", len(m.Norms), len(m.Tans))
	}
	n, tan := m.Norms[0], m.Tans[0]
	assertNear(t, "normal.z", n.Z, -1)
	assertNear(t, "tangent.x", tan.X, 0)
	assertNear(t, "tangent.y", tan.Y, 1)
	assertNear(t, "tangent.w", tan.W, -1)
}

func TestSetGenerateNormalsRefills(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	addSprite(t, root, "w", mat, 0, 0, 10, 10)
	p.Tick()

	p.SetGenerateNormals(true)
	if !p.GenerateNormals() {
		t.Fatal("GenerateNormals should report true")
	}
	p.Tick()
	m := meshFor(t, p, mat)
	if len(m.Norms) != 4 || len(m.Tans) != 4 {
		t.Fatalf("norms %d, tans %d, want 4 each", len(m.Norms), len(m.Tans))
	}

	p.SetGenerateNormals(false)
	p.Tick()
	if len(m.Norms) != 0 || len(m.Tans) != 0 {
		t.Errorf("norms %d, tans %d, want none after disabling", len(m.Norms), len(m.Tans))
	}
}

func TestClipChangeRecullsUnmovedWidgets(t *testing.T) {
	root, p := newTestPanel()
	p.SetClipping(ClipHard)
	p.SetClipRange(Vec4{0, 0, 100, 100})
	mat := newTestMaterial("atlas")
	_, s := addSprite(t, root, "w", mat, 200, 0, 10, 10)

	p.Tick()
	if p.DrawCallFor(mat) != nil || s.VisibleFlag() != 0 {
		t.Fatalf("widget outside the clip should be hidden, flag %d", s.VisibleFlag())
	}

	p.SetClipping(ClipNone)
	p.Tick()
	m := meshFor(t, p, mat)
	if m == nil || len(m.Verts) != 4 {
		t.Fatal("widget should be drawn once clipping is off")
	}
	if s.VisibleFlag() != 1 {
		t.Errorf("VisibleFlag = %d, want 1", s.VisibleFlag())
	}
	assertNear(t, "verts[0].x", m.Verts[0].X, 205)

	p.SetClipping(ClipHard)
	p.Tick()
	if p.DrawCallFor(mat) != nil || s.VisibleFlag() != 0 {
		t.Errorf("re-enabling the clip should hide the widget again, flag %d", s.VisibleFlag())
	}

	p.SetClipRange(Vec4{0, 0, 500, 100})
	p.Tick()
	if m := meshFor(t, p, mat); m == nil || len(m.Verts) != 4 {
		t.Error("widening the clip range should bring the widget back")
	}
}

func TestClipChangeWithoutFlipIsCheap(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	addSprite(t, root, "w", mat, 0, 0, 10, 10)
	p.Tick()

	p.SetClipping(ClipSoft)
	p.Tick()
	if s := p.Stats(); s.WidgetsTransformed != 0 || s.MaterialsFilled != 0 {
		t.Errorf("stats = %+v, want no work when visibility is unchanged", s)
	}
}

func TestClipSettingsPushedToDrawCalls(t *testing.T) {
	root, p := newTestPanel()
	root.SetPosition(5, 6)
	mat := newTestMaterial("atlas")
	addSprite(t, root, "w", mat, 0, 0, 10, 10)
	p.Tick()
	m := meshFor(t, p, mat)

	if m.Clip != ClipNone {
		t.Errorf("Clip = %v, want none", m.Clip)
	}
	if m.ClipRange != (Vec4{0, 0, 320, 240}) {
		t.Errorf("unclipped range = %v, want half the default screen", m.ClipRange)
	}
	assertNear(t, "transform tx", m.Transform[4], 5)
	assertNear(t, "transform ty", m.Transform[5], 6)

	p.SetClipping(ClipSoft)
	p.SetClipRange(Vec4{10, 20, 100, 50})
	p.SetClipSoftness(Vec2{4, 4})

	if m.Clip != ClipSoft {
		t.Errorf("Clip = %v, want soft", m.Clip)
	}
	if m.ClipRange != (Vec4{10, 20, 50, 25}) {
		t.Errorf("ClipRange = %v, want {10 20 50 25}", m.ClipRange)
	}
	if m.Softness != (Vec2{4, 4}) {
		t.Errorf("Softness = %v, want {4 4}", m.Softness)
	}

	p.HalfPixelOffset = true
	p.Tick()
	if m.ClipRange != (Vec4{9.5, 20.5, 50, 25}) {
		t.Errorf("half-pixel ClipRange = %v, want {9.5 20.5 50 25}", m.ClipRange)
	}
}

func TestWidgetOnPanelTransformFails(t *testing.T) {
	root, p := newTestPanel()
	s := NewTextureSprite(newTestMaterial("atlas"))
	err := Attach(root, s)
	if !errors.Is(err, ErrNoPanelRoot) {
		t.Fatalf("err = %v, want ErrNoPanelRoot", err)
	}
	if len(p.Widgets()) != 0 {
		t.Error("widget should not be registered")
	}
}

func TestAttachTwiceFails(t *testing.T) {
	root, _ := newTestPanel()
	mat := newTestMaterial("atlas")
	tr, _ := addSprite(t, root, "w", mat, 0, 0, 1, 1)
	if err := Attach(tr, NewTextureSprite(mat)); !errors.Is(err, ErrWidgetAttached) {
		t.Errorf("err = %v, want ErrWidgetAttached", err)
	}
}

func TestFindPanelCreatesOnTopMostAncestor(t *testing.T) {
	root := NewTransform("root")
	mid := NewTransform("mid")
	root.AddChild(mid)
	mat := newTestMaterial("atlas")
	_, s := addSprite(t, mid, "w", mat, 0, 0, 1, 1)

	p := root.Panel()
	if p == nil {
		t.Fatal("panel should be created on the root")
	}
	if s.Panel() != p {
		t.Error("widget should be registered with the root panel")
	}
	if FindPanel(mid, false) != p {
		t.Error("FindPanel should return the ancestor's panel")
	}
	if FindPanel(NewTransform("lone"), false) != nil {
		t.Error("FindPanel without create should return nil")
	}
}

func TestNestedPanelTakesWidgets(t *testing.T) {
	root, outer := newTestPanel()
	inner := NewTransform("scroll")
	root.AddChild(inner)
	ip := NewPanel(inner)
	ip.SetDrawCallFactory(NewMeshDrawCall)
	mat := newTestMaterial("atlas")
	_, s := addSprite(t, inner, "item", mat, 0, 0, 10, 10)

	if s.Panel() != ip {
		t.Fatal("widget should belong to the nearest panel")
	}
	outer.Tick()
	ip.Tick()
	if outer.DrawCallFor(mat) != nil {
		t.Error("outer panel should not batch the inner panel's widgets")
	}
	if ip.DrawCallFor(mat) == nil {
		t.Error("inner panel should batch its widget")
	}
}

func TestDisposeWidgetTransformPrunesNodes(t *testing.T) {
	root, p := newTestPanel()
	group := NewTransform("group")
	root.AddChild(group)
	mat := newTestMaterial("atlas")
	leaf, _ := addSprite(t, group, "leaf", mat, 0, 0, 10, 10)
	p.Tick()

	leaf.Dispose()
	p.Tick()

	if len(p.children) != 0 {
		t.Errorf("tracked nodes = %d, want 0", len(p.children))
	}
	if len(p.Widgets()) != 0 {
		t.Errorf("widgets = %d, want 0", len(p.Widgets()))
	}
	if p.DrawCallFor(mat) != nil {
		t.Error("draw call should be removed with its only widget")
	}
}

func TestDisposeKeepsSharedAncestor(t *testing.T) {
	root, p := newTestPanel()
	group := NewTransform("group")
	root.AddChild(group)
	mat := newTestMaterial("atlas")
	a, _ := addSprite(t, group, "a", mat, 0, 0, 10, 10)
	addSprite(t, group, "b", mat, 20, 0, 10, 10)
	p.Tick()

	a.Dispose()
	p.Tick()

	if p.getNode(group) == nil {
		t.Error("group still has a widget below it and should stay tracked")
	}
	if m := meshFor(t, p, mat); m == nil || len(m.Verts) != 4 {
		t.Error("remaining widget should still be batched")
	}
}

func TestDetachKeepsPathToChildWidgets(t *testing.T) {
	root, p := newTestPanel()
	groupMat := newTestMaterial("group")
	mat := newTestMaterial("atlas")
	group, groupSprite := addSprite(t, root, "group", groupMat, 0, 0, 1, 1)
	addSprite(t, group, "child", mat, 0, 0, 10, 10)
	p.Tick()

	groupSprite.Detach()
	p.Tick()

	n := p.getNode(group)
	if n == nil {
		t.Fatal("group has a widget below it and should stay tracked")
	}
	if n.widget != nil {
		t.Error("group node should no longer carry a widget")
	}
	if p.DrawCallFor(groupMat) != nil {
		t.Error("detached widget's draw call should be removed")
	}

	m := meshFor(t, p, mat)
	assertNear(t, "verts[0].x", m.Verts[0].X, 5)
	group.X = 20
	p.Tick()
	assertNear(t, "verts[0].x after move", m.Verts[0].X, 25)
}

func TestDisposePanelTransform(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	_, s := addSprite(t, root, "w", mat, 0, 0, 10, 10)
	p.Tick()
	m := meshFor(t, p, mat)

	root.Dispose()

	if !p.IsDisposed() {
		t.Error("panel should be disposed with its transform")
	}
	if !m.IsDisposed() {
		t.Error("draw calls should be disposed with the panel")
	}
	if s.Panel() != nil || s.Transform() != nil {
		t.Error("widget should be detached")
	}
	if err := p.AddWidget(s); !errors.Is(err, ErrPanelDisposed) {
		t.Errorf("AddWidget err = %v, want ErrPanelDisposed", err)
	}
	p.Tick() // no-op
}

func TestSetMaterialMovesWidget(t *testing.T) {
	root, p := newTestPanel()
	a := newTestMaterial("a")
	b := newTestMaterial("b")
	_, s := addSprite(t, root, "w", a, 0, 0, 10, 10)
	p.Tick()

	if err := s.SetMaterial(b); err != nil {
		t.Fatal(err)
	}
	p.Tick()

	if p.DrawCallFor(a) != nil {
		t.Error("old material should lose its draw call")
	}
	if m := meshFor(t, p, b); m == nil || len(m.Verts) != 4 {
		t.Error("new material should batch the widget")
	}
}

func TestInitForcesRebuild(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	addSprite(t, root, "w", mat, 0, 0, 10, 10)
	p.Tick()
	p.Tick()

	p.Init()
	p.Tick()

	s := p.Stats()
	if s.WidgetsRebuilt != 1 || s.MaterialsFilled != 1 {
		t.Errorf("stats after Init = %+v, want one rebuild and one fill", s)
	}
}

func TestWidgetAttachedToTrackedAncestor(t *testing.T) {
	root, p := newTestPanel()
	group := NewTransform("group")
	root.AddChild(group)
	mat := newTestMaterial("atlas")
	addSprite(t, group, "child", mat, 0, 0, 10, 10)
	p.Tick()
	p.Tick()

	// group is already tracked as an ancestor node; a widget placed on it
	// must still be evaluated.
	s := NewTextureSprite(mat)
	if err := Attach(group, s); err != nil {
		t.Fatal(err)
	}
	p.Tick()

	if s.VisibleFlag() != 1 {
		t.Errorf("VisibleFlag = %d, want 1", s.VisibleFlag())
	}
	if m := meshFor(t, p, mat); len(m.Verts) != 8 {
		t.Errorf("verts = %d, want 8", len(m.Verts))
	}
}

func TestSetDrawCallFactoryRecreates(t *testing.T) {
	root, p := newTestPanel()
	mat := newTestMaterial("atlas")
	addSprite(t, root, "w", mat, 0, 0, 10, 10)
	p.Tick()
	old := meshFor(t, p, mat)

	var created int
	p.SetDrawCallFactory(func(m *Material) DrawCall {
		created++
		return NewMeshDrawCall(m)
	})
	if !old.IsDisposed() {
		t.Error("old draw call should be disposed")
	}
	p.Tick()
	if created != 1 || p.DrawCallFor(mat) == nil {
		t.Errorf("created = %d, want 1 recreated draw call", created)
	}
}
