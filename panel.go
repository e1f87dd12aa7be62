package quill

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Default screen size used for clip ranges with a zero width or height until
// SetScreenSize (or a Stage layout) provides the real one.
const (
	defaultScreenWidth  = 640
	defaultScreenHeight = 480
)

var (
	// ErrNoPanelRoot is returned when a widget sits on the panel's own
	// transform, leaving no path of tracked transforms below the panel.
	ErrNoPanelRoot = errors.New("quill: no transform between widget and panel")

	// ErrPanelDisposed is returned when adding widgets to a disposed panel.
	ErrPanelDisposed = errors.New("quill: panel is disposed")
)

// Panel collects the widgets below its transform, tracks which of them moved
// since the last frame, rebuilds their geometry where needed, culls against
// the clip rectangle and batches everything into one draw call per material.
//
// A panel does nothing until Tick is called, once per frame.
type Panel struct {
	trans *Transform

	// HalfPixelOffset shifts the clip range by half a pixel for targets that
	// sample texels at their corners.
	HalfPixelOffset bool

	normals      bool
	clipping     ClipMode
	clipRange    Vec4
	clipSoftness Vec2
	screenW      float64
	screenH      float64

	children  map[*Transform]*node
	widgets   []Widget
	changed   materialSet
	drawCalls []DrawCall
	batcher   batcher
	factory   DrawCallFactory

	depthChanged bool
	rebuildAll   bool
	recull       bool

	// Per-frame world-to-local matrix and clip bounds in panel space.
	frame        int
	matrixFrame  int
	worldToLocal [6]float64
	clipMin      Vec2
	clipMax      Vec2

	// Scratch reused by the dirty tracker.
	hierarchy []*node
	removed   []*Transform

	debug    bool
	stats    FrameStats
	disposed bool
}

// NewPanel attaches a panel to t. If t already has a panel it is returned.
func NewPanel(t *Transform) *Panel {
	if t.panel != nil {
		return t.panel
	}
	p := &Panel{
		trans:        t,
		clipSoftness: Vec2{40, 40},
		screenW:      defaultScreenWidth,
		screenH:      defaultScreenHeight,
		children:     make(map[*Transform]*node),
		factory:      NewEbitenDrawCall,
		worldToLocal: identityTransform,
		matrixFrame:  -1,
		rebuildAll:   true,
	}
	t.panel = p
	return p
}

// FindPanel returns the nearest panel at or above t. When none exists and
// create is set, a panel is attached to the top-most ancestor of t.
func FindPanel(t *Transform, create bool) *Panel {
	for c := t; c != nil; c = c.Parent {
		if c.panel != nil {
			return c.panel
		}
		if c.Parent == nil && create {
			return NewPanel(c)
		}
	}
	return nil
}

// Transform returns the transform the panel is attached to.
func (p *Panel) Transform() *Transform {
	return p.trans
}

// Widgets returns the managed widgets in draw order. The returned slice MUST
// NOT be mutated by the caller.
func (p *Panel) Widgets() []Widget {
	return p.widgets
}

// DrawCalls returns the live draw calls ordered by render queue. The returned
// slice MUST NOT be mutated by the caller.
func (p *Panel) DrawCalls() []DrawCall {
	return p.drawCalls
}

// DrawCallFor returns the draw call batching mat, or nil.
func (p *Panel) DrawCallFor(mat *Material) DrawCall {
	return p.drawCall(mat, false)
}

// SetDrawCallFactory replaces the function used to create draw calls.
// Existing draw calls are disposed and recreated on the next Tick.
func (p *Panel) SetDrawCallFactory(f DrawCallFactory) {
	if f == nil {
		f = NewEbitenDrawCall
	}
	p.factory = f
	for _, dc := range p.drawCalls {
		p.changed.add(dc.Material())
		dc.Dispose()
	}
	p.drawCalls = p.drawCalls[:0]
}

// IsDisposed reports whether Dispose has been called.
func (p *Panel) IsDisposed() bool {
	return p.disposed
}

// Init re-registers every widget and forces a full rebuild on the next Tick.
func (p *Panel) Init() {
	if p.disposed {
		return
	}
	clear(p.children)
	for _, w := range p.widgets {
		b := w.Base()
		if n := p.addTransform(b.trans); n != nil {
			n.widget = w
		}
		p.changed.add(b.mat)
	}
	p.depthChanged = true
	p.rebuildAll = true
}

// Dispose destroys every draw call and detaches the panel from its
// transform. Widgets that were managed by the panel are left without one.
func (p *Panel) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	for _, dc := range p.drawCalls {
		dc.Dispose()
	}
	p.drawCalls = nil
	p.changed.clear()
	clear(p.children)
	for _, w := range p.widgets {
		if b := w.Base(); b.panel == p {
			b.panel = nil
		}
	}
	p.widgets = nil
	if p.trans.panel == p {
		p.trans.panel = nil
	}
}

// Tick runs one frame: change detection, geometry rebuild, depth sort,
// batching of changed materials and the clip update of every draw call.
func (p *Panel) Tick() {
	if p.disposed {
		return
	}
	p.frame++
	p.stats = FrameStats{Frame: p.frame}

	var start time.Time
	if p.debug {
		start = time.Now()
	}

	p.updateTransformMatrix()
	p.updateTransforms()

	var mark time.Time
	if p.debug {
		mark = time.Now()
		p.stats.TransformTime = mark.Sub(start)
	}

	p.updateWidgets()

	if p.depthChanged {
		p.depthChanged = false
		slices.SortStableFunc(p.widgets, compareDepth)
	}

	if p.debug {
		now := time.Now()
		p.stats.WidgetTime = now.Sub(mark)
		mark = now
	}

	for _, mat := range p.changed.order {
		p.fill(mat)
	}
	p.stats.MaterialsFilled = p.changed.len()

	p.updateDrawCalls()
	p.changed.clear()
	p.rebuildAll = false

	p.stats.NodesTracked = len(p.children)
	p.stats.Widgets = len(p.widgets)
	p.stats.DrawCalls = len(p.drawCalls)
	if p.debug {
		p.stats.FillTime = time.Since(mark)
		p.debugLog()
	}
}

// Draw renders every draw call that can draw itself onto target, in render
// queue order.
func (p *Panel) Draw(target *ebiten.Image) {
	for _, dc := range p.drawCalls {
		if d, ok := dc.(interface{ Draw(*ebiten.Image) }); ok {
			d.Draw(target)
		}
	}
}

// AddWidget starts tracking w and every transform between it and the panel.
func (p *Panel) AddWidget(w Widget) error {
	if p.disposed {
		return ErrPanelDisposed
	}
	if w == nil {
		return nil
	}
	b := w.Base()
	n := p.addTransform(b.trans)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrNoPanelRoot, b.trans.Path())
	}
	if p.debug {
		p.debugCheckTreeDepth(b.trans)
	}
	if n.widget != w {
		n.widget = w
		// A node created for an ancestor path has already been evaluated;
		// force the new widget through visibility on the next tick.
		n.fresh = true
	}
	if !slices.Contains(p.widgets, w) {
		p.widgets = append(p.widgets, w)
		p.changed.add(b.mat)
		p.depthChanged = true
	}
	return nil
}

// RemoveWidget stops tracking w. Its material is rebuilt on the next Tick if
// the widget was visible.
func (p *Panel) RemoveWidget(w Widget) {
	if w == nil {
		return
	}
	b := w.Base()
	if n := p.getNode(b.trans); n != nil {
		if n.visibleFlag() == visibleShown {
			p.changed.add(b.mat)
		}
		p.removeTransform(b.trans)
	}
	b.visibleFlag = visibleUnknown
	p.widgets = slices.DeleteFunc(p.widgets, func(o Widget) bool { return o == w })
}

// GenerateNormals reports whether draw calls receive a normal and tangent
// per vertex.
func (p *Panel) GenerateNormals() bool {
	return p.normals
}

// SetGenerateNormals turns per-vertex normals and tangents on or off. Every
// existing draw call is refilled on the next Tick.
func (p *Panel) SetGenerateNormals(on bool) {
	if p.normals == on {
		return
	}
	p.normals = on
	for _, dc := range p.drawCalls {
		p.changed.add(dc.Material())
	}
}

// MarkDepthAsChanged schedules a depth re-sort and a refill of mat.
func (p *Panel) MarkDepthAsChanged(mat *Material) {
	p.depthChanged = true
	p.changed.add(mat)
}

// MarkMaterialAsChanged schedules a refill of mat on the next Tick.
func (p *Panel) MarkMaterialAsChanged(mat *Material) {
	p.changed.add(mat)
}

func (p *Panel) getNode(t *Transform) *node {
	if t == nil {
		return nil
	}
	return p.children[t]
}

// addTransform tracks t and its ancestors up to (excluding) the panel's
// transform, stopping at the first one already tracked. It returns t's node,
// or nil when t is the panel's transform.
func (p *Panel) addTransform(t *Transform) *node {
	var ret *node
	for t != nil && t != p.trans {
		if n, ok := p.children[t]; ok {
			if ret == nil {
				ret = n
			}
			break
		}
		n := newNode(t)
		if ret == nil {
			ret = n
		}
		p.children[t] = n
		t = t.Parent
	}
	return ret
}

// removeTransform forgets t and walks up, forgetting ancestors until it
// reaches the panel or a transform still carrying widgets below it. When t
// itself has widgets below it, its node stays as a plain path node.
func (p *Panel) removeTransform(t *Transform) {
	if n := p.children[t]; n != nil && hasWidgetBelow(t) {
		n.widget = nil
		return
	}
	for t != nil {
		if _, ok := p.children[t]; !ok {
			return
		}
		delete(p.children, t)
		t = t.Parent
		if t == nil || t == p.trans || hasWidgetInSubtree(t) {
			return
		}
	}
}
