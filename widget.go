package quill

import (
	"cmp"
	"errors"
	"image"
	"math"
)

// ErrWidgetAttached is returned when a transform already carries a widget.
var ErrWidgetAttached = errors.New("quill: transform already has a widget")

// Material pairs a texture with the blend state its geometry is drawn with.
// Widgets sharing a *Material are batched into the same draw call; identity
// is by pointer.
type Material struct {
	Name    string
	Texture image.Image
	Blend   BlendMode

	// RenderQueue orders draw calls within a panel, lowest first.
	RenderQueue int
}

// NewMaterial creates a material for the given texture.
func NewMaterial(name string, tex image.Image) *Material {
	return &Material{Name: name, Texture: tex}
}

// TextureSize returns the texture's pixel dimensions, or (0, 0) without one.
func (m *Material) TextureSize() (w, h int) {
	if m == nil || m.Texture == nil {
		return 0, 0
	}
	b := m.Texture.Bounds()
	return b.Dx(), b.Dy()
}

// Widget is anything a panel can batch. Concrete widgets embed WidgetBase,
// which provides Base, and implement OnFill.
//
// Widgets may also implement:
//
//	OnUpdate() bool       // report a visual change detected during the panel update
//	RelativeSize() Vec2   // visible size in transform units, (1, 1) by default
type Widget interface {
	Base() *WidgetBase
	// OnFill appends widget-local geometry spanning (0,0)-(size.X,-size.Y).
	OnFill(g *Geometry)
}

type updater interface {
	OnUpdate() bool
}

type sizer interface {
	RelativeSize() Vec2
}

// RelativeSize returns the widget's visible size in transform units.
func RelativeSize(w Widget) Vec2 {
	if s, ok := w.(sizer); ok {
		return s.RelativeSize()
	}
	return Vec2{1, 1}
}

// WidgetBase holds the state every widget shares: material, color, pivot,
// depth and the bookkeeping flags used by its panel.
type WidgetBase struct {
	self  Widget
	trans *Transform
	panel *Panel

	mat     *Material
	color   Color
	pivot   Pivot
	depth   int
	enabled bool

	changed     bool
	visibleFlag int8
}

// initWidgetBase sets the common default field values shared by all constructors.
func initWidgetBase(b *WidgetBase, mat *Material) {
	b.mat = mat
	b.color = ColorWhite
	b.pivot = PivotCenter
	b.enabled = true
	b.changed = true
	b.visibleFlag = visibleUnknown
}

// Base returns the widget's shared state.
func (b *WidgetBase) Base() *WidgetBase {
	return b
}

// Attach places w on t and registers it with the nearest panel above t,
// creating one on the top-most ancestor when none exists.
func Attach(t *Transform, w Widget) error {
	if t.widget != nil {
		return ErrWidgetAttached
	}
	b := w.Base()
	if b.trans != nil {
		b.Detach()
	}
	b.self = w
	b.trans = t
	t.widget = w
	return b.createPanel()
}

// createPanel ensures the widget is registered with a panel.
func (b *WidgetBase) createPanel() error {
	if b.panel != nil || b.mat == nil || b.trans == nil {
		return nil
	}
	p := FindPanel(b.trans, true)
	b.changed = true
	if err := p.AddWidget(b.self); err != nil {
		Logger().Error("widget not added", "widget", b.trans.Path(), "err", err)
		return err
	}
	b.panel = p
	return nil
}

// Detach unregisters the widget from its panel and removes it from its
// transform.
func (b *WidgetBase) Detach() {
	t := b.trans
	if t == nil {
		return
	}
	if t.widget == b.self {
		t.widget = nil
	}
	if b.panel != nil {
		b.panel.RemoveWidget(b.self)
		b.panel = nil
	}
	b.trans = nil
}

// Transform returns the transform the widget is attached to.
func (b *WidgetBase) Transform() *Transform {
	return b.trans
}

// Panel returns the panel managing the widget, or nil.
func (b *WidgetBase) Panel() *Panel {
	return b.panel
}

// Material returns the widget's material.
func (b *WidgetBase) Material() *Material {
	return b.mat
}

// SetMaterial moves the widget to another material. The widget is removed
// from its panel and registered again so the old batch loses its geometry.
func (b *WidgetBase) SetMaterial(m *Material) error {
	if b.mat == m {
		return nil
	}
	if b.panel != nil {
		b.panel.RemoveWidget(b.self)
		b.panel = nil
	}
	b.mat = m
	return b.createPanel()
}

// Color returns the widget's tint.
func (b *WidgetBase) Color() Color {
	return b.color
}

// SetColor sets the widget's tint and flags its geometry for rebuild.
func (b *WidgetBase) SetColor(c Color) {
	if b.color != c {
		b.color = c
		b.changed = true
	}
}

// Pivot returns the widget's anchor.
func (b *WidgetBase) Pivot() Pivot {
	return b.pivot
}

// SetPivot sets the widget's anchor and flags its geometry for rebuild.
func (b *WidgetBase) SetPivot(p Pivot) {
	if b.pivot != p {
		b.pivot = p
		b.changed = true
	}
}

// PivotOffset returns the pivot's offset in relative units.
func (b *WidgetBase) PivotOffset() Vec2 {
	return b.pivot.Offset()
}

// Depth returns the widget's draw order key, lowest drawn first.
func (b *WidgetBase) Depth() int {
	return b.depth
}

// SetDepth changes the draw order and asks the panel to re-sort.
func (b *WidgetBase) SetDepth(d int) {
	if b.depth == d {
		return
	}
	b.depth = d
	if b.panel != nil {
		b.panel.MarkDepthAsChanged(b.mat)
	}
}

// Enabled reports whether the widget is enabled.
func (b *WidgetBase) Enabled() bool {
	return b.enabled
}

// SetEnabled enables or disables the widget.
func (b *WidgetBase) SetEnabled(enabled bool) {
	if b.enabled == enabled {
		return
	}
	b.enabled = enabled
	if enabled {
		b.changed = true
	}
	if b.panel != nil {
		b.panel.MarkMaterialAsChanged(b.mat)
	}
}

// MarkAsChanged flags the widget's geometry for rebuild on the next tick.
func (b *WidgetBase) MarkAsChanged() {
	b.changed = true
}

// VisibleFlag returns -1 before the panel has evaluated the widget, then 0
// (hidden) or 1 (visible).
func (b *WidgetBase) VisibleFlag() int {
	return int(b.visibleFlag)
}

// MakePixelPerfect rounds the transform's position and scale to whole pixels,
// nudging odd sizes by half a pixel so centered edges land on pixel borders.
func (b *WidgetBase) MakePixelPerfect() {
	t := b.trans
	if t == nil {
		return
	}
	x := math.Round(t.X)
	y := math.Round(t.Y)
	w := math.Round(t.ScaleX)
	h := math.Round(t.ScaleY)

	switch b.pivot {
	case PivotTop, PivotCenter, PivotBottom:
		if int(w)%2 != 0 {
			x += 0.5
		}
	}
	switch b.pivot {
	case PivotLeft, PivotCenter, PivotRight:
		if int(h)%2 != 0 {
			y -= 0.5
		}
	}
	t.X, t.Y = x, y
	t.ScaleX, t.ScaleY = w, h
}

// panelUpdate reports whether the widget's geometry must be refilled and
// clears the changed flag. Widgets without a material never update.
func (b *WidgetBase) panelUpdate() bool {
	if b.mat == nil {
		return false
	}
	changed := b.changed
	if u, ok := b.self.(updater); ok && u.OnUpdate() {
		changed = true
	}
	b.changed = false
	return changed
}

// compareDepth orders widgets by ascending depth.
func compareDepth(a, b Widget) int {
	return cmp.Compare(a.Base().depth, b.Base().depth)
}
