package quill

import (
	"math"
	"strings"
)

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// transformIDCounter is a plain counter (no atomic — quill is single-threaded).
var transformIDCounter uint32

func nextTransformID() uint32 {
	transformIDCounter++
	return transformIDCounter
}

// Transform is one element of the host scene graph: a local position,
// rotation and scale, an active flag, and a parent/children hierarchy.
// Panels watch transforms but never own them; destroying a transform is
// always done through Dispose.
//
// Local fields may be written directly. Panels detect the change on their
// next Tick by comparing against the previous frame's snapshot, so no
// dirty marking is required.
type Transform struct {
	ID   uint32
	Name string

	Parent   *Transform
	children []*Transform

	// Local transform. Rotation is in radians, counter-clockwise.
	X, Y     float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64

	active   bool
	disposed bool

	// Components attached to this transform.
	widget Widget
	panel  *Panel
}

// NewTransform creates an active transform at the origin with unit scale.
func NewTransform(name string) *Transform {
	return &Transform{
		ID:     nextTransformID(),
		Name:   name,
		ScaleX: 1,
		ScaleY: 1,
		active: true,
	}
}

// --- Tree manipulation ---

// AddChild appends child to this transform's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this transform (cycle).
func (t *Transform) AddChild(child *Transform) {
	if child == nil {
		panic("quill: cannot add nil child")
	}
	if isAncestor(child, t) {
		panic("quill: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = t
	t.children = append(t.children, child)
}

// RemoveChild detaches child from this transform.
// Panics if child.Parent != t.
func (t *Transform) RemoveChild(child *Transform) {
	if child.Parent != t {
		panic("quill: child's parent is not this transform")
	}
	t.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this transform from its parent.
// No-op if this transform has no parent.
func (t *Transform) RemoveFromParent() {
	if t.Parent == nil {
		return
	}
	t.Parent.RemoveChild(t)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (t *Transform) Children() []*Transform {
	return t.children
}

// NumChildren returns the number of children.
func (t *Transform) NumChildren() int {
	return len(t.children)
}

// ChildAt returns the child at the given index.
func (t *Transform) ChildAt(index int) *Transform {
	return t.children[index]
}

// --- Activation ---

// Active reports this transform's own active flag.
func (t *Transform) Active() bool {
	return t.active
}

// SetActive sets this transform's own active flag. Descendants inherit an
// inactive ancestor through ActiveInHierarchy.
func (t *Transform) SetActive(active bool) {
	t.active = active
}

// ActiveInHierarchy reports whether this transform and all its ancestors are
// active and not disposed.
func (t *Transform) ActiveInHierarchy() bool {
	for p := t; p != nil; p = p.Parent {
		if !p.active || p.disposed {
			return false
		}
	}
	return true
}

// --- Components ---

// Widget returns the widget attached to this transform, or nil.
func (t *Transform) Widget() Widget {
	return t.widget
}

// Panel returns the panel attached to this transform, or nil.
func (t *Transform) Panel() *Panel {
	return t.panel
}

// hasWidgetInSubtree reports whether t or any descendant carries a widget.
func hasWidgetInSubtree(t *Transform) bool {
	if t.widget != nil {
		return true
	}
	for _, c := range t.children {
		if hasWidgetInSubtree(c) {
			return true
		}
	}
	return false
}

// hasWidgetBelow reports whether any descendant of t carries a widget.
func hasWidgetBelow(t *Transform) bool {
	for _, c := range t.children {
		if hasWidgetInSubtree(c) {
			return true
		}
	}
	return false
}

// --- Disposal ---

// Dispose unregisters every widget and panel attached to this transform or
// its descendants, detaches it from its parent and marks the whole subtree
// as disposed.
func (t *Transform) Dispose() {
	if t.disposed {
		return
	}
	t.releaseComponents()
	t.RemoveFromParent()
	t.dispose()
}

// releaseComponents detaches widgets bottom-up while the hierarchy is still
// intact, so panels can prune intermediate nodes on the way up.
func (t *Transform) releaseComponents() {
	for _, child := range t.children {
		child.releaseComponents()
	}
	if w := t.widget; w != nil {
		w.Base().Detach()
	}
	if p := t.panel; p != nil {
		p.Dispose()
	}
}

func (t *Transform) dispose() {
	t.disposed = true
	for _, child := range t.children {
		child.Parent = nil
		child.dispose()
	}
	t.children = nil
}

// IsDisposed returns true if this transform has been disposed.
func (t *Transform) IsDisposed() bool {
	return t.disposed
}

// Path returns the slash-separated names from the root down to t, used in
// diagnostics.
func (t *Transform) Path() string {
	var parts []string
	for p := t; p != nil; p = p.Parent {
		parts = append(parts, p.Name)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
		if i > 0 {
			b.WriteByte('/')
		}
	}
	return b.String()
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of (or equal to) t.
func isAncestor(candidate, t *Transform) bool {
	for p := t; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from t.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (t *Transform) removeChildByPtr(child *Transform) {
	for i, c := range t.children {
		if c == child {
			copy(t.children[i:], t.children[i+1:])
			t.children[len(t.children)-1] = nil
			t.children = t.children[:len(t.children)-1]
			return
		}
	}
}

// --- Matrices ---

// LocalMatrix computes the local affine matrix. Returns [a, b, c, d, tx, ty].
//
// Composition order: Scale -> Rotate -> Translate(X, Y)
func (t *Transform) LocalMatrix() [6]float64 {
	sin, cos := math.Sincos(t.Rotation)
	return [6]float64{
		cos * t.ScaleX, sin * t.ScaleX,
		-sin * t.ScaleY, cos * t.ScaleY,
		t.X, t.Y,
	}
}

// LocalToWorld returns the matrix mapping this transform's local space to
// world space. It walks the parent chain on every call.
func (t *Transform) LocalToWorld() [6]float64 {
	m := t.LocalMatrix()
	for p := t.Parent; p != nil; p = p.Parent {
		m = multiplyAffine(p.LocalMatrix(), m)
	}
	return m
}

// WorldToLocal returns the inverse of LocalToWorld.
func (t *Transform) WorldToLocal() [6]float64 {
	return invertAffine(t.LocalToWorld())
}

// TransformPoint converts a local-space point to world space.
func (t *Transform) TransformPoint(x, y float64) (wx, wy float64) {
	return transformPoint(t.LocalToWorld(), x, y)
}

// InverseTransformPoint converts a world-space point to local space.
func (t *Transform) InverseTransformPoint(wx, wy float64) (x, y float64) {
	return transformPoint(t.WorldToLocal(), wx, wy)
}

// SetPosition sets the local X and Y.
func (t *Transform) SetPosition(x, y float64) {
	t.X = x
	t.Y = y
}

// SetScale sets ScaleX and ScaleY.
func (t *Transform) SetScale(sx, sy float64) {
	t.ScaleX = sx
	t.ScaleY = sy
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// transformVector applies the linear part of an affine matrix to a direction.
// The matrix acts on the XY plane only, so Z passes through unchanged.
func transformVector(m [6]float64, v Vec3) Vec3 {
	return Vec3{m[0]*v.X + m[2]*v.Y, m[1]*v.X + m[3]*v.Y, v.Z}
}
