package quill

import "fmt"

// Change and visibility flag values. -1 means "not yet determined this frame".
const (
	flagUnknown   int8 = -1
	flagUnchanged int8 = 0
	flagChanged   int8 = 1

	visibleUnknown int8 = -1
	visibleHidden  int8 = 0
	visibleShown   int8 = 1
)

// alphaEpsilon is the alpha below which a widget counts as fully transparent.
const alphaEpsilon = 0.001

// Geometry holds widget-local vertex streams. Every vertex has exactly one
// UV and one color. Widgets append to it from OnFill; quads are emitted as
// four consecutive vertices.
type Geometry struct {
	Verts []Vec3
	UVs   []Vec2
	Cols  []Color
}

// Len returns the vertex count.
func (g *Geometry) Len() int {
	return len(g.Verts)
}

// Clear truncates all streams, keeping their capacity.
func (g *Geometry) Clear() {
	g.Verts = g.Verts[:0]
	g.UVs = g.UVs[:0]
	g.Cols = g.Cols[:0]
}

// AddQuad appends four vertices sharing one color.
func (g *Geometry) AddQuad(v [4]Vec3, uv [4]Vec2, c Color) {
	g.Verts = append(g.Verts, v[0], v[1], v[2], v[3])
	g.UVs = append(g.UVs, uv[0], uv[1], uv[2], uv[3])
	g.Cols = append(g.Cols, c, c, c, c)
}

// node is the panel's record for one tracked transform: a snapshot of last
// frame's local state for change detection, plus the widget's geometry cache.
// Nodes without a widget only keep the path between a panel and deeper
// widget nodes connected.
type node struct {
	trans  *Transform
	widget Widget

	fresh      bool
	lastActive bool
	lastPos    Vec2
	lastRot    float64
	lastScale  Vec2

	changeFlag int8
	ownVisible int8

	// Widget-local geometry, rebuilt destructively on refill.
	geom Geometry

	// Relative-to-panel vertices and the widget's flat normal and tangent.
	rtpVerts  []Vec3
	rtpNormal Vec3
	rtpTan    Vec4
}

func newNode(t *Transform) *node {
	return &node{
		trans:      t,
		fresh:      true,
		lastPos:    Vec2{t.X, t.Y},
		lastRot:    t.Rotation,
		lastScale:  Vec2{t.ScaleX, t.ScaleY},
		changeFlag: flagUnknown,
		ownVisible: visibleUnknown,
	}
}

// visibleFlag returns the widget's flag when a widget is attached, otherwise
// the node's own.
func (n *node) visibleFlag() int8 {
	if n.widget != nil {
		return n.widget.Base().visibleFlag
	}
	return n.ownVisible
}

func (n *node) setVisibleFlag(v int8) {
	if n.widget != nil {
		n.widget.Base().visibleFlag = v
		return
	}
	n.ownVisible = v
}

// hasChanged compares the transform's local state against the snapshot taken
// last time, refreshing the snapshot when it differs. A node that has never
// been evaluated always reports a change.
func (n *node) hasChanged() bool {
	t := n.trans
	isActive := t.ActiveInHierarchy()
	if isActive && n.widget != nil {
		b := n.widget.Base()
		isActive = b.enabled && b.color.A > alphaEpsilon
	}

	pos := Vec2{t.X, t.Y}
	scale := Vec2{t.ScaleX, t.ScaleY}

	if n.fresh || n.lastActive != isActive || (isActive &&
		(n.lastPos != pos || n.lastRot != t.Rotation || n.lastScale != scale)) {
		n.fresh = false
		n.lastActive = isActive
		n.lastPos = pos
		n.lastRot = t.Rotation
		n.lastScale = scale
		return true
	}
	return false
}

// rebuild clears the node's buffers, asks the widget to fill them, and shifts
// every vertex by offset. A panic inside the widget's fill leaves the node
// with no geometry and is returned as an error.
func (n *node) rebuild(offset Vec2) (err error) {
	n.geom.Clear()
	n.rtpVerts = n.rtpVerts[:0]

	defer func() {
		if r := recover(); r != nil {
			n.geom.Clear()
			err = fmt.Errorf("quill: fill %s: %v", n.trans.Path(), r)
		}
	}()

	n.widget.OnFill(&n.geom)

	if len(n.geom.UVs) != len(n.geom.Verts) || len(n.geom.Cols) != len(n.geom.Verts) {
		vc, uc, cc := len(n.geom.Verts), len(n.geom.UVs), len(n.geom.Cols)
		n.geom.Clear()
		return fmt.Errorf("quill: fill %s: mismatched streams (verts %d, uvs %d, cols %d)",
			n.trans.Path(), vc, uc, cc)
	}

	for i := range n.geom.Verts {
		n.geom.Verts[i].X += offset.X
		n.geom.Verts[i].Y += offset.Y
	}
	return nil
}

// transformVerts maps the widget-local vertices into panel space and derives
// the widget's single normal and tangent from the same matrix.
func (n *node) transformVerts(widgetToPanel [6]float64) {
	n.rtpVerts = n.rtpVerts[:0]
	if len(n.geom.Verts) == 0 {
		return
	}

	for _, v := range n.geom.Verts {
		x, y := transformPoint(widgetToPanel, v.X, v.Y)
		n.rtpVerts = append(n.rtpVerts, Vec3{x, y, v.Z})
	}

	n.rtpNormal = transformVector(widgetToPanel, Vec3{0, 0, -1}).normalized()
	tan := transformVector(widgetToPanel, Vec3{1, 0, 0}).normalized()
	n.rtpTan = Vec4{tan.X, tan.Y, tan.Z, -1}
}

// fill appends the node's panel-space streams to the batcher's scratch
// buffers. Normals and tangents are only written when withNormals is set.
func (n *node) fill(b *batcher, withNormals bool) {
	if len(n.rtpVerts) == 0 {
		return
	}
	b.verts = append(b.verts, n.rtpVerts...)
	b.uvs = append(b.uvs, n.geom.UVs...)
	b.cols = append(b.cols, n.geom.Cols...)
	if withNormals {
		for range n.rtpVerts {
			b.norms = append(b.norms, n.rtpNormal)
			b.tans = append(b.tans, n.rtpTan)
		}
	}
}
