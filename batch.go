package quill

import "slices"

// batcher owns the scratch buffers a panel fills draw calls from. The buffers
// are truncated after every fill and reused, so steady-state batching does
// not allocate.
type batcher struct {
	verts []Vec3
	norms []Vec3
	tans  []Vec4
	uvs   []Vec2
	cols  []Color
}

func (b *batcher) reset() {
	b.verts = b.verts[:0]
	b.norms = b.norms[:0]
	b.tans = b.tans[:0]
	b.uvs = b.uvs[:0]
	b.cols = b.cols[:0]
}

// materialSet is an insertion-ordered set of materials.
type materialSet struct {
	order []*Material
	index map[*Material]struct{}
}

func (s *materialSet) add(m *Material) {
	if m == nil {
		return
	}
	if s.index == nil {
		s.index = make(map[*Material]struct{})
	}
	if _, ok := s.index[m]; ok {
		return
	}
	s.index[m] = struct{}{}
	s.order = append(s.order, m)
}

func (s *materialSet) has(m *Material) bool {
	_, ok := s.index[m]
	return ok
}

func (s *materialSet) len() int {
	return len(s.order)
}

func (s *materialSet) clear() {
	clear(s.index)
	clear(s.order)
	s.order = s.order[:0]
}

// fill gathers the panel-space geometry of every visible widget using mat,
// in depth order, and hands it to the material's draw call. A material with
// no geometry loses its draw call.
func (p *Panel) fill(mat *Material) {
	b := &p.batcher
	for _, w := range p.widgets {
		base := w.Base()
		if base.mat != mat || base.visibleFlag != visibleShown {
			continue
		}
		n := p.getNode(base.trans)
		if n == nil {
			logger.Warn("widget has no panel node", "widget", base.trans.Path(), "panel", p.trans.Name)
			continue
		}
		n.fill(b, p.normals)
	}

	if len(b.verts) > 0 {
		dc := p.drawCall(mat, true)
		if p.normals {
			dc.Set(b.verts, b.norms, b.tans, b.uvs, b.cols)
		} else {
			dc.Set(b.verts, nil, nil, b.uvs, b.cols)
		}
		p.stats.VerticesBatched += len(b.verts)
	} else {
		p.removeDrawCall(mat)
	}
	b.reset()
}

// drawCall returns the draw call for mat, creating it when create is set.
func (p *Panel) drawCall(mat *Material, create bool) DrawCall {
	for _, dc := range p.drawCalls {
		if dc.Material() == mat {
			return dc
		}
	}
	if !create {
		return nil
	}
	dc := p.factory(mat)
	dc.SetClip(p.clipping, p.clipRangeForDrawCalls(), p.clipSoftness)
	dc.SetTransform(p.trans.LocalToWorld())

	// Keep draw calls ordered by render queue; ties keep creation order.
	i := len(p.drawCalls)
	for i > 0 && p.drawCalls[i-1].Material().RenderQueue > mat.RenderQueue {
		i--
	}
	p.drawCalls = slices.Insert(p.drawCalls, i, dc)
	return dc
}

// removeDrawCall disposes and forgets the draw call for mat, if any.
func (p *Panel) removeDrawCall(mat *Material) {
	for i, dc := range p.drawCalls {
		if dc.Material() == mat {
			p.drawCalls = slices.Delete(p.drawCalls, i, i+1)
			dc.Dispose()
			return
		}
	}
}
