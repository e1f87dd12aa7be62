package quill

// updateWidgets refills the geometry of visible widgets that asked for it and
// moves the vertices of changed widgets into panel space.
func (p *Panel) updateWidgets() {
	for _, n := range p.children {
		if n.widget == nil || n.visibleFlag() != visibleShown {
			continue
		}
		b := n.widget.Base()

		if b.panelUpdate() || len(n.geom.Verts) == 0 {
			offset := b.PivotOffset().Mul(RelativeSize(n.widget))
			if err := n.rebuild(offset); err != nil {
				logger.Error("widget fill failed", "widget", n.trans.Path(), "err", err)
			}
			p.changed.add(b.mat)
			p.stats.WidgetsRebuilt++
		}

		if len(n.geom.Verts) > 0 &&
			(n.changeFlag == flagChanged || len(n.rtpVerts) != len(n.geom.Verts)) {
			n.transformVerts(multiplyAffine(p.worldToLocal, n.trans.LocalToWorld()))
			p.stats.WidgetsTransformed++
		}
	}
}
