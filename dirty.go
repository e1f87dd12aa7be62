package quill

import "slices"

// updateTransforms compares every tracked transform against last frame's
// snapshot, drops disposed ones, then resolves the change flag of widget
// nodes from their ancestors and re-evaluates visibility where it changed.
func (p *Panel) updateTransforms() {
	moved := false
	for t, n := range p.children {
		if t.IsDisposed() {
			p.removed = append(p.removed, t)
			continue
		}
		if n.hasChanged() {
			n.changeFlag = flagChanged
			moved = true
			p.stats.NodesChanged++
		} else {
			n.changeFlag = flagUnknown
		}
	}

	if len(p.removed) > 0 {
		p.sweepRemoved()
	}

	recull := p.recull
	p.recull = false
	if !moved && !p.rebuildAll && !recull {
		for _, n := range p.children {
			n.changeFlag = flagUnchanged
		}
		return
	}

	// Propagate changes down the hierarchy by resolving each widget's flag
	// from its nearest evaluated ancestor.
	for _, n := range p.children {
		if n.widget == nil {
			continue
		}
		if n.changeFlag == flagUnknown {
			n.changeFlag = p.resolveChangeFlag(n)
		}
		if n.changeFlag != flagChanged {
			if recull {
				p.recullNode(n)
			}
			continue
		}

		vis := visibleHidden
		if p.IsVisible(n.widget) {
			vis = visibleShown
		}
		if vis == visibleShown || n.visibleFlag() != visibleHidden {
			n.setVisibleFlag(vis)
			p.changed.add(n.widget.Base().mat)
		}
	}
}

// recullNode re-evaluates the visibility of an unmoved widget after the clip
// settings changed. A widget that comes into view is treated as moved so its
// panel-space vertices are refreshed.
func (p *Panel) recullNode(n *node) {
	vis := visibleHidden
	if p.IsVisible(n.widget) {
		vis = visibleShown
	}
	if vis == n.visibleFlag() {
		return
	}
	if vis == visibleShown {
		n.changeFlag = flagChanged
	}
	n.setVisibleFlag(vis)
	p.changed.add(n.widget.Base().mat)
}

// sweepRemoved forgets nodes whose transforms were disposed, along with any
// widget still listed on them.
func (p *Panel) sweepRemoved() {
	for _, t := range p.removed {
		if n := p.children[t]; n != nil && n.widget != nil {
			p.changed.add(n.widget.Base().mat)
		}
		delete(p.children, t)
	}
	p.stats.NodesRemoved = len(p.removed)
	clear(p.removed)
	p.removed = p.removed[:0]

	p.widgets = slices.DeleteFunc(p.widgets, func(w Widget) bool {
		t := w.Base().trans
		return t == nil || t.IsDisposed()
	})
}

// resolveChangeFlag walks up from start until it finds an ancestor whose flag
// is known. Every unresolved ancestor visited takes the same value. Reaching
// an untracked transform, including the panel's own, resolves to unchanged.
func (p *Panel) resolveChangeFlag(start *node) int8 {
	flag := start.changeFlag
	if flag != flagUnknown {
		return flag
	}

	for t := start.trans.Parent; ; t = t.Parent {
		n := p.getNode(t)
		if n == nil {
			flag = flagUnchanged
			break
		}
		flag = n.changeFlag
		if flag != flagUnknown {
			break
		}
		p.hierarchy = append(p.hierarchy, n)
	}

	for _, n := range p.hierarchy {
		n.changeFlag = flag
	}
	clear(p.hierarchy)
	p.hierarchy = p.hierarchy[:0]
	return flag
}
