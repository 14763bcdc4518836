package compositor

import (
	"github.com/gogpu/compositor/internal/cliprect"
)

// compositingState is threaded through the recursion. Each child list
// gets a copy; changes flow back to the parent explicitly.
type compositingState struct {
	// ancestor is the nearest layer that will be composited, or the root.
	ancestor *Layer

	// subtreeIsCompositing reports that a layer seen so far at this level
	// or below is composited.
	subtreeIsCompositing bool

	// testingOverlap is false once an animating transform makes overlap
	// with later layers unknowable.
	testingOverlap bool
}

// pass holds everything one decision pass owns.
type pass struct {
	c             *Compositor
	overlap       *OverlapMap
	layersChanged bool
}

func newPass(c *Compositor) *pass {
	return &pass{c: c, overlap: NewOverlapMap()}
}

// computeRequirements decides l and its subtree in paint order. state is
// the parent's state; has3D accumulates whether l or a descendant has a
// 3D transform.
func (p *pass) computeRequirements(l *Layer, state *compositingState, has3D *bool) {
	c := p.c
	if l.OutOfFlowThread {
		return
	}
	st := c.state(l)
	st.hasCompositingDescendant = false
	if c.dependsOnLayout(l) {
		c.reevaluateAfterLayout = true
	}
	depth := p.overlap.Depth()
	pushed := false

	reason := indirectNone
	if state.subtreeIsCompositing {
		reason = indirectStacking
	}

	var absBounds Rect
	haveBounds := false
	if !p.overlap.IsEmpty() && state.testingOverlap {
		absBounds = overlapRect(enclosingRect(l.Bounds))
		haveBounds = true
		reason = indirectNone
		if p.overlap.OverlapsLayers(absBounds) {
			reason = indirectOverlap
		}
	}
	// Video children draw over accelerated video, which they cannot paint
	// into.
	if a := state.ancestor; a != nil && a.Content.Kind == ContentVideo {
		reason = indirectOverlap
	}
	st.indirect = reason

	child := *state
	child.subtreeIsCompositing = false

	willBeComposited := c.needsToBeComposited(l)
	if willBeComposited {
		state.subtreeIsCompositing = true
		child.ancestor = l
		p.overlap.PushCompositingContainer()
		pushed = true
		child.testingOverlap = true
	}

	anyDescendant3D := false
	for _, x := range l.negZ() {
		p.computeRequirements(x, &child, &anyDescendant3D)
		// A composited negative z child must render beneath this layer's
		// foreground, which then needs a surface of its own.
		if !willBeComposited && child.subtreeIsCompositing {
			st.indirect = indirectBackgroundLayer
			child.ancestor = l
			p.overlap.PushCompositingContainer()
			pushed = true
			child.testingOverlap = true
			willBeComposited = true
		}
	}
	for _, x := range l.normalFlow() {
		p.computeRequirements(x, &child, &anyDescendant3D)
	}
	for _, x := range l.posZ() {
		p.computeRequirements(x, &child, &anyDescendant3D)
	}

	isRoot := c.isRootLayer(l)
	if isRoot && c.compositing && c.hasAccelerated {
		willBeComposited = true
	}

	// Uncomposited layers draw into their ancestor's backing and still
	// occlude later content.
	if a := child.ancestor; a != nil && !c.isRootLayer(a) {
		p.addToOverlapMap(l, &absBounds, &haveBounds)
	}

	if !willBeComposited && c.canBeComposited(l) {
		if r := requiresIndirect(l, child.subtreeIsCompositing, anyDescendant3D); r != indirectNone {
			st.indirect = r
			child.ancestor = l
			p.overlap.PushCompositingContainer()
			pushed = true
			p.addToOverlapMapRecursive(l)
			willBeComposited = true
		}
	}

	if r := l.reflection; r != nil {
		rs := c.state(r)
		rs.indirect = indirectNone
		if willBeComposited {
			rs.indirect = indirectStacking
		}
	}

	if child.subtreeIsCompositing {
		state.subtreeIsCompositing = true
	}
	st.hasCompositingDescendant = child.subtreeIsCompositing

	clipping := c.canBeComposited(l) && c.clipsCompositingDescendants(l)

	// A clipping layer contains any animation below it, so overlap testing
	// can continue past it.
	if (!child.testingOverlap && !clipping) || c.isRunningAcceleratedTransformAnimation(l) {
		state.testingOverlap = false
	}

	if clipping && !willBeComposited {
		child.ancestor = l
		p.overlap.PushCompositingContainer()
		pushed = true
		p.addToOverlapMapRecursive(l)
		willBeComposited = true
	}

	if pushed {
		p.overlap.PopCompositingContainer()
	}
	contractf(p.overlap.Depth() == depth, "layer %v: overlap depth %d, entered at %d",
		l, p.overlap.Depth(), depth)

	// Leave compositing mode when nothing else needs it, unless composited
	// layers exist outside this walk.
	if isRoot && !child.subtreeIsCompositing && !c.requiresCompositingLayer(l, nil) &&
		!c.cfg.ForceCompositingMode && !c.hasAnyAdditionalCompositedLayers(l) {
		c.enableCompositingMode(false)
		willBeComposited = false
	}

	if needs := c.needsToBeComposited(l); needs != willBeComposited {
		contractf(false, "layer %v: decided %v, needs %v", l, willBeComposited, needs)
	}

	if !c.IsComposited(l) && willBeComposited {
		c.repaintOnCompositingChange(l)
	}
	if c.updateBacking(l) {
		p.layersChanged = true
	}
	if r := l.reflection; r != nil && c.updateLayerCompositingState(r) {
		p.layersChanged = true
	}

	*has3D = *has3D || anyDescendant3D || l.Style.Transform3D

	if c.logEnabled() && willBeComposited {
		Logger().Debug("compositor: layer composited",
			"layer", l.String(), "reasons", c.ReasonsForCompositing(l).String())
	}
}

// addToOverlapMap records the area l claims, clipped by its ancestors.
func (p *pass) addToOverlapMap(l *Layer, bounds *Rect, haveBounds *bool) {
	if p.c.isRootLayer(l) {
		return
	}
	if !*haveBounds {
		*bounds = overlapRect(enclosingRect(l.Bounds))
		*haveBounds = true
	}
	r := *bounds
	if clip := p.c.backgroundClip(l); clip.Clipped {
		r = snappedRect(clip.Rect).Intersect(r)
	}
	p.overlap.Add(l, r)
}

// addToOverlapMapRecursive records l and its subtree, used when l becomes
// composited only after its descendants were visited.
func (p *pass) addToOverlapMapRecursive(l *Layer) {
	if !p.c.canBeComposited(l) || p.overlap.Contains(l) {
		return
	}
	var bounds Rect
	have := false
	p.addToOverlapMap(l, &bounds, &have)
	l.children(p.addToOverlapMapRecursive)
}

// backgroundClip intersects the overflow clips of every ancestor of l, in
// root coordinates. Results are cached per update.
func (c *Compositor) backgroundClip(l *Layer) cliprect.Entry {
	return c.clipRects.GetOrCompute(l.id, func() cliprect.Entry {
		return c.clipBetween(l, nil)
	})
}

// clipBetween intersects the overflow clips of ancestors of l strictly
// below stop. A nil stop walks to the root.
func (c *Compositor) clipBetween(l, stop *Layer) cliprect.Entry {
	var e cliprect.Entry
	for a := l.parent; a != nil && a != stop; a = a.parent {
		if !a.Style.OverflowClip {
			continue
		}
		if !e.Clipped {
			e = cliprect.Entry{Rect: a.ClipRect, Clipped: true}
			continue
		}
		e.Rect = e.Rect.Intersect(a.ClipRect)
	}
	return e
}

// clearClipRects drops cached clips for l and its descendants.
func (c *Compositor) clearClipRects(l *Layer) {
	c.clipRects.Delete(l.id)
	for _, list := range l.lists {
		for _, child := range list {
			c.clearClipRects(child)
		}
	}
}

// updateBacking creates or destroys l's backing to match the decision and
// reports whether anything changed.
func (c *Compositor) updateBacking(l *Layer) bool {
	changed := false
	st := c.state(l)
	var notComposited NotCompositedReason

	if c.needsToBeCompositedWithReason(l, &notComposited) {
		c.enableCompositingMode(true)
		if st.backing == nil {
			// The old location is painted by whatever used to contain l.
			c.repaintOnCompositingChange(l)
			st.backing = newBacking(c, l)
			c.compositedCount++
			if c.isRootLayer(l) && c.coordinator != nil {
				st.backing.attachToScrollingCoordinator(nil)
			}
			changed = true
		}
	} else if st.backing != nil {
		if src := l.reflectionSource; src != nil {
			if sb := c.Backing(src); sb != nil {
				sb.primary.SetReplica(nil)
			}
		}
		c.removeViewportConstrainedLayer(l)
		c.clearBacking(l)
		// The layer now paints into its new container.
		c.repaintOnCompositingChange(l)
		changed = true
	}

	if changed {
		c.clearClipRects(l)
	}

	if l.Style.Position == PositionFixed {
		if st.notComposited != notComposited {
			st.notComposited = notComposited
			changed = true
		}
	} else {
		st.notComposited = NotCompositedNone
	}

	if st.backing != nil {
		st.backing.updateDebugIndicators(c.cfg.ShowDebugBorders, c.cfg.ShowRepaintCounter)
	}
	return changed
}

func (c *Compositor) needsToBeCompositedWithReason(l *Layer, notComposited *NotCompositedReason) bool {
	if !c.canBeComposited(l) {
		return false
	}
	return c.requiresCompositingLayer(l, notComposited) ||
		c.state(l).indirect != indirectNone ||
		(c.compositing && c.isRootLayer(l))
}

// updateLayerCompositingState updates the backing and, if one remains, its
// surface configuration.
func (c *Compositor) updateLayerCompositingState(l *Layer) bool {
	changed := c.updateBacking(l)
	if b := c.Backing(l); b != nil && b.updateConfiguration() {
		changed = true
	}
	return changed
}

func (c *Compositor) clearBacking(l *Layer) {
	st := c.states[l.id]
	if st == nil || st.backing == nil {
		return
	}
	st.backing.destroy()
	st.backing = nil
	c.compositedCount--
}

// repaintOnCompositingChange repaints l and its uncomposited descendants
// in whatever currently displays them.
func (c *Compositor) repaintOnCompositingChange(l *Layer) {
	if !c.isRootLayer(l) && l.parent == nil {
		return
	}
	c.repaintInCompositedAncestor(l, c.paintedBounds(l))
}

// paintedBounds unions l with descendants that paint into the same
// backing as l.
func (c *Compositor) paintedBounds(l *Layer) Rect {
	r := l.Bounds
	var walk func(*Layer)
	walk = func(x *Layer) {
		x.children(func(child *Layer) {
			if c.IsComposited(child) {
				return
			}
			r = r.Union(child.Bounds)
			walk(child)
		})
	}
	walk(l)
	return r
}

// repaintInCompositedAncestor invalidates r, in root coordinates, in the
// nearest ancestor backing that paints itself. Without one the view
// repaints.
func (c *Compositor) repaintInCompositedAncestor(l *Layer, r Rect) {
	for a := l.parent; a != nil; a = a.parent {
		b := c.Backing(a)
		if b == nil || b.paintsIntoCompositedAncestor() {
			continue
		}
		if b.paintsIntoWindow() {
			break
		}
		b.setContentsNeedDisplayInRect(r)
		return
	}
	c.repaintView(r)
}
