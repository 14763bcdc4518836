package compositor

import (
	"cmp"
	"slices"

	"github.com/gogpu/compositor/scroll"
)

// updateViewportConstraintStatus registers l while it moves with the
// viewport and drops it otherwise.
func (c *Compositor) updateViewportConstraintStatus(l *Layer) {
	if c.isViewportConstrained(l) {
		c.addViewportConstrainedLayer(l)
		return
	}
	c.removeViewportConstrainedLayer(l)
}

func (c *Compositor) addViewportConstrainedLayer(l *Layer) {
	c.viewportLayers[l.id] = l
	c.registerOrUpdateViewportConstrainedLayer(l)
}

func (c *Compositor) removeViewportConstrainedLayer(l *Layer) {
	if _, ok := c.viewportLayers[l.id]; !ok {
		return
	}
	c.unregisterViewportConstrainedLayer(l)
	delete(c.viewportLayers, l.id)
	delete(c.viewportNeedingUpdate, l.id)
}

// ViewportConstrainedLayers returns the registered fixed and sticky
// layers in creation order.
func (c *Compositor) ViewportConstrainedLayers() []*Layer {
	out := make([]*Layer, 0, len(c.viewportLayers))
	for _, l := range c.viewportLayers {
		out = append(out, l)
	}
	slices.SortFunc(out, byID)
	return out
}

// registerOrUpdateViewportConstrainedLayer attaches l's backing under the
// nearest registered ancestor and publishes fresh constraints. Layers
// whose ancestors have not registered yet are skipped; they register on
// a later geometry update.
func (c *Compositor) registerOrUpdateViewportConstrainedLayer(l *Layer) {
	sc := c.coordinator
	if sc == nil || !sc.SupportsFixedPositionLayers() || l.parent == nil {
		return
	}
	b := c.Backing(l)
	if b == nil {
		return
	}
	parent := c.nearestScrollingCoordinatorAncestor(l)
	if parent == nil {
		return
	}
	b.attachToScrollingCoordinator(parent)
	id := b.scrollNodeID

	if l.Style.Position == PositionSticky {
		sc.UpdateStickyConstraints(id, c.computeStickyViewportConstraints(l, b))
	} else {
		sc.UpdateFixedConstraints(id, c.computeFixedViewportConstraints(l, b))
	}
	Logger().Debug("compositor: viewport constraints published",
		"layer", l.String(), "position", l.Style.Position.String(), "node", uint64(id))
}

func (c *Compositor) unregisterViewportConstrainedLayer(l *Layer) {
	if b := c.Backing(l); b != nil {
		b.detachFromScrollingCoordinator()
	}
}

// nearestScrollingCoordinatorAncestor returns the closest ancestor backing
// registered with the coordinator. Overflow scrollers do not host
// viewport-constrained nodes.
func (c *Compositor) nearestScrollingCoordinatorAncestor(l *Layer) *Backing {
	for a := l.parent; a != nil; a = a.parent {
		if b := c.Backing(a); b != nil && b.scrollNodeID != 0 && !a.ScrollsOverflow {
			return b
		}
	}
	return nil
}

// computeFixedViewportConstraints anchors each edge with a set inset. With
// both insets of an axis auto, the surface keeps its left or top edge.
func (c *Compositor) computeFixedViewportConstraints(l *Layer, b *Backing) scroll.FixedConstraints {
	in := l.Style.Insets
	var anchors scroll.AnchorEdges
	if !in.Left.Auto {
		anchors |= scroll.AnchorLeft
	}
	if !in.Right.Auto {
		anchors |= scroll.AnchorRight
	}
	if !in.Top.Auto {
		anchors |= scroll.AnchorTop
	}
	if !in.Bottom.Auto {
		anchors |= scroll.AnchorBottom
	}
	if in.Left.Auto && in.Right.Auto {
		anchors |= scroll.AnchorLeft
	}
	if in.Top.Auto && in.Bottom.Auto {
		anchors |= scroll.AnchorTop
	}
	return scroll.FixedConstraints{
		Anchors:                   anchors,
		ViewportRectAtLastLayout:  c.view.Viewport,
		LayerPositionAtLastLayout: b.primary.Position(),
	}
}

// computeStickyViewportConstraints anchors the edges with a set inset,
// offset by the inset value, and constrains against the viewport.
func (c *Compositor) computeStickyViewportConstraints(l *Layer, b *Backing) scroll.StickyConstraints {
	in := l.Style.Insets
	sc := scroll.StickyConstraints{
		ConstrainingRectAtLastLayout: c.view.Viewport,
		ContainingBlockRect:          l.Sticky.ContainingBlock,
		StickyBoxRect:                l.Sticky.StickyBox,
		StickyOffsetAtLastLayout:     l.Sticky.Offset,
		LayerPositionAtLastLayout:    b.primary.Position(),
	}
	if !in.Left.Auto {
		sc.Anchors |= scroll.AnchorLeft
		sc.LeftOffset = in.Left.Value
	}
	if !in.Right.Auto {
		sc.Anchors |= scroll.AnchorRight
		sc.RightOffset = in.Right.Value
	}
	if !in.Top.Auto {
		sc.Anchors |= scroll.AnchorTop
		sc.TopOffset = in.Top.Value
	}
	if !in.Bottom.Auto {
		sc.Anchors |= scroll.AnchorBottom
		sc.BottomOffset = in.Bottom.Value
	}
	return sc
}

// didFlushChangesForLayer queues constraint updates for layers whose
// surfaces just committed.
func (c *Compositor) didFlushChangesForLayer(l *Layer) {
	if _, ok := c.viewportLayers[l.id]; ok {
		c.viewportNeedingUpdate[l.id] = l
	}
}

// updateViewportConstrainedLayersAfterFlush republishes the constraints
// queued during the flush.
func (c *Compositor) updateViewportConstrainedLayersAfterFlush() {
	if len(c.viewportNeedingUpdate) == 0 {
		return
	}
	pending := make([]*Layer, 0, len(c.viewportNeedingUpdate))
	for _, l := range c.viewportNeedingUpdate {
		pending = append(pending, l)
	}
	clear(c.viewportNeedingUpdate)
	slices.SortFunc(pending, byID)
	for _, l := range pending {
		c.registerOrUpdateViewportConstrainedLayer(l)
	}
}

func byID(a, b *Layer) int { return cmp.Compare(a.id, b.id) }
