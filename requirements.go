package compositor

// canBeComposited reports whether l is eligible for a backing at all.
func (c *Compositor) canBeComposited(l *Layer) bool {
	return c.hasAccelerated && l.SelfPainting && !l.InsideFlowThread
}

// needsToBeComposited reports whether l should have a backing given the
// indirect reason recorded for it in this pass.
func (c *Compositor) needsToBeComposited(l *Layer) bool {
	if !c.canBeComposited(l) {
		return false
	}
	return c.requiresCompositingLayer(l, nil) ||
		c.state(l).indirect != indirectNone ||
		(c.compositing && c.isRootLayer(l))
}

// RequiresCompositingLayer reports whether l needs a backing for reasons
// intrinsic to it, ignoring overlap and descendants.
func (c *Compositor) RequiresCompositingLayer(l *Layer) bool {
	return c.requiresCompositingLayer(l, nil)
}

// requiresCompositingLayer evaluates the intrinsic reasons. A reflection
// answers for its source. When notComposited is non-nil it receives why a
// fixed layer was rejected.
func (c *Compositor) requiresCompositingLayer(l *Layer, notComposited *NotCompositedReason) bool {
	if l.reflectionSource != nil {
		l = l.reflectionSource
	}
	return c.requiresForTransform(l) ||
		c.requiresForVideo(l) ||
		c.requiresForCanvas(l) ||
		c.requiresForPlugin(l) ||
		c.requiresForFrame(l) ||
		(c.canRender3DTransforms() && l.Style.BackfaceHidden) ||
		c.clipsCompositingDescendants(l) ||
		c.requiresForAnimation(l) ||
		c.requiresForFilters(l) ||
		c.requiresForPosition(l, notComposited) ||
		c.requiresForOverflowScrolling(l) ||
		c.requiresForBlending(l)
}

// ReasonsForCompositing explains why l is composited. It returns
// ReasonNone for layers without a backing.
func (c *Compositor) ReasonsForCompositing(l *Layer) Reasons {
	if l == nil || !c.IsComposited(l) {
		return ReasonNone
	}
	st := c.state(l)
	src := l
	if l.reflectionSource != nil {
		src = l.reflectionSource
	}

	var r Reasons
	if c.requiresForTransform(src) {
		r |= Reason3DTransform
	}
	switch {
	case c.requiresForVideo(src):
		r |= ReasonVideo
	case c.requiresForCanvas(src):
		r |= ReasonCanvas
	case c.requiresForPlugin(src):
		r |= ReasonPlugin
	case c.requiresForFrame(src):
		r |= ReasonIFrame
	}
	if c.canRender3DTransforms() && src.Style.BackfaceHidden {
		r |= ReasonBackfaceVisibilityHidden
	}
	if c.clipsCompositingDescendants(src) {
		r |= ReasonClipsCompositingDescendants
	}
	if c.requiresForAnimation(src) {
		r |= ReasonAnimation
	}
	if c.requiresForFilters(src) {
		r |= ReasonFilters
	}
	if c.requiresForBlending(src) {
		r |= ReasonBlending
	}
	if c.requiresForPosition(src, nil) {
		if src.Style.Position == PositionFixed {
			r |= ReasonPositionFixed
		} else {
			r |= ReasonPositionSticky
		}
	}
	if c.requiresForOverflowScrolling(src) {
		r |= ReasonOverflowScrollingTouch
	}

	switch st.indirect {
	case indirectStacking:
		r |= ReasonStacking
	case indirectOverlap:
		r |= ReasonOverlap
	case indirectBackgroundLayer:
		r |= ReasonNegativeZIndexChildren
	case indirectPerspective:
		r |= ReasonPerspective
	case indirectPreserve3D:
		r |= ReasonPreserve3D
	}

	// An effect that is also a direct reason still groups its composited
	// descendants.
	if st.indirect == indirectGraphicalEffect || st.hasCompositingDescendant {
		r |= groupingReasons(src)
	}

	if c.compositing && c.isRootLayer(l) {
		r |= ReasonRoot
	}
	return r
}

// groupingReasons names the effects of l that must be applied to its
// composited descendants as a group.
func groupingReasons(l *Layer) Reasons {
	s := l.Style
	var r Reasons
	if s.HasTransform() {
		r |= ReasonTransformWithCompositedDescendants
	}
	if s.IsTransparent() {
		r |= ReasonOpacityWithCompositedDescendants
	}
	if s.Mask {
		r |= ReasonMaskWithCompositedDescendants
	}
	if l.reflection != nil {
		r |= ReasonReflectionWithCompositedDescendants
	}
	if s.Filter {
		r |= ReasonFilterWithCompositedDescendants
	}
	if s.HasBlendMode() {
		r |= ReasonBlendingWithCompositedDescendants
	}
	return r
}

func (c *Compositor) canRender3DTransforms() bool {
	return c.hasAccelerated && c.cfg.Triggers&Trigger3DTransform != 0
}

func (c *Compositor) requiresForTransform(l *Layer) bool {
	return c.cfg.Triggers&Trigger3DTransform != 0 && l.Style.Transform3D
}

func (c *Compositor) requiresForVideo(l *Layer) bool {
	return c.cfg.Triggers&TriggerVideo != 0 &&
		l.Content.Kind == ContentVideo && l.Content.Accelerated
}

func (c *Compositor) requiresForCanvas(l *Layer) bool {
	if c.cfg.Triggers&TriggerCanvas == 0 || l.Content.Kind != ContentCanvas || !l.Content.Accelerated {
		return false
	}
	if l.Content.ThreeD {
		return true
	}
	return pixelArea(l.Bounds) >= c.cfg.CanvasAreaThreshold
}

// requiresForPlugin ignores zero-sized and 1x1 plugins.
func (c *Compositor) requiresForPlugin(l *Layer) bool {
	if c.cfg.Triggers&TriggerPlugin == 0 || l.Content.Kind != ContentPlugin || !l.Content.Accelerated {
		return false
	}
	return pixelArea(l.Bounds) > 1
}

func (c *Compositor) requiresForFrame(l *Layer) bool {
	if c.cfg.Triggers&TriggerIFrame == 0 || l.Content.Kind != ContentFrame || !l.Content.Accelerated {
		return false
	}
	return pixelArea(l.Bounds) > 0
}

// dependsOnLayout reports a decision the next layout may overturn. Plugins
// and frames can resize at any layout, and a detached fixed layer has no
// container to be fixed to yet.
func (c *Compositor) dependsOnLayout(l *Layer) bool {
	switch l.Content.Kind {
	case ContentPlugin:
		return c.cfg.Triggers&TriggerPlugin != 0 && l.Content.Accelerated
	case ContentFrame:
		return c.cfg.Triggers&TriggerIFrame != 0 && l.Content.Accelerated
	}
	return l.Style.Position == PositionFixed && l.StackingContainer &&
		c.cfg.CompositingForFixedPosition && l.parent == nil
}

func (c *Compositor) requiresForAnimation(l *Layer) bool {
	if c.cfg.Triggers&TriggerAnimation == 0 {
		return false
	}
	a := l.Style.Animations
	if a&AnimatingOpacity != 0 && (c.compositing || c.cfg.Triggers&TriggerAnimatedOpacity != 0) {
		return true
	}
	return a&(AnimatingFilter|AnimatingTransform) != 0
}

func (c *Compositor) isRunningAcceleratedTransformAnimation(l *Layer) bool {
	return c.cfg.Triggers&TriggerAnimation != 0 && l.Style.Animations&AnimatingTransform != 0
}

func (c *Compositor) requiresForFilters(l *Layer) bool {
	return c.cfg.Triggers&TriggerFilter != 0 && l.Style.Filter
}

func (c *Compositor) requiresForBlending(l *Layer) bool {
	return l.Style.HasBlendMode()
}

func (c *Compositor) requiresForOverflowScrolling(l *Layer) bool {
	return l.needsCompositedScrolling()
}

// clipsCompositingDescendants uses the descendant bit computed so far in
// the current pass.
func (c *Compositor) clipsCompositingDescendants(l *Layer) bool {
	return c.HasCompositingDescendant(l) && l.Style.OverflowClip
}

// requiresForPosition promotes fixed layers that form a stacking context
// and sticky layers when scrolling is coordinated.
func (c *Compositor) requiresForPosition(l *Layer, notComposited *NotCompositedReason) bool {
	pos := l.Style.Position
	isFixed := pos == PositionFixed
	if isFixed && !l.StackingContainer {
		return false
	}
	if !isFixed && pos != PositionSticky {
		return false
	}
	if !c.cfg.CompositingForFixedPosition {
		return false
	}
	if pos == PositionSticky {
		return c.hasCoordinatedScrolling() && c.isViewportConstrained(l)
	}

	if l.parent == nil {
		return false
	}
	// Inside a transformed ancestor a fixed layer stays fixed to that
	// ancestor, not to the viewport.
	if !c.containerIsView(l) {
		setNotComposited(notComposited, NotCompositedNonViewContainer)
		return false
	}
	if !c.inPostLayoutUpdate {
		return c.IsComposited(l)
	}
	if !l.VisibleContent && !hasVisibleDescendant(l) {
		setNotComposited(notComposited, NotCompositedNoVisibleContent)
		return false
	}
	if c.view != nil && !intersects(c.view.Viewport, enclosingRect(subtreeBounds(l))) {
		setNotComposited(notComposited, NotCompositedBoundsOutOfView)
		return false
	}
	return true
}

func setNotComposited(dst *NotCompositedReason, r NotCompositedReason) {
	if dst != nil {
		*dst = r
	}
}

// containerIsView reports whether no ancestor below the root establishes
// a containing block for fixed descendants.
func (c *Compositor) containerIsView(l *Layer) bool {
	for p := l.parent; p != nil; p = p.parent {
		if c.isRootLayer(p) {
			return true
		}
		if p.Style.HasTransform() {
			return false
		}
	}
	return true
}

// isViewportConstrained reports whether l moves with the viewport. Sticky
// layers inside an overflow clip stick to that scroller instead, and a
// fixed layer inside a composited fixed stacking container moves with it.
func (c *Compositor) isViewportConstrained(l *Layer) bool {
	switch l.Style.Position {
	case PositionSticky:
		return c.enclosingOverflowClipLayer(l) == nil
	case PositionFixed:
		for sc := l.stackingContainer(); sc != nil; sc = sc.stackingContainer() {
			if c.IsComposited(sc) && sc.Style.Position == PositionFixed {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// enclosingOverflowClipLayer finds the nearest non-root ancestor with an
// overflow clip.
func (c *Compositor) enclosingOverflowClipLayer(l *Layer) *Layer {
	for p := l.parent; p != nil; p = p.parent {
		if c.isRootLayer(p) {
			return nil
		}
		if p.Style.OverflowClip {
			return p
		}
	}
	return nil
}

func (c *Compositor) hasCoordinatedScrolling() bool {
	return c.coordinator != nil && c.coordinator.CoordinatesScrolling()
}

// requiresIndirect reports effects that must be applied by compositing
// because descendants are composited.
func requiresIndirect(l *Layer, hasCompositedDescendants, has3DDescendants bool) indirectReason {
	s := l.Style
	createsGroup := s.IsTransparent() || s.Mask || s.Filter || s.HasBlendMode()
	if hasCompositedDescendants && (s.HasTransform() || createsGroup || l.reflection != nil) {
		return indirectGraphicalEffect
	}
	if has3DDescendants {
		if s.Preserve3D {
			return indirectPreserve3D
		}
		if s.Perspective {
			return indirectPerspective
		}
	}
	return indirectNone
}

// requiresOwnBackingStore reports whether a composited layer must paint
// its own pixels rather than into its composited ancestor. bounds and
// ancestorBounds are composited bounds in root coordinates.
func (c *Compositor) requiresOwnBackingStore(l, ancestor *Layer, bounds, ancestorBounds Rect) bool {
	if ancestor != nil {
		if ab := c.Backing(ancestor); ab != nil &&
			!(ab.primary.DrawsContent() || ab.paintsIntoWindow() || ab.paintsIntoCompositedAncestor()) {
			return true
		}
	}
	s := l.Style
	src := l
	if l.reflectionSource != nil {
		src = l.reflectionSource
	}
	if c.isRootLayer(l) ||
		s.HasTransform() ||
		c.requiresForVideo(src) ||
		c.requiresForCanvas(src) ||
		c.requiresForPlugin(src) ||
		c.requiresForFrame(src) ||
		(c.canRender3DTransforms() && s.BackfaceHidden) ||
		c.requiresForAnimation(src) ||
		c.requiresForFilters(src) ||
		c.requiresForBlending(src) ||
		c.requiresForPosition(src, nil) ||
		c.requiresForOverflowScrolling(l) ||
		s.IsTransparent() || s.Mask || l.reflection != nil || s.Filter {
		return true
	}
	switch c.state(l).indirect {
	case indirectOverlap, indirectStacking, indirectBackgroundLayer,
		indirectGraphicalEffect, indirectPreserve3D:
		return true
	case indirectPerspective:
		return false
	}
	return !contains(ancestorBounds, bounds)
}

func pixelArea(r Rect) int {
	s := rectSize(snappedRect(r))
	return s.X.Round() * s.Y.Round()
}

// hasVisibleDescendant reports visible content anywhere below l.
func hasVisibleDescendant(l *Layer) bool {
	for _, list := range l.lists {
		for _, child := range list {
			if child.VisibleContent || hasVisibleDescendant(child) {
				return true
			}
		}
	}
	return false
}

// subtreeBounds unions the bounds of l and every descendant.
func subtreeBounds(l *Layer) Rect {
	r := l.Bounds
	for _, list := range l.lists {
		for _, child := range list {
			r = r.Union(subtreeBounds(child))
		}
	}
	return r
}
