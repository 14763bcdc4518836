package compositor

import (
	"math"

	"github.com/gogpu/compositor/scroll"
	"github.com/gogpu/compositor/surface"
)

// Backing is the set of surfaces presenting one composited layer.
//
// Only the primary surface always exists. The others are created when the
// layer's configuration calls for them and released when it no longer
// does.
type Backing struct {
	c     *Compositor
	owner *Layer

	primary *surface.Surface

	// ancestorClipping clips the layer to an ancestor's overflow box when
	// that ancestor is not composited itself.
	ancestorClipping *surface.Surface

	// containment holds background and primary when the root paints its
	// fixed background separately.
	containment *surface.Surface
	background  *surface.Surface

	// clipping clips composited descendants to the layer's overflow box.
	clipping *surface.Surface

	// foreground paints above composited negative z children.
	foreground *surface.Surface
	mask       *surface.Surface

	hScrollbar   *surface.Surface
	vScrollbar   *surface.Surface
	scrollCorner *surface.Surface

	scrollingContainer *surface.Surface
	scrollingContents  *surface.Surface

	compositedBounds            Rect
	boundsConstrainedByClipping bool
	artificiallyInflated        bool
	requiresOwnBackingStore     bool

	scrollNodeID scroll.NodeID
}

func newBacking(c *Compositor, owner *Layer) *Backing {
	b := &Backing{c: c, owner: owner, requiresOwnBackingStore: true}
	b.primary = b.newSurface(owner.String())
	if !owner.isAnimating(AnimatingOpacity) {
		b.primary.SetOpacity(owner.Style.Opacity)
	}
	return b
}

// newSurface creates a surface served by b. A factory failure marks
// acceleration unavailable; a memory surface stands in so the tree stays
// consistent until the next update tears compositing down.
func (b *Backing) newSurface(name string) *surface.Surface {
	s, err := b.c.surfaces.NewSurface(name, b)
	if err != nil {
		Logger().Warn("compositor: surface factory failed", "surface", name, "err", err)
		b.c.surfaceFactoryFailed()
		s = surface.New(name, b, surface.NewMemoryStore)
	}
	s.SetContentsScale(b.c.deviceScale * b.c.pageScale)
	return s
}

func (b *Backing) release(s **surface.Surface) bool {
	if *s == nil {
		return false
	}
	(*s).RemoveFromParent()
	if err := (*s).Close(); err != nil {
		Logger().Warn("compositor: releasing surface", "surface", (*s).Name(), "err", err)
	}
	*s = nil
	return true
}

// Owner returns the layer b presents.
func (b *Backing) Owner() *Layer { return b.owner }

// Primary returns the surface holding the layer's own content.
func (b *Backing) Primary() *surface.Surface { return b.primary }

// Foreground returns the foreground surface, or nil.
func (b *Backing) Foreground() *surface.Surface { return b.foreground }

// Background returns the fixed root background surface, or nil.
func (b *Backing) Background() *surface.Surface { return b.background }

// Clipping returns the surface clipping composited descendants, or nil.
func (b *Backing) Clipping() *surface.Surface { return b.clipping }

// AncestorClipping returns the surface applying an ancestor's clip, or nil.
func (b *Backing) AncestorClipping() *surface.Surface { return b.ancestorClipping }

// Mask returns the mask surface, or nil.
func (b *Backing) Mask() *surface.Surface { return b.mask }

// ScrollingContents returns the scrolled contents surface, or nil.
func (b *Backing) ScrollingContents() *surface.Surface { return b.scrollingContents }

// CompositedBounds returns the area presented by b in root coordinates.
func (b *Backing) CompositedBounds() Rect { return b.compositedBounds }

// ScrollNodeID returns the node registered with the scroll coordinator,
// or zero.
func (b *Backing) ScrollNodeID() scroll.NodeID { return b.scrollNodeID }

// PaintsIntoCompositedAncestor reports that the layer has no store of its
// own and draws into its composited ancestor.
func (b *Backing) PaintsIntoCompositedAncestor() bool { return b.paintsIntoCompositedAncestor() }

func (b *Backing) paintsIntoCompositedAncestor() bool { return !b.requiresOwnBackingStore }

// paintsIntoWindow reports that the root's content is drawn by the host.
func (b *Backing) paintsIntoWindow() bool {
	return b.c.isRootLayer(b.owner) && !b.c.cfg.ForceCompositingMode
}

// ChildForSuperlayers is the surface b contributes to its parent's list.
func (b *Backing) ChildForSuperlayers() *surface.Surface {
	switch {
	case b.ancestorClipping != nil:
		return b.ancestorClipping
	case b.containment != nil:
		return b.containment
	default:
		return b.primary
	}
}

// ParentForSublayers hosts the surfaces of composited descendants.
func (b *Backing) ParentForSublayers() *surface.Surface {
	switch {
	case b.scrollingContents != nil:
		return b.scrollingContents
	case b.clipping != nil:
		return b.clipping
	default:
		return b.primary
	}
}

// updateConfiguration creates and releases auxiliary surfaces and reports
// whether the set changed.
func (b *Backing) updateConfiguration() bool {
	c, l := b.c, b.owner
	changed := false

	if b.updateBackgroundLayer(c.needsFixedRootBackgroundLayer(l)) {
		changed = true
	}
	if b.updateForegroundLayer(c.hasCompositedNegZChild(l)) {
		changed = true
	}
	needsDescendantClip := c.clipsCompositingDescendants(l) && !l.needsCompositedScrolling()
	if b.updateClippingLayers(c.clippedByAncestor(l), needsDescendantClip) {
		changed = true
	}
	if b.updateOverflowControlsLayers() {
		changed = true
	}
	if b.updateScrollingLayers(l.needsCompositedScrolling()) {
		changed = true
	}
	if changed {
		b.updateInternalHierarchy()
	}

	if b.updateMaskLayer(l.Style.Mask) {
		b.primary.SetMask(b.mask)
	}

	if r := l.reflection; r != nil {
		if rb := c.Backing(r); rb != nil {
			b.primary.SetReplica(rb.primary)
		}
	} else {
		b.primary.SetReplica(nil)
	}
	return changed
}

func (b *Backing) updateBackgroundLayer(needs bool) bool {
	changed := false
	if needs {
		if b.background == nil {
			b.background = b.newSurface(b.owner.String() + " (background)")
			b.background.SetDrawsContent(true)
			changed = true
		}
		if b.containment == nil {
			b.containment = b.newSurface(b.owner.String() + " (contents containment)")
			changed = true
		}
	} else {
		changed = b.release(&b.background) || changed
		changed = b.release(&b.containment) || changed
	}
	if changed {
		b.primary.SetNeedsDisplay()
	}
	return changed
}

func (b *Backing) updateForegroundLayer(needs bool) bool {
	changed := false
	if needs {
		if b.foreground == nil {
			b.foreground = b.newSurface(b.owner.String() + " (foreground)")
			b.foreground.SetDrawsContent(true)
			changed = true
		}
	} else {
		changed = b.release(&b.foreground)
	}
	if changed {
		b.primary.SetNeedsDisplay()
	}
	return changed
}

func (b *Backing) updateClippingLayers(needsAncestorClip, needsDescendantClip bool) bool {
	changed := false
	if needsAncestorClip {
		if b.ancestorClipping == nil {
			b.ancestorClipping = b.newSurface("ancestor clipping")
			b.ancestorClipping.SetMasksToBounds(true)
			changed = true
		}
	} else {
		changed = b.release(&b.ancestorClipping) || changed
	}
	if needsDescendantClip {
		if b.clipping == nil {
			b.clipping = b.newSurface("child clipping")
			b.clipping.SetMasksToBounds(true)
			changed = true
		}
	} else {
		changed = b.release(&b.clipping) || changed
	}
	return changed
}

// updateOverflowControlsLayers gives scrollbars surfaces when they overlay
// content or scroll with composited contents.
func (b *Backing) updateOverflowControlsLayers() bool {
	l := b.owner
	separate := l.OverlayScroll || l.needsCompositedScrolling()
	bars := l.Scrollbars
	changed := false
	for _, x := range []struct {
		s     **surface.Surface
		needs bool
		name  string
	}{
		{&b.hScrollbar, separate && !bars.Horizontal.Empty(), "horizontal scrollbar"},
		{&b.vScrollbar, separate && !bars.Vertical.Empty(), "vertical scrollbar"},
		{&b.scrollCorner, separate && !bars.Corner.Empty(), "scroll corner"},
	} {
		if x.needs {
			if *x.s == nil {
				*x.s = b.newSurface(x.name)
				changed = true
			}
			continue
		}
		changed = b.release(x.s) || changed
	}
	return changed
}

func (b *Backing) updateScrollingLayers(needs bool) bool {
	changed := false
	if needs {
		if b.scrollingContainer == nil {
			b.scrollingContainer = b.newSurface("scrolling container")
			b.scrollingContainer.SetMasksToBounds(true)
			b.scrollingContents = b.newSurface("scrolled contents")
			b.scrollingContents.SetDrawsContent(true)
			b.scrollingContainer.AddChild(b.scrollingContents)
			changed = true
		}
	} else if b.scrollingContainer != nil {
		b.release(&b.scrollingContents)
		b.release(&b.scrollingContainer)
		changed = true
	}
	if changed {
		b.updateInternalHierarchy()
		b.primary.SetNeedsDisplay()
	}
	return changed
}

func (b *Backing) updateMaskLayer(needs bool) bool {
	if needs {
		if b.mask != nil {
			return false
		}
		b.mask = b.newSurface("mask")
		b.mask.SetDrawsContent(true)
		return true
	}
	return b.release(&b.mask)
}

// updateInternalHierarchy wires the auxiliary surfaces around the primary.
// The foreground is placed among the children by the tree rebuild.
func (b *Backing) updateInternalHierarchy() {
	if b.ancestorClipping != nil {
		b.ancestorClipping.RemoveAllChildren()
	}
	if b.containment != nil {
		b.containment.RemoveAllChildren()
		if b.ancestorClipping != nil {
			b.ancestorClipping.AddChild(b.containment)
		}
	}
	if b.background != nil {
		b.containment.AddChild(b.background)
	}

	b.primary.RemoveFromParent()
	switch {
	case b.containment != nil:
		b.containment.AddChild(b.primary)
	case b.ancestorClipping != nil:
		b.ancestorClipping.AddChild(b.primary)
	}

	if b.clipping != nil {
		b.clipping.RemoveFromParent()
		b.primary.AddChild(b.clipping)
	}
	if b.scrollingContainer != nil {
		host := b.primary
		if b.clipping != nil {
			host = b.clipping
		}
		b.scrollingContainer.RemoveFromParent()
		host.AddChild(b.scrollingContainer)
	}
	// Scrollbars are siblings of the clipping surface: the child clip
	// excludes them.
	for _, s := range []*surface.Surface{b.hScrollbar, b.vScrollbar, b.scrollCorner} {
		if s != nil {
			s.RemoveFromParent()
			b.primary.AddChild(s)
		}
	}
}

// updateCompositedBounds recomputes the presented area, clipped to the
// document or viewport unless a transform makes the clip unknowable.
func (b *Backing) updateCompositedBounds() {
	c, l := b.c, b.owner
	bounds := c.calculateCompositedBounds(l)

	if b.shouldClipCompositedBounds() {
		var clip Rect
		if l.Style.Position == PositionFixed && c.containerIsView(l) {
			clip = c.view.Viewport
		} else {
			clip = c.view.Root.Bounds
		}
		if !c.isRootLayer(l) {
			if bg := c.backgroundClip(l); bg.Clipped {
				clip = clip.Intersect(bg.Rect)
			}
		}
		bounds = bounds.Intersect(clip)
		b.boundsConstrainedByClipping = true
	} else {
		b.boundsConstrainedByClipping = false
	}

	b.artificiallyInflated = false
	if bounds.Empty() && l.Style.HasTransform() {
		bounds = Rect{Min: bounds.Min, Max: bounds.Min.Add(Pt(1, 1))}
		b.artificiallyInflated = true
	}
	b.compositedBounds = bounds
}

func (b *Backing) shouldClipCompositedBounds() bool {
	if b.hScrollbar != nil || b.vScrollbar != nil {
		return false
	}
	for a := b.owner; a != nil; a = a.parent {
		if a.Style.HasTransform() || a.needsCompositedScrolling() {
			return false
		}
	}
	return true
}

// updateGeometry positions and sizes every surface relative to its parent
// surface.
func (b *Backing) updateGeometry() {
	c, l := b.c, b.owner
	if !l.isAnimating(AnimatingOpacity) {
		b.primary.SetOpacity(l.Style.Opacity)
	}

	ancestor := c.ancestorCompositingLayer(l)
	var ancestorBounds Rect
	var ab *Backing
	if ancestor != nil {
		ab = c.Backing(ancestor)
		ancestorBounds = snappedRect(ab.compositedBounds)
	}

	bounds := snappedRect(b.compositedBounds)
	contentsSize := rectSize(bounds)

	var parentOrigin Point
	switch {
	case ab != nil && ab.clipping != nil:
		parentOrigin = snappedRect(ancestor.ClipRect).Min
	case ab != nil:
		parentOrigin = ancestorBounds.Min
	case c.view != nil && c.view.Root != nil:
		parentOrigin = c.view.Root.Bounds.Min
	}
	if ancestor != nil && ancestor.needsCompositedScrolling() {
		parentOrigin = snappedRect(ancestor.ClipRect).Min.Sub(ancestor.ScrollOffset)
	}

	if ancestor != nil && b.ancestorClipping != nil {
		clip := c.clipBetween(l, ancestor)
		contractf(clip.Clipped, "layer %v: ancestor clipping surface without a clip", l)
		r := snappedRect(clip.Rect)
		b.ancestorClipping.SetPosition(r.Min.Sub(parentOrigin))
		b.ancestorClipping.SetSize(rectSize(r))
		parentOrigin = r.Min
	}

	if b.containment != nil {
		b.containment.SetPosition(bounds.Min.Sub(parentOrigin))
		b.containment.SetSize(contentsSize)
		parentOrigin = bounds.Min
	}

	b.primary.SetPosition(bounds.Min.Sub(parentOrigin))
	if b.primary.Size() != contentsSize {
		b.primary.SetSize(contentsSize)
		if b.boundsConstrainedByClipping {
			b.primary.SetNeedsDisplay()
		}
	}

	var clipBox Rect
	if b.clipping != nil {
		clipBox = snappedRect(l.ClipRect)
		b.clipping.SetPosition(clipBox.Min.Sub(bounds.Min))
		b.clipping.SetSize(rectSize(clipBox))
	}

	if b.mask != nil {
		if b.mask.Size() != b.primary.Size() {
			b.mask.SetSize(b.primary.Size())
			b.mask.SetNeedsDisplay()
		}
		b.mask.SetPosition(Point{})
	}

	if b.foreground != nil {
		size := contentsSize
		if b.clipping != nil {
			size = rectSize(clipBox)
		}
		b.foreground.SetPosition(Point{})
		if b.foreground.Size() != size {
			b.foreground.SetSize(size)
			b.foreground.SetNeedsDisplay()
		}
	}

	if b.background != nil {
		var pos Point
		size := contentsSize
		if c.needsFixedRootBackgroundLayer(l) {
			pos = c.view.Viewport.Min.Sub(c.view.Root.Bounds.Min)
			size = rectSize(c.view.Viewport)
		}
		b.background.SetPosition(pos)
		if b.background.Size() != size {
			b.background.SetSize(size)
			b.background.SetNeedsDisplay()
		}
	}

	if r := l.reflection; r != nil {
		if rb := c.Backing(r); rb != nil {
			rb.updateGeometry()
			b.primary.SetReplicaPosition(b.compositedBounds.Min.Sub(rb.compositedBounds.Min))
		}
	}

	if b.scrollingContainer != nil {
		padding := snappedRect(l.ClipRect)
		b.scrollingContainer.SetPosition(padding.Min.Sub(bounds.Min))
		b.scrollingContainer.SetSize(rectSize(padding))
		b.scrollingContents.SetPosition(Point{}.Sub(l.ScrollOffset))
		if b.scrollingContents.Size() != l.ScrollSize {
			b.scrollingContents.SetSize(l.ScrollSize)
			b.scrollingContents.SetNeedsDisplay()
		}
		if b.foreground != nil {
			if b.foreground.Size() != l.ScrollSize {
				b.foreground.SetSize(l.ScrollSize)
			}
			b.foreground.SetNeedsDisplay()
		}
	}

	b.positionOverflowControls(bounds)

	// A layer composited only to clip or to apply perspective needs no
	// pixels of its own.
	owns := c.requiresOwnBackingStore(l, ancestor, bounds, ancestorBounds)
	b.setRequiresOwnBackingStore(owns)

	b.updateDrawsContent()
	b.registerScrollingLayers()
}

func (b *Backing) positionOverflowControls(bounds Rect) {
	bars := b.owner.Scrollbars
	for _, x := range []struct {
		s *surface.Surface
		r Rect
	}{
		{b.hScrollbar, bars.Horizontal},
		{b.vScrollbar, bars.Vertical},
		{b.scrollCorner, bars.Corner},
	} {
		if x.s == nil {
			continue
		}
		x.s.SetPosition(x.r.Min.Sub(bounds.Min))
		x.s.SetSize(rectSize(x.r))
		x.s.SetDrawsContent(!x.r.Empty())
	}
}

func (b *Backing) setRequiresOwnBackingStore(owns bool) {
	if owns == b.requiresOwnBackingStore {
		return
	}
	b.requiresOwnBackingStore = owns
	// Which backing the subtree paints into changed, and with it every
	// cached clip below.
	b.c.clearClipRects(b.owner)
	b.c.repaintInCompositedAncestor(b.owner, b.compositedBounds)
}

func (b *Backing) updateDrawsContent() {
	l := b.owner
	if b.scrollingContainer != nil {
		b.primary.SetDrawsContent(l.VisibleContent)
		b.scrollingContents.SetDrawsContent(l.VisibleContent || b.c.hasVisibleNonCompositingDescendant(l))
		return
	}
	draws := b.containsPaintedContent()
	b.primary.SetDrawsContent(draws)
	if b.foreground != nil {
		b.foreground.SetDrawsContent(draws)
	}
	if b.background != nil {
		b.background.SetDrawsContent(draws)
	}
}

func (b *Backing) containsPaintedContent() bool {
	l := b.owner
	if b.isSimpleContainer() || b.paintsIntoWindow() || b.paintsIntoCompositedAncestor() ||
		b.artificiallyInflated || l.IsReflection() {
		return false
	}
	// Accelerated media supplies its own pixels.
	switch l.Content.Kind {
	case ContentVideo, ContentCanvas:
		if l.Content.Accelerated {
			return false
		}
	}
	return true
}

// isSimpleContainer reports a layer with nothing to paint itself, whose
// children are all composited.
func (b *Backing) isSimpleContainer() bool {
	l := b.owner
	if l.Style.Mask {
		return false
	}
	if l.Content.Kind != ContentNone && !(l.Content.Kind == ContentPlugin && l.Content.Accelerated) {
		return false
	}
	if l.VisibleContent || b.c.hasVisibleNonCompositingDescendant(l) {
		return false
	}
	return true
}

// registerScrollingLayers publishes the layer's viewport constraints when
// a coordinator is present.
func (b *Backing) registerScrollingLayers() {
	if b.c.coordinator == nil {
		return
	}
	b.c.updateViewportConstraintStatus(b.owner)
}

func (b *Backing) updateDebugIndicators(showBorder, showCounter bool) {
	b.primary.SetShowDebugBorder(showBorder)
	b.primary.SetShowRepaintCounter(showCounter)
	for _, s := range []*surface.Surface{b.foreground, b.background, b.mask, b.scrollingContents} {
		if s != nil {
			s.SetShowDebugBorder(showBorder)
			s.SetShowRepaintCounter(showCounter)
		}
	}
	for _, s := range []*surface.Surface{b.ancestorClipping, b.containment, b.clipping,
		b.hScrollbar, b.vScrollbar, b.scrollCorner, b.scrollingContainer} {
		if s != nil {
			s.SetShowDebugBorder(showBorder)
		}
	}
}

// paintedSurfaces lists the surfaces that can hold pixels, with the root
// coordinates of each surface's origin.
func (b *Backing) paintedSurfaces() []originSurface {
	bounds := snappedRect(b.compositedBounds)
	out := []originSurface{{b.primary, bounds.Min}}
	if b.foreground != nil {
		origin := bounds.Min
		switch {
		case b.scrollingContents != nil:
			origin = snappedRect(b.owner.ClipRect).Min.Sub(b.owner.ScrollOffset)
		case b.clipping != nil:
			origin = snappedRect(b.owner.ClipRect).Min
		}
		out = append(out, originSurface{b.foreground, origin})
	}
	if b.background != nil {
		out = append(out, originSurface{b.background, bounds.Min})
	}
	if b.mask != nil {
		out = append(out, originSurface{b.mask, bounds.Min})
	}
	if b.scrollingContents != nil {
		out = append(out, originSurface{b.scrollingContents,
			snappedRect(b.owner.ClipRect).Min.Sub(b.owner.ScrollOffset)})
	}
	return out
}

type originSurface struct {
	s      *surface.Surface
	origin Point
}

// SetContentsNeedDisplay invalidates every drawing surface.
func (b *Backing) SetContentsNeedDisplay() {
	contractf(!b.paintsIntoCompositedAncestor(), "layer %v: invalidating a backing without a store", b.owner)
	for _, x := range b.paintedSurfaces() {
		if x.s.DrawsContent() {
			x.s.SetNeedsDisplay()
		}
	}
}

// setContentsNeedDisplayInRect invalidates r, given in root coordinates.
func (b *Backing) setContentsNeedDisplayInRect(r Rect) {
	for _, x := range b.paintedSurfaces() {
		if x.s.DrawsContent() {
			x.s.SetNeedsDisplayInRect(Rect{Min: r.Min.Sub(x.origin), Max: r.Max.Sub(x.origin)})
		}
	}
}

func (b *Backing) resetTrackedRepaints() {
	for _, s := range b.surfaces() {
		s.ResetTrackedRepaints()
	}
}

// surfaces lists every surface b owns.
func (b *Backing) surfaces() []*surface.Surface {
	var out []*surface.Surface
	for _, s := range []*surface.Surface{b.primary, b.ancestorClipping, b.containment, b.background,
		b.clipping, b.foreground, b.mask, b.hScrollbar, b.vScrollbar, b.scrollCorner,
		b.scrollingContainer, b.scrollingContents} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// backingStoreBytes estimates the pixel memory of the drawing surfaces.
func (b *Backing) backingStoreBytes() int64 {
	var total int64
	for _, s := range []*surface.Surface{b.primary, b.foreground, b.background, b.mask,
		b.scrollingContents, b.hScrollbar, b.vScrollbar, b.scrollCorner} {
		if s == nil || !s.DrawsContent() {
			continue
		}
		size, scale := s.Size(), s.ContentsScale()
		w := int64(math.Ceil(float64(size.X) / 64 * scale))
		h := int64(math.Ceil(float64(size.Y) / 64 * scale))
		total += w * h * 4
	}
	return total
}

// attachToScrollingCoordinator registers b under parent, or under the
// root when parent is nil. The node id survives reattachment.
func (b *Backing) attachToScrollingCoordinator(parent *Backing) {
	sc := b.c.coordinator
	if sc == nil {
		return
	}
	typ := scroll.NodeScrolling
	switch b.owner.Style.Position {
	case PositionFixed:
		typ = scroll.NodeFixed
	case PositionSticky:
		typ = scroll.NodeSticky
	}
	var parentID scroll.NodeID
	if parent != nil {
		parentID = parent.scrollNodeID
	}
	id := b.scrollNodeID
	if id == 0 {
		id = sc.UniqueNodeID()
	}
	b.scrollNodeID = sc.AttachNode(typ, id, parentID)
}

func (b *Backing) detachFromScrollingCoordinator() {
	if b.scrollNodeID == 0 || b.c.coordinator == nil {
		return
	}
	b.c.coordinator.DetachNode(b.scrollNodeID)
	b.scrollNodeID = 0
}

// destroy releases every surface.
func (b *Backing) destroy() {
	b.detachFromScrollingCoordinator()
	for _, s := range []**surface.Surface{&b.ancestorClipping, &b.containment, &b.background,
		&b.clipping, &b.foreground, &b.mask, &b.hScrollbar, &b.vScrollbar, &b.scrollCorner,
		&b.scrollingContents, &b.scrollingContainer, &b.primary} {
		b.release(s)
	}
}

// NotifyFlushRequired implements surface.Client.
func (b *Backing) NotifyFlushRequired(*surface.Surface) { b.c.ScheduleLayerFlush(true) }

// DidCommit implements surface.Client.
func (b *Backing) DidCommit(*surface.Surface) { b.c.didFlushChangesForLayer(b.owner) }

// IsTrackingRepaints implements surface.Client.
func (b *Backing) IsTrackingRepaints() bool { return b.c.tracksRepaints }

// calculateCompositedBounds unions l with descendants that paint into its
// backing. Hidden descendants and those under an overflow clip are left
// out.
func (c *Compositor) calculateCompositedBounds(l *Layer) Rect {
	if !c.canBeComposited(l) {
		return Rect{}
	}
	r := l.Bounds
	if l.Style.OverflowClip {
		return r
	}
	var walk func(*Layer)
	walk = func(x *Layer) {
		x.children(func(child *Layer) {
			if c.IsComposited(child) || (!child.VisibleContent && !hasVisibleDescendant(child)) {
				return
			}
			r = r.Union(child.Bounds)
			if !child.Style.OverflowClip {
				walk(child)
			}
		})
	}
	walk(l)
	return r
}

// hasVisibleNonCompositingDescendant reports visible content below l that
// paints into l's backing.
func (c *Compositor) hasVisibleNonCompositingDescendant(l *Layer) bool {
	found := false
	l.children(func(child *Layer) {
		if found || c.IsComposited(child) {
			return
		}
		if child.VisibleContent || c.hasVisibleNonCompositingDescendant(child) {
			found = true
		}
	})
	return found
}

// ancestorCompositingLayer returns the nearest composited ancestor.
func (c *Compositor) ancestorCompositingLayer(l *Layer) *Layer {
	for a := l.parent; a != nil; a = a.parent {
		if c.IsComposited(a) {
			return a
		}
	}
	return nil
}

// clippedByAncestor reports an overflow clip between l and its composited
// ancestor. The ancestor's own clip is handled by its clipping surface.
func (c *Compositor) clippedByAncestor(l *Layer) bool {
	if !c.IsComposited(l) || l.parent == nil {
		return false
	}
	ancestor := c.ancestorCompositingLayer(l)
	if ancestor == nil {
		return false
	}
	return c.clipBetween(l, ancestor).Clipped
}

// hasCompositedNegZChild reports whether a surface must sit beneath l's
// foreground.
func (c *Compositor) hasCompositedNegZChild(l *Layer) bool {
	for _, x := range l.negZ() {
		if c.IsComposited(x) || c.HasCompositingDescendant(x) {
			return true
		}
	}
	return false
}

func (c *Compositor) needsFixedRootBackgroundLayer(l *Layer) bool {
	return c.isRootLayer(l) && c.cfg.FixedRootBackground && c.view.FixedBackground
}

func (c *Compositor) surfaceFactoryFailed() {
	c.hasAccelerated = false
	c.setNeedRebuild()
}

func (l *Layer) isAnimating(a Animations) bool { return l.Style.Animations&a != 0 }
