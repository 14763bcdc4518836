package compositor

import (
	"context"
	"log/slog"

	"github.com/gogpu/compositor/internal/cliprect"
	"github.com/gogpu/compositor/runloop"
	"github.com/gogpu/compositor/scroll"
	"github.com/gogpu/compositor/surface"
)

// UpdateType says what prompted a compositing update.
type UpdateType uint8

const (
	UpdateAfterStyleChange UpdateType = iota
	UpdateAfterLayout
	UpdateOnHitTest
	UpdateOnScroll
	UpdateOnCompositedScroll
)

func (t UpdateType) String() string {
	switch t {
	case UpdateAfterStyleChange:
		return "after style change"
	case UpdateAfterLayout:
		return "after layout"
	case UpdateOnHitTest:
		return "on hit test"
	case UpdateOnScroll:
		return "on scroll"
	case UpdateOnCompositedScroll:
		return "on composited scroll"
	default:
		return "unknown"
	}
}

// View is the document the compositor serves.
type View struct {
	// Root is the root layer of the stacking-context tree.
	Root *Layer

	// NeedsLayout gates updates: nothing runs against a stale tree.
	NeedsLayout bool

	// Viewport is the visible content rectangle in root coordinates.
	Viewport Rect

	// FixedBackground reports a root background that does not scroll.
	FixedBackground bool
}

// layerState is the compositor's annotation of one layer.
type layerState struct {
	indirect                 indirectReason
	hasCompositingDescendant bool
	notComposited            NotCompositedReason
	backing                  *Backing
}

// Stats summarizes the most recent hierarchy rebuild.
type Stats struct {
	Updates  int
	Rebuilds int
	Flushes  int

	CompositedLayers int
	Obligatory       int
	Secondary        int
	ObligatoryBytes  int64
	SecondaryBytes   int64
}

// Compositor decides which layers get their own surfaces, maintains the
// presentation tree that mirrors paint order, publishes viewport
// constraints and schedules flushes.
//
// A Compositor is not safe for concurrent use. All calls, including timer
// callbacks, must happen on one goroutine; runloop.Loop and runloop.Manual
// both guarantee that for callbacks they run.
type Compositor struct {
	view        *View
	cfg         Config
	host        Host
	scheduler   runloop.Scheduler
	surfaces    SurfaceFactory
	coordinator scroll.Coordinator

	states    map[LayerID]*layerState
	clipRects *cliprect.Cache[LayerID]

	rootContent *surface.Surface
	attached    bool

	hasAccelerated        bool
	compositing           bool
	needRebuild           bool
	reevaluateAfterLayout bool
	inPostLayoutUpdate    bool
	updateDepth           int
	compositedCount       int

	tracksRepaints bool
	viewRepaints   []Rect
	deviceScale    float64
	pageScale      float64

	viewportLayers        map[LayerID]*Layer
	viewportNeedingUpdate map[LayerID]*Layer

	flush       flushState
	updateTimer runloop.Timer
	stats       Stats
}

// New creates a compositor for view.
func New(view *View, opts ...Option) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Compositor{
		view:                  view,
		host:                  o.host,
		scheduler:             o.scheduler,
		surfaces:              o.surfaces,
		coordinator:           o.coordinator,
		states:                make(map[LayerID]*layerState),
		clipRects:             cliprect.New[LayerID](0),
		deviceScale:           o.deviceScale,
		pageScale:             o.pageScale,
		reevaluateAfterLayout: true,
		viewportLayers:        make(map[LayerID]*Layer),
		viewportNeedingUpdate: make(map[LayerID]*Layer),
	}
	if c.scheduler == nil {
		c.scheduler = runloop.NewManual()
	}
	c.flush.throttlingEnabled = false
	c.applyConfig(o.config)
	return c
}

// Scheduler returns the timer source. When none was supplied it is a
// *runloop.Manual.
func (c *Compositor) Scheduler() runloop.Scheduler { return c.scheduler }

// Config returns the current settings.
func (c *Compositor) Config() Config { return c.cfg }

// View returns the served view.
func (c *Compositor) View() *View { return c.view }

// InCompositingMode reports whether the presentation tree exists.
func (c *Compositor) InCompositingMode() bool { return c.compositing }

// HasAcceleratedCompositing reports whether compositing is allowed and
// surfaces can be created.
func (c *Compositor) HasAcceleratedCompositing() bool { return c.hasAccelerated }

// RootSurface returns the surface hosted by the Host, or nil outside
// compositing mode.
func (c *Compositor) RootSurface() *surface.Surface { return c.rootContent }

// Stats returns counters from the most recent update.
func (c *Compositor) Stats() Stats { return c.stats }

// Backing returns the backing of l, or nil if it is not composited.
func (c *Compositor) Backing(l *Layer) *Backing {
	if st := c.states[l.id]; st != nil {
		return st.backing
	}
	return nil
}

// IsComposited reports whether l has a backing.
func (c *Compositor) IsComposited(l *Layer) bool { return c.Backing(l) != nil }

// HasCompositingDescendant reports the value cached by the last pass.
func (c *Compositor) HasCompositingDescendant(l *Layer) bool {
	if st := c.states[l.id]; st != nil {
		return st.hasCompositingDescendant
	}
	return false
}

// NotCompositedReason returns why a fixed layer was left uncomposited.
func (c *Compositor) NotCompositedReason(l *Layer) NotCompositedReason {
	if st := c.states[l.id]; st != nil {
		return st.notComposited
	}
	return NotCompositedNone
}

func (c *Compositor) state(l *Layer) *layerState {
	st := c.states[l.id]
	if st == nil {
		st = &layerState{}
		c.states[l.id] = st
	}
	return st
}

func (c *Compositor) isRootLayer(l *Layer) bool {
	return c.view != nil && l == c.view.Root
}

// UpdateSettings applies cfg. Changes that affect decisions schedule a
// hierarchy rebuild for the next update.
func (c *Compositor) UpdateSettings(cfg Config) {
	c.applyConfig(cfg)
}

func (c *Compositor) applyConfig(cfg Config) {
	hasAccelerated := cfg.AcceleratedCompositing && c.surfaces != nil && c.surfaces.CanCreate()
	old := c.cfg
	indicatorsChanged := cfg.ShowDebugBorders != old.ShowDebugBorders ||
		cfg.ShowRepaintCounter != old.ShowRepaintCounter

	if hasAccelerated != c.hasAccelerated || indicatorsChanged ||
		cfg.ForceCompositingMode != old.ForceCompositingMode ||
		cfg.Triggers != old.Triggers ||
		cfg.CompositingForFixedPosition != old.CompositingForFixedPosition {
		c.setNeedRebuild()
	}
	if cfg.FlushThrottleDelay <= 0 {
		cfg.FlushThrottleDelay = DefaultConfig().FlushThrottleDelay
	}
	c.cfg = cfg
	c.hasAccelerated = hasAccelerated

	if indicatorsChanged {
		for _, st := range c.states {
			if st.backing != nil {
				st.backing.updateDebugIndicators(cfg.ShowDebugBorders, cfg.ShowRepaintCounter)
			}
		}
		if c.rootContent != nil {
			c.rootContent.SetShowDebugBorder(cfg.ShowDebugBorders)
		}
	}
}

func (c *Compositor) setNeedRebuild() {
	if c.compositing {
		c.needRebuild = true
	}
	c.reevaluateAfterLayout = true
}

// SetCompositingLayersNeedRebuild forces the next update to rebuild the
// presentation hierarchy.
func (c *Compositor) SetCompositingLayersNeedRebuild() {
	c.setNeedRebuild()
}

// ScheduleCompositingLayerUpdate coalesces update requests into one
// after-layout update on a zero-delay timer.
func (c *Compositor) ScheduleCompositingLayerUpdate() {
	if c.updateTimer != nil && c.updateTimer.Active() {
		return
	}
	c.updateTimer = c.scheduler.AfterFunc(0, func() {
		c.UpdateCompositingLayers(UpdateAfterLayout, nil)
	})
}

// UpdateCompositingLayers runs the decision pass and, where decisions
// changed, rebuilds the presentation tree.
//
// Overlap testing spans the whole document, so the decision pass always
// starts at the root. A non-nil subtree limits the rebuild and geometry
// walks to that subtree and leaves the root surface's children as they
// are.
func (c *Compositor) UpdateCompositingLayers(updateType UpdateType, subtree *Layer) {
	if c.updateTimer != nil {
		c.updateTimer.Stop()
		c.updateTimer = nil
	}
	if c.view == nil || c.view.Root == nil || c.view.NeedsLayout {
		return
	}
	if c.updateDepth > 0 {
		c.ScheduleCompositingLayerUpdate()
		return
	}
	if c.cfg.ForceCompositingMode && !c.compositing {
		c.enableCompositingMode(true)
	}
	if !c.reevaluateAfterLayout && !c.compositing {
		return
	}

	c.updateDepth++
	c.inPostLayoutUpdate = true
	defer func() {
		c.inPostLayoutUpdate = false
		c.updateDepth--
	}()

	checkHierarchy := c.reevaluateAfterLayout
	needGeometry := false
	switch updateType {
	case UpdateAfterStyleChange, UpdateAfterLayout, UpdateOnHitTest:
		checkHierarchy = true
	case UpdateOnScroll:
		checkHierarchy = true
		needGeometry = true
	case UpdateOnCompositedScroll:
		needGeometry = true
	}
	if !checkHierarchy && !needGeometry {
		return
	}

	needHierarchy := c.needRebuild
	isFullUpdate := subtree == nil
	c.needRebuild = false
	root := c.view.Root
	updateRoot := root
	if !isFullUpdate {
		updateRoot = subtree
	}
	if isFullUpdate && updateType == UpdateAfterLayout {
		c.reevaluateAfterLayout = false
	}
	c.stats.Updates++
	c.clipRects.Clear()

	if checkHierarchy {
		p := newPass(c)
		state := compositingState{ancestor: root, testingOverlap: true}
		saw3D := false
		p.computeRequirements(root, &state, &saw3D)
		needHierarchy = needHierarchy || p.layersChanged
		Logger().Debug("compositor: requirements computed",
			"update", updateType, "changed", p.layersChanged, "overlapDepth", p.overlap.Depth())
	}

	switch {
	case needHierarchy:
		c.resetRebuildStats()
		var children []*surface.Surface
		c.rebuildCompositingLayerTree(updateRoot, &children, 0)
		c.stats.Rebuilds++
		if isFullUpdate && c.rootContent != nil {
			if len(children) == 0 && !c.hasAnyAdditionalCompositedLayers(root) {
				c.destroyRootLayer()
			} else {
				c.rootContent.SetChildren(children)
			}
		}
		c.logRebuildStats()
	case needGeometry:
		c.updateLayerTreeGeometry(updateRoot, 0)
	}

	if !c.hasAccelerated {
		c.enableCompositingMode(false)
	}
}

func (c *Compositor) hasAnyAdditionalCompositedLayers(root *Layer) bool {
	n := 0
	if c.IsComposited(root) {
		n = 1
	}
	return c.compositedCount > n
}

// enableCompositingMode creates or tears down the root surface.
func (c *Compositor) enableCompositingMode(enable bool) {
	if enable == c.compositing {
		return
	}
	c.compositing = enable
	if enable {
		c.ensureRootLayer()
		Logger().Info("compositor: entered compositing mode")
		return
	}
	c.destroyRootLayer()
	Logger().Info("compositor: left compositing mode")
}

func (c *Compositor) ensureRootLayer() {
	if c.rootContent != nil {
		return
	}
	s, err := c.surfaces.NewSurface("Content Root", rootClient{c})
	if err != nil {
		Logger().Warn("compositor: cannot create root surface", "err", err)
		return
	}
	s.SetMasksToBounds(true)
	s.SetContentsScale(c.deviceScale * c.pageScale)
	s.SetShowDebugBorder(c.cfg.ShowDebugBorders)
	c.rootContent = s
	c.updateRootLayerPosition()
	c.attachRootLayer()
}

func (c *Compositor) destroyRootLayer() {
	if c.rootContent == nil {
		return
	}
	c.detachRootLayer()
	if err := c.rootContent.Close(); err != nil {
		Logger().Warn("compositor: closing root surface", "err", err)
	}
	c.rootContent = nil
}

func (c *Compositor) attachRootLayer() {
	if c.rootContent == nil || c.host == nil || c.attached {
		return
	}
	c.host.AttachRootSurface(c.rootContent)
	c.attached = true
	if c.flush.shouldFlushOnReattach {
		if err := c.FlushPendingLayerChanges(); err != nil {
			Logger().Warn("compositor: flush on reattach", "err", err)
		}
		c.flush.shouldFlushOnReattach = false
	}
}

func (c *Compositor) detachRootLayer() {
	if !c.attached {
		return
	}
	c.host.AttachRootSurface(nil)
	c.attached = false
}

// AttachRootLayer hosts the root surface again after DetachRootLayer.
func (c *Compositor) AttachRootLayer() { c.attachRootLayer() }

// DetachRootLayer removes the root surface from the host. Flushes are
// deferred until it is attached again.
func (c *Compositor) DetachRootLayer() { c.detachRootLayer() }

// IsRootLayerAttached reports whether the host holds the root surface.
func (c *Compositor) IsRootLayerAttached() bool { return c.attached }

func (c *Compositor) updateRootLayerPosition() {
	if c.rootContent == nil || c.view == nil || c.view.Root == nil {
		return
	}
	doc := c.view.Root.Bounds
	c.rootContent.SetPosition(doc.Min)
	c.rootContent.SetSize(rectSize(doc))
}

func (c *Compositor) clearBackingRecursive(l *Layer) {
	if c.IsComposited(l) {
		c.removeViewportConstrainedLayer(l)
		c.clearBacking(l)
	}
	if r := l.reflection; r != nil && c.IsComposited(r) {
		c.clearBacking(r)
	}
	for _, list := range l.lists {
		for _, child := range list {
			c.clearBackingRecursive(child)
		}
	}
}

// LayerWasAdded notes a structural change under parent.
func (c *Compositor) LayerWasAdded(parent, child *Layer) {
	c.setNeedRebuild()
}

// LayerWillBeRemoved must be called before child is detached from parent.
func (c *Compositor) LayerWillBeRemoved(parent, child *Layer) {
	b := c.Backing(child)
	if b == nil {
		return
	}
	c.removeViewportConstrainedLayer(child)
	c.repaintInCompositedAncestor(child, b.compositedBounds)
	b.ChildForSuperlayers().RemoveFromParent()
	c.setNeedRebuild()
}

// LayerWillBeDestroyed releases everything the compositor holds for the
// subtree rooted at l.
func (c *Compositor) LayerWillBeDestroyed(l *Layer) {
	c.clearBackingRecursive(l)
	var forget func(*Layer)
	forget = func(x *Layer) {
		delete(c.states, x.id)
		c.clipRects.Delete(x.id)
		if x.reflection != nil {
			forget(x.reflection)
		}
		for _, list := range x.lists {
			for _, child := range list {
				forget(child)
			}
		}
	}
	forget(l)
	c.setNeedRebuild()
}

// LayerStyleChanged notes a style change on l. Changes that can move l in
// or out of compositing schedule a rebuild; geometry-only changes update
// the backing directly.
func (c *Compositor) LayerStyleChanged(l *Layer, old Style) {
	if old != l.Style {
		c.setNeedRebuild()
	}
	if b := c.Backing(l); b != nil {
		if b.updateConfiguration() {
			c.setNeedRebuild()
		}
		b.updateGeometry()
	}
}

// DeviceOrPageScaleFactorChanged propagates new scale factors to every
// surface.
func (c *Compositor) DeviceOrPageScaleFactorChanged(device, page float64) {
	if device > 0 {
		c.deviceScale = device
	}
	if page > 0 {
		c.pageScale = page
	}
	if c.rootContent != nil {
		c.rootContent.NoteScaleChangedIncludingDescendants(c.deviceScale * c.pageScale)
	}
}

// SetTracksRepaints turns repaint rectangle recording on or off.
func (c *Compositor) SetTracksRepaints(track bool) {
	c.tracksRepaints = track
}

// IsTrackingRepaints reports whether repaints are recorded.
func (c *Compositor) IsTrackingRepaints() bool { return c.tracksRepaints }

// ResetTrackedRepaints clears recorded repaint rectangles.
func (c *Compositor) ResetTrackedRepaints() {
	c.viewRepaints = nil
	if c.rootContent != nil {
		c.rootContent.ResetTrackedRepaints()
	}
	for _, st := range c.states {
		if st.backing != nil {
			st.backing.resetTrackedRepaints()
		}
	}
}

// ViewRepaints returns rectangles repainted directly in the view while
// tracking was on.
func (c *Compositor) ViewRepaints() []Rect { return append([]Rect(nil), c.viewRepaints...) }

func (c *Compositor) repaintView(r Rect) {
	if c.tracksRepaints && !r.Empty() {
		c.viewRepaints = append(c.viewRepaints, r)
	}
}

// Close stops pending timers and releases every surface.
func (c *Compositor) Close() error {
	if c.updateTimer != nil {
		c.updateTimer.Stop()
		c.updateTimer = nil
	}
	if c.flush.timer != nil {
		c.flush.timer.Stop()
		c.flush.timer = nil
	}
	if c.view != nil && c.view.Root != nil {
		c.clearBackingRecursive(c.view.Root)
	}
	c.destroyRootLayer()
	c.compositing = false
	return nil
}

func (c *Compositor) logEnabled() bool {
	return Logger().Enabled(context.Background(), slog.LevelDebug)
}

// rootClient forwards root surface notifications.
type rootClient struct{ c *Compositor }

func (r rootClient) NotifyFlushRequired(*surface.Surface) { r.c.ScheduleLayerFlush(true) }
func (r rootClient) DidCommit(*surface.Surface)           {}
func (r rootClient) IsTrackingRepaints() bool             { return r.c.tracksRepaints }
