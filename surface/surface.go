// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image/color"
	"math"
	"slices"
	"sync/atomic"

	"golang.org/x/image/math/fixed"
)

// Client receives notifications from the surfaces it owns.
type Client interface {
	// NotifyFlushRequired is called the first time a surface changes after
	// its last commit.
	NotifyFlushRequired(s *Surface)

	// DidCommit is called after Flush commits a changed surface.
	DidCommit(s *Surface)

	// IsTrackingRepaints reports whether invalidated rectangles should be
	// recorded for inspection.
	IsTrackingRepaints() bool
}

var lastID atomic.Uint64

// Surface is one node of the presentation tree.
//
// Positions are relative to the parent surface; sizes and rectangles are in
// layout units. Surfaces created through a Registry allocate their Store
// lazily on the first Flush that finds them drawing content.
type Surface struct {
	id       uint64
	name     string
	client   Client
	newStore StoreFactory
	store    Store

	parent   *Surface
	children []*Surface
	mask     *Surface
	replica  *Surface

	position        fixed.Point26_6
	size            fixed.Point26_6
	replicaPosition fixed.Point26_6
	opacity         float32
	contentsScale   float64
	drawsContent    bool
	masksToBounds   bool

	needsDisplay bool
	dirty        *dirtyTiles
	repaintRects []fixed.Rectangle26_6
	repaintCount int

	showDebugBorder    bool
	showRepaintCounter bool
	borderColor        color.RGBA
	borderWidth        float32
	counterLabel       string
	counterWidth       fixed.Int26_6

	flushPending bool
	closed       bool
}

// New creates a detached surface. A nil factory gives a surface that never
// allocates pixel storage, which suits pure containers.
func New(name string, client Client, factory StoreFactory) *Surface {
	return &Surface{
		id:            lastID.Add(1),
		name:          name,
		client:        client,
		newStore:      factory,
		opacity:       1,
		contentsScale: 1,
	}
}

// ID returns a process-unique identifier.
func (s *Surface) ID() uint64 { return s.id }

// Name returns the diagnostic name.
func (s *Surface) Name() string { return s.name }

// SetName changes the diagnostic name.
func (s *Surface) SetName(name string) { s.name = name }

// Client returns the owner notified of changes.
func (s *Surface) Client() Client { return s.client }

// Parent returns the surface this one is attached to, or nil.
func (s *Surface) Parent() *Surface { return s.parent }

// Children returns a copy of the child list in paint order.
func (s *Surface) Children() []*Surface { return slices.Clone(s.children) }

// ChildCount returns the number of children.
func (s *Surface) ChildCount() int { return len(s.children) }

// SetChildren replaces the child list. Each child is first detached from
// its previous parent.
func (s *Surface) SetChildren(children []*Surface) {
	if slices.Equal(children, s.children) {
		return
	}
	s.RemoveAllChildren()
	for _, c := range children {
		s.AddChild(c)
	}
}

// AddChild appends c at the top of the paint order.
func (s *Surface) AddChild(c *Surface) {
	if c == nil || c == s {
		return
	}
	c.RemoveFromParent()
	c.parent = s
	s.children = append(s.children, c)
	s.noteChange()
}

// RemoveAllChildren detaches every child.
func (s *Surface) RemoveAllChildren() {
	if len(s.children) == 0 {
		return
	}
	for _, c := range s.children {
		c.parent = nil
	}
	s.children = nil
	s.noteChange()
}

// RemoveFromParent detaches s from its parent.
func (s *Surface) RemoveFromParent() {
	p := s.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, s); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	s.parent = nil
	p.noteChange()
}

// Position returns the offset from the parent's origin.
func (s *Surface) Position() fixed.Point26_6 { return s.position }

// SetPosition moves the surface within its parent.
func (s *Surface) SetPosition(p fixed.Point26_6) {
	if p == s.position {
		return
	}
	s.position = p
	s.noteChange()
}

// Size returns the width and height.
func (s *Surface) Size() fixed.Point26_6 { return s.size }

// SetSize resizes the surface.
func (s *Surface) SetSize(size fixed.Point26_6) {
	if size == s.size {
		return
	}
	s.size = size
	s.noteChange()
}

// Bounds returns the surface rectangle in its own coordinates.
func (s *Surface) Bounds() fixed.Rectangle26_6 {
	return fixed.Rectangle26_6{Max: s.size}
}

// Opacity returns the group opacity in [0, 1].
func (s *Surface) Opacity() float32 { return s.opacity }

// SetOpacity clamps o to [0, 1].
func (s *Surface) SetOpacity(o float32) {
	o = min(max(o, 0), 1)
	if o == s.opacity {
		return
	}
	s.opacity = o
	s.noteChange()
}

// DrawsContent reports whether the surface paints into its own store.
func (s *Surface) DrawsContent() bool { return s.drawsContent }

// SetDrawsContent toggles painting. Turning it on invalidates everything.
func (s *Surface) SetDrawsContent(draws bool) {
	if draws == s.drawsContent {
		return
	}
	s.drawsContent = draws
	if draws {
		s.SetNeedsDisplay()
	}
	s.noteChange()
}

// MasksToBounds reports whether descendants are clipped to the bounds.
func (s *Surface) MasksToBounds() bool { return s.masksToBounds }

// SetMasksToBounds toggles clipping of descendants.
func (s *Surface) SetMasksToBounds(clip bool) {
	if clip == s.masksToBounds {
		return
	}
	s.masksToBounds = clip
	s.noteChange()
}

// Mask returns the mask surface, or nil.
func (s *Surface) Mask() *Surface { return s.mask }

// SetMask installs or clears the mask surface.
func (s *Surface) SetMask(m *Surface) {
	if m == s.mask {
		return
	}
	s.mask = m
	s.noteChange()
}

// Replica returns the surface that reflects this one, or nil.
func (s *Surface) Replica() *Surface { return s.replica }

// SetReplica installs or clears the reflection surface.
func (s *Surface) SetReplica(r *Surface) {
	if r == s.replica {
		return
	}
	s.replica = r
	s.noteChange()
}

// ReplicaPosition returns where the replica is drawn relative to s.
func (s *Surface) ReplicaPosition() fixed.Point26_6 { return s.replicaPosition }

// SetReplicaPosition moves the replica.
func (s *Surface) SetReplicaPosition(p fixed.Point26_6) {
	if p == s.replicaPosition {
		return
	}
	s.replicaPosition = p
	s.noteChange()
}

// ContentsScale returns the device-pixel multiplier for the store.
func (s *Surface) ContentsScale() float64 { return s.contentsScale }

// SetContentsScale changes the device-pixel multiplier. Values below or
// equal to zero are ignored.
func (s *Surface) SetContentsScale(scale float64) {
	if scale <= 0 || scale == s.contentsScale {
		return
	}
	s.contentsScale = scale
	s.SetNeedsDisplay()
	s.noteChange()
}

// NoteScaleChangedIncludingDescendants applies scale to the whole subtree
// rooted at s, including masks and replicas.
func (s *Surface) NoteScaleChangedIncludingDescendants(scale float64) {
	s.SetContentsScale(scale)
	if s.mask != nil {
		s.mask.NoteScaleChangedIncludingDescendants(scale)
	}
	if s.replica != nil {
		s.replica.NoteScaleChangedIncludingDescendants(scale)
	}
	for _, c := range s.children {
		c.NoteScaleChangedIncludingDescendants(scale)
	}
}

// SetNeedsDisplay invalidates the whole surface.
func (s *Surface) SetNeedsDisplay() {
	s.SetNeedsDisplayInRect(s.Bounds())
}

// SetNeedsDisplayInRect invalidates r, given in the surface's coordinates.
// It is ignored for surfaces that do not draw content.
func (s *Surface) SetNeedsDisplayInRect(r fixed.Rectangle26_6) {
	if !s.drawsContent || s.closed {
		return
	}
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	w, h := s.pixelSize()
	if !s.dirty.fits(w, h) {
		s.dirty = newDirtyTiles(w, h)
	}
	x0 := int(math.Floor(float64(r.Min.X) / 64 * s.contentsScale))
	y0 := int(math.Floor(float64(r.Min.Y) / 64 * s.contentsScale))
	x1 := int(math.Ceil(float64(r.Max.X) / 64 * s.contentsScale))
	y1 := int(math.Ceil(float64(r.Max.Y) / 64 * s.contentsScale))
	s.dirty.markRect(x0, y0, x1, y1)
	s.needsDisplay = true
	if s.client != nil && s.client.IsTrackingRepaints() {
		s.repaintRects = append(s.repaintRects, r)
	}
	s.noteChange()
}

// NeedsDisplay reports whether a repaint is pending.
func (s *Surface) NeedsDisplay() bool { return s.needsDisplay }

// DirtyTileCount returns the number of tiles awaiting repaint.
func (s *Surface) DirtyTileCount() int { return s.dirty.count() }

// RepaintCount returns how many commits repainted this surface.
func (s *Surface) RepaintCount() int { return s.repaintCount }

// TrackedRepaintRects returns the invalidations recorded while tracking.
func (s *Surface) TrackedRepaintRects() []fixed.Rectangle26_6 {
	return slices.Clone(s.repaintRects)
}

// ResetTrackedRepaints clears recorded invalidations in the subtree.
func (s *Surface) ResetTrackedRepaints() {
	s.repaintRects = nil
	if s.mask != nil {
		s.mask.ResetTrackedRepaints()
	}
	for _, c := range s.children {
		c.ResetTrackedRepaints()
	}
}

// SetShowDebugBorder toggles the debug border.
func (s *Surface) SetShowDebugBorder(show bool) {
	if show == s.showDebugBorder {
		return
	}
	s.showDebugBorder = show
	s.noteChange()
}

// ShowDebugBorder reports whether the debug border is on.
func (s *Surface) ShowDebugBorder() bool { return s.showDebugBorder }

// SetShowRepaintCounter toggles the repaint counter badge.
func (s *Surface) SetShowRepaintCounter(show bool) {
	if show == s.showRepaintCounter {
		return
	}
	s.showRepaintCounter = show
	s.noteChange()
}

// ShowRepaintCounter reports whether the repaint counter is on.
func (s *Surface) ShowRepaintCounter() bool { return s.showRepaintCounter }

// DebugBorder returns the border color and width chosen at the last commit.
func (s *Surface) DebugBorder() (color.RGBA, float32) { return s.borderColor, s.borderWidth }

// RepaintCounterLabel returns the formatted counter and its rendered width.
func (s *Surface) RepaintCounterLabel() (string, fixed.Int26_6) {
	return s.counterLabel, s.counterWidth
}

// Store returns the allocated store, or nil.
func (s *Surface) Store() Store { return s.store }

// Close detaches the surface and releases its store. Children are detached
// but not closed.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.RemoveFromParent()
	s.RemoveAllChildren()
	s.mask = nil
	s.replica = nil
	s.closed = true
	s.dirty = nil
	if s.store != nil {
		err := s.store.Close()
		s.store = nil
		return err
	}
	return nil
}

// Closed reports whether Close has been called.
func (s *Surface) Closed() bool { return s.closed }

func (s *Surface) noteChange() {
	if s.closed || s.flushPending {
		return
	}
	s.flushPending = true
	if s.client != nil {
		s.client.NotifyFlushRequired(s)
	}
}

// pixelSize is the store size in device pixels.
func (s *Surface) pixelSize() (int, int) {
	w := int(math.Ceil(float64(s.size.X) / 64 * s.contentsScale))
	h := int(math.Ceil(float64(s.size.Y) / 64 * s.contentsScale))
	return w, h
}
