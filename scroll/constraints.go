package scroll

import (
	"strings"

	"golang.org/x/image/math/fixed"
)

// AnchorEdges records which viewport edges a constrained surface tracks.
type AnchorEdges uint8

const (
	AnchorLeft AnchorEdges = 1 << iota
	AnchorRight
	AnchorTop
	AnchorBottom
)

// Has reports whether every edge in e is set.
func (a AnchorEdges) Has(e AnchorEdges) bool { return a&e == e }

func (a AnchorEdges) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		bit  AnchorEdges
		name string
	}{{AnchorLeft, "left"}, {AnchorRight, "right"}, {AnchorTop, "top"}, {AnchorBottom, "bottom"}} {
		if a&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// FixedConstraints positions a fixed surface relative to the viewport.
type FixedConstraints struct {
	Anchors                   AnchorEdges
	ViewportRectAtLastLayout  fixed.Rectangle26_6
	LayerPositionAtLastLayout fixed.Point26_6
}

// LayerPositionForViewportRect returns where the surface belongs when the
// viewport is at viewport. Horizontal movement follows the left edge when
// anchored there, otherwise the right edge; vertical follows top, else
// bottom.
func (c FixedConstraints) LayerPositionForViewportRect(viewport fixed.Rectangle26_6) fixed.Point26_6 {
	var offset fixed.Point26_6
	last := c.ViewportRectAtLastLayout
	switch {
	case c.Anchors.Has(AnchorLeft):
		offset.X = viewport.Min.X - last.Min.X
	case c.Anchors.Has(AnchorRight):
		offset.X = viewport.Max.X - last.Max.X
	}
	switch {
	case c.Anchors.Has(AnchorTop):
		offset.Y = viewport.Min.Y - last.Min.Y
	case c.Anchors.Has(AnchorBottom):
		offset.Y = viewport.Max.Y - last.Max.Y
	}
	return c.LayerPositionAtLastLayout.Add(offset)
}

// StickyConstraints positions a sticky surface within its containing block
// as the constraining rectangle moves.
type StickyConstraints struct {
	Anchors AnchorEdges

	LeftOffset   fixed.Int26_6
	RightOffset  fixed.Int26_6
	TopOffset    fixed.Int26_6
	BottomOffset fixed.Int26_6

	ConstrainingRectAtLastLayout fixed.Rectangle26_6
	ContainingBlockRect          fixed.Rectangle26_6
	StickyBoxRect                fixed.Rectangle26_6
	StickyOffsetAtLastLayout     fixed.Point26_6
	LayerPositionAtLastLayout    fixed.Point26_6
}

// StickyOffset returns how far the sticky box moves from its normal
// position for the given constraining rectangle. The box never leaves its
// containing block.
func (c StickyConstraints) StickyOffset(constraining fixed.Rectangle26_6) fixed.Point26_6 {
	box := c.StickyBoxRect
	cb := c.ContainingBlockRect
	var d fixed.Point26_6

	if c.Anchors.Has(AnchorRight) {
		limit := constraining.Max.X - c.RightOffset
		delta := min(0, limit-box.Max.X)
		available := min(0, cb.Min.X-box.Min.X)
		d.X += max(delta, available)
	}
	if c.Anchors.Has(AnchorLeft) {
		limit := constraining.Min.X + c.LeftOffset
		delta := max(0, limit-box.Min.X)
		available := max(0, cb.Max.X-box.Max.X)
		d.X += min(delta, available)
	}
	if c.Anchors.Has(AnchorBottom) {
		limit := constraining.Max.Y - c.BottomOffset
		delta := min(0, limit-box.Max.Y)
		available := min(0, cb.Min.Y-box.Min.Y)
		d.Y += max(delta, available)
	}
	if c.Anchors.Has(AnchorTop) {
		limit := constraining.Min.Y + c.TopOffset
		delta := max(0, limit-box.Min.Y)
		available := max(0, cb.Max.Y-box.Max.Y)
		d.Y += min(delta, available)
	}
	return d
}

// LayerPositionForConstrainingRect returns where the surface belongs for
// the given constraining rectangle.
func (c StickyConstraints) LayerPositionForConstrainingRect(constraining fixed.Rectangle26_6) fixed.Point26_6 {
	delta := c.StickyOffset(constraining).Sub(c.StickyOffsetAtLastLayout)
	return c.LayerPositionAtLastLayout.Add(delta)
}
