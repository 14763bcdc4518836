package compositor

import "strings"

// Reasons is a set of explanations for why a layer is composited.
type Reasons uint32

const (
	Reason3DTransform Reasons = 1 << iota
	ReasonVideo
	ReasonCanvas
	ReasonPlugin
	ReasonIFrame
	ReasonBackfaceVisibilityHidden
	ReasonClipsCompositingDescendants
	ReasonAnimation
	ReasonFilters
	ReasonBlending
	ReasonPositionFixed
	ReasonPositionSticky
	ReasonOverflowScrollingTouch
	ReasonStacking
	ReasonOverlap
	ReasonNegativeZIndexChildren
	ReasonTransformWithCompositedDescendants
	ReasonOpacityWithCompositedDescendants
	ReasonMaskWithCompositedDescendants
	ReasonReflectionWithCompositedDescendants
	ReasonFilterWithCompositedDescendants
	ReasonBlendingWithCompositedDescendants
	ReasonPerspective
	ReasonPreserve3D
	ReasonRoot

	ReasonNone Reasons = 0
)

// reasonNames is in priority order: the first present reason is the
// primary one.
var reasonNames = []struct {
	r    Reasons
	name string
}{
	{Reason3DTransform, "3D transform"},
	{ReasonVideo, "video"},
	{ReasonCanvas, "canvas"},
	{ReasonPlugin, "plugin"},
	{ReasonIFrame, "iframe"},
	{ReasonBackfaceVisibilityHidden, "backface-visibility: hidden"},
	{ReasonClipsCompositingDescendants, "clips compositing descendants"},
	{ReasonAnimation, "animation"},
	{ReasonFilters, "filters"},
	{ReasonBlending, "blending"},
	{ReasonPositionFixed, "position: fixed"},
	{ReasonPositionSticky, "position: sticky"},
	{ReasonOverflowScrollingTouch, "-webkit-overflow-scrolling: touch"},
	{ReasonStacking, "stacking"},
	{ReasonOverlap, "overlap"},
	{ReasonNegativeZIndexChildren, "negative z-index children"},
	{ReasonTransformWithCompositedDescendants, "transform with composited descendants"},
	{ReasonOpacityWithCompositedDescendants, "opacity with composited descendants"},
	{ReasonMaskWithCompositedDescendants, "mask with composited descendants"},
	{ReasonReflectionWithCompositedDescendants, "reflection with composited descendants"},
	{ReasonFilterWithCompositedDescendants, "filter with composited descendants"},
	{ReasonBlendingWithCompositedDescendants, "blending with composited descendants"},
	{ReasonPerspective, "perspective"},
	{ReasonPreserve3D, "preserve-3d"},
	{ReasonRoot, "root"},
}

// Has reports whether every reason in x is present.
func (r Reasons) Has(x Reasons) bool { return r&x == x && x != 0 }

// Names lists the reasons in priority order.
func (r Reasons) Names() []string {
	var names []string
	for _, n := range reasonNames {
		if r&n.r != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

// Primary returns the highest priority reason, or "" for none.
func (r Reasons) Primary() string {
	for _, n := range reasonNames {
		if r&n.r != 0 {
			return n.name
		}
	}
	return ""
}

func (r Reasons) String() string {
	if r == ReasonNone {
		return "none"
	}
	return strings.Join(r.Names(), ", ")
}

// indirectReason records why a layer composites because of other layers.
type indirectReason uint8

const (
	indirectNone indirectReason = iota
	indirectStacking
	indirectOverlap
	indirectBackgroundLayer
	indirectGraphicalEffect
	indirectPerspective
	indirectPreserve3D
)

func (r indirectReason) String() string {
	switch r {
	case indirectStacking:
		return "stacking"
	case indirectOverlap:
		return "overlap"
	case indirectBackgroundLayer:
		return "background layer"
	case indirectGraphicalEffect:
		return "graphical effect"
	case indirectPerspective:
		return "perspective"
	case indirectPreserve3D:
		return "preserve-3d"
	default:
		return "none"
	}
}

// NotCompositedReason explains why a fixed layer that could composite
// does not.
type NotCompositedReason uint8

const (
	NotCompositedNone NotCompositedReason = iota
	NotCompositedNonViewContainer
	NotCompositedNoVisibleContent
	NotCompositedBoundsOutOfView
)

func (r NotCompositedReason) String() string {
	switch r {
	case NotCompositedNonViewContainer:
		return "container is not the view"
	case NotCompositedNoVisibleContent:
		return "no visible content"
	case NotCompositedBoundsOutOfView:
		return "bounds out of view"
	default:
		return "none"
	}
}
