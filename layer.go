package compositor

import (
	"fmt"
	"slices"
	"sync/atomic"

	"golang.org/x/image/math/fixed"
)

// LayerID identifies a layer for the lifetime of the process.
type LayerID uint64

var lastLayerID atomic.Uint64

// Position is the CSS positioning scheme of a layer.
type Position uint8

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

func (p Position) String() string {
	switch p {
	case PositionStatic:
		return "static"
	case PositionRelative:
		return "relative"
	case PositionAbsolute:
		return "absolute"
	case PositionFixed:
		return "fixed"
	case PositionSticky:
		return "sticky"
	default:
		return fmt.Sprintf("Position(%d)", p)
	}
}

// ContentKind identifies replaced content that may be hardware accelerated.
type ContentKind uint8

const (
	ContentNone ContentKind = iota
	ContentVideo
	ContentCanvas
	ContentPlugin
	ContentFrame
)

// Content describes a layer's replaced content.
type Content struct {
	Kind ContentKind

	// Accelerated reports that the content renders on the GPU.
	Accelerated bool

	// ThreeD marks a canvas with a 3D context.
	ThreeD bool
}

// Animations is the set of properties with running accelerated animations.
type Animations uint8

const (
	AnimatingTransform Animations = 1 << iota
	AnimatingOpacity
	AnimatingFilter
)

// BlendMode is the CSS mix-blend-mode of a layer.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendDifference
)

// Inset is one of top, right, bottom or left.
type Inset struct {
	Auto  bool
	Value fixed.Int26_6
}

// AutoInset is the "auto" inset.
var AutoInset = Inset{Auto: true}

// InsetPx is a length inset in pixels.
func InsetPx(v int) Inset { return Inset{Value: fixed.I(v)} }

// Insets groups the four position offsets.
type Insets struct {
	Left, Right, Top, Bottom Inset
}

// AutoInsets has every edge set to auto.
var AutoInsets = Insets{AutoInset, AutoInset, AutoInset, AutoInset}

// Style holds the computed style consulted by compositing decisions.
type Style struct {
	// Transform is set for any non-identity transform; Transform3D when the
	// transform has a 3D component.
	Transform   bool
	Transform3D bool

	Opacity   float32
	Filter    bool
	Mask      bool
	BlendMode BlendMode

	BackfaceHidden bool
	Preserve3D     bool
	Perspective    bool

	Position Position
	Insets   Insets

	// OverflowClip clips descendants to Layer.ClipRect.
	OverflowClip bool

	// TouchScrolling requests composited overflow scrolling.
	TouchScrolling bool

	Animations Animations
}

// DefaultStyle is the style of an unstyled block.
func DefaultStyle() Style {
	return Style{Opacity: 1, Insets: AutoInsets}
}

// HasTransform reports any transform.
func (s Style) HasTransform() bool { return s.Transform || s.Transform3D }

// IsTransparent reports opacity below one.
func (s Style) IsTransparent() bool { return s.Opacity < 1 }

// HasBlendMode reports a non-normal blend mode.
func (s Style) HasBlendMode() bool { return s.BlendMode != BlendNormal }

// Scrollbars holds the absolute rectangles of a scroller's controls. An
// empty rectangle means the control is absent.
type Scrollbars struct {
	Horizontal Rect
	Vertical   Rect
	Corner     Rect
}

// StickyGeometry is the layout of a sticky layer at the last layout.
type StickyGeometry struct {
	ContainingBlock Rect
	StickyBox       Rect
	Offset          Point
}

// ZList names one of a layer's ordered child lists.
type ZList uint8

const (
	NegativeZ ZList = iota
	NormalFlow
	PositiveZ
)

// Layer is a stacking-context node produced by layout.
//
// Geometry is absolute, in root coordinates. The compositor reads layers
// and annotates them through its own side table; it never mutates the
// exported fields.
type Layer struct {
	Name string

	// Bounds is the layer's own box including overflow, used for overlap.
	Bounds Rect

	// ClipRect is the overflow clip box (the padding box), used when
	// Style.OverflowClip is set.
	ClipRect Rect

	Style   Style
	Content Content

	SelfPainting      bool
	StackingContainer bool

	// VisibleContent reports that the layer paints something itself.
	VisibleContent bool

	// InsideFlowThread marks layers inside a named flow, which cannot be
	// composited. OutOfFlowThread marks the flow thread root itself, which
	// is skipped entirely.
	InsideFlowThread bool
	OutOfFlowThread  bool

	ScrollsOverflow bool
	ScrollOffset    Point
	ScrollSize      Point
	Scrollbars      Scrollbars
	OverlayScroll   bool

	Sticky StickyGeometry

	id               LayerID
	parent           *Layer
	reflection       *Layer
	reflectionSource *Layer
	lists            [3][]*Layer
}

// NewLayer returns a self-painting layer with the default style.
func NewLayer(name string, bounds Rect) *Layer {
	return &Layer{
		Name:           name,
		Bounds:         bounds,
		Style:          DefaultStyle(),
		SelfPainting:   true,
		VisibleContent: true,
		id:             LayerID(lastLayerID.Add(1)),
	}
}

// ID returns the layer's identifier.
func (l *Layer) ID() LayerID { return l.id }

// Parent returns the parent layer. A reflection's parent is its source.
func (l *Layer) Parent() *Layer { return l.parent }

// IsRoot reports whether l heads a layer tree.
func (l *Layer) IsRoot() bool { return l.parent == nil && l.reflectionSource == nil }

// Append adds child at the top of list and returns child. Only stacking
// containers take z-ordered children.
func (l *Layer) Append(list ZList, child *Layer) *Layer {
	contractf(list == NormalFlow || l.StackingContainer,
		"layer %v: z-ordered child %v on a layer that is not a stacking container", l, child)
	child.Detach()
	child.parent = l
	l.lists[list] = append(l.lists[list], child)
	return child
}

// Detach removes l from its parent's child list.
func (l *Layer) Detach() {
	p := l.parent
	if p == nil || l.reflectionSource != nil {
		return
	}
	for i := range p.lists {
		if j := slices.Index(p.lists[i], l); j >= 0 {
			p.lists[i] = slices.Delete(p.lists[i], j, j+1)
			break
		}
	}
	l.parent = nil
}

// List returns a copy of one child list in paint order.
func (l *Layer) List(list ZList) []*Layer { return slices.Clone(l.lists[list]) }

// SetReflection installs r as the reflection of l. A nil r removes it.
func (l *Layer) SetReflection(r *Layer) {
	if l.reflection != nil {
		l.reflection.parent = nil
		l.reflection.reflectionSource = nil
	}
	l.reflection = r
	if r != nil {
		r.Detach()
		r.parent = l
		r.reflectionSource = l
	}
}

// Reflection returns the reflection layer, or nil.
func (l *Layer) Reflection() *Layer { return l.reflection }

// IsReflection reports whether l reflects another layer.
func (l *Layer) IsReflection() bool { return l.reflectionSource != nil }

// children calls fn for every child in paint order: negative z, normal
// flow, positive z. Z-ordered lists are only consulted on stacking
// containers.
func (l *Layer) children(fn func(*Layer)) {
	if l.StackingContainer {
		for _, c := range l.lists[NegativeZ] {
			fn(c)
		}
	}
	for _, c := range l.lists[NormalFlow] {
		fn(c)
	}
	if l.StackingContainer {
		for _, c := range l.lists[PositiveZ] {
			fn(c)
		}
	}
}

func (l *Layer) negZ() []*Layer {
	if !l.StackingContainer {
		return nil
	}
	return l.lists[NegativeZ]
}

func (l *Layer) posZ() []*Layer {
	if !l.StackingContainer {
		return nil
	}
	return l.lists[PositiveZ]
}

func (l *Layer) normalFlow() []*Layer { return l.lists[NormalFlow] }

// stackingContainer returns the nearest ancestor that is a stacking
// container.
func (l *Layer) stackingContainer() *Layer {
	for p := l.parent; p != nil; p = p.parent {
		if p.StackingContainer {
			return p
		}
	}
	return nil
}

// needsCompositedScrolling reports touch scrolling on an overflow scroller.
func (l *Layer) needsCompositedScrolling() bool {
	return l.Style.TouchScrolling && l.ScrollsOverflow
}

func (l *Layer) String() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("layer#%d", l.id)
}
