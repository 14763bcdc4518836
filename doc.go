// Package compositor decides which layers of a rendered document get
// their own GPU surfaces and keeps a presentation tree of those surfaces
// in paint order.
//
// # Overview
//
// Layout produces a tree of stacking-context layers. After each layout or
// style change the host calls UpdateCompositingLayers, which walks the
// tree in paint order and decides, per layer, whether it needs a backing:
//
//   - directly, for 3D transforms, accelerated video, canvas, plugins and
//     iframes, running animations, filters, blending, fixed or sticky
//     positioning and touch scrolling
//   - indirectly, because a composited layer earlier in paint order
//     overlaps it, because its descendants are composited and it applies
//     a graphical effect to them, or because a composited negative z
//     child must render beneath its foreground
//
// Layers without a backing paint into the backing of their nearest
// composited ancestor.
//
// # Quick Start
//
//	view := &compositor.View{Root: root, Viewport: compositor.XYWH(0, 0, 800, 600)}
//	c := compositor.New(view, compositor.WithHost(host))
//	defer c.Close()
//
//	c.UpdateCompositingLayers(compositor.UpdateAfterLayout, nil)
//	fmt.Print(c.LayerTreeAsText(0))
//
// # Presentation tree
//
// Each composited layer contributes one surface to its parent's list, in
// the order: composited negative z descendants, the foreground surface,
// composited normal flow descendants, composited positive z descendants.
// Auxiliary surfaces for clipping, masks, reflections, scrollbars and
// composited scrolling are created only when needed.
//
// # Flushing
//
// Surface changes are committed by FlushPendingLayerChanges. Surfaces ask
// for a flush through the Host; with throttling enabled, requests are
// coalesced into one flush per throttle window.
//
// # Coordinates
//
// All geometry is absolute in root coordinates, in 26.6 fixed point.
// Surface positions are relative to the parent surface.
//
// # Threading
//
// A Compositor and its surfaces belong to one goroutine. The scroll
// coordinator may apply published constraints on its own goroutine.
package compositor

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
