package compositor

import (
	"testing"

	"github.com/gogpu/compositor/scroll"
)

// recordingCoordinator applies updates synchronously so tests can inspect
// them without waiting on a goroutine.
type recordingCoordinator struct {
	fixedLayers bool
	nextID      scroll.NodeID
	parents     map[scroll.NodeID]scroll.NodeID
	types       map[scroll.NodeID]scroll.NodeType
	fixed       map[scroll.NodeID]scroll.FixedConstraints
	sticky      map[scroll.NodeID]scroll.StickyConstraints
	detached    []scroll.NodeID
}

func newRecordingCoordinator() *recordingCoordinator {
	return &recordingCoordinator{
		fixedLayers: true,
		parents:     make(map[scroll.NodeID]scroll.NodeID),
		types:       make(map[scroll.NodeID]scroll.NodeType),
		fixed:       make(map[scroll.NodeID]scroll.FixedConstraints),
		sticky:      make(map[scroll.NodeID]scroll.StickyConstraints),
	}
}

func (r *recordingCoordinator) SupportsFixedPositionLayers() bool { return r.fixedLayers }
func (r *recordingCoordinator) CoordinatesScrolling() bool        { return true }

func (r *recordingCoordinator) UniqueNodeID() scroll.NodeID {
	r.nextID++
	return r.nextID
}

func (r *recordingCoordinator) AttachNode(t scroll.NodeType, id, parent scroll.NodeID) scroll.NodeID {
	r.parents[id] = parent
	r.types[id] = t
	return id
}

func (r *recordingCoordinator) DetachNode(id scroll.NodeID) {
	delete(r.parents, id)
	delete(r.types, id)
	r.detached = append(r.detached, id)
}

func (r *recordingCoordinator) UpdateFixedConstraints(id scroll.NodeID, c scroll.FixedConstraints) {
	r.fixed[id] = c
}

func (r *recordingCoordinator) UpdateStickyConstraints(id scroll.NodeID, c scroll.StickyConstraints) {
	r.sticky[id] = c
}

func fixedLayer(name string, r Rect, insets Insets) *Layer {
	l := NewLayer(name, r)
	l.StackingContainer = true
	l.Style.Position = PositionFixed
	l.Style.Insets = insets
	return l
}

func TestFixedLayerRegistration(t *testing.T) {
	root := newTestRoot()
	f := root.Append(NormalFlow, fixedLayer("F", XYWH(0, 0, 100, 50),
		Insets{Left: AutoInset, Right: AutoInset, Top: InsetPx(0), Bottom: AutoInset}))
	sc := newRecordingCoordinator()
	c, _ := newTestCompositor(t, root, WithScrollCoordinator(sc))

	c.UpdateCompositingLayers(UpdateAfterLayout, nil)

	rootID := c.Backing(root).ScrollNodeID()
	if rootID == 0 {
		t.Fatal("root backing not attached to the coordinator")
	}
	if got := sc.types[rootID]; got != scroll.NodeScrolling {
		t.Errorf("root node type = %v, want scrolling", got)
	}
	id := c.Backing(f).ScrollNodeID()
	if id == 0 {
		t.Fatal("fixed layer not attached")
	}
	if got := sc.parents[id]; got != rootID {
		t.Errorf("parent of F = %d, want %d", got, rootID)
	}
	if got := sc.types[id]; got != scroll.NodeFixed {
		t.Errorf("F node type = %v, want fixed", got)
	}
	got, ok := sc.fixed[id]
	if !ok {
		t.Fatal("no fixed constraints published")
	}
	if want := scroll.AnchorTop | scroll.AnchorLeft; got.Anchors != want {
		t.Errorf("Anchors = %v, want %v", got.Anchors, want)
	}
	if got.ViewportRectAtLastLayout != c.View().Viewport {
		t.Errorf("ViewportRectAtLastLayout = %v, want %v", got.ViewportRectAtLastLayout, c.View().Viewport)
	}
	layers := c.ViewportConstrainedLayers()
	if len(layers) != 1 || layers[0] != f {
		t.Errorf("ViewportConstrainedLayers() = %v, want [F]", layers)
	}
}

func TestFixedAnchorEdges(t *testing.T) {
	tests := []struct {
		name   string
		insets Insets
		want   scroll.AnchorEdges
	}{
		{"all auto", AutoInsets, scroll.AnchorLeft | scroll.AnchorTop},
		{"right bottom", Insets{AutoInset, InsetPx(0), AutoInset, InsetPx(10)}, scroll.AnchorRight | scroll.AnchorBottom},
		{"all set", Insets{InsetPx(0), InsetPx(0), InsetPx(0), InsetPx(0)},
			scroll.AnchorLeft | scroll.AnchorRight | scroll.AnchorTop | scroll.AnchorBottom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newTestRoot()
			f := root.Append(NormalFlow, fixedLayer("F", XYWH(0, 0, 100, 50), tt.insets))
			sc := newRecordingCoordinator()
			c, _ := newTestCompositor(t, root, WithScrollCoordinator(sc))

			c.UpdateCompositingLayers(UpdateAfterLayout, nil)

			got := sc.fixed[c.Backing(f).ScrollNodeID()]
			if got.Anchors != tt.want {
				t.Errorf("Anchors = %v, want %v", got.Anchors, tt.want)
			}
		})
	}
}

func TestStickyConstraintsPublished(t *testing.T) {
	root := newTestRoot()
	s := root.Append(NormalFlow, NewLayer("S", XYWH(0, 100, 100, 20)))
	s.Style.Position = PositionSticky
	s.Style.Insets.Top = InsetPx(5)
	s.Sticky = StickyGeometry{
		ContainingBlock: XYWH(0, 0, 800, 1000),
		StickyBox:       XYWH(0, 100, 100, 20),
	}
	sc := newRecordingCoordinator()
	c, _ := newTestCompositor(t, root, WithScrollCoordinator(sc))

	c.UpdateCompositingLayers(UpdateAfterLayout, nil)

	id := c.Backing(s).ScrollNodeID()
	got, ok := sc.sticky[id]
	if !ok {
		t.Fatal("no sticky constraints published")
	}
	if got.Anchors != scroll.AnchorTop {
		t.Errorf("Anchors = %v, want top", got.Anchors)
	}
	if got.TopOffset != InsetPx(5).Value {
		t.Errorf("TopOffset = %v, want 5px", got.TopOffset)
	}
	if got.StickyBoxRect != s.Sticky.StickyBox {
		t.Errorf("StickyBoxRect = %v, want %v", got.StickyBoxRect, s.Sticky.StickyBox)
	}
	if got := sc.types[id]; got != scroll.NodeSticky {
		t.Errorf("S node type = %v, want sticky", got)
	}
}

func TestViewportConstrainedLayerUnregistered(t *testing.T) {
	root := newTestRoot()
	f := root.Append(NormalFlow, fixedLayer("F", XYWH(0, 0, 100, 50), AutoInsets))
	sc := newRecordingCoordinator()
	c, _ := newTestCompositor(t, root, WithForceCompositing(true), WithScrollCoordinator(sc))
	c.UpdateCompositingLayers(UpdateAfterLayout, nil)
	id := c.Backing(f).ScrollNodeID()

	f.Bounds = XYWH(1000, 1000, 100, 50)
	c.SetCompositingLayersNeedRebuild()
	c.UpdateCompositingLayers(UpdateAfterLayout, nil)

	if c.IsComposited(f) {
		t.Fatal("IsComposited(F) = true once out of view")
	}
	if len(c.ViewportConstrainedLayers()) != 0 {
		t.Errorf("ViewportConstrainedLayers() = %v, want none", c.ViewportConstrainedLayers())
	}
	if _, ok := sc.parents[id]; ok {
		t.Error("fixed node still attached")
	}
}

func TestCoordinatorWithoutFixedLayerSupport(t *testing.T) {
	root := newTestRoot()
	f := root.Append(NormalFlow, fixedLayer("F", XYWH(0, 0, 100, 50), AutoInsets))
	sc := newRecordingCoordinator()
	sc.fixedLayers = false
	c, _ := newTestCompositor(t, root, WithScrollCoordinator(sc))

	c.UpdateCompositingLayers(UpdateAfterLayout, nil)

	if !c.IsComposited(f) {
		t.Fatal("IsComposited(F) = false")
	}
	if id := c.Backing(f).ScrollNodeID(); id != 0 {
		t.Errorf("ScrollNodeID() = %d, want 0", id)
	}
}

func TestConstraintsRepublishedAfterFlush(t *testing.T) {
	root := newTestRoot()
	f := root.Append(NormalFlow, fixedLayer("F", XYWH(0, 0, 100, 50), AutoInsets))
	sc := newRecordingCoordinator()
	c, _ := newTestCompositor(t, root, WithScrollCoordinator(sc))
	c.UpdateCompositingLayers(UpdateAfterLayout, nil)
	id := c.Backing(f).ScrollNodeID()

	c.View().Viewport = XYWH(0, 200, 800, 600)
	c.Backing(f).Primary().SetNeedsDisplay()
	if err := c.FlushPendingLayerChanges(); err != nil {
		t.Fatalf("FlushPendingLayerChanges() = %v", err)
	}

	if got := sc.fixed[id].ViewportRectAtLastLayout; got != c.View().Viewport {
		t.Errorf("ViewportRectAtLastLayout = %v, want %v", got, c.View().Viewport)
	}
}

func TestTreeCoordinatorEndToEnd(t *testing.T) {
	root := newTestRoot()
	f := root.Append(NormalFlow, fixedLayer("F", XYWH(0, 0, 100, 50),
		Insets{Left: AutoInset, Right: AutoInset, Top: AutoInset, Bottom: InsetPx(0)}))
	tree := scroll.NewTree()
	t.Cleanup(tree.Close)
	c, _ := newTestCompositor(t, root, WithScrollCoordinator(tree))

	c.UpdateCompositingLayers(UpdateAfterLayout, nil)
	tree.Sync()

	id := c.Backing(f).ScrollNodeID()
	n, ok := tree.Node(id)
	if !ok {
		t.Fatal("fixed node missing from the state tree")
	}
	if n.Parent != c.Backing(root).ScrollNodeID() || n.Fixed == nil {
		t.Fatalf("Node() = %+v, want a fixed node under the root", n)
	}
	pos := tree.LayerPositions(XYWH(0, 0, 800, 700))[id]
	if want := Pt(0, 100); pos != want {
		t.Errorf("LayerPositions()[F] = %v, want %v", pos, want)
	}
}
