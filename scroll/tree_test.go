package scroll

import (
	"testing"

	"golang.org/x/image/math/fixed"
)

func TestTreeAttachDetach(t *testing.T) {
	tr := NewTree()
	defer tr.Close()

	root := tr.AttachNode(NodeScrolling, tr.UniqueNodeID(), 0)
	fixedID := tr.AttachNode(NodeFixed, tr.UniqueNodeID(), root)
	sticky := tr.AttachNode(NodeSticky, tr.UniqueNodeID(), root)
	tr.Sync()

	if tr.Root() != root {
		t.Fatalf("Root() = %d, want %d", tr.Root(), root)
	}
	n, ok := tr.Node(root)
	if !ok || len(n.Children) != 2 {
		t.Fatalf("root children = %v, want 2", n.Children)
	}

	tr.DetachNode(fixedID)
	tr.Sync()
	if _, ok := tr.Node(fixedID); ok {
		t.Error("detached node still present")
	}
	if tr.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tr.Len())
	}

	tr.DetachNode(root)
	tr.Sync()
	if _, ok := tr.Node(sticky); ok {
		t.Error("detaching the root left a descendant")
	}
	if tr.Root() != 0 {
		t.Errorf("Root() = %d after detach, want 0", tr.Root())
	}
}

func TestTreeUnknownParentDropped(t *testing.T) {
	tr := NewTree()
	defer tr.Close()

	id := tr.AttachNode(NodeFixed, tr.UniqueNodeID(), 999)
	tr.Sync()
	if _, ok := tr.Node(id); ok {
		t.Error("node with unknown parent was attached")
	}
}

func TestTreeConstraintsAndPositions(t *testing.T) {
	tr := NewTree()
	defer tr.Close()

	root := tr.AttachNode(NodeScrolling, tr.UniqueNodeID(), 0)
	id := tr.AttachNode(NodeFixed, tr.UniqueNodeID(), root)
	tr.UpdateFixedConstraints(id, FixedConstraints{
		Anchors:                   AnchorLeft | AnchorTop,
		ViewportRectAtLastLayout:  fixed.R(0, 0, 800, 600),
		LayerPositionAtLastLayout: fixed.P(0, 0),
	})
	// Sticky constraints on a fixed node are ignored.
	tr.UpdateStickyConstraints(id, StickyConstraints{Anchors: AnchorTop})
	tr.Sync()

	n, _ := tr.Node(id)
	if n.Fixed == nil || n.Sticky != nil {
		t.Fatalf("Node() = %+v, want fixed constraints only", n)
	}
	pos := tr.LayerPositions(fixed.R(0, 300, 800, 900))
	if got := pos[id]; got != fixed.P(0, 300) {
		t.Errorf("LayerPositions()[fixed] = %v, want (0,300)", got)
	}
	if _, ok := pos[root]; ok {
		t.Error("scrolling node reported a position")
	}
	if tr.Applied() != 4 {
		t.Errorf("Applied() = %d, want 4", tr.Applied())
	}
}

func TestTreeOptions(t *testing.T) {
	tr := NewTree(WithFixedPositionLayers(false), WithCoordinatedScrolling(false), WithQueueSize(1))
	defer tr.Close()
	if tr.SupportsFixedPositionLayers() || tr.CoordinatesScrolling() {
		t.Error("options were not applied")
	}
	if tr.AttachNode(NodeFixed, 0, 0) != 0 {
		t.Error("AttachNode with id 0 should return 0")
	}
}

func TestTreeReattachSameParentIsNoop(t *testing.T) {
	tr := NewTree()
	defer tr.Close()
	root := tr.AttachNode(NodeScrolling, tr.UniqueNodeID(), 0)
	id := tr.AttachNode(NodeSticky, tr.UniqueNodeID(), root)
	tr.UpdateStickyConstraints(id, StickyConstraints{Anchors: AnchorTop})
	tr.AttachNode(NodeSticky, id, root)
	tr.Sync()
	n, ok := tr.Node(id)
	if !ok || n.Sticky == nil {
		t.Error("re-attaching under the same parent dropped constraints")
	}
}

func TestTreeReattachMovesSubtree(t *testing.T) {
	tr := NewTree()
	defer tr.Close()

	root := tr.AttachNode(NodeScrolling, tr.UniqueNodeID(), 0)
	a := tr.AttachNode(NodeScrolling, tr.UniqueNodeID(), root)
	b := tr.AttachNode(NodeScrolling, tr.UniqueNodeID(), root)
	child := tr.AttachNode(NodeFixed, tr.UniqueNodeID(), a)
	leaf := tr.AttachNode(NodeSticky, tr.UniqueNodeID(), child)
	tr.UpdateFixedConstraints(child, FixedConstraints{Anchors: AnchorLeft | AnchorTop})

	// Same type, new parent: the subtree and constraints move along.
	tr.AttachNode(NodeFixed, child, b)
	tr.Sync()

	n, ok := tr.Node(child)
	if !ok {
		t.Fatal("re-attached node missing")
	}
	if n.Parent != b {
		t.Errorf("Parent = %d, want %d", n.Parent, b)
	}
	if n.Fixed == nil {
		t.Error("constraints lost on re-attach")
	}
	if len(n.Children) != 1 || n.Children[0] != leaf {
		t.Errorf("Children = %v, want [%d]", n.Children, leaf)
	}
	if _, ok := tr.Node(leaf); !ok {
		t.Error("descendant removed on re-attach")
	}
	if old, _ := tr.Node(a); len(old.Children) != 0 {
		t.Errorf("old parent children = %v, want none", old.Children)
	}

	// A type change keeps the subtree but drops stale constraints.
	tr.AttachNode(NodeSticky, child, b)
	tr.Sync()
	if n, _ := tr.Node(child); n.Type != NodeSticky || n.Fixed != nil || len(n.Children) != 1 {
		t.Errorf("Node() = %+v, want sticky with one child and no fixed constraints", n)
	}
}

func TestTreeReattachUnderDescendantRejected(t *testing.T) {
	tr := NewTree()
	defer tr.Close()

	root := tr.AttachNode(NodeScrolling, tr.UniqueNodeID(), 0)
	a := tr.AttachNode(NodeScrolling, tr.UniqueNodeID(), root)
	b := tr.AttachNode(NodeScrolling, tr.UniqueNodeID(), a)
	tr.AttachNode(NodeScrolling, a, b)
	tr.Sync()

	if n, _ := tr.Node(a); n.Parent != root {
		t.Errorf("Parent = %d, want %d", n.Parent, root)
	}
	if n, _ := tr.Node(b); n.Parent != a {
		t.Errorf("Parent = %d, want %d", n.Parent, a)
	}
}
