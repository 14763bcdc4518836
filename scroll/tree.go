package scroll

import (
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/compositor/internal/logging"
	"github.com/gogpu/compositor/runloop"
)

// Node is a read-only snapshot of one state tree node.
type Node struct {
	ID       NodeID
	Parent   NodeID
	Type     NodeType
	Children []NodeID

	Fixed  *FixedConstraints
	Sticky *StickyConstraints
}

type treeOptions struct {
	fixedLayers bool
	coordinated bool
	queueSize   int
}

// TreeOption configures a Tree.
type TreeOption func(*treeOptions)

// WithFixedPositionLayers controls whether fixed and sticky surfaces may
// register. The default is true.
func WithFixedPositionLayers(enabled bool) TreeOption {
	return func(o *treeOptions) { o.fixedLayers = enabled }
}

// WithCoordinatedScrolling controls whether the tree claims to scroll off
// the compositor's thread. The default is true.
func WithCoordinatedScrolling(enabled bool) TreeOption {
	return func(o *treeOptions) { o.coordinated = enabled }
}

// WithQueueSize sets how many updates may be buffered before publishers
// block.
func WithQueueSize(n int) TreeOption {
	return func(o *treeOptions) { o.queueSize = n }
}

// Tree is a Coordinator that maintains the scrolling state tree on its own
// goroutine. Publishing methods return immediately; Sync waits until every
// earlier update has been applied.
type Tree struct {
	opts   treeOptions
	loop   *runloop.Loop
	nextID atomic.Uint64

	mu      sync.RWMutex
	nodes   map[NodeID]*treeNode
	root    NodeID
	applied uint64
}

type treeNode struct {
	id       NodeID
	parent   NodeID
	typ      NodeType
	children []NodeID
	fixed    *FixedConstraints
	sticky   *StickyConstraints
}

// NewTree starts a state tree.
func NewTree(opts ...TreeOption) *Tree {
	o := treeOptions{fixedLayers: true, coordinated: true, queueSize: 256}
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree{
		opts:  o,
		loop:  runloop.NewLoop(o.queueSize),
		nodes: make(map[NodeID]*treeNode),
	}
}

func (t *Tree) SupportsFixedPositionLayers() bool { return t.opts.fixedLayers }

func (t *Tree) CoordinatesScrolling() bool { return t.opts.coordinated }

func (t *Tree) UniqueNodeID() NodeID { return NodeID(t.nextID.Add(1)) }

// AttachNode queues the attachment and returns id.
func (t *Tree) AttachNode(typ NodeType, id, parent NodeID) NodeID {
	if id == 0 {
		return 0
	}
	t.post(func() { t.attach(typ, id, parent) })
	return id
}

func (t *Tree) DetachNode(id NodeID) {
	if id == 0 {
		return
	}
	t.post(func() { t.detach(id) })
}

func (t *Tree) UpdateFixedConstraints(id NodeID, c FixedConstraints) {
	t.post(func() {
		if n := t.nodes[id]; n != nil && n.typ == NodeFixed {
			n.fixed = &c
		}
	})
}

func (t *Tree) UpdateStickyConstraints(id NodeID, c StickyConstraints) {
	t.post(func() {
		if n := t.nodes[id]; n != nil && n.typ == NodeSticky {
			n.sticky = &c
		}
	})
}

// Sync blocks until all previously published updates are applied.
func (t *Tree) Sync() { t.loop.Sync() }

// Close stops the tree's goroutine after applying queued updates.
func (t *Tree) Close() { t.loop.Close() }

// Root returns the root node id, or zero.
func (t *Tree) Root() NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// Applied returns how many updates have been applied.
func (t *Tree) Applied() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.applied
}

// Node returns a snapshot of id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	out := Node{ID: n.id, Parent: n.parent, Type: n.typ, Children: slices.Clone(n.children)}
	if n.fixed != nil {
		f := *n.fixed
		out.Fixed = &f
	}
	if n.sticky != nil {
		s := *n.sticky
		out.Sticky = &s
	}
	return out, true
}

// LayerPositions returns where each constrained surface belongs when the
// viewport is at viewport. Nodes whose constraints have not arrived yet are
// omitted.
func (t *Tree) LayerPositions(viewport fixed.Rectangle26_6) map[NodeID]fixed.Point26_6 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[NodeID]fixed.Point26_6)
	for id, n := range t.nodes {
		switch {
		case n.fixed != nil:
			out[id] = n.fixed.LayerPositionForViewportRect(viewport)
		case n.sticky != nil:
			out[id] = n.sticky.LayerPositionForConstrainingRect(viewport)
		}
	}
	return out
}

// post runs f on the tree goroutine with the write lock held.
func (t *Tree) post(f func()) {
	ok := t.loop.Post(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		f()
		t.applied++
	})
	if !ok {
		logging.L().Warn("scroll: update dropped after Close")
	}
}

// attach runs on the tree goroutine with t.mu held. Re-attaching an
// existing node moves it with its subtree; constraints survive unless the
// node type changes.
func (t *Tree) attach(typ NodeType, id, parent NodeID) {
	n, exists := t.nodes[id]
	if exists && n.parent == parent && n.typ == typ {
		return
	}
	var p *treeNode
	if parent != 0 {
		var ok bool
		if p, ok = t.nodes[parent]; !ok {
			logging.L().Debug("scroll: attach to unknown parent", "node", id, "parent", parent)
			return
		}
		if t.inSubtree(parent, id) {
			logging.L().Warn("scroll: attach would create a cycle", "node", id, "parent", parent)
			return
		}
	}

	if exists {
		t.unlink(n)
		if n.typ != typ {
			n.typ = typ
			n.fixed, n.sticky = nil, nil
		}
	} else {
		n = &treeNode{id: id, typ: typ}
		t.nodes[id] = n
	}
	n.parent = parent

	if p == nil {
		if t.root != 0 && t.root != id {
			t.detach(t.root)
		}
		t.root = id
		return
	}
	if t.root == id {
		t.root = 0
	}
	p.children = append(p.children, id)
}

// unlink removes n from its parent's child list.
func (t *Tree) unlink(n *treeNode) {
	if p, ok := t.nodes[n.parent]; ok {
		if i := slices.Index(p.children, n.id); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
	}
}

// inSubtree reports whether id is top or one of its descendants.
func (t *Tree) inSubtree(id, top NodeID) bool {
	for n := t.nodes[id]; n != nil; n = t.nodes[n.parent] {
		if n.id == top {
			return true
		}
	}
	return false
}

// detach runs on the tree goroutine with t.mu held.
func (t *Tree) detach(id NodeID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, c := range slices.Clone(n.children) {
		t.detach(c)
	}
	t.unlink(n)
	delete(t.nodes, id)
	if t.root == id {
		t.root = 0
	}
}
