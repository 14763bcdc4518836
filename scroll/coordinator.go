package scroll

import "fmt"

// NodeID identifies a node in the scrolling state tree. Zero means none.
type NodeID uint64

// NodeType classifies state tree nodes.
type NodeType uint8

const (
	NodeScrolling NodeType = iota
	NodeFixed
	NodeSticky
)

func (t NodeType) String() string {
	switch t {
	case NodeScrolling:
		return "scrolling"
	case NodeFixed:
		return "fixed"
	case NodeSticky:
		return "sticky"
	default:
		return fmt.Sprintf("NodeType(%d)", t)
	}
}

// Coordinator receives the scrolling structure and constraint snapshots
// published by the compositor. Implementations may apply them
// asynchronously; the compositor never reads them back.
type Coordinator interface {
	// SupportsFixedPositionLayers reports whether fixed and sticky
	// surfaces may be registered.
	SupportsFixedPositionLayers() bool

	// CoordinatesScrolling reports whether scrolling happens off the
	// compositor's thread, which makes sticky surfaces worth promoting.
	CoordinatesScrolling() bool

	// UniqueNodeID allocates a fresh node id.
	UniqueNodeID() NodeID

	// AttachNode places node id of type t under parent (zero for the root)
	// and returns the id in effect.
	AttachNode(t NodeType, id, parent NodeID) NodeID

	// DetachNode removes id and its descendants.
	DetachNode(id NodeID)

	UpdateFixedConstraints(id NodeID, c FixedConstraints)
	UpdateStickyConstraints(id NodeID, c StickyConstraints)
}
