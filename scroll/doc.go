// Package scroll defines the boundary between the compositor and the
// subsystem that moves viewport-constrained surfaces during scrolling.
//
// The compositor publishes immutable constraint snapshots through the
// Coordinator interface and never reads state back. Tree is a Coordinator
// that applies those snapshots on its own goroutine and can answer where
// each fixed or sticky surface belongs for a given viewport.
package scroll
