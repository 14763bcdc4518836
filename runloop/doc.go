// Package runloop provides the timer sources the compositor schedules its
// deferred work on.
//
// Two schedulers are available:
//
//   - Manual: a deterministic virtual clock. Nothing fires until Advance is
//     called, which makes it the natural choice for tests and for hosts that
//     drive their own frame loop.
//   - Loop: a single goroutine that runs posted callbacks and real timers in
//     order, serializing them the way a UI thread would.
//
// Callbacks from either scheduler never run concurrently with each other.
package runloop
