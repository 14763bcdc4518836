// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface implements the presentation surfaces the compositor
// arranges into a tree that mirrors paint order.
//
// A Surface is a retained node: it carries a position relative to its
// parent, a size, an opacity, an optional mask and replica, and a set of
// dirty tiles awaiting repaint. Property changes accumulate until Flush
// commits them, at which point each drawing surface makes sure it owns a
// backing Store of the right pixel size.
//
// # Backends
//
// Stores come from a backend registered by name and priority:
//
//   - "memory" (priority 10): an *image.RGBA per surface, always available
//   - "gpu" (priority 100): a HAL texture per surface, registered at runtime
//     with RegisterGPU once a device provider exists
//
// Third-party backends register themselves with Register.
//
// # Ownership
//
// Surfaces are not safe for concurrent use. They are owned by the goroutine
// that runs compositing updates.
package surface
