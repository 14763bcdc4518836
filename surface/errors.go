// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBackendAvailable is returned when no surface backend is registered
	// or none reports itself available.
	ErrNoBackendAvailable = errors.New("surface: no backend available")

	// ErrClosed is returned when operating on a closed store.
	ErrClosed = errors.New("surface: store closed")

	// ErrNoHALDevice is returned by RegisterGPU when the provider does not
	// expose a HAL device.
	ErrNoHALDevice = errors.New("surface: provider does not expose a HAL device")

	// ErrGPUDisabled is returned by RegisterGPU in builds tagged nogpu.
	ErrGPUDisabled = errors.New("surface: built without GPU support")
)

// BackendNotFoundError is returned when a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return fmt.Sprintf("surface: backend %q not found", e.Name)
}

// BackendUnavailableError is returned when a named backend is registered
// but reports itself unavailable.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("surface: backend %q not available", e.Name)
}

// StoreError wraps a failure to allocate or resize the store behind a
// named surface.
type StoreError struct {
	Surface string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("surface %q: store: %v", e.Surface, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
