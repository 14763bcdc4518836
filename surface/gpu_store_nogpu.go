// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build nogpu

package surface

import "github.com/gogpu/gpucontext"

// GPUBackend is unavailable in builds tagged nogpu.
type GPUBackend struct{}

// RegisterGPU always fails in builds tagged nogpu.
func RegisterGPU(*Registry, gpucontext.DeviceProvider) (*GPUBackend, error) {
	return nil, ErrGPUDisabled
}

// Close is a no-op.
func (*GPUBackend) Close() {}
