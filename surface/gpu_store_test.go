// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"golang.org/x/image/math/fixed"
)

type halProvider struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
}

func (p *halProvider) Device() gpucontext.Device             { return nil }
func (p *halProvider) Queue() gpucontext.Queue               { return nil }
func (p *halProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *halProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *halProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }
func (p *halProvider) HalDevice() any                        { return p.device }
func (p *halProvider) HalQueue() any                         { return p.queue }

type plainProvider struct{}

func (plainProvider) Device() gpucontext.Device             { return nil }
func (plainProvider) Queue() gpucontext.Queue               { return nil }
func (plainProvider) Adapter() gpucontext.Adapter           { return nil }
func (plainProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }
func (plainProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func TestRegisterGPURejectsPlainProvider(t *testing.T) {
	r := NewRegistry()
	if _, err := RegisterGPU(r, plainProvider{}); !errors.Is(err, ErrNoHALDevice) {
		t.Errorf("RegisterGPU() error = %v, want ErrNoHALDevice", err)
	}
	if len(r.List()) != 0 {
		t.Error("failed registration left an entry behind")
	}
}

func TestGPUBackendFormatDefault(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b, err := NewGPUBackend(&halProvider{device: device, queue: queue})
	if err != nil {
		t.Fatalf("NewGPUBackend() = %v", err)
	}
	if b.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v, want BGRA8Unorm for an undefined surface format", b.Format())
	}
}

func TestGPUStoreLifecycle(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := NewRegistry()
	r.Register("memory", PriorityMemory, NewMemoryStore, nil)
	b, err := RegisterGPU(r, &halProvider{device: device, queue: queue, format: gputypes.TextureFormatRGBA8Unorm})
	if err != nil {
		t.Fatalf("RegisterGPU() = %v", err)
	}
	defer b.Close()

	if got := r.Available(); len(got) != 2 || got[0] != "gpu" {
		t.Fatalf("Available() = %v, want gpu first", got)
	}

	s, err := r.NewSurface("layer", nil)
	if err != nil {
		t.Fatalf("NewSurface() = %v", err)
	}
	s.SetSize(fixed.P(64, 32))
	s.SetDrawsContent(true)
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	st, ok := s.Store().(*gpuStore)
	if !ok {
		t.Fatalf("Store() = %T, want *gpuStore", s.Store())
	}
	if w, h := st.Size(); w != 64 || h != 32 {
		t.Errorf("Size() = %dx%d, want 64x32", w, h)
	}

	s.SetSize(fixed.P(128, 32))
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() after resize = %v", err)
	}
	if st.Bytes() != 128*32*4 {
		t.Errorf("Bytes() = %d, want %d", st.Bytes(), 128*32*4)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if st.texture != nil || st.view != nil {
		t.Error("Close() left texture resources")
	}

	b.Close()
	if b.Available() {
		t.Error("Available() = true after backend Close")
	}
}

func TestBorderShaderCompiles(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b, err := NewGPUBackend(&halProvider{device: device, queue: queue})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	module, err := b.borderModule()
	if err != nil {
		t.Skipf("border shader unavailable on this toolchain: %v", err)
	}
	if module == nil {
		t.Error("borderModule() returned nil without an error")
	}
}
