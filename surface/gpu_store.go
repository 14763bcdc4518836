// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package surface

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compositor/internal/logging"
)

// borderShaderWGSL outlines a surface in a solid color. Fragments farther
// than params.width from every edge come out fully transparent.
const borderShaderWGSL = `
struct BorderParams {
    color: vec4<f32>,
    size: vec2<f32>,
    width: f32,
    pad: f32,
}

@group(0) @binding(0) var<uniform> params: BorderParams;

@vertex
fn vs_main(@builtin(vertex_index) vi: u32) -> @builtin(position) vec4<f32> {
    let x = f32((vi << 1u) & 2u) * 2.0 - 1.0;
    let y = f32(vi & 2u) * 2.0 - 1.0;
    return vec4<f32>(x, y, 0.0, 1.0);
}

@fragment
fn fs_main(@builtin(position) p: vec4<f32>) -> @location(0) vec4<f32> {
    let w = params.width;
    let inner = p.x >= w && p.y >= w && p.x < params.size.x - w && p.y < params.size.y - w;
    return select(params.color, vec4<f32>(0.0), inner);
}
`

// GPUBackend allocates surface stores as textures on a HAL device.
type GPUBackend struct {
	device hal.Device
	format gputypes.TextureFormat

	mu     sync.Mutex
	border hal.ShaderModule
	err    error
	once   sync.Once
}

// RegisterGPU registers the "gpu" backend on r using the device exposed by
// provider. The provider must implement HalDevice() any returning a
// hal.Device, as gogpu's device providers do.
func RegisterGPU(r *Registry, provider gpucontext.DeviceProvider) (*GPUBackend, error) {
	b, err := NewGPUBackend(provider)
	if err != nil {
		return nil, err
	}
	r.Register("gpu", PriorityGPU, b.NewStore, b.Available)
	logging.L().Info("surface: gpu backend registered", "format", b.format)
	return b, nil
}

// NewGPUBackend extracts the HAL device from provider.
func NewGPUBackend(provider gpucontext.DeviceProvider) (*GPUBackend, error) {
	type halProvider interface {
		HalDevice() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNoHALDevice
	}
	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	return &GPUBackend{device: device, format: format}, nil
}

// Available reports whether the backend still holds a device.
func (b *GPUBackend) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.device != nil
}

// Format returns the texture format of allocated stores.
func (b *GPUBackend) Format() gputypes.TextureFormat { return b.format }

// NewStore allocates a texture-backed store.
func (b *GPUBackend) NewStore(opts Options) (Store, error) {
	b.mu.Lock()
	device := b.device
	b.mu.Unlock()
	if device == nil {
		return nil, ErrClosed
	}
	s := &gpuStore{backend: b, device: device, label: opts.Label}
	if err := s.Resize(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	return s, nil
}

// borderModule compiles the border shader once per backend.
func (b *GPUBackend) borderModule() (hal.ShaderModule, error) {
	b.once.Do(func() {
		code, err := compileSPIRV(borderShaderWGSL)
		if err != nil {
			b.err = err
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.device == nil {
			b.err = ErrClosed
			return
		}
		b.border, b.err = b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  "surface debug border",
			Source: hal.ShaderSource{SPIRV: code},
		})
	})
	return b.border, b.err
}

// Close releases the shared shader and stops further allocation. Stores
// already handed out must be closed by their surfaces.
func (b *GPUBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.border != nil && b.device != nil {
		b.device.DestroyShaderModule(b.border)
		b.border = nil
	}
	b.device = nil
}

func compileSPIRV(wgsl string) ([]uint32, error) {
	spirv, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("surface: compile border shader: %w", err)
	}
	code := make([]uint32, len(spirv)/4)
	for i := range code {
		code[i] = uint32(spirv[i*4]) |
			uint32(spirv[i*4+1])<<8 |
			uint32(spirv[i*4+2])<<16 |
			uint32(spirv[i*4+3])<<24
	}
	return code, nil
}

type gpuStore struct {
	backend *GPUBackend
	device  hal.Device
	label   string

	width, height int
	texture       hal.Texture
	view          hal.TextureView
	closed        bool
}

func (s *gpuStore) Resize(width, height int) error {
	if s.closed {
		return ErrClosed
	}
	width, height = clampSize(width, height)
	if s.texture != nil && width == s.width && height == s.height {
		return nil
	}
	s.release()

	tex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label: s.label,
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        s.backend.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create texture %dx%d: %w", width, height, err)
	}
	view, err := s.device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: s.label})
	if err != nil {
		s.device.DestroyTexture(tex)
		return fmt.Errorf("create texture view: %w", err)
	}
	s.texture, s.view = tex, view
	s.width, s.height = width, height
	return nil
}

func (s *gpuStore) Size() (int, int) { return s.width, s.height }

func (s *gpuStore) Bytes() int64 {
	if s.texture == nil {
		return 0
	}
	return int64(s.width) * int64(s.height) * 4
}

func (s *gpuStore) EnableDebugBorder() error {
	_, err := s.backend.borderModule()
	return err
}

func (s *gpuStore) Close() error {
	if s.closed {
		return nil
	}
	s.release()
	s.closed = true
	return nil
}

func (s *gpuStore) release() {
	if s.view != nil {
		s.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.texture != nil {
		s.device.DestroyTexture(s.texture)
		s.texture = nil
	}
	s.width, s.height = 0, 0
}
