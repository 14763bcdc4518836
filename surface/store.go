// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "image"

// Options describes the pixel storage a surface needs.
type Options struct {
	// Label identifies the store in diagnostics; it is the surface name.
	Label string

	// Width and Height are in device pixels, already scaled.
	Width  int
	Height int
}

// Store is the pixel storage behind a drawing surface.
type Store interface {
	// Resize changes the pixel size. Resizing to the current size is a no-op.
	Resize(width, height int) error

	// Size returns the pixel size.
	Size() (width, height int)

	// Bytes estimates the memory held by the store.
	Bytes() int64

	// Close releases the storage. Close is idempotent.
	Close() error
}

// BorderPainter is implemented by stores that prepare resources for
// drawing debug borders.
type BorderPainter interface {
	EnableDebugBorder() error
}

// StoreFactory allocates a store.
type StoreFactory func(opts Options) (Store, error)

// MemoryStore keeps surface pixels in an *image.RGBA.
type MemoryStore struct {
	img    *image.RGBA
	closed bool
}

// NewMemoryStore allocates a store of the given size. Non-positive
// dimensions are clamped to 1.
func NewMemoryStore(opts Options) (Store, error) {
	w, h := clampSize(opts.Width, opts.Height)
	return &MemoryStore{img: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

// Resize reallocates the image when the size changes.
func (m *MemoryStore) Resize(width, height int) error {
	if m.closed {
		return ErrClosed
	}
	width, height = clampSize(width, height)
	if b := m.img.Bounds(); b.Dx() == width && b.Dy() == height {
		return nil
	}
	m.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Size returns the image dimensions.
func (m *MemoryStore) Size() (int, int) {
	if m.img == nil {
		return 0, 0
	}
	b := m.img.Bounds()
	return b.Dx(), b.Dy()
}

// Bytes returns the size of the pixel buffer.
func (m *MemoryStore) Bytes() int64 {
	if m.img == nil {
		return 0
	}
	return int64(len(m.img.Pix))
}

// Image returns the backing image, or nil once closed.
func (m *MemoryStore) Image() *image.RGBA { return m.img }

// Close drops the pixel buffer.
func (m *MemoryStore) Close() error {
	m.closed = true
	m.img = nil
	return nil
}

func clampSize(w, h int) (int, int) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}
