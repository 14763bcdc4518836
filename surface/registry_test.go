// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"testing"

	"golang.org/x/image/math/fixed"
)

func recordingFactory(name string, picked *string) StoreFactory {
	return func(opts Options) (Store, error) {
		*picked = name
		return NewMemoryStore(opts)
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 50, NewMemoryStore, nil)

	entry, ok := r.Get("test")
	if !ok {
		t.Fatal("registered backend not found")
	}
	if entry.Name != "test" {
		t.Errorf("Name = %s, want test", entry.Name)
	}
	if entry.Priority != 50 {
		t.Errorf("Priority = %d, want 50", entry.Priority)
	}
	if !entry.Available() {
		t.Error("backend should be available (nil Available func)")
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register("temp", 10, NewMemoryStore, nil)
	r.Unregister("temp")
	if _, ok := r.Get("temp"); ok {
		t.Error("backend should not exist after unregister")
	}
}

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, NewMemoryStore, nil)
	r.Register("high", 100, NewMemoryStore, nil)
	r.Register("off", 200, NewMemoryStore, func() bool { return false })
	r.Register("mid", 50, NewMemoryStore, nil)

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"List", r.List(), []string{"off", "high", "mid", "low"}},
		{"Available", r.Available(), []string{"high", "mid", "low"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != len(tt.want) {
				t.Fatalf("%s() = %v, want %v", tt.name, tt.got, tt.want)
			}
			for i := range tt.want {
				if tt.got[i] != tt.want[i] {
					t.Errorf("%s()[%d] = %s, want %s", tt.name, i, tt.got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRegistryPrioritySelection(t *testing.T) {
	r := NewRegistry()
	var picked string
	r.Register("low", 10, recordingFactory("low", &picked), nil)
	r.Register("high", 100, recordingFactory("high", &picked), nil)

	s, err := r.NewSurface("layer", nil)
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	s.SetDrawsContent(true)
	s.SetSize(fixed.P(10, 10))
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	if picked != "high" {
		t.Errorf("selected = %s, want high", picked)
	}
}

func TestRegistryNewSurfaceByName(t *testing.T) {
	r := NewRegistry()
	r.Register("off", 10, NewMemoryStore, func() bool { return false })

	_, err := r.NewSurfaceByName("missing", "x", nil)
	var notFound *BackendNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "missing" {
		t.Errorf("NewSurfaceByName(missing) error = %v, want BackendNotFoundError", err)
	}

	_, err = r.NewSurfaceByName("off", "x", nil)
	var unavailable *BackendUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("NewSurfaceByName(off) error = %v, want BackendUnavailableError", err)
	}
}

func TestRegistryNoBackend(t *testing.T) {
	r := NewRegistry()
	if r.CanCreate() {
		t.Error("CanCreate() = true on an empty registry")
	}
	if _, err := r.NewSurface("x", nil); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("NewSurface() error = %v, want ErrNoBackendAvailable", err)
	}
}

func TestRegistryFactoryErrorSurfacesOnFlush(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("bad", 10, func(Options) (Store, error) { return nil, boom }, nil)

	s, err := r.NewSurface("layer", nil)
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	s.SetDrawsContent(true)
	s.SetSize(fixed.P(4, 4))
	err = s.Flush()
	if !errors.Is(err, boom) {
		t.Errorf("Flush() = %v, want wrapped boom", err)
	}
	var se *StoreError
	if !errors.As(err, &se) || se.Surface != "layer" {
		t.Errorf("Flush() = %v, want StoreError for layer", err)
	}
}

func TestGlobalRegistryHasMemory(t *testing.T) {
	if _, ok := Get("memory"); !ok {
		t.Fatal("memory backend not registered")
	}
	if !Default().CanCreate() {
		t.Error("Default().CanCreate() = false")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&BackendNotFoundError{Name: "vk"}, `surface: backend "vk" not found`},
		{&BackendUnavailableError{Name: "vk"}, `surface: backend "vk" not available`},
		{&StoreError{Surface: "a", Err: ErrClosed}, `surface "a": store: surface: store closed`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
