// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// Backend priorities used by the built-in backends.
const (
	PriorityGPU    = 100
	PriorityMemory = 10
)

// RegistryEntry describes a registered store backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	Priority int

	// Factory allocates stores.
	Factory StoreFactory

	// Available reports whether the backend can allocate right now.
	Available func() bool
}

var globalRegistry = NewRegistry()

func init() {
	Register("memory", PriorityMemory, NewMemoryStore, nil)
}

// Registry selects the store backend for new surfaces.
//
// Example:
//
//	s, err := surface.Default().NewSurface("Content Root", client)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Default returns the process-wide registry.
func Default() *Registry { return globalRegistry }

// Register adds a backend to the global registry.
func Register(name string, priority int, factory StoreFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names, highest priority first.
func List() []string {
	return globalRegistry.List()
}

// Available returns the names of available backends, highest priority first.
func Available() []string {
	return globalRegistry.Available()
}

// Get returns a copy of the named backend's entry.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// Register adds a backend. A nil available func means always available.
// Registering an existing name replaces it.
func (r *Registry) Register(name string, priority int, factory StoreFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns available backend names sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns a copy of the named entry.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// CanCreate reports whether at least one backend is available.
func (r *Registry) CanCreate() bool {
	return len(r.Available()) > 0
}

// NewSurface creates a surface backed by the best available backend.
func (r *Registry) NewSurface(name string, client Client) (*Surface, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	var factory StoreFactory
	if len(available) > 0 {
		factory = r.entries[available[0]].Factory
	}
	r.mu.RUnlock()

	if factory == nil {
		return nil, ErrNoBackendAvailable
	}
	return New(name, client, factory), nil
}

// NewSurfaceByName creates a surface backed by the named backend.
func (r *Registry) NewSurfaceByName(backend, name string, client Client) (*Surface, error) {
	r.mu.RLock()
	entry, ok := r.entries[backend]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: backend}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: backend}
	}
	return New(name, client, entry.Factory), nil
}

// sortedNames must be called with the lock held. Ties sort by name so the
// choice is stable.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	var picked []*RegistryEntry
	for _, e := range r.entries {
		if !onlyAvailable || e.Available() {
			picked = append(picked, e)
		}
	}
	slices.SortFunc(picked, func(a, b *RegistryEntry) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	var names []string
	for _, e := range picked {
		names = append(names, e.Name)
	}
	return names
}
