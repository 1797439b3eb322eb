package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/chazu/scatter/pkg/geom"
)

// Registry is an in-memory Provider: named descriptors registered by the
// caller. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	meshes map[string]*geom.Descriptor
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{meshes: make(map[string]*geom.Descriptor)}
}

// Define registers a descriptor under a name.
func (r *Registry) Define(name string, desc *geom.Descriptor) error {
	if desc == nil {
		return fmt.Errorf("mesh '%s': nil descriptor", name)
	}
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("mesh '%s': %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.meshes[name]; exists {
		return fmt.Errorf("mesh name '%s' already defined", name)
	}
	r.meshes[name] = desc
	return nil
}

// Get returns a registered descriptor by name.
func (r *Registry) Get(name string) (*geom.Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, exists := r.meshes[name]
	if !exists {
		return nil, &NotFoundError{Name: name}
	}
	return desc, nil
}

// List returns all registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.meshes))
	for name := range r.meshes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete removes a registered descriptor.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.meshes[name]; !exists {
		return &NotFoundError{Name: name}
	}
	delete(r.meshes, name)
	return nil
}
