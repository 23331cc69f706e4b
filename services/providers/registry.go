package providers

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrProviderNotFound is returned when looking up a provider that is not registered
	ErrProviderNotFound = errors.New("provider not found")

	// ErrProviderAlreadyRegistered is returned when registering a duplicate provider name
	ErrProviderAlreadyRegistered = errors.New("provider already registered")
)

// Registry holds the set of provider adapters. Registration order is
// preserved: fan-out dispatch and the aggregated outcome list both
// follow it, so responses come back in a stable order regardless of
// which provider finishes first.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Adapter
	ordered []Adapter
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Adapter),
	}
}

// Register adds an adapter under its own name
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return errors.New("adapter cannot be nil")
	}

	name := adapter.Name()
	if name == "" {
		return errors.New("adapter name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrProviderAlreadyRegistered, name)
	}

	r.byName[name] = adapter
	r.ordered = append(r.ordered, adapter)
	return nil
}

// Get retrieves an adapter by provider name
func (r *Registry) Get(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.byName[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}

	return adapter, nil
}

// Ordered returns all adapters in registration order
func (r *Registry) Ordered() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Adapter, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Names returns all registered provider names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ordered))
	for _, adapter := range r.ordered {
		names = append(names, adapter.Name())
	}
	return names
}

// Count returns the number of registered adapters
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.ordered)
}
