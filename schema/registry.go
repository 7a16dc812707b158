package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps schema names to definitions. It is written during setup
// and read for the rest of the run; lookups never mutate it. Each test
// worker or process owns an independent instance.
type Registry struct {
	schemas   map[string]Definition
	overwrite bool
	mu        sync.RWMutex
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithOverwrite allows Register to replace an existing definition instead
// of failing with ErrDuplicateSchema.
func WithOverwrite(overwrite bool) RegistryOption {
	return func(r *Registry) {
		r.overwrite = overwrite
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		schemas: make(map[string]Definition),
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

// Register inserts a definition under name. Re-registering an identical
// definition is a no-op, so setup code shared across test files can run
// repeatedly within one process. A conflicting definition fails with
// ErrDuplicateSchema unless the registry was built with WithOverwrite.
func (r *Registry) Register(name string, def Definition) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidDefinition)
	}
	if def == nil {
		return fmt.Errorf("%w: definition cannot be nil", ErrInvalidDefinition)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.schemas[name]; exists && !r.overwrite {
		if Equal(existing, def) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateSchema, name)
	}

	r.schemas[name] = def
	return nil
}

// RegisterAll registers every definition in defs. The first failure stops
// registration and is returned.
func (r *Registry) RegisterAll(defs map[string]Definition) error {
	// Deterministic order so a duplicate is reported consistently.
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.Register(name, defs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Get resolves a schema name. An unregistered name fails with
// ErrUnknownSchema.
func (r *Registry) Get(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.schemas[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	return def, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[name]
	return exists
}

// Names returns all registered schema names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
