// Package verifiers contains the verifier registry and the built-in
// per-source verifiers.
package verifiers

import (
	"sort"
	"sync"

	"github.com/example/driftwatch/internal/ports/secondary"
)

// Registry maps a source-type tag to the verifier that can check
// existence of that type's remote objects. Lookups for unregistered
// types return false; callers degrade to an all-error batch result
// instead of crashing the sweep.
type Registry struct {
	mu        sync.RWMutex
	verifiers map[string]secondary.Verifier
}

// NewRegistry creates an empty verifier registry.
func NewRegistry() *Registry {
	return &Registry{verifiers: make(map[string]secondary.Verifier)}
}

// Register adds a verifier under its source type, replacing any
// previous registration for that type.
func (r *Registry) Register(v secondary.Verifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifiers[v.SourceType()] = v
}

// Lookup returns the verifier for a source type.
func (r *Registry) Lookup(sourceType string) (secondary.Verifier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.verifiers[sourceType]
	return v, ok
}

// SourceTypes returns the registered source types in sorted order.
func (r *Registry) SourceTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.verifiers))
	for t := range r.verifiers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
