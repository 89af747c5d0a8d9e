package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/waymark/pkg/domain"
)

// Registry manages named guards so step files can refer to them by name.
type Registry struct {
	mu     sync.RWMutex
	guards map[string]domain.Guard
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		guards: make(map[string]domain.Guard),
	}
}

// Register adds a guard to the registry.
// If a guard with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn domain.Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[name] = fn
}

// Lookup returns the guard registered under name.
func (r *Registry) Lookup(name string) (domain.Guard, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.guards[name]
	return fn, ok
}

// Resolve fills in the Guard of every step that only carries a GuardName.
// Steps with an unknown name are left without a guard so validation reports them.
func (r *Registry) Resolve(steps []domain.StepDefinition) []domain.StepDefinition {
	out := make([]domain.StepDefinition, len(steps))
	for i, s := range steps {
		if s.Guard == nil && s.GuardName != "" {
			if fn, ok := r.Lookup(s.GuardName); ok {
				s.Guard = fn
			}
		}
		out[i] = s
	}
	return out
}

// Names returns the registered guard names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.guards))
	for name := range r.guards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MustLookup is like Lookup but panics when the guard is missing.
func (r *Registry) MustLookup(name string) domain.Guard {
	fn, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("registry: guard not found: %s", name))
	}
	return fn
}
