// Registry keeps built machines of any type parameterization under their IDs.
package core

import (
	"fmt"
	"slices"
	"sync"

	"github.com/comalice/fsmx/internal/primitives"
	"github.com/comalice/fsmx/internal/production"
)

// Machine is the type-erased view of an Engine.
type Machine interface {
	ID() string
	Metrics() primitives.Metrics
	ResetMetrics()
	ClearHistory()
	ToDOT() string
	ToPlantUML() string
	Describe() primitives.Description
	Report() production.Report
}

var _ Machine = (*Engine[string, string, struct{}])(nil)

// Registry is a thread-safe set of machines keyed by ID.
type Registry struct {
	mu       sync.RWMutex
	machines map[string]Machine
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{machines: make(map[string]Machine)}
}

// Register adds m. A second machine with the same ID is rejected with ErrExists.
func (r *Registry) Register(m Machine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := m.ID()
	if _, ok := r.machines[id]; ok {
		return fmt.Errorf("register %q: %w", id, ErrExists)
	}
	r.machines[id] = m
	return nil
}

// Get returns the machine registered under id.
func (r *Registry) Get(id string) (Machine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.machines[id]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return m, nil
}

// Remove deletes the machine registered under id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.machines[id]; !ok {
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	delete(r.machines, id)
	return nil
}

// IDs returns the registered IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.machines))
	for id := range r.machines {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Machines returns the registered machines ordered by ID.
func (r *Registry) Machines() []Machine {
	ids := r.IDs()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Machine, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.machines[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Lookup returns the machine under id as a typed engine.
func Lookup[S, E comparable, C any](r *Registry, id string) (*Engine[S, E, C], error) {
	m, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	e, ok := m.(*Engine[S, E, C])
	if !ok {
		return nil, fmt.Errorf("machine %q is %T, not the requested engine type", id, m)
	}
	return e, nil
}
