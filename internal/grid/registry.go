package grid

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps ids to live grids. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	grids   map[string]*Grid
	metrics *Metrics
}

// NewRegistry creates an empty registry. m may be nil.
func NewRegistry(m *Metrics) *Registry {
	return &Registry{
		grids:   make(map[string]*Grid),
		metrics: m,
	}
}

// Add registers g under its id.
func (r *Registry) Add(g *Grid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.grids[g.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateGrid, g.ID())
	}
	r.grids[g.ID()] = g
	r.metrics.setGrids(len(r.grids))
	return nil
}

// Get returns the grid registered under id.
func (r *Registry) Get(id string) (*Grid, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.grids[id]
	return g, ok
}

// MustGet returns the grid registered under id or ErrGridNotFound.
func (r *Registry) MustGet(id string) (*Grid, error) {
	g, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGridNotFound, id)
	}
	return g, nil
}

// Remove unregisters and closes the grid registered under id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	g, ok := r.grids[id]
	if ok {
		delete(r.grids, id)
		r.metrics.setGrids(len(r.grids))
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGridNotFound, id)
	}
	g.Close()
	return nil
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.grids))
	for id := range r.grids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered grids.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.grids)
}
