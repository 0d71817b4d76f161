// Package metadata provides sparse per-row metadata storage shared by the
// grid features.
//
// Entries are bags of labelled values. They are keyed either by absolute row
// index (independent of paging) or by the stable identity of the row's data
// item, which survives re-paging and re-sorting. Entries are created lazily
// and are never collected automatically: owners clear stale entries when rows
// go away.
//
// Store is not thread-safe. The grid drives it from a single goroutine.
package metadata

import (
	"maps"
	"sort"

	"github.com/google/uuid"
)

// Labels used by the grid features.
const (
	LabelRowSelection = "__rowSelection"
	LabelCSSClass     = "__cssClass"
)

type bag map[string]any

// Store maps rows to labelled metadata values.
type Store struct {
	byIndex    map[int]bag
	byIdentity map[uuid.UUID]bag
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byIndex:    make(map[int]bag),
		byIdentity: make(map[uuid.UUID]bag),
	}
}

// Get returns the value stored for the row and label.
func (s *Store) Get(row int, label string) (any, bool) {
	b, ok := s.byIndex[row]
	if !ok {
		return nil, false
	}
	v, ok := b[label]
	return v, ok
}

// Set stores a value for the row and label.
func (s *Store) Set(row int, label string, value any) {
	b, ok := s.byIndex[row]
	if !ok {
		b = make(bag)
		s.byIndex[row] = b
	}
	b[label] = value
}

// Has reports whether the row has a value for the label.
func (s *Store) Has(row int, label string) bool {
	_, ok := s.Get(row, label)
	return ok
}

// Delete removes the label from a single row.
func (s *Store) Delete(row int, label string) {
	b, ok := s.byIndex[row]
	if !ok {
		return
	}
	delete(b, label)
	if len(b) == 0 {
		delete(s.byIndex, row)
	}
}

// ClearProperty removes the label from every index-keyed row.
func (s *Store) ClearProperty(label string) {
	for row, b := range s.byIndex {
		delete(b, label)
		if len(b) == 0 {
			delete(s.byIndex, row)
		}
	}
}

// Rows returns the indices that hold a value for the label, ascending.
func (s *Store) Rows(label string) []int {
	var rows []int
	for row, b := range s.byIndex {
		if _, ok := b[label]; ok {
			rows = append(rows, row)
		}
	}
	sort.Ints(rows)
	return rows
}

// ShiftRows moves every index-keyed entry at or after from by delta.
// With a negative delta, entries in [from, from-delta) are dropped first.
func (s *Store) ShiftRows(from, delta int) {
	if delta == 0 {
		return
	}

	shifted := make(map[int]bag, len(s.byIndex))
	for row, b := range s.byIndex {
		switch {
		case row < from:
			shifted[row] = b
		case delta < 0 && row < from-delta:
			// Removed rows lose their metadata.
		default:
			shifted[row+delta] = b
		}
	}
	s.byIndex = shifted
}

// GetByIdentity returns the value stored for the row identity and label.
func (s *Store) GetByIdentity(id uuid.UUID, label string) (any, bool) {
	b, ok := s.byIdentity[id]
	if !ok {
		return nil, false
	}
	v, ok := b[label]
	return v, ok
}

// SetByIdentity stores a value for the row identity and label.
func (s *Store) SetByIdentity(id uuid.UUID, label string, value any) {
	b, ok := s.byIdentity[id]
	if !ok {
		b = make(bag)
		s.byIdentity[id] = b
	}
	b[label] = value
}

// HasByIdentity reports whether the row identity has a value for the label.
func (s *Store) HasByIdentity(id uuid.UUID, label string) bool {
	_, ok := s.GetByIdentity(id, label)
	return ok
}

// DeleteIdentity drops every label held for the row identity.
func (s *Store) DeleteIdentity(id uuid.UUID) {
	delete(s.byIdentity, id)
}

// Identity returns a copy of every label held for the row identity, or nil.
func (s *Store) Identity(id uuid.UUID) map[string]any {
	b, ok := s.byIdentity[id]
	if !ok {
		return nil
	}
	return maps.Clone(b)
}

// RestoreIdentity replaces the labels of the row identity with values.
// An empty values map drops the identity.
func (s *Store) RestoreIdentity(id uuid.UUID, values map[string]any) {
	if len(values) == 0 {
		delete(s.byIdentity, id)
		return
	}
	s.byIdentity[id] = maps.Clone(values)
}

// ClearPropertyByIdentity removes the label from every identity-keyed row.
func (s *Store) ClearPropertyByIdentity(label string) {
	for id, b := range s.byIdentity {
		delete(b, label)
		if len(b) == 0 {
			delete(s.byIdentity, id)
		}
	}
}

// Clear removes all metadata.
func (s *Store) Clear() {
	s.byIndex = make(map[int]bag)
	s.byIdentity = make(map[uuid.UUID]bag)
}

// Len returns the number of rows holding any metadata, both key kinds.
func (s *Store) Len() int {
	return len(s.byIndex) + len(s.byIdentity)
}

// GetOrCreate returns the typed value for the row and label, storing the
// result of create when absent or of a different type.
func GetOrCreate[T any](s *Store, row int, label string, create func() T) T {
	if v, ok := s.Get(row, label); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}
	v := create()
	s.Set(row, label, v)
	return v
}

// GetOrCreateByIdentity is GetOrCreate for identity-keyed rows.
func GetOrCreateByIdentity[T any](s *Store, id uuid.UUID, label string, create func() T) T {
	if v, ok := s.GetByIdentity(id, label); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}
	v := create()
	s.SetByIdentity(id, label, v)
	return v
}

// RowSelection is the checked state of a row in checkbox row-header grids.
type RowSelection struct {
	IsChecked bool
}

// CSSClass holds the ordered, duplicate-free class names of a row.
type CSSClass struct {
	Classes []string
}

// Add appends the class if absent. Returns false when it was already present.
func (c *CSSClass) Add(name string) bool {
	if c.Has(name) {
		return false
	}
	c.Classes = append(c.Classes, name)
	return true
}

// Remove deletes the class if present. Returns false when it was absent.
func (c *CSSClass) Remove(name string) bool {
	for i, cls := range c.Classes {
		if cls == name {
			c.Classes = append(c.Classes[:i], c.Classes[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether the class is present.
func (c *CSSClass) Has(name string) bool {
	for _, cls := range c.Classes {
		if cls == name {
			return true
		}
	}
	return false
}

// Reset removes every class.
func (c *CSSClass) Reset() {
	c.Classes = nil
}
