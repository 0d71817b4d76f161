package surface

import (
	"maps"

	"github.com/google/uuid"
)

// Item is one record of the data source.
// ID is the stable row identity assigned at ingestion.
type Item struct {
	ID     uuid.UUID
	Fields map[string]any
}

// NewItem wraps fields in an item with a fresh identity.
func NewItem(fields map[string]any) *Item {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Item{ID: uuid.New(), Fields: fields}
}

// NewItems wraps every record.
func NewItems(records []map[string]any) []*Item {
	items := make([]*Item, len(records))
	for i, r := range records {
		items[i] = NewItem(r)
	}
	return items
}

// Get returns a field value.
func (it *Item) Get(binding string) (any, bool) {
	v, ok := it.Fields[binding]
	return v, ok
}

// Snapshot returns a shallow copy of the fields.
func (it *Item) Snapshot() map[string]any {
	return maps.Clone(it.Fields)
}
