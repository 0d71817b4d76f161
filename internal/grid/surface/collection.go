package surface

import "slices"

// MemoryCollection is an in-memory editable collection.
// Structural changes refresh the owner once per outermost DeferUpdate batch.
type MemoryCollection struct {
	items []*Item

	deferDepth int
	dirty      bool
	refreshes  int

	onRefresh func()
}

// NewMemoryCollection creates a collection holding items.
func NewMemoryCollection(items []*Item) *MemoryCollection {
	return &MemoryCollection{items: slices.Clone(items)}
}

// Items returns a copy of the item list.
func (c *MemoryCollection) Items() []*Item {
	return slices.Clone(c.items)
}

// Len returns the number of items.
func (c *MemoryCollection) Len() int {
	return len(c.items)
}

// At returns the item at an absolute index.
func (c *MemoryCollection) At(index int) (*Item, bool) {
	if index < 0 || index >= len(c.items) {
		return nil, false
	}
	return c.items[index], true
}

// IndexOf returns the absolute index of the item, or -1.
func (c *MemoryCollection) IndexOf(item *Item) int {
	for i, it := range c.items {
		if it == item {
			return i
		}
	}
	return -1
}

// Insert splices items in at index. The index is clamped to [0, Len].
func (c *MemoryCollection) Insert(index int, items ...*Item) {
	if len(items) == 0 {
		return
	}
	index = max(0, min(index, len(c.items)))
	c.items = slices.Insert(c.items, index, items...)
	c.changed()
}

// Remove deletes the item by identity.
func (c *MemoryCollection) Remove(item *Item) bool {
	i := c.IndexOf(item)
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.changed()
	return true
}

// Reset replaces every item.
func (c *MemoryCollection) Reset(items []*Item) {
	c.items = slices.Clone(items)
	c.changed()
}

// DeferUpdate runs fn and refreshes once at the end of the outermost batch.
func (c *MemoryCollection) DeferUpdate(fn func()) {
	c.deferDepth++
	defer func() {
		c.deferDepth--
		if c.deferDepth == 0 && c.dirty {
			c.Refresh()
		}
	}()
	fn()
}

// IsUpdating returns true inside a DeferUpdate batch.
func (c *MemoryCollection) IsUpdating() bool {
	return c.deferDepth > 0
}

// Refresh notifies the owner that the collection changed.
func (c *MemoryCollection) Refresh() {
	c.dirty = false
	c.refreshes++
	if c.onRefresh != nil {
		c.onRefresh()
	}
}

// RefreshCount returns how many refreshes were issued.
func (c *MemoryCollection) RefreshCount() int {
	return c.refreshes
}

func (c *MemoryCollection) changed() {
	if c.deferDepth > 0 {
		c.dirty = true
		return
	}
	c.Refresh()
}
