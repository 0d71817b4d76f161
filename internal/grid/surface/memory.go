package surface

import (
	"fmt"
	"slices"

	"github.com/dshills/gridkit/internal/grid/cellrange"
)

// MemoryFeatures is a settable FeatureState.
type MemoryFeatures struct {
	Sorted   bool
	Grouped  bool
	Filtered bool
}

// IsGridSorted implements FeatureState.
func (f *MemoryFeatures) IsGridSorted() bool { return f.Sorted }

// IsGridGrouped implements FeatureState.
func (f *MemoryFeatures) IsGridGrouped() bool { return f.Grouped }

// IsGridFiltered implements FeatureState.
func (f *MemoryFeatures) IsGridFiltered() bool { return f.Filtered }

// Option configures a MemorySurface.
type Option func(*MemorySurface)

// WithPageSize sets the page size. Zero shows every row on one page.
func WithPageSize(size int) Option {
	return func(s *MemorySurface) {
		if size >= 0 {
			s.pageSize = size
		}
	}
}

// WithSelectionMode sets the initial selection mode.
func WithSelectionMode(mode SelectionMode) Option {
	return func(s *MemorySurface) {
		s.mode = mode
	}
}

// MemorySurface is an in-process grid provider.
type MemorySurface struct {
	collection *MemoryCollection
	columns    []Column
	features   *MemoryFeatures
	events     *Events

	pageSize  int
	pageIndex int
	rows      []*Row

	mode SelectionMode
	sel  *memorySelection

	invalidations int
	focusCount    int
}

// NewMemorySurface creates a surface over columns and items.
// Column indices are assigned from their position.
func NewMemorySurface(columns []Column, items []*Item, opts ...Option) (*MemorySurface, error) {
	if len(columns) == 0 {
		return nil, ErrColumnsRequired
	}

	s := &MemorySurface{
		collection: NewMemoryCollection(items),
		columns:    slices.Clone(columns),
		features:   &MemoryFeatures{},
		events:     NewEvents(),
		mode:       SelectionMultiRange,
		sel:        &memorySelection{active: cellrange.Invalid()},
	}
	for i := range s.columns {
		s.columns[i].Index = i
	}
	for _, opt := range opts {
		opt(s)
	}

	s.collection.onRefresh = s.onCollectionRefresh
	s.rebuildRows()
	return s, nil
}

// Collection implements Surface.
func (s *MemorySurface) Collection() Collection { return s.collection }

// Memory returns the concrete collection.
func (s *MemorySurface) Memory() *MemoryCollection { return s.collection }

// Features implements Surface.
func (s *MemorySurface) Features() FeatureState { return s.features }

// FeatureFlags returns the settable feature flags.
func (s *MemorySurface) FeatureFlags() *MemoryFeatures { return s.features }

// Events implements Surface.
func (s *MemorySurface) Events() *Events { return s.events }

// PageRows implements Surface.
func (s *MemorySurface) PageRows() []*Row { return s.rows }

// PageOffset implements Surface.
func (s *MemorySurface) PageOffset() int {
	return s.pageIndex * s.pageSize
}

// RowTotal implements Surface.
func (s *MemorySurface) RowTotal() int { return s.collection.Len() }

// PageCount returns the number of pages.
func (s *MemorySurface) PageCount() int {
	if s.pageSize == 0 || s.collection.Len() == 0 {
		return 1
	}
	return (s.collection.Len() + s.pageSize - 1) / s.pageSize
}

// PageIndex returns the current page.
func (s *MemorySurface) PageIndex() int { return s.pageIndex }

// MoveToPage switches the current page. Rows are rebuilt, which resets the
// row-level checked flags until the updating-view handlers restore them.
func (s *MemorySurface) MoveToPage(index int) error {
	if index < 0 || index >= s.PageCount() {
		return fmt.Errorf("%w: %d", ErrPageOutOfRange, index)
	}
	s.pageIndex = index
	s.sel.active = cellrange.Invalid()
	s.sel.extended = nil
	s.rebuildRows()
	s.updatingView()
	return nil
}

// Columns implements Surface.
func (s *MemorySurface) Columns() []Column { return slices.Clone(s.columns) }

// Column implements Surface.
func (s *MemorySurface) Column(index int) (Column, bool) {
	if index < 0 || index >= len(s.columns) {
		return Column{}, false
	}
	return s.columns[index], true
}

// ColumnByBinding implements Surface.
func (s *MemorySurface) ColumnByBinding(binding string) (Column, bool) {
	for _, c := range s.columns {
		if c.Binding == binding {
			return c, true
		}
	}
	return Column{}, false
}

// CellData implements Surface. row is page-relative.
func (s *MemorySurface) CellData(row int, binding string, formatted bool) (any, error) {
	if row < 0 || row >= len(s.rows) {
		return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	if _, ok := s.ColumnByBinding(binding); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBinding, binding)
	}
	v := s.rows[row].Item.Fields[binding]
	if formatted {
		if v == nil {
			return "", nil
		}
		return fmt.Sprint(v), nil
	}
	return v, nil
}

// SelectionMode implements Surface.
func (s *MemorySurface) SelectionMode() SelectionMode { return s.mode }

// SetSelectionMode implements Surface. Extended ranges are dropped; switching
// to None also drops the active range.
func (s *MemorySurface) SetSelectionMode(mode SelectionMode) {
	s.mode = mode
	s.sel.extended = nil
	if mode == SelectionNone {
		s.sel.active = cellrange.Invalid()
	}
}

// Selection implements Surface.
func (s *MemorySurface) Selection() SelectionHandler { return s.sel }

// SelectedRanges implements Surface.
func (s *MemorySurface) SelectedRanges() []cellrange.CellRange {
	var ranges []cellrange.CellRange
	if s.mode == SelectionNone {
		return ranges
	}

	if s.mode == SelectionMultiRange {
		for _, r := range s.sel.extended {
			if r.IsValid() {
				ranges = append(ranges, r)
			}
		}
	}

	active := s.sel.active
	if !active.IsValid() {
		return ranges
	}
	for _, r := range ranges {
		if r.Equals(active) {
			return ranges
		}
	}
	return append(ranges, active)
}

// Select implements Surface.
func (s *MemorySurface) Select(r cellrange.CellRange, focus bool) {
	s.events.SelectionChanging.Trigger(RangeArgs{Row: r.Row, Col: r.Col, Range: r})
	s.sel.active = r
	s.sel.extended = nil
	s.events.SelectionChanged.Trigger(RangeArgs{Row: r.Row, Col: r.Col, Range: r})
	if focus {
		s.Focus()
	}
}

// AddSelection simulates a ctrl-click gesture: in MultiRange mode the current
// range is kept as an extended range and r becomes active.
func (s *MemorySurface) AddSelection(r cellrange.CellRange) {
	if s.mode != SelectionMultiRange {
		s.Select(r, false)
		return
	}
	s.events.SelectionChanging.Trigger(RangeArgs{Row: r.Row, Col: r.Col, Range: r})
	if s.sel.active.IsValid() {
		s.sel.extended = append(s.sel.extended, s.sel.active)
	}
	s.sel.active = r
	s.events.SelectionChanged.Trigger(RangeArgs{Row: r.Row, Col: r.Col, Range: r})
}

// SetSelectedRanges replaces the raw selection state without notifications.
// It reproduces states left behind by extend gestures, where ranges overlap.
func (s *MemorySurface) SetSelectedRanges(active cellrange.CellRange, extended ...cellrange.CellRange) {
	s.sel.active = active
	s.sel.extended = slices.Clone(extended)
}

// SetRowChecked simulates a click on a row-header checkbox.
func (s *MemorySurface) SetRowChecked(row int, checked bool) error {
	if row < 0 || row >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	s.rows[row].IsSelected = checked
	s.events.SelectionChanged.Trigger(RangeArgs{Row: row, Col: -1, Range: cellrange.New(row, -1, row, -1)})
	return nil
}

// Render raises the format-item notification for every visible cell of the
// page and returns the classes collected per page row.
func (s *MemorySurface) Render() map[int][]string {
	out := make(map[int][]string)
	for _, row := range s.rows {
		for _, col := range s.columns {
			if !col.Visible {
				continue
			}
			args := &FormatItemArgs{Row: row.Index, Col: col.Index}
			s.events.FormatItem.Trigger(args)
			for _, cls := range args.Classes {
				if !slices.Contains(out[row.Index], cls) {
					out[row.Index] = append(out[row.Index], cls)
				}
			}
		}
	}
	return out
}

// Invalidate implements Surface.
func (s *MemorySurface) Invalidate() {
	s.invalidations++
	s.updatingView()
}

// Invalidations returns how many times the surface was marked dirty.
func (s *MemorySurface) Invalidations() int { return s.invalidations }

// Focus implements Surface.
func (s *MemorySurface) Focus() { s.focusCount++ }

// FocusCount returns how many times the surface was focused.
func (s *MemorySurface) FocusCount() int { return s.focusCount }

func (s *MemorySurface) onCollectionRefresh() {
	if last := s.PageCount() - 1; s.pageIndex > last {
		s.pageIndex = last
	}
	s.rebuildRows()
	s.updatingView()
}

func (s *MemorySurface) rebuildRows() {
	items := s.collection.items
	start := s.PageOffset()
	end := len(items)
	if s.pageSize > 0 {
		end = min(start+s.pageSize, len(items))
	}
	if start > end {
		start = end
	}

	s.rows = make([]*Row, 0, end-start)
	for i, it := range items[start:end] {
		s.rows = append(s.rows, &Row{Index: i, Item: it})
	}
}

func (s *MemorySurface) updatingView() {
	s.events.UpdatingView.Trigger(ViewArgs{PageOffset: s.PageOffset(), RowCount: len(s.rows)})
}

// memorySelection is the SelectionHandler of MemorySurface.
type memorySelection struct {
	active   cellrange.CellRange
	extended []cellrange.CellRange
}

func (m *memorySelection) ActiveSelection() cellrange.CellRange {
	return m.active
}

func (m *memorySelection) ExtendedSelections() []cellrange.CellRange {
	return slices.Clone(m.extended)
}

func (m *memorySelection) SetActiveBounds(r cellrange.CellRange) {
	m.active = r
}

func (m *memorySelection) SetExtendedBounds(i int, r cellrange.CellRange) {
	if i >= 0 && i < len(m.extended) {
		m.extended[i] = r
	}
}

func (m *memorySelection) RemoveExtendedAt(i int) {
	if i >= 0 && i < len(m.extended) {
		m.extended = slices.Delete(m.extended, i, i+1)
	}
}
