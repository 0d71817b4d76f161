// Package surface defines the port through which the grid features drive a
// rendering provider, and an in-memory provider implementing it.
//
// The features never reach into provider internals. Everything they need is
// expressed by the interfaces in this file:
//
//   - Collection: the editable data source (splice insert, identity remove,
//     deferred-update batches, refresh).
//   - SelectionHandler: the capability to read and rewrite the provider's
//     selection ranges in place.
//   - FeatureState: the filter/sort/group flags that gate row mutations.
//   - Surface: paging, columns, cell reads, selection mode and the
//     notification streams.
//
// MemorySurface is a complete in-process provider. The CLI, page scripts and
// all tests run against it.
package surface

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/gridkit/internal/event"
	"github.com/dshills/gridkit/internal/grid/cellrange"
)

// Errors returned by surfaces.
var (
	ErrRowOutOfRange   = errors.New("row out of range")
	ErrUnknownBinding  = errors.New("unknown column binding")
	ErrUnknownMode     = errors.New("unknown selection mode")
	ErrPageOutOfRange  = errors.New("page out of range")
	ErrItemNotFound    = errors.New("item not found")
	ErrColumnsRequired = errors.New("at least one column is required")
)

// SelectionMode controls how the provider lets users select cells.
type SelectionMode int

// Selection modes understood by providers.
const (
	SelectionNone SelectionMode = iota
	SelectionCell
	SelectionCellRange
	SelectionRow
	SelectionRowRange
	SelectionListBox
	SelectionMultiRange
)

var modeNames = []string{"None", "Cell", "CellRange", "Row", "RowRange", "ListBox", "MultiRange"}

// String returns the mode name.
func (m SelectionMode) String() string {
	if int(m) >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("SelectionMode(%d)", int(m))
}

// ParseSelectionMode parses a mode name, case-insensitively.
func ParseSelectionMode(s string) (SelectionMode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return SelectionMode(i), nil
		}
	}
	return SelectionNone, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ColumnType is the data type of a column.
type ColumnType int

// Column types.
const (
	ColumnText ColumnType = iota
	ColumnNumber
	ColumnCurrency
	ColumnCalculated
	ColumnDate
	ColumnDateTime
	ColumnCheckbox
	ColumnDropdown
	ColumnAction
)

var columnTypeNames = []string{"Text", "Number", "Currency", "Calculated", "Date", "DateTime", "Checkbox", "Dropdown", "Action"}

// String returns the type name.
func (t ColumnType) String() string {
	if int(t) >= 0 && int(t) < len(columnTypeNames) {
		return columnTypeNames[t]
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// IsNumeric reports whether selection aggregates include the column.
func (t ColumnType) IsNumeric() bool {
	return t == ColumnNumber || t == ColumnCurrency || t == ColumnCalculated
}

// ParseColumnType parses a type name, case-insensitively.
func ParseColumnType(s string) (ColumnType, error) {
	for i, name := range columnTypeNames {
		if strings.EqualFold(s, name) {
			return ColumnType(i), nil
		}
	}
	return ColumnText, fmt.Errorf("unknown column type %q", s)
}

// Column describes one grid column.
type Column struct {
	Index   int
	Binding string
	Header  string
	Visible bool
	Type    ColumnType
}

// Row is a page-relative view row.
type Row struct {
	Index      int
	Item       *Item
	IsSelected bool // checkbox row-header state
}

// Collection is the editable, pageable data source.
type Collection interface {
	Items() []*Item
	Len() int
	IndexOf(item *Item) int
	Insert(index int, items ...*Item)
	Remove(item *Item) bool
	DeferUpdate(fn func())
	Refresh()
}

// FeatureState exposes the flags that make row positions ambiguous.
type FeatureState interface {
	IsGridSorted() bool
	IsGridGrouped() bool
	IsGridFiltered() bool
}

// SelectionHandler is the capability to rewrite selection ranges in place.
type SelectionHandler interface {
	ActiveSelection() cellrange.CellRange
	ExtendedSelections() []cellrange.CellRange
	SetActiveBounds(r cellrange.CellRange)
	SetExtendedBounds(i int, r cellrange.CellRange)
	RemoveExtendedAt(i int)
}

// RangeArgs is the payload of range notifications.
type RangeArgs struct {
	Row   int
	Col   int
	Range cellrange.CellRange
}

// FormatItemArgs is the payload of the format-item notification.
// Handlers append CSS classes for the cell.
type FormatItemArgs struct {
	Row     int // page-relative
	Col     int
	Classes []string
}

// ViewArgs is the payload of the updating-view notification.
type ViewArgs struct {
	PageOffset int
	RowCount   int
}

// Events groups the notification streams of a surface.
type Events struct {
	SelectionChanging *event.Event[RangeArgs]
	SelectionChanged  *event.Event[RangeArgs]
	UpdatingView      *event.Event[ViewArgs]
	FormatItem        *event.Event[*FormatItemArgs]
	DeletingRow       *event.Event[RangeArgs]
}

// NewEvents creates the notification streams.
func NewEvents() *Events {
	return &Events{
		SelectionChanging: event.New[RangeArgs]("selectionChanging"),
		SelectionChanged:  event.New[RangeArgs]("selectionChanged"),
		UpdatingView:      event.New[ViewArgs]("updatingView"),
		FormatItem:        event.New[*FormatItemArgs]("formatItem"),
		DeletingRow:       event.New[RangeArgs]("deletingRow"),
	}
}

// SetPanicHandler installs h on every stream.
func (e *Events) SetPanicHandler(h event.PanicHandler) {
	e.SelectionChanging.SetPanicHandler(h)
	e.SelectionChanged.SetPanicHandler(h)
	e.UpdatingView.SetPanicHandler(h)
	e.FormatItem.SetPanicHandler(h)
	e.DeletingRow.SetPanicHandler(h)
}

// Surface is the rendering provider driven by the grid features.
type Surface interface {
	Collection() Collection
	Features() FeatureState
	Events() *Events

	// PageRows returns the rows of the current page.
	PageRows() []*Row
	// PageOffset is the absolute index of the first row on the page.
	PageOffset() int
	// RowTotal counts rows across all pages.
	RowTotal() int

	Columns() []Column
	Column(index int) (Column, bool)
	ColumnByBinding(binding string) (Column, bool)
	CellData(row int, binding string, formatted bool) (any, error)

	SelectionMode() SelectionMode
	SetSelectionMode(mode SelectionMode)
	Selection() SelectionHandler
	// SelectedRanges returns the valid ranges the provider considers selected.
	SelectedRanges() []cellrange.CellRange
	// Select replaces the whole selection with r.
	Select(r cellrange.CellRange, focus bool)

	Invalidate()
	Focus()
}
