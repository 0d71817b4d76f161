// Package rows implements the row feature of a grid: adding and removing data
// rows, per-row CSS classes, and the undoable row actions.
//
// Row mutations are gated on the grid's feature state. Sorted, grouped or
// filtered grids make row positions ambiguous, so mutations are rejected
// while any of those is active. The gate is read fresh on every call.
package rows

import (
	"fmt"
	"slices"

	"github.com/tiendc/go-deepcopy"

	"github.com/dshills/gridkit/internal/event"
	"github.com/dshills/gridkit/internal/grid/cellrange"
	"github.com/dshills/gridkit/internal/grid/history"
	"github.com/dshills/gridkit/internal/grid/metadata"
	"github.com/dshills/gridkit/internal/grid/result"
	"github.com/dshills/gridkit/internal/grid/surface"
	"github.com/dshills/gridkit/internal/logging"
)

// Selector is the part of the selection feature row mutations depend on.
type Selector interface {
	GetAllSelections() result.ReturnMessage
	GetSelectedRowsCountByCellRange() int
	EqualizeSelection() ([]cellrange.Public, bool)
	ProviderRanges() []cellrange.CellRange
	SelectAndFocusFirstCell(row int)
}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) {
		e.log = log.WithComponent("rows")
	}
}

// WithNewItem sets the template cloned for every added row.
func WithNewItem(template map[string]any) Option {
	return func(e *Engine) {
		e.newItem = template
	}
}

// WithMutationObserver registers fn to receive the number of rows each
// successful mutation added or removed.
func WithMutationObserver(fn func(added, removed int)) Option {
	return func(e *Engine) {
		e.onMutation = fn
	}
}

// Engine is the row feature of one grid.
type Engine struct {
	surface    surface.Surface
	selection  Selector
	store      *metadata.Store
	history    *history.History
	newItem    map[string]any
	log        *logging.Logger
	onMutation func(added, removed int)

	// RowAdded fires once per inserted row with the page row it was added at.
	RowAdded *event.Event[int]

	formatID event.HandlerID
}

// New creates the row engine and attaches its format-item handler.
func New(s surface.Surface, sel Selector, store *metadata.Store, h *history.History, opts ...Option) *Engine {
	e := &Engine{
		surface:   s,
		selection: sel,
		store:     store,
		history:   h,
		RowAdded:  event.New[int]("rowAdded"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.formatID = s.Events().FormatItem.AddHandler(e.onFormatItem)
	return e
}

// Close detaches the format-item handler.
func (e *Engine) Close() {
	e.surface.Events().FormatItem.RemoveHandler(e.formatID)
}

// SetNewItem sets the template cloned for every added row.
func (e *Engine) SetNewItem(template map[string]any) {
	e.newItem = template
}

// HasNewItem reports whether a template is registered.
func (e *Engine) HasNewItem() bool {
	return e.newItem != nil
}

func (e *Engine) canMutate() bool {
	f := e.surface.Features()
	return !f.IsGridSorted() && !f.IsGridGrouped() && !f.IsGridFiltered()
}

// topRow returns the top page row of the selection, or 0 without one.
func (e *Engine) topRow() int {
	ranges, _ := e.selection.GetAllSelections().Value.([]cellrange.Public)
	if len(ranges) == 0 {
		return 0
	}
	top := ranges[0].TopRowIndex
	for _, p := range ranges[1:] {
		top = min(top, p.TopRowIndex)
	}
	return top
}

func (e *Engine) cloneNewItem() (*surface.Item, error) {
	var fields map[string]any
	if err := deepcopy.Copy(&fields, e.newItem); err != nil {
		return nil, fmt.Errorf("clone new item: %w", err)
	}
	return surface.NewItem(fields), nil
}

// AddNewRows inserts one templated row per selected row, at least one, above
// the top of the selection.
func (e *Engine) AddNewRows() result.ErrorMessage {
	if !e.canMutate() {
		e.log.Warn("add rows rejected", "reason", "filter, group or sort active")
		return result.ErrorMessage{Code: result.RowsBlockedAdd, Message: result.MsgActiveFilter}
	}
	if e.newItem == nil {
		e.log.Warn("add rows rejected", "reason", "no new item template")
		return result.ErrorMessage{Code: result.GenericFailure, Message: result.MsgMissingNewItem}
	}

	top := e.topRow()
	dsTop := top + e.surface.PageOffset()
	quantity := e.selection.GetSelectedRowsCountByCellRange()
	if quantity == 0 {
		quantity = 1
	}
	expected := e.surface.RowTotal() + quantity

	items := make([]*surface.Item, 0, quantity)
	for range quantity {
		item, err := e.cloneNewItem()
		if err != nil {
			e.log.Error("add rows failed", "error", err)
			return result.ErrorMessage{Code: result.GenericFailure, Message: err.Error()}
		}
		items = append(items, item)
	}

	e.surface.Focus()

	coll := e.surface.Collection()
	coll.DeferUpdate(func() {
		for _, item := range items {
			coll.Insert(dsTop, item)
			e.store.ShiftRows(dsTop, 1)
			e.RowAdded.Trigger(top)
		}
	})
	// Each insert lands above the previous one.
	slices.Reverse(items)

	e.selection.SelectAndFocusFirstCell(top)

	e.history.Push(history.NewStateAction("insert rows",
		insertState{Remove: true, DatasourceIndex: dsTop, Items: items},
		insertState{DatasourceIndex: dsTop, Items: items},
		e.applyInsertState,
	))

	if got := e.surface.RowTotal(); got != expected {
		e.log.Warn("row count mismatch after add", "expected", expected, "actual", got)
		return result.ErrorMessage{Code: result.GenericFailure, Message: result.MsgError}
	}

	e.log.Debug("rows added", "index", dsTop, "count", quantity)
	if e.onMutation != nil {
		e.onMutation(quantity, 0)
	}
	return result.OK()
}

// RemoveSelectedRows removes every selected row from the data source.
func (e *Engine) RemoveSelectedRows() result.ErrorMessage {
	if !e.canMutate() {
		e.log.Warn("remove rows rejected", "reason", "filter, group or sort active")
		return result.ErrorMessage{Code: result.GenericFailure, Message: result.MsgActiveFilter}
	}

	e.selection.EqualizeSelection()

	selected := e.selection.GetSelectedRowsCountByCellRange()
	expected := e.surface.RowTotal() - selected
	targets := rowsBottomUp(e.selection.ProviderRanges())

	e.surface.Focus()

	page := e.surface.PageRows()
	offset := e.surface.PageOffset()
	deleting := e.surface.Events().DeletingRow
	coll := e.surface.Collection()
	removed := 0
	scope := e.history.GroupScope("remove rows")
	coll.DeferUpdate(func() {
		for _, row := range targets {
			if row < 0 || row >= len(page) {
				e.log.Warn("selected row outside page", "row", row)
				continue
			}
			item := page[row].Item
			state := removeState{
				DatasourceIndex: offset + row,
				Item:            item,
				Classes:         e.classesAt(offset + row),
				Identity:        e.store.Identity(item.ID),
			}
			deleting.Trigger(surface.RangeArgs{Row: row, Col: -1, Range: cellrange.New(row, -1, row, -1)})
			if !coll.Remove(item) {
				continue
			}
			e.store.ShiftRows(offset+row, -1)
			removed++

			restore := state
			restore.Restore = true
			e.history.Push(history.NewStateAction("remove row", restore, state, e.applyRemoveState))
		}
	})
	// Rows go bottom-up, so undoing the group re-inserts them top-down.
	scope.End()

	e.selection.SelectAndFocusFirstCell(0)

	if got := e.surface.RowTotal(); got != expected {
		e.log.Warn("row count mismatch after remove", "expected", expected, "actual", got)
		return result.ErrorMessage{Code: result.GenericFailure, Message: result.MsgError}
	}

	e.log.Debug("rows removed", "count", removed)
	if e.onMutation != nil {
		e.onMutation(0, removed)
	}
	return result.OK()
}

// rowsBottomUp lists the rows covered by ranges once each, highest first.
func rowsBottomUp(ranges []cellrange.CellRange) []int {
	seen := make(map[int]bool)
	var rows []int
	for _, r := range ranges {
		for row := r.BottomRow(); row >= r.TopRow(); row-- {
			if !seen[row] {
				seen[row] = true
				rows = append(rows, row)
			}
		}
	}
	slices.SortFunc(rows, func(a, b int) int { return b - a })
	return rows
}

// GetRowData returns the fields of the row at an absolute data-source index.
func (e *Engine) GetRowData(row int) result.ReturnMessage {
	return result.Guard(result.APIFailedGetRowData, nil, func() (any, error) {
		items := e.surface.Collection().Items()
		if row < 0 || row >= len(items) {
			return nil, fmt.Errorf("%w: %d", surface.ErrRowOutOfRange, row)
		}
		return items[row].Snapshot(), nil
	})
}
