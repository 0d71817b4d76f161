// Package selection implements the selection feature of a grid: the set of
// selected cell ranges, the checkbox row-header overlay, and the queries and
// aggregates page logic runs over them.
//
// The engine drives a surface.Surface and never touches provider internals.
// Selection ranges are rewritten through surface.SelectionHandler, and the
// checked state of rows lives in the shared metadata.Store keyed by row
// identity, so checks survive paging and re-sorting.
package selection

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/gridkit/internal/event"
	"github.com/dshills/gridkit/internal/grid/cellrange"
	"github.com/dshills/gridkit/internal/grid/metadata"
	"github.com/dshills/gridkit/internal/grid/surface"
	"github.com/dshills/gridkit/internal/logging"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) {
		e.log = log.WithComponent("selection")
	}
}

// WithRowHeaderCheckbox enables the checkbox row header. Checked rows then
// replace explicit ranges in every selection query.
func WithRowHeaderCheckbox(enabled bool) Option {
	return func(e *Engine) {
		e.hasCheckbox = enabled
	}
}

// WithMode sets the selection mode applied on creation.
func WithMode(mode surface.SelectionMode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithEqualizeObserver registers fn to receive the number of ranges merged
// away by each equalize pass.
func WithEqualizeObserver(fn func(merged int)) Option {
	return func(e *Engine) {
		e.onEqualize = fn
	}
}

// Engine is the selection feature of one grid.
type Engine struct {
	surface     surface.Surface
	store       *metadata.Store
	mode        surface.SelectionMode
	hasCheckbox bool
	log         *logging.Logger
	onEqualize  func(merged int)

	changingID event.HandlerID
	changedID  event.HandlerID
	viewID     event.HandlerID
}

// New creates the selection engine, applies its mode to the surface and
// attaches the surface handlers. It fails with ErrUnsupportedSelectionMode.
func New(s surface.Surface, store *metadata.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		surface: s,
		store:   store,
		mode:    surface.SelectionMultiRange,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.SetMode(e.mode); err != nil {
		return nil, err
	}
	e.attach()
	return e, nil
}

func (e *Engine) attach() {
	ev := e.surface.Events()
	e.changingID = ev.SelectionChanging.AddHandler(e.onSelectionChanging)
	e.changedID = ev.SelectionChanged.AddHandler(e.onSelectionChanged)
	if e.hasCheckbox {
		e.viewID = ev.UpdatingView.AddHandler(e.onUpdatingView)
	}
}

// Close detaches the surface handlers.
func (e *Engine) Close() {
	ev := e.surface.Events()
	ev.SelectionChanging.RemoveHandler(e.changingID)
	ev.SelectionChanged.RemoveHandler(e.changedID)
	if e.hasCheckbox {
		ev.UpdatingView.RemoveHandler(e.viewID)
	}
}

// Mode returns the configured selection mode.
func (e *Engine) Mode() surface.SelectionMode {
	return e.mode
}

// HasRowHeaderCheckbox reports whether the grid has a checkbox row header.
func (e *Engine) HasRowHeaderCheckbox() bool {
	return e.hasCheckbox
}

// SetMode changes the selection mode. ListBox, Row and RowRange conflict with
// the row-header checkboxes and are rejected.
func (e *Engine) SetMode(mode surface.SelectionMode) error {
	switch mode {
	case surface.SelectionListBox, surface.SelectionRow, surface.SelectionRowRange:
		return fmt.Errorf("%w: %s", ErrUnsupportedSelectionMode, mode)
	}
	e.mode = mode
	e.surface.SetSelectionMode(mode)
	return nil
}

// Clear drops every selected range.
func (e *Engine) Clear() {
	e.surface.SetSelectionMode(surface.SelectionNone)
	e.surface.SetSelectionMode(e.mode)
}

// SelectAndFocusFirstCell selects the first cell of a page row and focuses
// the surface.
func (e *Engine) SelectAndFocusFirstCell(row int) {
	e.surface.Select(cellrange.New(row, 0, row, 0), true)
}

// Contains reports whether any selected range intersects r.
func (e *Engine) Contains(r cellrange.CellRange) bool {
	for _, p := range e.ProviderRanges() {
		if p.Intersects(r) {
			return true
		}
	}
	return false
}

// HasValidSelection reports whether the active range is valid.
func (e *Engine) HasValidSelection() bool {
	return e.surface.Selection().ActiveSelection().IsValid()
}

// GetActiveCell returns the cell where the last selection gesture ended.
func (e *Engine) GetActiveCell() (cellrange.CellRange, bool) {
	active := e.surface.Selection().ActiveSelection()
	if !active.IsValid() {
		return cellrange.CellRange{}, false
	}
	return cellrange.FromCoordinates(active.Row, active.Col), true
}

// ProviderRanges returns the selected ranges as the grid sees them. With a
// checkbox row header, checked rows are synthesized as full-width ranges and
// merged with the explicit ranges they do not overlap.
func (e *Engine) ProviderRanges() []cellrange.CellRange {
	ranges := e.surface.SelectedRanges()
	maxCol := e.maxCol()

	var merged []cellrange.CellRange
	for _, row := range e.checkedPageRows() {
		r := cellrange.FullRow(row, maxCol)
		if !containedByAny(ranges, r) {
			merged = append(merged, r)
		}
	}
	for _, r := range ranges {
		if !intersectsAny(merged, r) {
			merged = append(merged, r)
		}
	}

	if e.hasCheckbox {
		return merged
	}
	return ranges
}

// GetSelectedRows returns the page rows covered by ranges spanning every
// column, deduplicated in encounter order.
func (e *Engine) GetSelectedRows() []int {
	maxCol := e.maxCol()
	seen := make(map[int]bool)
	rows := []int{}

	for _, r := range e.ProviderRanges() {
		if r.LeftCol() != 0 || r.RightCol() != maxCol {
			continue
		}
		for row := r.TopRow(); row <= r.BottomRow(); row++ {
			if !seen[row] {
				seen[row] = true
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// GetSelectedRowsCountByCellRange equalizes the selection and counts the rows
// spanned by every range.
func (e *Engine) GetSelectedRowsCountByCellRange() int {
	e.EqualizeSelection()

	ranges, _ := e.GetAllSelections().Value.([]cellrange.Public)
	count := 0
	for _, p := range ranges {
		count += p.RowCount()
	}
	return count
}

// HasCheckedRows reports whether any row of the data source is checked.
func (e *Engine) HasCheckedRows() bool {
	for _, it := range e.surface.Collection().Items() {
		if e.isChecked(it.ID) {
			return true
		}
	}
	return false
}

func (e *Engine) checkedPageRows() []int {
	var rows []int
	for _, r := range e.surface.PageRows() {
		if r.IsSelected {
			rows = append(rows, r.Index)
		}
	}
	return rows
}

func (e *Engine) isChecked(id uuid.UUID) bool {
	v, ok := e.store.GetByIdentity(id, metadata.LabelRowSelection)
	if !ok {
		return false
	}
	rs, ok := v.(*metadata.RowSelection)
	return ok && rs.IsChecked
}

func (e *Engine) rowSelection(id uuid.UUID) *metadata.RowSelection {
	return metadata.GetOrCreateByIdentity(e.store, id, metadata.LabelRowSelection, func() *metadata.RowSelection {
		return &metadata.RowSelection{}
	})
}

func (e *Engine) maxCol() int {
	return len(e.surface.Columns()) - 1
}

func containedByAny(ranges []cellrange.CellRange, r cellrange.CellRange) bool {
	for _, p := range ranges {
		if p.Contains(r) {
			return true
		}
	}
	return false
}

func intersectsAny(ranges []cellrange.CellRange, r cellrange.CellRange) bool {
	for _, p := range ranges {
		if p.Intersects(r) {
			return true
		}
	}
	return false
}
