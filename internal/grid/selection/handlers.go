package selection

import "github.com/dshills/gridkit/internal/grid/surface"

// onSelectionChanging keeps ranges unique in MultiRange mode: extended ranges
// the incoming range intersects are dropped.
func (e *Engine) onSelectionChanging(args surface.RangeArgs) {
	if e.surface.SelectionMode() != surface.SelectionMultiRange {
		return
	}
	h := e.surface.Selection()
	ext := h.ExtendedSelections()
	for i := len(ext) - 1; i >= 0; i-- {
		if args.Range.Intersects(ext[i]) {
			h.RemoveExtendedAt(i)
		}
	}
}

// onSelectionChanged records the row's checked flag against its identity.
func (e *Engine) onSelectionChanged(args surface.RangeArgs) {
	rows := e.surface.PageRows()
	if args.Row < 0 || args.Row >= len(rows) {
		return
	}
	row := rows[args.Row]
	e.rowSelection(row.Item.ID).IsChecked = row.IsSelected
}

// onUpdatingView restores the checked flags of the page rows, which the
// provider rebuilds on every page change and refresh.
func (e *Engine) onUpdatingView(surface.ViewArgs) {
	for _, row := range e.surface.PageRows() {
		row.IsSelected = e.isChecked(row.Item.ID)
	}
}
