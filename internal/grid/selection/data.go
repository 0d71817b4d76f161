package selection

import (
	"fmt"

	"github.com/dshills/gridkit/internal/grid/cellrange"
	"github.com/dshills/gridkit/internal/grid/result"
	"github.com/dshills/gridkit/internal/grid/surface"
)

// BindingValue is the raw value of one selected cell.
type BindingValue struct {
	Binding string `json:"binding"`
	Value   any    `json:"value"`
}

// RowData groups the selected cells of one page row.
type RowData struct {
	RowIndex int            `json:"rowIndex"`
	DataItem map[string]any `json:"dataItem"`
	Selected []BindingValue `json:"selected"`
}

// CheckedRow is a row checked through the checkbox row header.
type CheckedRow struct {
	ID       string         `json:"id"`
	RowIndex int            `json:"rowIndex"` // absolute
	DataItem map[string]any `json:"dataItem"`
}

// GetAllSelections returns the selected ranges as public ranges.
func (e *Engine) GetAllSelections() result.ReturnMessage {
	return result.Guard(result.APIFailedGetAllSelections, []cellrange.Public{}, func() (any, error) {
		ranges := e.ProviderRanges()
		out := make([]cellrange.Public, len(ranges))
		for i, r := range ranges {
			out[i] = r.Public()
		}
		return out, nil
	})
}

// GetAllSelectionsData returns the values of every selected cell in visible
// columns, grouped by row in encounter order.
func (e *Engine) GetAllSelectionsData() result.ReturnMessage {
	return result.Guard(result.APIFailedGetAllSelectionsData, []RowData{}, func() (any, error) {
		return e.selectionsData()
	})
}

func (e *Engine) selectionsData() ([]RowData, error) {
	rows := e.surface.PageRows()
	byRow := make(map[int]int)
	out := []RowData{}

	for _, r := range e.ProviderRanges() {
		var bindings []string
		for c := r.LeftCol(); c <= r.RightCol(); c++ {
			col, ok := e.surface.Column(c)
			if !ok {
				return nil, fmt.Errorf("%w: %d", ErrColumnNotFound, c)
			}
			if col.Visible {
				bindings = append(bindings, col.Binding)
			}
		}

		for row := r.TopRow(); row <= r.BottomRow(); row++ {
			if row < 0 || row >= len(rows) {
				return nil, fmt.Errorf("%w: %d", surface.ErrRowOutOfRange, row)
			}
			idx, ok := byRow[row]
			if !ok {
				idx = len(out)
				byRow[row] = idx
				out = append(out, RowData{RowIndex: row, DataItem: rows[row].Item.Snapshot()})
			}
			for _, b := range bindings {
				v, err := e.surface.CellData(row, b, false)
				if err != nil {
					return nil, err
				}
				out[idx].Selected = append(out[idx].Selected, BindingValue{Binding: b, Value: v})
			}
		}
	}
	return out, nil
}

// GetSelectedRowsData returns the data items of the rows fully selected.
func (e *Engine) GetSelectedRowsData() result.ReturnMessage {
	return result.Guard(result.APIFailedGetSelectedRowsData, []RowData{}, func() (any, error) {
		rows := e.surface.PageRows()
		selected := e.GetSelectedRows()
		out := make([]RowData, 0, len(selected))
		for _, row := range selected {
			if row >= len(rows) {
				return nil, fmt.Errorf("%w: %d", surface.ErrRowOutOfRange, row)
			}
			out = append(out, RowData{RowIndex: row, DataItem: rows[row].Item.Snapshot(), Selected: []BindingValue{}})
		}
		return out, nil
	})
}

// GetSelectedRowsCount returns the number of rows fully selected.
func (e *Engine) GetSelectedRowsCount() result.ReturnMessage {
	return result.Guard(result.APIFailedGetSelectedRowsCount, nil, func() (any, error) {
		return len(e.GetSelectedRows()), nil
	})
}

// HasSelectedRows reports whether any row is fully selected.
func (e *Engine) HasSelectedRows() result.ReturnMessage {
	return result.Guard(result.APIFailedHasSelectedRows, nil, func() (any, error) {
		return len(e.GetSelectedRows()) > 0, nil
	})
}

// SelectionCellCount counts the selected cells in visible columns. Faults
// count as an empty selection.
func (e *Engine) SelectionCellCount() int {
	n, err := e.cellCount()
	if err != nil {
		e.log.Warn("selection data unavailable", "error", err)
		return 0
	}
	return n
}

// GetSelectionCount returns the number of selected cells.
func (e *Engine) GetSelectionCount() result.ReturnMessage {
	return result.Guard(result.APIFailedGetSelectionCount, nil, func() (any, error) {
		return e.cellCount()
	})
}

func (e *Engine) cellCount() (int, error) {
	data, err := e.selectionsData()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, row := range data {
		n += len(row.Selected)
	}
	return n, nil
}

// GetCheckedRowsData returns every checked row of the data source, across
// all pages.
func (e *Engine) GetCheckedRowsData() result.ReturnMessage {
	return result.Guard(result.APIFailedGetCheckedRowsData, []CheckedRow{}, func() (any, error) {
		out := []CheckedRow{}
		for i, it := range e.surface.Collection().Items() {
			if e.isChecked(it.ID) {
				out = append(out, CheckedRow{ID: it.ID.String(), RowIndex: i, DataItem: it.Snapshot()})
			}
		}
		return out, nil
	})
}

// SetRowAsSelected checks or unchecks page rows. Grids with a checkbox row
// header reject it: the checkboxes are the only selection signal there.
func (e *Engine) SetRowAsSelected(rows []int, isSelected bool) result.ReturnMessage {
	if e.hasCheckbox {
		e.log.Warn("set row as selected rejected", "reason", "checkbox row header")
		return result.Rejected(result.APIFailedSetRowAsSelected, result.MsgSetRowAsSelected)
	}

	return result.Guard(result.APIFailedSetRowAsSelected, nil, func() (any, error) {
		page := e.surface.PageRows()
		for _, row := range rows {
			if row < 0 || row >= len(page) {
				return nil, fmt.Errorf("%w: %d", surface.ErrRowOutOfRange, row)
			}
		}
		for _, row := range rows {
			page[row].IsSelected = isSelected
			e.rowSelection(page[row].Item.ID).IsChecked = isSelected
		}
		return rows, nil
	})
}
