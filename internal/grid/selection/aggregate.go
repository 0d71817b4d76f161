package selection

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/dshills/gridkit/internal/grid/result"
)

// GetSelectionSum sums the selected cells of numeric columns. The value is
// nil when no numeric cell is selected.
func (e *Engine) GetSelectionSum() result.ReturnMessage {
	return result.Guard(result.APIFailedGetSelectionSum, nil, func() (any, error) {
		sum, n, err := e.fold(0, func(acc, v float64) float64 { return acc + v })
		if err != nil || n == 0 {
			return nil, err
		}
		return sum, nil
	})
}

// GetSelectionAverage averages the selected cells of numeric columns over the
// number of numeric cells, not the total cell count.
func (e *Engine) GetSelectionAverage() result.ReturnMessage {
	return result.Guard(result.APIFailedGetSelectionAverage, nil, func() (any, error) {
		sum, n, err := e.fold(0, func(acc, v float64) float64 { return acc + v })
		if err != nil || n == 0 {
			return nil, err
		}
		return sum / float64(n), nil
	})
}

// GetSelectionMaxMin returns the largest or smallest selected numeric value.
func (e *Engine) GetSelectionMaxMin(isMax bool) result.ReturnMessage {
	code := result.APIFailedGetSelectionMin
	start, pick := math.Inf(1), math.Min
	if isMax {
		code = result.APIFailedGetSelectionMax
		start, pick = math.Inf(-1), math.Max
	}

	return result.Guard(code, nil, func() (any, error) {
		v, n, err := e.fold(start, pick)
		if err != nil || n == 0 {
			return nil, err
		}
		return v, nil
	})
}

// fold reduces every selected cell of a numeric column. Empty cells are
// skipped. It returns the number of cells folded.
func (e *Engine) fold(start float64, fn func(acc, v float64) float64) (float64, int, error) {
	data, err := e.selectionsData()
	if err != nil {
		return 0, 0, err
	}

	acc, n := start, 0
	for _, row := range data {
		for _, cell := range row.Selected {
			col, ok := e.surface.ColumnByBinding(cell.Binding)
			if !ok || !col.Type.IsNumeric() || cell.Value == nil {
				continue
			}
			v, err := toFloat(cell.Value)
			if err != nil {
				return 0, 0, fmt.Errorf("row %d, %s: %w", row.RowIndex, cell.Binding, err)
			}
			acc = fn(acc, v)
			n++
		}
	}
	return acc, n, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}
