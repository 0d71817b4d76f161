package selection

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gridkit/internal/grid/cellrange"
	"github.com/dshills/gridkit/internal/grid/metadata"
	"github.com/dshills/gridkit/internal/grid/result"
	"github.com/dshills/gridkit/internal/grid/surface"
)

// Seven columns, 0..6. "note" is hidden.
func testColumns() []surface.Column {
	return []surface.Column{
		{Binding: "name", Visible: true, Type: surface.ColumnText},
		{Binding: "qty", Visible: true, Type: surface.ColumnNumber},
		{Binding: "price", Visible: true, Type: surface.ColumnCurrency},
		{Binding: "total", Visible: true, Type: surface.ColumnCalculated},
		{Binding: "note", Visible: false, Type: surface.ColumnText},
		{Binding: "flag", Visible: true, Type: surface.ColumnCheckbox},
		{Binding: "when", Visible: true, Type: surface.ColumnDate},
	}
}

func testItems(n int) []*surface.Item {
	items := make([]*surface.Item, n)
	for i := range items {
		items[i] = surface.NewItem(map[string]any{
			"name":  fmt.Sprintf("r%d", i),
			"qty":   float64(i + 1),
			"price": float64(10 * (i + 1)),
			"total": i,
			"note":  "n",
			"flag":  i%2 == 0,
			"when":  fmt.Sprintf("2024-01-%02d", i+1),
		})
	}
	return items
}

type fixture struct {
	surface *surface.MemorySurface
	store   *metadata.Store
	engine  *Engine
}

func newFixture(t *testing.T, n int, sopts []surface.Option, opts ...Option) *fixture {
	t.Helper()
	s, err := surface.NewMemorySurface(testColumns(), testItems(n), sopts...)
	require.NoError(t, err)
	store := metadata.NewStore()
	e, err := New(s, store, opts...)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return &fixture{surface: s, store: store, engine: e}
}

func TestNewRejectsUnsupportedModes(t *testing.T) {
	for _, mode := range []surface.SelectionMode{surface.SelectionListBox, surface.SelectionRow, surface.SelectionRowRange} {
		t.Run(mode.String(), func(t *testing.T) {
			s, err := surface.NewMemorySurface(testColumns(), testItems(1))
			require.NoError(t, err)
			_, err = New(s, metadata.NewStore(), WithMode(mode))
			assert.ErrorIs(t, err, ErrUnsupportedSelectionMode)
		})
	}
}

func TestSetMode(t *testing.T) {
	f := newFixture(t, 3, nil)

	require.NoError(t, f.engine.SetMode(surface.SelectionCell))
	assert.Equal(t, surface.SelectionCell, f.surface.SelectionMode())
	assert.Equal(t, surface.SelectionCell, f.engine.Mode())

	err := f.engine.SetMode(surface.SelectionRow)
	assert.ErrorIs(t, err, ErrUnsupportedSelectionMode)
	assert.Equal(t, surface.SelectionCell, f.engine.Mode())
}

func TestClear(t *testing.T) {
	f := newFixture(t, 3, nil)
	f.surface.SetSelectedRanges(cellrange.New(0, 0, 1, 1), cellrange.New(2, 0, 2, 1))

	f.engine.Clear()

	assert.Empty(t, f.surface.SelectedRanges())
	assert.Equal(t, surface.SelectionMultiRange, f.surface.SelectionMode())
	assert.False(t, f.engine.HasValidSelection())
}

func TestActiveCell(t *testing.T) {
	f := newFixture(t, 3, nil)

	_, ok := f.engine.GetActiveCell()
	assert.False(t, ok)

	f.surface.Select(cellrange.New(2, 3, 0, 1), false)
	cell, ok := f.engine.GetActiveCell()
	require.True(t, ok)
	assert.Equal(t, cellrange.FromCoordinates(2, 3), cell)
	assert.True(t, f.engine.HasValidSelection())
}

func TestSelectAndFocusFirstCell(t *testing.T) {
	f := newFixture(t, 3, nil)

	f.engine.SelectAndFocusFirstCell(2)

	assert.Equal(t, []cellrange.CellRange{cellrange.New(2, 0, 2, 0)}, f.surface.SelectedRanges())
	assert.Equal(t, 1, f.surface.FocusCount())
}

func TestContains(t *testing.T) {
	f := newFixture(t, 5, nil)
	f.surface.SetSelectedRanges(cellrange.New(1, 1, 2, 2))

	assert.True(t, f.engine.Contains(cellrange.New(2, 2, 4, 4)))
	assert.False(t, f.engine.Contains(cellrange.New(3, 0, 4, 6)))
	assert.False(t, f.engine.Contains(cellrange.Invalid()))
}

func TestGetSelectedRows(t *testing.T) {
	f := newFixture(t, 5, nil)
	f.surface.SetSelectedRanges(
		cellrange.New(1, 0, 2, 6),
		cellrange.New(0, 0, 1, 6),
		cellrange.New(4, 0, 4, 3), // partial width, ignored
	)

	assert.Equal(t, []int{0, 1, 2}, f.engine.GetSelectedRows())

	rm := f.engine.GetSelectedRowsCount()
	assert.True(t, rm.IsSuccess)
	assert.Equal(t, 3, rm.Value)

	rm = f.engine.HasSelectedRows()
	assert.Equal(t, true, rm.Value)
}

func TestGetSelectedRowsEmpty(t *testing.T) {
	f := newFixture(t, 2, nil)

	assert.Empty(t, f.engine.GetSelectedRows())
	assert.Equal(t, false, f.engine.HasSelectedRows().Value)
}

func TestGetSelectedRowsCountByCellRange(t *testing.T) {
	f := newFixture(t, 6, nil)
	f.surface.SetSelectedRanges(cellrange.New(0, 0, 1, 6), cellrange.New(1, 0, 2, 6), cellrange.New(4, 2, 4, 3))

	// Rows 0..2 merge, row 4 stays: 3 + 1.
	assert.Equal(t, 4, f.engine.GetSelectedRowsCountByCellRange())
}

func TestGetAllSelections(t *testing.T) {
	f := newFixture(t, 5, nil)
	f.surface.SetSelectedRanges(cellrange.New(3, 2, 1, 0))

	rm := f.engine.GetAllSelections()
	require.True(t, rm.IsSuccess)
	assert.Equal(t, result.GridSuccess, rm.Code)
	assert.Equal(t, []cellrange.Public{{TopRowIndex: 1, LeftColumnIndex: 0, BottomRowIndex: 3, RightColumnIndex: 2}}, rm.Value)
}

func TestGetAllSelectionsData(t *testing.T) {
	f := newFixture(t, 3, nil)
	f.surface.SetSelectedRanges(cellrange.New(0, 0, 1, 0), cellrange.New(1, 1, 1, 2))

	rm := f.engine.GetAllSelectionsData()
	require.True(t, rm.IsSuccess, rm.Message)

	data, ok := rm.Value.([]RowData)
	require.True(t, ok)
	require.Len(t, data, 2)

	assert.Equal(t, 1, data[0].RowIndex)
	assert.Equal(t, []BindingValue{
		{Binding: "qty", Value: float64(2)},
		{Binding: "price", Value: float64(20)},
		{Binding: "name", Value: "r1"},
	}, data[0].Selected)
	assert.Equal(t, "r1", data[0].DataItem["name"])

	assert.Equal(t, 0, data[1].RowIndex)
	assert.Equal(t, []BindingValue{{Binding: "name", Value: "r0"}}, data[1].Selected)
}

func TestSelectionCountSkipsHiddenColumns(t *testing.T) {
	f := newFixture(t, 3, nil)
	f.surface.SetSelectedRanges(cellrange.New(0, 0, 1, 6))

	assert.Equal(t, 12, f.engine.SelectionCellCount())
	rm := f.engine.GetSelectionCount()
	assert.True(t, rm.IsSuccess)
	assert.Equal(t, 12, rm.Value)
}

func TestGetSelectedRowsData(t *testing.T) {
	f := newFixture(t, 3, nil)
	f.surface.SetSelectedRanges(cellrange.New(2, 0, 2, 6))

	rm := f.engine.GetSelectedRowsData()
	require.True(t, rm.IsSuccess)
	data := rm.Value.([]RowData)
	require.Len(t, data, 1)
	assert.Equal(t, 2, data[0].RowIndex)
	assert.Equal(t, "r2", data[0].DataItem["name"])
}

type faultySurface struct {
	*surface.MemorySurface
}

func (faultySurface) CellData(int, string, bool) (any, error) {
	return nil, errors.New("provider fault")
}

func TestQueryFaultsBecomeEnvelopes(t *testing.T) {
	ms, err := surface.NewMemorySurface(testColumns(), testItems(2))
	require.NoError(t, err)
	e, err := New(faultySurface{ms}, metadata.NewStore())
	require.NoError(t, err)
	ms.SetSelectedRanges(cellrange.New(0, 0, 1, 6))

	rm := e.GetAllSelectionsData()
	assert.False(t, rm.IsSuccess)
	assert.Equal(t, result.APIFailedGetAllSelectionsData, rm.Code)
	assert.Equal(t, "provider fault", rm.Message)
	assert.Equal(t, []RowData{}, rm.Value)

	rm = e.GetSelectionSum()
	assert.Equal(t, result.APIFailedGetSelectionSum, rm.Code)
	assert.Nil(t, rm.Value)

	rm = e.GetSelectionCount()
	assert.Equal(t, result.APIFailedGetSelectionCount, rm.Code)
	assert.Equal(t, 0, e.SelectionCellCount())
}

func TestSelectionRowOutOfRange(t *testing.T) {
	f := newFixture(t, 2, nil)
	f.surface.SetSelectedRanges(cellrange.New(0, 0, 5, 1))

	rm := f.engine.GetAllSelectionsData()
	assert.False(t, rm.IsSuccess)
	assert.Contains(t, rm.Message, "row out of range")
}

func TestSelectionChangingDropsIntersectingRanges(t *testing.T) {
	f := newFixture(t, 6, nil)
	f.surface.SetSelectedRanges(cellrange.New(4, 0, 4, 0), cellrange.New(0, 0, 1, 1), cellrange.New(3, 0, 3, 1))

	f.surface.AddSelection(cellrange.New(1, 1, 3, 1))

	h := f.surface.Selection()
	assert.Equal(t, cellrange.New(1, 1, 3, 1), h.ActiveSelection())
	assert.Equal(t, []cellrange.CellRange{cellrange.New(4, 0, 4, 0)}, h.ExtendedSelections())
}

func TestSelectionChangingIgnoredOutsideMultiRange(t *testing.T) {
	f := newFixture(t, 6, nil, WithMode(surface.SelectionCellRange))
	f.surface.SetSelectedRanges(cellrange.New(4, 0, 4, 0), cellrange.New(0, 0, 1, 1))

	f.surface.Events().SelectionChanging.Trigger(surface.RangeArgs{Range: cellrange.New(0, 0, 0, 0)})

	assert.Len(t, f.surface.Selection().ExtendedSelections(), 1)
}
