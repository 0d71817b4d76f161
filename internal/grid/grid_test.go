package grid

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gridkit/internal/grid/cellrange"
	"github.com/dshills/gridkit/internal/grid/history"
	"github.com/dshills/gridkit/internal/grid/metadata"
	"github.com/dshills/gridkit/internal/grid/result"
	"github.com/dshills/gridkit/internal/grid/selection"
	"github.com/dshills/gridkit/internal/grid/surface"
	"github.com/dshills/gridkit/internal/logging"
)

func newSurface(t *testing.T, n int) *surface.MemorySurface {
	t.Helper()
	cols := []surface.Column{
		{Binding: "name", Visible: true, Type: surface.ColumnText},
		{Binding: "qty", Visible: true, Type: surface.ColumnNumber},
		{Binding: "price", Visible: true, Type: surface.ColumnNumber},
	}
	items := make([]*surface.Item, n)
	for i := range items {
		items[i] = surface.NewItem(map[string]any{"name": fmt.Sprintf("r%d", i), "qty": float64(i), "price": 1.5})
	}
	s, err := surface.NewMemorySurface(cols, items)
	require.NoError(t, err)
	return s
}

func newGrid(t *testing.T, s surface.Surface, opts ...Option) *Grid {
	t.Helper()
	g, err := New(s, opts...)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

func TestNewRejectsNilSurface(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilSurface)
}

func TestNewRejectsUnsupportedMode(t *testing.T) {
	for _, mode := range []surface.SelectionMode{surface.SelectionListBox, surface.SelectionRow, surface.SelectionRowRange} {
		t.Run(mode.String(), func(t *testing.T) {
			_, err := New(newSurface(t, 2), WithID("g"), WithSelectionMode(mode))
			assert.ErrorIs(t, err, selection.ErrUnsupportedSelectionMode)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	s := newSurface(t, 3)
	g := newGrid(t, s)

	assert.NotEmpty(t, g.ID())
	assert.Equal(t, surface.SelectionMultiRange, s.SelectionMode())
	assert.Equal(t, DefaultMaxUndoEntries, g.History().MaxEntries())
	assert.False(t, g.Selection().HasRowHeaderCheckbox())
	assert.False(t, g.Rows().HasNewItem())
	assert.Same(t, s, g.Surface())
	assert.NotNil(t, g.Metadata())
}

func TestNewWithOptions(t *testing.T) {
	s := newSurface(t, 3)
	g := newGrid(t, s,
		WithID("orders"),
		WithSelectionMode(surface.SelectionCellRange),
		WithRowHeaderCheckbox(true),
		WithMaxUndoEntries(5),
		WithMaxUndoEntries(-1),
		WithNewItem(map[string]any{"name": "new"}),
		WithLogger(logging.Nop()),
	)

	assert.Equal(t, "orders", g.ID())
	assert.Equal(t, surface.SelectionCellRange, s.SelectionMode())
	assert.Equal(t, 5, g.History().MaxEntries())
	assert.True(t, g.Selection().HasRowHeaderCheckbox())
	assert.True(t, g.Rows().HasNewItem())
}

func TestAddUndoRedo(t *testing.T) {
	s := newSurface(t, 5)
	g := newGrid(t, s, WithNewItem(map[string]any{"name": "new", "qty": 0.0}))
	s.Select(cellrange.New(1, 0, 1, 2), false)

	require.Equal(t, result.OK(), g.AddNewRows())
	assert.Equal(t, 6, s.RowTotal())

	require.NoError(t, g.Undo())
	assert.Equal(t, 5, s.RowTotal())
	require.NoError(t, g.Redo())
	assert.Equal(t, 6, s.RowTotal())

	require.NoError(t, g.Undo())
	assert.Equal(t, 5, s.RowTotal())
	assert.ErrorIs(t, g.Undo(), history.ErrNothingToUndo)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	s := newSurface(t, 5)
	g := newGrid(t, s, WithID("g1"), WithMetrics(m), WithNewItem(map[string]any{"name": "new"}))

	s.Select(cellrange.New(1, 0, 2, 2), false)
	require.True(t, g.AddNewRows().IsSuccess())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rowsAdded.WithLabelValues("g1")))

	s.Select(cellrange.New(0, 0, 0, 2), false)
	require.True(t, g.RemoveSelectedRows().IsSuccess())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rowsRemoved.WithLabelValues("g1")))

	s.FeatureFlags().Filtered = true
	assert.False(t, g.RemoveSelectedRows().IsSuccess())
	assert.Error(t, g.Redo())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("g1", "add_rows", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("g1", "remove_rows", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("g1", "remove_rows", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("g1", "redo", OutcomeFailure)))
	assert.Equal(t, 4, testutil.CollectAndCount(m.operations))
}

func TestMetricsEqualizeMerges(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	s := newSurface(t, 3)
	g := newGrid(t, s, WithID("g1"), WithMetrics(m))

	s.Select(cellrange.New(0, 0, 0, 1), false)
	s.AddSelection(cellrange.New(0, 1, 0, 2))

	ranges, ok := g.Selection().EqualizeSelection()
	require.True(t, ok)
	assert.Len(t, ranges, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.merges.WithLabelValues("g1")))
}

func TestTrackWithoutMetrics(t *testing.T) {
	g := newGrid(t, newSurface(t, 1))
	calls := 0
	g.Track("noop", func() bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestDeletingRowDropsIdentityMetadata(t *testing.T) {
	s := newSurface(t, 4)
	g := newGrid(t, s, WithRowHeaderCheckbox(true))

	id := s.PageRows()[1].Item.ID
	require.NoError(t, s.SetRowChecked(1, true))
	require.True(t, g.Metadata().HasByIdentity(id, metadata.LabelRowSelection))

	require.True(t, g.RemoveSelectedRows().IsSuccess())
	assert.Equal(t, 3, s.RowTotal())
	assert.False(t, g.Metadata().HasByIdentity(id, metadata.LabelRowSelection))
	assert.False(t, g.Selection().HasCheckedRows())
}

func TestUndoRemoveRestoresCheckedRow(t *testing.T) {
	s := newSurface(t, 4)
	g := newGrid(t, s, WithRowHeaderCheckbox(true))

	id := s.PageRows()[1].Item.ID
	require.NoError(t, s.SetRowChecked(1, true))
	require.True(t, g.RemoveSelectedRows().IsSuccess())
	require.Equal(t, 3, s.RowTotal())

	require.NoError(t, g.Undo())
	assert.Equal(t, 4, s.RowTotal())
	assert.Equal(t, id, s.PageRows()[1].Item.ID)
	assert.True(t, s.PageRows()[1].IsSelected)
	assert.True(t, g.Selection().HasCheckedRows())

	require.NoError(t, g.Redo())
	assert.Equal(t, 3, s.RowTotal())
	assert.False(t, g.Metadata().HasByIdentity(id, metadata.LabelRowSelection))
}

func TestHandlerPanicIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf, JSON: true})
	s := newSurface(t, 2)
	newGrid(t, s, WithID("g1"), WithLogger(log))

	s.Events().SelectionChanged.AddHandler(func(surface.RangeArgs) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		s.Select(cellrange.New(0, 0, 0, 0), false)
	})
	assert.Contains(t, buf.String(), "event handler panicked")
	assert.Contains(t, buf.String(), `"grid":"g1"`)
}

func TestCloseDetachesHandlers(t *testing.T) {
	s := newSurface(t, 3)
	g, err := New(s, WithRowHeaderCheckbox(true))
	require.NoError(t, err)
	g.Rows().AddClass(0, "hot", false)

	g.Close()

	assert.False(t, s.Events().DeletingRow.HasHandlers())
	assert.False(t, s.Events().FormatItem.HasHandlers())
	assert.False(t, s.Events().SelectionChanged.HasHandlers())
	assert.Empty(t, s.Render())
}
