// Package grid hosts the selection and row features of one data grid and
// keeps the per-grid state they share.
package grid

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/gridkit/internal/event"
	"github.com/dshills/gridkit/internal/grid/history"
	"github.com/dshills/gridkit/internal/grid/metadata"
	"github.com/dshills/gridkit/internal/grid/result"
	"github.com/dshills/gridkit/internal/grid/rows"
	"github.com/dshills/gridkit/internal/grid/selection"
	"github.com/dshills/gridkit/internal/grid/surface"
	"github.com/dshills/gridkit/internal/logging"
)

// Grid owns the metadata store and undo history of one surface and the
// features built on them.
type Grid struct {
	id      string
	surface surface.Surface
	store   *metadata.Store
	history *history.History

	selection *selection.Engine
	rows      *rows.Engine

	mode           surface.SelectionMode
	checkbox       bool
	maxUndoEntries int
	newItem        map[string]any

	log     *logging.Logger
	metrics *Metrics

	deletingID event.HandlerID
}

// New creates a grid on s. It fails with selection.ErrUnsupportedSelectionMode
// when the configured mode cannot be handled.
func New(s surface.Surface, opts ...Option) (*Grid, error) {
	if s == nil {
		return nil, ErrNilSurface
	}
	g := &Grid{
		surface:        s,
		mode:           DefaultSelectionMode,
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.id == "" {
		g.id = uuid.NewString()
	}
	g.log = g.log.WithField("grid", g.id)
	g.store = metadata.NewStore()
	g.history = history.NewHistory(g.maxUndoEntries)

	s.Events().SetPanicHandler(func(err *event.PanicError) {
		g.log.Error("event handler panicked", "event", err.Event, "panic", err.Recovered)
	})

	sel, err := selection.New(s, g.store,
		selection.WithLogger(g.log.WithComponent("selection")),
		selection.WithMode(g.mode),
		selection.WithRowHeaderCheckbox(g.checkbox),
		selection.WithEqualizeObserver(func(merged int) {
			g.metrics.observeMerges(g.id, merged)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("grid %s: %w", g.id, err)
	}
	g.selection = sel

	rowOpts := []rows.Option{
		rows.WithLogger(g.log.WithComponent("rows")),
		rows.WithMutationObserver(func(added, removed int) {
			g.metrics.observeRows(g.id, added, removed)
		}),
	}
	if g.newItem != nil {
		rowOpts = append(rowOpts, rows.WithNewItem(g.newItem))
	}
	g.rows = rows.New(s, sel, g.store, g.history, rowOpts...)

	g.deletingID = s.Events().DeletingRow.AddHandler(g.onDeletingRow)

	g.log.Debug("grid created", "mode", g.mode.String(), "checkbox", g.checkbox)
	return g, nil
}

// Close detaches every handler the grid installed on its surface.
func (g *Grid) Close() {
	g.surface.Events().DeletingRow.RemoveHandler(g.deletingID)
	g.rows.Close()
	g.selection.Close()
	g.log.Debug("grid closed")
}

// ID returns the registry key.
func (g *Grid) ID() string { return g.id }

// Surface returns the rendering provider.
func (g *Grid) Surface() surface.Surface { return g.surface }

// Selection returns the selection feature.
func (g *Grid) Selection() *selection.Engine { return g.selection }

// Rows returns the row feature.
func (g *Grid) Rows() *rows.Engine { return g.rows }

// Metadata returns the row metadata store.
func (g *Grid) Metadata() *metadata.Store { return g.store }

// History returns the undo log.
func (g *Grid) History() *history.History { return g.history }

// AddNewRows inserts template rows above the selection.
func (g *Grid) AddNewRows() result.ErrorMessage {
	var res result.ErrorMessage
	g.Track("add_rows", func() bool {
		res = g.rows.AddNewRows()
		return res.IsSuccess()
	})
	return res
}

// RemoveSelectedRows deletes every selected row.
func (g *Grid) RemoveSelectedRows() result.ErrorMessage {
	var res result.ErrorMessage
	g.Track("remove_rows", func() bool {
		res = g.rows.RemoveSelectedRows()
		return res.IsSuccess()
	})
	return res
}

// Undo reverts the most recent row mutation.
func (g *Grid) Undo() error {
	var err error
	g.Track("undo", func() bool {
		err = g.history.Undo()
		return err == nil
	})
	return err
}

// Redo reapplies the most recently undone row mutation.
func (g *Grid) Redo() error {
	var err error
	g.Track("redo", func() bool {
		err = g.history.Redo()
		return err == nil
	})
	return err
}

// Track runs fn and records its outcome and latency under op.
func (g *Grid) Track(op string, fn func() bool) {
	start := time.Now()
	ok := fn()
	g.metrics.observeOp(g.id, op, ok, time.Since(start))
	if !ok {
		g.log.Debug("operation failed", "op", op)
	}
}

// onDeletingRow drops the identity metadata of a row about to be removed.
// The row's remove action keeps a copy for undo.
func (g *Grid) onDeletingRow(args surface.RangeArgs) {
	page := g.surface.PageRows()
	if args.Row < 0 || args.Row >= len(page) {
		return
	}
	g.store.DeleteIdentity(page[args.Row].Item.ID)
}
