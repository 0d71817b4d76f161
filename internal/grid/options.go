package grid

import (
	"github.com/dshills/gridkit/internal/grid/history"
	"github.com/dshills/gridkit/internal/grid/surface"
	"github.com/dshills/gridkit/internal/logging"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = history.DefaultMaxEntries
	DefaultSelectionMode  = surface.SelectionMultiRange
)

// Option configures a Grid during creation.
type Option func(*Grid)

// WithLogger sets the grid logger.
func WithLogger(log *logging.Logger) Option {
	return func(g *Grid) {
		g.log = log
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *Metrics) Option {
	return func(g *Grid) {
		g.metrics = m
	}
}

// WithSelectionMode sets the selection mode.
func WithSelectionMode(mode surface.SelectionMode) Option {
	return func(g *Grid) {
		g.mode = mode
	}
}

// WithRowHeaderCheckbox enables the checkbox row header.
func WithRowHeaderCheckbox(enabled bool) Option {
	return func(g *Grid) {
		g.checkbox = enabled
	}
}

// WithMaxUndoEntries sets the maximum number of undo entries.
func WithMaxUndoEntries(max int) Option {
	return func(g *Grid) {
		if max > 0 {
			g.maxUndoEntries = max
		}
	}
}

// WithNewItem sets the template used for added rows.
func WithNewItem(template map[string]any) Option {
	return func(g *Grid) {
		g.newItem = template
	}
}

// WithID sets the registry key of the grid. A random id is used otherwise.
func WithID(id string) Option {
	return func(g *Grid) {
		g.id = id
	}
}
