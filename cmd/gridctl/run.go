package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/gridkit/internal/config"
	"github.com/dshills/gridkit/internal/grid"
	"github.com/dshills/gridkit/internal/grid/surface"
	"github.com/dshills/gridkit/internal/script"
)

var errDataShape = errors.New("data must be a JSON array of objects")

type runOptions struct {
	configPath string
	dataPath   string
	dataQuery  string
	scriptPath string
	pretty     bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build a grid, load rows, run a page script and print the resulting state",
		Example: `  gridctl run --config grid.toml --data rows.json
  gridctl run --config grid.yaml --data export.json --data-path result.rows --script page.lua --pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGrid(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to the grid configuration (.toml, .yaml)")
	f.StringVarP(&opts.dataPath, "data", "d", "", "Path to a JSON file with the rows")
	f.StringVar(&opts.dataQuery, "data-path", "", "gjson path of the row array inside the data file")
	f.StringVarP(&opts.scriptPath, "script", "s", "", "Lua page script to run")
	f.BoolVar(&opts.pretty, "pretty", false, "Indent the JSON output")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runGrid(cmd *cobra.Command, opts runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := cfg.Logging.Logger(cmd.ErrOrStderr())

	var items []*surface.Item
	if opts.dataPath != "" {
		data, err := os.ReadFile(opts.dataPath)
		if err != nil {
			return fmt.Errorf("reading data: %w", err)
		}
		if items, err = parseItems(data, opts.dataQuery); err != nil {
			return fmt.Errorf("%s: %w", opts.dataPath, err)
		}
	}

	cols, err := cfg.Grid.SurfaceColumns()
	if err != nil {
		return err
	}
	s, err := surface.NewMemorySurface(cols, items, surface.WithPageSize(cfg.Grid.PageSize))
	if err != nil {
		return err
	}
	mode, err := cfg.Grid.Mode()
	if err != nil {
		return err
	}

	var metrics *grid.Metrics
	reg := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		metrics = grid.NewMetrics(reg)
	}

	gridOpts := []grid.Option{
		grid.WithID(cfg.Grid.ID),
		grid.WithLogger(log),
		grid.WithMetrics(metrics),
		grid.WithSelectionMode(mode),
		grid.WithRowHeaderCheckbox(cfg.Grid.RowHeaderCheckbox),
		grid.WithMaxUndoEntries(cfg.Grid.MaxUndoEntries),
	}
	if cfg.Grid.NewItem != nil {
		gridOpts = append(gridOpts, grid.WithNewItem(cfg.Grid.NewItem))
	}
	g, err := grid.New(s, gridOpts...)
	if err != nil {
		return err
	}

	registry := grid.NewRegistry(metrics)
	if err := registry.Add(g); err != nil {
		return err
	}
	defer func() { _ = registry.Remove(g.ID()) }()

	if opts.scriptPath != "" {
		rt := script.New(g, script.WithOutput(cmd.OutOrStdout()), script.WithLogger(log))
		defer rt.Close()
		if err := rt.RunFile(cmd.Context(), opts.scriptPath); err != nil {
			return err
		}
	}

	out, err := summary(g, reg)
	if err != nil {
		return err
	}
	if opts.pretty {
		out = string(pretty.Pretty([]byte(out)))
	} else {
		out += "\n"
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

// parseItems reads the row objects at query, or the whole document when
// query is empty.
func parseItems(data []byte, query string) ([]*surface.Item, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if query != "" {
		doc = doc.Get(query)
	}
	if !doc.IsArray() {
		return nil, errDataShape
	}

	var items []*surface.Item
	var shapeErr error
	doc.ForEach(func(_, row gjson.Result) bool {
		fields, ok := row.Value().(map[string]any)
		if !ok {
			shapeErr = errDataShape
			return false
		}
		items = append(items, surface.NewItem(fields))
		return true
	})
	if shapeErr != nil {
		return nil, shapeErr
	}
	return items, nil
}

// summary renders the final grid state as JSON text.
func summary(g *grid.Grid, reg prometheus.Gatherer) (string, error) {
	sel := g.Selection()
	out := `{}`
	var err error

	set := func(path string, value any) {
		if err == nil {
			out, err = sjson.Set(out, path, value)
		}
	}
	setRaw := func(path, raw string) {
		if err == nil {
			out, err = sjson.SetRaw(out, path, raw)
		}
	}

	set("grid", g.ID())
	set("rowCount", g.Surface().RowTotal())
	set("canUndo", g.History().CanUndo())
	setRaw("selections", sel.GetAllSelections().JSON())
	setRaw("selectedRows", sel.GetSelectedRowsData().JSON())
	setRaw("checkedRows", sel.GetCheckedRowsData().JSON())
	set("metrics", []any{})

	families, gerr := reg.Gather()
	if gerr != nil {
		return "", fmt.Errorf("gathering metrics: %w", gerr)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			value := m.GetCounter().GetValue() + m.GetGauge().GetValue()
			if h := m.GetHistogram(); h != nil {
				value = float64(h.GetSampleCount())
			}
			set("metrics.-1", map[string]any{
				"name":   mf.GetName(),
				"labels": labels,
				"value":  value,
			})
		}
	}
	if err != nil {
		return "", fmt.Errorf("rendering summary: %w", err)
	}
	return out, nil
}
