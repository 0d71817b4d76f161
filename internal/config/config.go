package config

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dshills/gridkit/internal/config/loader"
	"github.com/dshills/gridkit/internal/grid/history"
	"github.com/dshills/gridkit/internal/grid/surface"
	"github.com/dshills/gridkit/internal/logging"
)

// Config is the complete gridkit configuration.
type Config struct {
	Grid    GridConfig    `yaml:"grid" validate:"required"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GridConfig configures one grid and its in-memory surface.
type GridConfig struct {
	ID                string         `yaml:"id" validate:"omitempty,max=64"`
	SelectionMode     string         `yaml:"selection_mode" validate:"required,selectionmode"`
	RowHeaderCheckbox bool           `yaml:"row_header_checkbox"`
	PageSize          int            `yaml:"page_size" validate:"gte=0"`
	MaxUndoEntries    int            `yaml:"max_undo_entries" validate:"gte=0,lte=100000"`
	NewItem           map[string]any `yaml:"new_item"`
	Columns           []ColumnConfig `yaml:"columns" validate:"required,min=1,unique=Binding,dive"`
}

// ColumnConfig describes one column.
type ColumnConfig struct {
	Binding string `yaml:"binding" validate:"required"`
	Header  string `yaml:"header"`
	Type    string `yaml:"type" validate:"omitempty,columntype"`
	Hidden  bool   `yaml:"hidden"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON    bool   `yaml:"json"`
	Service string `yaml:"service"`
}

// MetricsConfig configures metric collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("selectionmode", func(fl validator.FieldLevel) bool {
		_, err := surface.ParseSelectionMode(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("columntype", func(fl validator.FieldLevel) bool {
		_, err := surface.ParseColumnType(fl.Field().String())
		return err == nil
	})
}

// Default returns the built-in configuration. It has no columns and so
// does not validate on its own.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			SelectionMode:  surface.SelectionMultiRange.String(),
			MaxUndoEntries: history.DefaultMaxEntries,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Service: "gridkit",
		},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	envPrefix string
	env       bool
}

// WithFS reads the config file from fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithoutEnv skips environment overrides.
func WithoutEnv() Option {
	return func(o *options) {
		o.env = false
	}
}

// Load reads path, applies environment overrides and validates the result.
// An empty path loads defaults and environment only.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		env:       true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := make(map[string]any)
	if path != "" {
		fileCfg, err := loader.NewFileLoaderWithFS(o.fs, path).Load()
		if err != nil {
			return nil, err
		}
		if fileCfg == nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		loader.DeepMerge(merged, fileCfg)
	}
	if o.env {
		envCfg, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, err
		}
		loader.DeepMerge(merged, envCfg)
	}

	cfg := Default()
	if err := decode(merged, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates configuration text in the given format.
func Parse(data []byte, format loader.Format) (*Config, error) {
	m, err := loader.Parse("<input>", format, data)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := decode(m, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode re-encodes the merged map and decodes it over cfg, so keys absent
// from every layer keep their defaults.
func decode(m map[string]any, cfg *Config) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding merged config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Mode returns the parsed selection mode.
func (g GridConfig) Mode() (surface.SelectionMode, error) {
	return surface.ParseSelectionMode(g.SelectionMode)
}

// SurfaceColumns converts the column list. Columns without a type are text.
func (g GridConfig) SurfaceColumns() ([]surface.Column, error) {
	cols := make([]surface.Column, len(g.Columns))
	for i, c := range g.Columns {
		typ := surface.ColumnText
		if c.Type != "" {
			t, err := surface.ParseColumnType(c.Type)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Binding, err)
			}
			typ = t
		}
		header := c.Header
		if header == "" {
			header = c.Binding
		}
		cols[i] = surface.Column{
			Index:   i,
			Binding: c.Binding,
			Header:  header,
			Visible: !c.Hidden,
			Type:    typ,
		}
	}
	return cols, nil
}

// Logger builds a logger writing to w.
func (l LoggingConfig) Logger(w io.Writer) *logging.Logger {
	return logging.New(logging.Config{
		Level:   logging.ParseLevel(l.Level),
		Output:  w,
		JSON:    l.JSON,
		Service: l.Service,
	})
}
