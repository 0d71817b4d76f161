package loader

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"grid.toml", FormatTOML, false},
		{"dir/grid.YAML", FormatYAML, false},
		{"grid.yml", FormatYAML, false},
		{"grid.json", "", true},
		{"grid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.err {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("FormatOf(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatOf(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
			}
		})
	}
}

func TestFileLoaderTOML(t *testing.T) {
	fsys := fstest.MapFS{
		"grid.toml": {Data: []byte(`
[grid]
page_size = 10

[[grid.columns]]
binding = "name"
`)},
	}

	cfg, err := NewFileLoaderWithFS(fsys, "grid.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, ok := GetByPath(cfg, "grid.page_size"); !ok || v != int64(10) {
		t.Errorf("grid.page_size = %v (%T), want 10", v, v)
	}
	cols, _ := GetByPath(cfg, "grid.columns")
	if list, ok := cols.([]any); !ok || len(list) != 1 {
		t.Errorf("grid.columns = %#v, want one table", cols)
	}
}

func TestFileLoaderYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"grid.yaml": {Data: []byte("grid:\n  id: orders\n  row_header_checkbox: true\n")},
	}

	cfg, err := NewFileLoaderWithFS(fsys, "grid.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := GetByPath(cfg, "grid.id"); v != "orders" {
		t.Errorf("grid.id = %v, want orders", v)
	}
	if v, _ := GetByPath(cfg, "grid.row_header_checkbox"); v != true {
		t.Errorf("grid.row_header_checkbox = %v, want true", v)
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	cfg, err := NewFileLoaderWithFS(fstest.MapFS{}, "absent.toml").Load()
	if err != nil || cfg != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", cfg, err)
	}
}

func TestFileLoaderParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.toml": {Data: []byte("[grid\npage_size = 1\n")},
	}

	_, err := NewFileLoaderWithFS(fsys, "bad.toml").Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Path != "bad.toml" || pe.Line < 1 {
		t.Errorf("ParseError = %+v, want bad.toml with a line", pe)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"grid":    map[string]any{"id": "a", "page_size": int64(5)},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"grid":    map[string]any{"page_size": int64(20)},
		"logging": "flat",
	}

	got := DeepMerge(dst, src)

	if v, _ := GetByPath(got, "grid.id"); v != "a" {
		t.Errorf("grid.id = %v, want a", v)
	}
	if v, _ := GetByPath(got, "grid.page_size"); v != int64(20) {
		t.Errorf("grid.page_size = %v, want 20", v)
	}
	if got["logging"] != "flat" {
		t.Errorf("logging = %v, want flat", got["logging"])
	}
}

func TestSetAndGetByPath(t *testing.T) {
	m := map[string]any{}
	SetByPath(m, "a.b.c", 1)
	SetByPath(m, "a.d", 2)

	if v, ok := GetByPath(m, "a.b.c"); !ok || v != 1 {
		t.Errorf("a.b.c = %v, %v", v, ok)
	}
	if _, ok := GetByPath(m, "a.b.c.d"); ok {
		t.Error("path through a scalar should not resolve")
	}
	if _, ok := GetByPath(m, "x"); ok {
		t.Error("missing key should not resolve")
	}
}
