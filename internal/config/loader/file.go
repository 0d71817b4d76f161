package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for file extensions other than
// .toml, .yaml and .yml.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// FileLoader loads a TOML or YAML file.
type FileLoader struct {
	fs   FileSystem
	path string
}

// NewFileLoader creates a loader for path on the OS file system.
func NewFileLoader(path string) *FileLoader {
	return NewFileLoaderWithFS(DefaultFS(), path)
}

// NewFileLoaderWithFS creates a loader for path on fsys.
func NewFileLoaderWithFS(fsys FileSystem, path string) *FileLoader {
	return &FileLoader{fs: fsys, path: path}
}

// Load implements Loader.
func (l *FileLoader) Load() (map[string]any, error) {
	format, err := FormatOf(l.path)
	if err != nil {
		return nil, err
	}

	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return Parse(l.path, format, data)
}

// Parse decodes data in the given format. source names the data in errors.
func Parse(source string, format Format, data []byte) (map[string]any, error) {
	config := make(map[string]any)

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &config); err != nil {
			pe := &ParseError{Path: source, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				pe.Line, pe.Column = derr.Position()
			}
			return nil, pe
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return config, nil
}
