// Package loader reads configuration sources into nested maps that the
// config package layers on top of each other.
package loader

import (
	"fmt"
	"io/fs"
	"os"
)

// Loader reads one configuration source.
type Loader interface {
	// Load returns nil, nil when the source does not exist.
	Load() (map[string]any, error)
}

// FileSystem is the file access the file loader needs.
// fstest.MapFS satisfies it.
type FileSystem interface {
	fs.FS
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem on the real file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge merges src into dst and returns dst. Nested maps merge
// recursively; any other src value replaces the dst value.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}

// GetByPath looks up a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	current := data
	parts := splitPath(path)
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}
		if current, ok = val.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

// SetByPath sets a dot-separated path, creating intermediate maps.
func SetByPath(data map[string]any, path string, value any) {
	parts := splitPath(path)
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
