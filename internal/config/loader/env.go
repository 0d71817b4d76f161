package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix prefixes every environment override.
const DefaultEnvPrefix = "GRIDKIT_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // e.g. "GRIDKIT_"
	mapping map[string]string // env var -> config path
}

// NewEnvLoader creates an environment loader. The prefix includes the
// trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
	}
}

// defaultEnvMapping returns the short names that do not follow the
// SECTION_KEY layout.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":           "logging.level",
		prefix + "LOG_JSON":            "logging.json",
		prefix + "SELECTION_MODE":      "grid.selection_mode",
		prefix + "ROW_HEADER_CHECKBOX": "grid.row_header_checkbox",
		prefix + "PAGE_SIZE":           "grid.page_size",
		prefix + "MAX_UNDO_ENTRIES":    "grid.max_undo_entries",
	}
}

// Load implements Loader. Empty values are kept as empty strings.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			SetByPath(config, path, parseValue(val))
		}
	}

	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		if path := l.envToPath(name); path != "" {
			SetByPath(config, path, parseValue(value))
		}
	}

	return config, nil
}

// AddMapping adds an environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// envToPath converts GRIDKIT_GRID_PAGE_SIZE to grid.page_size. Names with a
// single segment have no section and are ignored.
func (l *EnvLoader) envToPath(env string) string {
	section, key, ok := strings.Cut(strings.TrimPrefix(env, l.prefix), "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return strings.ToLower(section) + "." + strings.ToLower(key)
}

// parseValue converts the string to a bool or integer when it reads as one.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}
