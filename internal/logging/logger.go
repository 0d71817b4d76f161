// Package logging provides the component logger used across gridkit.
//
// Logger wraps a slog.Logger. Messages take slog-style key/value pairs:
//
//	log := logging.New(logging.Config{Level: logging.LevelDebug})
//	log.WithComponent("rows").Info("rows added", "count", 2)
//
// A nil *Logger is valid and discards everything, so engines can accept an
// optional logger without guarding every call.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug is for detailed tracing of grid operations.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for rejected operations and failed consistency checks.
	LevelWarn
	// LevelError is for faults.
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a level name. Unknown names map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum level written.
	Level Level
	// Output defaults to os.Stderr.
	Output io.Writer
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
	// Service is attached to every record when set.
	Service string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Output:  os.Stderr,
		Service: "gridkit",
	}
}

// Logger is a leveled structured logger.
type Logger struct {
	sl *slog.Logger
}

// New creates a logger from cfg.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel()}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		h = slog.NewTextHandler(cfg.Output, opts)
	}

	sl := slog.New(h)
	if cfg.Service != "" {
		sl = sl.With("service", cfg.Service)
	}
	return &Logger{sl: sl}
}

// Nop returns a logger that discards all output.
func Nop() *Logger {
	return &Logger{sl: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithField returns a logger that adds key=value to every record.
func (l *Logger) WithField(key string, value any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sl: l.sl.With(key, value)}
}

// WithFields returns a logger that adds every field to each record.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{sl: l.sl.With(args...)}
}

// WithComponent returns a logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// Enabled reports whether records at level are written.
func (l *Logger) Enabled(level Level) bool {
	if l == nil {
		return false
	}
	return l.sl.Enabled(context.Background(), level.slogLevel())
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// Slog exposes the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return Nop().sl
	}
	return l.sl
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if l == nil {
		return
	}
	l.sl.Log(context.Background(), level.slogLevel(), msg, args...)
}
