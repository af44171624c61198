package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// LogLevel is a thin enum for user friendly level configuration decoupled
// from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for flowstore. This allows
// users to provide their own logger implementation or use the built-in
// adapters. Arguments follow slog key/value conventions.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// LoggerConfig configures construction of a slog-backed Logger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// NewSlogLogger builds a Logger from a config (or defaults if nil).
func NewSlogLogger(cfg *LoggerConfig) Logger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NoOpLogger discards all log messages. Useful for testing or when logging
// is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

var (
	rootMu sync.RWMutex
	root   Logger = NewDefaultSlogLogger()
)

// SetRoot replaces the process-wide root logger that GetLogger derives named
// loggers from.
func SetRoot(l Logger) {
	if l == nil {
		l = NoOpLogger{}
	}
	rootMu.Lock()
	root = l
	rootMu.Unlock()
}

// GetLogger returns a Logger that attaches the given name to every entry.
// Storage backends pass their kind tag, so log lines are attributable to the
// concrete backend without runtime type introspection.
func GetLogger(name string) Logger {
	rootMu.RLock()
	base := root
	rootMu.RUnlock()
	return &namedLogger{name: name, base: base}
}

// namedLogger prepends a "logger" attribute identifying its origin.
type namedLogger struct {
	name string
	base Logger
}

func (l *namedLogger) with(args []any) []any {
	return append([]any{"logger", l.name}, args...)
}

// Debug logs a debug message.
func (l *namedLogger) Debug(msg string, args ...any) { l.base.Debug(msg, l.with(args)...) }

// Info logs an informational message.
func (l *namedLogger) Info(msg string, args ...any) { l.base.Info(msg, l.with(args)...) }

// Warn logs a warning message.
func (l *namedLogger) Warn(msg string, args ...any) { l.base.Warn(msg, l.with(args)...) }

// Error logs an error message.
func (l *namedLogger) Error(msg string, args ...any) { l.base.Error(msg, l.with(args)...) }
