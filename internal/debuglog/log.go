// Package debuglog is the application's file logger. It is off by default
// because the terminal belongs to the UI; enable it with logging.level.
package debuglog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel, defaulting to INFO
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF", "NONE":
		return LevelOff
	default:
		return LevelInfo
	}
}

func (l LogLevel) slogLevel() slog.Level {
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

var (
	mu           sync.RWMutex
	currentLevel = LevelOff
	levelVar     = new(slog.LevelVar)
	logger       *slog.Logger
	logFile      *os.File
)

// Setup configures the logging system with the specified level and optional file path.
// If filePath is empty, defaults to ~/.glimpse/glimpse.log.
func Setup(level LogLevel, filePath ...string) error {
	mu.Lock()
	defer mu.Unlock()

	currentLevel = level
	levelVar.Set(level.slogLevel())

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if level == LevelOff {
		logger = nil
		return nil
	}

	var logPath string
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
	} else {
		home, _ := os.UserHomeDir()
		logPath = filepath.Join(home, ".glimpse", "glimpse.log")
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	logFile = f
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar})
	logger = slog.New(handler).With("app", "glimpse")
	return nil
}

// SetupFromConfig parses a level name and sets up the file logger.
func SetupFromConfig(level, filePath string) error {
	return Setup(ParseLogLevel(level), filePath)
}

// SetLevel changes the current logging level
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	levelVar.Set(level.slogLevel())
}

// GetLevel returns the current logging level
func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// Close closes the log file if open
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		logger = nil
		return err
	}
	return nil
}

func logf(level LogLevel, attrs []any, format string, args ...any) {
	mu.RLock()
	l, cur := logger, currentLevel
	mu.RUnlock()
	if l == nil || cur == LevelOff || level < cur {
		return
	}
	l.Log(context.Background(), level.slogLevel(), fmt.Sprintf(format, args...), attrs...)
}

func Debugf(format string, args ...any) { logf(LevelDebug, nil, format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, nil, format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, nil, format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, nil, format, args...) }

// FieldLogger attaches key/value attributes to every message.
type FieldLogger struct {
	attrs []any
}

// WithFields returns a logger carrying the given fields, sorted by key.
func WithFields(fields map[string]interface{}) *FieldLogger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		attrs = append(attrs, k, fields[k])
	}
	return &FieldLogger{attrs: attrs}
}

// With returns a logger carrying alternating key/value pairs.
func With(args ...any) *FieldLogger {
	return &FieldLogger{attrs: args}
}

// With extends the logger with more key/value pairs.
func (fl *FieldLogger) With(args ...any) *FieldLogger {
	attrs := make([]any, 0, len(fl.attrs)+len(args))
	attrs = append(attrs, fl.attrs...)
	attrs = append(attrs, args...)
	return &FieldLogger{attrs: attrs}
}

func (fl *FieldLogger) Debugf(format string, args ...any) {
	logf(LevelDebug, fl.attrs, format, args...)
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	logf(LevelInfo, fl.attrs, format, args...)
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	logf(LevelWarn, fl.attrs, format, args...)
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	logf(LevelError, fl.attrs, format, args...)
}
