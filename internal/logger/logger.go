// Package logger wraps charmbracelet/log with the defaults used by the CLI.
package logger

import (
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	mu            sync.RWMutex
	defaultLogger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{Level: charmlog.InfoLevel})
)

// Config holds the logger configuration
type Config struct {
	Level      charmlog.Level
	Output     io.Writer
	JSON       bool
	TimeFormat string
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      charmlog.InfoLevel,
		Output:     os.Stderr,
		JSON:       false,
		TimeFormat: "15:04:05",
	}
}

// ParseLevel maps a config level name to a charmbracelet level, defaulting to info.
func ParseLevel(name string) charmlog.Level {
	switch name {
	case "debug":
		return charmlog.DebugLevel
	case "warn":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Init initializes the logger with the given configuration
func Init(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: cfg.Level == charmlog.DebugLevel,
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level,
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}

	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// Get returns the current logger.
func Get() *charmlog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return defaultLogger
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

func With(args ...any) *charmlog.Logger {
	return Get().With(args...)
}
