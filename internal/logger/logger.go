// Package logger holds the process-wide structured logger.
//
// Until Setup is called every message is discarded, which keeps library
// packages and their tests quiet.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config selects where and how much to log.
type Config struct {
	// File, when set, receives JSON records instead of stderr.
	File string

	// Debug lowers the level to debug and adds source locations.
	Debug bool

	// Stderr overrides the text destination; defaults to os.Stderr.
	Stderr io.Writer
}

var (
	mu      sync.RWMutex
	global  = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile *os.File
	logPath string
)

// Setup installs the global logger and returns a cleanup that closes the log
// file and restores the discarding logger.
//
// The MCP server owns stdout for protocol traffic, so text output always goes
// to stderr.
func Setup(cfg Config) (func() error, error) {
	level := slog.LevelInfo
	addSource := false
	if cfg.Debug {
		level = slog.LevelDebug
		addSource = true
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}

	var h slog.Handler
	var f *os.File
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		var err error
		f, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, err
		}
		h = slog.NewJSONHandler(f, opts)
	} else {
		w := cfg.Stderr
		if w == nil {
			w = os.Stderr
		}
		h = slog.NewTextHandler(w, opts)
	}

	mu.Lock()
	global = slog.New(h)
	logFile = f
	logPath = cfg.File
	mu.Unlock()

	L().Debug("logger.initialized", "path", cfg.File, "debug", cfg.Debug)

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		global = slog.New(slog.NewTextHandler(io.Discard, nil))
		return cerr
	}
	return cleanup, nil
}

// L returns the current global logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Path returns the log file path, or "" when logging to stderr.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}
