// Package logging owns the process-wide slog logger used by every pipeline
// stage. The default logger is built lazily on first use; cmd/lifeexp calls
// Configure once flags and config are known, and stages receive the result
// through their constructors rather than reaching for a global.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Options selects the handler and minimum level.
type Options struct {
	Level string
	JSON  bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	current atomic.Pointer[slog.Logger]

	lazyDefault = sync.OnceValue(func() *slog.Logger {
		return New(Options{})
	})
)

// New builds a logger from opts without installing it.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	cfg := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, cfg)
	} else {
		h = slog.NewTextHandler(out, cfg)
	}
	return slog.New(h)
}

// Configure installs a logger built from opts as the process default and
// returns it.
func Configure(opts Options) *slog.Logger {
	l := New(opts)
	current.Store(l)
	return l
}

// L returns the configured logger, or a lazily built info-level text logger
// when Configure has not been called.
func L() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return lazyDefault()
}

// OrDefault returns l when non-nil, otherwise L().
func OrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return L()
}

// ParseLevel maps "debug", "warn"/"warning" and "error" onto slog levels;
// anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
