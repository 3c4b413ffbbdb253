package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"asciivid/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// OutputPaths lists "stderr", "stdout" or file paths. Empty means stderr.
	OutputPaths []string
	// TerminalLevel raises the threshold for stderr/stdout destinations only.
	// Files always receive Level.
	TerminalLevel string
	Development   bool
}

type destination struct {
	w        io.Writer
	terminal bool
}

// New constructs a slog logger that fans records out to every destination.
func New(opts Options) (*slog.Logger, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	level := parseLevel(opts.Level)
	terminalLevel := level
	if strings.TrimSpace(opts.TerminalLevel) != "" {
		terminalLevel = max(level, parseLevel(opts.TerminalLevel))
	}
	addSource := opts.Development || level <= slog.LevelDebug

	dests, err := openDestinations(opts.OutputPaths)
	if err != nil {
		return nil, err
	}

	handlers := make([]slog.Handler, 0, len(dests))
	for _, dest := range dests {
		threshold := level
		if dest.terminal {
			threshold = terminalLevel
		}
		if format == "json" {
			handlers = append(handlers, newJSONHandler(dest.w, threshold, addSource))
		} else {
			handlers = append(handlers, newPrettyHandler(dest.w, threshold, addSource))
		}
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0]), nil
	}
	return slog.New(fanout(handlers)), nil
}

// NewFromConfig creates the CLI logger. Stderr only carries warnings unless
// debug logging is requested, since command results and progress bars share
// the terminal; the log file records the configured level.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info"})
	}
	opts := Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	}
	if path := cfg.LogFilePath(); path != "" {
		opts.OutputPaths = append(opts.OutputPaths, path)
		if parseLevel(cfg.Logging.Level) > slog.LevelDebug {
			opts.TerminalLevel = "warn"
		}
	}
	return New(opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func openDestinations(paths []string) ([]destination, error) {
	if len(paths) == 0 {
		return []destination{{w: os.Stderr, terminal: true}}, nil
	}
	seen := make(map[string]bool, len(paths))
	var dests []destination
	for _, raw := range paths {
		path := strings.TrimSpace(raw)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		switch path {
		case "stderr":
			dests = append(dests, destination{w: os.Stderr, terminal: true})
		case "stdout":
			dests = append(dests, destination{w: os.Stdout, terminal: true})
		default:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("ensure log directory: %w", err)
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", path, err)
			}
			dests = append(dests, destination{w: file})
		}
	}
	if len(dests) == 0 {
		return []destination{{w: os.Stderr, terminal: true}}, nil
	}
	return dests, nil
}

type fanoutHandler []slog.Handler

func fanout(handlers []slog.Handler) slog.Handler {
	return fanoutHandler(handlers)
}

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
