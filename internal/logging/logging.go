// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Setup.
type Options struct {
	// Level is the minimum level written to the console.
	Level slog.Level
	// File receives every record at debug level and above, as JSON. Empty
	// disables the file.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Console defaults to stderr.
	Console io.Writer
}

// multiHandler dispatches log records to multiple handlers based on level.
type multiHandler struct {
	console slog.Handler
	file    slog.Handler // nil when there is no log file
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.file != nil && h.file.Enabled(ctx, level) {
		return true
	}
	return h.console.Enabled(ctx, level)
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.file != nil && h.file.Enabled(ctx, r.Level) {
		if err := h.file.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	if h.console.Enabled(ctx, r.Level) {
		if err := h.console.Handle(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := &multiHandler{console: h.console.WithAttrs(attrs)}
	if h.file != nil {
		out.file = h.file.WithAttrs(attrs)
	}
	return out
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	out := &multiHandler{console: h.console.WithGroup(name)}
	if h.file != nil {
		out.file = h.file.WithGroup(name)
	}
	return out
}

func newHandler(console, file io.Writer, level slog.Level) *multiHandler {
	h := &multiHandler{
		console: slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
	}
	if file != nil {
		h.file = slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		})
	}
	return h
}

// Setup installs the default logger. The console gets text at opts.Level
// and above; the rotated log file gets JSON at debug and above. The
// returned cleanup closes the file.
func Setup(opts Options) (func(), error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	if opts.File == "" {
		slog.SetDefault(slog.New(newHandler(console, nil, opts.Level)))
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		LocalTime:  true,
	}

	slog.SetDefault(slog.New(newHandler(console, lj, opts.Level)))

	cleanup := func() {
		if err := lj.Close(); err != nil {
			slog.Error("failed to close log file", "error", err)
		}
	}
	return cleanup, nil
}
