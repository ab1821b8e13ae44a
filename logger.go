// SPDX-License-Identifier: MIT

package nrmoifits

import (
	"context"
	"log/slog"
	"os"

	"github.com/katalvlaran/nrmoifits/observable"
)

// Logger wraps slog.Logger with converter-specific helpers so every
// event carries the same field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// A nil handler logs text at info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger logs JSON to stderr at level and above.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger logs human-readable text to stderr at level and above.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithFile tags the logger with an output name.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{Logger: l.Logger.With("file", name)}
}

// LogNotices reports configuration notices such as keys left at their
// defaults.
func (l *Logger) LogNotices(ctx context.Context, notices []string) {
	for _, n := range notices {
		l.InfoContext(ctx, n)
	}
}

// LogGeometry reports the derived mask tables.
func (l *Logger) LogGeometry(ctx context.Context, holes, baselines, triangles int, rotationDeg float64) {
	l.DebugContext(ctx, "mask geometry",
		"holes", holes,
		"baselines", baselines,
		"triangles", triangles,
		"rotation_deg", rotationDeg,
	)
}

// LogBuild reports the outcome of assembling a collection.
func (l *Logger) LogBuild(ctx context.Context, c *observable.Collection, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed", "error", err)
		return
	}
	flagged := flaggedPhases(c)
	attrs := []any{
		"channels", c.Channels.Len(),
		"vis2", len(c.Vis2),
		"t3", len(c.T3),
		"t3_flagged", flagged,
	}
	if flagged > 0 {
		l.WarnContext(ctx, "collection built with flagged closure phases", attrs...)
		return
	}
	l.InfoContext(ctx, "collection built", attrs...)
}

// LogWrite reports the outcome of writing and verifying a file.
func (l *Logger) LogWrite(ctx context.Context, key string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed", "key", key, "error", err)
		return
	}
	l.InfoContext(ctx, "oifits written", "key", key, "bytes", size)
}
