package gazetteer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"tradeverify/pkg/platform/sentinel"
)

// Loader builds the Gazetteer on first use. Concurrent callers share one build.
type Loader struct {
	path   string
	logger *slog.Logger

	once sync.Once
	g    *Gazetteer
	err  error
}

// NewLoader returns a Loader for a file or directory path. An empty path
// makes Get report sentinel.ErrNotConfigured.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{path: path, logger: logger}
}

// FromRecords returns a Loader already holding records. Used by tests and the CLI.
func FromRecords(records []PortRecord) *Loader {
	l := &Loader{g: New(records)}
	l.once.Do(func() {})
	return l
}

// Get returns the gazetteer, building it on the first call.
func (l *Loader) Get(ctx context.Context) (*Gazetteer, error) {
	l.once.Do(func() {
		l.g, l.err = l.build(ctx)
	})
	return l.g, l.err
}

// Warm builds the gazetteer ahead of the first request.
func (l *Loader) Warm(ctx context.Context) error {
	_, err := l.Get(ctx)
	return err
}

func (l *Loader) build(ctx context.Context) (*Gazetteer, error) {
	if l.path == "" {
		l.logger.WarnContext(ctx, "no UN/LOCODE path configured; port lookups skip the gazetteer")
		return nil, fmt.Errorf("gazetteer: %w", sentinel.ErrNotConfigured)
	}

	start := time.Now()
	files, err := ResolveFiles(l.path)
	if err != nil {
		l.logger.ErrorContext(ctx, "resolve UN/LOCODE files failed", "path", l.path, "error", err)
		return nil, fmt.Errorf("gazetteer: %w: %w", sentinel.ErrUnavailable, err)
	}
	records, err := LoadFiles(files)
	if err != nil {
		l.logger.ErrorContext(ctx, "load UN/LOCODE files failed", "path", l.path, "error", err)
		return nil, fmt.Errorf("gazetteer: %w: %w", sentinel.ErrUnavailable, err)
	}

	l.logger.InfoContext(ctx, "gazetteer loaded",
		"locations", len(records),
		"files", len(files),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return New(records), nil
}
