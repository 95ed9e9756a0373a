package verification

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"tradeverify/internal/verification/metrics"
	"tradeverify/pkg/platform/audit"
	"tradeverify/pkg/requestcontext"
)

// DefaultBatchConcurrency bounds in-flight items when no limit is configured.
const DefaultBatchConcurrency = 8

// ItemError reports a batch item that failed unexpectedly.
type ItemError struct {
	Index int    `json:"index"`
	Kind  Kind   `json:"kind"`
	Error string `json:"error"`
}

// BatchResult aligns Results with the requests; Errors lists the items whose
// result is a generic failure.
type BatchResult struct {
	Results []Result    `json:"results"`
	Errors  []ItemError `json:"errors"`
}

// Batch runs many requests concurrently through one Verifier.
type Batch struct {
	verifier Verifier
	limit    int
	logger   *slog.Logger
	metrics  *metrics.Metrics
	emitter  Emitter
}

func NewBatch(v Verifier, limit int, logger *slog.Logger, m *metrics.Metrics) *Batch {
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{verifier: v, limit: limit, logger: logger, metrics: m}
}

// WithEmitter records one batch_verified summary event per Run, on top of
// the per-item events the verifier chain may emit.
func (b *Batch) WithEmitter(e Emitter) *Batch {
	b.emitter = e
	return b
}

// Run verifies every request. A failing or panicking item never cancels its
// siblings: it gets a failure result and an Errors entry.
func (b *Batch) Run(ctx context.Context, reqs []Request) BatchResult {
	b.metrics.ObserveBatchSize(len(reqs))
	results := make([]Result, len(reqs))
	failures := make([]*ItemError, len(reqs))

	var g errgroup.Group
	g.SetLimit(b.limit)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := b.verifyOne(ctx, req)
			if err != nil {
				b.logger.WarnContext(ctx, "batch item failed", "index", i, "kind", req.Kind, "error", err)
				failures[i] = &ItemError{Index: i, Kind: req.Kind, Error: err.Error()}
				res = Result{
					Kind:    req.Kind,
					Message: "Verification failed.",
					Source:  SourceError,
					Details: Details{},
				}
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := BatchResult{Results: results, Errors: []ItemError{}}
	for _, f := range failures {
		if f != nil {
			out.Errors = append(out.Errors, *f)
		}
	}
	b.emit(ctx, out)
	return out
}

func (b *Batch) emit(ctx context.Context, out BatchResult) {
	if b.emitter == nil {
		return
	}
	verified := 0
	for _, r := range out.Results {
		if r.Verified {
			verified++
		}
	}
	event := audit.Event{
		Action:    string(audit.EventBatchVerified),
		RequestID: requestcontext.RequestID(ctx),
		Subject:   requestcontext.Subject(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Timestamp: requestcontext.Now(ctx),
		Verified:  len(out.Errors) == 0,
		Counts: map[string]int{
			"items":    len(out.Results),
			"verified": verified,
			"errors":   len(out.Errors),
		},
	}
	if err := b.emitter.Emit(ctx, event); err != nil {
		b.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

func (b *Batch) verifyOne(ctx context.Context, req Request) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "batch item panicked", "kind", req.Kind, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return b.verifier.Verify(ctx, req)
}
