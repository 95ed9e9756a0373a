package verification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"tradeverify/internal/verification/metrics"
	"tradeverify/pkg/platform/audit"
	"tradeverify/pkg/platform/sentinel"
	"tradeverify/pkg/requestcontext"
)

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, req Request) (Result, error)

func (f VerifierFunc) Verify(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// Timed writes the elapsed wall time into Result.DurationMs.
func Timed(next Verifier) Verifier {
	return VerifierFunc(func(ctx context.Context, req Request) (Result, error) {
		start := time.Now()
		res, err := next.Verify(ctx, req)
		res.DurationMs = time.Since(start).Milliseconds()
		return res, err
	})
}

// ResultStore is a TTL cache of results. Get returns sentinel.ErrNotFound on
// a miss.
type ResultStore interface {
	Get(ctx context.Context, key string) (Result, error)
	Set(ctx context.Context, key string, result Result) error
}

// CacheKey identifies a request: kind, value and context entries in key order.
func CacheKey(req Request) string {
	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(req.Value)))
	for _, k := range slices.Sorted(maps.Keys(req.Context)) {
		h.Write([]byte{0})
		h.Write([]byte(k + "=" + strings.TrimSpace(req.Context[k])))
	}
	return string(req.Kind) + ":" + hex.EncodeToString(h.Sum(nil))
}

type cached struct {
	next    Verifier
	store   ResultStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Cached serves repeated requests from store. Only results that came from an
// external source are stored, so input errors and exhausted cascades are
// always recomputed. Store failures are logged and the request falls through.
func Cached(next Verifier, store ResultStore, logger *slog.Logger, m *metrics.Metrics) Verifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &cached{next: next, store: store, logger: logger, metrics: m}
}

func (c *cached) Verify(ctx context.Context, req Request) (Result, error) {
	key := CacheKey(req)
	hit, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		c.metrics.IncrementCache("hit")
		d := make(Details, len(hit.Details)+1)
		maps.Copy(d, hit.Details)
		d["cached"] = true
		hit.Details = d
		return hit, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		c.metrics.IncrementCache("error")
		c.logger.WarnContext(ctx, "result cache read failed", "kind", req.Kind, "error", err)
	default:
		c.metrics.IncrementCache("miss")
	}

	res, err := c.next.Verify(ctx, req)
	if err != nil || !res.External() {
		return res, err
	}
	if err := c.store.Set(ctx, key, res); err != nil {
		c.logger.WarnContext(ctx, "result cache write failed", "kind", req.Kind, "error", err)
	}
	return res, nil
}

// Emitter is satisfied by the audit publisher.
type Emitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Audited emits a field_verified event for every completed verification. The
// raw value is only recorded as a hash.
func Audited(next Verifier, emitter Emitter, logger *slog.Logger) Verifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return VerifierFunc(func(ctx context.Context, req Request) (Result, error) {
		res, err := next.Verify(ctx, req)
		if err != nil {
			return res, err
		}
		event := audit.Event{
			Action:     string(audit.EventFieldVerified),
			RequestID:  requestcontext.RequestID(ctx),
			Subject:    requestcontext.Subject(ctx),
			ClientIP:   requestcontext.ClientIP(ctx),
			Timestamp:  requestcontext.Now(ctx),
			Kind:       string(res.Kind),
			ValueHash:  audit.HashValue(req.Value),
			Verified:   res.Verified,
			Confidence: res.Confidence,
			Source:     res.Source,
		}
		if emitErr := emitter.Emit(ctx, event); emitErr != nil {
			logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", emitErr)
		}
		return res, nil
	})
}
