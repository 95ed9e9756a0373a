package sources

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"tradeverify/pkg/platform/audit"
	"tradeverify/pkg/platform/circuit"
	"tradeverify/pkg/platform/sentinel"
)

const tracerName = "tradeverify/internal/sources"

// Auditor receives breaker transitions. *publisher.Publisher satisfies it.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Observer records the outcome and latency of each guarded call.
type Observer interface {
	ObserveSourceCall(source, outcome string, seconds float64)
}

// Guard wraps a Provider with a circuit breaker, an outbound rate limiter, a
// per-call timeout and a tracing span. It never retries.
type Guard struct {
	inner    Provider
	breaker  *circuit.Breaker
	limiter  *rate.Limiter
	timeout  time.Duration
	tracer   trace.Tracer
	logger   *slog.Logger
	auditor  Auditor
	observer Observer
}

type GuardOption func(*Guard)

func WithBreaker(b *circuit.Breaker) GuardOption {
	return func(g *Guard) { g.breaker = b }
}

// WithRateLimit allows r calls per second with the given burst. A
// non-positive rate disables limiting.
func WithRateLimit(r float64, burst int) GuardOption {
	return func(g *Guard) {
		if r <= 0 {
			g.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithGuardLogger(logger *slog.Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithTracer(t trace.Tracer) GuardOption {
	return func(g *Guard) {
		if t != nil {
			g.tracer = t
		}
	}
}

func WithAuditor(a Auditor) GuardOption {
	return func(g *Guard) { g.auditor = a }
}

func WithObserver(o Observer) GuardOption {
	return func(g *Guard) { g.observer = o }
}

// NewGuard wraps p. Defaults: breaker opening after 5 consecutive failures,
// no rate limit, 20s timeout, global OTel tracer.
func NewGuard(p Provider, opts ...GuardOption) *Guard {
	g := &Guard{
		inner:   p,
		breaker: circuit.New(p.ID()),
		timeout: 20 * time.Second,
		tracer:  otel.Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) ID() string {
	return g.inner.ID()
}

// Breaker exposes the breaker for health reporting.
func (g *Guard) Breaker() *circuit.Breaker {
	return g.breaker
}

// Query runs the wrapped provider under the guard's limits. An open breaker
// fails fast with ErrorProviderOutage wrapping sentinel.ErrUnavailable.
func (g *Guard) Query(ctx context.Context, input string, opts Options) (*Response, error) {
	id := g.inner.ID()
	start := time.Now()

	ctx, span := g.tracer.Start(ctx, "source.query", trace.WithAttributes(
		attribute.String("source.id", id),
	))
	defer span.End()

	if !g.breaker.Allow() {
		err := NewProviderError(ErrorProviderOutage, id, "circuit open", sentinel.ErrUnavailable)
		g.finish(ctx, span, start, err)
		return nil, err
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			perr := NewProviderError(ErrorRateLimited, id, "rate limit wait", err)
			g.finish(ctx, span, start, perr)
			return nil, perr
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.inner.Query(callCtx, input, opts)
	if err != nil {
		var pe *ProviderError
		if !errors.As(err, &pe) {
			err = NewProviderError(GetCategory(err), id, "query failed", err)
		}
	} else if resp == nil {
		err = NewProviderError(ErrorBadData, id, "empty response", nil)
	}

	g.record(ctx, err)
	g.finish(ctx, span, start, err)
	if err != nil {
		return nil, err
	}
	if resp.Source == "" {
		resp.Source = id
	}
	return resp, nil
}

func (g *Guard) record(ctx context.Context, err error) {
	var change circuit.Change
	if err != nil && CountsAsFailure(GetCategory(err)) {
		_, change = g.breaker.RecordFailure()
	} else {
		_, change = g.breaker.RecordSuccess()
	}

	switch {
	case change.Opened:
		g.logger.WarnContext(ctx, "source circuit opened", "source", g.inner.ID(), "error", err)
		g.emit(ctx, audit.EventSourceOpened, err)
	case change.Closed:
		g.logger.InfoContext(ctx, "source circuit closed", "source", g.inner.ID())
		g.emit(ctx, audit.EventSourceClosed, nil)
	}
}

func (g *Guard) emit(ctx context.Context, action audit.AuditEvent, cause error) {
	if g.auditor == nil {
		return
	}
	ev := audit.Event{
		Action: string(action),
		Source: g.inner.ID(),
	}
	if cause != nil {
		ev.Reason = string(GetCategory(cause))
	}
	if err := g.auditor.Emit(ctx, ev); err != nil {
		g.logger.WarnContext(ctx, "audit emit failed", "source", g.inner.ID(), "error", err)
	}
}

func (g *Guard) finish(ctx context.Context, span trace.Span, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(GetCategory(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		if CountsAsFailure(GetCategory(err)) {
			g.logger.WarnContext(ctx, "source call failed",
				"source", g.inner.ID(),
				"category", outcome,
				"error", err,
			)
		}
	}
	span.SetAttributes(attribute.String("source.outcome", outcome))
	if g.observer != nil {
		g.observer.ObserveSourceCall(g.inner.ID(), outcome, time.Since(start).Seconds())
	}
}
