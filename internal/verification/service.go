// Package verification runs the per-kind verification cascades: a registry
// lookup, then a research source, then web search, then a format-only
// fallback. The first stage with a usable answer decides the result.
package verification

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"tradeverify/internal/gazetteer/portmatch"
	"tradeverify/internal/sources"
	"tradeverify/internal/verification/metrics"
	dErrors "tradeverify/pkg/domain-errors"
)

const tracerName = "tradeverify/internal/verification"

// Verifier turns a Request into a Result. Service implements it; Timed,
// Cached and Audited decorate it.
type Verifier interface {
	Verify(ctx context.Context, req Request) (Result, error)
}

// Service dispatches requests to the cascade for their kind.
type Service struct {
	sources *sources.Registry
	ports   *portmatch.Matcher
	policy  Policy
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPolicy(p Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithPortMatcher enables the gazetteer stage of port verification.
func WithPortMatcher(m *portmatch.Matcher) Option {
	return func(s *Service) { s.ports = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New builds a Service over registry. Roles missing from the registry are
// reported as skipped stages.
func New(registry *sources.Registry, opts ...Option) *Service {
	if registry == nil {
		registry = sources.NewRegistry()
	}
	s := &Service{
		sources: registry,
		policy:  DefaultPolicy(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify runs the cascade for req.Kind. Expected conditions (bad input,
// exhausted sources) come back as unverified results; only an unknown kind
// is an error.
func (s *Service) Verify(ctx context.Context, req Request) (Result, error) {
	var res Result
	switch req.Kind {
	case KindSwift:
		res = s.verifySwift(ctx, req)
	case KindHSCode:
		res = s.verifyHSCode(ctx, req)
	case KindPort:
		res = s.verifyPort(ctx, req)
	case KindCompany:
		res = s.verifyCompany(ctx, req)
	case KindBankName:
		res = s.verifyBankName(ctx, req)
	case KindSanctions:
		res = s.checkSanctions(ctx, req)
	case KindShipment:
		res = s.trackShipment(ctx, req)
	case KindDeepResearch:
		res = s.deepResearch(ctx, req)
	default:
		return Result{}, dErrors.New(dErrors.CodeValidation, "unsupported kind '"+string(req.Kind)+"'")
	}

	s.metrics.IncrementOutcome(string(res.Kind), res.Source, res.Verified)
	s.logger.DebugContext(ctx, "field verified",
		"kind", res.Kind,
		"verified", res.Verified,
		"confidence", res.Confidence,
		"source", res.Source,
	)
	return res, nil
}
