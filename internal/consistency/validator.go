package consistency

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"tradeverify/internal/consistency/metrics"
	"tradeverify/pkg/platform/audit"
	"tradeverify/pkg/requestcontext"
)

// Emitter is satisfied by the audit publisher.
type Emitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Validator runs every rule over a DocumentSet. It keeps no state between
// calls and is safe for concurrent use.
type Validator struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	emitter Emitter
}

type Option func(*Validator)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Validator) { v.metrics = m }
}

// WithEmitter records a documents_validated audit event per call.
func WithEmitter(e Emitter) Option {
	return func(v *Validator) { v.emitter = e }
}

func New(opts ...Option) *Validator {
	v := &Validator{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns the checks in rule order, documents in key order within a
// rule. Missing or unparsable fields skip the rules that need them.
func (v *Validator) Validate(ctx context.Context, docs DocumentSet) Report {
	p := newPresentation(docs)
	checks := []Check{}
	for _, r := range rules {
		checks = append(checks, r(p)...)
	}
	report := Report{Checks: checks, Summary: Summarize(checks)}

	v.metrics.ObserveDocuments(len(docs))
	for _, c := range checks {
		v.metrics.IncrementCheck(ruleLabel(c.RuleID), c.Passed)
	}
	v.logger.DebugContext(ctx, "documents validated",
		"documents", len(docs),
		"primary", p.primaryKey,
		"checks", report.Summary.Total,
		"errors", report.Summary.Errors,
		"warnings", report.Summary.Warnings,
	)

	if v.emitter != nil {
		event := audit.Event{
			Action:    string(audit.EventDocumentsValidated),
			RequestID: requestcontext.RequestID(ctx),
			Subject:   requestcontext.Subject(ctx),
			ClientIP:  requestcontext.ClientIP(ctx),
			Timestamp: requestcontext.Now(ctx),
			Verified:  report.Summary.Errors == 0,
			Counts: map[string]int{
				"documents": len(docs),
				"checks":    report.Summary.Total,
				"passed":    report.Summary.Passed,
				"warnings":  report.Summary.Warnings,
				"errors":    report.Summary.Errors,
			},
		}
		if err := v.emitter.Emit(ctx, event); err != nil {
			v.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
		}
	}
	return report
}

// ruleLabel folds the per-document DOC_* rules into one metric label.
func ruleLabel(id string) string {
	if strings.HasPrefix(id, "DOC_") {
		return "DOC"
	}
	return id
}
