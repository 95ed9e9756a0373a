package verification

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tradeverify/internal/sources"
)

// run accumulates the attempt trail of one cascade.
type run struct {
	s        *Service
	kind     Kind
	attempts []Attempt
}

func (s *Service) newRun(kind Kind) *run {
	return &run{s: s, kind: kind, attempts: []Attempt{}}
}

func (r *run) record(a Attempt) {
	r.attempts = append(r.attempts, a)
}

// skip records a skipped stage once per stage and source.
func (r *run) skip(stage Stage, source, category string) {
	for _, a := range r.attempts {
		if a.Stage == stage && a.Source == source && a.Outcome == OutcomeSkipped {
			return
		}
	}
	r.record(Attempt{Stage: stage, Source: source, Outcome: OutcomeSkipped, Category: category})
}

// skipped reports whether the last attempt was skipped. Loops over
// candidates stop there: the stage cannot serve any of them.
func (r *run) skipped() bool {
	return len(r.attempts) > 0 && r.attempts[len(r.attempts)-1].Outcome == OutcomeSkipped
}

// ask queries the provider registered for role and records the attempt. ok
// is true only for a usable response.
func (r *run) ask(ctx context.Context, stage Stage, role sources.Role, input string, opts sources.Options) (*sources.Response, bool) {
	p, found := r.s.sources.Get(role)
	if !found {
		r.skip(stage, string(role), "not_configured")
		return nil, false
	}

	ctx, span := r.s.tracer.Start(ctx, "verification.stage", trace.WithAttributes(
		attribute.String("verification.kind", string(r.kind)),
		attribute.String("verification.stage", string(stage)),
		attribute.String("source.id", p.ID()),
	))
	defer span.End()

	start := time.Now()
	resp, err := p.Query(ctx, input, opts)
	r.s.metrics.ObserveStage(string(r.kind), string(stage), time.Since(start))

	a := Attempt{Stage: stage, Source: p.ID(), Input: input}
	switch {
	case err != nil:
		cat := sources.GetCategory(err)
		a.Category = string(cat)
		switch cat {
		case sources.ErrorNotFound:
			a.Outcome = OutcomeEmpty
		case sources.ErrorUnsupported:
			a.Outcome = OutcomeSkipped
		default:
			a.Outcome = OutcomeUnavailable
		}
		if a.Outcome == OutcomeUnavailable {
			r.s.logger.WarnContext(ctx, "source unavailable",
				"kind", r.kind,
				"stage", stage,
				"source", p.ID(),
				"category", cat,
				"error", err,
			)
		}
	case !usable(role, resp):
		a.Outcome = OutcomeEmpty
	default:
		a.Outcome = OutcomeHit
	}
	span.SetAttributes(attribute.String("verification.outcome", string(a.Outcome)))
	r.record(a)
	return resp, a.Outcome == OutcomeHit
}

// usable applies the shape each role's stages read: directory stages index
// Records and geocoding stages index Features, so content alone is not a hit.
func usable(role sources.Role, resp *sources.Response) bool {
	if !resp.Usable() {
		return false
	}
	switch role {
	case sources.RoleSwiftDirectory:
		return len(resp.Records) > 0
	case sources.RoleGeocoding:
		return len(resp.Features) > 0
	default:
		return true
	}
}

func (r *run) research(ctx context.Context, question, systemPrompt string) (*sources.Response, bool) {
	return r.ask(ctx, StageResearch, sources.RoleResearch, question, sources.Options{SystemPrompt: systemPrompt})
}

func (r *run) search(ctx context.Context, query string, opts sources.Options) (*sources.Response, bool) {
	return r.ask(ctx, StageWebSearch, sources.RoleWebSearch, query, opts)
}

// result attaches the attempt trail and builds the final Result.
func (r *run) result(verified bool, confidence float64, source, message string, details Details) Result {
	if details == nil {
		details = Details{}
	}
	details["attempts"] = r.attempts
	return Result{
		Kind:       r.kind,
		Verified:   verified,
		Confidence: confidence,
		Message:    message,
		Source:     source,
		Details:    details,
	}
}

// fallback records the final non-external stage, then builds the Result.
func (r *run) fallback(verified bool, confidence float64, source, message string, details Details) Result {
	r.record(Attempt{Stage: StageFallback, Source: source, Outcome: OutcomeHit})
	return r.result(verified, confidence, source, message, details)
}

func recordURLs(recs []sources.Record, n int) []string {
	out := []string{}
	for _, rec := range firstN(recs, n) {
		out = append(out, rec.URL)
	}
	return out
}

type snippet struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

func snippets(recs []sources.Record, n, textLen int) []snippet {
	out := []snippet{}
	for _, rec := range firstN(recs, n) {
		out = append(out, snippet{Title: rec.Title, URL: rec.URL, Snippet: truncate(rec.Text, textLen)})
	}
	return out
}
