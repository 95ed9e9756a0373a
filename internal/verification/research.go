package verification

import (
	"context"
	"strings"

	"tradeverify/internal/sources"
)

type webResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// deepResearch answers a free-form question. Nothing here is a registry
// fact, so even a research answer stays below the structured kinds.
func (s *Service) deepResearch(ctx context.Context, req Request) Result {
	query := strings.TrimSpace(req.Value)
	if tooShort(query) {
		return inputError(KindDeepResearch, "Query too short.")
	}
	run := s.newRun(KindDeepResearch)

	question := query
	if c := req.contextValue(ContextResearch); c != "" {
		question += " Context: " + c
	}
	if resp, ok := run.research(ctx, question,
		"Trade finance verification analyst. Be factual, cite sources, flag concerns."); ok {
		return run.result(true, 0.75, resp.Source, resp.Content, Details{
			"source_urls": firstN(resp.Citations, 10),
		})
	}

	if resp, ok := run.search(ctx, query, sources.Options{NumResults: 5}); ok {
		results := make([]webResult, 0, len(resp.Records))
		for _, rec := range firstN(resp.Records, 5) {
			results = append(results, webResult{Title: rec.Title, URL: rec.URL, Text: truncate(rec.Text, 300)})
		}
		return run.result(true, 0.50, resp.Source, "Web search results.", Details{
			"results": results,
		})
	}

	return run.fallback(false, 0.10, SourceNoResults, "No results. Check API keys.", nil)
}
