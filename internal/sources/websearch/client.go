// Package websearch is the web search source (Exa search with contents).
// Result text is reduced to plain text before it reaches a cascade.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tradeverify/internal/sources"
)

const (
	ID                = "exa"
	defaultNumResults = 5
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    sources.NewHTTPClient(timeout),
	}
}

func (c *Client) ID() string { return ID }

type contents struct {
	Text       bool `json:"text"`
	Highlights bool `json:"highlights"`
}

type searchRequest struct {
	Query          string   `json:"query"`
	NumResults     int      `json:"numResults"`
	Category       string   `json:"category,omitempty"`
	IncludeDomains []string `json:"includeDomains,omitempty"`
	Contents       contents `json:"contents"`
}

type searchResponse struct {
	Results []struct {
		Title      string   `json:"title"`
		URL        string   `json:"url"`
		Text       string   `json:"text"`
		Highlights []string `json:"highlights"`
	} `json:"results"`
}

// Query searches the web for input. Results without a URL are dropped.
func (c *Client) Query(ctx context.Context, input string, opts sources.Options) (*sources.Response, error) {
	n := opts.NumResults
	if n <= 0 {
		n = defaultNumResults
	}
	payload, err := json.Marshal(searchRequest{
		Query:          input,
		NumResults:     n,
		Category:       opts.Category,
		IncludeDomains: opts.IncludeDomains,
		Contents:       contents{Text: true, Highlights: true},
	})
	if err != nil {
		return nil, sources.NewProviderError(sources.ErrorInternal, ID, "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, sources.NewProviderError(sources.ErrorInternal, ID, "build request", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var body searchResponse
	if err := sources.DoJSON(c.http, ID, req, &body); err != nil {
		return nil, err
	}

	resp := &sources.Response{Source: ID}
	for _, r := range body.Results {
		if r.URL == "" {
			continue
		}
		text := r.Text
		if text == "" && len(r.Highlights) > 0 {
			text = strings.Join(r.Highlights, " ")
		}
		resp.Records = append(resp.Records, sources.Record{
			Title: PlainText(r.Title),
			URL:   r.URL,
			Text:  PlainText(text),
		})
	}
	return resp, nil
}

// PlainText strips markup from s and collapses whitespace. Text without a
// tag is only whitespace-collapsed.
func PlainText(s string) string {
	if strings.ContainsRune(s, '<') {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			doc.Find("script, style, noscript").Remove()
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
