// Package research is the research source: a chat-completions API that
// answers a question with web-grounded text and citations (Perplexity).
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"tradeverify/internal/sources"
)

const (
	ID           = "perplexity"
	DefaultModel = "sonar-pro"
)

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    sources.NewHTTPClient(timeout),
	}
}

func (c *Client) ID() string { return ID }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

// Query asks input as the user message, framed by opts.SystemPrompt.
func (c *Client) Query(ctx context.Context, input string, opts sources.Options) (*sources.Response, error) {
	var msgs []message
	if opts.SystemPrompt != "" {
		msgs = append(msgs, message{Role: "system", Content: opts.SystemPrompt})
	}
	msgs = append(msgs, message{Role: "user", Content: input})

	payload, err := json.Marshal(completionRequest{Model: c.model, Messages: msgs})
	if err != nil {
		return nil, sources.NewProviderError(sources.ErrorInternal, ID, "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, sources.NewProviderError(sources.ErrorInternal, ID, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var body completionResponse
	if err := sources.DoJSON(c.http, ID, req, &body); err != nil {
		return nil, err
	}

	resp := &sources.Response{Source: ID, Citations: body.Citations}
	if len(body.Choices) > 0 {
		resp.Content = strings.TrimSpace(body.Choices[0].Message.Content)
	}
	return resp, nil
}
