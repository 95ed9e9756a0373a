// Package swiftdir is the SWIFT/BIC directory source (API Ninjas swiftcode
// endpoint). Code lookups work on every plan; bank-name search needs premium.
package swiftdir

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tradeverify/internal/sources"
)

const ID = "api_ninjas"

type Client struct {
	baseURL string
	apiKey  string
	premium bool
	http    *http.Client
}

func New(baseURL, apiKey string, premium bool, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		premium: premium,
		http:    sources.NewHTTPClient(timeout),
	}
}

func (c *Client) ID() string { return ID }

// Premium reports whether bank-name search is available.
func (c *Client) Premium() bool { return c.premium }

type entry struct {
	SWIFT    string `json:"swift"`
	BankName string `json:"bank_name"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Address  string `json:"address"`
}

// Query looks up input as a SWIFT code, or as a bank name when opts.Field is
// "bank". An empty list is a usable-false response, not an error.
func (c *Client) Query(ctx context.Context, input string, opts sources.Options) (*sources.Response, error) {
	params := url.Values{}
	switch opts.Field {
	case "", "swift":
		params.Set("swift", strings.ToUpper(strings.TrimSpace(input)))
	case "bank":
		if !c.premium {
			return nil, sources.NewProviderError(sources.ErrorUnsupported, ID, "bank name search requires a premium plan", nil)
		}
		params.Set("bank", strings.TrimSpace(input))
	default:
		return nil, sources.NewProviderError(sources.ErrorUnsupported, ID, "unknown search field "+opts.Field, nil)
	}
	if opts.Country != "" {
		params.Set("country", opts.Country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/swiftcode?"+params.Encode(), nil)
	if err != nil {
		return nil, sources.NewProviderError(sources.ErrorInternal, ID, "build request", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	var entries []entry
	if err := sources.DoJSON(c.http, ID, req, &entries); err != nil {
		return nil, err
	}

	resp := &sources.Response{Source: ID}
	for _, e := range entries {
		if e.SWIFT == "" && e.BankName == "" {
			continue
		}
		resp.Records = append(resp.Records, sources.Record{
			Title: e.BankName,
			Fields: map[string]string{
				"swift":     e.SWIFT,
				"bank_name": e.BankName,
				"city":      e.City,
				"country":   e.Country,
				"address":   e.Address,
			},
		})
	}
	return resp, nil
}
