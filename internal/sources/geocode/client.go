// Package geocode is the geocoding source (Geoapify forward geocoding), used
// when a port is not in the UN/LOCODE gazetteer.
package geocode

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tradeverify/internal/sources"
)

const (
	ID           = "geoapify"
	defaultLimit = 5
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

type searchResponse struct {
	Features []struct {
		Properties struct {
			Formatted   string  `json:"formatted"`
			City        string  `json:"city"`
			Country     string  `json:"country"`
			CountryCode string  `json:"country_code"`
			Lat         float64 `json:"lat"`
			Lon         float64 `json:"lon"`
		} `json:"properties"`
	} `json:"features"`
}

// Query geocodes free text. opts.Limit defaults to 5.
func (c *Client) Query(ctx context.Context, input string, opts sources.Options) (*sources.Response, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	params := url.Values{}
	params.Set("text", strings.TrimSpace(input))
	params.Set("apiKey", c.apiKey)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/geocode/search?"+params.Encode(), nil)
	if err != nil {
		return nil, sources.NewProviderError(sources.ErrorInternal, ID, "build request", err)
	}

	var body searchResponse
	if err := sources.DoJSON(c.http, ID, req, &body); err != nil {
		return nil, err
	}

	resp := &sources.Response{Source: ID}
	for _, f := range body.Features {
		p := f.Properties
		resp.Features = append(resp.Features, sources.Feature{
			Formatted:   p.Formatted,
			City:        p.City,
			Country:     p.Country,
			CountryCode: strings.ToUpper(p.CountryCode),
			Lat:         p.Lat,
			Lon:         p.Lon,
		})
	}
	return resp, nil
}
