// Package sources defines the contract shared by the external data sources
// the verification cascades consult: a SWIFT directory, a geocoder, a research
// (LLM answer) API and a web search API.
package sources

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Role names the cascade stage a provider serves.
type Role string

const (
	RoleSwiftDirectory Role = "swift_directory"
	RoleGeocoding      Role = "geocoding"
	RoleResearch       Role = "research"
	RoleWebSearch      Role = "web_search"
)

// Options tunes a single Query. Each provider reads the fields it understands
// and ignores the rest.
type Options struct {
	// SystemPrompt frames a research question.
	SystemPrompt string
	// NumResults caps web search results; Limit caps geocoding features.
	NumResults int
	Limit      int
	// Category and IncludeDomains narrow a web search.
	Category       string
	IncludeDomains []string
	// Field selects the directory search field: "swift" (default) or "bank".
	Field   string
	Country string
}

// Record is one structured hit: a directory entry or a web search result.
type Record struct {
	Title  string            `json:"title,omitempty"`
	URL    string            `json:"url,omitempty"`
	Text   string            `json:"text,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Feature is one geocoding hit.
type Feature struct {
	Formatted   string  `json:"formatted"`
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Response is what a provider returned. Research fills Content and Citations,
// the directory and web search fill Records, the geocoder fills Features.
type Response struct {
	Source    string    `json:"source"`
	Content   string    `json:"content,omitempty"`
	Citations []string  `json:"citations,omitempty"`
	Records   []Record  `json:"records,omitempty"`
	Features  []Feature `json:"features,omitempty"`
}

// Usable reports whether the response carries anything a cascade stage can
// turn into a verdict.
func (r *Response) Usable() bool {
	if r == nil {
		return false
	}
	return strings.TrimSpace(r.Content) != "" || len(r.Records) > 0 || len(r.Features) > 0
}

// Provider is implemented by every source client and by Guard.
type Provider interface {
	ID() string
	Query(ctx context.Context, input string, opts Options) (*Response, error)
}

// Registry maps roles to configured providers. A role with no provider is
// simply absent; cascades report that stage as skipped.
type Registry struct {
	providers map[Role]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[Role]Provider)}
}

// Register binds p to role. Registering a role twice is an error.
func (r *Registry) Register(role Role, p Provider) error {
	if p == nil {
		return fmt.Errorf("provider for %s is nil", role)
	}
	if _, exists := r.providers[role]; exists {
		return fmt.Errorf("provider for %s already registered", role)
	}
	r.providers[role] = p
	return nil
}

// Get returns the provider for role.
func (r *Registry) Get(role Role) (Provider, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.providers[role]
	return p, ok
}

// Roles lists the registered roles in sorted order.
func (r *Registry) Roles() []Role {
	if r == nil {
		return nil
	}
	out := make([]Role, 0, len(r.providers))
	for role := range r.providers {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
