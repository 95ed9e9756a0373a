package config

import (
	"fmt"
	"time"
)

// SourceConfig configures one outbound provider. A source without an API key
// is not registered and its cascade stages report "skipped".
type SourceConfig struct {
	APIKey           string  `toml:"api_key"`
	BaseURL          string  `toml:"base_url"`
	Model            string  `toml:"model"`
	Timeout          string  `toml:"timeout"`
	Rate             float64 `toml:"rate"`
	Burst            int     `toml:"burst"`
	Premium          bool    `toml:"premium"`
	FailureThreshold int     `toml:"failure_threshold"`
	Cooldown         string  `toml:"cooldown"`
}

// SourceEnv names the environment variables for one source.
type SourceEnv struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout string
	Premium string
}

func (s *SourceConfig) Merge(o *SourceConfig) {
	if o.APIKey != "" {
		s.APIKey = o.APIKey
	}
	if o.BaseURL != "" {
		s.BaseURL = o.BaseURL
	}
	if o.Model != "" {
		s.Model = o.Model
	}
	if o.Timeout != "" {
		s.Timeout = o.Timeout
	}
	if o.Rate != 0 {
		s.Rate = o.Rate
	}
	if o.Burst != 0 {
		s.Burst = o.Burst
	}
	if o.Premium {
		s.Premium = true
	}
	if o.FailureThreshold != 0 {
		s.FailureThreshold = o.FailureThreshold
	}
	if o.Cooldown != "" {
		s.Cooldown = o.Cooldown
	}
}

// Finalize applies defaults, then env overrides, then validates.
func (s *SourceConfig) Finalize(env SourceEnv, defaults SourceConfig) error {
	if s.BaseURL == "" {
		s.BaseURL = defaults.BaseURL
	}
	if s.Model == "" {
		s.Model = defaults.Model
	}
	if s.Timeout == "" {
		s.Timeout = defaults.Timeout
	}
	if s.Rate == 0 {
		s.Rate = 5
	}
	if s.Burst == 0 {
		s.Burst = 5
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.Cooldown == "" {
		s.Cooldown = "30s"
	}

	setString(&s.APIKey, env.APIKey)
	setString(&s.BaseURL, env.BaseURL)
	setString(&s.Model, env.Model)
	setString(&s.Timeout, env.Timeout)
	setBool(&s.Premium, env.Premium)

	if _, err := parseDuration("timeout", s.Timeout); err != nil {
		return err
	}
	if _, err := parseDuration("cooldown", s.Cooldown); err != nil {
		return err
	}
	if s.Rate < 0 || s.Burst < 0 {
		return fmt.Errorf("rate and burst must not be negative")
	}
	return nil
}

// Enabled reports whether the source has credentials.
func (s *SourceConfig) Enabled() bool {
	return s.APIKey != ""
}

func (s *SourceConfig) TimeoutDuration() time.Duration {
	return mustDuration(s.Timeout)
}

func (s *SourceConfig) CooldownDuration() time.Duration {
	return mustDuration(s.Cooldown)
}

// SourcesConfig groups the four provider roles.
type SourcesConfig struct {
	Research       SourceConfig `toml:"research"`
	WebSearch      SourceConfig `toml:"web_search"`
	SwiftDirectory SourceConfig `toml:"swift_directory"`
	Geocoding      SourceConfig `toml:"geocoding"`
}

var (
	researchEnv = SourceEnv{
		APIKey:  "PERPLEXITY_API_KEY",
		BaseURL: "PERPLEXITY_BASE_URL",
		Model:   "PERPLEXITY_MODEL",
		Timeout: "PERPLEXITY_TIMEOUT",
	}
	webSearchEnv = SourceEnv{
		APIKey:  "EXA_API_KEY",
		BaseURL: "EXA_BASE_URL",
		Timeout: "EXA_TIMEOUT",
	}
	swiftDirectoryEnv = SourceEnv{
		APIKey:  "API_NINJAS_KEY",
		BaseURL: "API_NINJAS_BASE_URL",
		Timeout: "API_NINJAS_TIMEOUT",
		Premium: "API_NINJAS_PREMIUM",
	}
	geocodingEnv = SourceEnv{
		APIKey:  "GEOAPIFY_KEY",
		BaseURL: "GEOAPIFY_BASE_URL",
		Timeout: "GEOAPIFY_TIMEOUT",
	}
)

func (s *SourcesConfig) Merge(o *SourcesConfig) {
	s.Research.Merge(&o.Research)
	s.WebSearch.Merge(&o.WebSearch)
	s.SwiftDirectory.Merge(&o.SwiftDirectory)
	s.Geocoding.Merge(&o.Geocoding)
}

func (s *SourcesConfig) Finalize() error {
	if err := s.Research.Finalize(researchEnv, SourceConfig{
		BaseURL: "https://api.perplexity.ai",
		Model:   "sonar-pro",
		Timeout: "30s",
	}); err != nil {
		return fmt.Errorf("research: %w", err)
	}
	if err := s.WebSearch.Finalize(webSearchEnv, SourceConfig{
		BaseURL: "https://api.exa.ai",
		Timeout: "20s",
	}); err != nil {
		return fmt.Errorf("web_search: %w", err)
	}
	if err := s.SwiftDirectory.Finalize(swiftDirectoryEnv, SourceConfig{
		BaseURL: "https://api.api-ninjas.com",
		Timeout: "20s",
	}); err != nil {
		return fmt.Errorf("swift_directory: %w", err)
	}
	if err := s.Geocoding.Finalize(geocodingEnv, SourceConfig{
		BaseURL: "https://api.geoapify.com",
		Timeout: "20s",
	}); err != nil {
		return fmt.Errorf("geocoding: %w", err)
	}
	return nil
}
