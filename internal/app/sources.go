package app

import (
	"log/slog"

	"tradeverify/internal/platform/config"
	"tradeverify/internal/sources"
	"tradeverify/internal/sources/geocode"
	"tradeverify/internal/sources/research"
	"tradeverify/internal/sources/swiftdir"
	"tradeverify/internal/sources/websearch"
	"tradeverify/pkg/platform/circuit"
)

// buildSources registers a guarded client for every source that has an API
// key. Unconfigured roles stay absent and their cascade stages are skipped.
func buildSources(cfg config.SourcesConfig, logger *slog.Logger, observer sources.Observer, auditor sources.Auditor) (*sources.Registry, error) {
	registry := sources.NewRegistry()

	entries := []struct {
		role sources.Role
		cfg  config.SourceConfig
		new  func(c config.SourceConfig) sources.Provider
	}{
		{sources.RoleResearch, cfg.Research, func(c config.SourceConfig) sources.Provider {
			return research.New(c.BaseURL, c.APIKey, c.Model, c.TimeoutDuration())
		}},
		{sources.RoleWebSearch, cfg.WebSearch, func(c config.SourceConfig) sources.Provider {
			return websearch.New(c.BaseURL, c.APIKey, c.TimeoutDuration())
		}},
		{sources.RoleSwiftDirectory, cfg.SwiftDirectory, func(c config.SourceConfig) sources.Provider {
			return swiftdir.New(c.BaseURL, c.APIKey, c.Premium, c.TimeoutDuration())
		}},
		{sources.RoleGeocoding, cfg.Geocoding, func(c config.SourceConfig) sources.Provider {
			return geocode.New(c.BaseURL, c.APIKey, c.TimeoutDuration())
		}},
	}

	for _, e := range entries {
		if !e.cfg.Enabled() {
			logger.Info("source not configured", "role", e.role)
			continue
		}
		client := e.new(e.cfg)
		opts := []sources.GuardOption{
			sources.WithBreaker(circuit.New(client.ID(),
				circuit.WithFailureThreshold(e.cfg.FailureThreshold),
				circuit.WithCooldown(e.cfg.CooldownDuration()),
			)),
			sources.WithRateLimit(e.cfg.Rate, e.cfg.Burst),
			sources.WithTimeout(e.cfg.TimeoutDuration()),
			sources.WithGuardLogger(logger),
			sources.WithObserver(observer),
		}
		if auditor != nil {
			opts = append(opts, sources.WithAuditor(auditor))
		}
		if err := registry.Register(e.role, sources.NewGuard(client, opts...)); err != nil {
			return nil, err
		}
		logger.Info("source registered", "role", e.role, "source", client.ID())
	}
	return registry, nil
}
