package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tradeverify/internal/gazetteer/portmatch"
	"tradeverify/internal/sources"
	"tradeverify/internal/verification/links"
	"tradeverify/pkg/platform/sentinel"
)

type location struct {
	Formatted  string  `json:"formatted"`
	City       string  `json:"city,omitempty"`
	Country    string  `json:"country,omitempty"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	GoogleMaps string  `json:"google_maps"`
}

func (s *Service) verifyPort(ctx context.Context, req Request) Result {
	raw := strings.TrimSpace(req.Value)
	if tooShort(raw) {
		return inputError(KindPort, "Port name too short.")
	}
	run := s.newRun(KindPort)
	q := portmatch.Query{
		Port:        raw,
		Country:     req.contextValue(ContextCountry),
		CountryCode: req.contextValue(ContextCountryCode),
	}

	var parsed portmatch.Parsed
	if s.ports == nil {
		parsed = portmatch.Parse(q)
		run.skip(StageRegistry, SourceGazetteer, "not_configured")
	} else {
		m, err := s.ports.Match(ctx, q)
		parsed = m.Parsed
		switch {
		case errors.Is(err, sentinel.ErrNotConfigured):
			run.skip(StageRegistry, SourceGazetteer, "not_configured")
		case err != nil:
			s.logger.WarnContext(ctx, "gazetteer unavailable", "error", err)
			run.record(Attempt{Stage: StageRegistry, Source: SourceGazetteer, Input: raw, Outcome: OutcomeUnavailable, Category: string(sources.ErrorInternal)})
		case len(m.Matches) == 0:
			run.record(Attempt{Stage: StageRegistry, Source: SourceGazetteer, Input: raw, Outcome: OutcomeEmpty})
		default:
			run.record(Attempt{Stage: StageRegistry, Source: SourceGazetteer, Input: raw, Outcome: OutcomeHit})
			found := make([]string, 0, len(m.Matches))
			for _, p := range m.Matches {
				found = append(found, fmt.Sprintf("%s (%s)", p.Name, p.Locode))
			}
			d := Details{
				"query":          m.Raw,
				"parsed_ports":   m.Names,
				"country_filter": m.CountryCode,
				"matches":        m.Matches,
				"database_size":  m.DatabaseSize,
			}
			if m.CountryRelaxed {
				d["country_relaxed"] = true
			}
			return run.result(true, 0.95, SourceGazetteer,
				"Port(s) FOUND in UN/LOCODE: "+strings.Join(found, ", "), d)
		}
	}

	names := parsed.Names
	if len(names) == 0 {
		names = []string{raw}
	}
	for _, name := range names {
		cc, _ := parsed.HintFor(name)
		query := strings.TrimSpace(name + " port " + cc)
		resp, ok := run.ask(ctx, StageRegistry, sources.RoleGeocoding, query, sources.Options{Limit: 3})
		if !ok {
			if run.skipped() {
				break
			}
			continue
		}
		locs := make([]location, 0, 3)
		for _, f := range firstN(resp.Features, 3) {
			lat, lon := f.Lat, f.Lon
			locs = append(locs, location{
				Formatted:  f.Formatted,
				City:       f.City,
				Country:    f.Country,
				Lat:        lat,
				Lon:        lon,
				GoogleMaps: links.GoogleMapsPoint(&lat, &lon),
			})
		}
		top := locs[0]
		return run.result(true, 0.85, resp.Source,
			fmt.Sprintf("Port '%s' located: %s (%s)", raw, top.Formatted, top.Country),
			Details{
				"query":       query,
				"locations":   locs,
				"google_maps": top.GoogleMaps,
			})
	}

	if resp, ok := run.research(ctx,
		fmt.Sprintf("Where is the port '%s'? Give country, city, coordinates, UN/LOCODE.", raw),
		"Shipping logistics expert."); ok {
		return run.result(true, 0.70, resp.Source,
			fmt.Sprintf("Port '%s': %s", raw, truncate(resp.Content, 200)),
			Details{
				"research":    truncate(resp.Content, 500),
				"source_urls": firstN(resp.Citations, 3),
				"google_maps": links.GoogleMapsSearch(raw + " seaport"),
			})
	}

	return run.fallback(false, 0.30, SourceNoResults,
		fmt.Sprintf("Could not verify port '%s'. Searched: %s", raw, strings.Join(names, ", ")),
		Details{
			"parsed_ports": names,
			"google_maps":  links.GoogleMapsSearch(raw + " seaport"),
		})
}
