// Package portmatch resolves free-text port phrases from trade documents to
// UN/LOCODE locations, using country hints so that a lexically similar place
// in the wrong country is not returned.
package portmatch

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"tradeverify/internal/gazetteer"
	"tradeverify/internal/verification/links"
)

// MaxMatches caps the matches reported for one phrase.
const MaxMatches = 5

// Source yields the gazetteer. *gazetteer.Loader satisfies it.
type Source interface {
	Get(ctx context.Context) (*gazetteer.Gazetteer, error)
}

// Query is a port phrase plus optional document-level country context.
type Query struct {
	Port        string
	Country     string
	CountryCode string
}

// Parsed is a phrase split into searchable place names with country hints.
type Parsed struct {
	Raw         string            `json:"query"`
	Names       []string          `json:"parsed_ports"`
	CountryCode string            `json:"country_filter"`
	NameHints   map[string]string `json:"-"`
	// FromContext is true when CountryCode came from the caller's document
	// context rather than from the phrase itself.
	FromContext bool `json:"-"`
}

// HintFor returns the country hint for name and whether it is strict. Hints
// read from the phrase are strict: no other country is ever reported. A hint
// that only comes from document context may be relaxed when the hinted
// country has no match.
func (p Parsed) HintFor(name string) (string, bool) {
	if cc := p.NameHints[name]; cc != "" {
		return cc, true
	}
	return p.CountryCode, !p.FromContext
}

// PortMatch is a reported gazetteer hit.
type PortMatch struct {
	Locode      string   `json:"locode"`
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Subdivision string   `json:"subdivision,omitempty"`
	Functions   []string `json:"functions"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	GoogleMaps  string   `json:"google_maps"`
}

// Result is the outcome of Match.
type Result struct {
	Parsed
	Matches      []PortMatch `json:"matches"`
	DatabaseSize int         `json:"database_size"`
	// CountryRelaxed is set when a context-only hint found nothing in its
	// country and global results from other countries are reported instead.
	CountryRelaxed bool `json:"country_relaxed,omitempty"`
}

var (
	noiseWords = compileWords("seaport", "sea port", "port", "airport", "terminal", "harbour", "harbor")
	separators = regexp.MustCompile(`(?i)\s+AND/OR\s+|\s+AND\s+|\s+OR\s+|/|,`)
	bareCode   = regexp.MustCompile(`^[A-Z]{2}$`)
	leadingOf  = regexp.MustCompile(`(?i)^of\s+`)
)

func compileWords(words ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return out
}

// Parse strips facility words, splits compound phrases on and/or, slashes and
// commas, and derives the document and per-name country hints.
func Parse(q Query) Parsed {
	raw := strings.TrimSpace(q.Port)

	docCC := strings.ToUpper(strings.TrimSpace(q.CountryCode))
	fromContext := docCC != ""
	if docCC == "" {
		docCC = GuessCountryCode(raw)
	}
	if docCC == "" {
		docCC = GuessCountryCode(q.Country)
		fromContext = docCC != ""
	}

	cleaned := raw
	for _, re := range noiseWords {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(strings.Trim(strings.TrimSpace(cleaned), ","))

	var names []string
	for _, part := range separators.Split(cleaned, -1) {
		p := leadingOf.ReplaceAllString(strings.Join(strings.Fields(part), " "), "")
		if utf8.RuneCountInString(p) >= 2 {
			names = append(names, p)
		}
	}
	// "Tripoli, LY" and "Trieste, Italy": a trailing code or bare country
	// name is a hint for the name before it, not a place.
	hints := make(map[string]string)
	if len(names) > 1 {
		kept := names[:0]
		for _, n := range names {
			var cc string
			switch {
			case bareCode.MatchString(n):
				cc = n
			case stripCountryWords(n) == "":
				cc = GuessCountryCode(n)
			default:
				kept = append(kept, n)
				continue
			}
			if len(kept) > 0 && cc != "" {
				hints[kept[len(kept)-1]] = cc
			}
		}
		names = kept
	}
	if len(names) == 0 {
		names = []string{raw}
	}

	for _, n := range names {
		if _, ok := hints[n]; ok {
			continue
		}
		if cc := GuessCountryCode(n); cc != "" {
			hints[n] = cc
		}
	}

	return Parsed{Raw: raw, Names: names, CountryCode: docCC, NameHints: hints, FromContext: fromContext}
}

// Matcher searches the gazetteer for parsed port names.
type Matcher struct {
	source Source
}

func New(source Source) *Matcher {
	return &Matcher{source: source}
}

// Match parses q and searches every name. The Parsed part of the result is
// always filled, even when the gazetteer is unavailable and err is non-nil.
func (m *Matcher) Match(ctx context.Context, q Query) (Result, error) {
	res := Result{Parsed: Parse(q), Matches: []PortMatch{}}

	g, err := m.source.Get(ctx)
	if err != nil {
		return res, err
	}
	res.DatabaseSize = g.Size()

	seen := make(map[string]struct{})
	for _, name := range res.Names {
		cc, strict := res.HintFor(name)
		hits, relaxed := searchName(g, name, cc, strict)
		res.CountryRelaxed = res.CountryRelaxed || relaxed
		for _, h := range hits {
			if _, dup := seen[h.Locode]; dup {
				continue
			}
			seen[h.Locode] = struct{}{}
			res.Matches = append(res.Matches, toPortMatch(h.PortRecord))
		}
	}
	if len(res.Matches) > MaxMatches {
		res.Matches = res.Matches[:MaxMatches]
	}
	return res, nil
}

// searchName runs the scoped-then-global search for one name. The second
// return is true when results outside cc are reported.
func searchName(g *gazetteer.Gazetteer, name, cc string, strict bool) ([]gazetteer.Match, bool) {
	term := stripCountryWords(name)
	if utf8.RuneCountInString(term) < 2 {
		term = name
	}

	if cc != "" {
		if hits := g.Search(term, gazetteer.SearchOptions{CountryCode: cc, PortsOnly: true, Limit: 5}); len(hits) > 0 {
			return hits, false
		}
		if hits := g.Search(term, gazetteer.SearchOptions{CountryCode: cc, Limit: 5}); len(hits) > 0 {
			return hits, false
		}
	}

	global := g.Search(term, gazetteer.SearchOptions{PortsOnly: true, Limit: 10})
	if cc == "" || len(global) == 0 {
		return global, false
	}
	var scoped []gazetteer.Match
	for _, h := range global {
		if strings.EqualFold(h.CountryCode, cc) {
			scoped = append(scoped, h)
		}
	}
	if len(scoped) > 0 || strict {
		return scoped, false
	}
	return global, true
}

func toPortMatch(r gazetteer.PortRecord) PortMatch {
	return PortMatch{
		Locode:      r.Locode,
		Name:        r.Name,
		Country:     r.CountryCode,
		Subdivision: r.Subdivision,
		Functions:   r.Functions,
		Lat:         r.Lat,
		Lon:         r.Lon,
		GoogleMaps:  links.GoogleMaps(r.Lat, r.Lon, r.Name+" port "+r.CountryCode),
	}
}
