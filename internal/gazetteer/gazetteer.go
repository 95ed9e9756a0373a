package gazetteer

import (
	"sort"
	"strings"
)

// Match scores.
const (
	ScoreExact    = 100
	ScorePrefix   = 80
	ScoreContains = 60
	ScoreCode     = 100
)

// Gazetteer is an immutable in-memory index of PortRecords.
type Gazetteer struct {
	records []PortRecord
	byCode  map[string]int
}

// New indexes records. Later duplicates of a LOCODE do not replace earlier ones
// in ByCode but are still searchable.
func New(records []PortRecord) *Gazetteer {
	g := &Gazetteer{
		records: records,
		byCode:  make(map[string]int, len(records)),
	}
	for i, r := range records {
		if _, ok := g.byCode[r.Locode]; !ok {
			g.byCode[r.Locode] = i
		}
	}
	return g
}

// Size returns the number of loaded locations.
func (g *Gazetteer) Size() int {
	if g == nil {
		return 0
	}
	return len(g.records)
}

// ByCode returns the location for a country and location code, e.g. LY + TIP.
func (g *Gazetteer) ByCode(countryCode, locationCode string) (PortRecord, bool) {
	if g == nil {
		return PortRecord{}, false
	}
	i, ok := g.byCode[strings.ToUpper(countryCode)+strings.ToUpper(locationCode)]
	if !ok {
		return PortRecord{}, false
	}
	return g.records[i], true
}

// SearchOptions narrows a Search.
type SearchOptions struct {
	CountryCode string
	PortsOnly   bool
	Limit       int
}

// Match is a search hit with its score.
type Match struct {
	PortRecord
	Score int `json:"score"`
}

// Search matches query case-insensitively against the ASCII and original
// names: exact (100), prefix (80), substring (60), then LOCODE or location
// code equality (100). Results are ordered by score, ports first within a
// score, then file order.
func (g *Gazetteer) Search(query string, opts SearchOptions) []Match {
	if g == nil {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	qUpper := strings.ToUpper(q)
	cc := strings.ToUpper(opts.CountryCode)
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	var out []Match
	for _, r := range g.records {
		if opts.PortsOnly && !r.IsPort {
			continue
		}
		if cc != "" && !strings.EqualFold(r.CountryCode, cc) {
			continue
		}
		if s := score(r, q, qUpper); s > 0 {
			out = append(out, Match{PortRecord: r, Score: s})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].IsPort && !out[j].IsPort
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func score(r PortRecord, q, qUpper string) int {
	ascii := strings.ToLower(r.NameASCII)
	orig := strings.ToLower(r.Name)
	switch {
	case ascii == q || orig == q:
		return ScoreExact
	case strings.HasPrefix(ascii, q) || strings.HasPrefix(orig, q):
		return ScorePrefix
	case strings.Contains(ascii, q) || strings.Contains(orig, q):
		return ScoreContains
	case qUpper == r.Locode || qUpper == r.LocationCode:
		return ScoreCode
	}
	return 0
}
