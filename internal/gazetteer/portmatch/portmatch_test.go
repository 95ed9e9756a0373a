package portmatch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeverify/internal/gazetteer"
	"tradeverify/pkg/platform/sentinel"
)

func fixtureLoader(t *testing.T) *gazetteer.Loader {
	t.Helper()
	recs, err := gazetteer.LoadFiles([]string{filepath.Join("..", "testdata", "2024-1_UNLOCODE_CodeListPart1.csv")})
	require.NoError(t, err)
	return gazetteer.FromRecords(recs)
}

func locodes(ms []PortMatch) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Locode
	}
	return out
}

func TestGuessCountryCode(t *testing.T) {
	tests := map[string]string{
		"Tripoli Libya":                "LY",
		"Port of Jeddah, Saudi Arabia": "SA",
		"saudi":                        "SA",
		"Tripoli, LY":                  "LY",
		"Durukan":                      "",
		"Misurata":                     "",
		"Genova ITALIA":                "IT",
		"":                             "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, GuessCountryCode(in))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		q           Query
		names       []string
		cc          string
		fromContext bool
	}{
		{name: "facility word stripped", q: Query{Port: "Tripoli Seaport"}, names: []string{"Tripoli"}},
		{name: "sea port of", q: Query{Port: "Sea Port of Benghazi"}, names: []string{"Benghazi"}},
		{name: "and/or split with country", q: Query{Port: "Port of Salerno AND/OR Trieste, Italy"}, names: []string{"Salerno", "Trieste"}, cc: "IT"},
		{name: "slash split", q: Query{Port: "Genova/Trieste"}, names: []string{"Genova", "Trieste"}},
		{name: "trailing code", q: Query{Port: "Tripoli, LY"}, names: []string{"Tripoli"}, cc: "LY"},
		{name: "context code wins", q: Query{Port: "Tripoli Libya", CountryCode: "lb"}, names: []string{"Tripoli Libya"}, cc: "LB", fromContext: true},
		{name: "context country name", q: Query{Port: "Genova", Country: "Libya"}, names: []string{"Genova"}, cc: "LY", fromContext: true},
		{name: "only facility word keeps raw", q: Query{Port: "Port"}, names: []string{"Port"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.q)
			assert.Equal(t, tt.names, p.Names)
			assert.Equal(t, tt.cc, p.CountryCode)
			assert.Equal(t, tt.fromContext, p.FromContext)
		})
	}
}

func TestParse_TrailingCountryHintsPrecedingName(t *testing.T) {
	p := Parse(Query{Port: "Tripoli, Libya or Genova, Italy"})
	assert.Equal(t, []string{"Tripoli", "Genova"}, p.Names)
	assert.Equal(t, map[string]string{"Tripoli": "LY", "Genova": "IT"}, p.NameHints)

	p = Parse(Query{Port: "Tripoli, LY / Trieste"})
	assert.Equal(t, []string{"Tripoli", "Trieste"}, p.Names)
	assert.Equal(t, "LY", p.NameHints["Tripoli"])
	assert.NotContains(t, p.NameHints, "Trieste")
}

func TestMatch(t *testing.T) {
	m := New(fixtureLoader(t))
	ctx := context.Background()

	tests := []struct {
		name    string
		q       Query
		want    []string
		relaxed bool
	}{
		{name: "name hint scopes to Libya", q: Query{Port: "Tripoli Libya"}, want: []string{"LYTIP"}},
		{name: "context hint scopes to Lebanon", q: Query{Port: "Tripoli", Country: "Lebanon"}, want: []string{"LBKYE"}},
		{name: "no hint returns both", q: Query{Port: "Tripoli"}, want: []string{"LYTIP", "LBKYE"}},
		{name: "Libia never matches Libiaz", q: Query{Port: "Libia"}, want: []string{}},
		{name: "without a hint Libiaz is found", q: Query{Port: "Libiaz"}, want: []string{"PLLBZ"}},
		{name: "context hint relaxes for a foreign port", q: Query{Port: "Genova", Country: "Libya"}, want: []string{"ITGOA"}, relaxed: true},
		{name: "per-name countries in a compound phrase", q: Query{Port: "Tripoli, Libya or Genova, Italy"}, want: []string{"LYTIP", "ITGOA"}},
		{name: "compound phrase", q: Query{Port: "Port of Salerno and/or Trieste, Italy"}, want: []string{"ITSAL", "ITTRS"}},
		{name: "capped and deduplicated", q: Query{Port: "Tripoli / Benghazi / Tripoli / Misurata / Genova / Salerno"}, want: []string{"LYTIP", "LBKYE", "LYBEN", "LYMRA", "ITGOA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.Match(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, locodes(res.Matches))
			assert.Equal(t, tt.relaxed, res.CountryRelaxed)
			assert.Equal(t, 10, res.DatabaseSize)
		})
	}
}

func TestMatch_ScopedNeverLeaksOtherCountries(t *testing.T) {
	m := New(fixtureLoader(t))
	for _, port := range []string{"Tripoli", "Trieste", "Genova", "Benghazi"} {
		for _, cc := range []string{"LY", "IT", "LB"} {
			res, err := m.Match(context.Background(), Query{Port: port, CountryCode: cc})
			require.NoError(t, err)
			if res.CountryRelaxed {
				continue
			}
			for _, match := range res.Matches {
				assert.Equal(t, cc, match.Country, "%s scoped to %s", port, cc)
			}
		}
	}
}

func TestMatch_MapsLinkUsesCoordinates(t *testing.T) {
	res, err := New(fixtureLoader(t)).Match(context.Background(), Query{Port: "Buenos Aires"})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Contains(t, res.Matches[0].GoogleMaps, "maps?q=-34.6,")
}

func TestMatch_GazetteerUnavailableStillParses(t *testing.T) {
	res, err := New(gazetteer.NewLoader("", nil)).Match(context.Background(), Query{Port: "Tripoli Libya"})
	assert.ErrorIs(t, err, sentinel.ErrNotConfigured)
	assert.Equal(t, []string{"Tripoli Libya"}, res.Names)
	assert.Equal(t, "LY", res.CountryCode)
	assert.Empty(t, res.Matches)
}
