package gazetteer

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"tradeverify/pkg/platform/sentinel"
)

const fixtureDir = "testdata"

var fixtureFile = filepath.Join(fixtureDir, "2024-1_UNLOCODE_CodeListPart1.csv")

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		lat, lon float64
		nilOut   bool
	}{
		{name: "north east", raw: "4230N 00131E", lat: 42.5, lon: 1 + 31.0/60},
		{name: "south west", raw: "3436S 05822W", lat: -(34 + 36.0/60), lon: -(58 + 22.0/60)},
		{name: "lowercase hemisphere", raw: "4042n 07400w", lat: 40.7, lon: -74},
		{name: "empty", raw: "", nilOut: true},
		{name: "too short", raw: "4230N 0013", nilOut: true},
		{name: "three parts", raw: "4230N 00131E X", nilOut: true},
		{name: "non numeric", raw: "AB30N 00131E", nilOut: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := ParseCoordinates(tt.raw)
			if tt.nilOut {
				assert.Nil(t, lat)
				assert.Nil(t, lon)
				return
			}
			require.NotNil(t, lat)
			require.NotNil(t, lon)
			assert.InDelta(t, tt.lat, *lat, 1e-9)
			assert.InDelta(t, tt.lon, *lon, 1e-9)
		})
	}
}

func TestReadCSV_SkipsHeaderAndShortRows(t *testing.T) {
	data := `,"LY",,".LIBYA",,,,,,,,
,"LY","TIP","Tripoli","Tripoli",,"1--4----","AI","0701",,"3254N 01311E",
too,short
,"","XXX","No Country","No Country",,"1-------",,,,,
,"DE","HAM","Hamburg","",,"1-3-----",,,,,
`
	recs, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	tip := recs[0]
	assert.Equal(t, "LYTIP", tip.Locode)
	assert.Equal(t, []string{"Port", "Airport"}, tip.Functions)
	assert.True(t, tip.IsPort)
	assert.True(t, tip.IsAirport)
	require.NotNil(t, tip.Lat)

	ham := recs[1]
	assert.Equal(t, "Hamburg", ham.NameASCII, "ASCII name falls back to name")
	assert.Equal(t, []string{"Port", "Road Terminal"}, ham.Functions)
	assert.Nil(t, ham.Lat)
}

func TestResolveFiles(t *testing.T) {
	files, err := ResolveFiles(fixtureDir)
	require.NoError(t, err)
	assert.Equal(t, []string{fixtureFile}, files)

	files, err = ResolveFiles(fixtureFile)
	require.NoError(t, err)
	assert.Equal(t, []string{fixtureFile}, files)

	_, err = ResolveFiles(filepath.Join(fixtureDir, "missing"))
	assert.Error(t, err)
}

type GazetteerSuite struct {
	suite.Suite
	g *Gazetteer
}

func TestGazetteerSuite(t *testing.T) {
	suite.Run(t, new(GazetteerSuite))
}

func (s *GazetteerSuite) SetupSuite() {
	recs, err := LoadFiles([]string{fixtureFile})
	s.Require().NoError(err)
	s.g = New(recs)
}

func (s *GazetteerSuite) TestSize() {
	s.Equal(10, s.g.Size())
}

func (s *GazetteerSuite) TestByCode() {
	rec, ok := s.g.ByCode("ly", "tip")
	s.Require().True(ok)
	s.Equal("Tripoli", rec.Name)

	_, ok = s.g.ByCode("LY", "ZZZ")
	s.False(ok)
}

func (s *GazetteerSuite) TestSearch_ExactBeforePrefixBeforeContains() {
	got := s.g.Search("tri", SearchOptions{})
	s.Require().NotEmpty(got)
	for _, m := range got {
		s.Equal(ScorePrefix, m.Score, m.Name)
	}

	got = s.g.Search("Tripoli", SearchOptions{})
	s.Require().Len(got, 2)
	s.Equal(ScoreExact, got[0].Score)
	s.Equal(ScoreExact, got[1].Score)

	got = s.g.Search("enova", SearchOptions{})
	s.Require().Len(got, 1)
	s.Equal(ScoreContains, got[0].Score)
}

func (s *GazetteerSuite) TestSearch_CountryAndPortsOnly() {
	got := s.g.Search("Tripoli", SearchOptions{CountryCode: "LB"})
	s.Require().Len(got, 1)
	s.Equal("LBKYE", got[0].Locode)

	got = s.g.Search("Libiaz", SearchOptions{CountryCode: "LY"})
	s.Empty(got)

	got = s.g.Search("Misurata", SearchOptions{PortsOnly: true})
	s.Require().Len(got, 1)
	s.Equal([]string{"Port"}, got[0].Functions)

	got = s.g.Search("libiąż", SearchOptions{})
	s.Require().Len(got, 1, "original name with diacritics matches")
}

func (s *GazetteerSuite) TestSearch_LocodeEquality() {
	got := s.g.Search("itgoa", SearchOptions{})
	s.Require().Len(got, 1)
	s.Equal("ITGOA", got[0].Locode)
	s.Equal(ScoreCode, got[0].Score)
}

func (s *GazetteerSuite) TestSearch_PortsFirstWithinScore() {
	got := s.g.Search("New York", SearchOptions{})
	s.Require().Len(got, 1)
	s.True(got[0].IsPort)
}

func (s *GazetteerSuite) TestSearch_Limit() {
	got := s.g.Search("i", SearchOptions{Limit: 3})
	s.Len(got, 3)
}

func TestLoader(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := NewLoader("", nil).Get(context.Background())
		assert.ErrorIs(t, err, sentinel.ErrNotConfigured)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := NewLoader(filepath.Join(t.TempDir(), "nope"), nil).Get(context.Background())
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("concurrent callers share one build", func(t *testing.T) {
		l := NewLoader(fixtureDir, nil)
		var wg sync.WaitGroup
		results := make([]*Gazetteer, 8)
		for i := range results {
			wg.Go(func() {
				g, err := l.Get(context.Background())
				assert.NoError(t, err)
				results[i] = g
			})
		}
		wg.Wait()
		for _, g := range results {
			assert.Same(t, results[0], g)
		}
		assert.Equal(t, 10, results[0].Size())
	})

	t.Run("from records", func(t *testing.T) {
		g, err := FromRecords([]PortRecord{{Locode: "ITGOA", CountryCode: "IT", LocationCode: "GOA", Name: "Genova", NameASCII: "Genova"}}).Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, g.Size())
	})
}
