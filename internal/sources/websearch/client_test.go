package websearch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeverify/internal/sources"
	"tradeverify/internal/sources/contract"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Harmonized   System\nchapter 09 ", "Harmonized System chapter 09"},
		{"markup", "<p>Coffee, <b>not roasted</b></p><script>track()</script>", "Coffee, not roasted"},
		{"entities", "Tom &amp; Co <br/>Ltd", "Tom & Co Ltd"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestClientContract(t *testing.T) {
	var got searchRequest
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		key = r.Header.Get("x-api-key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"results":[
			{"title":"HTS 0901","url":"https://hts.usitc.gov/?query=0901","text":"<div>Coffee, whether or not roasted</div>"},
			{"title":"no url","url":"","text":"dropped"},
			{"title":"WCO","url":"https://www.wcoomd.org/","text":"","highlights":["HS nomenclature","2022 edition"]}
		]}`)
	}))
	defer srv.Close()

	suite := &contract.ContractSuite{
		ProviderID: ID,
		Provider:   New(srv.URL, "exa-key", 5*time.Second),
		Tests: []contract.ContractTest{{
			Name:  "domain restricted search",
			Input: "HS code 0901 harmonized system",
			Options: sources.Options{
				NumResults:     3,
				IncludeDomains: []string{"hts.usitc.gov", "trade.gov", "wcoomd.org"},
			},
			ValidateFunc: func(resp *sources.Response) error {
				if len(resp.Records) != 2 {
					return fmt.Errorf("expected 2 records, got %d", len(resp.Records))
				}
				if resp.Records[0].Text != "Coffee, whether or not roasted" {
					return fmt.Errorf("markup not stripped: %q", resp.Records[0].Text)
				}
				if resp.Records[1].Text != "HS nomenclature 2022 edition" {
					return fmt.Errorf("highlights not used: %q", resp.Records[1].Text)
				}
				return nil
			},
		}},
	}
	suite.Run(t)

	assert.Equal(t, "exa-key", key)
	assert.Equal(t, 3, got.NumResults)
	assert.Equal(t, []string{"hts.usitc.gov", "trade.gov", "wcoomd.org"}, got.IncludeDomains)
	assert.True(t, got.Contents.Text)
}

func TestClient_DefaultsAndCategory(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	resp, err := New(srv.URL, "k", time.Second).Query(t.Context(), "Acme Trading Libya company official website", sources.Options{Category: "company"})
	require.NoError(t, err)
	assert.False(t, resp.Usable())
	assert.Equal(t, float64(defaultNumResults), raw["numResults"])
	assert.Equal(t, "company", raw["category"])
	assert.NotContains(t, raw, "includeDomains")
}
