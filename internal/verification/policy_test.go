package verification

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_FraudFlagged(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		text string
		want bool
	}{
		{"The director was CONVICTED OF FRAUD in 2018.", true},
		{"A registered company. Unrelated firms were charged with fraud.", false},
		{"Operates in the textile sector.", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.FraudFlagged(tc.text), tc.text)
	}
}

func TestPolicy_SanctionsFlagged(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.SanctionsFlagged("Entity designated by OFAC in 2022."))
	assert.False(t, p.SanctionsFlagged("Not sanctioned. It was designated a free zone operator."))
	assert.False(t, p.SanctionsFlagged("A container line based in Hamburg."))
}

func TestLoadPolicy(t *testing.T) {
	t.Run("empty path is the default", func(t *testing.T) {
		p, err := LoadPolicy("")
		require.NoError(t, err)
		assert.Equal(t, DefaultPolicy(), p)
	})

	t.Run("file overrides only the lists it sets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		body := "fraud:\n  - \" Shell Company \"\n  - shell company\n  - \"\"\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		p, err := LoadPolicy(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"shell company"}, p.Fraud)
		assert.Equal(t, DefaultPolicy().SanctionsHit, p.SanctionsHit)
		assert.True(t, p.FraudFlagged("Looks like a shell company."))
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fraud: [unterminated"), 0o600))
		_, err := LoadPolicy(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
