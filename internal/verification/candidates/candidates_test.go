package candidates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwift(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "valid eight", raw: "BCITITMM", want: []string{"BCITITMM"}},
		{name: "eleven with XXX branch", raw: "bcititmmxxx", want: []string{"BCITITMMXXX", "BCITITMM"}},
		{name: "eleven with real branch", raw: "DEUTDEFF500", want: []string{"DEUTDEFF500"}},
		{name: "ten chars", raw: "BCITITMMXX", want: []string{"BCITITMMXX", "BCITITMM", "BCITITMMXXX", "BCITITMMX"}},
		{name: "nine chars", raw: "BCITITMMX", want: []string{"BCITITMMX", "BCITITMM", "BCITITMMXXX"}},
		{name: "twelve chars", raw: "DEUTDEFF5001", want: []string{"DEUTDEFF5001", "DEUTDEFF500", "DEUTDEFF"}},
		{name: "separators stripped", raw: "BCIT-IT MM", want: []string{"BCITITMM"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Swift(tt.raw))
		})
	}
}

func TestSwift_DeterministicAndUnique(t *testing.T) {
	for _, raw := range []string{"ABCDEFGHIJ", "ABCDEFGHI", "ABCDEFGHIJKL", "ABCDEFGHXXX", "AAAAAAAAAA"} {
		first := Swift(raw)
		assert.Equal(t, first, Swift(raw), raw)

		seen := map[string]bool{}
		for _, c := range first {
			assert.False(t, seen[c], "duplicate candidate %q for %q", c, raw)
			seen[c] = true
		}
		assert.Equal(t, raw, first[0])
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "italian bank with dotted suffix",
			raw:  "Banca Intesa Sanpaolo S.P.A.",
			want: []string{"Banca Intesa Sanpaolo S.P.A.", "Banca Intesa Sanpaolo", "Banca Intesa", "Banca"},
		},
		{
			name: "two words with LTD",
			raw:  "Acme Ltd",
			want: []string{"Acme Ltd", "Acme"},
		},
		{
			name: "single word",
			raw:  "Deutsche",
			want: []string{"Deutsche"},
		},
		{
			name: "suffix inside a word is kept",
			raw:  "Spanair Holdings",
			want: []string{"Spanair Holdings", "Spanair"},
		},
		{
			name: "comma before suffix",
			raw:  "Mediterranean Shipping Company, SA",
			want: []string{"Mediterranean Shipping Company, SA", "Mediterranean Shipping Company,", "Mediterranean Shipping", "Mediterranean", "Mediterranean Shipping Company"},
		},
		{
			name: "too short",
			raw:  "X",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Names(tt.raw))
		})
	}
}
