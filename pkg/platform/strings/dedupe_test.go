package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := map[string]struct {
		in, want []string
	}{
		"nil stays nil":         {nil, nil},
		"empty stays empty":     {[]string{}, []string{}},
		"trim then dedupe":      {[]string{"  BCITITMM ", "UNCRITMM", "BCITITMM", "", "  ", "UNCRITMM"}, []string{"BCITITMM", "UNCRITMM"}},
		"first occurrence wins": {[]string{"NBELLYTT", "BCITITMM", "NBELLYTT"}, []string{"NBELLYTT", "BCITITMM"}},
		"case sensitive":        {[]string{"Bcititmm", "BCITITMM"}, []string{"Bcititmm", "BCITITMM"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.in))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "lowercases and dedupes",
			input:    []string{"SDN List", "sdn list", "SDN LIST"},
			expected: []string{"sdn list"},
		},
		{
			name:     "trims, lowercases, and dedupes",
			input:    []string{"  Is A Scam ", "blacklisted", "IS A SCAM", "BLACKLISTED"},
			expected: []string{"is a scam", "blacklisted"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrimLower(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDedupeFold(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		minLen   int
		expected []string
	}{
		{
			name:     "keeps first spelling",
			input:    []string{"Banca Intesa", "BANCA INTESA", "banca intesa"},
			minLen:   2,
			expected: []string{"Banca Intesa"},
		},
		{
			name:     "drops short entries",
			input:    []string{"Acme Trading", "A", " "},
			minLen:   2,
			expected: []string{"Acme Trading"},
		},
		{
			name:     "order preserved",
			input:    []string{"Gulf Bank Kuwait", "Gulf Bank", "Gulf", "gulf bank"},
			minLen:   2,
			expected: []string{"Gulf Bank Kuwait", "Gulf Bank", "Gulf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeFold(tt.input, tt.minLen))
		})
	}
}
