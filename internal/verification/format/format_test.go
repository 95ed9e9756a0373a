package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHSCode(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		valid      bool
		chapter    string
		heading    string
		subheading string
		digits     int
		err        string
	}{
		{name: "dotted six digit", raw: "8471.30", valid: true, chapter: "84", heading: "8471", subheading: "847130", digits: 6},
		{name: "four digit has no subheading", raw: "0901", valid: true, chapter: "09", heading: "0901", digits: 4},
		{name: "spaces stripped", raw: " 8517 62 00 ", valid: true, chapter: "85", heading: "8517", subheading: "851762", digits: 8},
		{name: "twelve digits", raw: "850440000000", valid: true, chapter: "85", heading: "8504", subheading: "850440", digits: 12},
		{name: "too short", raw: "847", err: "HS code must be at least 4 digits"},
		{name: "too long", raw: "8504400000001", err: "HS code cannot exceed 12 digits"},
		{name: "letters", raw: "84A1", err: "HS code must be numeric"},
		{name: "empty", raw: "", err: "HS code must be numeric"},
		{name: "chapter zero", raw: "0012", err: "Invalid chapter 00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateHSCode(tt.raw)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.err, got.Error)
			if tt.valid {
				assert.Equal(t, tt.chapter, got.Chapter)
				assert.Equal(t, tt.heading, got.Heading)
				assert.Equal(t, tt.subheading, got.Subheading)
				assert.Equal(t, tt.digits, got.Digits)
			}
		})
	}
}

func TestValidateSwift(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		valid   bool
		cleaned string
		branch  string
		err     string
	}{
		{name: "eight chars defaults branch", raw: "bcititmm", valid: true, cleaned: "BCITITMM", branch: "XXX"},
		{name: "eleven chars with branch", raw: "DEUT DE FF 500", valid: true, cleaned: "DEUTDEFF500", branch: "500"},
		{name: "hyphens stripped", raw: "CITI-US-33", valid: true, cleaned: "CITIUS33", branch: "XXX"},
		{name: "numeric location allowed", raw: "NWBKGB2L", valid: true, cleaned: "NWBKGB2L", branch: "XXX"},
		{name: "ten chars", raw: "BCITITMMXX", cleaned: "BCITITMMXX", err: "Must be 8 or 11 chars, got 10"},
		{name: "digit in bank code", raw: "BC1TITMM", cleaned: "BC1TITMM", err: "First 4 chars must be letters: 'BC1T'"},
		{name: "digit in country", raw: "BCIT1TMM", cleaned: "BCIT1TMM", err: "Country code must be letters: '1T'"},
		{name: "symbol in location", raw: "BCITIT*M", cleaned: "BCITIT*M", err: "Location must be alphanumeric: '*M'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSwift(tt.raw)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.cleaned, got.Cleaned)
			assert.Equal(t, tt.err, got.Error)
			if tt.valid {
				assert.Equal(t, tt.branch, got.BranchCode)
				assert.Equal(t, tt.cleaned[:4], got.BankCode)
				assert.Equal(t, tt.cleaned[4:6], got.CountryCode)
			}
		})
	}
}

func TestValidateContainer(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		valid     bool
		formatted string
		err       string
	}{
		{name: "valid", raw: "MSCU1234567", valid: true, formatted: "MSCU 123456 7"},
		{name: "lowercase with spaces", raw: "msku 123456-7", valid: true, formatted: "MSKU 123456 7"},
		{name: "detachable category", raw: "ABCJ0000010", valid: true, formatted: "ABCJ 000001 0"},
		{name: "wrong length", raw: "MSCU123456", err: "Must be 11 chars, got 10"},
		{name: "digit in owner", raw: "M5CU1234567", err: "First 3 must be letters: 'M5C'"},
		{name: "bad category", raw: "MSCX1234567", err: "4th char must be U/J/Z: 'X'"},
		{name: "letter in serial", raw: "MSCU12345A7", err: "Chars 5-10 must be digits: '12345A'"},
		{name: "letter check digit", raw: "MSCU123456A", err: "Check digit must be digit: 'A'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateContainer(tt.raw)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.err, got.Error)
			assert.Equal(t, tt.formatted, got.Formatted)
		})
	}
}

func TestValidateContainer_CheckDigitNotRecomputed(t *testing.T) {
	// CSQU3054383 is the canonical valid number; any other final digit still passes.
	assert.True(t, ValidateContainer("CSQU3054383").Valid)
	assert.True(t, ValidateContainer("CSQU3054389").Valid)
}
