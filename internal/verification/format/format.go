// Package format checks the shape of trade identifiers: HS codes, SWIFT/BIC
// codes and ISO 6346 container numbers.
//
// Validators never return Go errors. An invalid input yields a result with
// Valid=false and a human-readable Error.
package format

import "strings"

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// normalizeCode upper-cases and strips spaces and hyphens.
func normalizeCode(raw string) string {
	r := strings.NewReplacer(" ", "", "-", "")
	return r.Replace(strings.ToUpper(strings.TrimSpace(raw)))
}
