// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{" BCITITMM ", "BCITITMMXXX", "BCITITMM"})
//	// Returns: []string{"BCITITMM", "BCITITMMXXX"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, 1, strings.TrimSpace, func(s string) string { return s })
}

// DedupeAndTrimLower is like DedupeAndTrim but also lowercases each element.
// Phrase lists matched against lowercased text go through it.
func DedupeAndTrimLower(values []string) []string {
	lower := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return dedupe(values, 1, lower, func(s string) string { return s })
}

// DedupeFold removes case-insensitive duplicates while keeping the first
// spelling seen. Elements shorter than minLen after trimming are dropped.
//
// Example:
//
//	DedupeFold([]string{"Banca Intesa", "BANCA INTESA", "B"}, 2)
//	// Returns: []string{"Banca Intesa"}
func DedupeFold(values []string, minLen int) []string {
	return dedupe(values, minLen, strings.TrimSpace, strings.ToUpper)
}

// dedupe keeps the first occurrence of each key(normalize(v)), in order.
func dedupe(values []string, minLen int, normalize, key func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		n := normalize(v)
		if n == "" || len(n) < minLen {
			continue
		}
		k := key(n)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, n)
	}

	return result
}
