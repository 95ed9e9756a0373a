// Package candidates expands raw user input into the ordered list of
// lookups a cascade should try: repaired SWIFT codes and company or bank
// name variants.
package candidates

import (
	"regexp"
	"strings"

	"tradeverify/internal/verification/format"
	pstrings "tradeverify/pkg/platform/strings"
)

// Swift returns the raw code followed by length-specific repairs, without
// duplicates, in a fixed order:
//
//   - 10 chars: first 8, padded to 11 with "X", 9th char dropped
//   - 9 chars: first 8, padded to 11 with "XX"
//   - 12 chars: first 11, first 8
//   - 11 chars ending in "XXX": first 8
//
// Candidates are not format-checked here.
func Swift(raw string) []string {
	s := format.NormalizeSwift(raw)
	out := []string{s}

	switch len(s) {
	case 10:
		out = append(out, s[:8], s+"X", s[:8]+s[9:])
	case 9:
		out = append(out, s[:8], s+"XX")
	case 12:
		out = append(out, s[:11], s[:8])
	case 11:
		if strings.HasSuffix(s, format.DefaultBranch) {
			out = append(out, s[:8])
		}
	}
	return pstrings.DedupeAndTrim(out)
}

// corporateSuffixes are stripped one at a time to form extra name variants.
var corporateSuffixes = []string{"S.P.A.", "SPA", "S.A.", "SA", "PLC", "LTD", "LLC", "AG", "GMBH", "N.V.", "NV"}

var suffixPatterns = compileSuffixes(corporateSuffixes)

func compileSuffixes(suffixes []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(suffixes))
	for i, sfx := range suffixes {
		// Boundaries are non-alphanumerics so dotted forms match at end of string.
		out[i] = regexp.MustCompile(`(?i)(^|[^\pL\pN])` + regexp.QuoteMeta(sfx) + `([^\pL\pN]|$)`)
	}
	return out
}

// MinNameLength is the shortest name worth sending to a source.
const MinNameLength = 2

// Names returns query variants for a bank or company name, in order: the
// full name, the first three, two and one words, then the name with each
// corporate suffix removed. Variants are deduplicated case-insensitively and
// anything shorter than MinNameLength is dropped.
func Names(raw string) []string {
	name := strings.TrimSpace(raw)
	out := []string{name}

	words := strings.Fields(name)
	if len(words) > 3 {
		out = append(out, strings.Join(words[:3], " "))
	}
	if len(words) > 2 {
		out = append(out, strings.Join(words[:2], " "))
	}
	if len(words) > 1 {
		out = append(out, words[0])
	}

	for _, re := range suffixPatterns {
		cleaned := strings.Trim(re.ReplaceAllString(name, "$1$2"), " ,")
		cleaned = strings.Join(strings.Fields(cleaned), " ")
		if cleaned != "" && !strings.EqualFold(cleaned, name) {
			out = append(out, cleaned)
		}
	}

	return pstrings.DedupeFold(out, MinNameLength)
}
