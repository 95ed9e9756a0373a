package portmatch

import (
	"regexp"
	"sort"
	"strings"
)

// countryAliases maps country names and demonyms seen on trade documents to
// ISO 3166 alpha-2 codes.
var countryAliases = map[string]string{
	"libya": "LY", "libia": "LY", "libyan": "LY",
	"italy": "IT", "italia": "IT", "italian": "IT",
	"egypt": "EG", "egyptian": "EG",
	"tunisia": "TN", "tunisian": "TN",
	"algeria": "DZ", "algerian": "DZ",
	"morocco": "MA", "moroccan": "MA",
	"turkey": "TR", "turkiye": "TR",
	"china": "CN", "chinese": "CN",
	"india": "IN", "indian": "IN",
	"usa": "US", "united states": "US", "america": "US",
	"uk": "GB", "united kingdom": "GB", "england": "GB", "britain": "GB",
	"germany": "DE", "german": "DE", "deutschland": "DE",
	"france": "FR", "french": "FR",
	"spain": "ES", "spanish": "ES",
	"greece": "GR", "greek": "GR",
	"lebanon": "LB", "lebanese": "LB",
	"jordan": "JO", "jordanian": "JO",
	"uae": "AE", "emirates": "AE", "dubai": "AE",
	"saudi": "SA", "saudi arabia": "SA",
}

type alias struct {
	name string
	code string
	re   *regexp.Regexp
}

// aliasTable is ordered longest alias first, then alphabetically, so
// "saudi arabia" wins over "saudi" and lookups are deterministic.
var aliasTable = buildAliasTable(countryAliases)

func buildAliasTable(m map[string]string) []alias {
	out := make([]alias, 0, len(m))
	for name, code := range m {
		out = append(out, alias{
			name: name,
			code: code,
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].name) != len(out[j].name) {
			return len(out[i].name) > len(out[j].name)
		}
		return out[i].name < out[j].name
	})
	return out
}

var trailingCode = regexp.MustCompile(`,\s*([A-Z]{2})\s*$`)

// GuessCountryCode finds a country alias as a whole word in text, falling
// back to a trailing ", XX" code. It returns "" when nothing matches.
func GuessCountryCode(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	for _, a := range aliasTable {
		if a.re.MatchString(text) {
			return a.code
		}
	}
	if m := trailingCode.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		return m[1]
	}
	return ""
}

// stripCountryWords removes every alias from name.
func stripCountryWords(name string) string {
	for _, a := range aliasTable {
		name = a.re.ReplaceAllString(name, "")
	}
	return strings.Join(strings.Fields(name), " ")
}
