package format

import "fmt"

// DefaultBranch is the branch code implied by an 8-character BIC.
const DefaultBranch = "XXX"

// SwiftFormat holds the four BIC components.
type SwiftFormat struct {
	BankCode     string `json:"bank_code"`
	CountryCode  string `json:"country_code"`
	LocationCode string `json:"location_code"`
	BranchCode   string `json:"branch_code"`
}

// Swift is the result of ValidateSwift. Cleaned is always populated.
type Swift struct {
	Valid bool `json:"valid"`
	SwiftFormat
	Cleaned string `json:"cleaned"`
	Error   string `json:"error,omitempty"`
}

// NormalizeSwift upper-cases and strips spaces and hyphens.
func NormalizeSwift(raw string) string {
	return normalizeCode(raw)
}

// ValidateSwift checks an 8 or 11 character BIC.
func ValidateSwift(raw string) Swift {
	s := NormalizeSwift(raw)
	res := Swift{Cleaned: s}

	switch {
	case len(s) != 8 && len(s) != 11:
		res.Error = fmt.Sprintf("Must be 8 or 11 chars, got %d", len(s))
	case !isLetters(s[:4]):
		res.Error = fmt.Sprintf("First 4 chars must be letters: '%s'", s[:4])
	case !isLetters(s[4:6]):
		res.Error = fmt.Sprintf("Country code must be letters: '%s'", s[4:6])
	case !isAlnum(s[6:8]):
		res.Error = fmt.Sprintf("Location must be alphanumeric: '%s'", s[6:8])
	default:
		res.Valid = true
		res.SwiftFormat = SwiftFormat{
			BankCode:     s[:4],
			CountryCode:  s[4:6],
			LocationCode: s[6:8],
			BranchCode:   DefaultBranch,
		}
		if len(s) == 11 {
			res.BranchCode = s[8:11]
		}
	}
	return res
}
