package format

import (
	"fmt"
	"strconv"
	"strings"
)

// HSCode is the parsed form of a Harmonized System code.
type HSCode struct {
	Valid      bool   `json:"valid"`
	Chapter    string `json:"chapter,omitempty"`
	Heading    string `json:"heading,omitempty"`
	Subheading string `json:"subheading,omitempty"`
	FullCode   string `json:"full_code,omitempty"`
	Digits     int    `json:"digits,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ValidateHSCode strips dots and spaces, then requires 4 to 12 digits with a
// chapter between 01 and 99.
func ValidateHSCode(raw string) HSCode {
	cleaned := strings.TrimSpace(strings.NewReplacer(".", "", " ", "").Replace(raw))

	if !isDigits(cleaned) {
		return HSCode{Error: "HS code must be numeric"}
	}
	if len(cleaned) < 4 {
		return HSCode{Error: "HS code must be at least 4 digits"}
	}
	if len(cleaned) > 12 {
		return HSCode{Error: "HS code cannot exceed 12 digits"}
	}

	chapter, _ := strconv.Atoi(cleaned[:2])
	if chapter < 1 || chapter > 99 {
		return HSCode{Error: fmt.Sprintf("Invalid chapter %02d", chapter)}
	}

	res := HSCode{
		Valid:    true,
		Chapter:  fmt.Sprintf("%02d", chapter),
		Heading:  cleaned[:4],
		FullCode: cleaned,
		Digits:   len(cleaned),
	}
	if len(cleaned) >= 6 {
		res.Subheading = cleaned[:6]
	}
	return res
}
