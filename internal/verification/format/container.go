package format

import (
	"fmt"
	"strings"
)

// Container is a parsed ISO 6346 container number. The check digit is
// shape-checked only; its modulo-11 value is not recomputed.
type Container struct {
	Valid             bool   `json:"valid"`
	OwnerCode         string `json:"owner_code,omitempty"`
	EquipmentCategory string `json:"equipment_category,omitempty"`
	SerialNumber      string `json:"serial_number,omitempty"`
	CheckDigit        string `json:"check_digit,omitempty"`
	Formatted         string `json:"formatted,omitempty"`
	Error             string `json:"error,omitempty"`
}

// ValidateContainer checks owner code, category, serial and check digit shape.
func ValidateContainer(raw string) Container {
	c := normalizeCode(raw)

	switch {
	case len(c) != 11:
		return Container{Error: fmt.Sprintf("Must be 11 chars, got %d", len(c))}
	case !isLetters(c[:3]):
		return Container{Error: fmt.Sprintf("First 3 must be letters: '%s'", c[:3])}
	case !strings.ContainsRune("UJZ", rune(c[3])):
		return Container{Error: fmt.Sprintf("4th char must be U/J/Z: '%c'", c[3])}
	case !isDigits(c[4:10]):
		return Container{Error: fmt.Sprintf("Chars 5-10 must be digits: '%s'", c[4:10])}
	case !isDigits(c[10:]):
		return Container{Error: fmt.Sprintf("Check digit must be digit: '%s'", c[10:])}
	}

	return Container{
		Valid:             true,
		OwnerCode:         c[:3],
		EquipmentCategory: c[3:4],
		SerialNumber:      c[4:10],
		CheckDigit:        c[10:],
		Formatted:         fmt.Sprintf("%s %s %s", c[:4], c[4:10], c[10:]),
	}
}
