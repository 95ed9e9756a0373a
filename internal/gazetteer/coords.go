package gazetteer

import (
	"strconv"
	"strings"
)

// ParseCoordinates converts the UN/LOCODE "DDMMN DDDMME" form, e.g.
// "4230N 00131E", into decimal degrees. Anything malformed yields nil, nil.
func ParseCoordinates(raw string) (lat, lon *float64) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 10 {
		return nil, nil
	}
	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return nil, nil
	}

	la, ok := parseAngle(parts[0], 2)
	if !ok {
		return nil, nil
	}
	lo, ok := parseAngle(parts[1], 3)
	if !ok {
		return nil, nil
	}
	return &la, &lo
}

// parseAngle reads degDigits of degrees, two of minutes, and a hemisphere
// letter at the end. S and W are negative.
func parseAngle(s string, degDigits int) (float64, bool) {
	if len(s) < degDigits+3 {
		return 0, false
	}
	deg, err := strconv.Atoi(s[:degDigits])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(s[degDigits : degDigits+2])
	if err != nil {
		return 0, false
	}
	v := float64(deg) + float64(mins)/60.0
	switch s[len(s)-1] {
	case 'S', 's', 'W', 'w':
		v = -v
	}
	return v, true
}
