package consistency

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins, so an
// ambiguous 03/04/2024 is read day first.
var dateLayouts = []string{"2/1/2006", "1/2/2006", "2006-1-2"}

const displayDate = "02/01/2006"

func parseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var nonAmount = regexp.MustCompile(`[^0-9.]`)

// parseAmount reads "USD 150,000.00" as 150000. Commas are always thousands
// separators. Zero counts as absent.
func parseAmount(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case string:
		cleaned := nonAmount.ReplaceAllString(strings.ReplaceAll(x, ",", ""), "")
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	return f, f != 0
}

// text returns the first non-empty string value among keys, trimmed.
func (d Document) text(keys ...string) string {
	for _, k := range keys {
		if s := stringValue(d[k]); s != "" {
			return s
		}
	}
	return ""
}

// first returns the first value among keys that is not blank.
func (d Document) first(keys ...string) any {
	for _, k := range keys {
		if stringValue(d[k]) != "" {
			return d[k]
		}
	}
	return nil
}

func stringValue(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// flagged reports a checkbox marked as required.
func flagged(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "1":
			return true
		}
	case float64:
		return x == 1
	}
	return false
}

// fuzzyMatch is case-insensitive containment in either direction.
func fuzzyMatch(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
