package verification

import (
	"slices"
	"strings"
	"unicode/utf8"

	dErrors "tradeverify/pkg/domain-errors"
)

// Kind selects the cascade a request runs through.
type Kind string

const (
	KindSwift        Kind = "swift"
	KindHSCode       Kind = "hs_code"
	KindPort         Kind = "port"
	KindCompany      Kind = "company"
	KindBankName     Kind = "bank_name"
	KindSanctions    Kind = "sanctions"
	KindShipment     Kind = "shipment"
	KindDeepResearch Kind = "deep_research"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{
	KindSwift, KindHSCode, KindPort, KindCompany,
	KindBankName, KindSanctions, KindShipment, KindDeepResearch,
}

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Kinds, k) {
		return "", dErrors.New(dErrors.CodeValidation, "unsupported kind '"+s+"'")
	}
	return k, nil
}

// Result sources that are not external providers.
const (
	SourceInputValidation  = "input_validation"
	SourceFormatValidation = "format_validation"
	SourceGazetteer        = "unlocode_database"
	SourceNoResults        = "no_results"
	SourceError            = "error"
)

// Context keys read by the cascades.
const (
	ContextCountry     = "country"
	ContextCountryCode = "country_code"
	ContextResearch    = "context"
)

// Request is one field to verify.
type Request struct {
	Kind    Kind              `json:"kind"`
	Value   string            `json:"value"`
	Context map[string]string `json:"context,omitempty"`
}

func (r Request) contextValue(key string) string {
	return strings.TrimSpace(r.Context[key])
}

// Details carries evidence attached to a result: parsed format fields,
// source URLs, lookup links and the attempt trail.
type Details map[string]any

// Result is the verdict for one Request.
type Result struct {
	Kind       Kind    `json:"kind"`
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
	Source     string  `json:"source"`
	Details    Details `json:"details,omitempty"`
	DurationMs int64   `json:"duration_ms"`
}

// External reports whether the result came from an external source rather
// than from input checks, format checks or exhaustion.
func (r Result) External() bool {
	switch r.Source {
	case "", SourceInputValidation, SourceFormatValidation, SourceNoResults, SourceError:
		return false
	}
	return true
}

// Stage is a tier of the cascade.
type Stage string

const (
	StageRegistry  Stage = "registry"
	StageResearch  Stage = "research"
	StageWebSearch Stage = "web_search"
	StageFallback  Stage = "fallback"
)

// Outcome is what a stage produced.
type Outcome string

const (
	OutcomeHit         Outcome = "hit"
	OutcomeEmpty       Outcome = "empty"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeSkipped     Outcome = "skipped"
)

// Attempt is one entry of Details["attempts"].
type Attempt struct {
	Stage    Stage   `json:"stage"`
	Source   string  `json:"source"`
	Input    string  `json:"input,omitempty"`
	Outcome  Outcome `json:"outcome"`
	Category string  `json:"category,omitempty"`
}

func inputError(kind Kind, msg string) Result {
	return Result{
		Kind:    kind,
		Message: msg,
		Source:  SourceInputValidation,
		Details: Details{},
	}
}

func tooShort(value string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(value)) < 2
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	if s == nil {
		return []T{}
	}
	return s
}
