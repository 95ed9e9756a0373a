// Package consistency cross-checks the documents of one letter of credit
// presentation: dates, amounts, parties, ports, required documents and the
// credit number.
package consistency

// Severity grades a failed check.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Document is one extracted document: field key to value. Values are usually
// strings; checkbox fields may also be booleans.
type Document map[string]any

// DocumentSet maps a document type (e.g. "letter_of_credit",
// "commercial_invoice") to its fields.
type DocumentSet map[string]Document

// Check is one rule outcome.
type Check struct {
	RuleID        string   `json:"rule_id"`
	RuleName      string   `json:"rule_name"`
	Severity      Severity `json:"severity"`
	Passed        bool     `json:"passed"`
	Message       string   `json:"message"`
	FieldKeys     []string `json:"field_keys"`
	DocumentTypes []string `json:"document_types,omitempty"`
	ExpectedValue string   `json:"expected_value,omitempty"`
	ActualValue   string   `json:"actual_value,omitempty"`
}

// Summary counts a check list. Warnings and Errors count failed checks only.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// Report is the validator output.
type Report struct {
	Checks  []Check `json:"checks"`
	Summary Summary `json:"summary"`
}

// Summarize counts checks.
func Summarize(checks []Check) Summary {
	s := Summary{Total: len(checks)}
	for _, c := range checks {
		switch {
		case c.Passed:
			s.Passed++
		case c.Severity == SeverityWarning:
			s.Warnings++
		case c.Severity == SeverityError:
			s.Errors++
		}
	}
	return s
}
