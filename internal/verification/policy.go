package verification

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	pstrings "tradeverify/pkg/platform/strings"
)

// Policy holds the phrase lists that turn research text into a verdict.
// Phrases match as lowercase substrings. The asymmetry is fixed: fraud is
// only flagged when no legitimacy phrase is present, and a sanctions hit
// only counts when no clearing phrase is present.
type Policy struct {
	Fraud          []string `yaml:"fraud"`
	Legitimacy     []string `yaml:"legitimacy"`
	SanctionsHit   []string `yaml:"sanctions_hit"`
	SanctionsClear []string `yaml:"sanctions_clear"`
}

// DefaultPolicy returns the built-in phrase lists.
func DefaultPolicy() Policy {
	return Policy{
		Fraud: []string{
			"convicted of fraud", "charged with fraud", "regulatory action against",
			"fined for", "shut down", "revoked license", "ponzi scheme",
			"criminal charges", "money laundering conviction", "blacklisted",
			"is fraudulent", "is a scam", "not a legitimate",
		},
		Legitimacy: []string{
			"legitimate", "registered", "established", "incorporated",
			"official website", "operates in", "headquartered",
			"no fraud", "no evidence of fraud", "reputable",
		},
		SanctionsHit: []string{
			"sanctioned", "designated", "listed on", "sdn list", "blocked", "restricted",
		},
		SanctionsClear: []string{
			"no sanctions", "not listed", "not found on", "no matches", "not sanctioned",
			"no indication", "does not appear", "no evidence", "not on any",
		},
	}
}

// LoadPolicy reads a YAML policy file. Lists missing from the file keep
// their defaults; an empty path returns DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}
	var file Policy
	if err := yaml.Unmarshal(b, &file); err != nil {
		return Policy{}, fmt.Errorf("parse policy %s: %w", path, err)
	}
	override(&p.Fraud, file.Fraud)
	override(&p.Legitimacy, file.Legitimacy)
	override(&p.SanctionsHit, file.SanctionsHit)
	override(&p.SanctionsClear, file.SanctionsClear)
	return p, nil
}

func override(dst *[]string, src []string) {
	if cleaned := pstrings.DedupeAndTrimLower(src); len(cleaned) > 0 {
		*dst = cleaned
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// FraudFlagged reports specific fraud evidence without any legitimacy signal.
func (p Policy) FraudFlagged(text string) bool {
	t := strings.ToLower(text)
	return containsAny(t, p.Fraud) && !containsAny(t, p.Legitimacy)
}

// SanctionsFlagged reports a listing phrase without any clearing phrase.
func (p Policy) SanctionsFlagged(text string) bool {
	t := strings.ToLower(text)
	return containsAny(t, p.SanctionsHit) && !containsAny(t, p.SanctionsClear)
}
