package mcp

import (
	"context"

	"tradeverify/internal/consistency"
	"tradeverify/internal/sources"
	"tradeverify/internal/verification"
)

// DocumentValidator is satisfied by *consistency.Validator.
type DocumentValidator interface {
	Validate(ctx context.Context, docs consistency.DocumentSet) consistency.Report
}

// Ports aggregates what the MCP server drives.
type Ports struct {
	// Verifier runs field verification, usually the decorated chain.
	Verifier verification.Verifier

	// Validator cross-checks document sets.
	Validator DocumentValidator

	// Sources lists the configured source roles. Optional.
	Sources *sources.Registry
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Verifier == nil {
		return ErrMissingVerifier
	}
	if p.Validator == nil {
		return ErrMissingValidator
	}
	return nil
}
