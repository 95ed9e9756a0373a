// Package mcp exposes the verification tools and the document validator to
// MCP clients.
package mcp

import "errors"

var (
	// ErrMissingVerifier is returned when the verifier is not provided.
	ErrMissingVerifier = errors.New("mcp: verifier is required")
	// ErrMissingValidator is returned when the document validator is not provided.
	ErrMissingValidator = errors.New("mcp: validator is required")
)
