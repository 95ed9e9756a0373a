package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Cache stores, source guards and the
// gazetteer loader return these (optionally wrapped) so services can translate
// them into domain errors or cascade outcomes.
//
//   - ErrNotFound: key absent or expired in a store
//   - ErrUnavailable: dependency temporarily unavailable (open breaker, closed client)
//   - ErrNotConfigured: optional dependency has no configuration (no API key, no dataset)
//   - ErrInvalidState: component used before it was started or after it was closed
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnavailable   = errors.New("unavailable")
	ErrNotConfigured = errors.New("not configured")
	ErrInvalidState  = errors.New("invalid state")
)
