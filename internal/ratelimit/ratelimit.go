// Package ratelimit throttles callers of the public API with a sliding
// window per caller key.
package ratelimit

import (
	"context"
	"strings"
	"time"
)

// Result is the outcome of one check.
type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// Store counts requests per key. Implementations must be safe for
// concurrent use.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// SanitizeKeySegment escapes the key delimiter so a caller-controlled
// identifier cannot spill into an adjacent bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// Key builds the bucket key for a caller. Authenticated callers are keyed by
// token subject, anonymous ones by client IP.
func Key(subject, ip string) string {
	if subject != "" {
		return "sub:" + SanitizeKeySegment(subject)
	}
	return "ip:" + SanitizeKeySegment(ip)
}
