package sources

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCategory is the normalized failure taxonomy for source calls.
type ErrorCategory string

const (
	// ErrorTimeout indicates the source took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the source returned a body we could not decode
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates a rejected or missing API key
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorProviderOutage indicates the source is down or its breaker is open
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorNotFound indicates the source answered but had nothing
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorUnsupported indicates the source cannot serve this query in its
	// current configuration (e.g. bank-name search without a premium plan)
	ErrorUnsupported ErrorCategory = "unsupported"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps source failures with a normalized category.
type ProviderError struct {
	Category   ErrorCategory
	ProviderID string
	Message    string
	Underlying error
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("source %s [%s]: %s: %v", e.ProviderID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("source %s [%s]: %s", e.ProviderID, e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

func NewProviderError(category ErrorCategory, providerID, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
	}
}

// GetCategory extracts the category from err. Uncategorized context
// deadlines become ErrorTimeout; everything else is ErrorInternal.
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	return ErrorInternal
}

// CountsAsFailure reports whether a category says something about the
// source's health. Empty answers and unsupported queries do not.
func CountsAsFailure(category ErrorCategory) bool {
	switch category {
	case ErrorNotFound, ErrorUnsupported:
		return false
	default:
		return true
	}
}

// CategoryForStatus maps an HTTP status from a source API to a category.
func CategoryForStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorAuthentication
	case status == http.StatusNotFound:
		return ErrorNotFound
	case status == http.StatusTooManyRequests:
		return ErrorRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrorTimeout
	case status >= 500:
		return ErrorProviderOutage
	default:
		return ErrorBadData
	}
}

// CategoryForTransport classifies an error from http.Client.Do.
func CategoryForTransport(err error) ErrorCategory {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrorTimeout
	}
	return ErrorProviderOutage
}
