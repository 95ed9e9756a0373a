package handler

import (
	"fmt"
	"strings"

	"tradeverify/internal/verification"
	dErrors "tradeverify/pkg/domain-errors"
)

const maxValueLength = 2000

// VerifyRequest is the body of POST /v1/verify and one item of a batch.
type VerifyRequest struct {
	Kind    string            `json:"kind"`
	Value   string            `json:"value"`
	Context map[string]string `json:"context,omitempty"`

	parsedKind verification.Kind
}

// Validate implements httputil.Validatable. Short or malformed values are
// not rejected here; the cascade reports them as unverified results.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Value) > maxValueLength {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("value must be at most %d characters", maxValueLength))
	}
	if strings.TrimSpace(r.Kind) == "" {
		return dErrors.New(dErrors.CodeValidation, "kind is required")
	}
	kind, err := verification.ParseKind(r.Kind)
	if err != nil {
		return err
	}
	r.parsedKind = kind
	return nil
}

func (r *VerifyRequest) toDomain() verification.Request {
	return verification.Request{Kind: r.parsedKind, Value: r.Value, Context: r.Context}
}

// BatchRequest is the body of POST /v1/verify/batch.
type BatchRequest struct {
	Requests []VerifyRequest `json:"requests"`
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Requests) == 0 {
		return dErrors.New(dErrors.CodeValidation, "requests must not be empty")
	}
	for i := range r.Requests {
		if err := r.Requests[i].Validate(); err != nil {
			msg := err.Error()
			if de, ok := dErrors.As(err); ok {
				msg = de.Message
			}
			return dErrors.New(dErrors.CodeOf(err), fmt.Sprintf("requests[%d]: %s", i, msg))
		}
	}
	return nil
}

func (r *BatchRequest) toDomain() []verification.Request {
	out := make([]verification.Request, len(r.Requests))
	for i := range r.Requests {
		out[i] = r.Requests[i].toDomain()
	}
	return out
}
