// Package handler exposes document consistency validation over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tradeverify/internal/consistency"
	dErrors "tradeverify/pkg/domain-errors"
	"tradeverify/pkg/platform/httputil"
	"tradeverify/pkg/requestcontext"
)

const maxDocuments = 50

// Validator is satisfied by *consistency.Validator.
type Validator interface {
	Validate(ctx context.Context, docs consistency.DocumentSet) consistency.Report
}

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	Documents consistency.DocumentSet `json:"documents"`
}

func (r *ValidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Documents) == 0 {
		return dErrors.New(dErrors.CodeValidation, "documents must not be empty")
	}
	if len(r.Documents) > maxDocuments {
		return dErrors.New(dErrors.CodeValidation, "too many documents")
	}
	for name := range r.Documents {
		if strings.TrimSpace(name) == "" {
			return dErrors.New(dErrors.CodeValidation, "document type must not be blank")
		}
	}
	return nil
}

type Handler struct {
	validator Validator
	logger    *slog.Logger
}

func New(v Validator, logger *slog.Logger) *Handler {
	return &Handler{validator: v, logger: logger}
}

// Register mounts the validation endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/validate", h.HandleValidate)
}

// HandleValidate handles POST /v1/validate.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report := h.validator.Validate(ctx, req.Documents)

	h.logger.InfoContext(ctx, "documents validated",
		"request_id", requestID,
		"documents", len(req.Documents),
		"checks", report.Summary.Total,
		"errors", report.Summary.Errors,
	)
	httputil.WriteJSON(w, http.StatusOK, report)
}
