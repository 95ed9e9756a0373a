// Package handler exposes field verification over HTTP.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tradeverify/internal/verification"
	dErrors "tradeverify/pkg/domain-errors"
	"tradeverify/pkg/platform/httputil"
	"tradeverify/pkg/requestcontext"
)

// BatchRunner is satisfied by *verification.Batch.
type BatchRunner interface {
	Run(ctx context.Context, reqs []verification.Request) verification.BatchResult
}

// Handler wires verification endpoints to the verifier chain.
type Handler struct {
	verifier      verification.Verifier
	batch         BatchRunner
	maxBatchItems int
	logger        *slog.Logger
}

func New(v verification.Verifier, batch BatchRunner, maxBatchItems int, logger *slog.Logger) *Handler {
	return &Handler{verifier: v, batch: batch, maxBatchItems: maxBatchItems, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/verify", h.HandleVerify)
	r.Post("/v1/verify/batch", h.HandleBatch)
}

// HandleVerify handles POST /v1/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.verifier.Verify(ctx, req.toDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed",
			"request_id", requestID,
			"kind", req.Kind,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "field verified",
		"request_id", requestID,
		"kind", res.Kind,
		"verified", res.Verified,
		"source", res.Source,
		"duration_ms", res.DurationMs,
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleBatch handles POST /v1/verify/batch.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if h.maxBatchItems > 0 && len(req.Requests) > h.maxBatchItems {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("at most %d requests per batch", h.maxBatchItems)))
		return
	}

	out := h.batch.Run(ctx, req.toDomain())

	h.logger.InfoContext(ctx, "batch verified",
		"request_id", requestID,
		"items", len(out.Results),
		"errors", len(out.Errors),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, out)
}
