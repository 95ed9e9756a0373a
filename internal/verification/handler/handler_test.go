package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeverify/internal/verification"
	"tradeverify/pkg/requestcontext"
	"tradeverify/pkg/testutil"
)

func newRouter(t *testing.T, v verification.Verifier, maxItems int) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(v, verification.NewBatch(v, 4, logger, nil), maxItems, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func echoVerifier() verification.Verifier {
	return verification.VerifierFunc(func(_ context.Context, req verification.Request) (verification.Result, error) {
		return verification.Result{
			Kind:       req.Kind,
			Verified:   true,
			Confidence: 0.95,
			Message:    req.Value + "|" + req.Context["country"],
			Source:     "api_ninjas",
		}, nil
	})
}

func post(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, path, body))
}

func TestHandleVerify(t *testing.T) {
	router := newRouter(t, echoVerifier(), 10)

	rec := post(t, router, "/v1/verify", `{"kind":"COMPANY","value":"Acme SpA","context":{"country":"Italy"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res verification.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, verification.KindCompany, res.Kind)
	assert.Equal(t, "Acme SpA|Italy", res.Message)
	assert.True(t, res.Verified)
}

func TestHandleVerify_RejectsBadRequests(t *testing.T) {
	router := newRouter(t, echoVerifier(), 10)
	cases := []struct {
		name string
		body string
		code string
		want int
	}{
		{"empty body", "", "bad_request", http.StatusBadRequest},
		{"invalid json", "{", "bad_request", http.StatusBadRequest},
		{"missing kind", `{"value":"x"}`, "validation_error", http.StatusBadRequest},
		{"unknown kind", `{"kind":"iban","value":"x"}`, "validation_error", http.StatusBadRequest},
		{"oversized value", `{"kind":"company","value":"` + strings.Repeat("a", maxValueLength+1) + `"}`, "validation_error", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, router, "/v1/verify", tc.body)
			assert.Equal(t, tc.want, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.code, body["error"])
		})
	}
}

func TestHandleVerify_ShortValueIsAResultNotAnError(t *testing.T) {
	router := newRouter(t, verification.New(nil), 10)

	rec := post(t, router, "/v1/verify", `{"kind":"company","value":"A"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res verification.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.False(t, res.Verified)
	assert.Equal(t, verification.SourceInputValidation, res.Source)
}

func TestHandleBatch(t *testing.T) {
	router := newRouter(t, echoVerifier(), 3)

	t.Run("results in request order", func(t *testing.T) {
		payload := map[string]any{"requests": []map[string]string{
			{"kind": "swift", "value": "BCITITMM"},
			{"kind": "port", "value": "Tripoli"},
		}}
		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/verify/batch", payload))
		require.Equal(t, http.StatusOK, rec.Code)

		out := testutil.UnmarshalResponse[verification.BatchResult](t, rec)
		require.Len(t, out.Results, 2)
		assert.Equal(t, verification.KindSwift, out.Results[0].Kind)
		assert.Equal(t, verification.KindPort, out.Results[1].Kind)
		assert.Empty(t, out.Errors)
	})

	t.Run("too many items", func(t *testing.T) {
		rec := post(t, router, "/v1/verify/batch",
			`{"requests":[{"kind":"swift","value":"a"},{"kind":"swift","value":"b"},{"kind":"swift","value":"c"},{"kind":"swift","value":"d"}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid item names its index", func(t *testing.T) {
		rec := post(t, router, "/v1/verify/batch", `{"requests":[{"kind":"swift","value":"a"},{"kind":"nope","value":"b"}]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Contains(t, body["error_description"], "requests[1]")
	})

	t.Run("empty batch", func(t *testing.T) {
		rec := post(t, router, "/v1/verify/batch", `{"requests":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleVerify_PassesRequestScope(t *testing.T) {
	pinned := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var subject, requestID string
	var now time.Time
	v := verification.VerifierFunc(func(ctx context.Context, req verification.Request) (verification.Result, error) {
		subject = requestcontext.Subject(ctx)
		requestID = requestcontext.RequestID(ctx)
		now = requestcontext.Now(ctx)
		return verification.Result{Kind: req.Kind}, nil
	})
	router := newRouter(t, v, 10)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/verify", `{"kind":"port","value":"Tripoli"}`)
	req = testutil.WithSubject(req, "lc-workflow")
	req = testutil.WithRequestID(req, "req-42")
	req = testutil.WithTime(req, pinned)

	rec := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lc-workflow", subject)
	assert.Equal(t, "req-42", requestID)
	assert.Equal(t, pinned, now)
}
