package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "tradeverify/internal/jwt_token"
	"tradeverify/internal/ratelimit"
	rlstore "tradeverify/internal/ratelimit/store"
	"tradeverify/internal/sources"
	"tradeverify/pkg/platform/circuit"
	"tradeverify/pkg/platform/middleware/admin"
	"tradeverify/pkg/platform/middleware/requestid"
	"tradeverify/pkg/requestcontext"
)

type stubRoutes struct {
	path string
	seen string
}

func (s *stubRoutes) Register(r chi.Router) {
	r.Post(s.path, func(w http.ResponseWriter, r *http.Request) {
		s.seen = requestcontext.Subject(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

type stubProvider struct{ id string }

func (p stubProvider) ID() string { return p.id }

func (p stubProvider) Query(context.Context, string, sources.Options) (*sources.Response, error) {
	return &sources.Response{Source: p.id}, nil
}

func newDeps() (Deps, *stubRoutes, *stubRoutes) {
	verify := &stubRoutes{path: "/v1/verify"}
	validate := &stubRoutes{path: "/v1/validate"}
	return Deps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Verify:   verify,
		Validate: validate,
	}, verify, validate
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestProbes(t *testing.T) {
	deps, _, _ := newDeps()
	ready := false
	deps.Ready = func() bool { return ready }
	router := NewRouter(deps)

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(requestid.Header))

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	ready = true
	rr = serve(router, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	deps, _, _ := newDeps()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestid.Header, "lc-4711")

	rr := serve(NewRouter(deps), req)
	assert.Equal(t, "lc-4711", rr.Header().Get(requestid.Header))
}

func TestRoutesWithoutAuth(t *testing.T) {
	deps, verify, _ := newDeps()
	rr := serve(NewRouter(deps), httptest.NewRequest(http.MethodPost, "/v1/verify", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, verify.seen)
}

func TestRoutesWithAuth(t *testing.T) {
	tokens := jwttoken.NewJWTService("secret", "tradeverify", "tradeverify-api")
	deps, verify, _ := newDeps()
	deps.Tokens = jwttoken.NewJWTServiceAdapter(tokens)
	deps.VerifyScope = jwttoken.ScopeVerify
	deps.ValidateScope = jwttoken.ScopeValidate
	router := NewRouter(deps)

	verifyOnly, err := tokens.IssueToken("lc-workflow", []string{jwttoken.ScopeVerify}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"missing token", "/v1/verify", "", http.StatusUnauthorized},
		{"garbage token", "/v1/verify", "not-a-jwt", http.StatusUnauthorized},
		{"scope granted", "/v1/verify", verifyOnly, http.StatusNoContent},
		{"scope missing", "/v1/validate", verifyOnly, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := serve(router, req)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
	assert.Equal(t, "lc-workflow", verify.seen)
}

func TestAdminRoutes(t *testing.T) {
	registry := sources.NewRegistry()
	breaker := circuit.New("geoapify", circuit.WithFailureThreshold(1))
	guard := sources.NewGuard(stubProvider{id: "geoapify"}, sources.WithBreaker(breaker))
	require.NoError(t, registry.Register(sources.RoleGeocoding, guard))
	require.NoError(t, registry.Register(sources.RoleResearch, stubProvider{id: "perplexity"}))

	deps, _, _ := newDeps()
	deps.AdminToken = "ops"
	deps.Sources = registry
	router := NewRouter(deps)

	adminReq := func(method, path string) *http.Request {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set(admin.Header, "ops")
		return req
	}

	t.Run("rejects missing token", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/admin/sources", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("lists sources with circuit state", func(t *testing.T) {
		breaker.RecordFailure()
		rr := serve(router, adminReq(http.MethodGet, "/admin/sources"))
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Sources []sourceStatus `json:"sources"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, []sourceStatus{
			{Role: "geocoding", Source: "geoapify", Circuit: "open"},
			{Role: "research", Source: "perplexity"},
		}, body.Sources)
	})

	t.Run("resets a breaker", func(t *testing.T) {
		rr := serve(router, adminReq(http.MethodPost, "/admin/sources/geocoding/reset"))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, breaker.IsOpen())
	})

	t.Run("unknown role", func(t *testing.T) {
		rr := serve(router, adminReq(http.MethodPost, "/admin/sources/telex/reset"))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("source without breaker", func(t *testing.T) {
		rr := serve(router, adminReq(http.MethodPost, "/admin/sources/research/reset"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	deps, _, _ := newDeps()
	rr := serve(NewRouter(deps), httptest.NewRequest(http.MethodGet, "/admin/sources", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRateLimitAppliesToV1Only(t *testing.T) {
	deps, _, _ := newDeps()
	deps.RateLimit = ratelimit.New(rlstore.NewInMemoryStore(), 1, time.Minute, deps.Logger).Handler
	router := NewRouter(deps)

	rr := serve(router, httptest.NewRequest(http.MethodPost, "/v1/verify", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Limit"))

	rr = serve(router, httptest.NewRequest(http.MethodPost, "/v1/validate", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code, "both groups share the caller bucket")

	for range 3 {
		rr = serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}
