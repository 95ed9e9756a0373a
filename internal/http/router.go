// Package httpapi assembles the public HTTP surface: middleware, probes,
// metrics and the verification and validation routes.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tradeverify/internal/platform/metrics"
	"tradeverify/internal/sources"
	"tradeverify/pkg/platform/httputil"
	"tradeverify/pkg/platform/middleware/admin"
	"tradeverify/pkg/platform/middleware/auth"
	"tradeverify/pkg/platform/middleware/metadata"
	"tradeverify/pkg/platform/middleware/requestid"
	"tradeverify/pkg/platform/middleware/requesttime"
)

// Registrar mounts a group of routes. Both domain handlers satisfy it.
type Registrar interface {
	Register(r chi.Router)
}

// Deps are the router inputs. Only Logger and the route groups are required.
type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Verify   Registrar
	Validate Registrar

	// Ready reports whether startup hooks have finished. Nil means always ready.
	Ready func() bool

	// Tokens enables bearer auth on /v1 when non-nil.
	Tokens auth.JWTValidator
	// Scopes required per route group when Tokens is set.
	VerifyScope   string
	ValidateScope string

	// RateLimit wraps the /v1 groups when non-nil. It runs after auth so
	// authenticated callers are keyed by subject.
	RateLimit func(http.Handler) http.Handler

	// AdminToken enables /admin when non-empty.
	AdminToken string
	Sources    *sources.Registry
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(chimw.Recoverer)
	r.Use(d.Metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if d.Ready != nil && !d.Ready() {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if d.Tokens != nil {
			r.Use(auth.RequireAuth(d.Tokens, d.VerifyScope, d.Logger))
		}
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		d.Verify.Register(r)
	})
	r.Group(func(r chi.Router) {
		if d.Tokens != nil {
			r.Use(auth.RequireAuth(d.Tokens, d.ValidateScope, d.Logger))
		}
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		d.Validate.Register(r)
	})

	if d.AdminToken != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(admin.RequireAdminToken(d.AdminToken, d.Logger))
			sa := &sourcesAdmin{registry: d.Sources, logger: d.Logger}
			r.Get("/sources", sa.list)
			r.Post("/sources/{role}/reset", sa.reset)
		})
	}

	return r
}
