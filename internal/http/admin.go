package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tradeverify/internal/sources"
	dErrors "tradeverify/pkg/domain-errors"
	"tradeverify/pkg/platform/circuit"
	"tradeverify/pkg/platform/httputil"
	"tradeverify/pkg/requestcontext"
)

// breakered is implemented by *sources.Guard.
type breakered interface {
	Breaker() *circuit.Breaker
}

type sourceStatus struct {
	Role    string `json:"role"`
	Source  string `json:"source"`
	Circuit string `json:"circuit,omitempty"`
}

type sourcesAdmin struct {
	registry *sources.Registry
	logger   *slog.Logger
}

func (a *sourcesAdmin) list(w http.ResponseWriter, _ *http.Request) {
	out := []sourceStatus{}
	for _, role := range a.registry.Roles() {
		p, _ := a.registry.Get(role)
		st := sourceStatus{Role: string(role), Source: p.ID()}
		if b, ok := p.(breakered); ok && b.Breaker() != nil {
			st.Circuit = string(b.Breaker().State())
		}
		out = append(out, st)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"sources": out})
}

func (a *sourcesAdmin) reset(w http.ResponseWriter, r *http.Request) {
	role := sources.Role(chi.URLParam(r, "role"))
	p, ok := a.registry.Get(role)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no source registered for role '"+string(role)+"'"))
		return
	}
	b, ok := p.(breakered)
	if !ok || b.Breaker() == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "source has no circuit breaker"))
		return
	}
	b.Breaker().Reset()
	a.logger.InfoContext(r.Context(), "source circuit reset",
		"role", role,
		"source", p.ID(),
		"request_id", requestcontext.RequestID(r.Context()),
	)
	httputil.WriteJSON(w, http.StatusOK, sourceStatus{Role: string(role), Source: p.ID(), Circuit: string(circuit.StateClosed)})
}
