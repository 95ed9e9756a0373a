package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tradeverify/pkg/platform/httputil"
	"tradeverify/pkg/requestcontext"
)

// Metrics counts rejected requests.
type Metrics struct {
	Rejected prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tradeverify_ratelimit_rejected_total",
			Help: "Requests rejected by the API rate limiter",
		}),
	}
}

func (m *Metrics) incRejected() {
	if m == nil {
		return
	}
	m.Rejected.Inc()
}

// Middleware applies one limit to every request it wraps.
type Middleware struct {
	store   Store
	limit   int
	window  time.Duration
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Middleware)

func WithMetrics(m *Metrics) Option {
	return func(mw *Middleware) { mw.metrics = m }
}

// New limits each caller to limit requests per window.
func New(store Store, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{store: store, limit: limit, window: window, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type exceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// Handler enforces the limit. It must run after the client metadata and auth
// middleware so the caller key is known. Store failures let the request
// through.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := Key(requestcontext.Subject(ctx), requestcontext.ClientIP(ctx))

		res, err := m.store.Allow(ctx, key, m.limit, m.window)
		if err != nil {
			m.logger.ErrorContext(ctx, "rate limit check failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			m.metrics.incRejected()
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"key", key,
				"request_id", requestcontext.RequestID(ctx),
			)
			w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfter))
			httputil.WriteJSON(w, http.StatusTooManyRequests, exceededResponse{
				Error:      "rate_limit_exceeded",
				Message:    "Too many requests. Please try again later.",
				RetryAfter: res.RetryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
