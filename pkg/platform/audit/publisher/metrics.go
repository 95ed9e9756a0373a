package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit publishing.
type Metrics struct {
	Emitted      *prometheus.CounterVec
	Dropped      prometheus.Counter
	SinkFailures prometheus.Counter
	Buffered     prometheus.Gauge
}

// NewMetrics creates a Metrics instance with audit metrics registered.
func NewMetrics() *Metrics {
	return &Metrics{
		Emitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeverify_audit_events_emitted_total",
			Help: "Audit events accepted by the publisher, by category",
		}, []string{"category"}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tradeverify_audit_events_dropped_total",
			Help: "Audit events dropped because the async buffer was full",
		}),
		SinkFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tradeverify_audit_sink_failures_total",
			Help: "Audit events the sink failed to persist",
		}),
		Buffered: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tradeverify_audit_events_buffered",
			Help: "Audit events waiting in the async buffer",
		}),
	}
}

func (m *Metrics) incEmitted(category string) {
	if m != nil {
		m.Emitted.WithLabelValues(category).Inc()
	}
}

func (m *Metrics) incDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) incSinkFailures() {
	if m != nil {
		m.SinkFailures.Inc()
	}
}

func (m *Metrics) setBuffered(n int) {
	if m != nil {
		m.Buffered.Set(float64(n))
	}
}
