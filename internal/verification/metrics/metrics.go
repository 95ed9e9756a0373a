package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for field verification.
type Metrics struct {
	// Stage latency by kind and stage
	StageLatency *prometheus.HistogramVec

	// Final verdicts by kind, source and verified flag
	Outcomes *prometheus.CounterVec

	// Guarded source calls by source and outcome (ok or error category)
	SourceCalls   *prometheus.CounterVec
	SourceLatency *prometheus.HistogramVec

	// Result cache lookups by result (hit, miss, error)
	CacheLookups *prometheus.CounterVec

	// Batch sizes
	BatchSize prometheus.Histogram
}

// New creates a new Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tradeverify_verification_stage_duration_seconds",
			Help:    "Duration of cascade stages by kind and stage",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"kind", "stage"}),

		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeverify_verification_outcomes_total",
			Help: "Verification verdicts by kind, source and verified flag",
		}, []string{"kind", "source", "verified"}),

		SourceCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeverify_source_calls_total",
			Help: "Outbound source calls by source and outcome",
		}, []string{"source", "outcome"}),

		SourceLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tradeverify_source_call_duration_seconds",
			Help:    "Outbound source call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"source"}),

		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeverify_verification_cache_lookups_total",
			Help: "Verification result cache lookups by result",
		}, []string{"result"}),

		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tradeverify_verification_batch_size",
			Help:    "Number of requests per batch verification",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
	}
}

func (m *Metrics) ObserveStage(kind, stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(kind, stage).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementOutcome(kind, source string, verified bool) {
	if m != nil {
		m.Outcomes.WithLabelValues(kind, source, strconv.FormatBool(verified)).Inc()
	}
}

// ObserveSourceCall satisfies sources.Observer.
func (m *Metrics) ObserveSourceCall(source, outcome string, seconds float64) {
	if m != nil {
		m.SourceCalls.WithLabelValues(source, outcome).Inc()
		m.SourceLatency.WithLabelValues(source).Observe(seconds)
	}
}

func (m *Metrics) IncrementCache(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
