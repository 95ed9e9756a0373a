package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for document consistency validation.
type Metrics struct {
	// Rule outcomes by rule and passed flag
	Checks *prometheus.CounterVec

	// Documents per validation request
	DocumentsPerRequest prometheus.Histogram
}

// New creates a new Metrics instance with all consistency metrics registered.
func New() *Metrics {
	return &Metrics{
		Checks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeverify_consistency_checks_total",
			Help: "Consistency rule outcomes by rule and result",
		}, []string{"rule", "passed"}),

		DocumentsPerRequest: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tradeverify_consistency_documents",
			Help:    "Number of documents per validation request",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		}),
	}
}

func (m *Metrics) IncrementCheck(rule string, passed bool) {
	if m != nil {
		m.Checks.WithLabelValues(rule, strconv.FormatBool(passed)).Inc()
	}
}

func (m *Metrics) ObserveDocuments(n int) {
	if m != nil {
		m.DocumentsPerRequest.Observe(float64(n))
	}
}
