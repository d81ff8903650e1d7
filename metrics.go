package octaindex

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "octaindex"

// batchMetrics instruments Engine batch operations. Collectors are
// registered on the configured registerer, or left unregistered when it
// is nil.
type batchMetrics struct {
	elements *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newBatchMetrics(reg prometheus.Registerer) *batchMetrics {
	factory := promauto.With(reg)
	return &batchMetrics{
		elements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "batch",
			Name:      "elements_total",
			Help:      "Elements processed by batch operations.",
		}, []string{"op", "strategy"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "batch",
			Name:      "failures_total",
			Help:      "Elements rejected by batch operations.",
		}, []string{"op"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Wall time of batch operations.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op"}),
	}
}

func (m *batchMetrics) observe(op string, s strategy, n, failed int, start time.Time) {
	m.elements.WithLabelValues(op, s.String()).Add(float64(n))
	if failed > 0 {
		m.failures.WithLabelValues(op).Add(float64(failed))
	}
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
