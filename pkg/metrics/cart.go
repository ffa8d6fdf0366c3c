package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// CartMetrics counts cart mutations and times store round-trips.
type CartMetrics struct {
	mutations     *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "cart",
		Name:      "mutations_total",
		Help:      "Cart mutations partitioned by operation and outcome.",
	}, []string{"op", "outcome"})
	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "cart",
		Name:      "store_duration_seconds",
		Help:      "Latency of cart store operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "op"})
	reg.MustRegister(mutations, storeDuration)
	return &CartMetrics{
		mutations:     mutations,
		storeDuration: storeDuration,
	}
}

// IncMutation records one mutation attempt.
func (c *CartMetrics) IncMutation(op string, err error) {
	if c == nil || c.mutations == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	c.mutations.WithLabelValues(normalizeLabel(op), outcome).Inc()
}

// ObserveStore records how long a store call took.
func (c *CartMetrics) ObserveStore(backend, op string, duration time.Duration) {
	if c == nil || c.storeDuration == nil {
		return
	}
	c.storeDuration.WithLabelValues(normalizeLabel(backend), normalizeLabel(op)).Observe(duration.Seconds())
}
