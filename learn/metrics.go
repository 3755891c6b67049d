// File: metrics.go
// Role: Metrics — optional, nil-safe Prometheus instrumentation for a
//       long-running training loop.

package learn

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes a small set of counters and a histogram for
// observability. A nil *Metrics is valid everywhere the package calls
// it, so unit tests and one-off scripts don't need a registry.
type Metrics struct {
	generations      prometheus.Counter
	rootsDecimated   prometheus.Counter
	mutationsApplied prometheus.Counter
	evalDuration     prometheus.Histogram
}

// NewMetrics registers and returns a Metrics bound to reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		generations: factory.NewCounter(prometheus.CounterOpts{
			Name: "tpglearn_generations_total",
			Help: "Total number of completed training generations.",
		}),
		rootsDecimated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tpglearn_roots_decimated_total",
			Help: "Total number of root teams removed by decimation.",
		}),
		mutationsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "tpglearn_mutations_applied_total",
			Help: "Total number of programs accepted by populateTPG.",
		}),
		evalDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tpglearn_generation_evaluation_seconds",
			Help:    "Wall-clock duration of one complete training generation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observeGeneration(d time.Duration) {
	if m == nil {
		return
	}
	m.generations.Inc()
	m.evalDuration.Observe(d.Seconds())
}

func (m *Metrics) observeDecimated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rootsDecimated.Add(float64(n))
}

func (m *Metrics) observeMutations(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.mutationsApplied.Add(float64(n))
}
