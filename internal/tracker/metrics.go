package tracker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const resultOK = "ok"

// Metrics counts mutations by operation and outcome.
type Metrics struct {
	Mutations *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
}

// NewMetrics creates the mutation collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_mutations_total",
				Help: "Total number of application mutations by operation and result",
			},
			[]string{"op", "result"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tracker_mutation_duration_seconds",
				Help:    "Duration of application mutations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}

// start returns a func that records the outcome of op when called.
func (m *Metrics) start(op string) func(result string) {
	begin := time.Now()
	return func(result string) {
		m.Mutations.WithLabelValues(op, result).Inc()
		m.Duration.WithLabelValues(op).Observe(time.Since(begin).Seconds())
	}
}
