package migrate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/ontomig/internal/update"
)

// Metrics holds Prometheus metrics for applied statements.
// A nil *Metrics records nothing.
type Metrics struct {
	applied  *prometheus.CounterVec   // Statements applied by kind
	failed   *prometheus.CounterVec   // Statements rejected by kind
	duration *prometheus.HistogramVec // Store round trip by kind
}

// NewMetrics creates apply metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ontomig",
			Subsystem: "apply",
			Name:      "statements_total",
			Help:      "Total number of update statements applied",
		}, []string{"kind"}),

		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ontomig",
			Subsystem: "apply",
			Name:      "failures_total",
			Help:      "Total number of update statements the store rejected",
		}, []string{"kind"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ontomig",
			Subsystem: "apply",
			Name:      "statement_duration_seconds",
			Help:      "Time spent applying one update statement",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.applied, m.failed, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(kind update.Kind, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	if err != nil {
		m.failed.WithLabelValues(string(kind)).Inc()
		return
	}
	m.applied.WithLabelValues(string(kind)).Inc()
}
