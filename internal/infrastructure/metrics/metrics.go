package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for loan origination.
// All methods are safe on a nil receiver so tests and tools can skip metrics entirely.
type Metrics struct {
	// Scores produced by the scoring engine, by risk band
	ScoreDistribution *prometheus.HistogramVec

	// Workflow transitions by from/to status and acting role
	Transitions *prometheus.CounterVec

	// Bureau round trip latency and outcomes
	BureauLatency  prometheus.Histogram
	BureauOutcomes *prometheus.CounterVec

	// Stale credit checks closed by the sweeper
	StaleChecksFailed prometheus.Counter
}

// New registers the metrics on the default Prometheus registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScoreDistribution: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loan_credit_score",
			Help:    "Credit scores computed by the scoring engine",
			Buckets: []float64{300, 400, 500, 550, 600, 650, 700, 750, 800, 850, 900},
		}, []string{"risk_band"}),

		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_application_transitions_total",
			Help: "Application status transitions by from, to and actor role",
		}, []string{"from", "to", "role"}),

		BureauLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "loan_bureau_request_duration_seconds",
			Help:    "Duration of credit bureau requests",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		BureauOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_bureau_requests_total",
			Help: "Credit bureau requests by outcome",
		}, []string{"outcome"}), // outcome: "completed", "failed", "invalid"

		StaleChecksFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "loan_stale_credit_checks_failed_total",
			Help: "Pending credit checks failed by the stale sweeper",
		}),
	}
}

// ObserveScore records a computed score.
func (m *Metrics) ObserveScore(band string, score int) {
	if m != nil {
		m.ScoreDistribution.WithLabelValues(band).Observe(float64(score))
	}
}

// IncrementTransition records a committed status change.
func (m *Metrics) IncrementTransition(from, to, role string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to, role).Inc()
	}
}

// ObserveBureau records one bureau round trip.
func (m *Metrics) ObserveBureau(outcome string, d time.Duration) {
	if m != nil {
		m.BureauLatency.Observe(d.Seconds())
		m.BureauOutcomes.WithLabelValues(outcome).Inc()
	}
}

// AddStaleChecksFailed records checks closed by the sweeper.
func (m *Metrics) AddStaleChecksFailed(n int64) {
	if m != nil && n > 0 {
		m.StaleChecksFailed.Add(float64(n))
	}
}
