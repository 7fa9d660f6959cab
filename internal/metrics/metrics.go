package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector of the service. Collectors are registered on
// the registerer given to New so tests can use an isolated registry.
type Metrics struct {
	StatementsNormalized  *prometheus.CounterVec
	OverrideDecisions     *prometheus.CounterVec
	DQAnomalies           *prometheus.CounterVec
	ReconciliationResults *prometheus.CounterVec
	RateLimited           prometheus.Counter
	SweepDuration         prometheus.Histogram
	SweepCursor           prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StatementsNormalized: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerline_statements_normalized_total",
			Help: "Total number of statements normalized and persisted, labelled by statement type.",
		}, []string{"statement_type"}),

		OverrideDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerline_override_decisions_total",
			Help: "Total number of override decisions applied during normalization, labelled by kind.",
		}, []string{"kind"}),

		DQAnomalies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerline_dq_anomalies_total",
			Help: "Total number of data-quality anomalies recorded, labelled by rule code.",
		}, []string{"rule_code"}),

		ReconciliationResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerline_reconciliation_results_total",
			Help: "Total number of reconciliation results appended, labelled by category and status.",
		}, []string{"category", "status"}),

		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "ledgerline_requests_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter.",
		}),

		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerline_sweep_duration_seconds",
			Help:    "Duration of one reconciliation sweep cycle in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		SweepCursor: f.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerline_sweep_cursor",
			Help: "Last ingest sequence committed by the reconciliation sweep.",
		}),
	}
}

// Discard returns collectors bound to a throwaway registry.
func Discard() *Metrics {
	return New(prometheus.NewRegistry())
}
