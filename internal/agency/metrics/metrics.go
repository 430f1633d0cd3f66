// Package metrics provides Prometheus metrics for the agency aggregation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the aggregation pipeline metrics.
type Metrics struct {
	// Upstream fetches
	FetchDurationSeconds *prometheus.HistogramVec // by source
	FetchOutcomesTotal   *prometheus.CounterVec   // by source and outcome (ok, absent, failed)
	FetchRetriesTotal    *prometheus.CounterVec   // by source

	// Enrichment
	EnrichmentPlaceholdersTotal *prometheus.CounterVec // by kind (booking, review, inquiry)
	BreakerOpensTotal           *prometheus.CounterVec // by breaker

	DegradedSnapshotsTotal  prometheus.Counter
	AnswerFlagMismatchTotal prometheus.Counter
}

// New creates the metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tripmatch_upstream_fetch_duration_seconds",
			Help:    "Duration of upstream API calls by source, retries included",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),

		FetchOutcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tripmatch_upstream_fetch_outcomes_total",
			Help: "Upstream call outcomes by source",
		}, []string{"source", "outcome"}),

		FetchRetriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tripmatch_upstream_fetch_retries_total",
			Help: "Retries of transient upstream failures by source",
		}, []string{"source"}),

		EnrichmentPlaceholdersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tripmatch_enrichment_placeholders_total",
			Help: "Records enriched with placeholder user details after a lookup failure",
		}, []string{"kind"}),

		BreakerOpensTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tripmatch_circuit_breaker_opens_total",
			Help: "Circuit breaker transitions to open by breaker",
		}, []string{"breaker"}),

		DegradedSnapshotsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripmatch_dashboard_degraded_total",
			Help: "Dashboard snapshots served degraded after a hard upstream failure",
		}),

		AnswerFlagMismatchTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripmatch_inquiry_answer_flag_mismatch_total",
			Help: "Inquiries whose stored isAnswered flag disagrees with response presence",
		}),
	}
}

// ObserveFetch records one finished upstream call.
func (m *Metrics) ObserveFetch(source, outcome string, durationSeconds float64) {
	m.FetchDurationSeconds.WithLabelValues(source).Observe(durationSeconds)
	m.FetchOutcomesTotal.WithLabelValues(source, outcome).Inc()
}

// IncRetry records a retry of source.
func (m *Metrics) IncRetry(source string) {
	m.FetchRetriesTotal.WithLabelValues(source).Inc()
}

// IncPlaceholder records a placeholder substitution for kind.
func (m *Metrics) IncPlaceholder(kind string) {
	m.EnrichmentPlaceholdersTotal.WithLabelValues(kind).Inc()
}

// IncBreakerOpen records that the named breaker opened.
func (m *Metrics) IncBreakerOpen(name string) {
	m.BreakerOpensTotal.WithLabelValues(name).Inc()
}

// IncDegraded records a degraded snapshot.
func (m *Metrics) IncDegraded() {
	m.DegradedSnapshotsTotal.Inc()
}

// AddAnswerFlagMismatches records n diverging legacy answer flags.
func (m *Metrics) AddAnswerFlagMismatches(n int) {
	if n > 0 {
		m.AnswerFlagMismatchTotal.Add(float64(n))
	}
}
