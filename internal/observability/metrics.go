// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scholarfinder"

// Outcome labels for export counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the counters recorded by exports and the shortlist store.
type Metrics struct {
	// Exports counts export attempts, labeled by format and outcome.
	Exports *prometheus.CounterVec

	// ReviewersExported counts reviewer rows written, labeled by format.
	ReviewersExported *prometheus.CounterVec

	// ShortlistsSaved counts shortlists written to the store.
	ShortlistsSaved prometheus.Counter
}

// NewMetrics registers all metrics with reg. Pass prometheus.NewRegistry()
// in tests to avoid duplicate registration on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of reviewer exports by format and outcome",
		}, []string{"format", "outcome"}),
		ReviewersExported: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviewers_exported_total",
			Help:      "Total number of reviewer records written to export files",
		}, []string{"format"}),
		ShortlistsSaved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shortlists_saved_total",
			Help:      "Total number of shortlists saved to the local store",
		}),
	}
}

// RecordExport increments the export counters. A nil receiver is a no-op.
func (m *Metrics) RecordExport(format string, reviewers int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Exports.WithLabelValues(format, OutcomeFailure).Inc()
		return
	}
	m.Exports.WithLabelValues(format, OutcomeSuccess).Inc()
	m.ReviewersExported.WithLabelValues(format).Add(float64(reviewers))
}

// RecordShortlistSaved increments the shortlist counter. A nil receiver is a no-op.
func (m *Metrics) RecordShortlistSaved() {
	if m == nil {
		return
	}
	m.ShortlistsSaved.Inc()
}
