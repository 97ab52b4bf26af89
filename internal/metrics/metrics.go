// Package metrics exposes Prometheus instrumentation for review sessions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for document review. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// Selection outcomes by fallback rung: field, form, none, cleared
	SelectionOutcome *prometheus.CounterVec

	// Stale async results dropped by kind: load, render
	StaleDiscarded *prometheus.CounterVec

	// Provenance payloads rejected outright, and entries dropped within accepted payloads
	ProvenanceRejected prometheus.Counter
	ProvenanceDropped  *prometheus.CounterVec

	// Document loads by result, and their latency
	DocumentLoads       *prometheus.CounterVec
	DocumentLoadLatency prometheus.Histogram

	// Storage cache hits and misses
	CacheLookups *prometheus.CounterVec

	ActiveSessions prometheus.Gauge
}

// New registers all review metrics with reg. Pass prometheus.DefaultRegisterer
// in production and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SelectionOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "provlink_selection_outcomes_total",
			Help: "Field selections by resolution outcome",
		}, []string{"outcome"}),

		StaleDiscarded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "provlink_stale_results_discarded_total",
			Help: "Asynchronous results dropped because a newer request superseded them",
		}, []string{"kind"}),

		ProvenanceRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "provlink_provenance_rejected_total",
			Help: "Provenance payloads that could not be parsed at all",
		}),

		ProvenanceDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "provlink_provenance_entries_dropped_total",
			Help: "Invalid provenance entries dropped from otherwise valid payloads",
		}, []string{"level"}), // level: "form", "field"

		DocumentLoads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "provlink_document_loads_total",
			Help: "Document loads by result",
		}, []string{"result"}), // result: "ok", "error", "stale"

		DocumentLoadLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "provlink_document_load_duration_seconds",
			Help:    "Duration of document fetch and page counting",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "provlink_document_cache_lookups_total",
			Help: "Document cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss", "error"

		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "provlink_active_sessions",
			Help: "Open review sessions",
		}),
	}
}

// IncrementSelection records how a field selection resolved.
func (m *Metrics) IncrementSelection(outcome string) {
	if m != nil {
		m.SelectionOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementStale records a dropped stale result.
func (m *Metrics) IncrementStale(kind string) {
	if m != nil {
		m.StaleDiscarded.WithLabelValues(kind).Inc()
	}
}

// RecordParse records the outcome of parsing one provenance payload.
func (m *Metrics) RecordParse(rejected bool, droppedForms, droppedFields int) {
	if m == nil {
		return
	}
	if rejected {
		m.ProvenanceRejected.Inc()
	}
	if droppedForms > 0 {
		m.ProvenanceDropped.WithLabelValues("form").Add(float64(droppedForms))
	}
	if droppedFields > 0 {
		m.ProvenanceDropped.WithLabelValues("field").Add(float64(droppedFields))
	}
}

// ObserveLoad records a finished document load.
func (m *Metrics) ObserveLoad(result string, d time.Duration) {
	if m != nil {
		m.DocumentLoads.WithLabelValues(result).Inc()
		m.DocumentLoadLatency.Observe(d.Seconds())
	}
}

// IncrementCache records a cache lookup.
func (m *Metrics) IncrementCache(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	if m != nil {
		m.ActiveSessions.Inc()
	}
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	if m != nil {
		m.ActiveSessions.Dec()
	}
}
