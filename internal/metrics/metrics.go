// Package metrics counts codec activity for the command line tool. A batch
// run writes the counters in the Prometheus text format so that a node
// exporter textfile collector can pick them up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"meascodec/pkg/meas/errs"
)

// Metrics holds the codec counters of one command invocation
type Metrics struct {
	registry *prometheus.Registry

	documentsTotal *prometheus.CounterVec
	failuresTotal  *prometheus.CounterVec
	documentBytes  *prometheus.HistogramVec
}

// New creates the counters on a fresh registry
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.documentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meascodec_documents_total",
			Help: "Total number of documents processed",
		},
		[]string{"operation", "kind"},
	)
	m.failuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meascodec_failures_total",
			Help: "Total number of failed codec operations",
		},
		[]string{"operation", "error_kind"},
	)
	m.documentBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meascodec_document_bytes",
			Help:    "Size of processed documents",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"operation"},
	)

	m.registry.MustRegister(m.documentsTotal, m.failuresTotal, m.documentBytes)
	return m
}

// Registry returns the registry holding the counters
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveDocument records a document of the given kind that was decoded or encoded
func (m *Metrics) ObserveDocument(operation, kind string, size int) {
	m.documentsTotal.WithLabelValues(operation, kind).Inc()
	m.documentBytes.WithLabelValues(operation).Observe(float64(size))
}

// ObserveFailure records a failed operation, labelled with the codec error kind
func (m *Metrics) ObserveFailure(operation string, err error) {
	m.failuresTotal.WithLabelValues(operation, errs.KindOf(err).String()).Inc()
}

// WriteTextfile writes every counter to path in the Prometheus text format
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
