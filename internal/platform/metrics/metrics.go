package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	DocumentsUploaded  *prometheus.CounterVec
	DocumentsDeleted   prometheus.Counter
	ConversionDuration prometheus.Histogram
	ConversionFailures prometheus.Counter
	AnnotationsSaved   prometheus.Counter
	ShareResolves      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		DocumentsUploaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "redink_documents_uploaded_total",
			Help: "Total documents ingested, by original format",
		}, []string{"format"}),
		DocumentsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "redink_documents_deleted_total",
			Help: "Total documents deleted",
		}),
		ConversionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "redink_conversion_duration_seconds",
			Help:    "Latency of external format conversions",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 90},
		}),
		ConversionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "redink_conversion_failures_total",
			Help: "Total failed format conversions, including timeouts",
		}),
		AnnotationsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "redink_annotations_saved_total",
			Help: "Total annotation upserts",
		}),
		ShareResolves: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "redink_share_resolves_total",
			Help: "Total share token resolutions, by result",
		}, []string{"result"}),
	}
}

// ObserveConversion records one conversion attempt.
func (m *Metrics) ObserveConversion(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.ConversionDuration.Observe(d.Seconds())
	if err != nil {
		m.ConversionFailures.Inc()
	}
}

// RecordUpload increments the upload counter for a format.
func (m *Metrics) RecordUpload(format string) {
	if m == nil {
		return
	}
	m.DocumentsUploaded.WithLabelValues(format).Inc()
}

// RecordDelete increments the delete counter.
func (m *Metrics) RecordDelete() {
	if m == nil {
		return
	}
	m.DocumentsDeleted.Inc()
}

// RecordAnnotationSaved increments the annotation upsert counter.
func (m *Metrics) RecordAnnotationSaved() {
	if m == nil {
		return
	}
	m.AnnotationsSaved.Inc()
}

// RecordShareResolve increments the share resolution counter.
func (m *Metrics) RecordShareResolve(result string) {
	if m == nil {
		return
	}
	m.ShareResolves.WithLabelValues(result).Inc()
}
