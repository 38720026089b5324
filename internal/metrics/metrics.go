// Package metrics exposes Prometheus counters for uploads, conversions,
// downloads and cleanup.
//
// Metrics are registered on the registry handed to New, so tests can use a
// fresh prometheus.NewRegistry() instead of the global default.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	StatusSuccess    = "success"
	StatusValidation = "validation_error"
	StatusFailed     = "failed"
	StatusNotFound   = "not_found"
)

// Metrics holds the collectors used by the conversion service.
type Metrics struct {
	conversions     *prometheus.CounterVec
	convertDuration prometheus.Histogram
	uploadBytes     prometheus.Histogram
	downloads       *prometheus.CounterVec
	cleanups        *prometheus.CounterVec
	swept           prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pdf2docx_conversions_total",
			Help: "Conversion requests by outcome.",
		}, []string{"status"}),
		convertDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pdf2docx_conversion_duration_seconds",
			Help:    "Time spent inside the converter backend.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "pdf2docx_upload_size_bytes",
			Help: "Size of accepted PDF uploads.",
			Buckets: []float64{
				10 << 10,  // 10KB
				100 << 10, // 100KB
				1 << 20,   // 1MB
				10 << 20,  // 10MB
				100 << 20, // 100MB
			},
		}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pdf2docx_downloads_total",
			Help: "Download requests by outcome.",
		}, []string{"status"}),
		cleanups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pdf2docx_cleanups_total",
			Help: "Post-download source deletions by outcome.",
		}, []string{"status"}),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pdf2docx_swept_files_total",
			Help: "Converted files removed by the retention sweeper.",
		}),
	}

	reg.MustRegister(m.conversions, m.convertDuration, m.uploadBytes, m.downloads, m.cleanups, m.swept)
	return m
}

// ConversionFinished records the outcome of one POST /convert.
func (m *Metrics) ConversionFinished(status string) {
	m.conversions.WithLabelValues(status).Inc()
}

// ObserveConversion records how long the backend ran.
func (m *Metrics) ObserveConversion(d time.Duration) {
	m.convertDuration.Observe(d.Seconds())
}

// ObserveUpload records the size of an accepted upload.
func (m *Metrics) ObserveUpload(bytes int64) {
	m.uploadBytes.Observe(float64(bytes))
}

// DownloadFinished records the outcome of one download.
func (m *Metrics) DownloadFinished(status string) {
	m.downloads.WithLabelValues(status).Inc()
}

// CleanupFinished records a source deletion attempt.
func (m *Metrics) CleanupFinished(status string) {
	m.cleanups.WithLabelValues(status).Inc()
}

// Swept records files removed by the retention sweeper.
func (m *Metrics) Swept(n int) {
	m.swept.Add(float64(n))
}
