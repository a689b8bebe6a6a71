package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RecordsBuilt       prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	BarcodesRendered   prometheus.Counter
	RenderSeconds      prometheus.Histogram
}

// New creates and registers all Prometheus metrics against the given
// registerer. main passes prometheus.DefaultRegisterer; tests pass a fresh
// registry so parallel suites do not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsBuilt: factory.NewCounter(prometheus.CounterOpts{
			Name: "licensegen_records_built_total",
			Help: "Total number of canonical license records built",
		}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "licensegen_validation_failures_total",
			Help: "Total number of rejected inputs, labeled by failing field",
		}, []string{"field"}),
		BarcodesRendered: factory.NewCounter(prometheus.CounterOpts{
			Name: "licensegen_barcodes_rendered_total",
			Help: "Total number of PDF417 symbols rendered to images",
		}),
		RenderSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "licensegen_barcode_render_seconds",
			Help:    "Time spent encoding and rendering PDF417 symbols",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncrementRecordsBuilt increments the built-record counter by 1.
func (m *Metrics) IncrementRecordsBuilt() {
	m.RecordsBuilt.Inc()
}

// IncrementValidationFailure records a rejected input attributed to a field.
func (m *Metrics) IncrementValidationFailure(field string) {
	if field == "" {
		field = "unknown"
	}
	m.ValidationFailures.WithLabelValues(field).Inc()
}

// ObserveRender records one successful render and its duration.
func (m *Metrics) ObserveRender(d time.Duration) {
	m.BarcodesRendered.Inc()
	m.RenderSeconds.Observe(d.Seconds())
}
