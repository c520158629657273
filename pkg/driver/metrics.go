package driver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robotalks/pms.go/pkg/frame"
)

// Metrics exposes driver counters to Prometheus.
type Metrics struct {
	frames         *prometheus.CounterVec
	rejected       prometheus.Counter
	checksumErrors prometheus.Counter
	rotations      prometheus.Counter
	recordBytes    prometheus.Histogram
}

// NewMetrics creates and registers the metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		frames: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pms_frames_logged_total",
				Help: "Frames encoded and appended to the log",
			},
			[]string{"variant"},
		),
		rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "pms_frames_rejected_total",
			Help: "Frames dropped for an unknown length",
		}),
		checksumErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "pms_checksum_errors_total",
			Help: "Frames dropped for a checksum mismatch",
		}),
		rotations: factory.NewCounter(prometheus.CounterOpts{
			Name: "pms_log_rotations_total",
			Help: "Appends answered with a new log buffer",
		}),
		recordBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pms_record_bytes",
			Help:    "Size of encoded records",
			Buckets: prometheus.LinearBuckets(2, 4, 10),
		}),
	}
}

func (m *Metrics) logged(variant frame.Variant, size int) {
	if m != nil {
		m.frames.WithLabelValues(variant.String()).Inc()
		m.recordBytes.Observe(float64(size))
	}
}

func (m *Metrics) checksumError() {
	if m != nil {
		m.checksumErrors.Inc()
	}
}

func (m *Metrics) rotated() {
	if m != nil {
		m.rotations.Inc()
	}
}

func (m *Metrics) rejectedFrames(n uint64) {
	if m != nil && n > 0 {
		m.rejected.Add(float64(n))
	}
}
