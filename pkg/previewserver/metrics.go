package previewserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry
	decodes  *prometheus.CounterVec
	bytes    prometheus.Histogram
}

// newMetrics uses a private registry so several servers can coexist in one
// process (and in tests).
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pgmview_decodes_total",
			Help: "Images decoded by the preview server, by format and outcome",
		}, []string{"format", "outcome"}),
		bytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pgmview_decode_bytes",
			Help:    "Size of images submitted for decoding in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 4, 12),
		}),
	}
	m.registry.MustRegister(m.decodes, m.bytes)
	return m
}

func (m *metrics) observe(format, outcome string, size int) {
	if format == "" {
		format = "unknown"
	}
	m.decodes.WithLabelValues(format, outcome).Inc()
	m.bytes.Observe(float64(size))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
