package report_worker

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// rendersTotal counts finished render jobs by format and outcome.
	rendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "llmlens",
		Subsystem: "reports",
		Name:      "renders_total",
		Help:      "Total number of report render jobs, labeled by format and result.",
	}, []string{"format", "result"})

	// renderDurationSeconds is end-to-end time per render job, from load to save.
	renderDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "llmlens",
		Subsystem: "reports",
		Name:      "render_duration_seconds",
		Help:      "End-to-end time to aggregate, assemble, and render one report.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"format"})

	// payloadBytes tracks rendered document sizes by format.
	payloadBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "llmlens",
		Subsystem: "reports",
		Name:      "payload_bytes",
		Help:      "Size of rendered report payloads in bytes.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
	}, []string{"format"})
)

// registerMetrics registers worker metrics with the default registry. Safe
// to call multiple times.
func registerMetrics() {
	once.Do(func() {
		prometheus.MustRegister(
			rendersTotal,
			renderDurationSeconds,
			payloadBytes,
		)
	})
}
