package serializer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for the envelope serialization core. Scraped the
// same way the rest of the pack's services expose /metrics.
var (
	opDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "envelope_op_duration_seconds",
		Help:    "Duration of envelope serialization operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	opTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "envelope_op_total",
		Help: "Total envelope serialization operations by outcome.",
	}, []string{"op", "result"})
)

func init() {
	prometheus.MustRegister(opDuration)
	prometheus.MustRegister(opTotal)
}

func observe(op string, start time.Time, err error) {
	opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	opTotal.WithLabelValues(op, result).Inc()
}
