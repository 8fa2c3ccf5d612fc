package obslog

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Host/process and queue-backend metrics, analogous to the original
// ws_cpu_*/ws_kafka_* gauges, renamed for this domain.
var (
	cpuHostPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "envelopes_cpu_host_percent",
		Help: "Host CPU usage percentage.",
	})

	memoryUsageBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "envelopes_memory_bytes",
		Help: "Current process memory usage in bytes.",
	})

	goroutinesActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "envelopes_goroutines_active",
		Help: "Current number of active goroutines.",
	})

	queueConnected = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "envelopes_queue_connected",
		Help: "Queue backend connection status (1=connected, 0=disconnected).",
	}, []string{"backend"})

	queueMessagesPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "envelopes_queue_messages_published_total",
		Help: "Total messages published to the queue backend.",
	}, []string{"backend"})

	queueMessagesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "envelopes_queue_messages_received_total",
		Help: "Total messages received from the queue backend.",
	}, []string{"backend"})

	errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "envelopes_errors_total",
		Help: "Total errors by type and severity.",
	}, []string{"type", "severity"})
)

func init() {
	prometheus.MustRegister(cpuHostPercent)
	prometheus.MustRegister(memoryUsageBytes)
	prometheus.MustRegister(goroutinesActive)
	prometheus.MustRegister(queueConnected)
	prometheus.MustRegister(queueMessagesPublished)
	prometheus.MustRegister(queueMessagesReceived)
	prometheus.MustRegister(errorsTotal)
}

// HandleMetrics serves Prometheus metrics at /metrics.
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordQueueConnected sets the connection gauge for a backend.
func RecordQueueConnected(backend string, connected bool) {
	v := 0.0
	if connected {
		v = 1.0
	}
	queueConnected.WithLabelValues(backend).Set(v)
}

// RecordPublished increments the publish counter for a backend.
func RecordPublished(backend string) {
	queueMessagesPublished.WithLabelValues(backend).Inc()
}

// RecordReceived increments the receive counter for a backend.
func RecordReceived(backend string) {
	queueMessagesReceived.WithLabelValues(backend).Inc()
}

// RecordError tracks an error in Prometheus by type and severity.
func RecordError(errorType, severity string) {
	errorsTotal.WithLabelValues(errorType, severity).Inc()
}

// Severity levels used with RecordError.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Error types used with RecordError.
const (
	ErrorTypeQueue         = "queue"
	ErrorTypeSerialization = "serialization"
)

// Collector periodically samples process/host metrics into the gauges
// above.
type Collector struct {
	cpuPercentFn func() float64
	stop         chan struct{}
}

// NewCollector builds a Collector. cpuPercentFn supplies the current
// host CPU percentage (typically hostinfo.Snapshot's CPUPercent).
func NewCollector(cpuPercentFn func() float64) *Collector {
	return &Collector{cpuPercentFn: cpuPercentFn, stop: make(chan struct{})}
}

// Start begins periodic collection at the given interval.
func (c *Collector) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop ends periodic collection.
func (c *Collector) Stop() { close(c.stop) }

func (c *Collector) collect() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	memoryUsageBytes.Set(float64(mem.Alloc))
	goroutinesActive.Set(float64(runtime.NumGoroutine()))
	if c.cpuPercentFn != nil {
		cpuHostPercent.Set(c.cpuPercentFn())
	}
}
