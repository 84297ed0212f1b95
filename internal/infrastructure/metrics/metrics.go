package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qrcodes"

// Metrics holds the collectors of the process on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	Scans       *prometheus.CounterVec
	SessionOps  *prometheus.HistogramVec
	SchemaReady prometheus.Gauge
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "QR code scans by destination and outcome.",
		}, []string{"destination", "outcome"}),
		SessionOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_store_duration_seconds",
			Help:      "Latency of session store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		SchemaReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schema_ready",
			Help:      "1 once the database schema exists.",
		}),
	}

	m.Registry.MustRegister(
		m.Scans,
		m.SessionOps,
		m.SchemaReady,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveScan counts one scan. outcome is "redirected" or "unrecognized".
func (m *Metrics) ObserveScan(destination, outcome string) {
	m.Scans.WithLabelValues(destination, outcome).Inc()
}

// WatchSchema flips the readiness gauge once ready is closed
func (m *Metrics) WatchSchema(ready <-chan struct{}) {
	go func() {
		<-ready
		m.SchemaReady.Set(1)
	}()
}
