package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogSyncMetrics tracks mirror runs of the remote product feed.
type CatalogSyncMetrics struct {
	runs     *prometheus.CounterVec
	products prometheus.Gauge
	duration prometheus.Histogram
	lastRun  prometheus.Gauge
}

func NewCatalogSyncMetrics(reg prometheus.Registerer) *CatalogSyncMetrics {
	if reg == nil {
		return &CatalogSyncMetrics{}
	}
	m := &CatalogSyncMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog_sync",
			Name:      "runs_total",
			Help:      "Catalog sync runs by result.",
		}, []string{"result"}),
		products: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog_sync",
			Name:      "products",
			Help:      "Products seen in the last successful sync.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog_sync",
			Name:      "duration_seconds",
			Help:      "Wall time of catalog sync runs.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog_sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful sync.",
		}),
	}
	reg.MustRegister(m.runs, m.products, m.duration, m.lastRun)
	return m
}

// Observe records a finished run.
func (m *CatalogSyncMetrics) Observe(ok bool, count int, took time.Duration, at time.Time) {
	if m == nil || m.runs == nil {
		return
	}
	m.duration.Observe(took.Seconds())
	if !ok {
		m.runs.WithLabelValues("failure").Inc()
		return
	}
	m.runs.WithLabelValues("success").Inc()
	m.products.Set(float64(count))
	m.lastRun.Set(float64(at.Unix()))
}
