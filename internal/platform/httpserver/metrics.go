package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type serverMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

func newServerMetrics(registry *prometheus.Registry, poolStats func() map[string]float64) *serverMetrics {
	factory := promauto.With(registry)
	metrics := &serverMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "moringadesk",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "moringadesk",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "moringadesk",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		}),
	}
	if poolStats != nil {
		registry.MustRegister(&poolCollector{
			desc: prometheus.NewDesc(
				"moringadesk_db_connection_pool",
				"Database connection pool statistics",
				[]string{"stat"},
				nil,
			),
			stats: poolStats,
		})
	}
	registry.MustRegister(collectors.NewGoCollector())
	return metrics
}

// poolCollector samples sql.DBStats at scrape time.
type poolCollector struct {
	desc  *prometheus.Desc
	stats func() map[string]float64
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	for stat, value := range c.stats() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, value, stat)
	}
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
