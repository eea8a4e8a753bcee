package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	reg      *prometheus.Registry
	reports  *prometheus.CounterVec
	latency  prometheus.Histogram
	healthRq *prometheus.CounterVec
}

// newMetrics registers on a private registry so several servers (tests) can
// coexist in one process.
func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &metrics{
		reg: reg,
		reports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "status_reports_total", Help: "Probe outcomes stored, by status",
		}, []string{"status"}),
		latency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "reported_response_time_ms",
			Help:    "Health call latency reported by probe clients",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		healthRq: f.NewCounterVec(prometheus.CounterOpts{
			Name: "health_requests_total", Help: "GET /health requests, by result",
		}, []string{"result"}),
	}
}
