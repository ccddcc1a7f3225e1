package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects request and generation metrics.
type Metrics struct {
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	generations     *prometheus.CounterVec
	meshes          *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "anvil",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "anvil",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "path"},
		),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "anvil",
				Subsystem: "terrain",
				Name:      "generations_total",
				Help:      "Terrain generation requests by outcome",
			},
			[]string{"mode", "outcome"},
		),
		meshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "anvil",
				Subsystem: "terrain",
				Name:      "meshes_total",
				Help:      "Meshes returned by element",
			},
			[]string{"element"},
		),
	}

	reg.MustRegister(m.requestCounter, m.requestDuration, m.generations, m.meshes)
	return m
}

// Middleware records request count and latency. Unrouted requests share one
// path label.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.requestCounter.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// observeGeneration counts one generation attempt. outcome is "ok" or an
// error kind.
func (m *Metrics) observeGeneration(mode, outcome string, islands, bridges int) {
	m.generations.WithLabelValues(mode, outcome).Inc()
	if outcome == "ok" {
		m.meshes.WithLabelValues("island").Add(float64(islands))
		m.meshes.WithLabelValues("bridge").Add(float64(bridges))
	}
}
