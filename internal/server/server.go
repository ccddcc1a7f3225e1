// Package server exposes terrain generation over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Faultbox/anvil/internal/terrain"
)

// GeneratePath is the generation route. The trailing slash is part of it.
const GeneratePath = "/Generate/"

// Library is the part of the mesh library the server reports on.
type Library interface {
	Len() int
	Names() []string
}

// Options configure a Server.
type Options struct {
	GinMode string // debug, release or test; empty keeps gin's current mode
	// Seed fixes the per-request random source. Zero draws a fresh seed for
	// every request.
	Seed uint64
	// SimulatedLatency delays every successful response.
	SimulatedLatency time.Duration
	// Library is reported by /healthz when set.
	Library Library
}

// Server routes HTTP requests to a terrain pipeline.
type Server struct {
	router   *gin.Engine
	pipeline *terrain.Pipeline
	registry *prometheus.Registry
	metrics  *Metrics
	opts     Options
}

// New creates a server with its own metrics registry.
func New(pipeline *terrain.Pipeline, opts Options) *Server {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		router:   gin.New(),
		pipeline: pipeline,
		registry: registry,
		metrics:  NewMetrics(registry),
		opts:     opts,
	}

	s.router.Use(gin.Recovery(), RequestID(), RequestLogger(), s.metrics.Middleware())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.POST(GeneratePath, s.handleGenerate)
	s.router.PUT(GeneratePath, s.handleGenerate)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry returns the server's metrics registry.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}
