// Package mcpay is a payment-gated tool server. It exposes a fixed tool
// set over JSON-RPC 2.0 and mirrored REST endpoints, and gates priced
// tools behind x402 payment challenges verified by a facilitator.
package mcpay

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitwit/mcpay/config"
	"github.com/vitwit/mcpay/dispatch"
	"github.com/vitwit/mcpay/executor"
	"github.com/vitwit/mcpay/facilitator"
	"github.com/vitwit/mcpay/gate"
	"github.com/vitwit/mcpay/logger"
	"github.com/vitwit/mcpay/metrics"
	"github.com/vitwit/mcpay/registry"
	"github.com/vitwit/mcpay/transport"
	"github.com/vitwit/mcpay/types"
)

// Version of the server, advertised on initialize when the configuration
// does not override it.
const Version = "1.0.0"

// Server is the assembled tool server. Construct with New, mount with
// Router, run with http.ListenAndServe or equivalent.
type Server struct {
	cfg        *config.Config
	registry   *registry.Registry
	executor   *executor.Executor
	gate       *gate.Gate
	dispatcher *dispatch.Dispatcher

	log          logger.Logger
	metrics      metrics.Recorder
	promGatherer prometheus.Gatherer
	facilitator  facilitator.Client
}

// New wires the server from configuration. Price entries are validated
// here; a bad price table is a startup error, never a request-time one.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		log:     logger.NoopLogger{},
		metrics: metrics.Noop{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.facilitator == nil {
		s.facilitator = facilitator.NewHTTPClient(&facilitator.Config{URL: cfg.FacilitatorURL})
	}

	s.registry = registry.New()
	s.executor = executor.New()

	g, err := gate.New(cfg.PriceTable(), s.facilitator,
		gate.WithLogger(s.log), gate.WithMetrics(s.metrics))
	if err != nil {
		return nil, err
	}
	s.gate = g

	s.dispatcher = dispatch.New(s.registry, s.executor, s.gate,
		dispatch.ServerInfo{Name: cfg.ServerName, Version: cfg.ServerVersion},
		dispatch.WithLogger(s.log), dispatch.WithMetrics(s.metrics))

	return s, nil
}

// Router builds the HTTP router with both protocol surfaces plus health
// and metrics endpoints.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	transport.NewJSONRPC(s.dispatcher, s.log).Register(r)
	transport.NewREST(s.dispatcher, s.log).Register(r)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Free, machine-readable price list; the content behind the
	// mcpay://pricing resource.
	r.GET("/pricing", s.handlePricing)

	if s.promGatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.promGatherer, promhttp.HandlerOpts{})))
	}

	return r
}

// Run serves HTTP on the configured listen address, blocking until the
// listener fails.
func (s *Server) Run() error {
	s.log.Info("server listening", map[string]any{
		"addr":   s.cfg.ListenAddr,
		"priced": len(s.cfg.Prices),
	})
	return s.Router().Run(s.cfg.ListenAddr)
}

// Dispatcher exposes the request pipeline, for embedding the server in an
// existing router.
func (s *Server) Dispatcher() *dispatch.Dispatcher {
	return s.dispatcher
}

func (s *Server) handlePricing(c *gin.Context) {
	tools := make(map[string]interface{}, len(types.Capabilities()))
	for _, capability := range types.Capabilities() {
		if req, ok := s.gate.Requirements(capability.RouteKey()); ok {
			tools[capability.String()] = req
		} else {
			tools[capability.String()] = "free"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"x402Version": types.X402Version,
		"tools":       tools,
	})
}
