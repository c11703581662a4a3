package mcpay

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vitwit/mcpay/facilitator"
	"github.com/vitwit/mcpay/logger"
	"github.com/vitwit/mcpay/metrics"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger shared by every component.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithMetrics sets the metrics recorder shared by every component.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *Server) {
		s.metrics = r
	}
}

// WithPrometheus installs a Prometheus recorder registered against reg and
// serves its gatherer on /metrics.
func WithPrometheus(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = metrics.NewPrometheusRecorder(reg)
		s.promGatherer = reg
	}
}

// WithFacilitator overrides the payment facilitator client.
func WithFacilitator(c facilitator.Client) Option {
	return func(s *Server) {
		s.facilitator = c
	}
}
