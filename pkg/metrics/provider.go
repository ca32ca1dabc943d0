package metrics

import (
	"github.com/google/wire"
)

// ProviderSet is a Wire provider set for metrics
var ProviderSet = wire.NewSet(
	NewMetricsServer,
	ProvideBookbuildMetrics,
	ProvideCronMetrics,
)

// NewMetricsServer creates a new metrics server from config
func NewMetricsServer(config MetricsConfig) *Server {
	return NewServer(config)
}

func ProvideBookbuildMetrics(server *Server) *BookbuildMetrics {
	return NewBookbuildMetrics(server.GetRegistry())
}

func ProvideCronMetrics(server *Server) *CronMetrics {
	return NewCronMetrics(server.GetRegistry())
}
