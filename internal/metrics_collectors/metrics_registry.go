package metrics_collectors

import (
	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

// The registry will manage all metric collectors and provide a way to add/remove them dynamically.
type MetricsRegistry struct {
	collectors map[string]MetricCollector
}

// NewMetricsRegistry creates a new MetricsRegistry instance.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		collectors: make(map[string]MetricCollector),
	}
}

// Register adds a new metric collector to the registry.
func (r *MetricsRegistry) Register(collector MetricCollector) {
	r.collectors[collector.Name()] = collector
}

// GetCollectors returns all the metric collectors registered in the registry.
func (r *MetricsRegistry) GetCollectors() map[string]MetricCollector {
	return r.collectors
}

// RegisterFreeboxCollectors registers one collector per supported API group of an opened client.
func RegisterFreeboxCollectors(r *MetricsRegistry, client *freebox.Client, logger zerolog.Logger) {
	r.Register(&ConnectionMetricCollector{Reader: client.Connection, Logger: logger})
	r.Register(&SystemMetricCollector{Reader: client.System, Logger: logger})
	r.Register(&WifiMetricCollector{Reader: client.Wifi, Logger: logger})
	r.Register(&LANMetricCollector{Reader: client.LAN, Logger: logger})
	r.Register(&CallMetricCollector{Reader: client.Call, Logger: logger})
}
