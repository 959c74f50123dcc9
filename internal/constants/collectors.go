package constants

// Collector names, as listed in services.status.collectors.
const (
	CollectorConnection = "connection"
	CollectorSystem     = "system"
	CollectorWifi       = "wifi"
	CollectorLAN        = "lan"
	CollectorCalls      = "calls"
	CollectorAgent      = "agent"
)

// Service names used by the service registry.
const (
	ServiceMetrics = "metrics"
	ServiceStatus  = "status"
	ServiceEvents  = "events"
)
