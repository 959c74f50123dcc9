package metrics_collectors

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/internal/constants"
	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

// ConnectionReader is implemented by *freebox.Connection.
type ConnectionReader interface {
	GetStatus(ctx context.Context) (*freebox.ConnectionStatus, error)
}

// ConnectionMetrics is the WAN link summary.
type ConnectionMetrics struct {
	State         string `json:"state"`
	Media         string `json:"media"`
	IPv4          string `json:"ipv4,omitempty"`
	IPv6          string `json:"ipv6,omitempty"`
	RateDown      int64  `json:"rate_down"`
	RateUp        int64  `json:"rate_up"`
	BytesDown     int64  `json:"bytes_down"`
	BytesUp       int64  `json:"bytes_up"`
	BandwidthDown int64  `json:"bandwidth_down"`
	BandwidthUp   int64  `json:"bandwidth_up"`
}

// ConnectionMetricCollector reports the WAN state and throughput.
type ConnectionMetricCollector struct {
	Reader ConnectionReader
	Logger zerolog.Logger
}

func (c *ConnectionMetricCollector) Name() string {
	return constants.CollectorConnection
}

func (c *ConnectionMetricCollector) Collect(ctx context.Context) (interface{}, error) {
	c.Logger.Debug().Msg("Collecting connection metrics")

	status, err := c.Reader.GetStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection status: %w", err)
	}

	return ConnectionMetrics{
		State:         status.State,
		Media:         status.Media,
		IPv4:          status.IPv4,
		IPv6:          status.IPv6,
		RateDown:      status.RateDown,
		RateUp:        status.RateUp,
		BytesDown:     status.BytesDown,
		BytesUp:       status.BytesUp,
		BandwidthDown: status.BandwidthDown,
		BandwidthUp:   status.BandwidthUp,
	}, nil
}

func (c *ConnectionMetricCollector) IsEnabled(config *models.StatusConfig) bool {
	return enabled(config, c.Name())
}

func (c *ConnectionMetricCollector) Unit() string {
	return "bytes/s"
}

func (c *ConnectionMetricCollector) Description() string {
	return "WAN connection state, rates and counters"
}
