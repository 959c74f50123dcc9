package metrics_collectors

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/internal/constants"
	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

// SystemReader is implemented by *freebox.System.
type SystemReader interface {
	GetConfig(ctx context.Context) (*freebox.SystemConfig, error)
}

// SystemMetrics holds the box health readings.
type SystemMetrics struct {
	FirmwareVersion string         `json:"firmware_version"`
	Uptime          int64          `json:"uptime"`
	Temperatures    map[string]int `json:"temperatures"`
	Fans            map[string]int `json:"fans"`
	DiskStatus      string         `json:"disk_status,omitempty"`
}

// SystemMetricCollector reports uptime, temperatures and fan speeds.
type SystemMetricCollector struct {
	Reader SystemReader
	Logger zerolog.Logger
}

func (s *SystemMetricCollector) Name() string {
	return constants.CollectorSystem
}

func (s *SystemMetricCollector) Collect(ctx context.Context) (interface{}, error) {
	s.Logger.Debug().Msg("Collecting system metrics")

	config, err := s.Reader.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get system config: %w", err)
	}

	metrics := SystemMetrics{
		FirmwareVersion: config.FirmwareVersion,
		Uptime:          config.UptimeVal,
		Temperatures:    config.Temperatures(),
		Fans:            config.FanSpeeds(),
		DiskStatus:      config.DiskStatus,
	}
	return metrics, nil
}

func (s *SystemMetricCollector) IsEnabled(config *models.StatusConfig) bool {
	return enabled(config, s.Name())
}

func (s *SystemMetricCollector) Unit() string {
	return "celsius"
}

func (s *SystemMetricCollector) Description() string {
	return "Uptime, temperatures and fan speeds"
}
