package metrics_collectors

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/internal/constants"
	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

// WifiReader is implemented by *freebox.Wifi.
type WifiReader interface {
	GetGlobalConfig(ctx context.Context) (*freebox.WifiGlobalConfig, error)
	GetAPs(ctx context.Context) ([]freebox.WifiAP, error)
	GetStations(ctx context.Context, apID int) ([]freebox.WifiStation, error)
}

// WifiMetrics summarizes the radios and their clients.
type WifiMetrics struct {
	Enabled  bool           `json:"enabled"`
	Stations int            `json:"stations"`
	APs      []WifiAPMetric `json:"aps"`
}

// WifiAPMetric describes one radio.
type WifiAPMetric struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	State    string `json:"state,omitempty"`
	Stations int    `json:"stations"`
}

// WifiMetricCollector counts associated stations per access point.
type WifiMetricCollector struct {
	Reader WifiReader
	Logger zerolog.Logger
}

func (w *WifiMetricCollector) Name() string {
	return constants.CollectorWifi
}

func (w *WifiMetricCollector) Collect(ctx context.Context) (interface{}, error) {
	w.Logger.Debug().Msg("Collecting wifi metrics")

	global, err := w.Reader.GetGlobalConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get wifi config: %w", err)
	}
	metrics := WifiMetrics{Enabled: global.Enabled, APs: []WifiAPMetric{}}
	if !global.Enabled {
		return metrics, nil
	}

	aps, err := w.Reader.GetAPs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list access points: %w", err)
	}

	for _, ap := range aps {
		metric := WifiAPMetric{ID: ap.ID, Name: ap.Name}
		if state, ok := ap.Status["state"].(string); ok {
			metric.State = state
		}

		stations, err := w.Reader.GetStations(ctx, ap.ID)
		if err != nil {
			w.Logger.Warn().Err(err).Int("ap", ap.ID).Msg("Failed to list stations")
		} else {
			metric.Stations = len(stations)
			metrics.Stations += len(stations)
		}
		metrics.APs = append(metrics.APs, metric)
	}

	return metrics, nil
}

func (w *WifiMetricCollector) IsEnabled(config *models.StatusConfig) bool {
	return enabled(config, w.Name())
}

func (w *WifiMetricCollector) Unit() string {
	return "count"
}

func (w *WifiMetricCollector) Description() string {
	return "Wi-Fi access points and associated stations"
}
