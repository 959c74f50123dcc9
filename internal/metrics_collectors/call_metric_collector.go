package metrics_collectors

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/internal/constants"
	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

// CallReader is implemented by *freebox.Call.
type CallReader interface {
	GetLog(ctx context.Context) ([]freebox.CallEntry, error)
}

// CallMetrics counts call log entries by type.
type CallMetrics struct {
	Total     int `json:"total"`
	Missed    int `json:"missed"`
	NewMissed int `json:"new_missed"`
	Accepted  int `json:"accepted"`
	Outgoing  int `json:"outgoing"`
}

// CallMetricCollector summarizes the call log.
type CallMetricCollector struct {
	Reader CallReader
	Logger zerolog.Logger
}

func (c *CallMetricCollector) Name() string {
	return constants.CollectorCalls
}

func (c *CallMetricCollector) Collect(ctx context.Context) (interface{}, error) {
	c.Logger.Debug().Msg("Collecting call log metrics")

	entries, err := c.Reader.GetLog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get call log: %w", err)
	}

	metrics := CallMetrics{Total: len(entries)}
	for _, entry := range entries {
		switch entry.Type {
		case freebox.CallMissed:
			metrics.Missed++
			if entry.New {
				metrics.NewMissed++
			}
		case freebox.CallAccepted:
			metrics.Accepted++
		case freebox.CallOutgoing:
			metrics.Outgoing++
		}
	}
	return metrics, nil
}

func (c *CallMetricCollector) IsEnabled(config *models.StatusConfig) bool {
	return enabled(config, c.Name())
}

func (c *CallMetricCollector) Unit() string {
	return "count"
}

func (c *CallMetricCollector) Description() string {
	return "Call log entries by type"
}
