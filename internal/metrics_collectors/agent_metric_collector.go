package metrics_collectors

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/internal/constants"
	"github.com/benmeehan/freebox-agent/internal/models"
)

// AgentMetrics describes the agent process itself.
type AgentMetrics struct {
	Goroutines int   `json:"goroutines"`
	Uptime     int64 `json:"uptime"`
}

// AgentMetricCollector collects the number of active goroutines and the agent uptime.
type AgentMetricCollector struct {
	Logger  zerolog.Logger
	Started time.Time
}

func (a *AgentMetricCollector) Name() string {
	return constants.CollectorAgent
}

func (a *AgentMetricCollector) Collect(ctx context.Context) (interface{}, error) {
	n := runtime.NumGoroutine()
	a.Logger.Debug().Int("goroutines", n).Msg("Goroutine count collected")
	return AgentMetrics{
		Goroutines: n,
		Uptime:     int64(time.Since(a.Started).Seconds()),
	}, nil
}

func (a *AgentMetricCollector) IsEnabled(config *models.StatusConfig) bool {
	return enabled(config, a.Name())
}

func (a *AgentMetricCollector) Unit() string {
	return "count"
}

func (a *AgentMetricCollector) Description() string {
	return "Goroutines and uptime of the agent"
}
