package metrics_collectors

import (
	"context"

	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/internal/utils"
)

// MetricCollector defines the interface for collecting a specific metric.
type MetricCollector interface {
	Name() string                                     // Name of the metric (e.g., "connection", "wifi")
	Collect(ctx context.Context) (interface{}, error) // Collect the metric data
	IsEnabled(config *models.StatusConfig) bool       // Check if the metric is enabled in the config
	Unit() string                                     // Unit of the metric (e.g., "bytes/s", "count")
	Description() string                              // Description of the metric
}

// enabled reports whether name is selected by config. No selection means all.
func enabled(config *models.StatusConfig, name string) bool {
	if config == nil || len(config.Collectors) == 0 {
		return true
	}
	_, ok := utils.SliceToSet(config.Collectors)[name]
	return ok
}
