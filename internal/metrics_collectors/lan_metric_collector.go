package metrics_collectors

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/internal/constants"
	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

// LANReader is implemented by *freebox.LAN.
type LANReader interface {
	GetInterfaces(ctx context.Context) ([]freebox.LANInterface, error)
	GetHosts(ctx context.Context, iface string) ([]freebox.LANHost, error)
}

// LANMetrics counts known and reachable hosts per browser interface.
type LANMetrics struct {
	Hosts      int                         `json:"hosts"`
	Active     int                         `json:"active"`
	Interfaces map[string]LANInterfaceStat `json:"interfaces"`
}

// LANInterfaceStat is the host count of one interface.
type LANInterfaceStat struct {
	Hosts  int `json:"hosts"`
	Active int `json:"active"`
}

// LANMetricCollector walks the LAN browser.
type LANMetricCollector struct {
	Reader LANReader
	Logger zerolog.Logger
}

func (l *LANMetricCollector) Name() string {
	return constants.CollectorLAN
}

func (l *LANMetricCollector) Collect(ctx context.Context) (interface{}, error) {
	l.Logger.Debug().Msg("Collecting LAN metrics")

	ifaces, err := l.Reader.GetInterfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list LAN interfaces: %w", err)
	}

	metrics := LANMetrics{Interfaces: make(map[string]LANInterfaceStat, len(ifaces))}
	for _, iface := range ifaces {
		metrics.Interfaces[iface.Name] = LANInterfaceStat{}
	}

	var wg sync.WaitGroup
	var metricsMutex sync.Mutex
	var errs []error

	for _, iface := range ifaces {
		if iface.HostCount == 0 {
			continue
		}

		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			hosts, err := l.Reader.GetHosts(ctx, name)
			if err != nil {
				l.Logger.Warn().Err(err).Str("interface", name).Msg("Failed to list hosts")
				metricsMutex.Lock()
				errs = append(errs, fmt.Errorf("failed to list hosts of %s: %w", name, err))
				metricsMutex.Unlock()
				return
			}

			stat := LANInterfaceStat{Hosts: len(hosts)}
			for _, host := range hosts {
				if host.Active {
					stat.Active++
				}
			}

			metricsMutex.Lock()
			defer metricsMutex.Unlock()
			metrics.Interfaces[name] = stat
			metrics.Hosts += stat.Hosts
			metrics.Active += stat.Active
		}(iface.Name)
	}

	wg.Wait()
	// One failed interface fails the whole round.
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (l *LANMetricCollector) IsEnabled(config *models.StatusConfig) bool {
	return enabled(config, l.Name())
}

func (l *LANMetricCollector) Unit() string {
	return "count"
}

func (l *LANMetricCollector) Description() string {
	return "Hosts seen by the LAN browser"
}
