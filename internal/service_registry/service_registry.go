package service_registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/internal/constants"
	"github.com/benmeehan/freebox-agent/internal/metrics_collectors"
	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/internal/registry"
	"github.com/benmeehan/freebox-agent/internal/services"
	"github.com/benmeehan/freebox-agent/internal/utils"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
	"github.com/benmeehan/freebox-agent/pkg/mqtt"
)

// ServiceRegistry manages the lifecycle of various services in the system.
type ServiceRegistry struct {
	services    map[string]registry.Service // Stores registered services
	serviceKeys []string                    // Maintains order of service registration
	mqttClient  mqtt.MQTTClient
	gatherer    prometheus.Gatherer
	Logger      zerolog.Logger
}

// NewServiceRegistry initializes a new service registry with dependencies.
// mqttClient may be nil when no MQTT service is enabled.
func NewServiceRegistry(mqttClient mqtt.MQTTClient, gatherer prometheus.Gatherer, logger zerolog.Logger) *ServiceRegistry {
	return &ServiceRegistry{
		services:   make(map[string]registry.Service),
		mqttClient: mqttClient,
		gatherer:   gatherer,
		Logger:     logger,
	}
}

// RegisterService adds a new service to the registry.
func (sr *ServiceRegistry) RegisterService(name string, svc registry.Service) {
	if _, exists := sr.services[name]; exists {
		sr.Logger.Warn().Msgf("Service %s is already registered", name)
		return
	}
	sr.services[name] = svc
	sr.serviceKeys = append(sr.serviceKeys, name)
	sr.Logger.Info().Msgf("Registered service: %s", name)
}

// Services returns the registered service names in start order.
func (sr *ServiceRegistry) Services() []string {
	return append([]string(nil), sr.serviceKeys...)
}

// StartServices initiates all registered services in order.
// If a service fails to start, it stops already started services.
func (sr *ServiceRegistry) StartServices() error {
	startedServices := []string{}

	for _, name := range sr.serviceKeys {
		svc := sr.services[name]
		sr.Logger.Info().Msgf("Starting service: %s", name)
		if err := svc.Start(); err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to start service: %s", name)

			sr.Logger.Warn().Msg("Stopping already started services due to startup failure...")
			for i := len(startedServices) - 1; i >= 0; i-- {
				_ = sr.services[startedServices[i]].Stop()
			}
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		startedServices = append(startedServices, name)
	}

	return nil
}

// StopServices stops all services in reverse order.
func (sr *ServiceRegistry) StopServices() error {
	var stopErrors []error
	for i := len(sr.serviceKeys) - 1; i >= 0; i-- {
		name := sr.serviceKeys[i]
		if err := sr.services[name].Stop(); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", name, err))
		}
	}
	if len(stopErrors) > 0 {
		for _, e := range stopErrors {
			sr.Logger.Error().Err(e).Msg("Service stop failure")
		}
		return errors.Join(stopErrors...)
	}
	return nil
}

// RegisterServices initializes and registers enabled services based on configuration.
// client must be opened.
func (sr *ServiceRegistry) RegisterServices(config *utils.Config, client *freebox.Client) error {
	host := config.Freebox.Host

	servicesInOrder := []struct {
		name        string
		enabled     bool
		needsMQTT   bool
		constructor func() (registry.Service, error)
	}{
		{
			name:    constants.ServiceMetrics,
			enabled: config.Services.Metrics.Enabled,
			constructor: func() (registry.Service, error) {
				if sr.gatherer == nil {
					return nil, errors.New("no prometheus registry configured")
				}
				return services.NewMetricsService(
					config.Services.Metrics.Listen,
					config.Services.Metrics.Path,
					sr.gatherer,
					sr.Logger,
				), nil
			},
		},
		{
			name:      constants.ServiceStatus,
			enabled:   config.Services.Status.Enabled,
			needsMQTT: true,
			constructor: func() (registry.Service, error) {
				collectors := metrics_collectors.NewMetricsRegistry()
				metrics_collectors.RegisterFreeboxCollectors(collectors, client, sr.Logger)
				collectors.Register(&metrics_collectors.AgentMetricCollector{Logger: sr.Logger, Started: time.Now()})
				return services.NewStatusService(
					config.Services.Status.Topic,
					config.Services.Status.Interval,
					config.Services.Status.Timeout,
					host,
					config.Services.Status.QOS,
					&models.StatusConfig{Collectors: config.Services.Status.Collectors},
					collectors,
					sr.mqttClient,
					sr.Logger,
				), nil
			},
		},
		{
			name:      constants.ServiceEvents,
			enabled:   config.Services.Events.Enabled,
			needsMQTT: true,
			constructor: func() (registry.Service, error) {
				return services.NewEventService(
					config.Services.Events.Topic,
					config.Services.Events.QOS,
					config.Services.Events.Events,
					config.Services.Events.ReconnectDelay,
					host,
					client.Events,
					sr.mqttClient,
					sr.Logger,
				), nil
			},
		},
	}

	// Register services in the predefined order
	registeredServices := []string{}
	for _, svc := range servicesInOrder {
		if !svc.enabled {
			continue
		}
		if svc.needsMQTT && sr.mqttClient == nil {
			return fmt.Errorf("the %s service requires an MQTT broker", svc.name)
		}
		serviceInstance, err := svc.constructor()
		if err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to create %s service", svc.name)
			return err
		}
		sr.RegisterService(svc.name, serviceInstance)
		registeredServices = append(registeredServices, svc.name)
	}

	sr.Logger.Info().Msgf("Registered services in order: %v", registeredServices)
	return nil
}
