package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/internal/metrics_collectors"
	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/internal/utils"
	"github.com/benmeehan/freebox-agent/pkg/mqtt"
)

const (
	statusWorkers        = 5
	statusPublishRetries = 3
)

// StatusService periodically runs the enabled collectors against the Freebox
// and publishes the combined report over MQTT.
type StatusService struct {
	pubTopic   string
	interval   time.Duration
	timeout    time.Duration
	host       string
	config     *models.StatusConfig
	registry   *metrics_collectors.MetricsRegistry
	publisher  *mqtt.Publisher
	logger     zerolog.Logger
	workerPool *utils.WorkerPool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStatusService initializes and returns a new instance of StatusService.
func NewStatusService(
	pubTopic string,
	interval, timeout time.Duration,
	host string,
	qos int,
	config *models.StatusConfig,
	registry *metrics_collectors.MetricsRegistry,
	mqttClient mqtt.MQTTClient,
	logger zerolog.Logger,
) *StatusService {
	return &StatusService{
		pubTopic:  pubTopic,
		interval:  interval,
		timeout:   timeout,
		host:      host,
		config:    config,
		registry:  registry,
		publisher: mqtt.NewPublisher(mqttClient, qos, statusPublishRetries, time.Second, logger),
		logger:    logger,
	}
}

// Start initiates periodic collection and publishing.
func (s *StatusService) Start() error {
	if s.ctx != nil {
		s.logger.Warn().Msg("StatusService is already running")
		return errors.New("status service is already running")
	}
	if len(s.enabledCollectors()) == 0 {
		return errors.New("no collectors enabled in configuration")
	}

	s.workerPool = utils.NewWorkerPool(statusWorkers)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go s.runStatusLoop()

	s.logger.Info().Str("topic", s.pubTopic).Dur("interval", s.interval).Msg("StatusService started successfully")
	return nil
}

// Stop gracefully stops the status service.
func (s *StatusService) Stop() error {
	if s.ctx == nil {
		s.logger.Warn().Msg("StatusService is not running")
		return errors.New("status service is not running")
	}

	s.cancel()
	s.wg.Wait()
	s.workerPool.Shutdown()

	s.ctx = nil
	s.cancel = nil

	s.logger.Info().Msg("StatusService stopped successfully")
	return nil
}

func (s *StatusService) enabledCollectors() map[string]metrics_collectors.MetricCollector {
	collectors := make(map[string]metrics_collectors.MetricCollector)
	for name, collector := range s.registry.GetCollectors() {
		if collector.IsEnabled(s.config) {
			collectors[name] = collector
		}
	}
	return collectors
}

func (s *StatusService) runStatusLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report := s.collect()
			if err := s.publisher.PublishJSON(s.pubTopic, report); err != nil {
				s.logger.Error().Err(err).Msg("Failed to publish status")
			}
		case <-s.ctx.Done():
			s.logger.Info().Msg("StatusService stopping gracefully")
			return
		}
	}
}

// collect runs every enabled collector on the worker pool. Failed collectors
// are reported in Errors instead of aborting the round.
func (s *StatusService) collect() *models.StatusReport {
	report := &models.StatusReport{
		Timestamp: time.Now().UTC(),
		Host:      s.host,
		Metrics:   make(map[string]models.Metric),
		Errors:    make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	var wg sync.WaitGroup
	var reportMutex sync.Mutex

	for name, collector := range s.enabledCollectors() {
		wg.Add(1)
		err := s.workerPool.Submit(func() {
			defer wg.Done()
			value, err := collector.Collect(ctx)

			reportMutex.Lock()
			defer reportMutex.Unlock()

			if err != nil {
				s.logger.Warn().Err(err).Str("collector", name).Msg("Collector failed")
				report.Errors[name] = err.Error()
				return
			}
			report.Metrics[name] = models.Metric{Value: value, Unit: collector.Unit()}
		})
		if err != nil {
			wg.Done()
			reportMutex.Lock()
			report.Errors[name] = err.Error()
			reportMutex.Unlock()
		}
	}

	wg.Wait()
	s.logger.Debug().Int("metrics", len(report.Metrics)).Int("errors", len(report.Errors)).Msg("Status collected")
	return report
}
