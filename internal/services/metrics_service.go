package services

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const metricsShutdownTimeout = 5 * time.Second

// MetricsService serves the Prometheus registry over HTTP.
type MetricsService struct {
	listen   string
	path     string
	gatherer prometheus.Gatherer
	logger   zerolog.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	wg       sync.WaitGroup
}

// NewMetricsService initializes and returns a new instance of MetricsService.
func NewMetricsService(listen, path string, gatherer prometheus.Gatherer, logger zerolog.Logger) *MetricsService {
	return &MetricsService{
		listen:   listen,
		path:     path,
		gatherer: gatherer,
		logger:   logger,
	}
}

// Start binds the listen address and serves in the background.
func (m *MetricsService) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server != nil {
		m.logger.Warn().Msg("MetricsService is already running")
		return errors.New("metrics service is already running")
	}

	listener, err := net.Listen("tcp", m.listen)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(m.path, promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	m.listener = listener
	m.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	m.wg.Add(1)
	go func(server *http.Server) {
		defer m.wg.Done()
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error().Err(err).Msg("Metrics server error")
		}
	}(m.server)

	m.logger.Info().Str("addr", listener.Addr().String()).Str("path", m.path).Msg("MetricsService started successfully")
	return nil
}

// Addr returns the bound address, or nil when not running.
func (m *MetricsService) Addr() net.Addr {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listener == nil {
		return nil
	}
	return m.listener.Addr()
}

// Stop shuts the HTTP server down.
func (m *MetricsService) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil {
		m.logger.Warn().Msg("MetricsService is not running")
		return errors.New("metrics service is not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	err := m.server.Shutdown(ctx)
	m.wg.Wait()

	m.server = nil
	m.listener = nil
	m.logger.Info().Msg("MetricsService stopped successfully")
	return err
}
