// Package exporter exposes Freebox state and client traffic as Prometheus metrics.
package exporter

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

const namespace = "freebox"

// ConnectionReader is implemented by *freebox.Connection.
type ConnectionReader interface {
	GetStatus(ctx context.Context) (*freebox.ConnectionStatus, error)
}

// SystemReader is implemented by *freebox.System.
type SystemReader interface {
	GetConfig(ctx context.Context) (*freebox.SystemConfig, error)
}

// Collector implements prometheus.Collector by querying the Freebox on each scrape.
type Collector struct {
	connection ConnectionReader
	system     SystemReader
	timeout    time.Duration
	logger     zerolog.Logger
	mu         sync.Mutex

	// Connection metrics
	upDesc            *prometheus.Desc
	rateDownDesc      *prometheus.Desc
	rateUpDesc        *prometheus.Desc
	bytesDownDesc     *prometheus.Desc
	bytesUpDesc       *prometheus.Desc
	bandwidthDownDesc *prometheus.Desc
	bandwidthUpDesc   *prometheus.Desc

	// System metrics
	temperatureDesc *prometheus.Desc
	fanDesc         *prometheus.Desc
	uptimeDesc      *prometheus.Desc

	// Scrape metrics
	scrapeSuccessDesc  *prometheus.Desc
	scrapeDurationDesc *prometheus.Desc
}

// NewCollector creates a Collector reading from connection and system.
// Each scrape is bounded by timeout.
func NewCollector(connection ConnectionReader, system SystemReader, timeout time.Duration, logger zerolog.Logger) *Collector {
	media := []string{"media"}

	return &Collector{
		connection: connection,
		system:     system,
		timeout:    timeout,
		logger:     logger,

		upDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "connection", "up"),
			"Whether the WAN connection is up",
			media,
			nil,
		),
		rateDownDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "connection", "rate_down_bytes"),
			"Current download rate in bytes per second",
			media,
			nil,
		),
		rateUpDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "connection", "rate_up_bytes"),
			"Current upload rate in bytes per second",
			media,
			nil,
		),
		bytesDownDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "connection", "received_bytes_total"),
			"Bytes received since the link came up",
			media,
			nil,
		),
		bytesUpDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "connection", "sent_bytes_total"),
			"Bytes sent since the link came up",
			media,
			nil,
		),
		bandwidthDownDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "connection", "bandwidth_down_bits"),
			"Available download bandwidth in bits per second",
			media,
			nil,
		),
		bandwidthUpDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "connection", "bandwidth_up_bits"),
			"Available upload bandwidth in bits per second",
			media,
			nil,
		),
		temperatureDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "system", "temperature_celsius"),
			"Sensor temperature in Celsius",
			[]string{"sensor"},
			nil,
		),
		fanDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "system", "fan_rpm"),
			"Fan speed in RPM",
			[]string{"fan"},
			nil,
		),
		uptimeDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "system", "uptime_seconds"),
			"Time since the last reboot",
			[]string{"firmware"},
			nil,
		),
		scrapeSuccessDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "scrape", "success"),
			"Whether the last scrape was successful",
			[]string{"group"},
			nil,
		),
		scrapeDurationDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "scrape", "duration_seconds"),
			"Duration of the last scrape in seconds",
			nil,
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.upDesc
	ch <- c.rateDownDesc
	ch <- c.rateUpDesc
	ch <- c.bytesDownDesc
	ch <- c.bytesUpDesc
	ch <- c.bandwidthDownDesc
	ch <- c.bandwidthUpDesc
	ch <- c.temperatureDesc
	ch <- c.fanDesc
	ch <- c.uptimeDesc
	ch <- c.scrapeSuccessDesc
	ch <- c.scrapeDurationDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		ch <- prometheus.MustNewConstMetric(c.scrapeDurationDesc, prometheus.GaugeValue, v)
	}))
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	c.collectConnection(ctx, ch)
	c.collectSystem(ctx, ch)
}

func (c *Collector) collectConnection(ctx context.Context, ch chan<- prometheus.Metric) {
	status, err := c.connection.GetStatus(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error collecting connection metrics")
		ch <- prometheus.MustNewConstMetric(c.scrapeSuccessDesc, prometheus.GaugeValue, 0, "connection")
		return
	}
	ch <- prometheus.MustNewConstMetric(c.scrapeSuccessDesc, prometheus.GaugeValue, 1, "connection")

	up := 0.0
	if status.State == "up" {
		up = 1
	}
	media := status.Media

	ch <- prometheus.MustNewConstMetric(c.upDesc, prometheus.GaugeValue, up, media)
	ch <- prometheus.MustNewConstMetric(c.rateDownDesc, prometheus.GaugeValue, float64(status.RateDown), media)
	ch <- prometheus.MustNewConstMetric(c.rateUpDesc, prometheus.GaugeValue, float64(status.RateUp), media)
	ch <- prometheus.MustNewConstMetric(c.bytesDownDesc, prometheus.CounterValue, float64(status.BytesDown), media)
	ch <- prometheus.MustNewConstMetric(c.bytesUpDesc, prometheus.CounterValue, float64(status.BytesUp), media)
	ch <- prometheus.MustNewConstMetric(c.bandwidthDownDesc, prometheus.GaugeValue, float64(status.BandwidthDown), media)
	ch <- prometheus.MustNewConstMetric(c.bandwidthUpDesc, prometheus.GaugeValue, float64(status.BandwidthUp), media)
}

func (c *Collector) collectSystem(ctx context.Context, ch chan<- prometheus.Metric) {
	config, err := c.system.GetConfig(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error collecting system metrics")
		ch <- prometheus.MustNewConstMetric(c.scrapeSuccessDesc, prometheus.GaugeValue, 0, "system")
		return
	}
	ch <- prometheus.MustNewConstMetric(c.scrapeSuccessDesc, prometheus.GaugeValue, 1, "system")

	for sensor, value := range config.Temperatures() {
		ch <- prometheus.MustNewConstMetric(c.temperatureDesc, prometheus.GaugeValue, float64(value), sensor)
	}
	for fan, value := range config.FanSpeeds() {
		ch <- prometheus.MustNewConstMetric(c.fanDesc, prometheus.GaugeValue, float64(value), fan)
	}
	ch <- prometheus.MustNewConstMetric(c.uptimeDesc, prometheus.GaugeValue, float64(config.UptimeVal), config.FirmwareVersion)
}
