package exporter_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/benmeehan/freebox-agent/internal/exporter"
	"github.com/benmeehan/freebox-agent/internal/mocks"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

func newReaders() (*mocks.MockConnectionReader, *mocks.MockSystemReader) {
	connection := new(mocks.MockConnectionReader)
	connection.On("GetStatus", mock.Anything).Return(&freebox.ConnectionStatus{
		State: "up", Media: "ftth", RateDown: 2500, RateUp: 800,
		BytesDown: 1 << 20, BytesUp: 1 << 10, BandwidthDown: 1e9, BandwidthUp: 6e8,
	}, nil)

	system := new(mocks.MockSystemReader)
	system.On("GetConfig", mock.Anything).Return(&freebox.SystemConfig{
		FirmwareVersion: "4.7.3", UptimeVal: 86400, TempCPUM: 61, TempCPUB: 57, TempSW: 49, FanRPM: 1650,
	}, nil)
	return connection, system
}

func TestCollector_Connection(t *testing.T) {
	connection, system := newReaders()
	c := exporter.NewCollector(connection, system, time.Second, zerolog.Nop())

	expected := `
# HELP freebox_connection_up Whether the WAN connection is up
# TYPE freebox_connection_up gauge
freebox_connection_up{media="ftth"} 1
# HELP freebox_connection_rate_down_bytes Current download rate in bytes per second
# TYPE freebox_connection_rate_down_bytes gauge
freebox_connection_rate_down_bytes{media="ftth"} 2500
# HELP freebox_connection_received_bytes_total Bytes received since the link came up
# TYPE freebox_connection_received_bytes_total counter
freebox_connection_received_bytes_total{media="ftth"} 1.048576e+06
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"freebox_connection_up", "freebox_connection_rate_down_bytes", "freebox_connection_received_bytes_total")
	assert.NoError(t, err)
}

func TestCollector_System(t *testing.T) {
	connection, system := newReaders()
	c := exporter.NewCollector(connection, system, time.Second, zerolog.Nop())

	expected := `
# HELP freebox_system_temperature_celsius Sensor temperature in Celsius
# TYPE freebox_system_temperature_celsius gauge
freebox_system_temperature_celsius{sensor="temp_cpub"} 57
freebox_system_temperature_celsius{sensor="temp_cpum"} 61
freebox_system_temperature_celsius{sensor="temp_sw"} 49
# HELP freebox_system_fan_rpm Fan speed in RPM
# TYPE freebox_system_fan_rpm gauge
freebox_system_fan_rpm{fan="fan_rpm"} 1650
# HELP freebox_system_uptime_seconds Time since the last reboot
# TYPE freebox_system_uptime_seconds gauge
freebox_system_uptime_seconds{firmware="4.7.3"} 86400
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"freebox_system_temperature_celsius", "freebox_system_fan_rpm", "freebox_system_uptime_seconds")
	assert.NoError(t, err)
}

func TestCollector_ScrapeFailure(t *testing.T) {
	connection := new(mocks.MockConnectionReader)
	connection.On("GetStatus", mock.Anything).Return(nil, errors.New("unreachable"))
	_, system := newReaders()
	c := exporter.NewCollector(connection, system, time.Second, zerolog.Nop())

	expected := `
# HELP freebox_scrape_success Whether the last scrape was successful
# TYPE freebox_scrape_success gauge
freebox_scrape_success{group="connection"} 0
freebox_scrape_success{group="system"} 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected), "freebox_scrape_success")
	assert.NoError(t, err)
	assert.Equal(t, 0, testutil.CollectAndCount(c, "freebox_connection_up"))
	assert.Equal(t, 1, testutil.CollectAndCount(c, "freebox_scrape_duration_seconds"))
}

func TestClientMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := exporter.NewClientMetrics(reg)

	m.RequestDone("GET", nil)
	m.RequestDone("GET", nil)
	m.RequestDone("POST", &freebox.Error{Kind: freebox.ErrorKindInsufficientRights})
	m.RequestDone("PUT", &freebox.Error{Kind: freebox.ErrorKindRequest})
	m.RequestDone("GET", errors.New("dial tcp: refused"))
	m.SessionOpened(nil)
	m.SessionOpened(&freebox.Error{Kind: freebox.ErrorKindAuthorization})
	m.Retried()

	expected := `
# HELP freebox_client_requests_total API calls by method and outcome.
# TYPE freebox_client_requests_total counter
freebox_client_requests_total{method="GET",outcome="success"} 2
freebox_client_requests_total{method="GET",outcome="transport"} 1
freebox_client_requests_total{method="POST",outcome="insufficient_rights"} 1
freebox_client_requests_total{method="PUT",outcome="request"} 1
# HELP freebox_client_sessions_total Session logins by outcome.
# TYPE freebox_client_sessions_total counter
freebox_client_sessions_total{outcome="authorization"} 1
freebox_client_sessions_total{outcome="success"} 1
# HELP freebox_client_retries_total Requests replayed after a session refresh.
# TYPE freebox_client_retries_total counter
freebox_client_retries_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}
