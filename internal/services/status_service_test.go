package services_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/freebox-agent/internal/metrics_collectors"
	"github.com/benmeehan/freebox-agent/internal/mocks"
	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/internal/services"
)

// capturePublish records every payload published on topic.
func capturePublish(client *mocks.MockMQTTClient, topic string, err error) <-chan []byte {
	payloads := make(chan []byte, 16)
	client.On("Publish", topic, mock.Anything, false, mock.Anything).
		Return(mocks.NewToken(err)).
		Run(func(args mock.Arguments) {
			select {
			case payloads <- args.Get(3).([]byte):
			default:
			}
		})
	return payloads
}

func newRegistry(collectors ...*mocks.MockCollector) *metrics_collectors.MetricsRegistry {
	registry := metrics_collectors.NewMetricsRegistry()
	for _, c := range collectors {
		registry.Register(c)
	}
	return registry
}

func TestStatusService_PublishesReport(t *testing.T) {
	connection := &mocks.MockCollector{CollectorName: "connection"}
	connection.On("Collect", mock.Anything).Return(map[string]any{"state": "up"}, nil)
	wifi := &mocks.MockCollector{CollectorName: "wifi"}
	wifi.On("Collect", mock.Anything).Return(nil, errors.New("insufficient rights"))
	calls := &mocks.MockCollector{CollectorName: "calls"}

	client := new(mocks.MockMQTTClient)
	payloads := capturePublish(client, "freebox/status", nil)

	s := services.NewStatusService("freebox/status", 20*time.Millisecond, time.Second, "mafreebox.freebox.fr", 1,
		&models.StatusConfig{Collectors: []string{"connection", "wifi"}},
		newRegistry(connection, wifi, calls), client, zerolog.Nop())

	require.NoError(t, s.Start())
	defer s.Stop()

	var payload []byte
	select {
	case payload = <-payloads:
	case <-time.After(2 * time.Second):
		t.Fatal("no status published")
	}

	var report models.StatusReport
	require.NoError(t, json.Unmarshal(payload, &report))
	assert.Equal(t, "mafreebox.freebox.fr", report.Host)
	assert.Contains(t, report.Metrics, "connection")
	assert.Equal(t, "insufficient rights", report.Errors["wifi"])
	assert.NotContains(t, report.Metrics, "calls")
	calls.AssertNotCalled(t, "Collect", mock.Anything)
}

func TestStatusService_StartStop(t *testing.T) {
	connection := &mocks.MockCollector{CollectorName: "connection"}
	client := new(mocks.MockMQTTClient)

	s := services.NewStatusService("t", time.Hour, time.Second, "fbx", 0, nil, newRegistry(connection), client, zerolog.Nop())

	require.NoError(t, s.Start())
	err := s.Start()
	assert.EqualError(t, err, "status service is already running")

	require.NoError(t, s.Stop())
	err = s.Stop()
	assert.EqualError(t, err, "status service is not running")

	// The service can be restarted after a stop.
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
}

func TestStatusService_NoCollectorEnabled(t *testing.T) {
	connection := &mocks.MockCollector{CollectorName: "connection"}
	client := new(mocks.MockMQTTClient)

	s := services.NewStatusService("t", time.Hour, time.Second, "fbx", 0,
		&models.StatusConfig{Collectors: []string{"rrd"}}, newRegistry(connection), client, zerolog.Nop())

	assert.EqualError(t, s.Start(), "no collectors enabled in configuration")
}
