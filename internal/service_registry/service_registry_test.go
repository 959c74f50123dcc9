package service_registry_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/freebox-agent/internal/mocks"
	"github.com/benmeehan/freebox-agent/internal/service_registry"
	"github.com/benmeehan/freebox-agent/internal/utils"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) record(entry string) func(mock.Arguments) {
	return func(mock.Arguments) {
		j.mu.Lock()
		defer j.mu.Unlock()
		j.entries = append(j.entries, entry)
	}
}

func newService(j *journal, name string, startErr, stopErr error) *mocks.MockService {
	svc := new(mocks.MockService)
	svc.On("Start").Return(startErr).Run(j.record("start " + name))
	svc.On("Stop").Return(stopErr).Run(j.record("stop " + name))
	return svc
}

func TestServiceRegistry_StartStopOrder(t *testing.T) {
	j := &journal{}
	sr := service_registry.NewServiceRegistry(nil, nil, zerolog.Nop())
	sr.RegisterService("a", newService(j, "a", nil, nil))
	sr.RegisterService("b", newService(j, "b", nil, nil))
	sr.RegisterService("a", newService(j, "dup", nil, nil))

	require.NoError(t, sr.StartServices())
	require.NoError(t, sr.StopServices())

	assert.Equal(t, []string{"a", "b"}, sr.Services())
	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, j.entries)
}

func TestServiceRegistry_RollbackOnStartFailure(t *testing.T) {
	j := &journal{}
	sr := service_registry.NewServiceRegistry(nil, nil, zerolog.Nop())
	sr.RegisterService("a", newService(j, "a", nil, nil))
	sr.RegisterService("b", newService(j, "b", nil, nil))
	sr.RegisterService("c", newService(j, "c", errors.New("bind: address in use"), nil))

	err := sr.StartServices()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start c")
	assert.Equal(t, []string{"start a", "start b", "start c", "stop b", "stop a"}, j.entries)
}

func TestServiceRegistry_StopJoinsErrors(t *testing.T) {
	j := &journal{}
	sr := service_registry.NewServiceRegistry(nil, nil, zerolog.Nop())
	sr.RegisterService("a", newService(j, "a", nil, errors.New("a failed")))
	sr.RegisterService("b", newService(j, "b", nil, errors.New("b failed")))

	err := sr.StopServices()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stop a: a failed")
	assert.Contains(t, err.Error(), "failed to stop b: b failed")
}

func TestServiceRegistry_RegisterServices(t *testing.T) {
	config := utils.DefaultConfig()
	config.Services.Metrics.Enabled = true
	config.Services.Status.Enabled = true
	config.Services.Events.Enabled = true
	config.Services.Events.Events = []string{freebox.EventLANHostL3AddrReachable}

	sr := service_registry.NewServiceRegistry(new(mocks.MockMQTTClient), prometheus.NewRegistry(), zerolog.Nop())
	require.NoError(t, sr.RegisterServices(config, freebox.New()))
	assert.Equal(t, []string{"metrics", "status", "events"}, sr.Services())
}

func TestServiceRegistry_RegisterServicesWithoutBroker(t *testing.T) {
	config := utils.DefaultConfig()
	config.Services.Metrics.Enabled = true
	config.Services.Status.Enabled = true

	sr := service_registry.NewServiceRegistry(nil, prometheus.NewRegistry(), zerolog.Nop())
	err := sr.RegisterServices(config, freebox.New())
	assert.EqualError(t, err, "the status service requires an MQTT broker")
}

func TestServiceRegistry_DisabledServicesAreSkipped(t *testing.T) {
	sr := service_registry.NewServiceRegistry(nil, nil, zerolog.Nop())
	require.NoError(t, sr.RegisterServices(utils.DefaultConfig(), freebox.New()))
	assert.Empty(t, sr.Services())
}
