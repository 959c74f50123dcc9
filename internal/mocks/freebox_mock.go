package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

// MockConnectionReader mocks the connection/ wrapper.
type MockConnectionReader struct {
	mock.Mock
}

func (m *MockConnectionReader) GetStatus(ctx context.Context) (*freebox.ConnectionStatus, error) {
	args := m.Called(ctx)
	status, _ := args.Get(0).(*freebox.ConnectionStatus)
	return status, args.Error(1)
}

// MockSystemReader mocks the system/ wrapper.
type MockSystemReader struct {
	mock.Mock
}

func (m *MockSystemReader) GetConfig(ctx context.Context) (*freebox.SystemConfig, error) {
	args := m.Called(ctx)
	config, _ := args.Get(0).(*freebox.SystemConfig)
	return config, args.Error(1)
}

// MockWifiReader mocks the wifi/ wrapper.
type MockWifiReader struct {
	mock.Mock
}

func (m *MockWifiReader) GetGlobalConfig(ctx context.Context) (*freebox.WifiGlobalConfig, error) {
	args := m.Called(ctx)
	config, _ := args.Get(0).(*freebox.WifiGlobalConfig)
	return config, args.Error(1)
}

func (m *MockWifiReader) GetAPs(ctx context.Context) ([]freebox.WifiAP, error) {
	args := m.Called(ctx)
	aps, _ := args.Get(0).([]freebox.WifiAP)
	return aps, args.Error(1)
}

func (m *MockWifiReader) GetStations(ctx context.Context, apID int) ([]freebox.WifiStation, error) {
	args := m.Called(ctx, apID)
	stations, _ := args.Get(0).([]freebox.WifiStation)
	return stations, args.Error(1)
}

// MockLANReader mocks the lan/ wrapper.
type MockLANReader struct {
	mock.Mock
}

func (m *MockLANReader) GetInterfaces(ctx context.Context) ([]freebox.LANInterface, error) {
	args := m.Called(ctx)
	ifaces, _ := args.Get(0).([]freebox.LANInterface)
	return ifaces, args.Error(1)
}

func (m *MockLANReader) GetHosts(ctx context.Context, iface string) ([]freebox.LANHost, error) {
	args := m.Called(ctx, iface)
	hosts, _ := args.Get(0).([]freebox.LANHost)
	return hosts, args.Error(1)
}

// MockCallReader mocks the call/log/ wrapper.
type MockCallReader struct {
	mock.Mock
}

func (m *MockCallReader) GetLog(ctx context.Context) ([]freebox.CallEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]freebox.CallEntry)
	return entries, args.Error(1)
}

// MockCollector is a mock metrics_collectors.MetricCollector.
type MockCollector struct {
	mock.Mock
	CollectorName string
}

func (m *MockCollector) Name() string { return m.CollectorName }

func (m *MockCollector) Collect(ctx context.Context) (interface{}, error) {
	args := m.Called(ctx)
	return args.Get(0), args.Error(1)
}

func (m *MockCollector) IsEnabled(config *models.StatusConfig) bool {
	if config == nil || len(config.Collectors) == 0 {
		return true
	}
	for _, name := range config.Collectors {
		if name == m.CollectorName {
			return true
		}
	}
	return false
}

func (m *MockCollector) Unit() string        { return "count" }
func (m *MockCollector) Description() string { return m.CollectorName }
