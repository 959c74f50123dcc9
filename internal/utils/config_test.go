package utils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/freebox-agent/internal/utils"
	"github.com/benmeehan/freebox-agent/pkg/file"
)

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	config, err := utils.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, 443, config.Freebox.Port)
	assert.Equal(t, "v3", config.Freebox.APIVersion)
	assert.Equal(t, time.Second, config.Freebox.PollInterval)
	assert.Equal(t, "app_auth", config.Identity.TokenFile)
	assert.Equal(t, "/metrics", config.Services.Metrics.Path)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
freebox:
  host: 192.168.1.254
  api_version: auto
  timeout: 3s
services:
  status:
    enabled: true
    interval: 1m
    collectors: [connection, system]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	config, err := utils.LoadConfig(path, file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.254", config.Freebox.Host)
	assert.Equal(t, 443, config.Freebox.Port)
	assert.Equal(t, "auto", config.Freebox.APIVersion)
	assert.Equal(t, 3*time.Second, config.Freebox.Timeout)
	assert.True(t, config.Services.Status.Enabled)
	assert.Equal(t, time.Minute, config.Services.Status.Interval)
	assert.Equal(t, []string{"connection", "system"}, config.Services.Status.Collectors)
	assert.Equal(t, "freebox/status", config.Services.Status.Topic)
}

func TestLoadConfig_InvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("freebox: [\n"), 0600))

	_, err := utils.LoadConfig(path, file.NewFileService())
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FREEBOX_HOST":            "fbx.example",
		"FREEBOX_PORT":            "8443",
		"FREEBOX_MQTT_BROKER":     "ssl://broker:8883",
		"FREEBOX_STATUS_INTERVAL": "15s",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	config := utils.DefaultConfig()
	require.NoError(t, utils.ApplyEnv(config, lookup))

	assert.Equal(t, "fbx.example", config.Freebox.Host)
	assert.Equal(t, 8443, config.Freebox.Port)
	assert.Equal(t, "ssl://broker:8883", config.MQTT.Broker)
	assert.Equal(t, 15*time.Second, config.Services.Status.Interval)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "FREEBOX_PORT" {
			return "https", true
		}
		return "", false
	}
	assert.Error(t, utils.ApplyEnv(utils.DefaultConfig(), lookup))
}
