package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/benmeehan/freebox-agent/pkg/file"
	"github.com/benmeehan/freebox-agent/pkg/identity"
)

// Config represents the structure of the configuration file.
type Config struct {
	Freebox struct {
		Host               string        `yaml:"host"`                 // Freebox host name or address
		Port               int           `yaml:"port"`                 // HTTPS port
		APIVersion         string        `yaml:"api_version"`          // e.g. v8, or auto to ask the box
		Timeout            time.Duration `yaml:"timeout"`              // Per request timeout
		PollInterval       time.Duration `yaml:"poll_interval"`        // Pairing status poll interval
		CACertificate      string        `yaml:"ca_certificate"`       // PEM bundle used to verify the box
		InsecureSkipVerify bool          `yaml:"insecure_skip_verify"` // Skip certificate verification
	} `yaml:"freebox"`

	App struct {
		AppID      string `yaml:"app_id"`
		AppName    string `yaml:"app_name"`
		AppVersion string `yaml:"app_version"`
		DeviceName string `yaml:"device_name"`
	} `yaml:"app"`

	Identity struct {
		TokenFile    string `yaml:"token_file"`     // Path to the app token file
		TokenKeyFile string `yaml:"token_key_file"` // Optional AES key; encrypts the token file when set
	} `yaml:"identity"`

	MQTT struct {
		Broker             string `yaml:"broker"`               // MQTT broker address
		ClientID           string `yaml:"client_id"`            // MQTT client ID prefix
		CACertificate      string `yaml:"ca_certificate"`       // Path to the CA certificate
		Username           string `yaml:"username"`             // Optional broker credentials
		Password           string `yaml:"password"`
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // Skip broker certificate verification
	} `yaml:"mqtt"`

	Services struct {
		Status struct {
			Enabled    bool          `yaml:"enabled"`    // Enable/disable status publishing
			Topic      string        `yaml:"topic"`      // MQTT topic for status reports
			Interval   time.Duration `yaml:"interval"`   // Interval between reports
			Timeout    time.Duration `yaml:"timeout"`    // Deadline for one collection round
			QOS        int           `yaml:"qos"`        // MQTT QoS level
			Collectors []string      `yaml:"collectors"` // Collectors to run; all when empty
		} `yaml:"status"`

		Events struct {
			Enabled        bool          `yaml:"enabled"`         // Enable/disable event forwarding
			Topic          string        `yaml:"topic"`           // Topic prefix; the event name is appended
			QOS            int           `yaml:"qos"`             // MQTT QoS level
			Events         []string      `yaml:"events"`          // Freebox events to subscribe to
			ReconnectDelay time.Duration `yaml:"reconnect_delay"` // Wait before reopening a dropped stream
		} `yaml:"events"`

		Metrics struct {
			Enabled bool   `yaml:"enabled"` // Enable/disable the Prometheus endpoint
			Listen  string `yaml:"listen"`  // Listen address, e.g. :9091
			Path    string `yaml:"path"`    // Metrics path
		} `yaml:"metrics"`
	} `yaml:"services"`

	Logging struct {
		Level string `yaml:"level"` // debug, info, warn, error
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration used for every key the file leaves out.
func DefaultConfig() *Config {
	var config Config

	config.Freebox.Host = "mafreebox.freebox.fr"
	config.Freebox.Port = 443
	config.Freebox.APIVersion = "v3"
	config.Freebox.Timeout = 10 * time.Second
	config.Freebox.PollInterval = time.Second

	desc := identity.DefaultAppDescriptor()
	config.App.AppID = desc.AppID
	config.App.AppName = desc.AppName
	config.App.AppVersion = desc.AppVersion
	config.App.DeviceName = desc.DeviceName

	config.Identity.TokenFile = "app_auth"

	config.MQTT.ClientID = "freebox-agent"

	config.Services.Status.Topic = "freebox/status"
	config.Services.Status.Interval = 30 * time.Second
	config.Services.Status.Timeout = 10 * time.Second
	config.Services.Status.QOS = 1

	config.Services.Events.Topic = "freebox/events"
	config.Services.Events.QOS = 1
	config.Services.Events.ReconnectDelay = 5 * time.Second

	config.Services.Metrics.Listen = ":9091"
	config.Services.Metrics.Path = "/metrics"

	config.Logging.Level = "info"
	return &config
}

// LoadConfig reads the YAML configuration on top of DefaultConfig and applies
// FREEBOX_* environment overrides. A missing file yields the defaults.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	config := DefaultConfig()

	if filename != "" {
		exists, err := fileClient.IsFileExists(filename)
		if err != nil {
			return nil, err
		}
		if exists {
			if err := fileClient.ReadYamlFile(filename, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := ApplyEnv(config, os.LookupEnv); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides config values from the environment.
func ApplyEnv(config *Config, lookup func(string) (string, bool)) error {
	textVars := map[string]*string{
		"FREEBOX_HOST":           &config.Freebox.Host,
		"FREEBOX_API_VERSION":    &config.Freebox.APIVersion,
		"FREEBOX_CA_CERTIFICATE": &config.Freebox.CACertificate,
		"FREEBOX_TOKEN_FILE":     &config.Identity.TokenFile,
		"FREEBOX_TOKEN_KEY_FILE": &config.Identity.TokenKeyFile,
		"FREEBOX_DEVICE_NAME":    &config.App.DeviceName,
		"FREEBOX_MQTT_BROKER":    &config.MQTT.Broker,
		"FREEBOX_MQTT_USERNAME":  &config.MQTT.Username,
		"FREEBOX_MQTT_PASSWORD":  &config.MQTT.Password,
		"FREEBOX_METRICS_LISTEN": &config.Services.Metrics.Listen,
		"FREEBOX_LOG_LEVEL":      &config.Logging.Level,
	}
	for key, dst := range textVars {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("FREEBOX_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FREEBOX_PORT %q: %w", v, err)
		}
		config.Freebox.Port = port
	}
	if v, ok := lookup("FREEBOX_STATUS_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FREEBOX_STATUS_INTERVAL %q: %w", v, err)
		}
		config.Services.Status.Interval = d
	}
	return nil
}
