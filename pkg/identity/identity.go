package identity

import (
	"fmt"
	"os"
	"strings"
)

// Default identity presented to the Freebox when the configuration leaves it empty.
const (
	DefaultAppID      = "fbxagent"
	DefaultAppName    = "freebox-agent"
	DefaultAppVersion = "1.0.0"
)

// AppDescriptor is the static identity an application presents when it asks the
// Freebox for an application token.
type AppDescriptor struct {
	AppID      string `json:"app_id"`
	AppName    string `json:"app_name"`
	AppVersion string `json:"app_version"`
	DeviceName string `json:"device_name"`
}

// DefaultAppDescriptor returns the default descriptor, named after the local hostname.
func DefaultAppDescriptor() AppDescriptor {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "localhost"
	}
	return AppDescriptor{
		AppID:      DefaultAppID,
		AppName:    DefaultAppName,
		AppVersion: DefaultAppVersion,
		DeviceName: hostname,
	}
}

// Missing returns the JSON names of the descriptor fields that are empty.
func (d AppDescriptor) Missing() []string {
	var missing []string
	if d.AppID == "" {
		missing = append(missing, "app_id")
	}
	if d.AppName == "" {
		missing = append(missing, "app_name")
	}
	if d.AppVersion == "" {
		missing = append(missing, "app_version")
	}
	if d.DeviceName == "" {
		missing = append(missing, "device_name")
	}
	return missing
}

// Validate fails when any of the four identity fields is empty.
func (d AppDescriptor) Validate() error {
	if missing := d.Missing(); len(missing) > 0 {
		return fmt.Errorf("missing application descriptor fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
