package freebox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// APIVersion describes a Freebox as advertised by its api_version document.
type APIVersion struct {
	APIVersion     string `json:"api_version"`
	APIBaseURL     string `json:"api_base_url"`
	APIDomain      string `json:"api_domain"`
	HTTPSAvailable bool   `json:"https_available"`
	HTTPSPort      int    `json:"https_port"`
	DeviceName     string `json:"device_name"`
	DeviceType     string `json:"device_type"`
	BoxModel       string `json:"box_model"`
	BoxModelName   string `json:"box_model_name"`
	UID            string `json:"uid"`
}

// Major returns the API path segment for this version, e.g. "v8" for "8.0".
func (v *APIVersion) Major() (string, error) {
	version, err := semver.NewVersion(v.APIVersion)
	if err != nil {
		return "", fmt.Errorf("invalid api_version %q: %w", v.APIVersion, err)
	}
	return fmt.Sprintf("v%d", version.Major()), nil
}

// Discover fetches http://<host>/api_version. A nil httpClient uses http.DefaultClient.
func Discover(ctx context.Context, httpClient *http.Client, host string) (*APIVersion, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	root := host
	if !strings.Contains(host, "://") {
		root = "http://" + host
	}
	return discover(ctx, httpClient, root)
}

func discover(ctx context.Context, httpClient *http.Client, root string) (*APIVersion, error) {
	res, err := exchange(ctx, httpClient, http.MethodGet, strings.TrimSuffix(root, "/")+"/api_version", nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to discover Freebox: %w", err)
	}
	if !res.isJSON() {
		return nil, fmt.Errorf("failed to discover Freebox: unexpected %q response", res.contentType)
	}

	var version APIVersion
	if err := json.Unmarshal(res.raw, &version); err != nil {
		return nil, fmt.Errorf("failed to decode api_version: %w", err)
	}
	return &version, nil
}
