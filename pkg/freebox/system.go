package freebox

import "context"

// SystemConfig is the result of system/.
type SystemConfig struct {
	FirmwareVersion  string       `json:"firmware_version"`
	Mac              string       `json:"mac"`
	Serial           string       `json:"serial"`
	Uptime           string       `json:"uptime"`
	UptimeVal        int64        `json:"uptime_val"`
	BoardName        string       `json:"board_name"`
	TempCPUM         int          `json:"temp_cpum"`
	TempSW           int          `json:"temp_sw"`
	TempCPUB         int          `json:"temp_cpub"`
	FanRPM           int          `json:"fan_rpm"`
	BoxAuthenticated bool         `json:"box_authenticated"`
	DiskStatus       string       `json:"disk_status"`
	BoxFlavor        string       `json:"box_flavor"`
	UserMainStorage  string       `json:"user_main_storage"`
	Sensors          []SystemItem `json:"sensors,omitempty"`
	Fans             []SystemItem `json:"fans,omitempty"`
}

// SystemItem is a sensor or fan reading on recent firmwares.
type SystemItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// System wraps the system/ endpoints.
type System struct {
	access *Access
}

// GetConfig returns the system configuration and sensor readings.
func (s *System) GetConfig(ctx context.Context) (*SystemConfig, error) {
	var config SystemConfig
	if err := s.access.Get(ctx, "system/", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Reboot reboots the Freebox. Requires the settings permission.
func (s *System) Reboot(ctx context.Context) error {
	return s.access.Post(ctx, "system/reboot", nil, nil)
}

// Temperatures returns the sensor readings in Celsius keyed by sensor id,
// from the sensor list when present and the fixed fields otherwise.
func (s *SystemConfig) Temperatures() map[string]int {
	temps := make(map[string]int)
	if len(s.Sensors) > 0 {
		for _, sensor := range s.Sensors {
			temps[sensor.ID] = sensor.Value
		}
		return temps
	}
	temps["temp_cpum"] = s.TempCPUM
	temps["temp_cpub"] = s.TempCPUB
	temps["temp_sw"] = s.TempSW
	return temps
}

// FanSpeeds returns the fan speeds in RPM keyed by fan id.
func (s *SystemConfig) FanSpeeds() map[string]int {
	fans := make(map[string]int)
	if len(s.Fans) > 0 {
		for _, fan := range s.Fans {
			fans[fan.ID] = fan.Value
		}
		return fans
	}
	fans["fan_rpm"] = s.FanRPM
	return fans
}
