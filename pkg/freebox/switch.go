package freebox

import "context"

// SwitchPortStatus is an entry of switch/status/.
type SwitchPortStatus struct {
	ID      int      `json:"id"`
	Link    string   `json:"link"`
	Mode    string   `json:"mode"`
	Speed   string   `json:"speed"`
	Duplex  string   `json:"duplex"`
	MacList []Object `json:"mac_list,omitempty"`
}

// Switch wraps the switch/ endpoints.
type Switch struct {
	access *Access
}

// GetStatus lists the switch ports.
func (s *Switch) GetStatus(ctx context.Context) ([]SwitchPortStatus, error) {
	var ports []SwitchPortStatus
	err := s.access.Get(ctx, "switch/status/", &ports)
	return ports, err
}

// GetPortConfig returns the configuration of a port.
func (s *Switch) GetPortConfig(ctx context.Context, id int) (Object, error) {
	var config Object
	err := s.access.Get(ctx, "switch/port/"+itoa(id), &config)
	return config, err
}

// SetPortConfig updates the configuration of a port.
func (s *Switch) SetPortConfig(ctx context.Context, id int, config Object) (Object, error) {
	var updated Object
	err := s.access.Put(ctx, "switch/port/"+itoa(id), config, &updated)
	return updated, err
}

// GetPortStats returns the counters of a port.
func (s *Switch) GetPortStats(ctx context.Context, id int) (Object, error) {
	var stats Object
	err := s.access.Get(ctx, "switch/port/"+itoa(id)+"/stats", &stats)
	return stats, err
}
