package freebox

import "context"

// PortForward is a NAT redirection (fw/redir/).
type PortForward struct {
	ID           int    `json:"id,omitempty"`
	Enabled      bool   `json:"enabled"`
	Comment      string `json:"comment,omitempty"`
	LanPort      int    `json:"lan_port"`
	WanPortStart int    `json:"wan_port_start"`
	WanPortEnd   int    `json:"wan_port_end"`
	LanIP        string `json:"lan_ip"`
	IPProto      string `json:"ip_proto"`
	SrcIP        string `json:"src_ip,omitempty"`
	Hostname     string `json:"hostname,omitempty"`
}

// IncomingPort is a port the Freebox itself listens on (fw/incoming/).
type IncomingPort struct {
	ID       string `json:"id"`
	Enabled  bool   `json:"enabled"`
	Active   bool   `json:"active"`
	InPort   int    `json:"in_port"`
	Type     string `json:"type"`
	Readonly bool   `json:"readonly"`
	Netns    string `json:"netns,omitempty"`
}

// DMZConfig is the result of fw/dmz/.
type DMZConfig struct {
	Enabled bool   `json:"enabled"`
	IP      string `json:"ip"`
}

// Fw wraps the NAT endpoints: port forwarding, incoming ports and DMZ.
type Fw struct {
	access *Access
}

// GetPortForwards lists the redirections.
func (f *Fw) GetPortForwards(ctx context.Context) ([]PortForward, error) {
	var redirs []PortForward
	err := f.access.Get(ctx, "fw/redir/", &redirs)
	return redirs, err
}

// GetPortForward returns one redirection.
func (f *Fw) GetPortForward(ctx context.Context, id int) (*PortForward, error) {
	var redir PortForward
	if err := f.access.Get(ctx, "fw/redir/"+itoa(id), &redir); err != nil {
		return nil, err
	}
	return &redir, nil
}

// CreatePortForward adds a redirection.
func (f *Fw) CreatePortForward(ctx context.Context, redir PortForward) (*PortForward, error) {
	var created PortForward
	if err := f.access.Post(ctx, "fw/redir/", redir, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePortForward updates a redirection, e.g. {"enabled": false}.
func (f *Fw) UpdatePortForward(ctx context.Context, id int, update Object) (*PortForward, error) {
	var updated PortForward
	if err := f.access.Put(ctx, "fw/redir/"+itoa(id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePortForward removes a redirection.
func (f *Fw) DeletePortForward(ctx context.Context, id int) error {
	return f.access.Delete(ctx, "fw/redir/"+itoa(id), nil, nil)
}

// GetIncomingPorts lists the Freebox services reachable from the WAN.
func (f *Fw) GetIncomingPorts(ctx context.Context) ([]IncomingPort, error) {
	var ports []IncomingPort
	err := f.access.Get(ctx, "fw/incoming/", &ports)
	return ports, err
}

// GetIncomingPort returns one incoming port.
func (f *Fw) GetIncomingPort(ctx context.Context, id string) (*IncomingPort, error) {
	var port IncomingPort
	if err := f.access.Get(ctx, "fw/incoming/"+escape(id), &port); err != nil {
		return nil, err
	}
	return &port, nil
}

// UpdateIncomingPort changes an incoming port, e.g. {"in_port": 8080}.
func (f *Fw) UpdateIncomingPort(ctx context.Context, id string, update Object) (*IncomingPort, error) {
	var port IncomingPort
	if err := f.access.Put(ctx, "fw/incoming/"+escape(id), update, &port); err != nil {
		return nil, err
	}
	return &port, nil
}

// GetDMZConfig returns the DMZ configuration.
func (f *Fw) GetDMZConfig(ctx context.Context) (*DMZConfig, error) {
	var dmz DMZConfig
	if err := f.access.Get(ctx, "fw/dmz/", &dmz); err != nil {
		return nil, err
	}
	return &dmz, nil
}

// SetDMZConfig updates the DMZ configuration.
func (f *Fw) SetDMZConfig(ctx context.Context, dmz DMZConfig) (*DMZConfig, error) {
	var updated DMZConfig
	if err := f.access.Put(ctx, "fw/dmz/", dmz, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
