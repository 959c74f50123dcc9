package freebox

import "context"

// LANInterface is an entry of lan/browser/interfaces.
type LANInterface struct {
	Name      string `json:"name"`
	HostCount int    `json:"host_count"`
}

// LANHost is a device seen on the local network.
type LANHost struct {
	ID                string          `json:"id"`
	PrimaryName       string          `json:"primary_name"`
	HostType          string          `json:"host_type"`
	PrimaryNameManual bool            `json:"primary_name_manual"`
	L2Ident           LANHostL2Ident  `json:"l2ident"`
	VendorName        string          `json:"vendor_name"`
	Persistent        bool            `json:"persistent"`
	Reachable         bool            `json:"reachable"`
	LastTimeReachable int64           `json:"last_time_reachable"`
	Active            bool            `json:"active"`
	LastActivity      int64           `json:"last_activity"`
	FirstActivity     int64           `json:"first_activity"`
	L3Connectivities  []LANHostL3Conn `json:"l3connectivities"`
}

// LANHostL2Ident identifies a host at the link layer.
type LANHostL2Ident struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// LANHostL3Conn is one address known for a host.
type LANHostL3Conn struct {
	Addr      string `json:"addr"`
	Af        string `json:"af"`
	Active    bool   `json:"active"`
	Reachable bool   `json:"reachable"`
}

// WakeOnLANRequest is the payload of lan/wol/.
type WakeOnLANRequest struct {
	Mac      string `json:"mac"`
	Password string `json:"password"`
}

// LAN wraps the lan/ endpoints.
type LAN struct {
	access *Access
}

// GetConfig returns the LAN configuration.
func (l *LAN) GetConfig(ctx context.Context) (Object, error) {
	var config Object
	err := l.access.Get(ctx, "lan/config/", &config)
	return config, err
}

// SetConfig updates the LAN configuration.
func (l *LAN) SetConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := l.access.Put(ctx, "lan/config/", config, &updated)
	return updated, err
}

// GetInterfaces lists the browsable interfaces.
func (l *LAN) GetInterfaces(ctx context.Context) ([]LANInterface, error) {
	var interfaces []LANInterface
	err := l.access.Get(ctx, "lan/browser/interfaces", &interfaces)
	return interfaces, err
}

// GetHosts lists the hosts seen on iface, usually "pub".
func (l *LAN) GetHosts(ctx context.Context, iface string) ([]LANHost, error) {
	var hosts []LANHost
	err := l.access.Get(ctx, "lan/browser/"+escape(iface), &hosts)
	return hosts, err
}

// GetHost returns one host.
func (l *LAN) GetHost(ctx context.Context, iface, hostID string) (*LANHost, error) {
	var host LANHost
	if err := l.access.Get(ctx, "lan/browser/"+escape(iface)+"/"+escape(hostID), &host); err != nil {
		return nil, err
	}
	return &host, nil
}

// UpdateHost changes the name or type of a host.
func (l *LAN) UpdateHost(ctx context.Context, iface, hostID string, update Object) (*LANHost, error) {
	var host LANHost
	if err := l.access.Put(ctx, "lan/browser/"+escape(iface)+"/"+escape(hostID), update, &host); err != nil {
		return nil, err
	}
	return &host, nil
}

// WakeOnLAN sends a magic packet on iface.
func (l *LAN) WakeOnLAN(ctx context.Context, iface string, req WakeOnLANRequest) error {
	return l.access.Post(ctx, "lan/wol/"+escape(iface)+"/", req, nil)
}
