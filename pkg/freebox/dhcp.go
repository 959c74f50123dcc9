package freebox

import "context"

// DHCPConfig is the result of dhcp/config/.
type DHCPConfig struct {
	Enabled         bool     `json:"enabled"`
	StickyAssign    bool     `json:"sticky_assign"`
	Gateway         string   `json:"gateway"`
	Netmask         string   `json:"netmask"`
	IPRangeStart    string   `json:"ip_range_start"`
	IPRangeEnd      string   `json:"ip_range_end"`
	AlwaysBroadcast bool     `json:"always_broadcast"`
	DNS             []string `json:"dns"`
}

// DHCPLease is a dynamic or static lease.
type DHCPLease struct {
	ID             string   `json:"id,omitempty"`
	Mac            string   `json:"mac"`
	IP             string   `json:"ip"`
	Hostname       string   `json:"hostname,omitempty"`
	Comment        string   `json:"comment,omitempty"`
	IsStatic       bool     `json:"is_static,omitempty"`
	LeaseRemaining int64    `json:"lease_remaining,omitempty"`
	AssignTime     int64    `json:"assign_time,omitempty"`
	RefreshTime    int64    `json:"refresh_time,omitempty"`
	Host           *LANHost `json:"host,omitempty"`
}

// DHCP wraps the dhcp/ endpoints.
type DHCP struct {
	access *Access
}

// GetConfig returns the DHCP server configuration.
func (d *DHCP) GetConfig(ctx context.Context) (*DHCPConfig, error) {
	var config DHCPConfig
	if err := d.access.Get(ctx, "dhcp/config/", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SetConfig updates the DHCP server configuration.
func (d *DHCP) SetConfig(ctx context.Context, config Object) (*DHCPConfig, error) {
	var updated DHCPConfig
	if err := d.access.Put(ctx, "dhcp/config/", config, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetDynamicLeases lists the leases handed out by the DHCP server.
func (d *DHCP) GetDynamicLeases(ctx context.Context) ([]DHCPLease, error) {
	var leases []DHCPLease
	err := d.access.Get(ctx, "dhcp/dynamic_lease/", &leases)
	return leases, err
}

// GetStaticLeases lists the configured static leases.
func (d *DHCP) GetStaticLeases(ctx context.Context) ([]DHCPLease, error) {
	var leases []DHCPLease
	err := d.access.Get(ctx, "dhcp/static_lease/", &leases)
	return leases, err
}

// GetStaticLease returns one static lease.
func (d *DHCP) GetStaticLease(ctx context.Context, id string) (*DHCPLease, error) {
	var lease DHCPLease
	if err := d.access.Get(ctx, "dhcp/static_lease/"+escape(id), &lease); err != nil {
		return nil, err
	}
	return &lease, nil
}

// CreateStaticLease adds a static lease for mac.
func (d *DHCP) CreateStaticLease(ctx context.Context, lease DHCPLease) (*DHCPLease, error) {
	var created DHCPLease
	if err := d.access.Post(ctx, "dhcp/static_lease/", lease, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStaticLease changes the IP or comment of a static lease.
func (d *DHCP) UpdateStaticLease(ctx context.Context, id string, lease DHCPLease) (*DHCPLease, error) {
	var updated DHCPLease
	if err := d.access.Put(ctx, "dhcp/static_lease/"+escape(id), lease, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStaticLease removes a static lease.
func (d *DHCP) DeleteStaticLease(ctx context.Context, id string) error {
	return d.access.Delete(ctx, "dhcp/static_lease/"+escape(id), nil, nil)
}
