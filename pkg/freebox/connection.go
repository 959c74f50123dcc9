package freebox

import "context"

// ConnectionStatus is the result of connection/.
type ConnectionStatus struct {
	Type          string `json:"type"`
	RateDown      int64  `json:"rate_down"`
	BytesUp       int64  `json:"bytes_up"`
	IPv4          string `json:"ipv4"`
	IPv6          string `json:"ipv6"`
	Media         string `json:"media"`
	State         string `json:"state"`
	BytesDown     int64  `json:"bytes_down"`
	RateUp        int64  `json:"rate_up"`
	BandwidthUp   int64  `json:"bandwidth_up"`
	BandwidthDown int64  `json:"bandwidth_down"`
}

// ConnectionLog is an entry of connection/logs/.
type ConnectionLog struct {
	ID     int    `json:"id"`
	Type   string `json:"type"`
	Date   int64  `json:"date"`
	State  string `json:"state"`
	Link   string `json:"link"`
	Conn   string `json:"conn"`
	BwUp   int64  `json:"bw_up"`
	BwDown int64  `json:"bw_down"`
}

// Connection wraps the connection/ endpoints.
type Connection struct {
	access *Access
}

// GetStatus returns the current WAN state and rates.
func (c *Connection) GetStatus(ctx context.Context) (*ConnectionStatus, error) {
	var status ConnectionStatus
	if err := c.access.Get(ctx, "connection/", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetConfig returns the connection configuration.
func (c *Connection) GetConfig(ctx context.Context) (Object, error) {
	var config Object
	err := c.access.Get(ctx, "connection/config/", &config)
	return config, err
}

// SetConfig updates the connection configuration and returns the new one.
func (c *Connection) SetConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := c.access.Put(ctx, "connection/config/", config, &updated)
	return updated, err
}

// GetLogs returns the connection history.
func (c *Connection) GetLogs(ctx context.Context) ([]ConnectionLog, error) {
	var logs []ConnectionLog
	err := c.access.Get(ctx, "connection/logs/", &logs)
	return logs, err
}

// DeleteLogs clears the connection history.
func (c *Connection) DeleteLogs(ctx context.Context) error {
	return c.access.Delete(ctx, "connection/logs/", nil, nil)
}

// GetFTTH returns the fiber link status.
func (c *Connection) GetFTTH(ctx context.Context) (Object, error) {
	var ftth Object
	err := c.access.Get(ctx, "connection/ftth/", &ftth)
	return ftth, err
}

// GetXDSL returns the DSL link status.
func (c *Connection) GetXDSL(ctx context.Context) (Object, error) {
	var xdsl Object
	err := c.access.Get(ctx, "connection/xdsl/", &xdsl)
	return xdsl, err
}

// GetLTEConfig returns the 4G aggregation configuration.
func (c *Connection) GetLTEConfig(ctx context.Context) (Object, error) {
	var lte Object
	err := c.access.Get(ctx, "connection/lte/config/", &lte)
	return lte, err
}

// SetLTEConfig updates the 4G aggregation configuration.
func (c *Connection) SetLTEConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := c.access.Put(ctx, "connection/lte/config/", config, &updated)
	return updated, err
}
