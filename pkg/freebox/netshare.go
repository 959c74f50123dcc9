package freebox

import "context"

// Netshare wraps the file sharing endpoints (Samba and AFP).
type Netshare struct {
	access *Access
}

// GetAFPConfig returns the AFP configuration.
func (n *Netshare) GetAFPConfig(ctx context.Context) (Object, error) {
	var config Object
	err := n.access.Get(ctx, "netshare/afp/", &config)
	return config, err
}

// SetAFPConfig updates the AFP configuration.
func (n *Netshare) SetAFPConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := n.access.Put(ctx, "netshare/afp/", config, &updated)
	return updated, err
}

// GetSambaConfig returns the Samba configuration.
func (n *Netshare) GetSambaConfig(ctx context.Context) (Object, error) {
	var config Object
	err := n.access.Get(ctx, "netshare/samba/", &config)
	return config, err
}

// SetSambaConfig updates the Samba configuration.
func (n *Netshare) SetSambaConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := n.access.Put(ctx, "netshare/samba/", config, &updated)
	return updated, err
}
