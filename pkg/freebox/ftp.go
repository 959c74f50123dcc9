package freebox

import "context"

// FTPConfig is the result of ftp/config/.
type FTPConfig struct {
	Enabled             bool   `json:"enabled"`
	AllowAnonymous      bool   `json:"allow_anonymous"`
	AllowAnonymousWrite bool   `json:"allow_anonymous_write"`
	AllowRemoteAccess   bool   `json:"allow_remote_access"`
	WeakPassword        bool   `json:"weak_password"`
	PortCtrl            int    `json:"port_ctrl"`
	PortData            int    `json:"port_data"`
	RemoteDomain        string `json:"remote_domain"`
}

// FTP wraps the ftp/ endpoints.
type FTP struct {
	access *Access
}

// GetConfig returns the FTP server configuration.
func (f *FTP) GetConfig(ctx context.Context) (*FTPConfig, error) {
	var config FTPConfig
	if err := f.access.Get(ctx, "ftp/config/", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SetConfig updates the FTP server configuration.
func (f *FTP) SetConfig(ctx context.Context, config Object) (*FTPConfig, error) {
	var updated FTPConfig
	if err := f.access.Put(ctx, "ftp/config/", config, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
