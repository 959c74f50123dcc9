package freebox

import "context"

// UPnPAV wraps the UPnP AV media server endpoints.
type UPnPAV struct {
	access *Access
}

// GetConfig returns the media server configuration.
func (u *UPnPAV) GetConfig(ctx context.Context) (Object, error) {
	var config Object
	err := u.access.Get(ctx, "upnpav/config/", &config)
	return config, err
}

// SetConfig updates the media server configuration.
func (u *UPnPAV) SetConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := u.access.Put(ctx, "upnpav/config/", config, &updated)
	return updated, err
}

// UPnPIGD wraps the UPnP IGD endpoints.
type UPnPIGD struct {
	access *Access
}

// GetConfig returns the IGD configuration.
func (u *UPnPIGD) GetConfig(ctx context.Context) (Object, error) {
	var config Object
	err := u.access.Get(ctx, "upnpigd/config/", &config)
	return config, err
}

// SetConfig updates the IGD configuration.
func (u *UPnPIGD) SetConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := u.access.Put(ctx, "upnpigd/config/", config, &updated)
	return updated, err
}

// GetRedirections lists the redirections created by UPnP clients.
func (u *UPnPIGD) GetRedirections(ctx context.Context) ([]Object, error) {
	var redirs []Object
	err := u.access.Get(ctx, "upnpigd/redir/", &redirs)
	return redirs, err
}

// DeleteRedirection removes a UPnP redirection.
func (u *UPnPIGD) DeleteRedirection(ctx context.Context, id string) error {
	return u.access.Delete(ctx, "upnpigd/redir/"+escape(id), nil, nil)
}
