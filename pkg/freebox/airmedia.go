package freebox

import "context"

// AirMediaReceiver is a device able to play AirMedia content.
type AirMediaReceiver struct {
	Name              string          `json:"name"`
	PasswordProtected bool            `json:"password_protected"`
	Capabilities      map[string]bool `json:"capabilities"`
}

// AirMediaRequest is sent to a receiver. Action is start or stop, MediaType photo or video.
type AirMediaRequest struct {
	Action    string `json:"action"`
	MediaType string `json:"media_type"`
	Media     string `json:"media,omitempty"`
	Position  int    `json:"position,omitempty"`
	Password  string `json:"password,omitempty"`
}

// AirMedia wraps the airmedia/ endpoints.
type AirMedia struct {
	access *Access
}

// GetReceivers lists the AirMedia receivers.
func (a *AirMedia) GetReceivers(ctx context.Context) ([]AirMediaReceiver, error) {
	var receivers []AirMediaReceiver
	err := a.access.Get(ctx, "airmedia/receivers/", &receivers)
	return receivers, err
}

// SendRequest sends a request to the receiver named name.
func (a *AirMedia) SendRequest(ctx context.Context, name string, req AirMediaRequest) error {
	return a.access.Post(ctx, "airmedia/receivers/"+escape(name)+"/", req, nil)
}

// GetConfig returns the AirMedia configuration.
func (a *AirMedia) GetConfig(ctx context.Context) (Object, error) {
	var config Object
	err := a.access.Get(ctx, "airmedia/config/", &config)
	return config, err
}

// SetConfig updates the AirMedia configuration.
func (a *AirMedia) SetConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := a.access.Put(ctx, "airmedia/config/", config, &updated)
	return updated, err
}
