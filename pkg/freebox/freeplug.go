package freebox

import "context"

// FreeplugNetwork groups the Freeplugs sharing a network.
type FreeplugNetwork struct {
	ID      string   `json:"id"`
	Members []Object `json:"members"`
}

// Freeplug wraps the freeplug/ endpoints.
type Freeplug struct {
	access *Access
}

// GetNetworks lists the Freeplug networks.
func (f *Freeplug) GetNetworks(ctx context.Context) ([]FreeplugNetwork, error) {
	var networks []FreeplugNetwork
	err := f.access.Get(ctx, "freeplug/", &networks)
	return networks, err
}

// Reset resets the Freeplug identified by its MAC address.
func (f *Freeplug) Reset(ctx context.Context, id string) error {
	return f.access.Post(ctx, "freeplug/"+escape(id)+"/reset/", nil, nil)
}
