package freebox

import "context"

// PhoneStatus is an entry of phone/.
type PhoneStatus struct {
	ID             int    `json:"id"`
	IsRinging      bool   `json:"is_ringing"`
	OnHook         bool   `json:"on_hook"`
	HardwareDefect bool   `json:"hardware_defect"`
	Type           string `json:"type"`
	Vendor         string `json:"vendor"`
	GainRx         int    `json:"gain_rx"`
	GainTx         int    `json:"gain_tx"`
}

// Phone wraps the phone/ endpoints.
type Phone struct {
	access *Access
}

// GetStatus lists the phone lines.
func (p *Phone) GetStatus(ctx context.Context) ([]PhoneStatus, error) {
	var status []PhoneStatus
	err := p.access.Get(ctx, "phone/", &status)
	return status, err
}

// GetConfig returns the phone configuration.
func (p *Phone) GetConfig(ctx context.Context) (Object, error) {
	var config Object
	err := p.access.Get(ctx, "phone/config/", &config)
	return config, err
}

// SetConfig updates the phone configuration.
func (p *Phone) SetConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := p.access.Put(ctx, "phone/config/", config, &updated)
	return updated, err
}

// GetDECTVendors lists the known DECT vendors.
func (p *Phone) GetDECTVendors(ctx context.Context) ([]Object, error) {
	var vendors []Object
	err := p.access.Get(ctx, "phone/dect_vendors/", &vendors)
	return vendors, err
}

// StartDECTPaging makes every DECT handset ring.
func (p *Phone) StartDECTPaging(ctx context.Context) error {
	return p.access.Post(ctx, "phone/dect_page_start/", nil, nil)
}

// StopDECTPaging stops the DECT paging.
func (p *Phone) StopDECTPaging(ctx context.Context) error {
	return p.access.Post(ctx, "phone/dect_page_stop/", nil, nil)
}

// StartFXSRing makes the analog phone ring.
func (p *Phone) StartFXSRing(ctx context.Context) error {
	return p.access.Post(ctx, "phone/fxs_ring_start/", nil, nil)
}

// StopFXSRing stops the analog phone ring.
func (p *Phone) StopFXSRing(ctx context.Context) error {
	return p.access.Post(ctx, "phone/fxs_ring_stop/", nil, nil)
}
