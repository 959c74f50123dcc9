package freebox

import "context"

// LCDConfig is the front panel configuration.
type LCDConfig struct {
	Brightness        int  `json:"brightness"`
	Orientation       int  `json:"orientation"`
	OrientationForced bool `json:"orientation_forced"`
}

// LCD wraps the lcd/ endpoints.
type LCD struct {
	access *Access
}

// GetConfig returns the front panel configuration.
func (l *LCD) GetConfig(ctx context.Context) (*LCDConfig, error) {
	var config LCDConfig
	if err := l.access.Get(ctx, "lcd/config", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SetConfig updates the front panel configuration.
func (l *LCD) SetConfig(ctx context.Context, config Object) (*LCDConfig, error) {
	var updated LCDConfig
	if err := l.access.Put(ctx, "lcd/config", config, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
