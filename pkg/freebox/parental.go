package freebox

import "context"

// ParentalFilter is a parental control rule.
type ParentalFilter struct {
	ID            int      `json:"id,omitempty"`
	Macs          []string `json:"macs"`
	Desc          string   `json:"desc"`
	CurrentMode   string   `json:"current_mode,omitempty"`
	DefaultMode   string   `json:"default_mode"`
	ForcedMode    string   `json:"forced_mode,omitempty"`
	Forced        bool     `json:"forced"`
	ForcedUntil   int64    `json:"forced_until,omitempty"`
	ScheduledMode string   `json:"scheduled_mode,omitempty"`
	Tmp           bool     `json:"tmp,omitempty"`
}

// Parental wraps the parental/ endpoints.
type Parental struct {
	access *Access
}

// GetConfig returns the parental control configuration.
func (p *Parental) GetConfig(ctx context.Context) (Object, error) {
	var config Object
	err := p.access.Get(ctx, "parental/config/", &config)
	return config, err
}

// SetConfig updates the parental control configuration.
func (p *Parental) SetConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := p.access.Put(ctx, "parental/config/", config, &updated)
	return updated, err
}

// GetFilters lists the parental filters.
func (p *Parental) GetFilters(ctx context.Context) ([]ParentalFilter, error) {
	var filters []ParentalFilter
	err := p.access.Get(ctx, "parental/filter/", &filters)
	return filters, err
}

// GetFilter returns one parental filter.
func (p *Parental) GetFilter(ctx context.Context, id int) (*ParentalFilter, error) {
	var filter ParentalFilter
	if err := p.access.Get(ctx, "parental/filter/"+itoa(id), &filter); err != nil {
		return nil, err
	}
	return &filter, nil
}

// CreateFilter adds a parental filter.
func (p *Parental) CreateFilter(ctx context.Context, filter ParentalFilter) (*ParentalFilter, error) {
	var created ParentalFilter
	if err := p.access.Post(ctx, "parental/filter/", filter, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateFilter changes a parental filter.
func (p *Parental) UpdateFilter(ctx context.Context, id int, update Object) (*ParentalFilter, error) {
	var updated ParentalFilter
	if err := p.access.Put(ctx, "parental/filter/"+itoa(id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteFilter removes a parental filter.
func (p *Parental) DeleteFilter(ctx context.Context, id int) error {
	return p.access.Delete(ctx, "parental/filter/"+itoa(id), nil, nil)
}

// GetFilterPlanning returns the weekly schedule of a filter.
func (p *Parental) GetFilterPlanning(ctx context.Context, id int) (Object, error) {
	var planning Object
	err := p.access.Get(ctx, "parental/filter/"+itoa(id)+"/planning/", &planning)
	return planning, err
}

// SetFilterPlanning updates the weekly schedule of a filter.
func (p *Parental) SetFilterPlanning(ctx context.Context, id int, planning Object) (Object, error) {
	var updated Object
	err := p.access.Put(ctx, "parental/filter/"+itoa(id)+"/planning/", planning, &updated)
	return updated, err
}
