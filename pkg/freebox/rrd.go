package freebox

import "context"

// RRD databases.
const (
	RRDNet    = "net"
	RRDTemp   = "temp"
	RRDDsl    = "dsl"
	RRDSwitch = "switch"
)

// RRDRequest selects a time series. Fields lists the wanted columns, all when empty.
type RRDRequest struct {
	DB        string   `json:"db"`
	DateStart int64    `json:"date_start,omitempty"`
	DateEnd   int64    `json:"date_end,omitempty"`
	Precision int      `json:"precision,omitempty"`
	Fields    []string `json:"fields,omitempty"`
}

// RRDResult holds the samples of a time series.
type RRDResult struct {
	DateStart int64              `json:"date_start"`
	DateEnd   int64              `json:"date_end"`
	Data      []map[string]int64 `json:"data"`
}

// RRD wraps the rrd/ endpoint.
type RRD struct {
	access *Access
}

// Get fetches a time series.
func (r *RRD) Get(ctx context.Context, req RRDRequest) (*RRDResult, error) {
	var result RRDResult
	if err := r.access.Post(ctx, "rrd/", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
