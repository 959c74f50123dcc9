package freebox

import "context"

// CallEntry is an entry of the call log.
type CallEntry struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Datetime  int64  `json:"datetime"`
	Number    string `json:"number"`
	Name      string `json:"name"`
	Duration  int    `json:"duration"`
	New       bool   `json:"new"`
	ContactID int    `json:"contact_id"`
	LineID    int    `json:"line_id,omitempty"`
}

// Call types found in CallEntry.Type.
const (
	CallMissed   = "missed"
	CallAccepted = "accepted"
	CallOutgoing = "outgoing"
)

// Call wraps the call/log/ endpoints.
type Call struct {
	access *Access
}

// GetLog lists the calls.
func (c *Call) GetLog(ctx context.Context) ([]CallEntry, error) {
	var calls []CallEntry
	err := c.access.Get(ctx, "call/log/", &calls)
	return calls, err
}

// GetEntry returns one call.
func (c *Call) GetEntry(ctx context.Context, id int) (*CallEntry, error) {
	var call CallEntry
	if err := c.access.Get(ctx, "call/log/"+itoa(id), &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// MarkEntryAsRead clears the new flag of one call.
func (c *Call) MarkEntryAsRead(ctx context.Context, id int) (*CallEntry, error) {
	var call CallEntry
	if err := c.access.Put(ctx, "call/log/"+itoa(id), Object{"new": false}, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// DeleteEntry removes one call.
func (c *Call) DeleteEntry(ctx context.Context, id int) error {
	return c.access.Delete(ctx, "call/log/"+itoa(id), nil, nil)
}

// DeleteAll empties the call log.
func (c *Call) DeleteAll(ctx context.Context) error {
	return c.access.Post(ctx, "call/log/delete_all/", nil, nil)
}

// MarkAllAsRead clears the new flag of every call.
func (c *Call) MarkAllAsRead(ctx context.Context) error {
	return c.access.Post(ctx, "call/log/mark_all_as_read/", nil, nil)
}
