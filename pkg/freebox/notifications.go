package freebox

import "context"

// NotificationTarget is a device registered for push notifications.
type NotificationTarget struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Subscriptions []string `json:"subscriptions"`
	Token         string   `json:"token,omitempty"`
	LastUse       int64    `json:"last_use,omitempty"`
}

// Notifications wraps the notif/targets/ endpoints.
type Notifications struct {
	access *Access
}

// GetTargets lists the notification targets.
func (n *Notifications) GetTargets(ctx context.Context) ([]NotificationTarget, error) {
	var targets []NotificationTarget
	err := n.access.Get(ctx, "notif/targets/", &targets)
	return targets, err
}

// GetTarget returns one notification target.
func (n *Notifications) GetTarget(ctx context.Context, id string) (*NotificationTarget, error) {
	var target NotificationTarget
	if err := n.access.Get(ctx, "notif/targets/"+escape(id), &target); err != nil {
		return nil, err
	}
	return &target, nil
}

// CreateTarget registers a notification target.
func (n *Notifications) CreateTarget(ctx context.Context, target NotificationTarget) (*NotificationTarget, error) {
	var created NotificationTarget
	if err := n.access.Post(ctx, "notif/targets/", target, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTarget changes a notification target.
func (n *Notifications) UpdateTarget(ctx context.Context, id string, update Object) (*NotificationTarget, error) {
	var updated NotificationTarget
	if err := n.access.Put(ctx, "notif/targets/"+escape(id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTarget unregisters a notification target.
func (n *Notifications) DeleteTarget(ctx context.Context, id string) error {
	return n.access.Delete(ctx, "notif/targets/"+escape(id), nil, nil)
}
