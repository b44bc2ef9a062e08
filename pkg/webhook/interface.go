package webhook

import "context"

// INotifier posts structured notifications to a configured HTTP webhook.
// The escalation authority uses one instance per advocate endpoint; an
// optional second instance carries operator-facing audit messages.
type INotifier interface {
	Notify(ctx context.Context, n Notification) error
	NotifyUrgent(ctx context.Context, title, body string, fields map[string]string) error
	URL() string
	Close() error
}
