package channel

import (
	"context"

	"carelink-srv/internal/model"
	pkgErrors "carelink-srv/pkg/errors"
	"carelink-srv/pkg/webhook"
)

// webhookChannel delivers through an HTTP notification gateway (the push
// and email services expose webhook ingestion endpoints).
type webhookChannel struct {
	typ      model.ChannelType
	notifier webhook.INotifier
}

// NewWebhookChannel wraps a webhook notifier as a Channel of the given type.
func NewWebhookChannel(typ model.ChannelType, notifier webhook.INotifier) Channel {
	return &webhookChannel{typ: typ, notifier: notifier}
}

func (c *webhookChannel) Type() model.ChannelType { return c.typ }

func (c *webhookChannel) Send(ctx context.Context, target string, msg Message) (SendResult, error) {
	if target == "" {
		return SendResult{}, pkgErrors.NewPermanentChannelError(string(c.typ), errEmptyTarget)
	}

	severity := webhook.SeverityInfo
	if msg.Priority.Emergency() {
		severity = webhook.SeverityUrgent
	}

	err := c.notifier.Notify(ctx, webhook.Notification{
		Title:    msg.Title,
		Body:     msg.Body,
		Severity: severity,
		AlertID:  msg.AlertID,
		Fields:   map[string]string{"target": target},
	})
	if err != nil {
		// Gateway unreachable or 5xx: retryable through the offline queue.
		return SendResult{}, pkgErrors.NewTransientChannelError(string(c.typ), err)
	}
	return SendResult{}, nil
}
