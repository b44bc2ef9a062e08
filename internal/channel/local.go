package channel

import (
	"context"
	"errors"

	"carelink-srv/internal/model"
	"carelink-srv/pkg/log"
)

var errEmptyTarget = errors.New("empty target")

// localChannel surfaces the alert on the companion device itself. It cannot
// reach the caregiver, but a nearby person may see it, so a success here
// still counts as best-effort delivery.
type localChannel struct {
	l log.Logger
}

// NewLocalChannel returns the on-device notification channel.
func NewLocalChannel(l log.Logger) Channel {
	return &localChannel{l: l}
}

func (c *localChannel) Type() model.ChannelType { return model.ChannelLocal }

func (c *localChannel) Send(ctx context.Context, target string, msg Message) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}
	c.l.Warnf(ctx, "internal.channel.local.Send: alert=%s priority=%s %s: %s",
		msg.AlertID, msg.Priority, msg.Title, msg.Body)
	return SendResult{}, nil
}
