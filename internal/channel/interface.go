package channel

import (
	"context"

	"carelink-srv/internal/model"
)

// Message is the payload handed to a channel transport.
type Message struct {
	AlertID  string
	Title    string
	Body     string
	Priority model.Priority
}

// SendResult carries transport-level delivery metadata.
type SendResult struct {
	// DeliveryToken is an optional transport receipt (message SID, push ID).
	DeliveryToken string
}

// Channel is one communication transport capability. Implementations wrap
// the real SMS gateway, voice dialer, push service, email service or local
// notification sink, which live outside this subsystem.
//
// Send must honor ctx cancellation and classify failures using
// pkg/errors.NewTransientChannelError / NewPermanentChannelError; an
// unclassified error is treated as transient.
type Channel interface {
	Type() model.ChannelType
	Send(ctx context.Context, target string, msg Message) (SendResult, error)
}
