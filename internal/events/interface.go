package events

import (
	"context"

	"carelink-srv/internal/model"
)

// Publisher fans alert lifecycle and escalation events out to the
// realtime feed consumed by the family dashboard.
type Publisher interface {
	AlertCreated(ctx context.Context, alert model.EmergencyAlert)
	AlertStatusChanged(ctx context.Context, alert model.EmergencyAlert, from model.AlertStatus)
	EscalationOpened(ctx context.Context, rec model.EscalationRecord)
	EscalationResolved(ctx context.Context, rec model.EscalationRecord)
	LinkStateChanged(ctx context.Context, linkID string, from, to model.LinkState)
}
