package repository

import (
	"context"

	"carelink-srv/internal/audit"
	"carelink-srv/internal/model"
)

// Repository persists and queries the audit history. Implementations are
// synchronous; the audit use case layers the async worker on top.
type Repository interface {
	InsertHeartbeat(ctx context.Context, hb model.Heartbeat) error
	UpsertLink(ctx context.Context, link model.CaregiverLink) error
	UpsertAlert(ctx context.Context, alert model.EmergencyAlert) error
	InsertQueueDrop(ctx context.Context, item model.QueueItem, reason string) error
	InsertSyncOperation(ctx context.Context, op model.SyncOperation) error
	UpsertEscalation(ctx context.Context, rec model.EscalationRecord) error

	Alerts(ctx context.Context, filter audit.AlertFilter, limit, offset int64) ([]model.EmergencyAlert, int64, error)
	Escalations(ctx context.Context, onlyOpen bool, limit, offset int64) ([]model.EscalationRecord, int64, error)
	SyncOperations(ctx context.Context, linkID string, limit, offset int64) ([]model.SyncOperation, int64, error)
	Heartbeats(ctx context.Context, linkID string, limit int) ([]model.Heartbeat, error)
}
