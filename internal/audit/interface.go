package audit

import (
	"context"

	"carelink-srv/internal/model"
	"carelink-srv/pkg/paginator"
)

// UseCase is the audit surface: an append-mostly history of heartbeats,
// alert lifecycles, queue drops, sync passes and escalations, backed by
// postgres and queried by the dashboard API.
//
// Record methods are asynchronous and never block the caller; under
// sustained backpressure entries are dropped with a warning rather than
// stalling the alert path. It satisfies the recorder interfaces of the
// connectivity monitor, the queue journal, the dispatcher, the sync
// coordinator and the escalation authority.
type UseCase interface {
	RecordHeartbeat(ctx context.Context, hb model.Heartbeat)
	RecordLink(ctx context.Context, link model.CaregiverLink)
	RecordAlert(ctx context.Context, alert model.EmergencyAlert)
	RecordSyncOperation(ctx context.Context, op model.SyncOperation)
	RecordEscalation(ctx context.Context, rec model.EscalationRecord)
	// ItemDropped implements the queue journal.
	ItemDropped(ctx context.Context, item model.QueueItem, reason string)

	Alerts(ctx context.Context, filter AlertFilter, pag paginator.PaginateQuery) ([]model.EmergencyAlert, paginator.Paginator, error)
	Escalations(ctx context.Context, onlyOpen bool, pag paginator.PaginateQuery) ([]model.EscalationRecord, paginator.Paginator, error)
	SyncOperations(ctx context.Context, linkID string, pag paginator.PaginateQuery) ([]model.SyncOperation, paginator.Paginator, error)
	Heartbeats(ctx context.Context, linkID string, limit int) ([]model.Heartbeat, error)

	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}
