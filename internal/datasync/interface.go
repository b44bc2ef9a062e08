package datasync

import (
	"context"

	"carelink-srv/internal/model"
)

// Source exposes the device-side store of records awaiting sync. Records
// carry stable IDs; a record re-listed after a partial pass must keep its ID
// so resends stay idempotent.
type Source interface {
	// Pending returns up to limit unsynced records for the category.
	Pending(ctx context.Context, linkID string, category model.SyncCategory, limit int) ([]model.SyncRecord, error)
	// MarkSynced clears records that the caregiver side acknowledged.
	MarkSynced(ctx context.Context, linkID string, recordIDs []string) error
}

// Transport delivers one sync record over a caregiver link.
type Transport interface {
	SendRecord(ctx context.Context, link model.CaregiverLink, rec model.SyncRecord) error
}

// OpRecorder persists finished sync operations to the audit surface.
type OpRecorder interface {
	RecordSyncOperation(ctx context.Context, op model.SyncOperation)
}

// UseCase is the sync coordinator: it schedules opportunistic data sync per
// category cadence and runs passes handed to it by the queue drain loop, so
// sync traffic can never starve alert dispatch.
type UseCase interface {
	// ScheduleSync enqueues a sync pass for one link and category. Safe to
	// call repeatedly; duplicate passes find nothing pending and complete.
	ScheduleSync(ctx context.Context, linkID string, category model.SyncCategory, prio model.Priority) error

	// RunSync executes one queued sync item. At most one pass runs per
	// link at a time (ErrLinkBusy otherwise). A pass ends PARTIAL when the
	// link degrades mid-transfer or alert traffic arrives; already-sent
	// records are acknowledged either way.
	RunSync(ctx context.Context, item model.QueueItem) (model.SyncOperation, error)

	// OnLinkOnline schedules an immediate pass over every category for a
	// link that just came back. Wired to connectivity transitions.
	OnLinkOnline(ctx context.Context, linkID string)

	Operation(opID string) (model.SyncOperation, bool)
	// Operations returns the retained operations for the link, newest first.
	Operations(linkID string) []model.SyncOperation

	// Run starts the cadence scheduler.
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}
