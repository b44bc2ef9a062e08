package queue

import (
	"context"
	"time"

	"carelink-srv/internal/model"
)

// Journal receives queue audit events (drops, expiries). Implementations
// must be non-blocking; drop events are required for the audit surface and
// must never vanish silently.
type Journal interface {
	ItemDropped(ctx context.Context, item model.QueueItem, reason string)
}

// UseCase is the durable, priority-ordered store of pending outbound items.
// Ordering is strict priority (CRITICAL > HIGH > MEDIUM > LOW), FIFO by
// enqueue time within a tier.
type UseCase interface {
	Enqueue(ctx context.Context, item model.QueueItem) error

	// PeekReady returns the highest-priority item whose retry time has
	// arrived and which has not expired. The item stays in the queue until
	// Ack or Requeue.
	PeekReady(now time.Time) (model.QueueItem, bool)

	// HasReadyAlert reports whether alert traffic is waiting; the sync
	// coordinator yields the link while this is true.
	HasReadyAlert(now time.Time) bool

	// Ack removes a successfully dispatched item.
	Ack(ctx context.Context, itemID string) error

	// Requeue schedules the next attempt with capped exponential backoff.
	// Once retries are exhausted the item is removed and
	// ErrRetriesExhausted returned; alert items are then the escalation
	// authority's problem.
	Requeue(ctx context.Context, itemID string) error

	// Defer pushes the item's next attempt to a fixed time without
	// consuming a retry (quiet-hours deferral).
	Defer(ctx context.Context, itemID string, until time.Time) error

	// PurgeExpired drops all items past their expiry, returning them.
	PurgeExpired(ctx context.Context, now time.Time) []model.QueueItem

	// CancelAlert removes every queued item for the alert (response or
	// administrative close received).
	CancelAlert(ctx context.Context, alertID string) int

	// PurgeLink removes every queued item bound to the link (link removal).
	// Only sync items carry a link binding; alert items target every link of
	// their user and survive the removal of any single one.
	PurgeLink(ctx context.Context, linkID string) []model.QueueItem

	Len() int
}
