package usecase

import (
	"context"
	"time"

	"carelink-srv/internal/model"
	"carelink-srv/internal/queue"
)

func (uc *implUseCase) Enqueue(ctx context.Context, item model.QueueItem) error {
	now := time.Now()
	if item.EnqueuedAt.IsZero() {
		item.EnqueuedAt = now
	}
	if item.ExpiresAt.IsZero() {
		item.ExpiresAt = item.EnqueuedAt.Add(uc.cfg.DefaultTTL)
	}
	if item.MaxRetries < 1 {
		item.MaxRetries = uc.cfg.DefaultRetries
	}
	if item.Expired(now) {
		return queue.ErrItemExpired
	}

	uc.mu.Lock()
	dropped, ok := uc.makeRoomLocked(item)
	if !ok {
		uc.mu.Unlock()
		uc.l.Errorf(ctx, "internal.queue.Enqueue: queue full, cannot admit item=%s priority=%s", item.ID, item.Prio)
		return queue.ErrQueueFull
	}
	uc.items[item.ID] = &item
	uc.mu.Unlock()

	if dropped != nil {
		uc.l.Warnf(ctx, "internal.queue.Enqueue: capacity reached, dropped item=%s priority=%s expires=%s",
			dropped.ID, dropped.Prio, dropped.ExpiresAt.Format(time.RFC3339))
		if uc.journal != nil {
			uc.journal.ItemDropped(ctx, *dropped, "queue overflow")
		}
	}

	uc.l.Debugf(ctx, "internal.queue.Enqueue: item=%s kind=%s priority=%s", item.ID, item.Kind, item.Prio)
	return nil
}

// makeRoomLocked enforces capacity by evicting the lowest-priority,
// nearest-to-expiry item. CRITICAL items are never evicted; admission fails
// instead if only CRITICAL items remain. Caller holds uc.mu.
func (uc *implUseCase) makeRoomLocked(incoming model.QueueItem) (*model.QueueItem, bool) {
	if len(uc.items) < uc.cfg.Capacity {
		return nil, true
	}

	var victim *model.QueueItem
	for _, it := range uc.items {
		if it.Prio == model.PriorityCritical {
			continue
		}
		if victim == nil ||
			it.Prio < victim.Prio ||
			(it.Prio == victim.Prio && it.ExpiresAt.Before(victim.ExpiresAt)) {
			victim = it
		}
	}

	if victim == nil {
		// Only CRITICAL items queued; none of them may be dropped.
		return nil, false
	}

	// Never evict in favor of something lower-priority and shorter-lived.
	if incoming.Prio < victim.Prio ||
		(incoming.Prio == victim.Prio && incoming.ExpiresAt.Before(victim.ExpiresAt)) {
		return nil, false
	}

	delete(uc.items, victim.ID)
	return victim, true
}

func (uc *implUseCase) PeekReady(now time.Time) (model.QueueItem, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	best := uc.pickReadyLocked(now, false)
	if best == nil {
		return model.QueueItem{}, false
	}
	return *best, true
}

func (uc *implUseCase) HasReadyAlert(now time.Time) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.pickReadyLocked(now, true) != nil
}

// pickReadyLocked selects the dispatchable item: strict priority order,
// FIFO within a tier. Caller holds uc.mu.
func (uc *implUseCase) pickReadyLocked(now time.Time, alertsOnly bool) *model.QueueItem {
	var best *model.QueueItem
	for _, it := range uc.items {
		if alertsOnly && it.Kind != model.ItemAlert {
			continue
		}
		if !it.Ready(now) {
			continue
		}
		if best == nil ||
			it.Prio > best.Prio ||
			(it.Prio == best.Prio && it.EnqueuedAt.Before(best.EnqueuedAt)) {
			best = it
		}
	}
	return best
}

func (uc *implUseCase) Ack(ctx context.Context, itemID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.items[itemID]; !ok {
		return queue.ErrItemNotFound
	}
	delete(uc.items, itemID)
	return nil
}

func (uc *implUseCase) Requeue(ctx context.Context, itemID string) error {
	uc.mu.Lock()
	it, ok := uc.items[itemID]
	if !ok {
		uc.mu.Unlock()
		return queue.ErrItemNotFound
	}

	if it.RetryCount >= it.MaxRetries {
		delete(uc.items, itemID)
		uc.mu.Unlock()
		uc.l.Warnf(ctx, "internal.queue.Requeue: item=%s exhausted %d retries", itemID, it.MaxRetries)
		return queue.ErrRetriesExhausted
	}

	delay := uc.cfg.Backoff(it.RetryCount)
	it.RetryCount++
	it.NextRetryAt = time.Now().Add(delay)
	uc.mu.Unlock()

	uc.l.Infof(ctx, "internal.queue.Requeue: item=%s retry=%d/%d next attempt in %s",
		itemID, it.RetryCount, it.MaxRetries, delay)
	return nil
}

func (uc *implUseCase) Defer(ctx context.Context, itemID string, until time.Time) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	it, ok := uc.items[itemID]
	if !ok {
		return queue.ErrItemNotFound
	}
	it.NextRetryAt = until
	return nil
}

func (uc *implUseCase) PurgeExpired(ctx context.Context, now time.Time) []model.QueueItem {
	uc.mu.Lock()
	var expired []model.QueueItem
	for id, it := range uc.items {
		if it.Expired(now) {
			expired = append(expired, *it)
			delete(uc.items, id)
		}
	}
	uc.mu.Unlock()

	for _, it := range expired {
		uc.l.Warnf(ctx, "internal.queue.PurgeExpired: dropping item=%s kind=%s priority=%s expired at %s",
			it.ID, it.Kind, it.Prio, it.ExpiresAt.Format(time.RFC3339))
		if uc.journal != nil {
			uc.journal.ItemDropped(ctx, it, "expired")
		}
	}
	return expired
}

func (uc *implUseCase) CancelAlert(ctx context.Context, alertID string) int {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	n := 0
	for id, it := range uc.items {
		if it.Kind == model.ItemAlert && it.AlertID == alertID {
			delete(uc.items, id)
			n++
		}
	}
	return n
}

func (uc *implUseCase) PurgeLink(ctx context.Context, linkID string) []model.QueueItem {
	uc.mu.Lock()
	var purged []model.QueueItem
	for id, it := range uc.items {
		if it.LinkID == linkID {
			purged = append(purged, *it)
			delete(uc.items, id)
		}
	}
	uc.mu.Unlock()

	for _, it := range purged {
		if uc.journal != nil {
			uc.journal.ItemDropped(ctx, it, "link removed")
		}
	}
	return purged
}

func (uc *implUseCase) Len() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.items)
}
