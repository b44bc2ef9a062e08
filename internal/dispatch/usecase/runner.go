package usecase

import (
	"context"
	"errors"
	"time"

	"carelink-srv/internal/datasync"
	"carelink-srv/internal/model"
	"carelink-srv/internal/queue"
)

func (uc *implUseCase) Run(ctx context.Context) {
	uc.mu.Lock()
	if uc.started {
		uc.mu.Unlock()
		return
	}
	uc.started = true
	uc.mu.Unlock()

	uc.l.Infof(ctx, "internal.dispatch.Run: drain loop started, scan interval %s", uc.cfg.ScanInterval)
	go uc.drainLoop(ctx)
}

func (uc *implUseCase) Shutdown(ctx context.Context) error {
	uc.mu.Lock()
	started := uc.started
	uc.mu.Unlock()
	if !started {
		return nil
	}
	select {
	case <-uc.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *implUseCase) Wake() {
	select {
	case uc.wake <- struct{}{}:
	default:
	}
}

func (uc *implUseCase) drainLoop(ctx context.Context) {
	defer close(uc.done)

	ticker := time.NewTicker(uc.cfg.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-uc.wake:
		}
		uc.drainOnce(ctx)
	}
}

// drainOnce pops ready items in strict priority order until none remain.
// Every handled item leaves the ready set (acked, requeued with backoff or
// deferred), so the loop terminates.
func (uc *implUseCase) drainOnce(ctx context.Context) {
	for _, it := range uc.q.PurgeExpired(ctx, time.Now()) {
		uc.handleExpired(ctx, it)
	}

	for ctx.Err() == nil {
		item, ok := uc.q.PeekReady(time.Now())
		if !ok {
			return
		}
		switch item.Kind {
		case model.ItemAlert:
			uc.attempt(ctx, item)
		case model.ItemSync:
			uc.runSync(ctx, item)
		default:
			uc.l.Warnf(ctx, "internal.dispatch.drainOnce: dropping item=%s of unknown kind %q", item.ID, item.Kind)
			uc.ack(ctx, item.ID)
		}
	}
}

func (uc *implUseCase) runSync(ctx context.Context, item model.QueueItem) {
	if uc.syncs == nil {
		uc.l.Warnf(ctx, "internal.dispatch.runSync: item=%s: no sync runner wired", item.ID)
		uc.ack(ctx, item.ID)
		return
	}

	op, err := uc.syncs.RunSync(ctx, item)
	switch {
	case err == nil && op.Status == model.SyncCompleted:
		uc.ack(ctx, item.ID)
	case errors.Is(err, datasync.ErrLinkBusy), errors.Is(err, datasync.ErrLinkUnusable):
		uc.pushBack(ctx, item.ID, time.Now().Add(uc.cfg.OfflineRecheck))
	default:
		// PARTIAL or failed pass: the unsent records are still pending at
		// the source, so a retry resumes where this pass stopped.
		if err != nil {
			uc.l.Warnf(ctx, "internal.dispatch.runSync: item=%s link=%s: %v", item.ID, item.LinkID, err)
		}
		if rqErr := uc.q.Requeue(ctx, item.ID); isRetriesExhausted(rqErr) {
			uc.l.Warnf(ctx, "internal.dispatch.runSync: item=%s link=%s: sync retries exhausted", item.ID, item.LinkID)
		} else if rqErr != nil {
			uc.l.Errorf(ctx, "internal.dispatch.runSync: requeue item=%s: %v", item.ID, rqErr)
		}
	}
}

// handleExpired deals with items the queue dropped on expiry. Sync items
// need nothing (pending records survive at the source); an expired alert for
// an emergency still goes to the escalation authority rather than vanishing.
func (uc *implUseCase) handleExpired(ctx context.Context, item model.QueueItem) {
	if item.Kind != model.ItemAlert {
		return
	}

	uc.mu.Lock()
	alert, ok := uc.alerts[item.AlertID]
	if !ok || alert.Terminal() || alert.Status == model.AlertDelivered ||
		alert.Status == model.AlertResponded || alert.Status == model.AlertEscalated {
		uc.mu.Unlock()
		return
	}
	emergency := alert.Prio.Emergency()
	uc.mu.Unlock()

	uc.forceStatus(ctx, item.AlertID, model.AlertSent, model.AlertFailed)
	if emergency {
		uc.escalate(ctx, item.AlertID, model.ReasonRetriesExhausted)
		return
	}
	snap, _ := uc.Alert(item.AlertID)
	uc.l.Warnf(ctx, "internal.dispatch.handleExpired: abandoning expired alert=%s priority=%s", item.AlertID, snap.Prio)
	uc.record(ctx, snap)
}

// forceStatus walks the alert through the given statuses, skipping steps it
// is already past. Used when expiry cuts an alert's lifecycle short.
func (uc *implUseCase) forceStatus(ctx context.Context, alertID string, statuses ...model.AlertStatus) {
	uc.mu.Lock()
	alert, ok := uc.alerts[alertID]
	if !ok {
		uc.mu.Unlock()
		return
	}
	from := alert.Status
	for _, s := range statuses {
		if alert.Status == s {
			continue
		}
		if !alert.SetStatus(s) {
			break
		}
	}
	snap := *alert
	uc.mu.Unlock()

	if snap.Status != from {
		uc.pub.AlertStatusChanged(ctx, snap, from)
	}
}

func isRetriesExhausted(err error) bool {
	return errors.Is(err, queue.ErrRetriesExhausted)
}
