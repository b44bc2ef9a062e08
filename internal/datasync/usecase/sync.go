package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carelink-srv/internal/datasync"
	"carelink-srv/internal/model"
)

func (uc *implUseCase) ScheduleSync(ctx context.Context, linkID string, category model.SyncCategory, prio model.Priority) error {
	item := model.QueueItem{
		ID:       uuid.NewString(),
		Kind:     model.ItemSync,
		LinkID:   linkID,
		Category: category,
		Prio:     prio,
	}
	if err := uc.q.Enqueue(ctx, item); err != nil {
		uc.l.Warnf(ctx, "internal.datasync.ScheduleSync: link=%s category=%s: %v", linkID, category, err)
		return err
	}

	uc.mu.Lock()
	uc.lastScheduled[linkID+"|"+string(category)] = time.Now()
	uc.mu.Unlock()

	uc.l.Debugf(ctx, "internal.datasync.ScheduleSync: link=%s category=%s priority=%s", linkID, category, prio)
	return nil
}

func (uc *implUseCase) RunSync(ctx context.Context, item model.QueueItem) (model.SyncOperation, error) {
	link, err := uc.monitor.Link(item.LinkID)
	if err != nil {
		return model.SyncOperation{}, err
	}
	if !link.State.Usable() {
		return model.SyncOperation{}, datasync.ErrLinkUnusable
	}

	uc.mu.Lock()
	if uc.inflight[link.ID] {
		uc.mu.Unlock()
		return model.SyncOperation{}, datasync.ErrLinkBusy
	}
	uc.inflight[link.ID] = true
	uc.mu.Unlock()
	defer func() {
		uc.mu.Lock()
		delete(uc.inflight, link.ID)
		uc.mu.Unlock()
	}()

	op := model.SyncOperation{
		ID:         uuid.NewString(),
		LinkID:     link.ID,
		Categories: []model.SyncCategory{item.Category},
		Status:     model.SyncInProgress,
		StartedAt:  time.Now(),
	}
	op = uc.transfer(ctx, link, item.Category, op)
	op.EndedAt = time.Now()

	uc.storeOp(op)
	if uc.rec != nil {
		uc.rec.RecordSyncOperation(ctx, op)
	}
	uc.l.Infof(ctx, "internal.datasync.RunSync: op=%s link=%s category=%s status=%s records=%d",
		op.ID, link.ID, item.Category, op.Status, op.RecordsTransferred)
	return op, nil
}

// transfer drains pending records for one category. The pass ends PARTIAL
// when alert traffic shows up, the link degrades or a send fails after some
// progress; delivered records are acknowledged to the source regardless.
func (uc *implUseCase) transfer(ctx context.Context, link model.CaregiverLink, category model.SyncCategory, op model.SyncOperation) model.SyncOperation {
	for {
		records, err := uc.source.Pending(ctx, link.ID, category, uc.cfg.BatchSize)
		if err != nil {
			op.Error = err.Error()
			op.Status = failedOrPartial(op)
			return op
		}

		progressed := false
		for _, rec := range records {
			if ctx.Err() != nil {
				op.Status = model.SyncCancelled
				return op
			}
			if uc.q.HasReadyAlert(time.Now()) {
				op.Status = model.SyncPartial
				return op
			}
			if !uc.monitor.State(link.ID).Usable() {
				op.Status = model.SyncPartial
				return op
			}
			if uc.alreadySent(link.ID, rec.ID) {
				uc.ackRecords(ctx, link.ID, []string{rec.ID})
				progressed = true
				continue
			}
			if err := uc.trans.SendRecord(ctx, link, rec); err != nil {
				op.Error = err.Error()
				op.Status = failedOrPartial(op)
				uc.l.Warnf(ctx, "internal.datasync.transfer: op=%s record=%s: %v", op.ID, rec.ID, err)
				return op
			}
			uc.markSent(link.ID, rec.ID)
			uc.ackRecords(ctx, link.ID, []string{rec.ID})
			op.RecordsTransferred++
			progressed = true
		}

		if len(records) < uc.cfg.BatchSize {
			op.Status = model.SyncCompleted
			return op
		}
		if !progressed {
			// Source keeps returning records it never clears.
			op.Status = model.SyncPartial
			return op
		}
	}
}

func failedOrPartial(op model.SyncOperation) model.SyncStatus {
	if op.RecordsTransferred > 0 {
		return model.SyncPartial
	}
	return model.SyncFailed
}

// sentLog is an insertion-ordered set of delivered record IDs. Membership is
// the idempotency check; the order backs eviction of the oldest IDs once the
// per-link bound is reached.
type sentLog struct {
	ids   map[string]bool
	order []string
}

func (s *sentLog) add(id string, limit int) {
	if s.ids[id] {
		return
	}
	s.ids[id] = true
	s.order = append(s.order, id)
	for len(s.order) > limit {
		delete(s.ids, s.order[0])
		s.order = s.order[1:]
	}
}

func (uc *implUseCase) alreadySent(linkID, recordID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.sent[linkID]
	return s != nil && s.ids[recordID]
}

func (uc *implUseCase) markSent(linkID, recordID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.sent[linkID]
	if s == nil {
		s = &sentLog{ids: make(map[string]bool)}
		uc.sent[linkID] = s
	}
	s.add(recordID, uc.cfg.SentHistorySize)
}

func (uc *implUseCase) ackRecords(ctx context.Context, linkID string, ids []string) {
	if err := uc.source.MarkSynced(ctx, linkID, ids); err != nil {
		uc.l.Warnf(ctx, "internal.datasync.ackRecords: link=%s: %v", linkID, err)
	}
}

func (uc *implUseCase) storeOp(op model.SyncOperation) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.byID[op.ID] = op
	history := append([]model.SyncOperation{op}, uc.ops[op.LinkID]...)
	if len(history) > uc.cfg.HistorySize {
		evicted := history[uc.cfg.HistorySize:]
		history = history[:uc.cfg.HistorySize]
		for _, old := range evicted {
			delete(uc.byID, old.ID)
		}
	}
	uc.ops[op.LinkID] = history
}

func (uc *implUseCase) Operation(opID string) (model.SyncOperation, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	op, ok := uc.byID[opID]
	return op, ok
}

func (uc *implUseCase) Operations(linkID string) []model.SyncOperation {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]model.SyncOperation(nil), uc.ops[linkID]...)
}
