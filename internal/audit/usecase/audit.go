package usecase

import (
	"context"

	"carelink-srv/internal/audit"
	"carelink-srv/internal/model"
	"carelink-srv/pkg/paginator"
)

func (uc *implUseCase) RecordHeartbeat(ctx context.Context, hb model.Heartbeat) {
	uc.submit(ctx, "heartbeat", func(ctx context.Context) error {
		return uc.repo.InsertHeartbeat(ctx, hb)
	})
}

func (uc *implUseCase) RecordLink(ctx context.Context, link model.CaregiverLink) {
	uc.submit(ctx, "link", func(ctx context.Context) error {
		return uc.repo.UpsertLink(ctx, link)
	})
}

func (uc *implUseCase) RecordAlert(ctx context.Context, alert model.EmergencyAlert) {
	uc.submit(ctx, "alert", func(ctx context.Context) error {
		return uc.repo.UpsertAlert(ctx, alert)
	})
}

func (uc *implUseCase) RecordSyncOperation(ctx context.Context, op model.SyncOperation) {
	uc.submit(ctx, "sync operation", func(ctx context.Context) error {
		return uc.repo.InsertSyncOperation(ctx, op)
	})
}

func (uc *implUseCase) RecordEscalation(ctx context.Context, rec model.EscalationRecord) {
	uc.submit(ctx, "escalation", func(ctx context.Context) error {
		return uc.repo.UpsertEscalation(ctx, rec)
	})
}

func (uc *implUseCase) ItemDropped(ctx context.Context, item model.QueueItem, reason string) {
	uc.submit(ctx, "queue drop", func(ctx context.Context) error {
		return uc.repo.InsertQueueDrop(ctx, item, reason)
	})
}

func (uc *implUseCase) Alerts(ctx context.Context, filter audit.AlertFilter, pag paginator.PaginateQuery) ([]model.EmergencyAlert, paginator.Paginator, error) {
	pag.Adjust()
	alerts, total, err := uc.repo.Alerts(ctx, filter, pag.Limit, pag.Offset())
	if err != nil {
		uc.l.Errorf(ctx, "internal.audit.Alerts: %v", err)
		return nil, paginator.Paginator{}, err
	}
	return alerts, pageOf(pag, total, len(alerts)), nil
}

func (uc *implUseCase) Escalations(ctx context.Context, onlyOpen bool, pag paginator.PaginateQuery) ([]model.EscalationRecord, paginator.Paginator, error) {
	pag.Adjust()
	recs, total, err := uc.repo.Escalations(ctx, onlyOpen, pag.Limit, pag.Offset())
	if err != nil {
		uc.l.Errorf(ctx, "internal.audit.Escalations: %v", err)
		return nil, paginator.Paginator{}, err
	}
	return recs, pageOf(pag, total, len(recs)), nil
}

func (uc *implUseCase) SyncOperations(ctx context.Context, linkID string, pag paginator.PaginateQuery) ([]model.SyncOperation, paginator.Paginator, error) {
	pag.Adjust()
	ops, total, err := uc.repo.SyncOperations(ctx, linkID, pag.Limit, pag.Offset())
	if err != nil {
		uc.l.Errorf(ctx, "internal.audit.SyncOperations: %v", err)
		return nil, paginator.Paginator{}, err
	}
	return ops, pageOf(pag, total, len(ops)), nil
}

func (uc *implUseCase) Heartbeats(ctx context.Context, linkID string, limit int) ([]model.Heartbeat, error) {
	if limit < 1 || limit > int(paginator.MaxLimit) {
		limit = paginator.DefaultLimit
	}
	hbs, err := uc.repo.Heartbeats(ctx, linkID, limit)
	if err != nil {
		uc.l.Errorf(ctx, "internal.audit.Heartbeats: %v", err)
		return nil, err
	}
	return hbs, nil
}

func pageOf(pag paginator.PaginateQuery, total int64, count int) paginator.Paginator {
	return paginator.Paginator{
		Total:       total,
		Count:       int64(count),
		PerPage:     pag.Limit,
		CurrentPage: pag.Page,
	}
}
