package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"carelink-srv/internal/escalation"
	"carelink-srv/internal/model"
	"carelink-srv/pkg/webhook"
)

func (uc *implUseCase) OnExhausted(ctx context.Context, alert model.EmergencyAlert) (model.EscalationRecord, error) {
	return uc.escalateOnce(ctx, alert, model.ReasonRetriesExhausted)
}

func (uc *implUseCase) OnDeadlineMissed(ctx context.Context, alert model.EmergencyAlert) (model.EscalationRecord, error) {
	return uc.escalateOnce(ctx, alert, model.ReasonDeadlineMissed)
}

// escalateOnce creates the alert's single escalation record and works the
// secondary notification paths. When every path fails the record is flagged
// for manual intervention, persisted and logged; it is never discarded.
func (uc *implUseCase) escalateOnce(ctx context.Context, alert model.EmergencyAlert, reason model.EscalationReason) (model.EscalationRecord, error) {
	uc.mu.Lock()
	if existing, ok := uc.byAlert[alert.ID]; ok {
		rec := *existing
		uc.mu.Unlock()
		uc.l.Debugf(ctx, "internal.escalation.escalateOnce: alert=%s already escalated, record=%s", alert.ID, rec.ID)
		return rec, nil
	}
	rec := &model.EscalationRecord{
		ID:        uuid.NewString(),
		AlertID:   alert.ID,
		UserID:    alert.UserID,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	uc.byAlert[alert.ID] = rec
	uc.byID[rec.ID] = rec
	uc.mu.Unlock()

	path, notified := uc.notify(ctx, alert, reason)

	uc.mu.Lock()
	rec.Path = path
	rec.NotifySucceeded = notified
	rec.RequiresManualIntervention = !notified
	snap := *rec
	uc.mu.Unlock()

	if notified {
		uc.l.Warnf(ctx, "internal.escalation.escalateOnce: alert=%s reason=%s escalated via %s, record=%s",
			alert.ID, reason, path, snap.ID)
	} else {
		uc.l.Errorf(ctx, "internal.escalation.escalateOnce: alert=%s reason=%s: all escalation paths failed, manual intervention required, record=%s",
			alert.ID, reason, snap.ID)
	}
	uc.pub.EscalationOpened(ctx, snap)
	if uc.rec != nil {
		uc.rec.RecordEscalation(ctx, snap)
	}
	return snap, nil
}

// notify tries the advocate endpoint first, then the secondary caregiver
// contact. Returns the path that answered and whether anyone did.
func (uc *implUseCase) notify(ctx context.Context, alert model.EmergencyAlert, reason model.EscalationReason) (model.EscalationPath, bool) {
	fields := map[string]string{
		"alert_id": alert.ID,
		"user_id":  alert.UserID,
		"priority": alert.Prio.String(),
		"reason":   string(reason),
		"retries":  fmt.Sprintf("%d/%d", alert.RetryCount, alert.MaxRetries),
	}
	title := fmt.Sprintf("Unreached emergency alert: %s", alert.Type)

	if uc.advocate != nil {
		err := uc.advocate.NotifyUrgent(ctx, title, alert.Message, fields)
		if err == nil {
			return model.PathElderRightsAdvocate, true
		}
		uc.l.Errorf(ctx, "internal.escalation.notify: alert=%s advocate endpoint: %v", alert.ID, err)
	}
	if uc.secondary != nil {
		err := uc.secondary.Notify(ctx, webhook.Notification{
			Title:    title,
			Body:     alert.Message,
			Severity: webhook.SeverityUrgent,
			AlertID:  alert.ID,
			UserID:   alert.UserID,
			Fields:   fields,
		})
		if err == nil {
			return model.PathSecondaryCaregiver, true
		}
		uc.l.Errorf(ctx, "internal.escalation.notify: alert=%s secondary contact: %v", alert.ID, err)
	}
	return model.PathElderRightsAdvocate, false
}

func (uc *implUseCase) Record(recordID string) (model.EscalationRecord, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	rec, ok := uc.byID[recordID]
	if !ok {
		return model.EscalationRecord{}, false
	}
	return *rec, true
}

func (uc *implUseCase) RecordForAlert(alertID string) (model.EscalationRecord, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	rec, ok := uc.byAlert[alertID]
	if !ok {
		return model.EscalationRecord{}, false
	}
	return *rec, true
}

func (uc *implUseCase) Unresolved() []model.EscalationRecord {
	uc.mu.Lock()
	var out []model.EscalationRecord
	for _, rec := range uc.byID {
		if rec.Open() {
			out = append(out, *rec)
		}
	}
	uc.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (uc *implUseCase) Resolve(ctx context.Context, recordID, resolvedBy string) (model.EscalationRecord, error) {
	if resolvedBy == "" {
		return model.EscalationRecord{}, escalation.ErrResolverRequired
	}

	uc.mu.Lock()
	rec, ok := uc.byID[recordID]
	if !ok {
		uc.mu.Unlock()
		return model.EscalationRecord{}, escalation.ErrRecordNotFound
	}
	if !rec.Open() {
		uc.mu.Unlock()
		return model.EscalationRecord{}, escalation.ErrAlreadyResolved
	}
	now := time.Now()
	rec.ResolvedAt = &now
	rec.ResolvedBy = resolvedBy
	snap := *rec
	uc.mu.Unlock()

	uc.l.Infof(ctx, "internal.escalation.Resolve: record=%s alert=%s resolved by %s", recordID, snap.AlertID, resolvedBy)
	uc.pub.EscalationResolved(ctx, snap)
	if uc.rec != nil {
		uc.rec.RecordEscalation(ctx, snap)
	}
	return snap, nil
}
