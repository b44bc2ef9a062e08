package usecase

import (
	"context"
	"sort"
	"time"

	"carelink-srv/internal/dispatch"
	"carelink-srv/internal/model"
)

func (uc *implUseCase) HandleResponse(ctx context.Context, alertID string, ch model.ChannelType, response string) (model.EmergencyAlert, error) {
	uc.mu.Lock()
	alert, ok := uc.alerts[alertID]
	if !ok {
		uc.mu.Unlock()
		return model.EmergencyAlert{}, dispatch.ErrAlertNotFound
	}
	if alert.Terminal() {
		uc.mu.Unlock()
		return model.EmergencyAlert{}, dispatch.ErrAlertTerminal
	}
	from := alert.Status

	// A caregiver can answer before every channel result lands; treat the
	// response itself as proof of delivery.
	if alert.Status == model.AlertSent {
		alert.SetStatus(model.AlertDelivered)
	}
	if alert.Status != model.AlertResponded && !alert.SetStatus(model.AlertResponded) {
		status := alert.Status
		uc.mu.Unlock()
		uc.l.Warnf(ctx, "internal.dispatch.HandleResponse: alert=%s status=%s: %v", alertID, status, dispatch.ErrIllegalTransition)
		return model.EmergencyAlert{}, dispatch.ErrIllegalTransition
	}
	alert.Results = append(alert.Results, model.ChannelResult{
		Channel:  ch,
		Success:  true,
		At:       time.Now(),
		Response: response,
	})
	snap := *alert
	uc.mu.Unlock()

	cancelled := uc.q.CancelAlert(ctx, alertID)
	uc.l.Infof(ctx, "internal.dispatch.HandleResponse: alert=%s channel=%s cancelled=%d", alertID, ch, cancelled)
	uc.pub.AlertStatusChanged(ctx, snap, from)
	uc.record(ctx, snap)
	return snap, nil
}

func (uc *implUseCase) ResolveAlert(ctx context.Context, alertID string) (model.EmergencyAlert, error) {
	uc.mu.Lock()
	alert, ok := uc.alerts[alertID]
	if !ok {
		uc.mu.Unlock()
		return model.EmergencyAlert{}, dispatch.ErrAlertNotFound
	}
	if alert.Terminal() {
		snap := *alert
		uc.mu.Unlock()
		return snap, nil
	}
	from := alert.Status
	if !alert.SetStatus(model.AlertResolved) {
		status := alert.Status
		uc.mu.Unlock()
		uc.l.Warnf(ctx, "internal.dispatch.ResolveAlert: alert=%s status=%s: %v", alertID, status, dispatch.ErrIllegalTransition)
		return model.EmergencyAlert{}, dispatch.ErrIllegalTransition
	}
	snap := *alert
	delete(uc.alerts, alertID)
	uc.mu.Unlock()

	uc.q.CancelAlert(ctx, alertID)
	uc.l.Infof(ctx, "internal.dispatch.ResolveAlert: alert=%s resolved", alertID)
	uc.pub.AlertStatusChanged(ctx, snap, from)
	uc.record(ctx, snap)
	return snap, nil
}

func (uc *implUseCase) Alert(alertID string) (model.EmergencyAlert, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	alert, ok := uc.alerts[alertID]
	if !ok {
		return model.EmergencyAlert{}, dispatch.ErrAlertNotFound
	}
	return *alert, nil
}

func (uc *implUseCase) ActiveAlerts() []model.EmergencyAlert {
	uc.mu.Lock()
	out := make([]model.EmergencyAlert, 0, len(uc.alerts))
	for _, a := range uc.alerts {
		if !a.Terminal() {
			out = append(out, *a)
		}
	}
	uc.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (uc *implUseCase) UnresolvedPastDeadline(now time.Time) []model.EmergencyAlert {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var out []model.EmergencyAlert
	for _, a := range uc.alerts {
		if a.Status != model.AlertDelivered {
			continue
		}
		if !a.ResponseDeadline.IsZero() && a.ResponseDeadline.Before(now) {
			out = append(out, *a)
		}
	}
	return out
}
