package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"carelink-srv/internal/channel"
	"carelink-srv/internal/dispatch"
	"carelink-srv/internal/model"
	pkgErrors "carelink-srv/pkg/errors"
)

func (uc *implUseCase) HandleEvent(ctx context.Context, ev model.EmergencyEvent) (model.EmergencyAlert, error) {
	prio := model.ParsePriority(ev.Priority)

	var targets []string
	for _, link := range uc.monitor.Links() {
		if link.UserID == ev.UserID {
			targets = append(targets, link.ID)
		}
	}
	if len(targets) == 0 {
		uc.l.Errorf(ctx, "internal.dispatch.HandleEvent: event=%s user=%s: %v", ev.ID, ev.UserID, dispatch.ErrNoTargetLinks)
		return model.EmergencyAlert{}, dispatch.ErrNoTargetLinks
	}

	now := time.Now()
	alert := &model.EmergencyAlert{
		ID:          uuid.NewString(),
		EventID:     ev.ID,
		UserID:      ev.UserID,
		Type:        ev.Type,
		Message:     ev.Message,
		Prio:        prio,
		TargetLinks: targets,
		Status:      model.AlertPending,
		MaxRetries:  uc.cfg.DefaultMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if prio.Emergency() {
		alert.ResponseDeadline = now.Add(uc.cfg.ResponseDeadline)
	}

	item := model.QueueItem{
		ID:                     uuid.NewString(),
		Kind:                   model.ItemAlert,
		AlertID:                alert.ID,
		Prio:                   prio,
		MaxRetries:             uc.cfg.DefaultMaxRetries,
		RequiresAcknowledgment: prio.Emergency(),
	}
	if err := uc.q.Enqueue(ctx, item); err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.HandleEvent: enqueue alert=%s: %v", alert.ID, err)
		return model.EmergencyAlert{}, err
	}

	uc.mu.Lock()
	uc.alerts[alert.ID] = alert
	snapshot := *alert
	uc.mu.Unlock()

	uc.l.Infof(ctx, "internal.dispatch.HandleEvent: alert=%s event=%s priority=%s links=%d",
		alert.ID, ev.ID, prio, len(targets))
	uc.pub.AlertCreated(ctx, snapshot)
	uc.record(ctx, snapshot)
	uc.Wake()
	return snapshot, nil
}

// sendTask is one (channel, target) pair of a fan-out attempt.
type sendTask struct {
	linkID string
	target string
	ch     channel.Channel
}

// attempt runs one delivery attempt for a queued alert item. The item is
// always either acked, requeued or deferred before returning, so the drain
// loop never sees it ready again within the same pass.
func (uc *implUseCase) attempt(ctx context.Context, item model.QueueItem) {
	now := time.Now()

	uc.mu.Lock()
	alert, ok := uc.alerts[item.AlertID]
	if !ok || alert.Terminal() || alert.Status == model.AlertResponded ||
		alert.Status == model.AlertDelivered || alert.Status == model.AlertEscalated {
		uc.mu.Unlock()
		if !ok {
			uc.l.Warnf(ctx, "internal.dispatch.attempt: item=%s references unknown alert=%s", item.ID, item.AlertID)
		}
		uc.ack(ctx, item.ID)
		return
	}
	prio := alert.Prio
	targets := append([]string(nil), alert.TargetLinks...)
	failed := permanentFailures(alert.Results)
	uc.mu.Unlock()

	usable, quietUntil := uc.availableLinks(targets, prio, now)
	if len(usable) == 0 {
		if !quietUntil.IsZero() {
			uc.l.Infof(ctx, "internal.dispatch.attempt: alert=%s in quiet hours, deferred until %s",
				item.AlertID, quietUntil.Format(time.RFC3339))
			uc.pushBack(ctx, item.ID, quietUntil)
			return
		}
		uc.pushBack(ctx, item.ID, now.Add(uc.cfg.OfflineRecheck))
		return
	}

	sends := uc.buildSends(usable, prio, failed)
	if len(sends) == 0 {
		// Every reachable channel has failed permanently; retrying cannot
		// change the outcome.
		uc.l.Errorf(ctx, "internal.dispatch.attempt: alert=%s has no remaining channels", item.AlertID)
		uc.ack(ctx, item.ID)
		uc.transition(ctx, item.AlertID, model.AlertSent)
		uc.failAttempt(ctx, item, nil, true)
		return
	}

	uc.transition(ctx, item.AlertID, model.AlertSent)
	results := uc.fanOut(ctx, alertMessage(alert), sends)
	delivered := false
	for _, r := range results {
		if r.Success {
			delivered = true
			break
		}
	}

	uc.mu.Lock()
	alert, ok = uc.alerts[item.AlertID]
	if !ok {
		uc.mu.Unlock()
		uc.ack(ctx, item.ID)
		return
	}
	alert.Results = append(alert.Results, results...)
	uc.mu.Unlock()

	if delivered {
		uc.ack(ctx, item.ID)
		snap := uc.transition(ctx, item.AlertID, model.AlertDelivered)
		uc.l.Infof(ctx, "internal.dispatch.attempt: alert=%s delivered, confidence=%d",
			item.AlertID, snap.DeliveryConfidence())
		uc.record(ctx, snap)
		return
	}
	uc.failAttempt(ctx, item, results, false)
}

// failAttempt moves the alert to FAILED, then either schedules the next
// retry or hands it to the escalation authority when the budget is gone.
func (uc *implUseCase) failAttempt(ctx context.Context, item model.QueueItem, results []model.ChannelResult, exhausted bool) {
	uc.transition(ctx, item.AlertID, model.AlertFailed)

	if !exhausted {
		err := uc.q.Requeue(ctx, item.ID)
		switch {
		case err == nil:
			uc.mu.Lock()
			if alert, ok := uc.alerts[item.AlertID]; ok {
				alert.RetryCount++
			}
			uc.mu.Unlock()
			snap := uc.transition(ctx, item.AlertID, model.AlertPending)
			uc.l.Warnf(ctx, "internal.dispatch.failAttempt: alert=%s attempt failed on %d channels, retry %d/%d",
				item.AlertID, len(results), snap.RetryCount, snap.MaxRetries)
			uc.record(ctx, snap)
			return
		case isRetriesExhausted(err):
			exhausted = true
		default:
			uc.l.Errorf(ctx, "internal.dispatch.failAttempt: requeue alert=%s: %v", item.AlertID, err)
			return
		}
	}
	uc.escalate(ctx, item.AlertID, model.ReasonRetriesExhausted)
}

// escalate hands the alert to the escalation authority and applies the
// outcome. An alert with spent retries is never dropped quietly: a missing
// or failing escalator is itself logged at error level.
func (uc *implUseCase) escalate(ctx context.Context, alertID string, reason model.EscalationReason) {
	uc.mu.Lock()
	alert, ok := uc.alerts[alertID]
	if !ok {
		uc.mu.Unlock()
		return
	}
	snap := *alert
	uc.mu.Unlock()

	if uc.esc == nil {
		uc.l.Errorf(ctx, "internal.dispatch.escalate: alert=%s reason=%s: no escalation authority wired", alertID, reason)
		return
	}
	rec, err := uc.esc.OnExhausted(ctx, snap)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.escalate: alert=%s: %v", alertID, err)
	}
	uc.MarkEscalated(ctx, alertID, rec)
}

func (uc *implUseCase) MarkEscalated(ctx context.Context, alertID string, rec model.EscalationRecord) {
	uc.mu.Lock()
	alert, ok := uc.alerts[alertID]
	if !ok {
		uc.mu.Unlock()
		return
	}
	from := alert.Status
	if !alert.SetStatus(model.AlertEscalated) {
		uc.mu.Unlock()
		uc.l.Warnf(ctx, "internal.dispatch.MarkEscalated: alert=%s status=%s: %v", alertID, from, dispatch.ErrIllegalTransition)
		return
	}
	if rec.Path == model.PathElderRightsAdvocate {
		alert.EscalatedToElderRights = true
	}
	snap := *alert
	uc.mu.Unlock()

	uc.l.Warnf(ctx, "internal.dispatch.MarkEscalated: alert=%s path=%s record=%s", alertID, rec.Path, rec.ID)
	uc.pub.AlertStatusChanged(ctx, snap, from)
	uc.record(ctx, snap)
}

// availableLinks filters the alert's target links down to those that can
// carry this attempt. When every usable link is inside quiet hours the
// second return value holds the earliest window end.
func (uc *implUseCase) availableLinks(targets []string, prio model.Priority, now time.Time) ([]model.CaregiverLink, time.Time) {
	var usable []model.CaregiverLink
	var quietUntil time.Time
	anyUsable := false

	for _, id := range targets {
		link, err := uc.monitor.Link(id)
		if err != nil || !link.State.Usable() {
			continue
		}
		anyUsable = true
		if suppressedByQuietHours(link.Policy, prio, now) {
			end := link.Policy.QuietHours.NextEnd(now)
			if quietUntil.IsZero() || end.Before(quietUntil) {
				quietUntil = end
			}
			continue
		}
		usable = append(usable, link)
	}
	if len(usable) > 0 || !anyUsable {
		return usable, time.Time{}
	}
	return nil, quietUntil
}

func suppressedByQuietHours(p model.ChannelPolicy, prio model.Priority, now time.Time) bool {
	if !p.RespectQuietHours || p.QuietHours == nil || !p.QuietHours.Contains(now) {
		return false
	}
	return !(prio.Emergency() && p.EmergencyOverrideQuietHours)
}

// buildSends resolves the channel plan per link: priority-mapped channels
// first, remaining enabled channels after, deduplicated by (channel, target)
// and stripped of channels that already failed permanently for that target.
func (uc *implUseCase) buildSends(links []model.CaregiverLink, prio model.Priority, failed map[string]bool) []sendTask {
	var sends []sendTask
	seen := make(map[string]bool)
	for _, link := range links {
		for _, ct := range channelPlan(link.Policy, prio) {
			ch, ok := uc.registry.Get(ct)
			if !ok {
				continue
			}
			key := string(ct) + "|" + link.Target
			if seen[key] || failed[key] {
				continue
			}
			seen[key] = true
			sends = append(sends, sendTask{linkID: link.ID, target: link.Target, ch: ch})
		}
	}
	return sends
}

func channelPlan(p model.ChannelPolicy, prio model.Priority) []model.ChannelType {
	var out []model.ChannelType
	seen := make(map[model.ChannelType]bool)
	for _, ct := range p.PriorityChannels[prio] {
		if p.ChannelEnabled(ct) && !seen[ct] {
			seen[ct] = true
			out = append(out, ct)
		}
	}
	for _, ct := range p.Enabled {
		if !seen[ct] {
			seen[ct] = true
			out = append(out, ct)
		}
	}
	return out
}

// fanOut sends the message on every task concurrently. Each channel gets
// its own timeout; the whole attempt is bounded by the alert timeout.
func (uc *implUseCase) fanOut(ctx context.Context, msg channel.Message, sends []sendTask) []model.ChannelResult {
	attemptCtx, cancel := context.WithTimeout(ctx, uc.cfg.AlertTimeout)
	defer cancel()

	results := make([]model.ChannelResult, len(sends))
	var wg sync.WaitGroup
	for i, s := range sends {
		wg.Add(1)
		go func(i int, s sendTask) {
			defer wg.Done()
			sendCtx, sendCancel := context.WithTimeout(attemptCtx, uc.cfg.ChannelTimeout)
			defer sendCancel()

			res, err := s.ch.Send(sendCtx, s.target, msg)
			cr := model.ChannelResult{
				Channel:       s.ch.Type(),
				Target:        s.target,
				At:            time.Now(),
				DeliveryToken: res.DeliveryToken,
			}
			if err != nil {
				cr.Error = err.Error()
				cr.Permanent = pkgErrors.IsPermanent(err)
				uc.l.Warnf(attemptCtx, "internal.dispatch.fanOut: alert=%s channel=%s link=%s: %v",
					msg.AlertID, s.ch.Type(), s.linkID, err)
			} else {
				cr.Success = true
			}
			results[i] = cr
		}(i, s)
	}
	wg.Wait()
	return results
}

func alertMessage(a *model.EmergencyAlert) channel.Message {
	return channel.Message{
		AlertID:  a.ID,
		Title:    a.Type,
		Body:     a.Message,
		Priority: a.Prio,
	}
}

func permanentFailures(results []model.ChannelResult) map[string]bool {
	failed := make(map[string]bool)
	for _, r := range results {
		if r.Permanent {
			failed[string(r.Channel)+"|"+r.Target] = true
		}
	}
	return failed
}

// transition applies a status change and publishes it. Returns the updated
// snapshot, or the current one if the transition was illegal.
func (uc *implUseCase) transition(ctx context.Context, alertID string, to model.AlertStatus) model.EmergencyAlert {
	uc.mu.Lock()
	alert, ok := uc.alerts[alertID]
	if !ok {
		uc.mu.Unlock()
		return model.EmergencyAlert{}
	}
	from := alert.Status
	applied := alert.SetStatus(to)
	snap := *alert
	uc.mu.Unlock()

	if !applied {
		uc.l.Warnf(ctx, "internal.dispatch.transition: alert=%s %s->%s: %v", alertID, from, to, dispatch.ErrIllegalTransition)
		return snap
	}
	uc.pub.AlertStatusChanged(ctx, snap, from)
	return snap
}

func (uc *implUseCase) ack(ctx context.Context, itemID string) {
	if err := uc.q.Ack(ctx, itemID); err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.ack: item=%s: %v", itemID, err)
	}
}

func (uc *implUseCase) pushBack(ctx context.Context, itemID string, until time.Time) {
	if err := uc.q.Defer(ctx, itemID, until); err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.pushBack: item=%s: %v", itemID, err)
	}
}
