package events

import (
	"context"
	"time"

	"carelink-srv/internal/model"
	pkgLog "carelink-srv/pkg/log"
	pkgRedis "carelink-srv/pkg/redis"
)

// NewRedisPublisher publishes events on the carelink redis channels.
// Publish failures are logged and swallowed; the feed is best effort
// and must never stall the alert path.
func NewRedisPublisher(l pkgLog.Logger, client *pkgRedis.Client) Publisher {
	return &redisPublisher{l: l, client: client}
}

// NewNoop returns a publisher that discards every event. Used when
// redis is disabled and in tests.
func NewNoop() Publisher {
	return noopPublisher{}
}

func (p *redisPublisher) AlertCreated(ctx context.Context, alert model.EmergencyAlert) {
	p.publishAlert(ctx, alertEvent{
		Type:     "alert.created",
		AlertID:  alert.ID,
		UserID:   alert.UserID,
		Priority: alert.Prio.String(),
		Status:   alert.Status,
		At:       time.Now().UTC(),
	})
}

func (p *redisPublisher) AlertStatusChanged(ctx context.Context, alert model.EmergencyAlert, from model.AlertStatus) {
	p.publishAlert(ctx, alertEvent{
		Type:       "alert.status_changed",
		AlertID:    alert.ID,
		UserID:     alert.UserID,
		Priority:   alert.Prio.String(),
		Status:     alert.Status,
		FromStatus: from,
		At:         time.Now().UTC(),
	})
}

func (p *redisPublisher) EscalationOpened(ctx context.Context, rec model.EscalationRecord) {
	p.publishEscalation(ctx, escalationEvent{
		Type:                 "escalation.opened",
		RecordID:             rec.ID,
		AlertID:              rec.AlertID,
		Reason:               rec.Reason,
		Path:                 rec.Path,
		RequiresIntervention: rec.RequiresManualIntervention,
		At:                   time.Now().UTC(),
	})
}

func (p *redisPublisher) EscalationResolved(ctx context.Context, rec model.EscalationRecord) {
	p.publishEscalation(ctx, escalationEvent{
		Type:     "escalation.resolved",
		RecordID: rec.ID,
		AlertID:  rec.AlertID,
		Reason:   rec.Reason,
		Path:     rec.Path,
		At:       time.Now().UTC(),
	})
}

func (p *redisPublisher) LinkStateChanged(ctx context.Context, linkID string, from, to model.LinkState) {
	if err := p.client.PublishJSON(ctx, pkgRedis.ChannelAlertEvents, linkEvent{
		Type:   "link.state_changed",
		LinkID: linkID,
		From:   from,
		To:     to,
		At:     time.Now().UTC(),
	}); err != nil {
		p.l.Warnf(ctx, "internal.events.LinkStateChanged: %v", err)
	}
}

func (p *redisPublisher) publishAlert(ctx context.Context, ev alertEvent) {
	if err := p.client.PublishJSON(ctx, pkgRedis.ChannelAlertEvents, ev); err != nil {
		p.l.Warnf(ctx, "internal.events.publishAlert: %s: %v", ev.Type, err)
	}
}

func (p *redisPublisher) publishEscalation(ctx context.Context, ev escalationEvent) {
	if err := p.client.PublishJSON(ctx, pkgRedis.ChannelEscalations, ev); err != nil {
		p.l.Warnf(ctx, "internal.events.publishEscalation: %s: %v", ev.Type, err)
	}
}

func (noopPublisher) AlertCreated(context.Context, model.EmergencyAlert)                        {}
func (noopPublisher) AlertStatusChanged(context.Context, model.EmergencyAlert, model.AlertStatus) {}
func (noopPublisher) EscalationOpened(context.Context, model.EscalationRecord)                  {}
func (noopPublisher) EscalationResolved(context.Context, model.EscalationRecord)                {}
func (noopPublisher) LinkStateChanged(context.Context, string, model.LinkState, model.LinkState) {}
