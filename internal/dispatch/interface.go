package dispatch

import (
	"context"
	"time"

	"carelink-srv/internal/model"
)

// Escalator receives alerts whose retry budget ran out. Implemented by the
// escalation authority; calls are synchronous so the caller observes the
// chosen escalation path before updating the alert.
type Escalator interface {
	OnExhausted(ctx context.Context, alert model.EmergencyAlert) (model.EscalationRecord, error)
}

// SyncRunner drains one queued sync item. The dispatcher owns the queue and
// pops items in strict priority order, so sync work can never preempt alert
// delivery; it only runs when no alert item is ahead of it.
type SyncRunner interface {
	RunSync(ctx context.Context, item model.QueueItem) (model.SyncOperation, error)
}

// AlertRecorder persists alert lifecycle snapshots to the audit surface.
// Implementations must not block the dispatch path.
type AlertRecorder interface {
	RecordAlert(ctx context.Context, alert model.EmergencyAlert)
}

// UseCase is the alert dispatcher: it turns emergency events into alerts,
// drains the offline queue in priority order and fans each alert out across
// the caregiver's channels concurrently.
type UseCase interface {
	// HandleEvent creates an alert for the event, queues it and wakes the
	// drain loop. The returned alert is a snapshot.
	HandleEvent(ctx context.Context, ev model.EmergencyEvent) (model.EmergencyAlert, error)

	// HandleResponse records a caregiver acknowledgment received on a
	// channel, moving the alert to RESPONDED and cancelling queued retries.
	HandleResponse(ctx context.Context, alertID string, ch model.ChannelType, response string) (model.EmergencyAlert, error)

	// ResolveAlert closes the alert. Only RESPONDED alerts resolve.
	ResolveAlert(ctx context.Context, alertID string) (model.EmergencyAlert, error)

	Alert(alertID string) (model.EmergencyAlert, error)
	// ActiveAlerts returns every non-resolved alert, newest first.
	ActiveAlerts() []model.EmergencyAlert

	// UnresolvedPastDeadline returns delivered emergency alerts whose
	// response deadline passed without a caregiver response. Polled by the
	// escalation authority's deadline watcher.
	UnresolvedPastDeadline(now time.Time) []model.EmergencyAlert

	// MarkEscalated applies the escalation outcome decided by the
	// escalation authority to the alert.
	MarkEscalated(ctx context.Context, alertID string, rec model.EscalationRecord)

	// Wake nudges the drain loop; wired to connectivity transitions so a
	// link coming back online is acted on before the next tick.
	Wake()

	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}
