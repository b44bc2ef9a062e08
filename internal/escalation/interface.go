package escalation

import (
	"context"
	"time"

	"carelink-srv/internal/model"
)

// AlertSource exposes delivered alerts whose response deadline has passed.
// Implemented by the dispatcher and bound after construction, since the
// dispatcher also calls back into the authority on retry exhaustion.
type AlertSource interface {
	UnresolvedPastDeadline(now time.Time) []model.EmergencyAlert
	MarkEscalated(ctx context.Context, alertID string, rec model.EscalationRecord)
}

// Recorder persists escalation records to the audit surface.
type Recorder interface {
	RecordEscalation(ctx context.Context, rec model.EscalationRecord)
}

// UseCase is the escalation authority. It owns the single escalation record
// an alert may ever have and the secondary notification paths taken when
// caregivers are unreachable or unresponsive.
type UseCase interface {
	// OnExhausted escalates an alert whose delivery retries ran out.
	// Idempotent per alert: repeat calls return the existing record.
	OnExhausted(ctx context.Context, alert model.EmergencyAlert) (model.EscalationRecord, error)

	// OnDeadlineMissed escalates a delivered alert nobody responded to.
	OnDeadlineMissed(ctx context.Context, alert model.EmergencyAlert) (model.EscalationRecord, error)

	Record(recordID string) (model.EscalationRecord, bool)
	RecordForAlert(alertID string) (model.EscalationRecord, bool)
	// Unresolved returns open records, oldest first.
	Unresolved() []model.EscalationRecord

	// Resolve closes a record on explicit human action. The manual
	// intervention flag is part of the historical record and stays set.
	Resolve(ctx context.Context, recordID, resolvedBy string) (model.EscalationRecord, error)

	// Bind attaches the alert source. Must be called before Run.
	Bind(src AlertSource)

	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}
