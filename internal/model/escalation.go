package model

import "time"

// EscalationPath identifies the secondary notification path taken.
type EscalationPath string

const (
	PathElderRightsAdvocate EscalationPath = "ELDER_RIGHTS_ADVOCATE"
	PathSecondaryCaregiver  EscalationPath = "SECONDARY_CAREGIVER"
)

// EscalationReason records why the alert was escalated.
type EscalationReason string

const (
	ReasonRetriesExhausted EscalationReason = "RETRIES_EXHAUSTED"
	ReasonDeadlineMissed   EscalationReason = "RESPONSE_DEADLINE_MISSED"
)

// EscalationRecord is created at most once per alert, on its first
// escalation. It is closed only when a human resolves it; the
// RequiresManualIntervention flag is never auto-cleared.
type EscalationRecord struct {
	ID      string `json:"id"`
	AlertID string `json:"alert_id"`
	UserID  string `json:"user_id"`

	Reason EscalationReason `json:"reason"`
	Path   EscalationPath   `json:"path"`

	NotifySucceeded           bool `json:"notify_succeeded"`
	RequiresManualIntervention bool `json:"requires_manual_intervention"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
}

// Open reports whether the record still needs human attention.
func (r *EscalationRecord) Open() bool {
	return r.ResolvedAt == nil
}
