package model

import (
	"fmt"
	"time"
)

// Priority orders outbound work. Higher values dispatch first.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var priorityNames = map[Priority]string{
	PriorityLow:      "LOW",
	PriorityMedium:   "MEDIUM",
	PriorityHigh:     "HIGH",
	PriorityCritical: "CRITICAL",
}

func (p Priority) String() string {
	if s, ok := priorityNames[p]; ok {
		return s
	}
	return fmt.Sprintf("PRIORITY(%d)", int(p))
}

// ParsePriority maps a wire name to a Priority. Unknown names default to
// CRITICAL so an upstream detector with a newer taxonomy is never downgraded.
func ParsePriority(s string) Priority {
	for p, name := range priorityNames {
		if name == s {
			return p
		}
	}
	return PriorityCritical
}

// Emergency reports whether the priority may override quiet hours.
func (p Priority) Emergency() bool {
	return p >= PriorityHigh
}

// ChannelType identifies one communication transport.
type ChannelType string

const (
	ChannelSMS   ChannelType = "SMS"
	ChannelVoice ChannelType = "VOICE"
	ChannelPush  ChannelType = "PUSH"
	ChannelEmail ChannelType = "EMAIL"
	ChannelLocal ChannelType = "LOCAL"
)

// AlertStatus is the dispatch lifecycle state of an EmergencyAlert.
type AlertStatus string

const (
	AlertPending   AlertStatus = "PENDING"
	AlertSent      AlertStatus = "SENT"
	AlertDelivered AlertStatus = "DELIVERED"
	AlertFailed    AlertStatus = "FAILED"
	AlertResponded AlertStatus = "RESPONDED"
	AlertResolved  AlertStatus = "RESOLVED"
	AlertEscalated AlertStatus = "ESCALATED"
)

// alertTransitions encodes the legal status machine:
// PENDING→SENT→{DELIVERED|FAILED}; FAILED→PENDING (requeue) or →ESCALATED;
// DELIVERED→ESCALATED (response deadline missed);
// DELIVERED/ESCALATED→RESPONDED→RESOLVED. RESOLVED is terminal.
var alertTransitions = map[AlertStatus][]AlertStatus{
	AlertPending:   {AlertSent},
	AlertSent:      {AlertDelivered, AlertFailed},
	AlertDelivered: {AlertResponded, AlertEscalated},
	AlertFailed:    {AlertPending, AlertEscalated},
	AlertEscalated: {AlertResponded},
	AlertResponded: {AlertResolved},
	AlertResolved:  {},
}

// CanTransition reports whether from→to is a legal alert status transition.
func CanTransition(from, to AlertStatus) bool {
	for _, next := range alertTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ChannelResult is one delivery attempt on one channel. Append-only.
type ChannelResult struct {
	Channel       ChannelType `json:"channel"`
	Target        string      `json:"target"`
	Success       bool        `json:"success"`
	At            time.Time   `json:"at"`
	DeliveryToken string      `json:"delivery_token,omitempty"`
	Error         string      `json:"error,omitempty"`
	// Response holds a caregiver acknowledgment received on this channel.
	Response string `json:"response,omitempty"`
	// Permanent marks failures that must not be retried on this channel
	// (invalid target, revoked consent).
	Permanent bool `json:"permanent,omitempty"`
}

// EmergencyEvent is the raw input from upstream detectors (panic trigger,
// abuse-risk escalation, crash-loop supervisor).
type EmergencyEvent struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Priority  string            `json:"priority"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// EmergencyAlert represents one safety-critical notification obligation.
type EmergencyAlert struct {
	ID      string   `json:"id"`
	EventID string   `json:"event_id"`
	UserID  string   `json:"user_id"`
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Prio    Priority `json:"priority"`

	// TargetLinks is the caregiver link set this alert must reach.
	TargetLinks []string        `json:"target_links"`
	Results     []ChannelResult `json:"results,omitempty"`

	Status      AlertStatus `json:"status"`
	RetryCount  int         `json:"retry_count"`
	MaxRetries  int         `json:"max_retries"`
	NextRetryAt time.Time   `json:"next_retry_at,omitzero"`

	// ResponseDeadline is when an unresolved CRITICAL/HIGH alert is handed
	// to the escalation authority even if a channel reported success.
	ResponseDeadline time.Time `json:"response_deadline,omitzero"`

	EscalatedToElderRights bool `json:"escalated_to_elder_rights"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the alert admits no further mutation.
func (a *EmergencyAlert) Terminal() bool {
	return a.Status == AlertResolved
}

// Delivered reports whether at least one channel attempt succeeded.
func (a *EmergencyAlert) Delivered() bool {
	for _, r := range a.Results {
		if r.Success {
			return true
		}
	}
	return false
}

// DeliveryConfidence counts the channels that reported success, exposed to
// the audit surface to distinguish multi-channel delivery from a single
// best-effort local notification.
func (a *EmergencyAlert) DeliveryConfidence() int {
	n := 0
	for _, r := range a.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// SetStatus applies a status transition, returning false if illegal.
func (a *EmergencyAlert) SetStatus(to AlertStatus) bool {
	if !CanTransition(a.Status, to) {
		return false
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	return true
}
