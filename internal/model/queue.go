package model

import "time"

// ItemKind distinguishes queued payloads.
type ItemKind string

const (
	ItemAlert ItemKind = "ALERT"
	ItemSync  ItemKind = "SYNC"
)

// QueueItem is one pending outbound work item in the offline queue.
// Alerts reference an EmergencyAlert by ID; sync items carry the category
// and link they belong to.
type QueueItem struct {
	ID   string   `json:"id"`
	Kind ItemKind `json:"kind"`

	AlertID  string       `json:"alert_id,omitempty"`
	LinkID   string       `json:"link_id,omitempty"`
	Category SyncCategory `json:"category,omitempty"`

	Prio       Priority  `json:"priority"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	ExpiresAt  time.Time `json:"expires_at"`

	RetryCount  int       `json:"retry_count"`
	MaxRetries  int       `json:"max_retries"`
	NextRetryAt time.Time `json:"next_retry_at,omitzero"`

	RequiresAcknowledgment bool `json:"requires_acknowledgment"`
}

// Expired reports whether the item must never be dispatched again.
func (it *QueueItem) Expired(now time.Time) bool {
	return !it.ExpiresAt.IsZero() && !it.ExpiresAt.After(now)
}

// Ready reports whether the item is eligible for dispatch at now.
func (it *QueueItem) Ready(now time.Time) bool {
	if it.Expired(now) {
		return false
	}
	return !it.NextRetryAt.After(now)
}
