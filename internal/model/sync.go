package model

import "time"

// SyncCategory is one class of non-critical data synchronized opportunistically.
type SyncCategory string

const (
	SyncCategoryVitals      SyncCategory = "VITALS"
	SyncCategoryActivity    SyncCategory = "ACTIVITY"
	SyncCategoryMedication  SyncCategory = "MEDICATION"
	SyncCategoryDeviceState SyncCategory = "DEVICE_STATE"
	SyncCategoryJournal     SyncCategory = "JOURNAL"
)

// SyncFrequency is the per-category cadence policy.
type SyncFrequency string

const (
	FrequencyRealtime   SyncFrequency = "REALTIME"
	FrequencyFrequent   SyncFrequency = "FREQUENT"
	FrequencyModerate   SyncFrequency = "MODERATE"
	FrequencyInfrequent SyncFrequency = "INFREQUENT"
	FrequencyManual     SyncFrequency = "MANUAL"
)

// Interval returns the scheduling interval for the frequency.
// MANUAL and REALTIME return 0: manual never self-schedules, realtime is
// drained on every opportunity.
func (f SyncFrequency) Interval() time.Duration {
	switch f {
	case FrequencyFrequent:
		return 5 * time.Minute
	case FrequencyModerate:
		return 30 * time.Minute
	case FrequencyInfrequent:
		return 4 * time.Hour
	default:
		return 0
	}
}

// SyncStatus is the lifecycle state of one sync pass.
type SyncStatus string

const (
	SyncPending    SyncStatus = "PENDING"
	SyncInProgress SyncStatus = "IN_PROGRESS"
	SyncCompleted  SyncStatus = "COMPLETED"
	SyncFailed     SyncStatus = "FAILED"
	SyncPartial    SyncStatus = "PARTIAL"
	SyncCancelled  SyncStatus = "CANCELLED"
)

// Terminal reports whether the status admits no further mutation.
func (s SyncStatus) Terminal() bool {
	return s == SyncCompleted || s == SyncFailed || s == SyncCancelled
}

// SyncRecord is one idempotent unit of sync data identified by ID.
type SyncRecord struct {
	ID       string       `json:"id"`
	Category SyncCategory `json:"category"`
	Payload  []byte       `json:"payload,omitempty"`
}

// SyncOperation is the bookkeeping for one opportunistic data-sync pass
// over a single caregiver link.
type SyncOperation struct {
	ID         string         `json:"id"`
	LinkID     string         `json:"link_id"`
	Categories []SyncCategory `json:"categories"`

	Status             SyncStatus `json:"status"`
	RecordsTransferred int        `json:"records_transferred"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitzero"`
	Error     string    `json:"error,omitempty"`
}
