package model

import "time"

// LinkState represents the reachability of one caregiver link.
type LinkState string

const (
	LinkStateOnline  LinkState = "ONLINE"
	LinkStateLimited LinkState = "LIMITED"
	LinkStateOffline LinkState = "OFFLINE"
	LinkStateError   LinkState = "ERROR"
	LinkStateUnknown LinkState = "UNKNOWN"
)

// Usable reports whether the link can carry traffic at all.
// LIMITED links still carry emergency traffic; OFFLINE/ERROR do not.
func (s LinkState) Usable() bool {
	return s == LinkStateOnline || s == LinkStateLimited
}

// LinkQuality is a rolling estimate derived from recent round-trip times.
type LinkQuality string

const (
	QualityHigh    LinkQuality = "HIGH"
	QualityMedium  LinkQuality = "MEDIUM"
	QualityLow     LinkQuality = "LOW"
	QualityUnknown LinkQuality = "UNKNOWN"
)

// Heartbeat is one immutable probe result for a caregiver link.
type Heartbeat struct {
	LinkID  string        `json:"link_id"`
	Success bool          `json:"success"`
	RTT     time.Duration `json:"rtt"`
	At      time.Time     `json:"at"`
	// HardError marks probe errors (as opposed to clean timeouts). Both
	// count as failures for state transitions.
	HardError bool `json:"hard_error,omitempty"`
}

// QuietWindow is a daily window in minutes-of-day during which non-critical
// notifications are deferred. Windows may wrap past midnight (e.g. 22:00-07:00).
type QuietWindow struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// Contains reports whether t falls inside the window, in t's location.
func (w QuietWindow) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	if w.StartMinute == w.EndMinute {
		return false
	}
	if w.StartMinute < w.EndMinute {
		return m >= w.StartMinute && m < w.EndMinute
	}
	// wraps midnight
	return m >= w.StartMinute || m < w.EndMinute
}

// NextEnd returns the next moment the window closes, at or after t.
func (w QuietWindow) NextEnd(t time.Time) time.Time {
	end := time.Date(t.Year(), t.Month(), t.Day(), w.EndMinute/60, w.EndMinute%60, 0, 0, t.Location())
	if !end.After(t) {
		end = end.Add(24 * time.Hour)
	}
	return end
}

// ChannelPolicy is the per-link channel and quiet-hours configuration.
type ChannelPolicy struct {
	// Enabled lists the channels the caregiver consented to, in preference order.
	Enabled []ChannelType `json:"enabled"`
	// PriorityChannels maps an alert priority to its primary/secondary
	// channels; remaining enabled channels are appended at dispatch time.
	PriorityChannels map[Priority][]ChannelType `json:"priority_channels,omitempty"`

	QuietHours                  *QuietWindow `json:"quiet_hours,omitempty"`
	RespectQuietHours           bool         `json:"respect_quiet_hours"`
	EmergencyOverrideQuietHours bool         `json:"emergency_override_quiet_hours"`
}

// ChannelEnabled reports whether ch is in the enabled set.
func (p ChannelPolicy) ChannelEnabled(ch ChannelType) bool {
	for _, c := range p.Enabled {
		if c == ch {
			return true
		}
	}
	return false
}

// CaregiverLink is the monitored relationship between a protected user's
// device and one caregiver's reachable endpoints. State and quality are
// mutated only by heartbeat outcomes in the connectivity monitor.
type CaregiverLink struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	CaregiverID string `json:"caregiver_id"`
	// Target is the opaque caregiver address handed to channel transports.
	Target string `json:"target"`

	State           LinkState   `json:"state"`
	Quality         LinkQuality `json:"quality"`
	LastHeartbeatAt time.Time   `json:"last_heartbeat_at"`

	Policy ChannelPolicy `json:"policy"`

	CreatedAt time.Time `json:"created_at"`
}

// LinkHealth is the read-only health snapshot exposed to the query surface.
type LinkHealth struct {
	LinkID          string      `json:"link_id"`
	CaregiverID     string      `json:"caregiver_id"`
	State           LinkState   `json:"state"`
	Quality         LinkQuality `json:"quality"`
	LastHeartbeatAt time.Time   `json:"last_heartbeat_at"`
	ConsecutiveFail int         `json:"consecutive_failures"`
}
