package dispatch

import "time"

// Config tunes dispatch timing. Retry pacing itself lives in the queue's
// backoff policy; these bounds cover a single delivery attempt.
type Config struct {
	// ChannelTimeout bounds one send on one channel.
	ChannelTimeout time.Duration
	// AlertTimeout bounds a whole fan-out attempt across all channels.
	AlertTimeout time.Duration

	// ResponseDeadline is how long a delivered emergency alert may wait
	// for a caregiver response before the deadline watcher escalates it.
	ResponseDeadline time.Duration

	// ScanInterval paces the drain loop between wake signals.
	ScanInterval time.Duration
	// OfflineRecheck is how far an item is pushed back when none of its
	// target links can carry traffic right now.
	OfflineRecheck time.Duration

	// DefaultMaxRetries seeds the retry budget on new alerts.
	DefaultMaxRetries int
}

const (
	DefaultChannelTimeout   = 15 * time.Second
	DefaultAlertTimeout     = 45 * time.Second
	DefaultResponseDeadline = 15 * time.Minute
	DefaultScanInterval     = 5 * time.Second
	DefaultOfflineRecheck   = 30 * time.Second
	DefaultMaxRetries       = 3
)

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.ChannelTimeout <= 0 {
		c.ChannelTimeout = DefaultChannelTimeout
	}
	if c.AlertTimeout < c.ChannelTimeout {
		c.AlertTimeout = DefaultAlertTimeout
	}
	if c.ResponseDeadline <= 0 {
		c.ResponseDeadline = DefaultResponseDeadline
	}
	if c.ScanInterval <= 0 {
		c.ScanInterval = DefaultScanInterval
	}
	if c.OfflineRecheck <= 0 {
		c.OfflineRecheck = DefaultOfflineRecheck
	}
	if c.DefaultMaxRetries < 1 {
		c.DefaultMaxRetries = DefaultMaxRetries
	}
	return c
}
