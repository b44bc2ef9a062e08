package queue

import "time"

// Config tunes capacity and retry backoff.
type Config struct {
	// Capacity bounds the number of queued items. At capacity the lowest
	// priority, nearest-to-expiry item is dropped first; CRITICAL items
	// are never dropped.
	Capacity int

	// BackoffBase and BackoffCap bound the capped exponential retry curve
	// (base, base*2, base*4, ... capped).
	BackoffBase time.Duration
	BackoffCap  time.Duration

	// DefaultTTL applies when an item arrives without an expiry.
	DefaultTTL time.Duration
	// DefaultRetries applies when an item arrives without a retry budget.
	DefaultRetries int
}

// Defaults chosen per the retry policy: 30s doubling to a 10 minute cap.
const (
	DefaultCapacity    = 512
	DefaultBackoffBase = 30 * time.Second
	DefaultBackoffCap  = 10 * time.Minute
	DefaultTTL         = 24 * time.Hour
	DefaultMaxRetries  = 3
)

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.Capacity < 1 {
		c.Capacity = DefaultCapacity
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = DefaultBackoffBase
	}
	if c.BackoffCap < c.BackoffBase {
		c.BackoffCap = DefaultBackoffCap
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = DefaultTTL
	}
	if c.DefaultRetries < 1 {
		c.DefaultRetries = DefaultMaxRetries
	}
	return c
}

// Backoff returns the delay before attempt number retry (0-based count of
// completed attempts).
func (c Config) Backoff(retry int) time.Duration {
	d := c.BackoffBase
	for i := 0; i < retry; i++ {
		d *= 2
		if d >= c.BackoffCap {
			return c.BackoffCap
		}
	}
	if d > c.BackoffCap {
		return c.BackoffCap
	}
	return d
}
