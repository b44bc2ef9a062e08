package escalation

import "time"

// Config tunes the deadline watcher.
type Config struct {
	// CheckInterval paces the scan for delivered alerts past their
	// response deadline.
	CheckInterval time.Duration
}

const DefaultCheckInterval = time.Minute

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.CheckInterval <= 0 {
		c.CheckInterval = DefaultCheckInterval
	}
	return c
}
