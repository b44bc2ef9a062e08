package connectivity

import "time"

// Config tunes the monitor's heartbeat loops and hysteresis.
type Config struct {
	HeartbeatInterval time.Duration
	ProbeTimeout      time.Duration

	// OfflineThreshold is N: consecutive failed heartbeats before the link
	// is declared down. A single failure while ONLINE only degrades the
	// link to LIMITED.
	OfflineThreshold int
	// OnlineThreshold is M: consecutive successes before a non-online link
	// returns to ONLINE.
	OnlineThreshold int

	// HistorySize bounds the retained heartbeat history per link.
	HistorySize int
	// QualityWindow bounds how old a heartbeat may be and still inform
	// the quality estimate.
	QualityWindow time.Duration
}

// Default hysteresis and timing values.
const (
	DefaultOfflineThreshold  = 3
	DefaultOnlineThreshold   = 2
	DefaultHistorySize       = 50
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultProbeTimeout      = 10 * time.Second
	DefaultQualityWindow     = 5 * time.Minute
)

// Quality thresholds on recent round-trip times.
const (
	QualityHighRTT   = 500 * time.Millisecond
	QualityMediumRTT = 2 * time.Second
)

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	if c.OfflineThreshold < 1 {
		c.OfflineThreshold = DefaultOfflineThreshold
	}
	if c.OnlineThreshold < 1 {
		c.OnlineThreshold = DefaultOnlineThreshold
	}
	if c.HistorySize < 1 {
		c.HistorySize = DefaultHistorySize
	}
	if c.QualityWindow <= 0 {
		c.QualityWindow = DefaultQualityWindow
	}
	return c
}
