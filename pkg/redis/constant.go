package redis

import "time"

const (
	// defaultConnectTimeout bounds the initial connection check.
	defaultConnectTimeout = 5 * time.Second
)

// Pub/Sub channels exposed to dashboard consumers.
const (
	// ChannelAlertEvents carries alert lifecycle transitions.
	ChannelAlertEvents = "carelink:alert_events"
	// ChannelEscalations carries escalation records requiring attention.
	ChannelEscalations = "carelink:escalations"
)
