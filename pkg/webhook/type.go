package webhook

import (
	"net/http"
	"time"

	"carelink-srv/pkg/log"
)

// Config tunes webhook delivery.
type Config struct {
	Timeout    time.Duration
	RetryCount int
	RetryDelay time.Duration
	// Sender is reported to the receiving endpoint in the payload.
	Sender string
}

// Severity classifies a notification for the receiving endpoint.
type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityWarn   Severity = "warning"
	SeverityUrgent Severity = "urgent"
)

// Notification is the JSON payload posted to the webhook endpoint.
type Notification struct {
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Severity  Severity          `json:"severity"`
	AlertID   string            `json:"alert_id,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Sender    string            `json:"sender,omitempty"`
	Timestamp string            `json:"timestamp"`
}

type notifierImpl struct {
	l      log.Logger
	url    string
	config Config
	client *http.Client
}
