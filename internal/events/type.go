package events

import (
	"time"

	"carelink-srv/internal/model"
	pkgLog "carelink-srv/pkg/log"
	pkgRedis "carelink-srv/pkg/redis"
)

type alertEvent struct {
	Type       string            `json:"type"`
	AlertID    string            `json:"alert_id"`
	UserID     string            `json:"user_id"`
	Priority   string            `json:"priority"`
	Status     model.AlertStatus `json:"status"`
	FromStatus model.AlertStatus `json:"from_status,omitempty"`
	At         time.Time         `json:"at"`
}

type escalationEvent struct {
	Type                string                 `json:"type"`
	RecordID            string                 `json:"record_id"`
	AlertID             string                 `json:"alert_id"`
	Reason              model.EscalationReason `json:"reason"`
	Path                model.EscalationPath   `json:"path"`
	RequiresIntervention bool                  `json:"requires_manual_intervention"`
	At                  time.Time              `json:"at"`
}

type linkEvent struct {
	Type   string          `json:"type"`
	LinkID string          `json:"link_id"`
	From   model.LinkState `json:"from"`
	To     model.LinkState `json:"to"`
	At     time.Time       `json:"at"`
}

type redisPublisher struct {
	l      pkgLog.Logger
	client *pkgRedis.Client
}

type noopPublisher struct{}
