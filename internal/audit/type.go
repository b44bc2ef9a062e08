package audit

import (
	"time"

	"carelink-srv/internal/model"
)

// Config tunes the async record worker.
type Config struct {
	// BufferSize bounds the pending record queue.
	BufferSize int
	// WriteTimeout bounds one repository write.
	WriteTimeout time.Duration
}

const (
	DefaultBufferSize   = 1024
	DefaultWriteTimeout = 5 * time.Second
)

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.BufferSize < 1 {
		c.BufferSize = DefaultBufferSize
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	return c
}

// AlertFilter narrows historical alert queries.
type AlertFilter struct {
	UserID   string            `json:"user_id" form:"user_id"`
	Status   model.AlertStatus `json:"status" form:"status"`
	Priority *model.Priority   `json:"priority" form:"priority"`
	Since    time.Time         `json:"since" form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until    time.Time         `json:"until" form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
}
