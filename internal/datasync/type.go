package datasync

import (
	"time"

	"carelink-srv/internal/model"
)

// Config tunes the coordinator.
type Config struct {
	// BatchSize bounds how many records one Pending call fetches.
	BatchSize int
	// TickInterval paces the cadence scheduler.
	TickInterval time.Duration
	// Frequencies maps each category to its cadence. Unlisted categories
	// fall back to the defaults below.
	Frequencies map[model.SyncCategory]model.SyncFrequency
	// HistorySize bounds retained operations per link.
	HistorySize int
	// SentHistorySize bounds the delivered-record IDs remembered per link
	// for idempotent resends. Oldest IDs age out first.
	SentHistorySize int
}

const (
	DefaultBatchSize       = 100
	DefaultTickInterval    = 30 * time.Second
	DefaultHistorySize     = 20
	DefaultSentHistorySize = 4096
)

var defaultFrequencies = map[model.SyncCategory]model.SyncFrequency{
	model.SyncCategoryVitals:      model.FrequencyFrequent,
	model.SyncCategoryMedication:  model.FrequencyFrequent,
	model.SyncCategoryActivity:    model.FrequencyModerate,
	model.SyncCategoryDeviceState: model.FrequencyInfrequent,
	model.SyncCategoryJournal:     model.FrequencyInfrequent,
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.BatchSize < 1 {
		c.BatchSize = DefaultBatchSize
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.HistorySize < 1 {
		c.HistorySize = DefaultHistorySize
	}
	if c.SentHistorySize < 1 {
		c.SentHistorySize = DefaultSentHistorySize
	}
	if c.Frequencies == nil {
		c.Frequencies = defaultFrequencies
	}
	return c
}

// Frequency returns the cadence for a category.
func (c Config) Frequency(cat model.SyncCategory) model.SyncFrequency {
	if f, ok := c.Frequencies[cat]; ok {
		return f
	}
	if f, ok := defaultFrequencies[cat]; ok {
		return f
	}
	return model.FrequencyModerate
}
