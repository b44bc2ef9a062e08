package webhook

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"carelink-srv/pkg/log"
)

var errURLRequired = errors.New("webhook: URL is required")

// DefaultConfig returns conservative delivery settings. The caller's retry
// budget here is intentionally small: queue-level retry and escalation policy
// live above this package.
func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		RetryCount: 2,
		RetryDelay: 2 * time.Second,
		Sender:     "carelink-srv",
	}
}

// New creates a notifier for endpoint with default configuration.
func New(l log.Logger, endpoint string) (INotifier, error) {
	return NewWithConfig(l, endpoint, DefaultConfig())
}

// NewWithConfig creates a notifier with explicit configuration.
func NewWithConfig(l log.Logger, endpoint string, cfg Config) (INotifier, error) {
	if endpoint == "" {
		return nil, errURLRequired
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.New("webhook: invalid endpoint URL")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &notifierImpl{
		l:      l,
		url:    endpoint,
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}
