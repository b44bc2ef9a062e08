package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notify posts n to the configured endpoint, retrying per config.
func (w *notifierImpl) Notify(ctx context.Context, n Notification) error {
	if n.Sender == "" {
		n.Sender = w.config.Sender
	}
	if n.Timestamp == "" {
		n.Timestamp = time.Now().Format(time.RFC3339)
	}
	if n.Severity == "" {
		n.Severity = SeverityInfo
	}
	return w.sendWithRetry(ctx, &n)
}

// NotifyUrgent is the escalation fast path.
func (w *notifierImpl) NotifyUrgent(ctx context.Context, title, body string, fields map[string]string) error {
	return w.Notify(ctx, Notification{
		Title:    title,
		Body:     body,
		Severity: SeverityUrgent,
		Fields:   fields,
	})
}

// URL returns the configured endpoint.
func (w *notifierImpl) URL() string { return w.url }

// Close releases idle connections.
func (w *notifierImpl) Close() error {
	w.client.CloseIdleConnections()
	return nil
}

// sendWithRetry sends a request with a bounded retry loop.
func (w *notifierImpl) sendWithRetry(ctx context.Context, n *Notification) error {
	var lastErr error

	for attempt := 0; attempt <= w.config.RetryCount; attempt++ {
		if attempt > 0 {
			if w.l != nil {
				w.l.Infof(ctx, "pkg.webhook.sendWithRetry: retrying attempt %d/%d", attempt, w.config.RetryCount)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.config.RetryDelay):
			}
		}

		err := w.sendRequest(ctx, n)
		if err == nil {
			return nil
		}

		lastErr = err
		if w.l != nil {
			w.l.Warnf(ctx, "pkg.webhook.sendWithRetry: attempt %d failed: %v", attempt+1, err)
		}
	}

	return fmt.Errorf("failed after %d attempts, last error: %w", w.config.RetryCount+1, lastErr)
}

func (w *notifierImpl) sendRequest(ctx context.Context, n *Notification) error {
	jsonData, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "CareLink-Notifier/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
