package datasync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"carelink-srv/internal/model"
)

const defaultSendTimeout = 10 * time.Second

// httpTransport posts sync records to the caregiver endpoint as JSON.
type httpTransport struct {
	client *http.Client
}

// NewHTTPTransport returns a Transport that delivers records over HTTP to
// each link's target endpoint.
func NewHTTPTransport(timeout time.Duration) Transport {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &httpTransport{client: &http.Client{Timeout: timeout}}
}

// syncPayload is the wire form of one record. Payload bytes are opaque and
// travel base64 encoded.
type syncPayload struct {
	LinkID   string             `json:"link_id"`
	Category model.SyncCategory `json:"category"`
	RecordID string             `json:"record_id"`
	Payload  []byte             `json:"payload,omitempty"`
}

func (t *httpTransport) SendRecord(ctx context.Context, link model.CaregiverLink, rec model.SyncRecord) error {
	body, err := json.Marshal(syncPayload{
		LinkID:   link.ID,
		Category: rec.Category,
		RecordID: rec.ID,
		Payload:  rec.Payload,
	})
	if err != nil {
		return fmt.Errorf("marshal sync record %s: %w", rec.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, link.Target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sync record %s: %w", rec.ID, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sync record %s rejected: status %d", rec.ID, resp.StatusCode)
	}
	return nil
}
