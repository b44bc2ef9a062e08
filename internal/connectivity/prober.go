package connectivity

import (
	"context"
	"net/http"
	"time"

	"carelink-srv/internal/model"
)

// httpProber probes the caregiver endpoint gateway with a HEAD request.
// The gateway answers on behalf of the caregiver's reachable endpoints;
// any 2xx/3xx response counts as a successful heartbeat.
type httpProber struct {
	client *http.Client
}

// NewHTTPProber returns a Prober backed by an HTTP HEAD liveness check.
// The per-probe timeout comes from the monitor's probe context.
func NewHTTPProber() Prober {
	return &httpProber{client: &http.Client{}}
}

func (p *httpProber) Probe(ctx context.Context, link model.CaregiverLink) model.Heartbeat {
	start := time.Now()
	hb := model.Heartbeat{LinkID: link.ID, At: start}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link.Target, nil)
	if err != nil {
		hb.HardError = true
		return hb
	}

	resp, err := p.client.Do(req)
	hb.RTT = time.Since(start)
	if err != nil {
		// Timeouts arrive here as ctx deadline errors; they are plain
		// failed heartbeats, not hard errors.
		hb.HardError = ctx.Err() == nil
		return hb
	}
	defer resp.Body.Close()

	hb.Success = resp.StatusCode < 400
	hb.HardError = !hb.Success && resp.StatusCode >= 500
	return hb
}
