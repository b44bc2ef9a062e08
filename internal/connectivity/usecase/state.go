package usecase

import (
	"context"
	"time"

	"carelink-srv/internal/connectivity"
	"carelink-srv/internal/model"
)

// observe feeds one heartbeat into the link's state machine and derives the
// new state and quality. Transitions are delivered outside the lock.
func (uc *implUseCase) observe(ctx context.Context, hb model.Heartbeat) {
	uc.mu.Lock()
	rt, ok := uc.links[hb.LinkID]
	if !ok {
		uc.mu.Unlock()
		return
	}

	rt.history = append(rt.history, hb)
	if len(rt.history) > uc.cfg.HistorySize {
		rt.history = rt.history[len(rt.history)-uc.cfg.HistorySize:]
	}

	prev := rt.state

	if hb.Success {
		rt.consecOK++
		rt.consecFail = 0
		rt.consecHardErr = 0
		rt.link.LastHeartbeatAt = hb.At

		if rt.state != model.LinkStateOnline && rt.consecOK >= uc.cfg.OnlineThreshold {
			rt.state = model.LinkStateOnline
		}
	} else {
		rt.consecFail++
		rt.consecOK = 0
		if hb.HardError {
			rt.consecHardErr++
		} else {
			rt.consecHardErr = 0
		}

		switch {
		case rt.consecFail >= uc.cfg.OfflineThreshold:
			// N consecutive hard probe errors report ERROR rather than
			// OFFLINE; both are equally unusable.
			if rt.consecHardErr >= uc.cfg.OfflineThreshold {
				rt.state = model.LinkStateError
			} else {
				rt.state = model.LinkStateOffline
			}
		case rt.state == model.LinkStateOnline:
			// A single failure degrades, it does not disconnect.
			rt.state = model.LinkStateLimited
		}
	}

	rt.quality = uc.deriveQuality(rt, hb.At)
	rt.link.State = rt.state
	rt.link.Quality = rt.quality

	next := rt.state
	subs := make([]connectivity.TransitionFunc, len(uc.subs))
	copy(subs, uc.subs)
	uc.mu.Unlock()

	if uc.recorder != nil {
		uc.recorder.RecordHeartbeat(ctx, hb)
	}

	if prev != next {
		uc.l.Infof(ctx, "internal.connectivity.observe: link=%s %s -> %s", hb.LinkID, prev, next)
		tr := connectivity.Transition{LinkID: hb.LinkID, From: prev, To: next}
		for _, fn := range subs {
			fn(tr)
		}
	}
}

// deriveQuality averages round-trip times of recent successful heartbeats.
// Caller holds uc.mu.
func (uc *implUseCase) deriveQuality(rt *linkRuntime, now time.Time) model.LinkQuality {
	cutoff := now.Add(-uc.cfg.QualityWindow)

	var total time.Duration
	var n int
	for _, h := range rt.history {
		if h.Success && h.At.After(cutoff) {
			total += h.RTT
			n++
		}
	}
	if n == 0 {
		return model.QualityUnknown
	}

	avg := total / time.Duration(n)
	switch {
	case avg < connectivity.QualityHighRTT:
		return model.QualityHigh
	case avg < connectivity.QualityMediumRTT:
		return model.QualityMedium
	default:
		return model.QualityLow
	}
}

func (uc *implUseCase) Link(linkID string) (model.CaregiverLink, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	rt, ok := uc.links[linkID]
	if !ok {
		return model.CaregiverLink{}, connectivity.ErrLinkNotFound
	}
	return rt.link, nil
}

func (uc *implUseCase) Links() []model.CaregiverLink {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := make([]model.CaregiverLink, 0, len(uc.links))
	for _, rt := range uc.links {
		out = append(out, rt.link)
	}
	return out
}

func (uc *implUseCase) State(linkID string) model.LinkState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if rt, ok := uc.links[linkID]; ok {
		return rt.state
	}
	return model.LinkStateUnknown
}

func (uc *implUseCase) Quality(linkID string) model.LinkQuality {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if rt, ok := uc.links[linkID]; ok {
		return rt.quality
	}
	return model.QualityUnknown
}

func (uc *implUseCase) Health(linkID string) (model.LinkHealth, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	rt, ok := uc.links[linkID]
	if !ok {
		return model.LinkHealth{}, connectivity.ErrLinkNotFound
	}
	return healthOf(rt), nil
}

func (uc *implUseCase) HealthAll() []model.LinkHealth {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := make([]model.LinkHealth, 0, len(uc.links))
	for _, rt := range uc.links {
		out = append(out, healthOf(rt))
	}
	return out
}

func healthOf(rt *linkRuntime) model.LinkHealth {
	return model.LinkHealth{
		LinkID:          rt.link.ID,
		CaregiverID:     rt.link.CaregiverID,
		State:           rt.state,
		Quality:         rt.quality,
		LastHeartbeatAt: rt.link.LastHeartbeatAt,
		ConsecutiveFail: rt.consecFail,
	}
}
