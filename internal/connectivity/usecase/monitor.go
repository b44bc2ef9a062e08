package usecase

import (
	"context"
	"time"

	"carelink-srv/internal/connectivity"
	"carelink-srv/internal/model"
)

func (uc *implUseCase) AddLink(ctx context.Context, link model.CaregiverLink) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, exists := uc.links[link.ID]; exists {
		return connectivity.ErrLinkExists
	}

	link.State = model.LinkStateUnknown
	link.Quality = model.QualityUnknown

	rt := &linkRuntime{
		link:    link,
		state:   model.LinkStateUnknown,
		quality: model.QualityUnknown,
	}
	uc.links[link.ID] = rt

	if uc.started {
		uc.startLoop(rt)
	}

	uc.l.Infof(ctx, "internal.connectivity.AddLink: monitoring link=%s caregiver=%s", link.ID, link.CaregiverID)
	return nil
}

func (uc *implUseCase) RemoveLink(ctx context.Context, linkID string) error {
	uc.mu.Lock()
	rt, ok := uc.links[linkID]
	if ok {
		delete(uc.links, linkID)
	}
	uc.mu.Unlock()

	if !ok {
		return connectivity.ErrLinkNotFound
	}
	if rt.cancel != nil {
		rt.cancel()
	}

	uc.l.Infof(ctx, "internal.connectivity.RemoveLink: stopped monitoring link=%s", linkID)
	return nil
}

// Run starts one heartbeat loop per registered link and returns. Loops run
// until Shutdown or ctx cancellation.
func (uc *implUseCase) Run(ctx context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.started {
		return
	}
	uc.started = true
	uc.runCtx = ctx

	for _, rt := range uc.links {
		uc.startLoop(rt)
	}
}

// startLoop launches the heartbeat goroutine for rt. Caller holds uc.mu.
func (uc *implUseCase) startLoop(rt *linkRuntime) {
	loopCtx, cancel := context.WithCancel(uc.runCtx)
	rt.cancel = cancel

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()

		ticker := time.NewTicker(uc.cfg.HeartbeatInterval)
		defer ticker.Stop()

		// Probe immediately so a new link leaves UNKNOWN within one interval.
		uc.probeOnce(loopCtx, rt.link.ID)

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				uc.probeOnce(loopCtx, rt.link.ID)
			}
		}
	}()
}

func (uc *implUseCase) Shutdown(ctx context.Context) error {
	uc.mu.Lock()
	for _, rt := range uc.links {
		if rt.cancel != nil {
			rt.cancel()
		}
	}
	uc.mu.Unlock()

	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// probeOnce issues a single heartbeat probe for linkID and feeds the result
// into the state machine.
func (uc *implUseCase) probeOnce(ctx context.Context, linkID string) {
	uc.mu.RLock()
	rt, ok := uc.links[linkID]
	if !ok {
		uc.mu.RUnlock()
		return
	}
	link := rt.link
	uc.mu.RUnlock()

	probeCtx, cancel := context.WithTimeout(ctx, uc.cfg.ProbeTimeout)
	hb := uc.prober.Probe(probeCtx, link)
	cancel()

	if hb.At.IsZero() {
		hb.At = time.Now()
	}
	hb.LinkID = linkID

	uc.observe(ctx, hb)
}

func (uc *implUseCase) Subscribe(fn connectivity.TransitionFunc) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.subs = append(uc.subs, fn)
}
