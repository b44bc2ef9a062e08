package usecase

import (
	"context"
	"time"
)

func (uc *implUseCase) Run(ctx context.Context) {
	uc.mu.Lock()
	if uc.started {
		uc.mu.Unlock()
		return
	}
	uc.started = true
	src := uc.src
	uc.mu.Unlock()

	if src == nil {
		uc.l.Errorf(ctx, "internal.escalation.Run: no alert source bound, deadline watcher disabled")
		close(uc.done)
		return
	}
	uc.l.Infof(ctx, "internal.escalation.Run: deadline watcher started, interval %s", uc.cfg.CheckInterval)
	go uc.watchLoop(ctx)
}

func (uc *implUseCase) Shutdown(ctx context.Context) error {
	uc.mu.Lock()
	started := uc.started
	uc.mu.Unlock()
	if !started {
		return nil
	}
	select {
	case <-uc.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *implUseCase) watchLoop(ctx context.Context) {
	defer close(uc.done)

	ticker := time.NewTicker(uc.cfg.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.checkDeadlines(ctx)
		}
	}
}

// checkDeadlines escalates every delivered alert whose response deadline
// passed without a caregiver answering.
func (uc *implUseCase) checkDeadlines(ctx context.Context) {
	uc.mu.Lock()
	src := uc.src
	uc.mu.Unlock()

	for _, alert := range src.UnresolvedPastDeadline(time.Now()) {
		rec, err := uc.OnDeadlineMissed(ctx, alert)
		if err != nil {
			uc.l.Errorf(ctx, "internal.escalation.checkDeadlines: alert=%s: %v", alert.ID, err)
			continue
		}
		src.MarkEscalated(ctx, alert.ID, rec)
	}
}
