package usecase

import (
	"context"
	"time"

	"carelink-srv/internal/model"
)

func (uc *implUseCase) Run(ctx context.Context) {
	uc.mu.Lock()
	if uc.started {
		uc.mu.Unlock()
		return
	}
	uc.started = true
	uc.mu.Unlock()

	uc.l.Infof(ctx, "internal.datasync.Run: cadence scheduler started, tick %s", uc.cfg.TickInterval)
	go uc.scheduleLoop(ctx)
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

func (uc *implUseCase) scheduleLoop(ctx context.Context) {
	defer close(uc.done)

	ticker := time.NewTicker(uc.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.scheduleDue(ctx)
		}
	}
}

// scheduleDue enqueues a sync pass for every (usable link, category) whose
// cadence interval elapsed. MANUAL and REALTIME categories never
// self-schedule; realtime ones ride the link-online trigger instead.
func (uc *implUseCase) scheduleDue(ctx context.Context) {
	now := time.Now()
	for _, link := range uc.monitor.Links() {
		if !link.State.Usable() {
			continue
		}
		for cat := range uc.cfg.Frequencies {
			interval := uc.cfg.Frequency(cat).Interval()
			if interval <= 0 {
				continue
			}
			uc.mu.Lock()
			last := uc.lastScheduled[link.ID+"|"+string(cat)]
			uc.mu.Unlock()
			if now.Sub(last) < interval {
				continue
			}
			_ = uc.ScheduleSync(ctx, link.ID, cat, model.PriorityLow)
		}
	}
}

// OnLinkOnline schedules an immediate pass over every category for the
// link. Wired to connectivity transitions; must not block.
func (uc *implUseCase) OnLinkOnline(ctx context.Context, linkID string) {
	for cat := range uc.cfg.Frequencies {
		if uc.cfg.Frequency(cat) == model.FrequencyManual {
			continue
		}
		_ = uc.ScheduleSync(ctx, linkID, cat, model.PriorityLow)
	}
}
