package usecase

import (
	"context"
	"sync"

	"carelink-srv/internal/connectivity"
	"carelink-srv/internal/model"
	"carelink-srv/pkg/log"
)

// HeartbeatRecorder receives probe results for the audit surface.
// Implementations must be non-blocking.
type HeartbeatRecorder interface {
	RecordHeartbeat(ctx context.Context, hb model.Heartbeat)
}

// linkRuntime is the per-link monitoring state. All fields are guarded by
// the monitor mutex; the heartbeat goroutine is the only writer of the
// hysteresis counters.
type linkRuntime struct {
	link model.CaregiverLink

	state   model.LinkState
	quality model.LinkQuality

	consecFail    int
	consecOK      int
	consecHardErr int

	history []model.Heartbeat // ring, newest last

	cancel context.CancelFunc
}

type implUseCase struct {
	l        log.Logger
	cfg      connectivity.Config
	prober   connectivity.Prober
	recorder HeartbeatRecorder

	mu    sync.RWMutex
	links map[string]*linkRuntime
	subs  []connectivity.TransitionFunc

	runCtx  context.Context
	started bool
	wg      sync.WaitGroup
}

// New constructs the connectivity monitor. recorder may be nil.
func New(l log.Logger, cfg connectivity.Config, prober connectivity.Prober, recorder HeartbeatRecorder) connectivity.UseCase {
	return &implUseCase{
		l:        l,
		cfg:      cfg.WithDefaults(),
		prober:   prober,
		recorder: recorder,
		links:    make(map[string]*linkRuntime),
	}
}
