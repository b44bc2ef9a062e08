package usecase

import (
	"context"
	"sync"

	"carelink-srv/internal/channel"
	"carelink-srv/internal/connectivity"
	"carelink-srv/internal/dispatch"
	"carelink-srv/internal/events"
	"carelink-srv/internal/model"
	"carelink-srv/internal/queue"
	pkgLog "carelink-srv/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	cfg      dispatch.Config
	monitor  connectivity.UseCase
	q        queue.UseCase
	registry *channel.Registry
	esc      dispatch.Escalator
	syncs    dispatch.SyncRunner
	pub      events.Publisher
	rec      dispatch.AlertRecorder

	mu     sync.Mutex
	alerts map[string]*model.EmergencyAlert

	wake    chan struct{}
	done    chan struct{}
	started bool
}

// New builds the dispatcher. syncRunner and rec may be nil; esc must be set
// before Run (alerts with exhausted retries are never dropped silently).
func New(
	l pkgLog.Logger,
	cfg dispatch.Config,
	monitor connectivity.UseCase,
	q queue.UseCase,
	registry *channel.Registry,
	esc dispatch.Escalator,
	syncRunner dispatch.SyncRunner,
	pub events.Publisher,
	rec dispatch.AlertRecorder,
) dispatch.UseCase {
	if pub == nil {
		pub = events.NewNoop()
	}
	return &implUseCase{
		l:        l,
		cfg:      cfg.WithDefaults(),
		monitor:  monitor,
		q:        q,
		registry: registry,
		esc:      esc,
		syncs:    syncRunner,
		pub:      pub,
		rec:      rec,
		alerts:   make(map[string]*model.EmergencyAlert),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (uc *implUseCase) record(ctx context.Context, alert model.EmergencyAlert) {
	if uc.rec != nil {
		uc.rec.RecordAlert(ctx, alert)
	}
}
