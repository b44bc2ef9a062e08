package usecase

import (
	"sync"

	"carelink-srv/internal/escalation"
	"carelink-srv/internal/events"
	"carelink-srv/internal/model"
	pkgLog "carelink-srv/pkg/log"
	"carelink-srv/pkg/webhook"
)

type implUseCase struct {
	l   pkgLog.Logger
	cfg escalation.Config

	// advocate is the elder-rights advocate endpoint, the primary
	// escalation path. secondary reaches the backup caregiver contact and
	// is tried only when the advocate notification fails.
	advocate  webhook.INotifier
	secondary webhook.INotifier

	pub events.Publisher
	rec escalation.Recorder

	mu      sync.Mutex
	byAlert map[string]*model.EscalationRecord
	byID    map[string]*model.EscalationRecord
	src     escalation.AlertSource
	started bool
	done    chan struct{}
}

// New builds the escalation authority. secondary and rec may be nil;
// advocate should not be, but even without it records are still created and
// flagged for manual intervention rather than lost.
func New(
	l pkgLog.Logger,
	cfg escalation.Config,
	advocate webhook.INotifier,
	secondary webhook.INotifier,
	pub events.Publisher,
	rec escalation.Recorder,
) escalation.UseCase {
	if pub == nil {
		pub = events.NewNoop()
	}
	return &implUseCase{
		l:         l,
		cfg:       cfg.WithDefaults(),
		advocate:  advocate,
		secondary: secondary,
		pub:       pub,
		rec:       rec,
		byAlert:   make(map[string]*model.EscalationRecord),
		byID:      make(map[string]*model.EscalationRecord),
		done:      make(chan struct{}),
	}
}

func (uc *implUseCase) Bind(src escalation.AlertSource) {
	uc.mu.Lock()
	uc.src = src
	uc.mu.Unlock()
}
