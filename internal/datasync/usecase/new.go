package usecase

import (
	"sync"
	"time"

	"carelink-srv/internal/connectivity"
	"carelink-srv/internal/datasync"
	"carelink-srv/internal/model"
	"carelink-srv/internal/queue"
	pkgLog "carelink-srv/pkg/log"
)

type implUseCase struct {
	l       pkgLog.Logger
	cfg     datasync.Config
	monitor connectivity.UseCase
	q       queue.UseCase
	source  datasync.Source
	trans   datasync.Transport
	rec     datasync.OpRecorder

	mu sync.Mutex
	// inflight enforces one sync pass per link.
	inflight map[string]bool
	// sent guards idempotency across passes: record IDs already delivered
	// per link, so a record re-listed after PARTIAL is not resent. Bounded
	// per link by cfg.SentHistorySize.
	sent map[string]*sentLog
	// lastScheduled gates the cadence scheduler per (link, category).
	lastScheduled map[string]time.Time
	// ops retains recent operations per link, newest first.
	ops     map[string][]model.SyncOperation
	byID    map[string]model.SyncOperation
	started bool
	done    chan struct{}
}

// New builds the sync coordinator. rec may be nil.
func New(
	l pkgLog.Logger,
	cfg datasync.Config,
	monitor connectivity.UseCase,
	q queue.UseCase,
	source datasync.Source,
	trans datasync.Transport,
	rec datasync.OpRecorder,
) datasync.UseCase {
	return &implUseCase{
		l:             l,
		cfg:           cfg.WithDefaults(),
		monitor:       monitor,
		q:             q,
		source:        source,
		trans:         trans,
		rec:           rec,
		inflight:      make(map[string]bool),
		sent:          make(map[string]*sentLog),
		lastScheduled: make(map[string]time.Time),
		ops:           make(map[string][]model.SyncOperation),
		byID:          make(map[string]model.SyncOperation),
		done:          make(chan struct{}),
	}
}
