package usecase

import (
	"context"
	"sync"

	"carelink-srv/internal/audit"
	"carelink-srv/internal/audit/repository"
	pkgLog "carelink-srv/pkg/log"
)

// job is one deferred repository write.
type job struct {
	name string
	fn   func(ctx context.Context) error
}

type implUseCase struct {
	l    pkgLog.Logger
	cfg  audit.Config
	repo repository.Repository

	jobs chan job
	done chan struct{}

	mu      sync.Mutex
	started bool
}

// New builds the audit use case around a repository.
func New(l pkgLog.Logger, cfg audit.Config, repo repository.Repository) audit.UseCase {
	cfg = cfg.WithDefaults()
	return &implUseCase{
		l:    l,
		cfg:  cfg,
		repo: repo,
		jobs: make(chan job, cfg.BufferSize),
		done: make(chan struct{}),
	}
}

// submit hands a write to the worker without blocking. A full buffer means
// the store is badly behind; the entry is dropped with a warning instead of
// stalling heartbeat or dispatch goroutines.
func (uc *implUseCase) submit(ctx context.Context, name string, fn func(ctx context.Context) error) {
	select {
	case uc.jobs <- job{name: name, fn: fn}:
	default:
		uc.l.Warnf(ctx, "internal.audit.submit: buffer full, dropping %s record", name)
	}
}

func (uc *implUseCase) Run(ctx context.Context) {
	uc.mu.Lock()
	if uc.started {
		uc.mu.Unlock()
		return
	}
	uc.started = true
	uc.mu.Unlock()

	uc.l.Infof(ctx, "internal.audit.Run: record worker started, buffer %d", uc.cfg.BufferSize)
	go uc.work(ctx)
}

// Shutdown waits for the worker to drain what it can before the context
// expires.
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

func (uc *implUseCase) work(ctx context.Context) {
	defer close(uc.done)
	for {
		select {
		case <-ctx.Done():
			uc.drain()
			return
		case j := <-uc.jobs:
			uc.execute(j)
		}
	}
}

// drain flushes buffered writes after the run context is cancelled.
func (uc *implUseCase) drain() {
	for {
		select {
		case j := <-uc.jobs:
			uc.execute(j)
		default:
			return
		}
	}
}

func (uc *implUseCase) execute(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), uc.cfg.WriteTimeout)
	defer cancel()
	if err := j.fn(ctx); err != nil {
		uc.l.Errorf(ctx, "internal.audit.execute: %s: %v", j.name, err)
	}
}
