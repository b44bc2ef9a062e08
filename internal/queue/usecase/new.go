package usecase

import (
	"sync"

	"carelink-srv/internal/model"
	"carelink-srv/internal/queue"
	"carelink-srv/pkg/log"
)

type implUseCase struct {
	l       log.Logger
	cfg     queue.Config
	journal queue.Journal

	mu    sync.Mutex
	items map[string]*model.QueueItem
}

// New constructs the offline queue. journal may be nil.
func New(l log.Logger, cfg queue.Config, journal queue.Journal) queue.UseCase {
	return &implUseCase{
		l:       l,
		cfg:     cfg.WithDefaults(),
		journal: journal,
		items:   make(map[string]*model.QueueItem),
	}
}
