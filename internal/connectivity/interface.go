package connectivity

import (
	"context"

	"carelink-srv/internal/model"
)

// Prober issues one liveness probe against a caregiver link's endpoint.
// Probe errors are never fatal: implementations report them as failed
// heartbeats (with HardError set) and the monitor feeds them into the same
// state machine as timeouts.
type Prober interface {
	Probe(ctx context.Context, link model.CaregiverLink) model.Heartbeat
}

// Transition is one observed link state change.
type Transition struct {
	LinkID string
	From   model.LinkState
	To     model.LinkState
}

// TransitionFunc receives link state changes. Callbacks must not block;
// they are invoked from the link's heartbeat goroutine.
type TransitionFunc func(Transition)

// UseCase is the connectivity monitor: one heartbeat loop per caregiver
// link, hysteresis-based state derivation and a rolling quality estimate.
type UseCase interface {
	AddLink(ctx context.Context, link model.CaregiverLink) error
	// RemoveLink cancels the link's heartbeat loop. The caller is
	// responsible for flushing and purging the link's queue items.
	RemoveLink(ctx context.Context, linkID string) error

	Link(linkID string) (model.CaregiverLink, error)
	Links() []model.CaregiverLink
	State(linkID string) model.LinkState
	Quality(linkID string) model.LinkQuality
	Health(linkID string) (model.LinkHealth, error)
	HealthAll() []model.LinkHealth

	// Subscribe registers a transition callback. Must be called before Run.
	Subscribe(fn TransitionFunc)

	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}
