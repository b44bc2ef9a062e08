package channel

import (
	"fmt"

	"carelink-srv/internal/model"
)

// Registry holds the configured channel transports keyed by type.
// It is populated once at startup and read-only afterwards.
type Registry struct {
	channels map[model.ChannelType]Channel
}

// NewRegistry builds a registry from the provided transports.
// Registering the same channel type twice is a wiring bug.
func NewRegistry(channels ...Channel) (*Registry, error) {
	r := &Registry{channels: make(map[model.ChannelType]Channel, len(channels))}
	for _, ch := range channels {
		if _, dup := r.channels[ch.Type()]; dup {
			return nil, fmt.Errorf("channel %s registered twice", ch.Type())
		}
		r.channels[ch.Type()] = ch
	}
	return r, nil
}

// Get returns the transport for t, if configured.
func (r *Registry) Get(t model.ChannelType) (Channel, bool) {
	ch, ok := r.channels[t]
	return ch, ok
}

// Types returns the configured channel types.
func (r *Registry) Types() []model.ChannelType {
	out := make([]model.ChannelType, 0, len(r.channels))
	for t := range r.channels {
		out = append(out, t)
	}
	return out
}
