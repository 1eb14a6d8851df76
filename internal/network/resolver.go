package network

import (
	"errors"
	"fmt"

	"github.com/dotandev/tooling/internal/config"
)

// ErrUnknownNetwork is returned when no configuration exists for a name.
var ErrUnknownNetwork = errors.New("network not found")

// Store is the lookup surface the resolver needs from the configuration.
type Store interface {
	NetworkByName(name string) (config.Network, bool)
	DefaultNetworkName() string
}

// Resolver selects the network a task runs against.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the network named requested, or the default network when
// requested is empty.
func (r *Resolver) Resolve(requested string) (config.Network, error) {
	name := requested
	if name == "" {
		name = r.store.DefaultNetworkName()
	}
	n, ok := r.store.NetworkByName(name)
	if !ok {
		return config.Network{}, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	return n, nil
}
