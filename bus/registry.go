package bus

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

// backend is a control-plane transport: publish small opaque payloads to
// an endpoint, and receive them via a cooperative receive loop that
// Subscribe spins up on first use. Grounded on the Transport/Builder
// split used for data-plane transports elsewhere in the example pack,
// keyed here by URL scheme rather than a config string since the control
// plane has no single config object to read a transport name from.
type backend interface {
	Publish(ctx context.Context, endpoint string, payload []byte) error
	// Subscribe starts (or reuses) a receive loop for endpoint and
	// returns a stop function that blocks until that loop has exited.
	Subscribe(endpoint string, onMessage func(payload []byte)) (stop func(), err error)
	Close() error
}

// backendBuilder constructs a backend for a single endpoint URL.
type backendBuilder func(endpoint string) (backend, error)

type backendRegistry struct {
	mu       sync.RWMutex
	builders map[string]backendBuilder
}

var defaultBackendRegistry = &backendRegistry{builders: make(map[string]backendBuilder)}

// RegisterBackend registers a control-plane backend builder under a URL
// scheme (e.g. "nats", "inproc"). Intended to be called from an init()
// function in the package providing the backend.
func RegisterBackend(scheme string, builder backendBuilder) {
	defaultBackendRegistry.mu.Lock()
	defer defaultBackendRegistry.mu.Unlock()
	defaultBackendRegistry.builders[scheme] = builder
}

func (r *backendRegistry) build(endpoint string) (backend, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("bus: invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("bus: endpoint %q has no scheme", endpoint)
	}

	r.mu.RLock()
	builder, ok := r.builders[u.Scheme]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("bus: no control-plane backend registered for scheme %q", u.Scheme)
	}
	return builder(endpoint)
}
