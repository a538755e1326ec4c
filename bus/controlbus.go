package bus

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sxlabs/sxinfra/ids"
	"github.com/sxlabs/sxinfra/infra/logging"
)

// ControlBus is the control-plane half of a bus: small opaque payloads
// routed to a backend resolved from the endpoint's URL scheme (see
// RegisterBackend), with one receive worker per endpoint fanning out to
// every callback registered against it. Grounded on the original
// UnifiedBus's "topic == endpoint" scheme, where a single pub socket and
// a single sub worker thread are cached per endpoint string.
type ControlBus struct {
	mu        sync.Mutex
	backends  map[string]backend
	stops     map[string]func()
	listeners map[string][]func(payload []byte)
	log       logging.Logger
}

// NewControlBus returns an empty ControlBus. Logging is a no-op until
// SetLogger is called.
func NewControlBus() *ControlBus {
	return &ControlBus{
		backends:  make(map[string]backend),
		stops:     make(map[string]func()),
		listeners: make(map[string][]func(payload []byte)),
		log:       logging.NoOp(),
	}
}

// SetLogger attaches l as the destination for per-message correlation-id
// logging. Grounded on the teacher's middleware, which stamps
// msg.Metadata["correlation_id"] with a ULID for every message that passes
// through it. The control plane here has no message envelope to carry that
// stamp on the wire, so Publish and the receive dispatch each generate their
// own ULID for their log line; the publish-side and receive-side ids of one
// message differ and do not link the two lines.
func (c *ControlBus) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.NoOp()
	}
	c.mu.Lock()
	c.log = l
	c.mu.Unlock()
}

func (c *ControlBus) logger() logging.Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log
}

func (c *ControlBus) backendForLocked(endpoint string) (backend, error) {
	if b, ok := c.backends[endpoint]; ok {
		return b, nil
	}
	b, err := defaultBackendRegistry.build(endpoint)
	if err != nil {
		return nil, err
	}
	c.backends[endpoint] = b
	return b, nil
}

// Publish sends message to endpoint, resolving (and caching) a backend
// connection for it on first use.
func (c *ControlBus) Publish(ctx context.Context, endpoint string, message []byte) error {
	correlationID := ids.New()
	log := c.logger()

	c.mu.Lock()
	b, err := c.backendForLocked(endpoint)
	c.mu.Unlock()
	if err != nil {
		log.Error("control-plane backend resolution failed", err, logging.Fields{
			"endpoint":       endpoint,
			"correlation_id": correlationID,
		})
		return err
	}
	if err := b.Publish(ctx, endpoint, message); err != nil {
		log.Error("control-plane publish failed", err, logging.Fields{
			"endpoint":       endpoint,
			"correlation_id": correlationID,
		})
		return err
	}
	controlPlanePublishes.WithLabelValues(endpoint).Inc()
	log.Debug("control-plane message published", logging.Fields{
		"endpoint":       endpoint,
		"correlation_id": correlationID,
		"bytes":          len(message),
	})
	return nil
}

// Subscribe registers callback to run on every message received on
// endpoint. The first Subscribe for a given endpoint starts its receive
// worker; later ones just add another callback to the same fan-out.
func (c *ControlBus) Subscribe(endpoint string, callback func(payload []byte)) error {
	if callback == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := c.backendForLocked(endpoint)
	if err != nil {
		return err
	}

	if _, running := c.stops[endpoint]; !running {
		stop, err := b.Subscribe(endpoint, func(payload []byte) {
			correlationID := ids.New()
			c.mu.Lock()
			callbacks := append([]func([]byte){}, c.listeners[endpoint]...)
			log := c.log
			c.mu.Unlock()
			controlPlaneReceives.WithLabelValues(endpoint).Inc()
			log.Debug("control-plane message received", logging.Fields{
				"endpoint":       endpoint,
				"correlation_id": correlationID,
				"bytes":          len(payload),
				"listeners":      len(callbacks),
			})
			for _, cb := range callbacks {
				cb(payload)
			}
		})
		if err != nil {
			return err
		}
		c.stops[endpoint] = stop
	}

	c.listeners[endpoint] = append(c.listeners[endpoint], callback)
	return nil
}

// Shutdown stops every receive worker (joining each one) and then closes
// every backend connection, mirroring the original's stop-then-join-
// then-close teardown order.
func (c *ControlBus) Shutdown() {
	c.mu.Lock()
	stops := make([]func(), 0, len(c.stops))
	for _, stop := range c.stops {
		stops = append(stops, stop)
	}
	backends := make([]backend, 0, len(c.backends))
	for _, b := range c.backends {
		backends = append(backends, b)
	}
	c.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	for _, b := range backends {
		_ = b.Close()
	}

	c.mu.Lock()
	c.backends = make(map[string]backend)
	c.stops = make(map[string]func())
	c.listeners = make(map[string][]func([]byte))
	c.mu.Unlock()
}

var (
	controlPlanePublishes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sxinfra",
		Subsystem: "bus",
		Name:      "control_plane_publishes_total",
		Help:      "Total control-plane Publish calls per endpoint.",
	}, []string{"endpoint"})
	controlPlaneReceives = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sxinfra",
		Subsystem: "bus",
		Name:      "control_plane_receives_total",
		Help:      "Total control-plane messages received per endpoint.",
	}, []string{"endpoint"})
)

func init() {
	prometheus.MustRegister(controlPlanePublishes, controlPlaneReceives)
}
