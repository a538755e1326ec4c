// Package bus is a unified message bus multiplexing a control plane
// (addressable, backend-routed pub/sub over small opaque payloads) and a
// data plane (high-throughput, in-process typed streams) behind one
// type. It is grounded on the original UnifiedBus, which routes control
// messages over ZeroMQ PUB/SUB sockets keyed by endpoint and routes
// stream data straight into per-topic in-process queues for zero-copy
// delivery.
package bus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sxlabs/sxinfra/infra/logging"
	"github.com/sxlabs/sxinfra/queue"
)

// StreamMode selects the queueing discipline a data-plane subscriber
// wants: lossless FIFO delivery, or always-the-newest-value delivery.
type StreamMode int

const (
	// ReliableFifo drops nothing; a slow consumer backs up the queue.
	ReliableFifo StreamMode = iota
	// RealTimeLatest keeps only the most recent publish; a slow consumer
	// silently misses everything but the newest value.
	RealTimeLatest
)

type streamTopic struct {
	mu     sync.Mutex
	queues []queue.Queue[any]
}

// DataBus is the data-plane half of a bus: per-topic fan-out to
// independently-moded subscriber queues. The zero value is not usable;
// construct with NewDataBus (or via NewUnifiedBus).
type DataBus struct {
	mu     sync.Mutex
	topics map[string]*streamTopic
	log    logging.Logger
}

// NewDataBus returns an empty DataBus. Logging is a no-op until SetLogger
// is called.
func NewDataBus() *DataBus {
	return &DataBus{topics: make(map[string]*streamTopic), log: logging.NoOp()}
}

// SetLogger attaches l as the destination for topic lifecycle logging.
func (b *DataBus) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.NoOp()
	}
	b.mu.Lock()
	b.log = l
	b.mu.Unlock()
}

// publishRaw fans data out to every queue subscribed to topic. A topic
// with no subscribers is a silent no-op, matching the original's
// "if Topic doesn't exist, return directly (no side effects)" publish
// behavior rather than buffering for a subscriber that may never arrive.
func (b *DataBus) publishRaw(topic string, data any) {
	b.mu.Lock()
	t, ok := b.topics[topic]
	b.mu.Unlock()
	if !ok {
		return
	}

	t.mu.Lock()
	queues := append([]queue.Queue[any]{}, t.queues...)
	t.mu.Unlock()

	dataPlanePublishes.WithLabelValues(topic).Inc()
	for _, q := range queues {
		q.Push(data)
	}
}

// subscribeRaw creates a new subscriber queue of the given mode on topic,
// creating the topic if this is its first subscriber.
func (b *DataBus) subscribeRaw(topic string, mode StreamMode) queue.Queue[any] {
	var q queue.Queue[any]
	switch mode {
	case ReliableFifo:
		q = queue.NewReliable[any]()
	case RealTimeLatest:
		q = queue.NewLatest[any]()
	default:
		return nil
	}

	b.mu.Lock()
	t, ok := b.topics[topic]
	log := b.log
	if !ok {
		t = &streamTopic{}
		b.topics[topic] = t
		dataPlaneTopics.Set(float64(len(b.topics)))
	}
	b.mu.Unlock()

	if !ok {
		log.Debug("data-plane topic created", logging.Fields{"topic": topic})
	}

	t.mu.Lock()
	t.queues = append(t.queues, q)
	t.mu.Unlock()
	return q
}

// clear drops every topic and its subscriber queues without otherwise
// notifying subscribers; used as the data-plane half of UnifiedBus
// shutdown.
func (b *DataBus) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = make(map[string]*streamTopic)
	dataPlaneTopics.Set(0)
}

// TypedHandle adapts a DataBus's type-erased subscriber queue back to a
// concrete T at the consumer boundary, mirroring the original's
// TypedQueueAdapter<T>.
type TypedHandle[T any] struct {
	inner queue.Queue[any]
}

func (h *TypedHandle[T]) Pop() T {
	v := h.inner.Pop()
	out, _ := v.(T)
	return out
}

func (h *TypedHandle[T]) TryPop() (T, bool) {
	v, ok := h.inner.TryPop()
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return out, true
}

func (h *TypedHandle[T]) Empty() bool { return h.inner.Empty() }

// SubscribeStream subscribes to topic with the given mode and returns a
// handle typed to T. Returns nil if mode is not a recognized StreamMode.
func SubscribeStream[T any](b *DataBus, topic string, mode StreamMode) *TypedHandle[T] {
	raw := b.subscribeRaw(topic, mode)
	if raw == nil {
		return nil
	}
	return &TypedHandle[T]{inner: raw}
}

// PublishStream publishes data to topic. A topic with no subscribers
// silently drops it.
func PublishStream[T any](b *DataBus, topic string, data T) {
	b.publishRaw(topic, any(data))
}

var (
	dataPlaneTopics = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sxinfra",
		Subsystem: "bus",
		Name:      "data_plane_topics",
		Help:      "Number of distinct data-plane topics with at least one subscriber.",
	})
	dataPlanePublishes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sxinfra",
		Subsystem: "bus",
		Name:      "data_plane_publishes_total",
		Help:      "Total data-plane PublishStream calls that reached at least one subscriber.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(dataPlaneTopics, dataPlanePublishes)
}
