package bus

import (
	"context"
	"sync"
)

func init() {
	RegisterBackend("inproc", buildLoopbackBackend)
}

// loopbackHub is a process-wide in-memory fan-out keyed by endpoint, so
// two ControlBus instances that both address "inproc://foo" within the
// same process observe each other. Grounded on the in-memory channel
// transport used for tests and local development elsewhere in the
// example pack, adapted from exchanging framed messages to exchanging
// raw payload bytes since the control plane has no message envelope of
// its own.
var loopbackHub = struct {
	mu          sync.Mutex
	subscribers map[string][]chan []byte
}{subscribers: make(map[string][]chan []byte)}

type loopbackBackend struct{}

func buildLoopbackBackend(endpoint string) (backend, error) {
	return &loopbackBackend{}, nil
}

func (b *loopbackBackend) Publish(ctx context.Context, endpoint string, payload []byte) error {
	loopbackHub.mu.Lock()
	chs := append([]chan []byte{}, loopbackHub.subscribers[endpoint]...)
	loopbackHub.mu.Unlock()

	for _, ch := range chs {
		select {
		case ch <- payload:
		default:
			// A slow loopback subscriber drops rather than blocks the
			// publisher; the control plane carries small control
			// messages, not a delivery guarantee.
		}
	}
	return nil
}

func (b *loopbackBackend) Subscribe(endpoint string, onMessage func([]byte)) (func(), error) {
	ch := make(chan []byte, 64)
	loopbackHub.mu.Lock()
	loopbackHub.subscribers[endpoint] = append(loopbackHub.subscribers[endpoint], ch)
	loopbackHub.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for payload := range ch {
			onMessage(payload)
		}
	}()

	stop := func() {
		loopbackHub.mu.Lock()
		subs := loopbackHub.subscribers[endpoint]
		for i, c := range subs {
			if c == ch {
				loopbackHub.subscribers[endpoint] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		loopbackHub.mu.Unlock()
		close(ch)
		<-done
	}
	return stop, nil
}

func (b *loopbackBackend) Close() error { return nil }
