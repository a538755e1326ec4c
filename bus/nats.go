package bus

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	natsgo "github.com/nats-io/nats.go"
)

func init() {
	RegisterBackend("nats", buildNATSBackend)
}

// natsBackend routes control-plane traffic through a real NATS server.
// It is used directly rather than through a higher-level router
// abstraction: receive workers here own a dedicated goroutine with an
// explicit stop flag, polling NextMsg with a short timeout the same way
// the original's ZMQ_RCVTIMEO=100ms sockets poll for cooperative
// shutdown, which a dispatch-pool-owned subscription can't reproduce.
type natsBackend struct {
	conn    *natsgo.Conn
	subject string
}

// buildNATSBackend connects to the server named by endpoint's host and
// derives the subject from its path, e.g. "nats://broker:4222/orders.created"
// subscribes/publishes on subject "orders.created".
func buildNATSBackend(endpoint string) (backend, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	subject := strings.Trim(u.Path, "/")
	if subject == "" {
		return nil, fmt.Errorf("bus: nats endpoint %q has no subject path", endpoint)
	}

	serverURL := (&url.URL{Scheme: "nats", Host: u.Host}).String()
	conn, err := natsgo.Connect(serverURL)
	if err != nil {
		return nil, err
	}
	return &natsBackend{conn: conn, subject: subject}, nil
}

func (b *natsBackend) Publish(ctx context.Context, endpoint string, payload []byte) error {
	return b.conn.Publish(b.subject, payload)
}

const natsReceiveTimeout = 100 * time.Millisecond

func (b *natsBackend) Subscribe(endpoint string, onMessage func([]byte)) (func(), error) {
	sub, err := b.conn.SubscribeSync(b.subject)
	if err != nil {
		return nil, err
	}

	var stopping atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		for !stopping.Load() {
			msg, err := sub.NextMsg(natsReceiveTimeout)
			if err != nil {
				// nats.ErrTimeout on the common path; any other error is
				// treated the same way the original treats a recv error
				// that isn't EAGAIN: continue (nothing is logged) rather
				// than abort the loop, since the socket may recover.
				continue
			}
			onMessage(msg.Data)
		}
	}()

	stop := func() {
		stopping.Store(true)
		<-done
		_ = sub.Unsubscribe()
	}
	return stop, nil
}

func (b *natsBackend) Close() error {
	b.conn.Close()
	return nil
}
