package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sxlabs/sxinfra/infra/logging"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
	ids   []string
}

func (r *recordingLogger) record(msg string, fields logging.Fields) {
	id, _ := fields["correlation_id"].(string)
	r.mu.Lock()
	r.lines = append(r.lines, msg)
	r.ids = append(r.ids, id)
	r.mu.Unlock()
}

func (r *recordingLogger) correlationIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func (r *recordingLogger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

func (r *recordingLogger) With(logging.Fields) logging.Logger         { return r }
func (r *recordingLogger) Trace(string, logging.Fields)               {}
func (r *recordingLogger) Debug(msg string, f logging.Fields)         { r.record(msg, f) }
func (r *recordingLogger) Info(string, logging.Fields)                {}
func (r *recordingLogger) Warn(string, logging.Fields)                {}
func (r *recordingLogger) Error(msg string, _ error, f logging.Fields) { r.record(msg, f) }
func (r *recordingLogger) Critical(string, logging.Fields)            {}

func TestControlBusLoopbackPublishSubscribe(t *testing.T) {
	c := NewControlBus()
	defer c.Shutdown()

	received := make(chan []byte, 1)
	if err := c.Subscribe("inproc://orders", func(payload []byte) {
		received <- payload
	}); err != nil {
		t.Fatal(err)
	}

	// Give the loopback receive goroutine a moment to register before
	// the first publish races it.
	time.Sleep(10 * time.Millisecond)

	if err := c.Publish(context.Background(), "inproc://orders", []byte("hello")); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-received:
		if string(got) != "hello" {
			t.Fatalf("got %q, want hello", got)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the message")
	}
}

func TestControlBusLoopbackMultipleListenersAllNotified(t *testing.T) {
	c := NewControlBus()
	defer c.Shutdown()

	a := make(chan []byte, 1)
	b := make(chan []byte, 1)
	if err := c.Subscribe("inproc://topic", func(p []byte) { a <- p }); err != nil {
		t.Fatal(err)
	}
	if err := c.Subscribe("inproc://topic", func(p []byte) { b <- p }); err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := c.Publish(context.Background(), "inproc://topic", []byte("ping")); err != nil {
		t.Fatal(err)
	}

	for name, ch := range map[string]chan []byte{"a": a, "b": b} {
		select {
		case got := <-ch:
			if string(got) != "ping" {
				t.Fatalf("listener %s: got %q, want ping", name, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("listener %s never received the message", name)
		}
	}
}

func TestControlBusUnknownSchemeFails(t *testing.T) {
	c := NewControlBus()
	defer c.Shutdown()
	if err := c.Publish(context.Background(), "bogus://nowhere", []byte("x")); err == nil {
		t.Fatal("expected an error for an unregistered scheme")
	}
}

func TestControlBusLogsPublishAndReceiveWithCorrelationIDs(t *testing.T) {
	c := NewControlBus()
	defer c.Shutdown()

	rec := &recordingLogger{}
	c.SetLogger(rec)

	received := make(chan []byte, 1)
	if err := c.Subscribe("inproc://logged", func(p []byte) { received <- p }); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if err := c.Publish(context.Background(), "inproc://logged", []byte("hi")); err != nil {
		t.Fatal(err)
	}

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the message")
	}

	// Give the receive-side log line a moment to land after delivery.
	time.Sleep(10 * time.Millisecond)
	if rec.count() < 2 {
		t.Fatalf("got %d log lines, want at least one publish and one receive line", rec.count())
	}
	for i, id := range rec.correlationIDs() {
		if id == "" {
			t.Fatalf("log line %d has no correlation_id", i)
		}
	}
}

func TestUnifiedBusShutdownStopsControlAndClearsData(t *testing.T) {
	u := NewUnifiedBus()
	received := make(chan []byte, 1)
	if err := u.Control.Subscribe("inproc://shutdown-test", func(p []byte) { received <- p }); err != nil {
		t.Fatal(err)
	}
	_ = SubscribeStream[int](u.Data, "orders", ReliableFifo)

	u.Shutdown()

	if n := len(u.Data.topics); n != 0 {
		t.Fatalf("data-plane topics after Shutdown = %d, want 0", n)
	}

	if err := u.Control.Publish(context.Background(), "inproc://shutdown-test", []byte("x")); err != nil {
		// Publishing after shutdown re-creates a backend; that's fine,
		// what matters is the old receive worker is gone.
	}
	select {
	case <-received:
		t.Fatal("a stopped subscriber should not receive post-shutdown messages")
	case <-time.After(50 * time.Millisecond):
	}
}
