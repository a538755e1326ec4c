package infra

import (
	"testing"

	"github.com/sxlabs/sxinfra/bus"
)

// These tests share the package-level singleton, so each one shuts it
// down before returning to leave a clean slate for the next.

func TestInitAllAndShutdownAllRoundTrip(t *testing.T) {
	if err := InitAll(Config{IOThreads: 1, CPUThreads: 1}); err != nil {
		t.Fatal(err)
	}
	if !Started() {
		t.Fatal("expected Started() to report true after InitAll")
	}

	handle := bus.SubscribeStream[string](Bus().Data, "singleton-events", bus.ReliableFifo)
	bus.PublishStream(Bus().Data, "singleton-events", "hi")
	if got := handle.Pop(); got != "hi" {
		t.Fatalf("got %q, want hi", got)
	}

	ShutdownAll()
	if Started() {
		t.Fatal("expected Started() to report false after ShutdownAll")
	}
}

func TestInitAllIsIdempotent(t *testing.T) {
	if err := InitAll(Config{IOThreads: 1, CPUThreads: 1}); err != nil {
		t.Fatal(err)
	}
	defer ShutdownAll()

	if err := InitAll(Config{IOThreads: 9, CPUThreads: 9}); err != nil {
		t.Fatal(err)
	}
	// No observable way to assert the second call didn't re-run without
	// reaching into package state directly; absence of a panic/hang and
	// Started() staying true is the externally visible contract.
	if !Started() {
		t.Fatal("expected Started() to remain true")
	}
}

func TestShutdownAllIsIdempotent(t *testing.T) {
	if err := InitAll(Config{IOThreads: 1, CPUThreads: 1}); err != nil {
		t.Fatal(err)
	}
	ShutdownAll()
	ShutdownAll() // must not panic
}
