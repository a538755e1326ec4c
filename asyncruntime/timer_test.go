package asyncruntime

import (
	"testing"
	"time"
)

func TestTimerFiresAfterDeadline(t *testing.T) {
	r := New()
	r.Init(nil, 2, 2)
	defer r.Stop()

	timer, err := r.CreateTimer()
	if err != nil {
		t.Fatal(err)
	}

	result := make(chan bool, 1)
	timer.ExpiresAfter(20 * time.Millisecond)
	timer.AsyncWait(func(ok bool) { result <- ok })

	select {
	case ok := <-result:
		if !ok {
			t.Fatal("expected ok=true for a timer that fired naturally")
		}
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestTimerCancelCompletesWithFalse(t *testing.T) {
	r := New()
	r.Init(nil, 2, 2)
	defer r.Stop()

	timer, err := r.CreateTimer()
	if err != nil {
		t.Fatal(err)
	}

	result := make(chan bool, 1)
	timer.ExpiresAfter(time.Hour)
	timer.AsyncWait(func(ok bool) { result <- ok })
	timer.Cancel()

	select {
	case ok := <-result:
		if ok {
			t.Fatal("expected ok=false for a cancelled wait")
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled wait never completed")
	}
}

func TestTimerRearmCancelsPreviousWait(t *testing.T) {
	r := New()
	r.Init(nil, 2, 2)
	defer r.Stop()

	timer, err := r.CreateTimer()
	if err != nil {
		t.Fatal(err)
	}

	firstResult := make(chan bool, 1)
	timer.ExpiresAfter(time.Hour)
	timer.AsyncWait(func(ok bool) { firstResult <- ok })

	// Re-arming before the first wait fires must cancel it.
	timer.ExpiresAfter(10 * time.Millisecond)

	select {
	case ok := <-firstResult:
		if ok {
			t.Fatal("expected the superseded wait to complete with ok=false")
		}
	case <-time.After(time.Second):
		t.Fatal("superseded wait never completed")
	}

	secondResult := make(chan bool, 1)
	timer.AsyncWait(func(ok bool) { secondResult <- ok })
	select {
	case ok := <-secondResult:
		if !ok {
			t.Fatal("expected the new wait to fire naturally")
		}
	case <-time.After(time.Second):
		t.Fatal("new wait never fired")
	}
}
