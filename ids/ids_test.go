package ids

import (
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestNewReturnsParseableULID(t *testing.T) {
	s := New()
	if _, err := ulid.Parse(s); err != nil {
		t.Fatalf("New() = %q does not parse as a ULID: %v", s, err)
	}
}

func TestNewIsUniqueUnderConcurrency(t *testing.T) {
	const n = 200
	seen := make(chan string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			seen <- New()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[string]struct{}, n)
	for s := range seen {
		unique[s] = struct{}{}
	}
	if len(unique) != n {
		t.Fatalf("got %d unique ids, want %d", len(unique), n)
	}
}
