// Package ids generates time-sortable correlation identifiers used to tie
// together log lines for a single control-plane publish or receive event.
// Grounded on the teacher's internal/runtime/ids package, which backs every
// message.Message.UUID and the middleware's correlation_id metadata with
// the same monotonic ULID source.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a time-sortable, 26-character ULID string. Safe for
// concurrent use; the monotonic entropy source is guarded by a mutex so two
// IDs generated within the same millisecond still sort in call order.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
