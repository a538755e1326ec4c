package asyncruntime

import "sync"

// Strand serializes a stream of posted callbacks onto its backing pool:
// callbacks run in FIFO order and never overlap, even though the pool
// itself runs many workers concurrently. Construct with
// Runtime.CreateIOStrand or Runtime.CreateCPUStrand.
type Strand struct {
	pool *pool

	mu      sync.Mutex
	queue   []func()
	running bool
}

// Post enqueues f. If the strand is currently idle this also schedules
// its drain loop onto the pool; if a drain loop is already in flight, f
// simply joins the queue it is working through.
func (s *Strand) Post(f func()) {
	s.mu.Lock()
	s.queue = append(s.queue, f)
	needsDrain := !s.running
	if needsDrain {
		s.running = true
	}
	s.mu.Unlock()

	if needsDrain {
		s.pool.post(s.drain)
	}
}

func (s *Strand) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}
		f := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if f != nil {
			f()
		}
	}
}
