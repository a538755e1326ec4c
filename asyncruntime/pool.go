package asyncruntime

import (
	"runtime"
	"sync"

	"github.com/sxlabs/sxinfra/threadpolicy"
)

// pool is a fixed-size goroutine worker pool with a FIFO work channel.
// Posting after the pool has been asked to stop is silently dropped.
type pool struct {
	work chan func()
	done chan struct{}
	wg   sync.WaitGroup
}

const poolQueueDepth = 4096

func startPool(n int, class threadpolicy.ThreadClass, scheduler threadpolicy.Scheduler) *pool {
	p := &pool{
		work: make(chan func(), poolQueueDepth),
		done: make(chan struct{}),
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.runWorker(i, class, scheduler)
	}
	return p
}

func (p *pool) runWorker(index int, class threadpolicy.ThreadClass, scheduler threadpolicy.Scheduler) {
	defer p.wg.Done()
	if scheduler != nil {
		scheduler.OnThreadStart(class, index)
	}
	for {
		select {
		case f, ok := <-p.work:
			if !ok {
				return
			}
			if f != nil {
				f()
			}
		case <-p.done:
			p.drain()
			return
		}
	}
}

// drain runs whatever work was already queued before exiting, but does not
// wait for new work to arrive.
func (p *pool) drain() {
	for {
		select {
		case f, ok := <-p.work:
			if !ok {
				return
			}
			if f != nil {
				f()
			}
		default:
			return
		}
	}
}

// post enqueues f. It never blocks past the pool's shutdown signal: once
// stop has been signalled the send races against p.done so a caller that
// raced with Stop sees silent rejection instead of hanging forever.
func (p *pool) post(f func()) {
	select {
	case p.work <- f:
	case <-p.done:
	}
}

func (p *pool) stop() {
	close(p.done)
	p.wg.Wait()
}

// runtimeNumCPU is a seam for tests; it defaults to the real hardware
// concurrency the same way the original falls back to
// std::thread::hardware_concurrency().
var runtimeNumCPU = runtime.NumCPU
