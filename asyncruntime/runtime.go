// Package asyncruntime is an async execution runtime built on two
// goroutine worker pools — one biased for I/O-bound handlers, one for
// CPU-bound handlers — plus timers, strands, and an escape hatch for
// dedicated "critical loop" goroutines that never share a pool thread.
// It is grounded on the original AsyncRuntime's io_context/thread-pool
// design, adapted to goroutines and channels in place of Asio's executor.
package asyncruntime

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sxlabs/sxinfra/threadpolicy"
)

// State is the runtime's lifecycle state.
type State int32

const (
	StateUninit State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninit:
		return "uninit"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrNotRunning is returned by resource constructors (CreateTimer,
// CreateIOStrand, CreateCPUStrand) when called outside the running state.
var ErrNotRunning = errors.New("asyncruntime: runtime is not running")

// Runtime owns the I/O and CPU worker pools and the critical-loop
// goroutines spawned against it. The zero value is not usable; construct
// with New.
type Runtime struct {
	mu         sync.Mutex
	state      State
	scheduler  threadpolicy.Scheduler
	io         *pool
	cpu        *pool
	criticalWG sync.WaitGroup
	stopFlag   *atomic.Bool
}

// New constructs an uninitialized Runtime.
func New() *Runtime {
	return &Runtime{
		state:    StateUninit,
		stopFlag: new(atomic.Bool),
	}
}

// Init starts the I/O and CPU pools and transitions the runtime to
// running. ioWorkers/cpuWorkers of zero fall back to sensible defaults
// (1 and NumCPU respectively, mirroring hardware_concurrency() use in the
// original). scheduler may be nil to disable affinity/priority hooks.
// Init on an already-running runtime is a no-op.
func (r *Runtime) Init(scheduler threadpolicy.Scheduler, ioWorkers, cpuWorkers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRunning {
		return
	}
	if ioWorkers <= 0 {
		ioWorkers = 1
	}
	if cpuWorkers <= 0 {
		cpuWorkers = runtimeNumCPU()
		if cpuWorkers <= 0 {
			cpuWorkers = 1
		}
	}
	r.scheduler = scheduler
	r.stopFlag.Store(false)
	r.io = startPool(ioWorkers, threadpolicy.IO, scheduler)
	r.cpu = startPool(cpuWorkers, threadpolicy.CPU, scheduler)
	r.state = StateRunning
}

// State reports the current lifecycle state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// PostIO schedules f on the I/O-biased pool. Silently dropped if the
// runtime is not running.
func (r *Runtime) PostIO(f func()) {
	r.postTo(r.ioPoolRef, f)
}

// PostCPU schedules f on the CPU-biased pool. Silently dropped if the
// runtime is not running.
func (r *Runtime) PostCPU(f func()) {
	r.postTo(r.cpuPoolRef, f)
}

func (r *Runtime) ioPoolRef() *pool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return nil
	}
	return r.io
}

func (r *Runtime) cpuPoolRef() *pool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return nil
	}
	return r.cpu
}

func (r *Runtime) postTo(ref func() *pool, f func()) {
	p := ref()
	if p == nil {
		return
	}
	p.post(f)
}

// CreateTimer returns a one-shot timer whose completion callbacks are
// delivered on the I/O pool.
func (r *Runtime) CreateTimer() (*Timer, error) {
	p := r.ioPoolRef()
	if p == nil {
		return nil, ErrNotRunning
	}
	return &Timer{pool: p}, nil
}

// CreateIOStrand returns a serializing executor backed by the I/O pool.
func (r *Runtime) CreateIOStrand() (*Strand, error) {
	p := r.ioPoolRef()
	if p == nil {
		return nil, ErrNotRunning
	}
	return &Strand{pool: p}, nil
}

// CreateCPUStrand returns a serializing executor backed by the CPU pool.
func (r *Runtime) CreateCPUStrand() (*Strand, error) {
	p := r.cpuPoolRef()
	if p == nil {
		return nil, ErrNotRunning
	}
	return &Strand{pool: p}, nil
}

// Stop drains both pools and waits for every critical loop to return. It
// is idempotent: calling Stop on a non-running runtime is a no-op.
func (r *Runtime) Stop() {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return
	}
	r.state = StateStopping
	r.stopFlag.Store(true)
	io, cpu := r.io, r.cpu
	r.mu.Unlock()

	io.stop()
	cpu.stop()
	r.criticalWG.Wait()

	r.mu.Lock()
	r.io = nil
	r.cpu = nil
	r.state = StateStopped
	r.mu.Unlock()
}
