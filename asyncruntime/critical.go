package asyncruntime

import (
	"runtime"
	"sync/atomic"

	"github.com/sxlabs/sxinfra/threadpolicy"
)

// SpawnCriticalLoop launches fn on a dedicated, OS-thread-locked goroutine
// outside both pools, for work that must own a stable thread (platform
// affinity, realtime scheduling) rather than hop between pool workers. fn
// is always handed the runtime's shared stop flag; callers that don't
// need it are free to ignore the parameter — Go has no overload
// resolution to dispatch on, unlike the templated original.
//
// Calling SpawnCriticalLoop before Init (or after Stop) is a silent
// no-op, matching how posting to a pool that doesn't exist yet behaves.
func (r *Runtime) SpawnCriticalLoop(policy threadpolicy.Policy, fn func(stop *atomic.Bool)) {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return
	}
	r.criticalWG.Add(1)
	scheduler := r.scheduler
	stopFlag := r.stopFlag
	r.mu.Unlock()

	go func() {
		defer r.criticalWG.Done()
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if scheduler != nil {
			scheduler.OnThreadStart(threadpolicy.Critical, 0)
			scheduler.ApplyCurrentThreadPolicy(policy)
		}
		if fn != nil {
			fn(stopFlag)
		}
	}()
}
