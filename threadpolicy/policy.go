// Package threadpolicy carries the passive scheduling hints async runtime
// worker and critical-loop threads may be pinned to, plus the pluggable
// hook a platform layer installs to act on them. It is a data-only package:
// it has no opinion on what affinity or realtime priority mean on a given
// OS, and defines no default Scheduler implementation.
package threadpolicy

// Policy is a passive descriptor; its semantics are entirely defined by
// whatever Scheduler is installed. A nil field means "no preference" /
// "do not change", matching the original ThreadPolicy's -1 sentinels.
type Policy struct {
	// CPUID pins the thread to a specific logical CPU. Nil means no
	// affinity preference.
	CPUID *int

	// RealtimePriority requests a realtime scheduling priority. Its range
	// is platform-defined (e.g. 1..99 for Linux SCHED_FIFO). Nil means do
	// not change the current priority.
	RealtimePriority *int

	// Realtime requests the scheduler attempt realtime scheduling at all.
	Realtime bool
}

// ThreadClass identifies which pool (or the critical-loop escape hatch) a
// worker thread belongs to, passed to Scheduler.OnThreadStart.
type ThreadClass int

const (
	IO ThreadClass = iota
	CPU
	Critical
)

func (c ThreadClass) String() string {
	switch c {
	case IO:
		return "io"
	case CPU:
		return "cpu"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Scheduler is the optional platform hook for thread affinity / priority
// control. A nil Scheduler disables affinity/priority management entirely;
// callers pass nil to asyncruntime.Init to opt out.
type Scheduler interface {
	// OnThreadStart is called once, on the worker thread itself, as it
	// enters the pool's run loop (or, for critical loops, before the
	// loop body runs).
	OnThreadStart(class ThreadClass, index int)

	// ApplyCurrentThreadPolicy is called from within a critical-loop
	// goroutine (after runtime.LockOSThread) to apply policy to the
	// calling OS thread.
	ApplyCurrentThreadPolicy(policy Policy)
}
