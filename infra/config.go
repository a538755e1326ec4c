// Package infra wires the async execution runtime, unified bus, config
// store, and logging façade together in one consistent startup/shutdown
// order. It offers both a package-level singleton (Manager) and a
// dependency-injection-friendly instance (Service) over the same
// underlying init/shutdown sequence — the original ships an equivalent
// pair (InfraManager and InfraService) rather than picking one, and nothing
// in their shapes makes either strictly subsumable by the other, so both
// are kept here too.
package infra

import (
	"github.com/sxlabs/sxinfra/infra/logging"
	"github.com/sxlabs/sxinfra/threadpolicy"
)

// Config describes how to bring infra components up. The zero value
// starts only the async runtime (with default pool sizes) and the bus;
// logging and the config store are both opt-in.
type Config struct {
	// EnableLogging, if true, initializes the logging Manager before any
	// other component so they're able to log during their own startup.
	EnableLogging bool
	Logging       logging.Config

	// ConfigPath, if non-empty, is loaded into the config Store as part
	// of startup. Left empty, the config store is constructed but never
	// loaded.
	ConfigPath string

	// IOThreads/CPUThreads size the async runtime's pools; zero falls
	// back to asyncruntime.Init's own defaults.
	IOThreads  int
	CPUThreads int

	// Scheduler is the optional platform affinity/priority hook passed
	// to asyncruntime.Init.
	Scheduler threadpolicy.Scheduler
}
