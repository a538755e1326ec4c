package infra

import (
	"sync"

	"github.com/sxlabs/sxinfra/asyncruntime"
	"github.com/sxlabs/sxinfra/bus"
	"github.com/sxlabs/sxinfra/config"
	"github.com/sxlabs/sxinfra/infra/logging"
)

var (
	managerMu      sync.Mutex
	managerStarted bool
	managerLogging = logging.NewManager()
	managerConfig  = config.New()
	managerRuntime = asyncruntime.New()
	managerBus     = bus.NewUnifiedBus()
)

// InitAll brings the package-level infra singleton up in a fixed order —
// logging, then the async runtime, then the config store, then the bus —
// matching InfraManager::init_all. Safe to call more than once: later
// calls while already started are a no-op, and a failure partway through
// leaves whatever already started running for the caller to either
// retry or tear down with ShutdownAll.
func InitAll(cfg Config) error {
	managerMu.Lock()
	defer managerMu.Unlock()
	if managerStarted {
		return nil
	}

	if cfg.EnableLogging {
		if err := managerLogging.Init(cfg.Logging); err != nil {
			return err
		}
		managerBus.SetLogger(managerLogging.GetLogger("bus"))
	}

	managerRuntime.Init(cfg.Scheduler, cfg.IOThreads, cfg.CPUThreads)

	if cfg.ConfigPath != "" {
		if err := managerConfig.Load(cfg.ConfigPath); err != nil {
			// The runtime is left running; the caller decides whether to
			// retry Load or call ShutdownAll.
			return err
		}
	}

	managerStarted = true
	return nil
}

// ShutdownAll tears the singleton down in reverse order, including
// whatever a failed InitAll left running. Safe to call more than once:
// each component's shutdown is a no-op when it is not running.
func ShutdownAll() {
	managerMu.Lock()
	defer managerMu.Unlock()

	managerBus.Shutdown()
	managerRuntime.Stop()
	managerLogging.Shutdown()

	managerStarted = false
}

// Logging returns the package singleton's logging manager.
func Logging() *logging.Manager { return managerLogging }

// ConfigStore returns the package singleton's config store.
func ConfigStore() *config.Store { return managerConfig }

// Runtime returns the package singleton's async runtime.
func Runtime() *asyncruntime.Runtime { return managerRuntime }

// Bus returns the package singleton's unified bus.
func Bus() *bus.UnifiedBus { return managerBus }

// Started reports whether InitAll has completed without an intervening
// ShutdownAll.
func Started() bool {
	managerMu.Lock()
	defer managerMu.Unlock()
	return managerStarted
}
