package infra

import (
	"sync"

	"github.com/sxlabs/sxinfra/asyncruntime"
	"github.com/sxlabs/sxinfra/bus"
	"github.com/sxlabs/sxinfra/config"
	"github.com/sxlabs/sxinfra/infra/logging"
)

// Service is a dependency-injection-friendly equivalent of the package
// singleton in manager.go: every component lives on the instance instead
// of in package state, so a process can run more than one (for tests, or
// for genuinely separate subsystems) without interfering with itself.
// Grounded on the original InfraService.
type Service struct {
	mu      sync.Mutex
	started bool
	cfg     Config

	logging *logging.Manager
	config  *config.Store
	runtime *asyncruntime.Runtime
	bus     *bus.UnifiedBus
}

// NewService returns an unstarted Service.
func NewService() *Service {
	return &Service{
		logging: logging.NewManager(),
		config:  config.New(),
		runtime: asyncruntime.New(),
		bus:     bus.NewUnifiedBus(),
	}
}

// Init starts this instance's components in the same order InitAll uses.
// Idempotent.
func (s *Service) Init(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.cfg = cfg

	if cfg.EnableLogging {
		if err := s.logging.Init(cfg.Logging); err != nil {
			return err
		}
		s.bus.SetLogger(s.logging.GetLogger("bus"))
	}

	s.runtime.Init(cfg.Scheduler, cfg.IOThreads, cfg.CPUThreads)

	if cfg.ConfigPath != "" {
		if err := s.config.Load(cfg.ConfigPath); err != nil {
			return err
		}
	}

	s.started = true
	return nil
}

// Shutdown tears this instance down in reverse order. Idempotent.
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}

	s.bus.Shutdown()
	s.runtime.Stop()
	s.logging.Shutdown()

	s.started = false
}

// Started reports whether Init has completed without an intervening
// Shutdown.
func (s *Service) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *Service) Logging() *logging.Manager      { return s.logging }
func (s *Service) Config() *config.Store          { return s.config }
func (s *Service) Runtime() *asyncruntime.Runtime { return s.runtime }
func (s *Service) Bus() *bus.UnifiedBus           { return s.bus }
