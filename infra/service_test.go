package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sxlabs/sxinfra/bus"
	"github.com/sxlabs/sxinfra/infra/logging"
)

func writeServiceConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"name": "svc"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestServiceInitStartsAllComponents(t *testing.T) {
	s := NewService()
	logDir := t.TempDir()
	cfgPath := writeServiceConfig(t)

	err := s.Init(Config{
		EnableLogging: true,
		Logging:       loggingConfig(logDir),
		ConfigPath:    cfgPath,
		IOThreads:     1,
		CPUThreads:    1,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Shutdown()

	if !s.Started() {
		t.Fatal("expected Started() to report true after Init")
	}
	if got := s.Config().ConfigPath(); got != cfgPath {
		t.Fatalf("config path = %q, want %q", got, cfgPath)
	}

	handle := bus.SubscribeStream[int](s.Bus().Data, "events", bus.ReliableFifo)
	bus.PublishStream(s.Bus().Data, "events", 7)
	if got := handle.Pop(); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestServiceInitIsIdempotent(t *testing.T) {
	s := NewService()
	if err := s.Init(Config{IOThreads: 1, CPUThreads: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Init(Config{IOThreads: 4, CPUThreads: 4}); err != nil {
		t.Fatal(err)
	}
	defer s.Shutdown()
	if s.cfg.IOThreads != 1 {
		t.Fatalf("second Init should not have taken effect, IOThreads = %d", s.cfg.IOThreads)
	}
}

func TestServiceShutdownIsIdempotent(t *testing.T) {
	s := NewService()
	if err := s.Init(Config{IOThreads: 1, CPUThreads: 1}); err != nil {
		t.Fatal(err)
	}
	s.Shutdown()
	s.Shutdown() // must not panic
	if s.Started() {
		t.Fatal("expected Started() to report false after Shutdown")
	}
}

func TestServiceCanRestartAfterShutdown(t *testing.T) {
	s := NewService()
	if err := s.Init(Config{IOThreads: 1, CPUThreads: 1}); err != nil {
		t.Fatal(err)
	}
	s.Shutdown()

	if err := s.Init(Config{IOThreads: 1, CPUThreads: 1}); err != nil {
		t.Fatal(err)
	}
	defer s.Shutdown()
	if !s.Started() {
		t.Fatal("expected Started() to report true after restart")
	}
}

func loggingConfig(dir string) logging.Config {
	return logging.Config{LogDir: dir, FileName: "svc.log"}
}
