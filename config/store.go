// Package config is a hierarchical, hot-reloadable configuration store.
// A JSON document is parsed into a generic tree and read through dotted
// key paths with typed, default-falling-back accessors; reloading swaps
// the tree atomically so concurrent readers never observe a partial
// document. It is grounded on the original ConfigManager, with JSON
// decoding done through bytedance/sonic (already the teacher's own
// dependency) in place of nlohmann::json, and file-triggered hot reload
// (Watch, via fsnotify) added alongside the explicit Reload.
package config

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/bytedance/sonic"
)

var jsonAPI = sonic.Config{UseNumber: true}.Froze()

// Store holds the current configuration document plus the reload
// listeners registered against it. The zero value is not usable;
// construct with New.
type Store struct {
	root atomic.Pointer[any]

	mu         sync.Mutex
	configPath string
	listeners  map[string][]func()
}

// New returns an empty Store with no document loaded.
func New() *Store {
	return &Store{listeners: make(map[string][]func())}
}

// Load parses the JSON document at path and installs it as the current
// tree, remembering path for future Reload/Watch calls.
func (s *Store) Load(path string) error {
	parsed, err := readDocument(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.configPath = path
	s.mu.Unlock()
	s.root.Store(&parsed)
	return nil
}

// Reload re-reads the document from the path given to the last successful
// Load and, if it parses, swaps it in and fires every registered
// listener (in no particular key order, without holding the store's
// locks). Callers are expected to call Get again rather than rely on
// any payload carried by the notification.
func (s *Store) Reload() error {
	s.mu.Lock()
	path := s.configPath
	s.mu.Unlock()
	if path == "" {
		return ErrNoConfigLoaded
	}

	parsed, err := readDocument(path)
	if err != nil {
		return err
	}
	s.root.Store(&parsed)

	s.mu.Lock()
	var callbacks []func()
	for _, cbs := range s.listeners {
		callbacks = append(callbacks, cbs...)
	}
	s.mu.Unlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb()
		}
	}
	return nil
}

// RegisterListener arranges for cb to be invoked on every future Reload.
// key_path is accepted for parity with the original API (listeners are
// grouped by the path they care about) but every listener is notified on
// every reload, regardless of which keys actually changed — narrowing
// that down would require a diff the underlying document format doesn't
// cheaply support.
func (s *Store) RegisterListener(keyPath string, cb func()) {
	if cb == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[keyPath] = append(s.listeners[keyPath], cb)
}

// ConfigPath returns the path given to the last successful Load, or "" if
// none has occurred.
func (s *Store) ConfigPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configPath
}

func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var parsed any
	if err := jsonAPI.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// Get looks up keyPath (dot-separated object keys and array indices, e.g.
// "server.retries" or "endpoints.0.url") in s's current document and
// narrows it to T. If the path is absent, null, or its value can't be
// narrowed to T without loss, defaultVal is returned instead — matching
// get<T>'s no-throw, default-on-mismatch contract.
func Get[T any](s *Store, keyPath string, defaultVal T) T {
	root := s.root.Load()
	if root == nil {
		return defaultVal
	}
	node, ok := traverse(*root, keyPath)
	if !ok || node == nil {
		return defaultVal
	}
	out, ok := narrow[T](node)
	if !ok {
		return defaultVal
	}
	return out
}
