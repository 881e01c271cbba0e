package scenario

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Store holds the current Scenario of one profile and swaps it on reload.
// Readers never block; a failed reload keeps the previous scenario.
type Store struct {
	loader  *Loader
	profile string
	cur     atomic.Pointer[Scenario]

	mu        sync.Mutex
	listeners []func(*Scenario, error)
}

// NewStore loads the profile once and fails if it does not resolve.
func NewStore(loader *Loader, profile string) (*Store, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	s := &Store{loader: loader, profile: profile}
	sc, err := s.load()
	if err != nil {
		return nil, err
	}
	s.cur.Store(sc)
	return s, nil
}

// Current returns the active scenario. Callers must not modify it.
func (s *Store) Current() *Scenario { return s.cur.Load() }

// Profile returns the profile the store serves.
func (s *Store) Profile() string { return s.profile }

// OnReload registers fn to run after every reload attempt.
// err is nil when the new scenario was installed.
func (s *Store) OnReload(fn func(sc *Scenario, err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reload re-reads the files from disk and installs the result.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loader.Invalidate()
	sc, err := s.load()
	if err != nil {
		slog.Warn("Scenario reload failed, keeping previous", "profile", s.profile, "error", err)
	} else {
		s.cur.Store(sc)
		slog.Info("Scenario reloaded", "profile", s.profile, "version", sc.Version)
	}
	for _, fn := range s.listeners {
		fn(sc, err)
	}
	return err
}

// Watch starts a FileWatcher over the profile's files that reloads on change.
// The caller stops it.
func (s *Store) Watch(interval time.Duration) *FileWatcher {
	w := NewFileWatcher(s.loader.Paths().Files(s.profile), interval, func(path string) {
		slog.Debug("Scenario file changed", "path", path)
		_ = s.Reload()
	})
	w.Start()
	return w
}

func (s *Store) load() (*Scenario, error) {
	raw, err := s.loader.LoadMerged(s.profile)
	if err != nil {
		return nil, err
	}
	sc, err := Resolve(s.profile, raw)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", s.profile, err)
	}
	return sc, nil
}
