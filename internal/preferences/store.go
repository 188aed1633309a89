package preferences

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSaveDelay is how long SaveLater waits for further changes.
const DefaultSaveDelay = 2 * time.Second

// Store persists Preferences as a YAML file.
type Store struct {
	path  string
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *Preferences

	// saveMu orders writes so an older value never replaces a newer one.
	saveMu sync.Mutex
}

// NewStore creates a Store for path and ensures its directory exists.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	return &Store{path: path, delay: DefaultSaveDelay}, nil
}

// Load returns a copy of the pending preferences if a save is scheduled,
// otherwise it reads the file. A missing file yields empty preferences.
func (s *Store) Load() (*Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

// current must be called with s.mu held.
func (s *Store) current() (*Preferences, error) {
	if s.pending != nil {
		p := *s.pending
		return &p, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Preferences{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return &p, nil
}

// Update applies fn to the latest preferences and schedules a save.
// Concurrent updates are applied one after another, so none is lost.
// fn must replace slices and maps rather than modify them in place.
func (s *Store) Update(fn func(p *Preferences)) (*Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.current()
	if err != nil {
		return nil, err
	}
	fn(p)
	s.schedule(p)

	out := *p
	return &out, nil
}

// Save writes p through a temp file and rename so readers never see a
// partial file.
func (s *Store) Save(p *Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}

// SaveLater schedules a save of p. Calls within the delay window collapse
// into one write of the latest value.
func (s *Store) SaveLater(p *Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule(p)
}

// schedule must be called with s.mu held.
func (s *Store) schedule(p *Preferences) {
	s.pending = p
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if err := s.Flush(); err != nil {
			log.Printf("⚠️ Failed to save preferences: %v", err)
		}
	})
}

// Flush writes any pending preferences immediately. The pending value stays
// visible to Load until the write completes.
func (s *Store) Flush() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	p := s.pending
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if p == nil {
		return nil
	}
	if err := s.Save(p); err != nil {
		return err
	}

	s.mu.Lock()
	if s.pending == p {
		s.pending = nil
	}
	s.mu.Unlock()
	return nil
}
