// Package prefs keeps the user's lab preferences (narration audio, language
// and TTS voice) across restarts. Experiment sessions are never stored.
package prefs

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/teslashibe/lenslab/pkg/narration"
)

// AppName is the gdata application directory.
const AppName = "lenslab"

const (
	prefsObject   = "prefs"
	prefsProperty = "global"
)

// Prefs are the persisted preferences.
type Prefs struct {
	AudioEnabled bool               `yaml:"audioEnabled"`
	Language     narration.Language `yaml:"language"`
	Voice        string             `yaml:"voice,omitempty"`
}

// Defaults returns the preferences of a fresh install.
func Defaults() Prefs {
	return Prefs{
		AudioEnabled: true,
		Language:     narration.DefaultLanguage,
	}
}

// Store loads and saves Prefs. A store without a gdata manager keeps the
// preferences in memory only.
type Store struct {
	mu     sync.Mutex
	data   *gdata.Manager
	prefs  Prefs
	logger *slog.Logger
}

// Open opens the platform data directory for appName. If it cannot be
// opened the returned store works in memory and the error is returned
// alongside it.
func Open(appName string, logger *slog.Logger) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	s := NewStore(m, logger)
	if err != nil {
		s.logger.Warn("preference storage unavailable, keeping them in memory", "error", err)
		return s, fmt.Errorf("prefs: open storage: %w", err)
	}
	return s, nil
}

// NewStore wraps m, which may be nil, and loads the saved preferences.
func NewStore(m *gdata.Manager, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		data:   m,
		prefs:  Defaults(),
		logger: logger.With("component", "prefs"),
	}
	if err := s.Load(); err != nil {
		s.logger.Warn("failed to load preferences, using defaults", "error", err)
	}
	return s
}

// Persistent reports whether saves reach disk.
func (s *Store) Persistent() bool {
	return s.data != nil
}

// Load re-reads the saved preferences. Missing or unreadable data leaves
// the defaults in place.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = Defaults()
	if s.data == nil || !s.data.ObjectPropExists(prefsObject, prefsProperty) {
		return nil
	}

	raw, err := s.data.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return fmt.Errorf("prefs: load: %w", err)
	}

	loaded := Defaults()
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("prefs: decode: %w", err)
	}
	if _, err := narration.CatalogFor(loaded.Language); err != nil {
		loaded.Language = narration.DefaultLanguage
	}
	s.prefs = loaded
	return nil
}

// Get returns the current preferences.
func (s *Store) Get() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Update applies fn to the preferences and saves the result.
func (s *Store) Update(fn func(*Prefs)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs
	fn(&next)
	s.prefs = next

	if s.data == nil {
		return nil
	}

	raw, err := yaml.Marshal(next)
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	if err := s.data.SaveObjectProp(prefsObject, prefsProperty, raw); err != nil {
		return fmt.Errorf("prefs: save: %w", err)
	}
	s.logger.Debug("preferences saved", "audio", next.AudioEnabled, "language", next.Language)
	return nil
}
