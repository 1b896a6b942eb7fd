// Package settings holds the user's display preferences (currency, language,
// date format) in a JSON file and notifies subscribers when they change, so
// open views reformat immediately.
package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	DefaultCurrency   = "USD"
	DefaultLanguage   = "es"
	DefaultDateFormat = "DD/MM/YYYY"
)

// Settings are the persisted display preferences.
type Settings struct {
	Currency   string `json:"currency"`
	Language   string `json:"language"`
	DateFormat string `json:"dateFormat"`
}

// Defaults returns the out-of-the-box preferences.
func Defaults() Settings {
	return Settings{
		Currency:   DefaultCurrency,
		Language:   DefaultLanguage,
		DateFormat: DefaultDateFormat,
	}
}

// Store persists settings and broadcasts changes.
type Store struct {
	logger      *slog.Logger
	subscribers map[int]chan Settings
	path        string
	current     Settings
	nextID      int
	mu          sync.RWMutex
}

// NewStore loads settings from path, falling back to defaults when the file
// is missing or unreadable. Unknown values are replaced field by field so a
// partially valid file keeps what it can.
func NewStore(path string) *Store {
	s := &Store{
		path:        path,
		current:     Defaults(),
		subscribers: make(map[int]chan Settings),
		logger:      slog.Default().With("component", "settings"),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.Warn("corrupt settings file, using defaults", "path", path)
		return s
	}
	s.current = sanitize(loaded)
	return s
}

// DefaultPath returns the settings file location under the XDG config dir.
func DefaultPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}

	dir := filepath.Join(configDir, "gastos")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "app-settings.json"), nil
}

// Get returns the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update persists new settings and notifies subscribers. Invalid fields are
// replaced with defaults rather than rejected.
func (s *Store) Update(next Settings) error {
	next = sanitize(next)

	s.mu.Lock()
	if next == s.current {
		s.mu.Unlock()
		return nil
	}
	s.current = next

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to save settings: %w", err)
	}

	channels := make([]chan Settings, 0, len(s.subscribers))
	for _, ch := range s.subscribers {
		channels = append(channels, ch)
	}
	s.mu.Unlock()

	for _, ch := range channels {
		// Non-blocking: a subscriber that stopped draining only misses
		// intermediate values, never deadlocks Update.
		select {
		case ch <- next:
		default:
		}
	}
	return nil
}

// Set updates a single field by name: currency, language or dateFormat.
func (s *Store) Set(field, value string) error {
	next := s.Get()
	switch field {
	case "currency":
		if !ValidCurrency(value) {
			return fmt.Errorf("unknown currency %q", value)
		}
		next.Currency = value
	case "language":
		if !ValidLanguage(value) {
			return fmt.Errorf("unknown language %q", value)
		}
		next.Language = value
	case "dateFormat":
		if !ValidDateFormat(value) {
			return fmt.Errorf("unknown date format %q", value)
		}
		next.DateFormat = value
	default:
		return fmt.Errorf("unknown setting %q", field)
	}
	return s.Update(next)
}

// Subscribe returns a channel receiving every settings change and a cancel
// function that must be called when done.
func (s *Store) Subscribe() (<-chan Settings, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Settings, 4)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(existing)
		}
	}
	return ch, cancel
}

func sanitize(in Settings) Settings {
	out := in
	if !ValidCurrency(out.Currency) {
		out.Currency = DefaultCurrency
	}
	if !ValidLanguage(out.Language) {
		out.Language = DefaultLanguage
	}
	if !ValidDateFormat(out.DateFormat) {
		out.DateFormat = DefaultDateFormat
	}
	return out
}
