// Package theme holds the seller-facing theme preference.
// The active theme follows the logged-in user: login hydrates it from the
// profile's preferred theme, logout resets it to the default.
package theme

import (
	"strings"
	"sync"
)

// DefaultID is the theme applied when nobody is logged in
const DefaultID = "5"

// Names maps theme IDs to their display names
var Names = map[string]string{
	"1":  "Dark + Amber",
	"2":  "Warm & Earthy",
	"3":  "Minimal B&W",
	"4":  "Soft Pastels",
	"5":  "Bold E-commerce",
	"6":  "Retro / Vintage",
	"7":  "Glassmorphism",
	"8":  "Monochrome + Green",
	"9":  "Forest / Nature",
	"10": "Neon / Tech",
}

// IsValid reports whether s names a known theme
func IsValid(s string) bool {
	_, ok := Names[s]
	return ok
}

// Store holds the current theme preference
type Store struct {
	mu      sync.RWMutex
	current string
}

// NewStore creates a theme store set to the default theme
func NewStore() *Store {
	return &Store{current: DefaultID}
}

// Current returns the active theme ID
func (s *Store) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set switches to the given theme; unknown IDs are ignored
func (s *Store) Set(id string) {
	if !IsValid(id) {
		return
	}
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
}

// HydrateFromUser applies a user's preferred theme, falling back to the
// default when the preference is empty or unknown
func (s *Store) HydrateFromUser(preferred string) {
	id := strings.TrimSpace(preferred)
	if !IsValid(id) {
		id = DefaultID
	}
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
}

// Reset restores the default theme
func (s *Store) Reset() {
	s.mu.Lock()
	s.current = DefaultID
	s.mu.Unlock()
}
