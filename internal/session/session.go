// Package session is the single source of truth for who is logged in and the
// credentials used to prove it. The store is a synchronous value holder with
// no pending or error states; persistence happens through subscribers that
// receive a snapshot after every mutation.
package session

import (
	"sync"

	"github.com/podsuite/console/internal/theme"
)

// User is the profile record supplied by the upstream backend. It is stored
// verbatim and only shallow-merged on profile edits.
type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	OAuthProvider  string `json:"oauth_provider,omitempty"`
	PreferredTheme string `json:"preferred_theme,omitempty"`
	IsVerified     bool   `json:"is_verified"`
	CreatedAt      string `json:"created_at,omitempty"`
	LastLogin      string `json:"last_login,omitempty"`
}

// UserUpdate carries a partial profile edit. Nil fields are left untouched.
type UserUpdate struct {
	Username       *string `json:"username,omitempty"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	PreferredTheme *string `json:"preferred_theme,omitempty"`
}

// Snapshot is the persisted subset of the session, serialized under the
// auth-storage key on every mutation
type Snapshot struct {
	User            *User  `json:"user"`
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// Subscriber receives a snapshot after every mutation
type Subscriber func(Snapshot)

// Store holds the current session. All mutations are single synchronous
// assignments under the lock; readers never observe a partial update.
type Store struct {
	mu            sync.RWMutex
	user          *User
	accessToken   string
	refreshToken  string
	authenticated bool

	themes      *theme.Store
	subscribers []Subscriber
}

// NewStore creates an empty, logged-out session store. The theme store may
// be nil when theme handling is not wired (tests).
func NewStore(themes *theme.Store) *Store {
	return &Store{themes: themes}
}

// Subscribe registers a subscriber notified after every mutation.
// Not safe to call concurrently with mutations; wire subscribers at startup.
func (s *Store) Subscribe(fn Subscriber) {
	s.subscribers = append(s.subscribers, fn)
}

// Login replaces the whole session and marks it authenticated.
// The theme preference is hydrated from the user's profile.
func (s *Store) Login(user User, accessToken, refreshToken string) {
	if s.themes != nil {
		s.themes.HydrateFromUser(user.PreferredTheme)
	}
	s.mu.Lock()
	u := user
	s.user = &u
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.authenticated = true
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Logout clears the session. Calling it while already logged out leaves the
// (already empty) fields unchanged. The theme resets to its default.
func (s *Store) Logout() {
	if s.themes != nil {
		s.themes.Reset()
	}
	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.authenticated = false
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetTokens replaces only the token pair, leaving the user and the
// authenticated flag untouched. Used by the refresh protocol.
func (s *Store) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetUser replaces the stored user record
func (s *Store) SetUser(user User) {
	s.mu.Lock()
	u := user
	s.user = &u
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// UpdateUser shallow-merges the given fields into the current user.
// A no-op when nobody is logged in.
func (s *Store) UpdateUser(update UserUpdate) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	if update.Username != nil {
		s.user.Username = *update.Username
	}
	if update.FirstName != nil {
		s.user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		s.user.LastName = *update.LastName
	}
	if update.AvatarURL != nil {
		s.user.AvatarURL = *update.AvatarURL
	}
	if update.PreferredTheme != nil {
		s.user.PreferredTheme = *update.PreferredTheme
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Restore hydrates the store from a persisted snapshot. The authenticated
// flag is re-derived: a snapshot missing the user or the access token is
// restored as logged out. Subscribers are not notified.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.User != nil {
		u := *snap.User
		s.user = &u
	} else {
		s.user = nil
	}
	s.accessToken = snap.AccessToken
	s.refreshToken = snap.RefreshToken
	s.authenticated = snap.IsAuthenticated && snap.User != nil && snap.AccessToken != ""
	if s.themes != nil && s.authenticated {
		s.themes.HydrateFromUser(snap.User.PreferredTheme)
	}
}

// Authenticated reports whether a login has happened and no logout since
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// AccessToken returns the current access token, or "" when absent
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token, or "" when absent
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns a copy of the current user, or nil when logged out
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Snapshot returns the persisted subset of the current session
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		AccessToken:     s.accessToken,
		RefreshToken:    s.refreshToken,
		IsAuthenticated: s.authenticated,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// notify runs outside the lock so subscribers can read the store freely
func (s *Store) notify(snap Snapshot) {
	for _, fn := range s.subscribers {
		fn(snap)
	}
}
