// Package session is the single source of truth for "who is logged in".
// The store hands out immutable snapshots; the persisted token survives
// restarts while the in-memory session lives for one process.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/soumyendra98/GymApp/internal/cli/auth"
	"github.com/soumyendra98/GymApp/internal/models"
)

// Status is the session lifecycle state
type Status int

const (
	// StatusLoading means Restore has not completed yet; callers must treat
	// the session as neither authorized nor unauthorized
	StatusLoading Status = iota
	StatusAnonymous
	StatusAuthenticated
)

// Session is an immutable snapshot of the current session state
type Session struct {
	Status Status
	Token  string
	User   *models.User
}

// Authenticated reports whether the session holds a verified user.
// Invariant: true iff Token != "" and User != nil. A snapshot claiming
// authenticated status without both is treated as not authenticated.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Token != "" && s.User != nil
}

// Loading reports whether the session is still being restored
func (s Session) Loading() bool {
	return s.Status == StatusLoading
}

// Gateway is the API surface the store needs for session restore
type Gateway interface {
	SetToken(token string)
	Me(ctx context.Context) (*models.User, error)
}

// Store holds the current session and coordinates the persisted token
type Store struct {
	mu      sync.RWMutex
	tokens  auth.TokenStore
	gateway Gateway
	current Session
}

// NewStore creates a store in the loading state. Call Restore once at startup.
func NewStore(tokens auth.TokenStore, gateway Gateway) *Store {
	return &Store{
		tokens:  tokens,
		gateway: gateway,
		current: Session{Status: StatusLoading},
	}
}

// Current returns a snapshot of the session
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) set(session Session) {
	s.mu.Lock()
	s.current = session
	s.mu.Unlock()
}

// Restore rebuilds the session from the persisted token. A missing token
// leaves the session anonymous. A token that fails verification (network,
// 401, malformed response) is deleted and silently downgrades to anonymous:
// an expired token on startup is an expected condition, not an error. There
// is no retry; a failed restore is terminal for this process start.
func (s *Store) Restore(ctx context.Context) Session {
	token, err := s.tokens.LoadToken()
	if err != nil || token == "" {
		if err != nil && !errors.Is(err, auth.ErrNoToken) {
			// Unreadable storage is treated like no token at all
			_ = s.tokens.DeleteToken()
		}
		s.gateway.SetToken("")
		s.set(Session{Status: StatusAnonymous})
		return s.Current()
	}

	s.gateway.SetToken(token)
	user, err := s.gateway.Me(ctx)
	if err != nil {
		_ = s.tokens.DeleteToken()
		s.gateway.SetToken("")
		s.set(Session{Status: StatusAnonymous})
		return s.Current()
	}

	s.set(Session{Status: StatusAuthenticated, Token: token, User: user})
	return s.Current()
}

// ErrIncompleteLogin is returned when Login is called without both a user
// and a token. The session only ever becomes authenticated with both.
var ErrIncompleteLogin = errors.New("login requires both a user and a token")

// Login persists the token and marks the session authenticated. A nil user
// or empty token is rejected and leaves the session unchanged.
func (s *Store) Login(user *models.User, token string) error {
	if user == nil || token == "" {
		return ErrIncompleteLogin
	}
	if err := s.tokens.SaveToken(token); err != nil {
		return err
	}
	s.gateway.SetToken(token)
	s.set(Session{Status: StatusAuthenticated, Token: token, User: user})
	return nil
}

// Logout deletes the persisted token and marks the session anonymous.
// Logging out twice is the same as logging out once.
func (s *Store) Logout() error {
	if err := s.tokens.DeleteToken(); err != nil {
		return err
	}
	s.gateway.SetToken("")
	s.set(Session{Status: StatusAnonymous})
	return nil
}
