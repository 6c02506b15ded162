// Package auth holds the client's authentication context: who is logged in
// and the bearer token proving it. The context is populated at login,
// passed explicitly to whatever needs it, and cleared on logout or when the
// backend answers 401. Nothing reads credentials from ambient process
// state.
package auth

import (
	"sync"

	"github.com/anil29717/DeepDoc/internal/config"
	"github.com/anil29717/DeepDoc/internal/models"
)

// Session is the authentication context for one CLI invocation.
type Session struct {
	mu    sync.Mutex
	token string
	user  *models.User
}

// Load restores the session from the keyring and config file. An
// unauthenticated session (no token) is not an error.
func Load(cfg *config.Config) (*Session, error) {
	token, err := RetrieveToken()
	if err != nil {
		return nil, err
	}
	return &Session{token: token, user: cfg.User}, nil
}

// Token returns the bearer token, or "" when not logged in.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the logged-in account, or nil.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the logged-in user has admin rights.
func (s *Session) IsAdmin() bool {
	u := s.User()
	return u != nil && u.IsAdmin
}

// Establish records a successful login: the token goes to the keyring, the
// account to the config file.
func (s *Session) Establish(token string, user models.User, cfg *config.Config) error {
	if err := StoreToken(token); err != nil {
		return err
	}
	cfg.User = &user
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Clear wipes the session, both in memory and on disk. Safe to call when
// already logged out.
func (s *Session) Clear(cfg *config.Config) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := DeleteToken(); err != nil {
		return err
	}
	cfg.User = nil
	return config.SaveConfig(cfg)
}
