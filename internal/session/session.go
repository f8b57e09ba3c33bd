// Package session tracks whether recipebox holds a bearer token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/joshiujjwal/lab37hw/internal/logging"
	"github.com/joshiujjwal/lab37hw/internal/tokenstore"
)

// LoginFailedMessage is the only text shown to users when a login fails.
const LoginFailedMessage = "Login failed. Please check your username and password."

// ExpiredMessage is shown when the server rejects a stored token.
const ExpiredMessage = "Session expired. Please sign in again."

// ErrLoginFailed wraps every login failure.
var ErrLoginFailed = errors.New("login failed")

// TokenExchanger trades credentials for a bearer token. *api.Client
// implements it.
type TokenExchanger interface {
	ObtainToken(ctx context.Context, username, password string) (string, error)
}

// Session holds the current token. The zero token means Anonymous.
type Session struct {
	mu        sync.RWMutex
	token     string
	store     tokenstore.Store
	exchanger TokenExchanger
	logger    *slog.Logger
}

// New seeds a session from store. A store that cannot be read leaves the
// session Anonymous.
func New(store tokenstore.Store, exchanger TokenExchanger, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Session{store: store, exchanger: exchanger, logger: logger}
	if store != nil {
		token, err := store.Load()
		if err != nil {
			logger.Warn("ignoring unreadable token store", "error", err)
		}
		s.token = strings.TrimSpace(token)
	}
	return s
}

// Token returns the bearer token, or "" when Anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Login exchanges credentials for a token, persists it and adopts it. On any
// failure the session is left as it was.
func (s *Session) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrLoginFailed)
	}
	if s.exchanger == nil {
		return fmt.Errorf("%w: no token exchanger", ErrLoginFailed)
	}

	token, err := s.exchanger.ObtainToken(ctx, username, password)
	if err != nil {
		s.logger.Warn("login failed", "username", username, "error", err)
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrLoginFailed)
	}

	if s.store != nil {
		if err := s.store.Save(token); err != nil {
			s.logger.Warn("persist token failed", "error", err)
		}
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.logger.Info("logged in", "username", username)
	return nil
}

// Logout forgets the token in memory and on disk. It never fails.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			s.logger.Warn("clear token failed", "error", err)
		}
	}
	s.logger.Info("logged out")
}

// Expire logs out after the server rejected token. A token that was already
// replaced by a newer login is left alone.
func (s *Session) Expire(token string) bool {
	s.mu.RLock()
	current := s.token
	s.mu.RUnlock()
	if current == "" || current != token {
		return false
	}
	s.logger.Warn("session expired")
	s.Logout()
	return true
}
