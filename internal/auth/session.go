package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/certverify-labs/certverify/internal/cache"
	"github.com/certverify-labs/certverify/internal/domain"
)

const sessionKey = "backend_session"

// Storage persists the session across restarts. Implemented by the
// postgres cache.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SessionStore is the single process-wide holder of the gateway's
// session with the verification backend. It has an explicit lifecycle:
// Hydrate on startup, Clear on logout or backend 401. Feature code goes
// through its accessors and never reads storage directly.
type SessionStore struct {
	mu      sync.RWMutex
	session *domain.Session

	storage Storage
	ttl     time.Duration
	logger  *slog.Logger
}

func NewSessionStore(storage Storage, ttl time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		storage: storage,
		ttl:     ttl,
		logger:  logger,
	}
}

// Hydrate loads a previously persisted session. A missing or expired
// entry is not an error: the store simply starts empty.
func (s *SessionStore) Hydrate(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	raw, err := s.storage.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) || errors.Is(err, cache.ErrCacheExpired) {
			return nil
		}
		return err
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		s.logger.Warn("discarding unreadable persisted session", "error", err)
		return nil
	}
	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		return nil
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()
	return nil
}

// Set replaces the active session and persists it.
func (s *SessionStore) Set(ctx context.Context, session domain.Session) error {
	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()

	if s.storage == nil {
		return nil
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, sessionKey, raw, s.ttl)
}

// Clear drops the session from memory and storage. Called on logout and
// whenever the backend answers 401.
func (s *SessionStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.Delete(ctx, sessionKey); err != nil {
			s.logger.Warn("failed to delete persisted session", "error", err)
		}
	}
}

// Current returns a copy of the active session, or nil when logged out.
func (s *SessionStore) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}
	session := *s.session
	return &session
}

// Token returns the bearer token for backend calls, empty when no
// session is active. Satisfies the remote client's TokenSource.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return ""
	}
	return s.session.Token
}
