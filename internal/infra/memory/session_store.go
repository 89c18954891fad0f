package memory

import (
	"context"
	"sync"
	"time"

	"arena-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// SessionStore is an in-memory stand-in for the identity provider's session table.
type SessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]session
}

type session struct {
	caller    domain.Caller
	expiresAt time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl. A non-positive ttl never expires.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]session),
	}
}

// CreateSession signs caller in and returns the session token.
func (s *SessionStore) CreateSession(_ context.Context, caller domain.Caller) (string, error) {
	token := uuid.NewString()
	entry := session{caller: caller}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.sessions[token] = entry
	s.mu.Unlock()
	return token, nil
}

func (s *SessionStore) LookupSession(_ context.Context, token string) (domain.Caller, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return domain.Caller{}, domain.ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return domain.Caller{}, domain.ErrSessionNotFound
	}
	return entry.caller, nil
}

func (s *SessionStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
