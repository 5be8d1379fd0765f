// Package memory holds in-process fallback implementations, used when the
// backing service is unavailable and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/repository"
)

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() repository.SessionStore {
	return &sessionStore{sessions: make(map[string]domain.Session)}
}

func (s *sessionStore) Save(_ context.Context, session *domain.Session) error {
	if session.IsExpired() {
		return domain.ErrSessionExpired
	}
	s.mu.Lock()
	s.sessions[session.Token] = *session
	s.mu.Unlock()
	return nil
}

func (s *sessionStore) Get(_ context.Context, tokenHash string) (*domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[tokenHash]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, domain.ErrSessionExpired
	}
	return &session, nil
}

func (s *sessionStore) Delete(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	delete(s.sessions, tokenHash)
	s.mu.Unlock()
	return nil
}
