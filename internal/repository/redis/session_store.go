package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/repository"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type sessionStore struct {
	client *redis.Client
}

// NewSessionStore returns a Redis-backed credential store. Entries expire
// with the session so logout and TTL agree on lifetime.
func NewSessionStore(client *redis.Client) repository.SessionStore {
	return &sessionStore{client: client}
}

func (s *sessionStore) Save(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+session.Token, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *sessionStore) Get(ctx context.Context, tokenHash string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+tokenHash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *sessionStore) Delete(ctx context.Context, tokenHash string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+tokenHash).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
