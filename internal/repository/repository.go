// Package repository declares the collaborator interfaces the core consumes.
// Implementations live in the postgres, redis and memory subpackages.
package repository

import (
	"context"

	"github.com/lwindle/MeetMoment/internal/domain"
)

// ProfileQuery narrows a profile source listing. Results are sorted by
// recency, newest first.
type ProfileQuery struct {
	Gender int
	Limit  int
	Offset int
}

// ProfileSource lists candidate profiles for the recommendation feed and
// reports the total number of rows matching the query.
type ProfileSource interface {
	ListProfiles(ctx context.Context, q ProfileQuery) ([]domain.Profile, int, error)
}

// InterestSource resolves interest tags per profile. A failure for one
// profile must not fail the page it belongs to.
type InterestSource interface {
	ListInterests(ctx context.Context, profileID uint) ([]string, error)
}

// PersonaSource lists the conversational personas available for chat.
type PersonaSource interface {
	ListPersonas(ctx context.Context) ([]domain.Persona, error)
}

// UserRepository stores authenticated accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	UpdateOnlineStatus(ctx context.Context, id uint, online bool) error
	SaveInterests(ctx context.Context, userID uint, tags []string) error
}

// SessionStore keeps issued credentials keyed by token hash.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, tokenHash string) (*domain.Session, error)
	Delete(ctx context.Context, tokenHash string) error
}
