package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/repository"
)

const maxPersonas = 20

type ProfileSource struct {
	db *sqlx.DB
}

// NewProfileSource returns the Postgres-backed profile, interest and persona
// source used by the feed and the persona registry.
func NewProfileSource(db *sqlx.DB) *ProfileSource {
	return &ProfileSource{db: db}
}

var _ repository.ProfileSource = (*ProfileSource)(nil)
var _ repository.InterestSource = (*ProfileSource)(nil)
var _ repository.PersonaSource = (*ProfileSource)(nil)

func (r *ProfileSource) ListProfiles(ctx context.Context, q repository.ProfileQuery) ([]domain.Profile, int, error) {
	var profiles []domain.Profile
	query := `
		SELECT id, nickname, gender, age, city, occupation, bio, avatar,
		       verified, is_online, ai_score, is_ai
		FROM users
		WHERE gender = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &profiles, query, q.Gender, q.Limit, q.Offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users WHERE gender = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, q.Gender); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	return profiles, total, nil
}

func (r *ProfileSource) ListInterests(ctx context.Context, profileID uint) ([]string, error) {
	var tags []string
	query := `SELECT tag FROM user_interests WHERE user_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &tags, query, profileID); err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	return tags, nil
}

func (r *ProfileSource) ListPersonas(ctx context.Context) ([]domain.Persona, error) {
	var personas []domain.Persona
	query := `
		SELECT id, nickname, age, city, occupation, bio, avatar, ai_score, is_ai
		FROM users
		WHERE is_ai = TRUE
		ORDER BY ai_score DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &personas, query, maxPersonas); err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}

	for i := range personas {
		tags, err := r.ListInterests(ctx, personas[i].ID)
		if err != nil {
			// A missing tag list does not invalidate the persona.
			continue
		}
		personas[i].Interests = tags
	}

	return personas, nil
}
