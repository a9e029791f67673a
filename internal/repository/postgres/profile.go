package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `id, name, username, birthday, avatar, sizes, interests, dislikes, created_at, updated_at`

func scanProfile(row *sql.Row) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	var sizes []byte
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Username,
		&p.Birthday,
		&p.Avatar,
		&sizes,
		pq.Array(&p.Interests),
		pq.Array(&p.Dislikes),
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(sizes) > 0 {
		if err := json.Unmarshal(sizes, &p.Sizes); err != nil {
			return nil, fmt.Errorf("failed to decode profile sizes: %w", err)
		}
	}
	if p.Sizes == nil {
		p.Sizes = []models.SizeEntry{}
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	if p.Dislikes == nil {
		p.Dislikes = []string{}
	}
	return p, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile by ID: %w", err)
	}

	return p, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE username = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile by username: %w", err)
	}

	return p, nil
}

func (r *profileRepository) Ensure(ctx context.Context, id, name, username string) (*models.UserProfile, error) {
	p, err := r.GetByID(ctx, id)
	if err == nil {
		return p, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}

	// First authenticated session for this actor: provision the
	// default row.
	query := `
		INSERT INTO profiles (id, name, username, birthday, avatar, sizes, interests, dislikes, created_at, updated_at)
		VALUES ($1, $2, $3, '', '', '[]', '{}', '{}', $4, $4)
		RETURNING ` + profileColumns

	now := time.Now()
	p, err = scanProfile(r.db.QueryRowContext(ctx, query, id, name, username, now))
	if err != nil {
		return nil, fmt.Errorf("failed to provision profile: %w", err)
	}

	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	query := `
		UPDATE profiles
		SET name = $2, username = $3, birthday = $4, avatar = $5,
		    sizes = $6, interests = $7, dislikes = $8, updated_at = $9
		WHERE id = $1
		RETURNING updated_at`

	sizes, err := json.Marshal(profile.Sizes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile sizes: %w", err)
	}

	profile.UpdatedAt = time.Now()

	err = r.db.QueryRowContext(ctx, query,
		profile.ID,
		profile.Name,
		profile.Username,
		profile.Birthday,
		profile.Avatar,
		sizes,
		pq.Array(profile.Interests),
		pq.Array(profile.Dislikes),
		profile.UpdatedAt,
	).Scan(&profile.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}
