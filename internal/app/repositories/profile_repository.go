package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
)

const profileColumns = "id, email, password_hash, full_name, role, avatar_url, handicap, specialty, location, created_at, updated_at"

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.PasswordHash,
		&p.FullName,
		&p.Role,
		&p.AvatarURL,
		&p.Handicap,
		&p.Specialty,
		&p.Location,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE id = $1", profileColumns)

	profile, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error querying profile: %w", err)
	}
	return profile, nil
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE email = $1", profileColumns)

	profile, err := scanProfile(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error querying profile: %w", err)
	}
	return profile, nil
}

// EmailExists checks whether a profile with the email already exists
func (r *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM profiles WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// Exists checks whether a profile with the id exists
func (r *ProfileRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking profile existence: %w", err)
	}
	return exists, nil
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) (int64, error) {
	query := `
		INSERT INTO profiles (email, password_hash, full_name, role, avatar_url, handicap, specialty, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		profile.Email,
		profile.PasswordHash,
		profile.FullName,
		profile.Role,
		profile.AvatarURL,
		profile.Handicap,
		profile.Specialty,
		profile.Location,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("error creating profile: %w", err)
	}

	return profile.ID, nil
}

// Update updates the editable profile fields
func (r *ProfileRepository) Update(ctx context.Context, id int64, fullName string, handicap *float64) error {
	query := squirrel.Update("profiles").
		Set("full_name", fullName).
		Set("handicap", handicap).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// UpdateAvatar sets the avatar URL for a profile
func (r *ProfileRepository) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	result, err := r.db.Exec(ctx,
		"UPDATE profiles SET avatar_url = $1, updated_at = NOW() WHERE id = $2", avatarURL, id)
	if err != nil {
		return fmt.Errorf("error updating avatar: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// ListByRole retrieves all profiles with the given role
func (r *ProfileRepository) ListByRole(ctx context.Context, role models.Role) ([]models.Profile, error) {
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE role = $1 ORDER BY full_name", profileColumns)

	rows, err := r.db.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("error querying profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning profile row: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return profiles, nil
}
