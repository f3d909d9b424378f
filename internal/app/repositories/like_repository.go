package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fringe-app/fringe/internal/pkg/apperrors"
	"github.com/fringe-app/fringe/internal/pkg/dberrors"
)

// LikeRepository handles database operations for likes
type LikeRepository struct {
	db *pgxpool.Pool
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a like for a (post, user) pair. The store enforces at most
// one like per pair.
func (r *LikeRepository) Create(ctx context.Context, postID, userID int64) error {
	query := squirrel.Insert("likes").
		Columns("post_id", "user_id").
		Values(postID, userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("post already liked")
		}
		return fmt.Errorf("error creating like: %w", err)
	}
	return nil
}

// Delete removes a like for a (post, user) pair
func (r *LikeRepository) Delete(ctx context.Context, postID, userID int64) error {
	query := squirrel.Delete("likes").
		Where("post_id = ?", postID).
		Where("user_id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting like: %w", err)
	}
	return nil
}

// ListPostIDsByUser retrieves the ids of all posts the user has liked
func (r *LikeRepository) ListPostIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, "SELECT post_id FROM likes WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("error querying likes: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning like row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating like rows: %w", err)
	}

	return ids, nil
}
