package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fringe-app/fringe/internal/app/models"
)

// VideoRepository handles database operations for swing video reviews
type VideoRepository struct {
	db *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(db *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video review with status pending
func (r *VideoRepository) Create(ctx context.Context, video *models.VideoReview) (int64, error) {
	query := `
		INSERT INTO video_reviews (student_id, coach_id, title, video_url, thumbnail_url, duration, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		video.StudentID,
		video.CoachID,
		video.Title,
		video.VideoURL,
		video.ThumbnailURL,
		video.Duration,
		models.VideoPending,
	).Scan(&video.ID, &video.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("error creating video review: %w", err)
	}

	video.Status = models.VideoPending
	return video.ID, nil
}

// ListByStudent retrieves all video reviews submitted by a student with the
// coach joined, newest first.
func (r *VideoRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.VideoReview, error) {
	query := `
		SELECT
			v.id, v.student_id, v.coach_id, v.title, v.video_url, v.thumbnail_url,
			v.duration, v.status, v.has_feedback, v.created_at,
			u.id, u.email, u.full_name, u.role, u.avatar_url
		FROM video_reviews v
		JOIN profiles u ON u.id = v.coach_id
		WHERE v.student_id = $1
		ORDER BY v.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error querying video reviews: %w", err)
	}
	defer rows.Close()

	videos := []models.VideoReview{}
	for rows.Next() {
		var video models.VideoReview
		var coach models.Profile
		err := rows.Scan(
			&video.ID,
			&video.StudentID,
			&video.CoachID,
			&video.Title,
			&video.VideoURL,
			&video.ThumbnailURL,
			&video.Duration,
			&video.Status,
			&video.HasFeedback,
			&video.CreatedAt,
			&coach.ID,
			&coach.Email,
			&coach.FullName,
			&coach.Role,
			&coach.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning video review row: %w", err)
		}
		video.Coach = &coach
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video review rows: %w", err)
	}

	return videos, nil
}
