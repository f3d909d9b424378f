package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fringe-app/fringe/internal/app/models"
)

// PostRepository handles database operations for posts
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// List retrieves all posts with their author and aggregate like/comment
// counts, newest first. Equal timestamps fall back to id so the order is
// stable across loads.
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	query := `
		SELECT
			p.id, p.user_id, p.content, p.image_urls, p.created_at,
			u.id, u.email, u.full_name, u.role, u.avatar_url,
			(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
		FROM posts p
		JOIN profiles u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		var user models.Profile
		err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.Content,
			&post.ImageURLs,
			&post.CreatedAt,
			&user.ID,
			&user.Email,
			&user.FullName,
			&user.Role,
			&user.AvatarURL,
			&post.Likes,
			&post.Comments,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning post row: %w", err)
		}
		post.User = &user
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (user_id, content, image_urls)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	// Empty image list is stored as NULL, matching reads
	var imageURLs interface{}
	if len(post.ImageURLs) > 0 {
		imageURLs = post.ImageURLs
	}

	err := r.db.QueryRow(ctx, query, post.UserID, post.Content, imageURLs).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	return post.ID, nil
}
