package feed

import (
	"context"

	"github.com/fringe-app/fringe/internal/app/models"
)

// Store is the slice of the table store the feed needs. The production
// implementation sits on the post/like/comment/profile repositories.
type Store interface {
	// ListPosts returns all posts with author and aggregate counts,
	// newest first
	ListPosts(ctx context.Context) ([]models.Post, error)

	// ListLikedPostIDs returns the ids of every post the user has liked
	ListLikedPostIDs(ctx context.Context, userID int64) ([]int64, error)

	// CreateLike records a like for a (post, user) pair
	CreateLike(ctx context.Context, postID, userID int64) error

	// DeleteLike removes a like for a (post, user) pair
	DeleteLike(ctx context.Context, postID, userID int64) error

	// ListComments returns a post's comments with authors, newest first
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)

	// CreateComment inserts a comment
	CreateComment(ctx context.Context, comment *models.Comment) (int64, error)

	// CreatePost inserts a post
	CreatePost(ctx context.Context, post *models.Post) (int64, error)

	// ProfileExists reports whether a profile row exists for the user
	ProfileExists(ctx context.Context, userID int64) (bool, error)
}
