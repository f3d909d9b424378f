package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository *ProfileRepository
	PostRepository    *PostRepository
	LikeRepository    *LikeRepository
	CommentRepository *CommentRepository
	BookingRepository *BookingRepository
	ChatRepository    *ChatRepository
	VideoRepository   *VideoRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ProfileRepository: NewProfileRepository(db),
		PostRepository:    NewPostRepository(db),
		LikeRepository:    NewLikeRepository(db),
		CommentRepository: NewCommentRepository(db),
		BookingRepository: NewBookingRepository(db),
		ChatRepository:    NewChatRepository(db),
		VideoRepository:   NewVideoRepository(db),
	}
}
