package models

import "time"

// Post defines the post model based on the 'posts' table.
// Likes, Comments and LikedByViewer are derived per load; they are never
// written back to the store.
type Post struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	ImageURLs []string  `json:"imageUrls" db:"image_urls"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	User          *Profile `json:"user,omitempty"` // Relation, no db tag
	Likes         int      `json:"likes"`
	Comments      int      `json:"comments"`
	LikedByViewer bool     `json:"likedByViewer"`
}

// Like defines a (post, profile) like pair based on the 'likes' table.
// At most one row exists per pair.
type Like struct {
	PostID    int64     `json:"postId" db:"post_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Comment defines the comment model based on the 'comments' table
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	User *Profile `json:"user,omitempty"` // Relation, no db tag
}
