package models

import "time"

// VideoReview defines a swing video sent for coach review based on the
// 'video_reviews' table
type VideoReview struct {
	ID           int64       `json:"id" db:"id"`
	StudentID    int64       `json:"studentId" db:"student_id"`
	CoachID      int64       `json:"coachId" db:"coach_id"`
	Title        string      `json:"title" db:"title"`
	VideoURL     string      `json:"videoUrl" db:"video_url"`
	ThumbnailURL string      `json:"thumbnailUrl" db:"thumbnail_url"`
	Duration     int         `json:"duration" db:"duration"` // seconds
	Status       VideoStatus `json:"status" db:"status"`
	HasFeedback  bool        `json:"hasFeedback" db:"has_feedback"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`

	Coach *Profile `json:"coach,omitempty"` // Relation, no db tag
}
