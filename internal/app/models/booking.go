package models

import "time"

// Booking defines the lesson booking model based on the 'bookings' table
type Booking struct {
	ID         int64         `json:"id" db:"id"`
	StudentID  int64         `json:"studentId" db:"student_id"`
	CoachID    int64         `json:"coachId" db:"coach_id"`
	Date       time.Time     `json:"date" db:"date"`
	Duration   int           `json:"duration" db:"duration"` // minutes
	LessonType string        `json:"lessonType" db:"lesson_type"`
	Price      float64       `json:"price" db:"price"`
	Status     BookingStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`

	Coach *Profile `json:"coach,omitempty"` // Relation, no db tag
}

// LessonType describes a bookable lesson offering. Prices are displayed,
// never charged.
type LessonType struct {
	Name     string  `json:"name"`
	Duration int     `json:"duration"` // minutes
	Price    float64 `json:"price"`
}
