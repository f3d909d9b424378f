package models

// Role defines the profile role type
type Role string

const (
	RoleStudent Role = "student"
	RoleCoach   Role = "coach"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleCoach
}

// BookingStatus defines the lifecycle status of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
)

// VideoStatus defines the review status of a swing video
type VideoStatus string

const (
	VideoPending  VideoStatus = "pending"
	VideoReviewed VideoStatus = "reviewed"
)
