package models

import "time"

// Profile defines the profile model based on the 'profiles' table.
// A profile doubles as the authenticated identity: the credential hash
// lives on the same row and is never serialized.
type Profile struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"fullName" db:"full_name"`
	Role         Role      `json:"role" db:"role"`
	AvatarURL    *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	Handicap     *float64  `json:"handicap,omitempty" db:"handicap"`
	Specialty    *string   `json:"specialty,omitempty" db:"specialty"`
	Location     *string   `json:"location,omitempty" db:"location"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
