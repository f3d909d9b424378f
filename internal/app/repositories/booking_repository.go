package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
)

// BookingRepository handles database operations for lesson bookings
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking with status pending
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) (int64, error) {
	query := `
		INSERT INTO bookings (student_id, coach_id, date, duration, lesson_type, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		booking.StudentID,
		booking.CoachID,
		booking.Date,
		booking.Duration,
		booking.LessonType,
		booking.Price,
		models.BookingPending,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("error creating booking: %w", err)
	}

	booking.Status = models.BookingPending
	return booking.ID, nil
}

// ListByStudent retrieves all bookings for a student with the coach joined,
// ordered by lesson date ascending.
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Booking, error) {
	query := `
		SELECT
			b.id, b.student_id, b.coach_id, b.date, b.duration, b.lesson_type,
			b.price, b.status, b.created_at,
			u.id, u.email, u.full_name, u.role, u.avatar_url
		FROM bookings b
		JOIN profiles u ON u.id = b.coach_id
		WHERE b.student_id = $1
		ORDER BY b.date ASC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var booking models.Booking
		var coach models.Profile
		err := rows.Scan(
			&booking.ID,
			&booking.StudentID,
			&booking.CoachID,
			&booking.Date,
			&booking.Duration,
			&booking.LessonType,
			&booking.Price,
			&booking.Status,
			&booking.CreatedAt,
			&coach.ID,
			&coach.Email,
			&coach.FullName,
			&coach.Role,
			&coach.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		booking.Coach = &coach
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}

	return bookings, nil
}

// UpdateStatus sets a booking's status
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	result, err := r.db.Exec(ctx, "UPDATE bookings SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("error updating booking status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrBookingNotFound
	}
	return nil
}
