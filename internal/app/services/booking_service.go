package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/repositories"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
	"github.com/fringe-app/fringe/internal/pkg/validation"
)

// BookRequest carries lesson booking input. LessonType must name an entry
// from the lesson catalogue; duration and price come from the catalogue,
// never from the caller.
type BookRequest struct {
	CoachID    int64     `validate:"required,gt=0"`
	Date       time.Time `validate:"required"`
	LessonType string    `validate:"required"`
}

// BookingService handles lesson bookings
type BookingService struct {
	bookingRepo *repositories.BookingRepository
	profileRepo *repositories.ProfileRepository
	logger      zerolog.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(bookingRepo *repositories.BookingRepository, profileRepo *repositories.ProfileRepository, logger zerolog.Logger) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Book creates a pending booking for the student.
func (s *BookingService) Book(ctx context.Context, studentID int64, req BookRequest) (*models.Booking, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	lesson, ok := lessonByName(req.LessonType)
	if !ok {
		return nil, apperrors.NewBadRequestError("unknown lesson type")
	}

	coach, err := s.profileRepo.GetByID(ctx, req.CoachID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrCoachNotFound
		}
		return nil, err
	}
	if coach.Role != models.RoleCoach {
		return nil, apperrors.ErrCoachNotFound
	}

	booking := &models.Booking{
		StudentID:  studentID,
		CoachID:    req.CoachID,
		Date:       req.Date,
		Duration:   lesson.Duration,
		LessonType: lesson.Name,
		Price:      lesson.Price,
		Status:     models.BookingPending,
	}
	id, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, err
	}
	booking.ID = id
	booking.Coach = coach
	s.logger.Info().Int64("bookingId", id).Int64("coachId", req.CoachID).Msg("Lesson booked")
	return booking, nil
}

// List returns the student's bookings, soonest first.
func (s *BookingService) List(ctx context.Context, studentID int64) ([]models.Booking, error) {
	return s.bookingRepo.ListByStudent(ctx, studentID)
}

// Split partitions bookings into upcoming and past relative to now.
// Cancelled bookings count as past regardless of date.
func (s *BookingService) Split(bookings []models.Booking, now time.Time) (upcoming, past []models.Booking) {
	for _, b := range bookings {
		if b.Status != models.BookingCancelled && !b.Date.Before(now) {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}
	return upcoming, past
}

// Cancel marks the student's booking cancelled.
func (s *BookingService) Cancel(ctx context.Context, studentID, bookingID int64) error {
	bookings, err := s.bookingRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return err
	}
	for _, b := range bookings {
		if b.ID == bookingID {
			if err := s.bookingRepo.UpdateStatus(ctx, bookingID, models.BookingCancelled); err != nil {
				return err
			}
			s.logger.Info().Int64("bookingId", bookingID).Msg("Booking cancelled")
			return nil
		}
	}
	return apperrors.ErrBookingNotFound
}

func lessonByName(name string) (models.LessonType, bool) {
	for _, lt := range lessonTypes {
		if lt.Name == name {
			return lt, true
		}
	}
	return models.LessonType{}, false
}
