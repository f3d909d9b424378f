package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/repositories"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
)

// lessonTypes is the fixed lesson catalogue shown on every coach page.
var lessonTypes = []models.LessonType{
	{Name: "Single Lesson", Duration: 60, Price: 85},
	{Name: "5 Lesson Package", Duration: 60, Price: 375},
	{Name: "Playing Lesson", Duration: 120, Price: 150},
}

// CoachService handles the coach directory
type CoachService struct {
	profileRepo *repositories.ProfileRepository
	logger      zerolog.Logger
}

// NewCoachService creates a new CoachService
func NewCoachService(profileRepo *repositories.ProfileRepository, logger zerolog.Logger) *CoachService {
	return &CoachService{profileRepo: profileRepo, logger: logger}
}

// List returns every coach profile.
func (s *CoachService) List(ctx context.Context) ([]models.Profile, error) {
	return s.profileRepo.ListByRole(ctx, models.RoleCoach)
}

// Filter narrows a coach list by a case-insensitive name substring. An
// empty query returns the list unchanged.
func (s *CoachService) Filter(coaches []models.Profile, query string) []models.Profile {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return coaches
	}
	out := make([]models.Profile, 0, len(coaches))
	for _, c := range coaches {
		if strings.Contains(strings.ToLower(c.FullName), query) {
			out = append(out, c)
		}
	}
	return out
}

// Get returns one coach profile.
func (s *CoachService) Get(ctx context.Context, id int64) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrCoachNotFound
		}
		return nil, err
	}
	if profile.Role != models.RoleCoach {
		return nil, apperrors.ErrCoachNotFound
	}
	return profile, nil
}

// LessonTypes returns the bookable lesson offerings.
func (s *CoachService) LessonTypes() []models.LessonType {
	out := make([]models.LessonType, len(lessonTypes))
	copy(out, lessonTypes)
	return out
}
