package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/picker"
	"github.com/fringe-app/fringe/internal/app/repositories"
	"github.com/fringe-app/fringe/internal/pkg/filestorage"
	"github.com/fringe-app/fringe/internal/pkg/validation"
)

// UpdateProfileRequest carries editable profile fields
type UpdateProfileRequest struct {
	FullName string   `validate:"required,min=2,max=100"`
	Handicap *float64 `validate:"omitempty,gte=0,lte=54"`
}

// ProfileService handles profile reads and edits
type ProfileService struct {
	profileRepo *repositories.ProfileRepository
	storage     filestorage.Storage
	logger      zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo *repositories.ProfileRepository, storage filestorage.Storage, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		storage:     storage,
		logger:      logger,
	}
}

// Get returns a profile by id.
func (s *ProfileService) Get(ctx context.Context, id int64) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// Update edits the profile's name and handicap.
func (s *ProfileService) Update(ctx context.Context, id int64, req UpdateProfileRequest) (*models.Profile, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Update(ctx, id, req.FullName, req.Handicap); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userId", id).Msg("Profile updated")
	return s.profileRepo.GetByID(ctx, id)
}

// UpdateAvatar uploads a picked image and points the profile at it.
func (s *ProfileService) UpdateAvatar(ctx context.Context, id int64, asset picker.Asset) (*models.Profile, error) {
	rc, err := asset.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open avatar image: %w", err)
	}
	defer rc.Close()

	name := uuid.New().String() + asset.Ext()
	if err := s.storage.Upload(ctx, filestorage.BucketProfiles, name, rc, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}
	url := s.storage.PublicURL(filestorage.BucketProfiles, name)
	if err := s.profileRepo.UpdateAvatar(ctx, id, url); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userId", id).Msg("Avatar updated")
	return s.profileRepo.GetByID(ctx, id)
}
