package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/picker"
	"github.com/fringe-app/fringe/internal/app/repositories"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
	"github.com/fringe-app/fringe/internal/pkg/filestorage"
)

const (
	// MaxVideoSize is the swing video size cap in bytes
	MaxVideoSize = 100 << 20

	// MaxVideoDuration is the swing video length cap
	MaxVideoDuration = 60 * time.Second

	// progress reporting runs in fixed steps while the upload simulation
	// is in place
	progressSteps = 10
	progressTick  = 200 * time.Millisecond
)

// VideoService handles swing video submissions for coach review. The
// actual byte transfer is simulated: the storage object is written, then
// progress is reported in fixed steps to drive the upload UI.
type VideoService struct {
	videoRepo *repositories.VideoRepository
	storage   filestorage.Storage
	logger    zerolog.Logger
	tick      time.Duration

	mu        sync.Mutex
	uploading bool
}

// NewVideoService creates a new VideoService
func NewVideoService(videoRepo *repositories.VideoRepository, storage filestorage.Storage, logger zerolog.Logger) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		storage:   storage,
		logger:    logger,
		tick:      progressTick,
	}
}

// ValidateAsset checks a picked video against the size and length caps.
func (s *VideoService) ValidateAsset(asset picker.Asset) error {
	if asset.Size > MaxVideoSize {
		return apperrors.ErrVideoTooLarge
	}
	if asset.Duration > MaxVideoDuration {
		return apperrors.ErrVideoTooLong
	}
	return nil
}

// Submit uploads a swing video and records it as pending review. progress,
// when non-nil, receives values from 0 to 100 and is closed when the
// upload settles. Submission is not reentrant.
func (s *VideoService) Submit(ctx context.Context, studentID, coachID int64, title string, asset picker.Asset, progress chan<- int) (*models.VideoReview, error) {
	if progress != nil {
		defer close(progress)
	}

	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return nil, apperrors.ErrSubmitInFlight
	}
	s.uploading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.uploading = false
		s.mu.Unlock()
	}()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewBadRequestError("title is required")
	}
	if err := s.ValidateAsset(asset); err != nil {
		return nil, err
	}

	rc, err := asset.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	name := uuid.New().String() + asset.Ext()
	err = s.storage.Upload(ctx, filestorage.BucketVideos, name, rc, "video/mp4")
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}

	// drive the progress UI; the object is already written
	if progress != nil {
		for step := 1; step <= progressSteps; step++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.tick):
			}
			progress <- step * 100 / progressSteps
		}
	}

	video := &models.VideoReview{
		StudentID: studentID,
		CoachID:   coachID,
		Title:     title,
		VideoURL:  s.storage.PublicURL(filestorage.BucketVideos, name),
		Duration:  int(asset.Duration / time.Second),
		Status:    models.VideoPending,
	}
	id, err := s.videoRepo.Create(ctx, video)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMutationFailed, err)
	}
	video.ID = id
	s.logger.Info().Int64("videoId", id).Int64("coachId", coachID).Msg("Swing video submitted")
	return video, nil
}

// Recent returns the student's submitted videos, newest first.
func (s *VideoService) Recent(ctx context.Context, studentID int64) ([]models.VideoReview, error) {
	return s.videoRepo.ListByStudent(ctx, studentID)
}
