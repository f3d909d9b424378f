package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/picker"
	"github.com/fringe-app/fringe/internal/app/session"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
	"github.com/fringe-app/fringe/internal/pkg/filestorage"
)

const (
	// MaxImages is the attachment cap per post
	MaxImages = 4

	// MaxImageSize is the per-image size cap in bytes
	MaxImageSize = 5 << 20
)

// Composer holds post-in-progress state: text plus up to MaxImages picked
// images. Submit publishes the draft atomically; a failure anywhere leaves
// no post row and no orphaned uploads.
type Composer struct {
	store    Store
	storage  filestorage.Storage
	gate     *session.Gate
	logger   zerolog.Logger
	onPosted func()

	mu         sync.Mutex
	text       string
	images     []picker.Asset
	submitting bool
}

// NewComposer creates a post composer.
func NewComposer(store Store, storage filestorage.Storage, gate *session.Gate, logger zerolog.Logger) *Composer {
	return &Composer{
		store:   store,
		storage: storage,
		gate:    gate,
		logger:  logger.With().Str("component", "composer").Logger(),
	}
}

// OnPosted registers a callback fired after a successful publish, typically
// a feed refresh.
func (c *Composer) OnPosted(fn func()) {
	c.mu.Lock()
	c.onPosted = fn
	c.mu.Unlock()
}

// SetText replaces the draft text.
func (c *Composer) SetText(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}

// Text returns the current draft text.
func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Images returns a snapshot of the attached images.
func (c *Composer) Images() []picker.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]picker.Asset, len(c.images))
	copy(out, c.images)
	return out
}

// AddImage attaches a picked image to the draft. The attachment cap and the
// per-image size cap are enforced here, before anything is uploaded.
func (c *Composer) AddImage(asset picker.Asset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.images) >= MaxImages {
		return apperrors.ErrLimitExceeded
	}
	if asset.Size > MaxImageSize {
		return apperrors.ErrImageTooLarge
	}
	c.images = append(c.images, asset)
	return nil
}

// RemoveImage detaches the image at index.
func (c *Composer) RemoveImage(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.images) {
		return apperrors.NewBadRequestError("image index out of range")
	}
	c.images = append(c.images[:index], c.images[index+1:]...)
	return nil
}

// Reset clears the draft.
func (c *Composer) Reset() {
	c.mu.Lock()
	c.text = ""
	c.images = nil
	c.mu.Unlock()
}

// Submit publishes the draft: uploads every image under a generated object
// name, inserts the post row, then clears the draft. An empty draft is
// rejected before any network traffic. Submission is not reentrant.
func (c *Composer) Submit(ctx context.Context) (*models.Post, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, apperrors.ErrSubmitInFlight
	}
	text := strings.TrimSpace(c.text)
	images := make([]picker.Asset, len(c.images))
	copy(images, c.images)
	if text == "" && len(images) == 0 {
		c.mu.Unlock()
		return nil, apperrors.ErrEmptyPost
	}
	c.submitting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	viewer, err := c.gate.Require()
	if err != nil {
		return nil, err
	}
	exists, err := c.store.ProfileExists(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("checking profile: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrProfileRequired
	}

	var uploaded []string
	urls := make([]string, 0, len(images))
	for _, img := range images {
		name := uuid.New().String() + img.Ext()
		rc, err := img.Open()
		if err != nil {
			c.cleanup(uploaded)
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
		}
		err = c.storage.Upload(ctx, filestorage.BucketPostImages, name, rc, "image/jpeg")
		rc.Close()
		if err != nil {
			c.cleanup(uploaded)
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
		}
		uploaded = append(uploaded, name)
		urls = append(urls, c.storage.PublicURL(filestorage.BucketPostImages, name))
	}

	post := &models.Post{UserID: viewer.ID, Content: text, ImageURLs: urls}
	id, err := c.store.CreatePost(ctx, post)
	if err != nil {
		c.cleanup(uploaded)
		c.logger.Error().Err(err).Msg("Post insert failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMutationFailed, err)
	}
	post.ID = id

	c.mu.Lock()
	c.text = ""
	c.images = nil
	fn := c.onPosted
	c.mu.Unlock()

	c.logger.Info().Int64("post_id", id).Int("images", len(urls)).Msg("Post published")
	if fn != nil {
		fn()
	}
	return post, nil
}

// cleanup best-effort deletes objects uploaded before a failed submit.
func (c *Composer) cleanup(names []string) {
	for _, name := range names {
		if err := c.storage.Delete(context.Background(), filestorage.BucketPostImages, name); err != nil {
			c.logger.Warn().Err(err).Str("object", name).Msg("Orphaned upload cleanup failed")
		}
	}
}
