package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/session"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
	"github.com/fringe-app/fringe/internal/pkg/realtime"
)

const (
	// DefaultDebounce is how long the live listener waits after the last
	// change notification before reloading the feed
	DefaultDebounce = 250 * time.Millisecond

	// reloadTimeout bounds a listener-triggered reload
	reloadTimeout = 10 * time.Second
)

type likePhase int

const (
	phaseLike likePhase = iota
	phaseUnlike
)

// pendingLike tracks an in-flight like mutation. applied says whether its
// optimistic delta is reflected in the current baseline; a reload that
// already agrees with the optimistic target clears it so a later rollback
// does not double-revert.
type pendingLike struct {
	phase   likePhase
	applied bool
}

// Controller drives the social feed screen: loading posts, optimistic like
// toggles, the live change listener and the comment sheet.
type Controller struct {
	store    Store
	gate     *session.Gate
	source   realtime.Source
	logger   zerolog.Logger
	debounce time.Duration

	mu       sync.Mutex
	posts    []models.Post
	loaded   bool
	loadErr  bool
	gen      uint64
	pending  map[int64]*pendingLike
	openPost int64
	sub      realtime.Subscription
	closed   bool
}

// NewController creates a feed controller. source may be nil when live
// updates are not wanted.
func NewController(store Store, gate *session.Gate, source realtime.Source, logger zerolog.Logger) *Controller {
	return &Controller{
		store:    store,
		gate:     gate,
		source:   source,
		logger:   logger.With().Str("component", "feed").Logger(),
		debounce: DefaultDebounce,
		pending:  make(map[int64]*pendingLike),
	}
}

// Posts returns the current feed snapshot and whether the last load failed.
func (c *Controller) Posts() ([]models.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Post, len(c.posts))
	copy(out, c.posts)
	return out, c.loadErr
}

// Loaded reports whether at least one load has completed successfully.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Refresh loads posts and the viewer's liked set concurrently, merges them
// and replaces the feed. When several loads overlap only the most recently
// issued one may publish its result; earlier completions are discarded.
// A failed load leaves the previous feed in place.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if !c.gate.Resolved() {
		c.mu.Unlock()
		return apperrors.ErrSessionUnresolved
	}
	var viewerID int64
	if identity, ok := c.gate.Identity(); ok {
		viewerID = identity.ID
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	posts, err := c.fetch(ctx, viewerID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// a newer load has been issued since; drop this result
		c.logger.Debug().Uint64("gen", gen).Msg("Discarding superseded feed load")
		return nil
	}
	if err != nil {
		c.loadErr = true
		c.logger.Error().Err(err).Msg("Feed load failed")
		return fmt.Errorf("%w: %v", apperrors.ErrFeedLoadFailed, err)
	}
	c.loadErr = false
	c.loaded = true
	c.posts = posts
	c.reapplyPendingLocked()
	return nil
}

func (c *Controller) fetch(ctx context.Context, viewerID int64) ([]models.Post, error) {
	var (
		posts    []models.Post
		likedIDs []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = c.store.ListPosts(gctx)
		return err
	})
	if viewerID != 0 {
		g.Go(func() error {
			var err error
			likedIDs, err = c.store.ListLikedPostIDs(gctx, viewerID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	liked := make(map[int64]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}
	for i := range posts {
		posts[i].LikedByViewer = liked[posts[i].ID]
	}
	return posts, nil
}

// reapplyPendingLocked layers in-flight optimistic deltas over a freshly
// loaded baseline. When the baseline already reflects a pending mutation's
// target state the delta is not re-applied, so a later failure of that
// mutation will not revert a state the server itself reported.
func (c *Controller) reapplyPendingLocked() {
	for id, p := range c.pending {
		post := c.findLocked(id)
		if post == nil {
			p.applied = false
			continue
		}
		want := p.phase == phaseLike
		if post.LikedByViewer == want {
			p.applied = false
			continue
		}
		if want {
			post.Likes++
		} else {
			post.Likes--
		}
		post.LikedByViewer = want
		p.applied = true
	}
}

func (c *Controller) findLocked(postID int64) *models.Post {
	for i := range c.posts {
		if c.posts[i].ID == postID {
			return &c.posts[i]
		}
	}
	return nil
}

// ToggleLike flips the viewer's like on a post, applying the change
// optimistically before the network call settles.
func (c *Controller) ToggleLike(ctx context.Context, postID int64) error {
	c.mu.Lock()
	post := c.findLocked(postID)
	if post == nil {
		c.mu.Unlock()
		return apperrors.ErrPostNotFound
	}
	want := !post.LikedByViewer
	c.mu.Unlock()
	return c.setLiked(ctx, postID, want)
}

// Like marks a post as liked by the viewer. Already-liked posts are a no-op.
func (c *Controller) Like(ctx context.Context, postID int64) error {
	return c.setLiked(ctx, postID, true)
}

// Unlike removes the viewer's like from a post. Unliked posts are a no-op.
func (c *Controller) Unlike(ctx context.Context, postID int64) error {
	return c.setLiked(ctx, postID, false)
}

func (c *Controller) setLiked(ctx context.Context, postID int64, want bool) error {
	viewer, err := c.gate.Require()
	if err != nil {
		return err
	}

	c.mu.Lock()
	post := c.findLocked(postID)
	if post == nil {
		c.mu.Unlock()
		return apperrors.ErrPostNotFound
	}
	if _, inflight := c.pending[postID]; inflight {
		c.mu.Unlock()
		return apperrors.ErrMutationInFlight
	}
	if post.LikedByViewer == want {
		c.mu.Unlock()
		return nil
	}
	phase := phaseUnlike
	if want {
		phase = phaseLike
		post.Likes++
	} else {
		post.Likes--
	}
	post.LikedByViewer = want
	c.pending[postID] = &pendingLike{phase: phase, applied: true}
	c.mu.Unlock()

	var mErr error
	if want {
		mErr = c.store.CreateLike(ctx, postID, viewer.ID)
	} else {
		mErr = c.store.DeleteLike(ctx, postID, viewer.ID)
	}

	c.mu.Lock()
	p := c.pending[postID]
	delete(c.pending, postID)
	if mErr != nil {
		if p != nil && p.applied {
			if post := c.findLocked(postID); post != nil {
				if want {
					post.Likes--
				} else {
					post.Likes++
				}
				post.LikedByViewer = !want
			}
		}
		c.mu.Unlock()
		c.logger.Warn().Err(mErr).Int64("post_id", postID).Bool("like", want).Msg("Like mutation failed, rolled back")
		return fmt.Errorf("%w: %v", apperrors.ErrMutationFailed, mErr)
	}
	c.mu.Unlock()

	// reconcile counts with the server; a failed refresh keeps the
	// optimistic state, which is already correct
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Post-like refresh failed")
	}
	return nil
}

// Start subscribes to change notifications on the posts table and reloads
// the feed, debounced, whenever something changes.
func (c *Controller) Start() error {
	if c.source == nil {
		return nil
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return apperrors.NewConflictError("feed controller is stopped")
	}
	if c.sub != nil {
		c.mu.Unlock()
		return apperrors.NewConflictError("live listener already started")
	}
	sub, err := c.source.Subscribe("posts")
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("subscribing to post changes: %w", err)
	}
	c.sub = sub
	c.mu.Unlock()

	go c.listen(sub)
	c.logger.Info().Msg("Live feed listener started")
	return nil
}

// Stop tears the live listener down. No reloads fire after Stop returns.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.closed = true
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

// listen coalesces bursts of change events into a single trailing reload.
func (c *Controller) listen(sub realtime.Subscription) {
	for {
		ev, ok := <-sub.Events()
		if !ok {
			return
		}
		c.logger.Debug().Str("table", ev.Table).Str("action", string(ev.Action)).Msg("Change notification")

		timer := time.NewTimer(c.debounce)
	drain:
		for {
			select {
			case _, ok := <-sub.Events():
				if !ok {
					timer.Stop()
					return
				}
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(c.debounce)
			case <-timer.C:
				break drain
			}
		}
		c.reload()
	}
}

func (c *Controller) reload() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Listener-triggered reload failed")
	}
}

// OpenComments loads a post's comments and marks its sheet as open, so a
// successful comment submission refreshes the visible list.
func (c *Controller) OpenComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	comments, err := c.store.ListComments(ctx, postID)
	if err != nil {
		c.logger.Error().Err(err).Int64("post_id", postID).Msg("Comment load failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFeedLoadFailed, err)
	}
	c.mu.Lock()
	c.openPost = postID
	c.mu.Unlock()
	return comments, nil
}

// CloseComments marks the comment sheet as closed.
func (c *Controller) CloseComments() {
	c.mu.Lock()
	c.openPost = 0
	c.mu.Unlock()
}

// PostComment submits a comment on a post. Whitespace-only text is rejected
// before any network call. On success the open comment list is reloaded and
// a feed refresh picks up the new count.
func (c *Controller) PostComment(ctx context.Context, postID int64, text string) ([]models.Comment, error) {
	viewer, err := c.gate.Require()
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ErrEmptyComment
	}

	comment := &models.Comment{PostID: postID, UserID: viewer.ID, Content: text}
	if _, err := c.store.CreateComment(ctx, comment); err != nil {
		c.logger.Error().Err(err).Int64("post_id", postID).Msg("Comment submission failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMutationFailed, err)
	}

	var comments []models.Comment
	c.mu.Lock()
	open := c.openPost == postID
	c.mu.Unlock()
	if open {
		comments, err = c.store.ListComments(ctx, postID)
		if err != nil {
			c.logger.Warn().Err(err).Int64("post_id", postID).Msg("Comment list reload failed")
			comments = nil
		}
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Post-comment refresh failed")
	}
	return comments, nil
}
