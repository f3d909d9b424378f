package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/session"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
	"github.com/fringe-app/fringe/internal/pkg/realtime"
)

// fakeStore is an in-memory Store with per-test hooks.
type fakeStore struct {
	mu sync.Mutex

	posts    []models.Post
	likedIDs []int64
	comments map[int64][]models.Comment

	listCalls          int
	createLikeCalls    int
	deleteLikeCalls    int
	createCommentCalls int
	createPostCalls    int

	listErr       error
	likeErr       error
	commentErr    error
	createPostErr error

	onList      func(call int) ([]models.Post, error)
	likeStarted chan struct{}
	likeRelease chan struct{}

	profileExists bool
	nextPostID    int64
}

func newFakeStore(posts []models.Post) *fakeStore {
	return &fakeStore{
		posts:         posts,
		comments:      make(map[int64][]models.Comment),
		profileExists: true,
		nextPostID:    1000,
	}
}

func (s *fakeStore) snapshotPosts() []models.Post {
	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

func (s *fakeStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.mu.Lock()
	s.listCalls++
	call := s.listCalls
	hook := s.onList
	err := s.listErr
	posts := s.snapshotPosts()
	s.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *fakeStore) ListLikedPostIDs(ctx context.Context, userID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.likedIDs))
	copy(out, s.likedIDs)
	return out, nil
}

func (s *fakeStore) CreateLike(ctx context.Context, postID, userID int64) error {
	s.mu.Lock()
	s.createLikeCalls++
	started := s.likeStarted
	release := s.likeRelease
	err := s.likeErr
	s.mu.Unlock()

	if started != nil {
		close(started)
		s.mu.Lock()
		s.likeStarted = nil
		s.mu.Unlock()
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.likedIDs = append(s.likedIDs, postID)
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].Likes++
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *fakeStore) DeleteLike(ctx context.Context, postID, userID int64) error {
	s.mu.Lock()
	s.deleteLikeCalls++
	err := s.likeErr
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.mu.Lock()
	for i, id := range s.likedIDs {
		if id == postID {
			s.likedIDs = append(s.likedIDs[:i], s.likedIDs[i+1:]...)
			break
		}
	}
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].Likes--
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *fakeStore) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.commentErr != nil {
		return nil, s.commentErr
	}
	return s.comments[postID], nil
}

func (s *fakeStore) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCommentCalls++
	if s.commentErr != nil {
		return 0, s.commentErr
	}
	comment.ID = int64(s.createCommentCalls)
	s.comments[comment.PostID] = append([]models.Comment{*comment}, s.comments[comment.PostID]...)
	for i := range s.posts {
		if s.posts[i].ID == comment.PostID {
			s.posts[i].Comments++
		}
	}
	return comment.ID, nil
}

func (s *fakeStore) CreatePost(ctx context.Context, post *models.Post) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createPostCalls++
	if s.createPostErr != nil {
		return 0, s.createPostErr
	}
	s.nextPostID++
	post.ID = s.nextPostID
	post.CreatedAt = time.Now()
	s.posts = append([]models.Post{*post}, s.posts...)
	return post.ID, nil
}

func (s *fakeStore) ProfileExists(ctx context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileExists, nil
}

// stubAuth resolves to a fixed identity.
type stubAuth struct {
	identity *session.Identity
}

func (a *stubAuth) Resume(ctx context.Context) (*session.Identity, error) { return a.identity, nil }
func (a *stubAuth) OnChange(fn func(*session.Identity)) func()           { return func() {} }

func resolvedGate(t *testing.T, identity *session.Identity) *session.Gate {
	t.Helper()
	gate := session.NewGate(zerolog.Nop())
	require.NoError(t, gate.Resolve(context.Background(), &stubAuth{identity: identity}))
	return gate
}

func viewer() *session.Identity {
	return &session.Identity{ID: 7, Email: "demo@fringe.app", FullName: "Jamie Park", Role: models.RoleStudent}
}

func samplePosts() []models.Post {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return []models.Post{
		{ID: 3, UserID: 2, Content: "newest", CreatedAt: base.Add(2 * time.Hour), Likes: 1},
		{ID: 2, UserID: 1, Content: "middle", CreatedAt: base.Add(time.Hour), Likes: 5},
		{ID: 1, UserID: 2, Content: "oldest", CreatedAt: base},
	}
}

func TestRefreshMergesLikedSet(t *testing.T) {
	store := newFakeStore(samplePosts())
	store.likedIDs = []int64{2}
	c := NewController(store, resolvedGate(t, viewer()), nil, zerolog.Nop())

	require.NoError(t, c.Refresh(context.Background()))

	posts, failed := c.Posts()
	assert.False(t, failed)
	require.Len(t, posts, 3)
	assert.Equal(t, int64(3), posts[0].ID)
	assert.False(t, posts[0].LikedByViewer)
	assert.True(t, posts[1].LikedByViewer)
	assert.False(t, posts[2].LikedByViewer)
}

func TestRefreshBeforeSessionResolves(t *testing.T) {
	store := newFakeStore(samplePosts())
	gate := session.NewGate(zerolog.Nop())
	c := NewController(store, gate, nil, zerolog.Nop())

	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSessionUnresolved)
	assert.Equal(t, 0, store.listCalls)
}

func TestRefreshKeepsFeedOnError(t *testing.T) {
	store := newFakeStore(samplePosts())
	c := NewController(store, resolvedGate(t, viewer()), nil, zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background()))

	store.mu.Lock()
	store.listErr = errors.New("network down")
	store.mu.Unlock()

	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrFeedLoadFailed)

	posts, failed := c.Posts()
	assert.True(t, failed)
	assert.Len(t, posts, 3, "previous feed stays visible alongside the error")

	store.mu.Lock()
	store.listErr = nil
	store.mu.Unlock()
	require.NoError(t, c.Refresh(context.Background()))
	_, failed = c.Posts()
	assert.False(t, failed)
}

func TestRefreshSupersededLoadIsDiscarded(t *testing.T) {
	store := newFakeStore(nil)
	c := NewController(store, resolvedGate(t, viewer()), nil, zerolog.Nop())

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	stale := []models.Post{{ID: 1, Content: "stale"}}
	fresh := []models.Post{{ID: 2, Content: "fresh"}, {ID: 1, Content: "stale"}}
	store.onList = func(call int) ([]models.Post, error) {
		if call == 1 {
			close(firstStarted)
			<-releaseFirst
			return stale, nil
		}
		return fresh, nil
	}

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()
	<-firstStarted

	require.NoError(t, c.Refresh(context.Background()))
	close(releaseFirst)
	require.NoError(t, <-done)

	posts, _ := c.Posts()
	require.Len(t, posts, 2, "stale first load must not overwrite the newer one")
	assert.Equal(t, int64(2), posts[0].ID)
}

func TestToggleLikeOptimisticThenSettled(t *testing.T) {
	store := newFakeStore(samplePosts())
	c := NewController(store, resolvedGate(t, viewer()), nil, zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background()))

	require.NoError(t, c.ToggleLike(context.Background(), 3))

	assert.Equal(t, 1, store.createLikeCalls, "one settled interaction, one mutation")
	posts, _ := c.Posts()
	assert.True(t, posts[0].LikedByViewer)
	assert.Equal(t, 2, posts[0].Likes)

	require.NoError(t, c.ToggleLike(context.Background(), 3))
	assert.Equal(t, 1, store.deleteLikeCalls)
	posts, _ = c.Posts()
	assert.False(t, posts[0].LikedByViewer)
	assert.Equal(t, 1, posts[0].Likes)
}

func TestToggleLikeRollsBackOnFailure(t *testing.T) {
	store := newFakeStore(samplePosts())
	store.likeErr = errors.New("insert failed")
	c := NewController(store, resolvedGate(t, viewer()), nil, zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background()))

	err := c.ToggleLike(context.Background(), 3)
	assert.ErrorIs(t, err, apperrors.ErrMutationFailed)

	posts, _ := c.Posts()
	assert.False(t, posts[0].LikedByViewer)
	assert.Equal(t, 1, posts[0].Likes, "failed mutation leaves the count where it started")
}

func TestToggleLikeRejectsWhilePending(t *testing.T) {
	store := newFakeStore(samplePosts())
	store.likeStarted = make(chan struct{})
	store.likeRelease = make(chan struct{})
	c := NewController(store, resolvedGate(t, viewer()), nil, zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background()))

	started := store.likeStarted
	done := make(chan error, 1)
	go func() { done <- c.ToggleLike(context.Background(), 3) }()
	<-started

	err := c.ToggleLike(context.Background(), 3)
	assert.ErrorIs(t, err, apperrors.ErrMutationInFlight)
	assert.Equal(t, 1, store.createLikeCalls)

	close(store.likeRelease)
	require.NoError(t, <-done)
}

func TestReloadDuringPendingLikeKeepsOptimisticState(t *testing.T) {
	store := newFakeStore(samplePosts())
	store.likeStarted = make(chan struct{})
	store.likeRelease = make(chan struct{})
	c := NewController(store, resolvedGate(t, viewer()), nil, zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background()))

	started := store.likeStarted
	done := make(chan error, 1)
	go func() { done <- c.ToggleLike(context.Background(), 3) }()
	<-started

	// A reload completes while the like is still in flight. The server
	// baseline does not carry the like yet, so the optimistic delta is
	// layered back on.
	require.NoError(t, c.Refresh(context.Background()))
	posts, _ := c.Posts()
	assert.True(t, posts[0].LikedByViewer)
	assert.Equal(t, 2, posts[0].Likes)

	close(store.likeRelease)
	require.NoError(t, <-done)
	posts, _ = c.Posts()
	assert.True(t, posts[0].LikedByViewer)
	assert.Equal(t, 2, posts[0].Likes)
}

func TestLikeRequiresSignIn(t *testing.T) {
	store := newFakeStore(samplePosts())
	c := NewController(store, resolvedGate(t, nil), nil, zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background()))

	err := c.ToggleLike(context.Background(), 3)
	assert.ErrorIs(t, err, apperrors.ErrSignedOut)
	assert.Equal(t, 0, store.createLikeCalls)
}

func TestLikeUnknownPost(t *testing.T) {
	store := newFakeStore(samplePosts())
	c := NewController(store, resolvedGate(t, viewer()), nil, zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background()))

	err := c.ToggleLike(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestListenerDebouncesBursts(t *testing.T) {
	store := newFakeStore(samplePosts())
	broker := realtime.NewBroker()
	defer broker.Close()

	c := NewController(store, resolvedGate(t, viewer()), broker, zerolog.Nop())
	c.debounce = 20 * time.Millisecond
	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.Start())
	defer c.Stop()

	store.mu.Lock()
	before := store.listCalls
	store.mu.Unlock()

	for i := 0; i < 5; i++ {
		broker.Publish(realtime.Event{Table: "posts", Action: realtime.ActionInsert, RecordID: int64(i)})
	}

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.listCalls == before+1
	}, time.Second, 5*time.Millisecond, "a burst collapses into one reload")

	time.Sleep(3 * c.debounce)
	store.mu.Lock()
	after := store.listCalls
	store.mu.Unlock()
	assert.Equal(t, before+1, after)
}

func TestListenerStopsCleanly(t *testing.T) {
	store := newFakeStore(samplePosts())
	broker := realtime.NewBroker()
	defer broker.Close()

	c := NewController(store, resolvedGate(t, viewer()), broker, zerolog.Nop())
	c.debounce = 10 * time.Millisecond
	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.Start())
	c.Stop()

	store.mu.Lock()
	before := store.listCalls
	store.mu.Unlock()

	broker.Publish(realtime.Event{Table: "posts", Action: realtime.ActionInsert, RecordID: 1})
	time.Sleep(50 * time.Millisecond)

	store.mu.Lock()
	after := store.listCalls
	store.mu.Unlock()
	assert.Equal(t, before, after, "no reloads after teardown")
}

func TestPostCommentRejectsWhitespace(t *testing.T) {
	store := newFakeStore(samplePosts())
	c := NewController(store, resolvedGate(t, viewer()), nil, zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background()))

	_, err := c.PostComment(context.Background(), 3, "   \n\t ")
	assert.ErrorIs(t, err, apperrors.ErrEmptyComment)
	assert.Equal(t, 0, store.createCommentCalls)
}

func TestPostCommentRefreshesOpenSheet(t *testing.T) {
	store := newFakeStore(samplePosts())
	store.comments[3] = []models.Comment{{ID: 1, PostID: 3, Content: "first"}}
	c := NewController(store, resolvedGate(t, viewer()), nil, zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background()))

	comments, err := c.OpenComments(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	comments, err = c.PostComment(context.Background(), 3, "  nice round  ")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "nice round", comments[0].Content)

	posts, _ := c.Posts()
	assert.Equal(t, 1, posts[0].Comments, "feed refresh picks up the new count")
}

func TestPostCommentRequiresSignIn(t *testing.T) {
	store := newFakeStore(samplePosts())
	c := NewController(store, resolvedGate(t, nil), nil, zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background()))

	_, err := c.PostComment(context.Background(), 3, "hello")
	assert.ErrorIs(t, err, apperrors.ErrSignedOut)
	assert.Equal(t, 0, store.createCommentCalls)
}
