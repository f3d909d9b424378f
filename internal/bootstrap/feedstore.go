package bootstrap

import (
	"context"
	"time"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/repositories"
	"github.com/fringe-app/fringe/internal/pkg/realtime"
)

// feedStore adapts the repositories to the feed's store interface. When an
// in-process broker carries change notifications, mutations publish their
// own events; against a remote change feed the server side does that.
type feedStore struct {
	repos  *repositories.Repositories
	broker *realtime.Broker
}

func newFeedStore(repos *repositories.Repositories, broker *realtime.Broker) *feedStore {
	return &feedStore{repos: repos, broker: broker}
}

func (s *feedStore) publish(table string, action realtime.Action, recordID int64) {
	if s.broker == nil {
		return
	}
	s.broker.Publish(realtime.Event{
		Table:     table,
		Action:    action,
		RecordID:  recordID,
		Timestamp: time.Now(),
	})
}

func (s *feedStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.repos.PostRepository.List(ctx)
}

func (s *feedStore) ListLikedPostIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.repos.LikeRepository.ListPostIDsByUser(ctx, userID)
}

func (s *feedStore) CreateLike(ctx context.Context, postID, userID int64) error {
	if err := s.repos.LikeRepository.Create(ctx, postID, userID); err != nil {
		return err
	}
	s.publish("posts", realtime.ActionUpdate, postID)
	return nil
}

func (s *feedStore) DeleteLike(ctx context.Context, postID, userID int64) error {
	if err := s.repos.LikeRepository.Delete(ctx, postID, userID); err != nil {
		return err
	}
	s.publish("posts", realtime.ActionUpdate, postID)
	return nil
}

func (s *feedStore) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	return s.repos.CommentRepository.ListByPost(ctx, postID)
}

func (s *feedStore) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	id, err := s.repos.CommentRepository.Create(ctx, comment)
	if err != nil {
		return 0, err
	}
	s.publish("posts", realtime.ActionUpdate, comment.PostID)
	return id, nil
}

func (s *feedStore) CreatePost(ctx context.Context, post *models.Post) (int64, error) {
	id, err := s.repos.PostRepository.Create(ctx, post)
	if err != nil {
		return 0, err
	}
	s.publish("posts", realtime.ActionInsert, id)
	return id, nil
}

func (s *feedStore) ProfileExists(ctx context.Context, userID int64) (bool, error) {
	return s.repos.ProfileRepository.Exists(ctx, userID)
}
