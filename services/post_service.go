package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"taskmarket/auth"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/domain/event"
	"taskmarket/errors"
	"taskmarket/repositories"
	"taskmarket/search"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"
)

type IPostService interface {
	CreatePost(ctx context.Context, cmd domain.CreatePostCommand) (domain.Post, error)
	GetPost(ctx context.Context, postID string) (domain.Post, error)
	ExpressInterest(ctx context.Context, currentUser, postID string) error
	ConfirmUser(ctx context.Context, currentUser, postID, userID string) error
	SetStatus(ctx context.Context, currentUser, postID string, status domain.PostStatus) error
	DeletePost(ctx context.Context, currentUser, postID string) error
	SubscribePost(ctx context.Context, postID string, onUpdate func(post domain.Post, exists bool)) (contract.Unsubscribe, error)
	SubscribeFeed(ctx context.Context, onUpdate func([]domain.Post)) (contract.Unsubscribe, error)
	SubscribeMyPosts(ctx context.Context, currentUser string, onUpdate func([]domain.Post)) (contract.Unsubscribe, error)
	SubscribeParticipating(ctx context.Context, currentUser string, onUpdate func([]domain.Post)) (contract.Unsubscribe, error)
	SearchPosts(ctx context.Context, text, category string, limit int) ([]domain.Post, error)
	Stats(ctx context.Context, currentUser string) (PostStats, error)
}

// PostStats are the profile counters.
type PostStats struct {
	Created       int
	Participating int
}

type PostService struct {
	posts     repositories.IPostRepository
	index     search.IPostIndex
	moderator censor
	sinks     []contract.EventSink
	clock     contract.Clock
	opts      Options
	log       *slog.Logger
}

func NewPostService(
	posts repositories.IPostRepository,
	index search.IPostIndex,
	moderator censor,
	sinks []contract.EventSink,
	clock contract.Clock,
	opts Options,
	log *slog.Logger) *PostService {
	return &PostService{
		posts:     posts,
		index:     index,
		moderator: moderator,
		sinks:     sinks,
		clock:     clock,
		opts:      opts,
		log:       log,
	}
}

// CreatePost stores a new Active post with no interested or confirmed users.
func (s *PostService) CreatePost(ctx context.Context, cmd domain.CreatePostCommand) (domain.Post, error) {
	cmd.CreatorID = strings.TrimSpace(cmd.CreatorID)
	cmd.Description = strings.TrimSpace(cmd.Description)
	if cmd.CreatorID == "" {
		return domain.Post{}, errors.ErrNotSignedIn
	}
	if cmd.Description == "" {
		return domain.Post{}, errors.ErrEmptyDescription
	}
	if err := auth.ValidateCommand(cmd); err != nil {
		return domain.Post{}, err
	}
	category, err := domain.ParseCategory(cmd.Category)
	if err != nil {
		return domain.Post{}, err
	}

	description := cmd.Description
	if s.moderator != nil {
		var found []string
		description, found = s.moderator.Censor(description)
		if len(found) > 0 {
			s.log.Info("Censored post description", "creator_id", cmd.CreatorID, "words", len(found))
		}
	}

	post := domain.Post{
		Category:         category,
		Description:      description,
		CreatorID:        cmd.CreatorID,
		CreatedAt:        s.clock().UTC(),
		Status:           domain.StatusActive,
		InterestedUsers:  []string{},
		ConfirmedUserIDs: []string{},
		Language:         whatlanggo.Detect(description).Lang.Iso6391(),
	}
	post.UpdatedAt = post.CreatedAt
	post.ID, err = call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (string, error) {
		return s.posts.CreatePost(ctx, post)
	})
	if err != nil {
		return domain.Post{}, err
	}
	s.log.Info("Post created", "post_id", post.ID, "creator_id", post.CreatorID, "category", post.Category)
	publish(ctx, s.log, s.sinks, event.PostCreated{Post: post})
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, postID string) (domain.Post, error) {
	post, err := s.get(ctx, postID)
	return post.Post, err
}

func (s *PostService) get(ctx context.Context, postID string) (repositories.VersionedPost, error) {
	if strings.TrimSpace(postID) == "" {
		return repositories.VersionedPost{}, fmt.Errorf("%w: empty id", errors.ErrPostNotFound)
	}
	return call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (repositories.VersionedPost, error) {
		return s.posts.GetPost(ctx, postID)
	})
}

// ExpressInterest adds currentUser to the interested users of an Active post.
// Expressing interest twice is a no-op.
func (s *PostService) ExpressInterest(ctx context.Context, currentUser, postID string) error {
	if currentUser == "" {
		return errors.ErrNotSignedIn
	}
	return retryOnConflict(ctx, s.log, s.opts.MaxConflictRetries, func(ctx context.Context) error {
		post, err := s.get(ctx, postID)
		if err != nil {
			return err
		}
		_, changed, err := post.ExpressInterest(currentUser)
		if err != nil || !changed {
			return err
		}
		err = exec(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
			return s.posts.AddInterest(ctx, postID, currentUser, post.Version)
		})
		if err == nil {
			s.log.Info("Interest expressed", "post_id", postID, "user_id", currentUser)
		}
		return err
	})
}

// ConfirmUser lets the creator confirm an interested user, which unlocks the chat.
func (s *PostService) ConfirmUser(ctx context.Context, currentUser, postID, userID string) error {
	if currentUser == "" {
		return errors.ErrNotSignedIn
	}
	var confirmed domain.Post
	err := retryOnConflict(ctx, s.log, s.opts.MaxConflictRetries, func(ctx context.Context) error {
		post, err := s.get(ctx, postID)
		if err != nil {
			return err
		}
		next, changed, err := post.Confirm(currentUser, userID)
		if err != nil || !changed {
			return err
		}
		err = exec(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
			return s.posts.SetConfirmed(ctx, postID, next.ConfirmedUserIDs, post.Version)
		})
		if err == nil {
			confirmed = next
		}
		return err
	})
	if err != nil || confirmed.ID == "" {
		return err
	}
	s.log.Info("User confirmed", "post_id", postID, "user_id", userID)
	publish(ctx, s.log, s.sinks, event.UserConfirmed{Post: confirmed, UserID: userID})
	return nil
}

// SetStatus moves the post through its lifecycle. Moving back to Active is
// refused once the post is older than the reactivation window.
func (s *PostService) SetStatus(ctx context.Context, currentUser, postID string, status domain.PostStatus) error {
	if currentUser == "" {
		return errors.ErrNotSignedIn
	}
	var changedEvent *event.PostStatusChanged
	err := retryOnConflict(ctx, s.log, s.opts.MaxConflictRetries, func(ctx context.Context) error {
		post, err := s.get(ctx, postID)
		if err != nil {
			return err
		}
		next, changed, err := post.TransitionTo(currentUser, status, s.clock(), s.opts.ReactivationWindow)
		if err != nil || !changed {
			return err
		}
		err = exec(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
			return s.posts.SetStatus(ctx, postID, status, post.Version)
		})
		if err == nil {
			changedEvent = &event.PostStatusChanged{Post: next, From: post.Status}
		}
		return err
	})
	if err != nil || changedEvent == nil {
		return err
	}
	s.log.Info("Post status changed", "post_id", postID, "from", changedEvent.From, "to", status)
	publish(ctx, s.log, s.sinks, *changedEvent)
	return nil
}

// DeletePost is a creator-only hard delete. Channels of the post are kept.
func (s *PostService) DeletePost(ctx context.Context, currentUser, postID string) error {
	if currentUser == "" {
		return errors.ErrNotSignedIn
	}
	post, err := s.get(ctx, postID)
	if err != nil {
		return err
	}
	if !post.IsCreator(currentUser) {
		return errors.ErrNotCreator
	}
	err = exec(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		return s.posts.DeletePost(ctx, postID)
	})
	if err != nil {
		return err
	}
	s.log.Info("Post deleted", "post_id", postID, "user_id", currentUser)
	publish(ctx, s.log, s.sinks, event.PostDeleted{ID: postID})
	return nil
}

// SubscribePost reports exists=false once the post is deleted.
func (s *PostService) SubscribePost(ctx context.Context, postID string, onUpdate func(post domain.Post, exists bool)) (contract.Unsubscribe, error) {
	return s.subscribe(ctx, repositories.PostQuery(postID), func(posts []domain.Post) {
		if len(posts) == 0 {
			onUpdate(domain.Post{ID: postID}, false)
			return
		}
		onUpdate(posts[0], true)
	})
}

func (s *PostService) SubscribeFeed(ctx context.Context, onUpdate func([]domain.Post)) (contract.Unsubscribe, error) {
	return s.subscribe(ctx, repositories.FeedQuery(), onUpdate)
}

func (s *PostService) SubscribeMyPosts(ctx context.Context, currentUser string, onUpdate func([]domain.Post)) (contract.Unsubscribe, error) {
	if currentUser == "" {
		return nil, errors.ErrNotSignedIn
	}
	return s.subscribe(ctx, repositories.CreatedByQuery(currentUser), onUpdate)
}

func (s *PostService) SubscribeParticipating(ctx context.Context, currentUser string, onUpdate func([]domain.Post)) (contract.Unsubscribe, error) {
	if currentUser == "" {
		return nil, errors.ErrNotSignedIn
	}
	return s.subscribe(ctx, repositories.InterestedQuery(currentUser), onUpdate)
}

func (s *PostService) subscribe(ctx context.Context, query contract.Query, onUpdate func([]domain.Post)) (contract.Unsubscribe, error) {
	return call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (contract.Unsubscribe, error) {
		return s.posts.SubscribePosts(ctx, query, onUpdate)
	})
}

// SearchPosts resolves the index hits against the store, skipping posts
// deleted since they were indexed.
func (s *PostService) SearchPosts(ctx context.Context, text, category string, limit int) ([]domain.Post, error) {
	var cat domain.Category
	if strings.TrimSpace(category) != "" {
		parsed, err := domain.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		cat = parsed
	}
	ids, err := s.index.Search(ctx, text, cat, limit)
	if err != nil {
		return nil, err
	}
	posts := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.GetPost(ctx, id)
		if errors.Is(err, errors.ErrNotFound) {
			s.log.Debug("Search hit no longer stored", "post_id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *PostService) Stats(ctx context.Context, currentUser string) (PostStats, error) {
	if currentUser == "" {
		return PostStats{}, errors.ErrNotSignedIn
	}
	list := func(query contract.Query) ([]domain.Post, error) {
		return call(ctx, s.opts.StoreTimeout, func(ctx context.Context) ([]domain.Post, error) {
			return s.posts.ListPosts(ctx, query)
		})
	}
	created, err := list(repositories.CreatedByQuery(currentUser))
	if err != nil {
		return PostStats{}, err
	}
	participating, err := list(repositories.InterestedQuery(currentUser))
	if err != nil {
		return PostStats{}, err
	}
	return PostStats{
		Created:       len(created),
		Participating: lo.CountBy(participating, func(p domain.Post) bool { return !p.IsCreator(currentUser) }),
	}, nil
}
