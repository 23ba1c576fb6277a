//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=../mocks/mock_post.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/errors"

	"github.com/samber/lo"
)

const PostsCollection = "posts"

const (
	fieldCategory         = "category"
	fieldDescription      = "description"
	fieldCreatorID        = "creatorId"
	fieldCreatedAt        = "createdAt"
	fieldUpdatedAt        = "updatedAt"
	fieldStatus           = "status"
	fieldInterestedUsers  = "interestedUsers"
	fieldConfirmedUserIDs = "confirmedUserIds"
	fieldLanguage         = "language"
)

type IPostRepository interface {
	CreatePost(ctx context.Context, post domain.Post) (string, error)
	GetPost(ctx context.Context, id string) (VersionedPost, error)
	AddInterest(ctx context.Context, id, userID string, version int64) error
	SetConfirmed(ctx context.Context, id string, confirmed []string, version int64) error
	SetStatus(ctx context.Context, id string, status domain.PostStatus, version int64) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, query contract.Query) ([]domain.Post, error)
	SubscribePosts(ctx context.Context, query contract.Query, onUpdate func([]domain.Post)) (contract.Unsubscribe, error)
}

// VersionedPost carries the store version a later conditional write is checked against.
type VersionedPost struct {
	domain.Post
	Version int64
}

type PostRepository struct {
	store contract.DocumentStore
}

func NewPostRepository(store contract.DocumentStore) PostRepository {
	return PostRepository{store: store}
}

// FeedQuery is the home feed: every post, newest first.
func FeedQuery() contract.Query {
	return contract.NewQuery(PostsCollection).OrderBy(fieldCreatedAt, true)
}

func CreatedByQuery(userID string) contract.Query {
	return contract.NewQuery(PostsCollection).
		Where(fieldCreatorID, contract.OpEqual, userID).
		OrderBy(fieldCreatedAt, true)
}

// InterestedQuery lists the posts a user has accepted.
func InterestedQuery(userID string) contract.Query {
	return contract.NewQuery(PostsCollection).
		Where(fieldInterestedUsers, contract.OpArrayContains, userID).
		OrderBy(fieldCreatedAt, true)
}

func PostQuery(id string) contract.Query {
	return contract.DocumentQuery(PostsCollection, id)
}

// CreatePost stores a new Active post. createdAt comes from the store clock.
func (r PostRepository) CreatePost(ctx context.Context, post domain.Post) (string, error) {
	return r.store.CreateDocument(ctx, PostsCollection, contract.Fields{
		fieldCategory:         string(post.Category),
		fieldDescription:      post.Description,
		fieldCreatorID:        post.CreatorID,
		fieldCreatedAt:        contract.ServerTimestamp,
		fieldUpdatedAt:        contract.ServerTimestamp,
		fieldStatus:           string(domain.StatusActive),
		fieldInterestedUsers:  []string{},
		fieldConfirmedUserIDs: []string{},
		fieldLanguage:         post.Language,
	})
}

func (r PostRepository) GetPost(ctx context.Context, id string) (VersionedPost, error) {
	snapshot, err := r.store.GetDocument(ctx, PostsCollection, id)
	if err != nil {
		return VersionedPost{}, postError(err, id)
	}
	post := toPost(snapshot)
	if err := post.CheckInvariants(); err != nil {
		return VersionedPost{}, fmt.Errorf("%w: post %s: %v", errors.ErrInvalidDocument, id, err)
	}
	return VersionedPost{Post: post, Version: snapshot.Version}, nil
}

// AddInterest is a set-union, conditional on the version the caller checked the post at.
func (r PostRepository) AddInterest(ctx context.Context, id, userID string, version int64) error {
	err := r.store.UpdateDocument(ctx, PostsCollection, id, contract.Fields{
		fieldInterestedUsers: contract.ArrayUnion(userID),
		fieldUpdatedAt:       contract.ServerTimestamp,
	}, contract.WithVersion(version))
	return postError(err, id)
}

func (r PostRepository) SetConfirmed(ctx context.Context, id string, confirmed []string, version int64) error {
	err := r.store.UpdateDocument(ctx, PostsCollection, id, contract.Fields{
		fieldConfirmedUserIDs: confirmed,
		fieldUpdatedAt:        contract.ServerTimestamp,
	}, contract.WithVersion(version))
	return postError(err, id)
}

func (r PostRepository) SetStatus(ctx context.Context, id string, status domain.PostStatus, version int64) error {
	err := r.store.UpdateDocument(ctx, PostsCollection, id, contract.Fields{
		fieldStatus:    string(status),
		fieldUpdatedAt: contract.ServerTimestamp,
	}, contract.WithVersion(version))
	return postError(err, id)
}

func (r PostRepository) DeletePost(ctx context.Context, id string) error {
	return r.store.DeleteDocument(ctx, PostsCollection, id)
}

func (r PostRepository) ListPosts(ctx context.Context, query contract.Query) ([]domain.Post, error) {
	snapshots, err := r.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return lo.Map(snapshots, func(s contract.Snapshot, _ int) domain.Post { return toPost(s) }), nil
}

func (r PostRepository) SubscribePosts(ctx context.Context, query contract.Query, onUpdate func([]domain.Post)) (contract.Unsubscribe, error) {
	return r.store.SubscribeQuery(ctx, query, func(qs contract.QuerySnapshot) {
		onUpdate(lo.Map(qs.Documents, func(s contract.Snapshot, _ int) domain.Post { return toPost(s) }))
	})
}

func postError(err error, id string) error {
	if errors.Is(err, errors.ErrNotFound) {
		return fmt.Errorf("%w: %s", errors.ErrPostNotFound, id)
	}
	return err
}

func toPost(s contract.Snapshot) domain.Post {
	createdAt := s.Fields.Time(fieldCreatedAt)
	if createdAt.IsZero() {
		createdAt = s.CreateTime
	}
	return domain.Post{
		ID:               s.ID,
		Category:         domain.Category(s.Fields.String(fieldCategory)),
		Description:      s.Fields.String(fieldDescription),
		CreatorID:        s.Fields.String(fieldCreatorID),
		CreatedAt:        createdAt,
		UpdatedAt:        s.Fields.Time(fieldUpdatedAt),
		Status:           domain.PostStatus(s.Fields.String(fieldStatus)),
		InterestedUsers:  s.Fields.Strings(fieldInterestedUsers),
		ConfirmedUserIDs: s.Fields.Strings(fieldConfirmedUserIDs),
		Language:         s.Fields.String(fieldLanguage),
	}
}
