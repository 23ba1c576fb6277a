// Package event defines what the post workflow publishes after a successful write.
package event

import (
	"taskmarket/domain"
)

// DomainEvent is emitted once the store acknowledged the change it describes.
type DomainEvent interface {
	PostID() string
}

type PostCreated struct {
	Post domain.Post
}

func (e PostCreated) PostID() string { return e.Post.ID }

type PostStatusChanged struct {
	Post domain.Post
	From domain.PostStatus
}

func (e PostStatusChanged) PostID() string { return e.Post.ID }

type PostDeleted struct {
	ID string
}

func (e PostDeleted) PostID() string { return e.ID }

type UserConfirmed struct {
	Post   domain.Post
	UserID string
}

func (e UserConfirmed) PostID() string { return e.Post.ID }
