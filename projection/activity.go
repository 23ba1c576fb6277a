// Package projection builds per-user activity notices from domain events.
// It only observes: it never emits events nor writes to the store.
package projection

import (
	"context"
	"fmt"
	"sync"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/domain/event"
	"time"
)

// Notice is one line of a user's activity feed.
type Notice struct {
	UserID string
	PostID string
	At     time.Time
	Text   string
}

// Activity keeps the notices produced while the process runs, oldest first.
// It is an EventSink and safe for concurrent use.
type Activity struct {
	mu      sync.Mutex
	clock   contract.Clock
	notices []Notice
}

func NewActivity(clock contract.Clock) *Activity {
	return &Activity{clock: clock}
}

func (a *Activity) Consume(_ context.Context, e event.DomainEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	at := a.clock()
	switch evt := e.(type) {
	case event.PostCreated:
		a.add(evt.Post.CreatorID, evt.Post.ID, at, fmt.Sprintf("Your %s post is live", evt.Post.Category))
	case event.UserConfirmed:
		a.add(evt.UserID, evt.Post.ID, at, "You were confirmed, the chat with the post owner is open")
	case event.PostStatusChanged:
		text := fmt.Sprintf("Post moved from %s to %s", evt.From, evt.Post.Status)
		for _, uid := range recipients(evt.Post) {
			a.add(uid, evt.Post.ID, at, text)
		}
	case event.PostDeleted:
		// the participants are gone with the document
	}
	return nil
}

func (a *Activity) add(userID, postID string, at time.Time, text string) {
	a.notices = append(a.notices, Notice{UserID: userID, PostID: postID, At: at, Text: text})
}

// For returns the notices of one user.
func (a *Activity) For(userID string) []Notice {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Notice
	for _, n := range a.notices {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// Drain returns every notice and empties the feed.
func (a *Activity) Drain() []Notice {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.notices
	a.notices = nil
	return out
}

// recipients are the creator and the confirmed helpers of a post.
func recipients(post domain.Post) []string {
	return append([]string{post.CreatorID}, post.ConfirmedUserIDs...)
}
