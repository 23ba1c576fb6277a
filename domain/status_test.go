package domain

import (
	"taskmarket/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPost_TransitionTo(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	post := Post{ID: "p", CreatorID: "creator", CreatedAt: createdAt, Status: StatusActive}

	tests := []struct {
		name     string
		from     PostStatus
		to       PostStatus
		at       time.Time
		changed  bool
		expected error
	}{
		{"active to completed", StatusActive, StatusCompleted, createdAt.Add(5 * time.Hour), true, nil},
		{"active to finished", StatusActive, StatusFinished, createdAt.Add(10 * time.Minute), true, nil},
		{"completed to finished", StatusCompleted, StatusFinished, createdAt.Add(48 * time.Hour), true, nil},
		{"reactivation inside the window", StatusCompleted, StatusActive, createdAt.Add(119 * time.Minute), true, nil},
		{"reactivation after the window", StatusFinished, StatusActive, createdAt.Add(3 * time.Hour), false, errors.ErrStaleReactivation},
		{"active to active after the window", StatusActive, StatusActive, createdAt.Add(3 * time.Hour), false, nil},
		{"unknown status", StatusActive, PostStatus("Archived"), createdAt, false, errors.ErrUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			p := post
			p.Status = tt.from

			next, changed, err := p.TransitionTo(p.CreatorID, tt.to, tt.at, DefaultReactivationWindow)

			if tt.expected != nil {
				req.ErrorIs(err, tt.expected)
				req.Equal(tt.from, next.Status)
				return
			}
			req.NoError(err)
			req.Equal(tt.changed, changed)
			req.Equal(tt.to, next.Status)
		})
	}
}

func TestPost_TransitionTo_Requires_Creator(t *testing.T) {
	req := require.New(t)
	post := Post{ID: "p", CreatorID: "creator", CreatedAt: time.Now(), Status: StatusActive}

	_, _, err := post.TransitionTo("someone-else", StatusCompleted, time.Now(), DefaultReactivationWindow)

	req.ErrorIs(err, errors.ErrNotCreator)
}
