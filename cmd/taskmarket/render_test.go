package main

import (
	"bytes"
	"fmt"
	"taskmarket/domain"
	"taskmarket/errors"
	"taskmarket/projection"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var renderNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestPrinter() (printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return newPrinter(&buf, false, func() time.Time { return renderNow }), &buf
}

func TestPrinter_Posts(t *testing.T) {
	req := require.New(t)
	p, buf := newTestPrinter()

	// Given two posts of different ages
	posts := []domain.Post{
		{ID: "p1", Category: domain.CategoryHome, Status: domain.StatusActive, Description: "Fix the sink",
			CreatedAt: renderNow.Add(-5 * time.Minute), InterestedUsers: []string{"u2", "u3"}, ConfirmedUserIDs: []string{"u2"}},
		{ID: "p2", Category: domain.CategoryRide, Status: domain.StatusFinished, Description: "Airport ride",
			CreatedAt: renderNow.Add(-50 * time.Hour)},
	}

	// When rendering them
	p.posts(posts)

	// Then every row carries its age and counters
	out := buf.String()
	req.Contains(out, "Fix the sink")
	req.Contains(out, "5m ago")
	req.Contains(out, "1/2")
	req.Contains(out, "2d ago")
	req.Contains(out, "Finished")
}

func TestPrinter_Empty_Lists(t *testing.T) {
	req := require.New(t)
	p, buf := newTestPrinter()

	p.posts(nil)
	p.channels(nil, "u1")

	req.Equal("No posts yet\nNo chats yet\n", buf.String())
}

func TestPrinter_Failure_Uses_Notification(t *testing.T) {
	req := require.New(t)
	p, buf := newTestPrinter()

	// When a wrapped domain error is printed
	p.failure(fmt.Errorf("send: %w", errors.ErrAwaitingConfirmation), "Send Failed")

	// Then the notification title and message are shown
	n := errors.Notify(errors.ErrAwaitingConfirmation, "Send Failed")
	req.Equal(n.Title+": "+n.Message+"\n", buf.String())
}

func TestPrinter_Messages_Marks_Own(t *testing.T) {
	req := require.New(t)
	p, buf := newTestPrinter()

	p.messages([]domain.Message{
		{ID: "m1", SenderID: "u2", Text: "hello", CreatedAt: renderNow.Add(-2 * time.Hour)},
		{ID: "m2", SenderID: "u1", Text: "hi", CreatedAt: renderNow},
	}, "u1")

	req.Equal("[2h ago] u2: hello\n[Just now] me: hi\n", buf.String())
}

func TestFindCommand(t *testing.T) {
	req := require.New(t)

	cmd, ok := findCommand("send")
	req.True(ok)
	req.True(cmd.signedIn)
	req.Equal("Send Failed", cmd.action)

	_, ok = findCommand("nope")
	req.False(ok)

	var buf bytes.Buffer
	usage(&buf)
	for _, c := range commands {
		req.Contains(buf.String(), c.name)
	}
}

func TestPrinter_Notices(t *testing.T) {
	req := require.New(t)
	p, buf := newTestPrinter()

	p.notices([]projection.Notice{{UserID: "bob", PostID: "p1", Text: "You were confirmed"}})

	req.Equal("notice bob: You were confirmed\n", buf.String())
}
