package domain

import (
	"taskmarket/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewChannelID_Is_Symmetric(t *testing.T) {
	req := require.New(t)

	fromAlice, err := NewChannelID("post-1", "alice", "bob")
	req.NoError(err)
	fromBob, err := NewChannelID("post-1", "bob", "alice")
	req.NoError(err)

	req.Equal(fromAlice, fromBob)
	req.Equal(ChannelID("post-1_alice_bob"), fromAlice)

	// Another post gives another channel
	other, err := NewChannelID("post-2", "alice", "bob")
	req.NoError(err)
	req.NotEqual(fromAlice, other)
}

func TestNewChannelID_Rejects_Invalid_Pairs(t *testing.T) {
	req := require.New(t)

	_, err := NewChannelID("post-1", "alice", "alice")
	req.ErrorIs(err, errors.ErrInvalidChannel)
	_, err = NewChannelID("post-1", "alice", " ")
	req.ErrorIs(err, errors.ErrValidation)
	_, err = NewChannelID("", "alice", "bob")
	req.ErrorIs(err, errors.ErrInvalidChannel)
}

func TestNewChannelID_Rejects_Separators(t *testing.T) {
	req := require.New(t)

	// Given ids that would otherwise collide: "p_a" + "b"/"c" and "p" + "a_b"/"c"
	_, err := NewChannelID("p_a", "b", "c")
	req.ErrorIs(err, errors.ErrInvalidChannel)
	_, err = NewChannelID("p", "a_b", "c")
	req.ErrorIs(err, errors.ErrInvalidChannel)
	_, err = NewChannelID("p", "a", "b:c")
	req.ErrorIs(err, errors.ErrInvalidChannel)

	// Then dashed uuids stay valid
	id, err := NewChannelID("0190-aa", "u-1", "u-2")
	req.NoError(err)
	req.Equal(ChannelID("0190-aa_u-1_u-2"), id)
}

func TestChannel_Counterpart(t *testing.T) {
	req := require.New(t)
	channel := Channel{ID: "c", PostID: "p", Participants: SortedPair("bob", "alice")}

	req.Equal([2]string{"alice", "bob"}, channel.Participants)
	req.Equal("bob", channel.Counterpart("alice"))
	req.Equal("alice", channel.Counterpart("bob"))
	req.Equal("", channel.Counterpart("mallory"))
	req.False(channel.HasParticipant("mallory"))
}

func TestSortMessages_Breaks_Ties_By_ID(t *testing.T) {
	req := require.New(t)
	at := time.Now().UTC()
	messages := []Message{
		{ID: "03", CreatedAt: at.Add(time.Second)},
		{ID: "02", CreatedAt: at},
		{ID: "01", CreatedAt: at},
	}

	SortMessages(messages)

	req.Equal("01", messages[0].ID)
	req.Equal("02", messages[1].ID)
	req.Equal("03", messages[2].ID)
}
