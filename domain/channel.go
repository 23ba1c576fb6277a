// Package domain contains core concepts of the task marketplace.
// This file defines chat Channels and their deterministic identifiers.
package domain

import (
	"fmt"
	"sort"
	"strings"
	"taskmarket/errors"
	"time"

	"github.com/samber/lo"
)

type ChannelID string

// channelIDReserved holds the key separator and the characters document ids forbid.
const channelIDReserved = "_/:"

func (c ChannelID) String() string { return string(c) }

// SortedPair orders two participant ids so that both sides derive the same key.
func SortedPair(a, b string) [2]string {
	pair := []string{a, b}
	sort.Strings(pair)
	return [2]string{pair[0], pair[1]}
}

// NewChannelID derives the channel key from the post and the sorted participant pair.
// Channels are post-scoped: two users sharing several posts get one channel per post.
func NewChannelID(postID, userA, userB string) (ChannelID, error) {
	userA, userB = strings.TrimSpace(userA), strings.TrimSpace(userB)
	if postID == "" || userA == "" || userB == "" || userA == userB {
		return "", errors.ErrInvalidChannel
	}
	for _, id := range []string{postID, userA, userB} {
		if strings.ContainsAny(id, channelIDReserved) {
			return "", fmt.Errorf("%w: id %q contains one of %q", errors.ErrInvalidChannel, id, channelIDReserved)
		}
	}
	pair := SortedPair(userA, userB)
	return ChannelID(fmt.Sprintf("%s_%s_%s", postID, pair[0], pair[1])), nil
}

type Channel struct {
	ID           ChannelID
	PostID       string
	Participants [2]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c Channel) HasParticipant(userID string) bool {
	return lo.Contains(c.Participants[:], userID)
}

// Counterpart returns the other participant, or "" when userID is not part of the channel.
func (c Channel) Counterpart(userID string) string {
	switch userID {
	case c.Participants[0]:
		return c.Participants[1]
	case c.Participants[1]:
		return c.Participants[0]
	default:
		return ""
	}
}
