// Package domain contains core concepts of the task marketplace.
// This file defines Message events and related rules.
// Messages are immutable once appended to a channel.
package domain

import (
	"sort"
	"time"
)

// Message represents an immutable chat event.
type Message struct {
	ID        string // store assigned, time ordered
	ChannelID ChannelID
	SenderID  string
	Text      string
	CreatedAt time.Time
}

// SortMessages orders by creation time, ties broken by id.
func SortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.Before(messages[j].CreatedAt)
		}
		return messages[i].ID < messages[j].ID
	})
}
