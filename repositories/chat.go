//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/errors"

	"github.com/samber/lo"
)

const ChatsCollection = "chats"

const (
	fieldPostID       = "postId"
	fieldParticipants = "participants"
	fieldSenderID     = "senderId"
	fieldText         = "text"
	fieldMessageID    = "messageId"
)

func MessagesCollection(channelID domain.ChannelID) string {
	return fmt.Sprintf("%s/%s/messages", ChatsCollection, channelID)
}

// SendKeysCollection maps the dedupe key of a send to the message id it reserved.
func SendKeysCollection(channelID domain.ChannelID) string {
	return fmt.Sprintf("%s/%s/sendKeys", ChatsCollection, channelID)
}

type IChatRepository interface {
	EnsureChannel(ctx context.Context, channel domain.Channel) error
	GetChannel(ctx context.Context, id domain.ChannelID) (domain.Channel, error)
	ListChannels(ctx context.Context, userID string) ([]domain.Channel, error)
	ReserveMessageID(ctx context.Context, id domain.ChannelID, dedupeKey, messageID string) (string, error)
	AppendMessage(ctx context.Context, message domain.Message) (string, error)
	TouchChannel(ctx context.Context, id domain.ChannelID) error
	ListMessages(ctx context.Context, id domain.ChannelID) ([]domain.Message, error)
	SubscribeMessages(ctx context.Context, id domain.ChannelID, onUpdate func([]domain.Message)) (contract.Unsubscribe, error)
}

type ChatRepository struct {
	store contract.DocumentStore
}

func NewChatRepository(store contract.DocumentStore) ChatRepository {
	return ChatRepository{store: store}
}

// EnsureChannel creates the channel document unless it already exists.
// An existing channel is left untouched, createdAt and messages included.
func (r ChatRepository) EnsureChannel(ctx context.Context, channel domain.Channel) error {
	_, err := r.store.CreateDocument(ctx, ChatsCollection, contract.Fields{
		fieldPostID:       channel.PostID,
		fieldParticipants: channel.Participants[:],
		fieldCreatedAt:    contract.ServerTimestamp,
		fieldUpdatedAt:    contract.ServerTimestamp,
	}, contract.WithDocumentID(channel.ID.String()))
	if errors.Is(err, errors.ErrAlreadyExists) {
		return nil
	}
	return err
}

func (r ChatRepository) GetChannel(ctx context.Context, id domain.ChannelID) (domain.Channel, error) {
	snapshot, err := r.store.GetDocument(ctx, ChatsCollection, id.String())
	if errors.Is(err, errors.ErrNotFound) {
		return domain.Channel{}, fmt.Errorf("%w: %s", errors.ErrChannelNotFound, id)
	}
	if err != nil {
		return domain.Channel{}, err
	}
	return toChannel(snapshot), nil
}

// ListChannels is the inbox of a user, most recently active first.
func (r ChatRepository) ListChannels(ctx context.Context, userID string) ([]domain.Channel, error) {
	snapshots, err := r.store.Query(ctx, contract.NewQuery(ChatsCollection).
		Where(fieldParticipants, contract.OpArrayContains, userID).
		OrderBy(fieldUpdatedAt, true))
	if err != nil {
		return nil, err
	}
	return lo.Map(snapshots, func(s contract.Snapshot, _ int) domain.Channel { return toChannel(s) }), nil
}

// ReserveMessageID binds dedupeKey to messageID unless the key is already
// bound, in which case the first message id is returned.
func (r ChatRepository) ReserveMessageID(ctx context.Context, id domain.ChannelID, dedupeKey, messageID string) (string, error) {
	_, err := r.store.CreateDocument(ctx, SendKeysCollection(id), contract.Fields{
		fieldMessageID: messageID,
		fieldCreatedAt: contract.ServerTimestamp,
	}, contract.WithDocumentID(dedupeKey))
	if !errors.Is(err, errors.ErrAlreadyExists) {
		return messageID, err
	}
	snapshot, err := r.store.GetDocument(ctx, SendKeysCollection(id), dedupeKey)
	if err != nil {
		return "", err
	}
	return snapshot.Fields.String(fieldMessageID), nil
}

// AppendMessage stores the message with a store timestamp. When message.ID is
// set, a message already stored under that id counts as success.
func (r ChatRepository) AppendMessage(ctx context.Context, message domain.Message) (string, error) {
	var opts []contract.CreateOption
	if message.ID != "" {
		opts = append(opts, contract.WithDocumentID(message.ID))
	}
	id, err := r.store.CreateDocument(ctx, MessagesCollection(message.ChannelID), contract.Fields{
		fieldSenderID:  message.SenderID,
		fieldText:      message.Text,
		fieldCreatedAt: contract.ServerTimestamp,
	}, opts...)
	if message.ID != "" && errors.Is(err, errors.ErrAlreadyExists) {
		return message.ID, nil
	}
	return id, err
}

func (r ChatRepository) TouchChannel(ctx context.Context, id domain.ChannelID) error {
	err := r.store.UpdateDocument(ctx, ChatsCollection, id.String(), contract.Fields{
		fieldUpdatedAt: contract.ServerTimestamp,
	})
	if errors.Is(err, errors.ErrNotFound) {
		return fmt.Errorf("%w: %s", errors.ErrChannelNotFound, id)
	}
	return err
}

func messagesQuery(id domain.ChannelID) contract.Query {
	return contract.NewQuery(MessagesCollection(id)).OrderBy(fieldCreatedAt, false)
}

func (r ChatRepository) ListMessages(ctx context.Context, id domain.ChannelID) ([]domain.Message, error) {
	snapshots, err := r.store.Query(ctx, messagesQuery(id))
	if err != nil {
		return nil, err
	}
	return toMessages(id, snapshots), nil
}

func (r ChatRepository) SubscribeMessages(ctx context.Context, id domain.ChannelID, onUpdate func([]domain.Message)) (contract.Unsubscribe, error) {
	return r.store.SubscribeQuery(ctx, messagesQuery(id), func(qs contract.QuerySnapshot) {
		onUpdate(toMessages(id, qs.Documents))
	})
}

func toChannel(s contract.Snapshot) domain.Channel {
	var participants [2]string
	copy(participants[:], s.Fields.Strings(fieldParticipants))
	return domain.Channel{
		ID:           domain.ChannelID(s.ID),
		PostID:       s.Fields.String(fieldPostID),
		Participants: participants,
		CreatedAt:    s.Fields.Time(fieldCreatedAt),
		UpdatedAt:    s.Fields.Time(fieldUpdatedAt),
	}
}

// toMessages applies the (createdAt, id) order whatever order the store returned.
func toMessages(id domain.ChannelID, snapshots []contract.Snapshot) []domain.Message {
	messages := lo.Map(snapshots, func(s contract.Snapshot, _ int) domain.Message {
		return domain.Message{
			ID:        s.ID,
			ChannelID: id,
			SenderID:  s.Fields.String(fieldSenderID),
			Text:      s.Fields.String(fieldText),
			CreatedAt: s.Fields.Time(fieldCreatedAt),
		}
	})
	domain.SortMessages(messages)
	return messages
}
