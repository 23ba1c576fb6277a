package services

import (
	"context"
	"log/slog"
	"strings"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/errors"
	"taskmarket/repositories"

	"github.com/google/uuid"
)

type IChatService interface {
	CanSend(ctx context.Context, postID, senderID string) (bool, error)
	EnsureChannel(ctx context.Context, postID, userA, userB string) (domain.ChannelID, error)
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	Subscribe(ctx context.Context, channelID domain.ChannelID, onUpdate func([]domain.Message)) (contract.Unsubscribe, error)
	ListChannels(ctx context.Context, currentUser string) ([]domain.Channel, error)
	Messages(ctx context.Context, channelID domain.ChannelID) ([]domain.Message, error)
}

// sendKeyNamespace scopes the dedupe keys derived from client tokens.
var sendKeyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("taskmarket/send-keys"))

type ChatService struct {
	posts     repositories.IPostRepository
	chats     repositories.IChatRepository
	moderator censor
	opts      Options
	log       *slog.Logger
}

func NewChatService(
	posts repositories.IPostRepository,
	chats repositories.IChatRepository,
	moderator censor,
	opts Options,
	log *slog.Logger) *ChatService {
	return &ChatService{
		posts:     posts,
		chats:     chats,
		moderator: moderator,
		opts:      opts,
		log:       log,
	}
}

// CanSend reports whether senderID is currently confirmed on the post.
func (s *ChatService) CanSend(ctx context.Context, postID, senderID string) (bool, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return false, err
	}
	return post.IsConfirmed(senderID), nil
}

// EnsureChannel returns the channel of the post between userA and userB,
// creating it on first use. Either side gets the same channel.
func (s *ChatService) EnsureChannel(ctx context.Context, postID, userA, userB string) (domain.ChannelID, error) {
	id, err := domain.NewChannelID(postID, userA, userB)
	if err != nil {
		return "", err
	}
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return "", err
	}
	userA, userB = strings.TrimSpace(userA), strings.TrimSpace(userB)
	if !post.IsCreator(userA) && !post.IsCreator(userB) {
		return "", errors.ErrNotCreator
	}
	channel := domain.Channel{ID: id, PostID: postID, Participants: domain.SortedPair(userA, userB)}
	err = exec(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		return s.chats.EnsureChannel(ctx, channel)
	})
	if err != nil {
		return "", err
	}
	s.log.Debug("Channel ensured", "channel_id", id, "post_id", postID)
	return id, nil
}

// SendMessage appends a message once the gate allows it: the sender must be
// confirmed on the post at send time. A refused or invalid send writes nothing.
func (s *ChatService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}
	if cmd.SenderID == "" {
		return domain.Message{}, errors.ErrNotSignedIn
	}
	channel, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (domain.Channel, error) {
		return s.chats.GetChannel(ctx, cmd.ChannelID)
	})
	if err != nil {
		return domain.Message{}, err
	}
	if !channel.HasParticipant(cmd.SenderID) {
		return domain.Message{}, errors.ErrNotParticipant
	}
	allowed, err := s.CanSend(ctx, channel.PostID, cmd.SenderID)
	if err != nil {
		return domain.Message{}, err
	}
	if !allowed {
		s.log.Debug("Send refused, awaiting confirmation", "channel_id", channel.ID, "user_id", cmd.SenderID)
		return domain.Message{}, errors.ErrAwaitingConfirmation
	}

	if s.moderator != nil {
		text, _ = s.moderator.Censor(text)
	}
	message := domain.Message{ChannelID: channel.ID, SenderID: cmd.SenderID, Text: text}
	if cmd.ClientToken != "" {
		if message.ID, err = s.reserve(ctx, channel.ID, cmd.SenderID, cmd.ClientToken); err != nil {
			return domain.Message{}, err
		}
	}
	message.ID, err = call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (string, error) {
		return s.chats.AppendMessage(ctx, message)
	})
	if err != nil {
		return domain.Message{}, err
	}
	err = exec(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		return s.chats.TouchChannel(ctx, channel.ID)
	})
	if err != nil {
		s.log.Warn("Unable to bump channel", "channel_id", channel.ID, "error", err)
	}
	s.log.Debug("Message sent", "channel_id", channel.ID, "user_id", cmd.SenderID, "message_id", message.ID)
	return message, nil
}

// Subscribe delivers the whole ordered conversation, then again after every change.
// reserve returns the message id of a token-carrying send. The id is a time
// ordered v7 uuid; a retried send finds the id reserved by the first attempt.
func (s *ChatService) reserve(ctx context.Context, channelID domain.ChannelID, senderID, token string) (string, error) {
	candidate, err := uuid.NewV7()
	if err != nil {
		return "", errors.Transient(err)
	}
	dedupeKey := uuid.NewSHA1(sendKeyNamespace, []byte(senderID+"/"+token)).String()
	return call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (string, error) {
		return s.chats.ReserveMessageID(ctx, channelID, dedupeKey, candidate.String())
	})
}

func (s *ChatService) Subscribe(ctx context.Context, channelID domain.ChannelID, onUpdate func([]domain.Message)) (contract.Unsubscribe, error) {
	return call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (contract.Unsubscribe, error) {
		return s.chats.SubscribeMessages(ctx, channelID, onUpdate)
	})
}

func (s *ChatService) ListChannels(ctx context.Context, currentUser string) ([]domain.Channel, error) {
	if currentUser == "" {
		return nil, errors.ErrNotSignedIn
	}
	return call(ctx, s.opts.StoreTimeout, func(ctx context.Context) ([]domain.Channel, error) {
		return s.chats.ListChannels(ctx, currentUser)
	})
}

func (s *ChatService) Messages(ctx context.Context, channelID domain.ChannelID) ([]domain.Message, error) {
	return call(ctx, s.opts.StoreTimeout, func(ctx context.Context) ([]domain.Message, error) {
		return s.chats.ListMessages(ctx, channelID)
	})
}

func (s *ChatService) getPost(ctx context.Context, postID string) (domain.Post, error) {
	post, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (repositories.VersionedPost, error) {
		return s.posts.GetPost(ctx, postID)
	})
	return post.Post, err
}
