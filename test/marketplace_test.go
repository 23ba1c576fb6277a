package test

import (
	"context"
	"fmt"
	"log/slog"
	"taskmarket/auth"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/errors"
	"taskmarket/moderation"
	"taskmarket/repositories"
	"taskmarket/search"
	"taskmarket/services"
	"taskmarket/sink"
	"taskmarket/storage"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

const testSecret = "integration-secret-integration-secret"

// MarketplaceSuite runs the whole post and chat workflow against one store backend.
type MarketplaceSuite struct {
	suite.Suite
	Config Config
	// openStore returns a fresh store for the current test
	openStore func(t *testing.T) contract.DocumentStore

	log   *slog.Logger
	store contract.DocumentStore
	users repositories.UserRepository
	posts *services.PostService
	chats *services.ChatService
}

func (s *MarketplaceSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	s.log = logs.GetLoggerFromLevel(slog.LevelDebug)
}

func (s *MarketplaceSuite) SetupTest() {
	t := s.T()
	s.store = s.openStore(t)

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	s.Require().NoError(err)
	t.Cleanup(func() { _ = writer.Close() })
	index := search.NewPostIndex(writer, s.log)

	moderator, err := moderation.NewModerator([]string{"idiot"}, '*', s.log)
	s.Require().NoError(err)

	opts := services.DefaultOptions()
	opts.MaxConflictRetries = 20
	clock := func() time.Time { return time.Now().UTC() }
	postRepository := repositories.NewPostRepository(s.store)
	s.users = repositories.NewUserRepository(s.store)
	s.posts = services.NewPostService(postRepository, index, moderator,
		[]contract.EventSink{sink.NewSearchSink(index, s.log)}, clock, opts, s.log)
	s.chats = services.NewChatService(postRepository, repositories.NewChatRepository(s.store), moderator, opts, s.log)
}

func (s *MarketplaceSuite) step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// signUp registers a user on its own device, i.e. its own session store.
func (s *MarketplaceSuite) signUp(ctx context.Context, first, email string) auth.Session {
	tokens, err := auth.NewTokenIssuer(testSecret, time.Hour, func() time.Time { return time.Now().UTC() })
	s.Require().NoError(err)
	service := services.NewAuthService(s.users, tokens, &auth.MemorySessionStore{}, services.DefaultOptions(), s.log)
	session, err := service.SignUp(ctx, domain.SignUpCommand{
		FirstName:       first,
		LastName:        "Tester",
		Phone:           "0600000000",
		Address:         "1 rue de la Paix",
		Email:           email,
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	s.Require().NoError(err)
	return session
}

func (s *MarketplaceSuite) TestPost_Chat_Workflow() {
	req := s.Require()
	ctx := context.Background()

	s.step("Sign up")
	alice := s.signUp(ctx, "Alice", "alice@example.com")
	bob := s.signUp(ctx, "Bob", "bob@example.com")

	s.step("Alice posts a task")
	post, err := s.posts.CreatePost(ctx, domain.CreatePostCommand{
		CreatorID:   alice.UserID,
		Category:    string(domain.CategoryHome),
		Description: "Help me move a sofa on Saturday",
	})
	req.NoError(err)

	s.step("Bob accepts the task and opens the chat")
	req.NoError(s.posts.ExpressInterest(ctx, bob.UserID, post.ID))
	channelID, err := s.chats.EnsureChannel(ctx, post.ID, bob.UserID, alice.UserID)
	req.NoError(err)

	s.step("The chat stays locked until Alice confirms Bob")
	_, err = s.chats.SendMessage(ctx, domain.SendMessageCommand{ChannelID: channelID, SenderID: bob.UserID, Text: "Hi!"})
	req.ErrorIs(err, errors.ErrAwaitingConfirmation)
	canSend, err := s.chats.CanSend(ctx, post.ID, bob.UserID)
	req.NoError(err)
	req.False(canSend)

	req.NoError(s.posts.ConfirmUser(ctx, alice.UserID, post.ID, bob.UserID))

	s.step("Bob writes once confirmed, the creator is never confirmed on their own post")
	_, err = s.chats.SendMessage(ctx, domain.SendMessageCommand{ChannelID: channelID, SenderID: bob.UserID, Text: "Hi!", ClientToken: uuid.NewString()})
	req.NoError(err)
	_, err = s.chats.SendMessage(ctx, domain.SendMessageCommand{ChannelID: channelID, SenderID: bob.UserID, Text: "Saturday works"})
	req.NoError(err)
	_, err = s.chats.SendMessage(ctx, domain.SendMessageCommand{ChannelID: channelID, SenderID: alice.UserID, Text: "See you Saturday"})
	req.ErrorIs(err, errors.ErrAwaitingConfirmation)

	messages, err := s.chats.Messages(ctx, channelID)
	req.NoError(err)
	req.Len(messages, 2)
	req.Equal(bob.UserID, messages[0].SenderID)
	req.Equal("Saturday works", messages[1].Text)

	inbox, err := s.chats.ListChannels(ctx, alice.UserID)
	req.NoError(err)
	req.Len(inbox, 1)
	req.Equal(channelID, inbox[0].ID)

	s.step("Alice completes the post")
	req.NoError(s.posts.SetStatus(ctx, alice.UserID, post.ID, domain.StatusCompleted))
	err = s.posts.ExpressInterest(ctx, uuid.NewString(), post.ID)
	req.ErrorIs(err, errors.ErrPostNotActive)

	stats, err := s.posts.Stats(ctx, bob.UserID)
	req.NoError(err)
	req.Equal(1, stats.Participating)
}

func (s *MarketplaceSuite) TestFeed_Subscription_Follows_Writes() {
	req := s.Require()
	ctx := context.Background()
	alice := s.signUp(ctx, "Alice", "alice@example.com")

	updates := make(chan []domain.Post, 16)
	unsubscribe, err := s.posts.SubscribeFeed(ctx, func(posts []domain.Post) { updates <- posts })
	req.NoError(err)
	defer unsubscribe()

	post, err := s.posts.CreatePost(ctx, domain.CreatePostCommand{
		CreatorID:   alice.UserID,
		Category:    string(domain.CategoryRide),
		Description: "Ride to the station",
	})
	req.NoError(err)

	req.Eventually(func() bool {
		for {
			select {
			case posts := <-updates:
				if len(posts) == 1 && posts[0].ID == post.ID {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 20*time.Millisecond)

	req.NoError(s.posts.DeletePost(ctx, alice.UserID, post.ID))
	_, err = s.posts.GetPost(ctx, post.ID)
	req.ErrorIs(err, errors.ErrPostNotFound)
}

func (s *MarketplaceSuite) TestSignUp_Rejects_Taken_Email() {
	ctx := context.Background()
	s.signUp(ctx, "Alice", "alice@example.com")

	tokens, err := auth.NewTokenIssuer(testSecret, time.Hour, time.Now)
	s.Require().NoError(err)
	service := services.NewAuthService(s.users, tokens, &auth.MemorySessionStore{}, services.DefaultOptions(), s.log)
	_, err = service.SignUp(ctx, domain.SignUpCommand{
		FirstName: "Other", LastName: "Alice", Phone: "1", Address: "2",
		Email: "ALICE@example.com", Password: "secret123", ConfirmPassword: "secret123",
	})
	s.Require().ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestMarketplace_Badger(t *testing.T) {
	suite.Run(t, &MarketplaceSuite{openStore: func(t *testing.T) contract.DocumentStore {
		db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
			WithLoggingLevel(badger.ERROR).
			WithValueLogFileSize(16 << 20))
		if err != nil {
			t.Fatal(err)
		}
		store := storage.NewBadgerStore(db, logs.GetLoggerFromLevel(slog.LevelDebug), func() time.Time { return time.Now().UTC() }, 10*time.Millisecond)
		t.Cleanup(func() {
			_ = store.Close()
			_ = db.Close()
		})
		return store
	}})
}

func TestMarketplace_Mongo(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if config.MongoURI == "" {
		t.Skip("MONGO_URI not set")
	}
	suite.Run(t, &MarketplaceSuite{openStore: func(t *testing.T) contract.DocumentStore {
		ctx := context.Background()
		client, err := storage.ConnectMongo(ctx, config.MongoURI)
		if err != nil {
			t.Fatal(err)
		}
		// One database per test so runs never see each other's documents
		db := client.Database(fmt.Sprintf("%s_%d", config.MongoDatabase, time.Now().UnixNano()))
		store := storage.NewMongoStore(db, logs.GetLoggerFromLevel(slog.LevelDebug), func() time.Time { return time.Now().UTC() }, 50*time.Millisecond, false)
		t.Cleanup(func() {
			_ = store.Close()
			_ = db.Drop(ctx)
			_ = client.Disconnect(ctx)
		})
		return store
	}})
}
