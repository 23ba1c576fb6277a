package services

import (
	"log/slog"
	"sync"
	"taskmarket/contract"
	"taskmarket/moderation"
	"taskmarket/repositories"
	"taskmarket/search"
	"taskmarket/sink"
	"taskmarket/storage"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	clock *manualClock
	store *storage.BadgerStore
	posts *PostService
	chats *ChatService
	repo  repositories.PostRepository
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.StoreTimeout = 5 * time.Second
	opts.MaxConflictRetries = 20
	return opts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	clock := &manualClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := storage.NewBadgerStore(db, log, clock.Now, 10*time.Millisecond)

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	index := search.NewPostIndex(writer, log)

	moderator, err := moderation.NewModerator([]string{"idiot"}, '*', log)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
		_ = db.Close()
		_ = writer.Close()
	})

	postRepo := repositories.NewPostRepository(store)
	chatRepo := repositories.NewChatRepository(store)
	sinks := []contract.EventSink{sink.NewSearchSink(index, log)}
	return &testEnv{
		clock: clock,
		store: store,
		posts: NewPostService(postRepo, index, moderator, sinks, clock.Now, testOptions(), log),
		chats: NewChatService(postRepo, chatRepo, moderator, testOptions(), log),
		repo:  postRepo,
	}
}
