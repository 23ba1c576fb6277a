package sink_test

import (
	"context"
	"io"
	"log/slog"
	"taskmarket/domain"
	"taskmarket/domain/event"
	"taskmarket/search"
	"taskmarket/sink"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func TestSearchSink_Consume(t *testing.T) {
	req := require.New(t)
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	defer writer.Close()
	// Silencing logs for clean test output
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	index := search.NewPostIndex(writer, logger)
	s := sink.NewSearchSink(index, logger)
	ctx := context.Background()
	post := domain.Post{ID: "p1", Category: domain.CategoryTechnical, Description: "Install a ceiling fan"}

	// When the post is created
	req.NoError(s.Consume(ctx, event.PostCreated{Post: post}))

	// Then it can be found
	ids, err := index.Search(ctx, "fan", "", 10)
	req.NoError(err)
	req.Equal([]string{"p1"}, ids)

	// When its status changes nothing is reindexed
	req.NoError(s.Consume(ctx, event.PostStatusChanged{Post: post, From: domain.StatusActive}))

	// When it is deleted
	req.NoError(s.Consume(ctx, event.PostDeleted{ID: "p1"}))

	// Then it is gone
	ids, err = index.Search(ctx, "fan", "", 10)
	req.NoError(err)
	req.Empty(ids)
}
