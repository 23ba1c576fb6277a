package search

import (
	"context"
	"log/slog"
	"taskmarket/domain"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *PostIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewPostIndex(writer, slog.Default())
}

func TestPostIndex_Search(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	ctx := context.Background()

	// Given three indexed posts
	req.NoError(index.Index(domain.Post{ID: "p1", Category: domain.CategoryHome, Description: "Fix the kitchen sink", CreatorID: "u1"}))
	req.NoError(index.Index(domain.Post{ID: "p2", Category: domain.CategoryRide, Description: "Ride to the airport tomorrow", CreatorID: "u2"}))
	req.NoError(index.Index(domain.Post{ID: "p3", Category: domain.CategoryHome, Description: "Paint the kitchen walls", CreatorID: "u1"}))

	// When searching by text
	ids, err := index.Search(ctx, "kitchen", "", 10)
	req.NoError(err)
	req.ElementsMatch([]string{"p1", "p3"}, ids)

	// When searching by text and category
	ids, err = index.Search(ctx, "airport", domain.CategoryRide, 10)
	req.NoError(err)
	req.Equal([]string{"p2"}, ids)

	// When the category excludes the match
	ids, err = index.Search(ctx, "airport", domain.CategoryHome, 10)
	req.NoError(err)
	req.Empty(ids)

	// When only the category is given
	ids, err = index.Search(ctx, "", domain.CategoryHome, 10)
	req.NoError(err)
	req.ElementsMatch([]string{"p1", "p3"}, ids)
}

func TestPostIndex_Remove(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	ctx := context.Background()
	req.NoError(index.Index(domain.Post{ID: "p1", Category: domain.CategoryHome, Description: "Fix the kitchen sink"}))

	req.NoError(index.Remove("p1"))

	ids, err := index.Search(ctx, "kitchen", "", 10)
	req.NoError(err)
	req.Empty(ids)
}

func TestPostIndex_Reindex_Replaces_Document(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	ctx := context.Background()
	req.NoError(index.Index(domain.Post{ID: "p1", Category: domain.CategoryHome, Description: "Fix the kitchen sink"}))

	req.NoError(index.Index(domain.Post{ID: "p1", Category: domain.CategoryHome, Description: "Mow the lawn"}))

	ids, err := index.Search(ctx, "kitchen", "", 10)
	req.NoError(err)
	req.Empty(ids)
	ids, err = index.Search(ctx, "lawn", "", 10)
	req.NoError(err)
	req.Equal([]string{"p1"}, ids)
}
