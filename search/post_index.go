// Package search keeps a full-text index of post descriptions.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"taskmarket/domain"
	"taskmarket/errors"

	"github.com/blugelabs/bluge"
)

const (
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldCreatorID   = "creatorId"
	fieldLanguage    = "language"

	defaultLimit = 20
)

type IPostIndex interface {
	Index(post domain.Post) error
	Remove(postID string) error
	Search(ctx context.Context, text string, category domain.Category, limit int) ([]string, error)
}

// PostIndex is the bluge index of posts. The index is derived data: the
// document store stays the source of truth and search results are ids only.
type PostIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewPostIndex(writer *bluge.Writer, log *slog.Logger) *PostIndex {
	return &PostIndex{writer: writer, log: log}
}

func (i *PostIndex) Index(post domain.Post) error {
	doc := bluge.NewDocument(post.ID).
		AddField(bluge.NewTextField(fieldDescription, post.Description)).
		AddField(bluge.NewKeywordField(fieldCategory, string(post.Category))).
		AddField(bluge.NewKeywordField(fieldCreatorID, post.CreatorID)).
		AddField(bluge.NewKeywordField(fieldLanguage, post.Language))
	if err := i.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index post %s: %w", post.ID, err)
	}
	i.log.Debug("Post indexed", "post_id", post.ID)
	return nil
}

func (i *PostIndex) Remove(postID string) error {
	if err := i.writer.Delete(bluge.Identifier(postID)); err != nil {
		return fmt.Errorf("remove post %s: %w", postID, err)
	}
	return nil
}

// Search matches text against descriptions, best match first. An empty text
// matches everything, an empty category does not filter.
func (i *PostIndex) Search(ctx context.Context, text string, category domain.Category, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	query := bluge.NewBooleanQuery()
	if text = strings.TrimSpace(text); text != "" {
		query.AddMust(bluge.NewMatchQuery(text).SetField(fieldDescription))
	} else {
		query.AddMust(bluge.NewMatchAllQuery())
	}
	if category != "" {
		query.AddMust(bluge.NewTermQuery(string(category)).SetField(fieldCategory))
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, errors.Transient(err)
	}
	defer reader.Close()

	matches, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, errors.Transient(err)
	}

	var ids []string
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
				return false
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, errors.Transient(err)
	}
	return ids, nil
}
