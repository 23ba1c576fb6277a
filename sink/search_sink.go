package sink

import (
	"context"
	"fmt"
	"log/slog"
	"taskmarket/domain/event"
	"taskmarket/search"
)

// SearchSink keeps the post search index in step with the store.
type SearchSink struct {
	index search.IPostIndex
	log   *slog.Logger
}

func NewSearchSink(index search.IPostIndex, log *slog.Logger) SearchSink {
	return SearchSink{index: index, log: log}
}

func (s SearchSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.PostCreated:
		return s.index.Index(evt.Post)
	case event.PostDeleted:
		return s.index.Remove(evt.ID)
	default:
		s.log.Debug(fmt.Sprintf("Not indexed event : %T", evt))
		return nil
	}
}
