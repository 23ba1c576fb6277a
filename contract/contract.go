//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"taskmarket/domain/event"
	"time"
)

// Clock is injected wherever the store or the services need "now".
type Clock func() time.Time

type ISupervisor interface {
	Start(ctx context.Context, worker Worker)
	Stop()
	Wait()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Unsubscribe stops a live subscription and releases its resources.
// It is safe to call more than once.
type Unsubscribe func()

// DocumentStore is the hosted document database as the core consumes it.
// Collections are slash separated paths, e.g. "chats/{chatId}/messages".
type DocumentStore interface {
	// CreateDocument stores a new document and returns its id.
	// With WithDocumentID it fails with ErrAlreadyExists when the id is taken.
	CreateDocument(ctx context.Context, collection string, fields Fields, opts ...CreateOption) (string, error)
	// SetDocument writes the whole document, or only the given fields when merge is true.
	SetDocument(ctx context.Context, collection, id string, fields Fields, merge bool) error
	// UpdateDocument merges fields into an existing document, ErrNotFound otherwise.
	UpdateDocument(ctx context.Context, collection, id string, fields Fields, opts ...UpdateOption) error
	GetDocument(ctx context.Context, collection, id string) (Snapshot, error)
	Query(ctx context.Context, query Query) ([]Snapshot, error)
	// SubscribeQuery calls onSnapshot with the current results, then after every change.
	SubscribeQuery(ctx context.Context, query Query, onSnapshot func(QuerySnapshot)) (Unsubscribe, error)
	DeleteDocument(ctx context.Context, collection, id string) error
	Close() error
}

type BlobStore interface {
	// UploadBlob stores data under path and returns a URL to fetch it.
	UploadBlob(ctx context.Context, path string, data []byte) (string, error)
}

// EventSink receives domain events after the store acknowledged the write.
// Sinks maintain derived data; a failing sink never fails the operation.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}
