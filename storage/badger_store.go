package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"taskmarket/contract"
	"taskmarket/errors"
	"taskmarket/runtime"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// maxTxnAttempts bounds the replays of a read-modify-write transaction that
// lost a badger commit race. The replay re-reads, so version guards still hold.
const maxTxnAttempts = 16

// BadgerStore is the embedded DocumentStore.
// A document lives under "doc:{collection}:{id}" and its value is an encoded envelope.
type BadgerStore struct {
	db         *badger.DB
	log        *slog.Logger
	clock      contract.Clock
	registry   *runtime.Registry
	supervisor contract.ISupervisor
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewBadgerStore(db *badger.DB, log *slog.Logger, clock contract.Clock, restartInterval time.Duration) *BadgerStore {
	ctx, cancel := context.WithCancel(context.Background())
	return &BadgerStore{
		db:         db,
		log:        log,
		clock:      clock,
		registry:   runtime.NewRegistry(),
		supervisor: runtime.NewSupervisor(log, restartInterval),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// DocumentKeyPrefix starts the key of every stored document.
const DocumentKeyPrefix = "doc:"

func docPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("%s%s:", DocumentKeyPrefix, collection))
}

func docKey(collection, id string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", DocumentKeyPrefix, collection, id))
}

// DecodeEntry turns a raw badger entry back into a snapshot, for inspection tools.
func DecodeEntry(key string, value []byte) (contract.Snapshot, error) {
	rest, ok := strings.CutPrefix(key, DocumentKeyPrefix)
	i := strings.LastIndex(rest, ":")
	if !ok || i <= 0 || i == len(rest)-1 {
		return contract.Snapshot{}, fmt.Errorf("%w: key %q", errors.ErrInvalidDocument, key)
	}
	e, err := decodeEnvelope(value)
	if err != nil {
		return contract.Snapshot{}, err
	}
	return e.snapshot(rest[:i], rest[i+1:]), nil
}

func (s *BadgerStore) CreateDocument(ctx context.Context, collection string, fields contract.Fields, opts ...contract.CreateOption) (string, error) {
	if err := validateCollection(collection); err != nil {
		return "", err
	}
	id := contract.ApplyCreateOptions(opts...).ID
	if id == "" {
		generated, err := uuid.NewV7()
		if err != nil {
			return "", errors.Transient(err)
		}
		id = generated.String()
	}
	if err := validateID(id); err != nil {
		return "", err
	}

	key := docKey(collection, id)
	err := s.update(ctx, func(txn *badger.Txn) error {
		_, found, err := readEnvelope(txn, key)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: %s/%s", errors.ErrAlreadyExists, collection, id)
		}
		now := s.clock().UTC()
		return writeEnvelope(txn, key, envelope{
			Fields:     applyWrite(nil, fields, false, now),
			Version:    1,
			CreateTime: now,
			UpdateTime: now,
		})
	})
	if err != nil {
		return "", err
	}
	s.registry.Notify(collection)
	return id, nil
}

func (s *BadgerStore) SetDocument(ctx context.Context, collection, id string, fields contract.Fields, merge bool) error {
	if err := validatePath(collection, id); err != nil {
		return err
	}
	key := docKey(collection, id)
	err := s.update(ctx, func(txn *badger.Txn) error {
		existing, found, err := readEnvelope(txn, key)
		if err != nil {
			return err
		}
		now := s.clock().UTC()
		if !found {
			existing = envelope{CreateTime: now}
		}
		return writeEnvelope(txn, key, envelope{
			Fields:     applyWrite(existing.Fields, fields, merge, now),
			Version:    existing.Version + 1,
			CreateTime: existing.CreateTime,
			UpdateTime: now,
		})
	})
	if err != nil {
		return err
	}
	s.registry.Notify(collection)
	return nil
}

func (s *BadgerStore) UpdateDocument(ctx context.Context, collection, id string, fields contract.Fields, opts ...contract.UpdateOption) error {
	if err := validatePath(collection, id); err != nil {
		return err
	}
	options := contract.ApplyUpdateOptions(opts...)
	key := docKey(collection, id)
	err := s.update(ctx, func(txn *badger.Txn) error {
		existing, found, err := readEnvelope(txn, key)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s/%s", errors.ErrNotFound, collection, id)
		}
		if options.Version != nil && *options.Version != existing.Version {
			return fmt.Errorf("%w: %s/%s is at version %d, expected %d",
				errors.ErrConflict, collection, id, existing.Version, *options.Version)
		}
		now := s.clock().UTC()
		return writeEnvelope(txn, key, envelope{
			Fields:     applyWrite(existing.Fields, fields, true, now),
			Version:    existing.Version + 1,
			CreateTime: existing.CreateTime,
			UpdateTime: now,
		})
	})
	if err != nil {
		return err
	}
	s.registry.Notify(collection)
	return nil
}

func (s *BadgerStore) GetDocument(ctx context.Context, collection, id string) (contract.Snapshot, error) {
	if err := validatePath(collection, id); err != nil {
		return contract.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return contract.Snapshot{}, errors.Transient(err)
	}
	var snapshot contract.Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		e, found, err := readEnvelope(txn, docKey(collection, id))
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s/%s", errors.ErrNotFound, collection, id)
		}
		snapshot = e.snapshot(collection, id)
		return nil
	})
	if err != nil {
		return contract.Snapshot{}, mapError(err)
	}
	return snapshot, nil
}

// Query scans the whole collection prefix and evaluates the query in memory.
func (s *BadgerStore) Query(ctx context.Context, query contract.Query) ([]contract.Snapshot, error) {
	if err := validateCollection(query.Collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Transient(err)
	}
	var docs []contract.Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := docPrefix(query.Collection)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			id := string(item.Key()[len(prefix):])
			err := item.Value(func(value []byte) error {
				e, err := decodeEnvelope(value)
				if err != nil {
					return err
				}
				docs = append(docs, e.snapshot(query.Collection, id))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return applyQuery(docs, query), nil
}

// SubscribeQuery starts a supervised subscription. It lives until the returned
// Unsubscribe is called or the store is closed, independently of ctx.
func (s *BadgerStore) SubscribeQuery(ctx context.Context, query contract.Query, onSnapshot func(contract.QuerySnapshot)) (contract.Unsubscribe, error) {
	if err := validateCollection(query.Collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Transient(err)
	}
	if err := s.ctx.Err(); err != nil {
		return nil, errors.Transient(err)
	}

	subscriptionID := uuid.NewString()
	fetch := func(ctx context.Context) (contract.QuerySnapshot, error) {
		docs, err := s.Query(ctx, query)
		if err != nil {
			return contract.QuerySnapshot{}, err
		}
		return contract.QuerySnapshot{Documents: docs, ReadTime: s.clock().UTC()}, nil
	}
	sub := runtime.NewSubscription(subscriptionID, s.log, fetch, onSnapshot)
	subCtx, cancel := context.WithCancel(s.ctx)
	s.registry.Subscribe(subscriptionID, query.Collection, sub)
	s.supervisor.Start(subCtx, sub)
	s.log.Debug("Subscription started", "subscription_id", subscriptionID, "collection", query.Collection)

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.Close()
			cancel()
			s.registry.Unsubscribe(subscriptionID, query.Collection)
			s.log.Debug("Subscription stopped", "subscription_id", subscriptionID)
		})
	}, nil
}

// DeleteDocument is a no-op on a missing document.
func (s *BadgerStore) DeleteDocument(ctx context.Context, collection, id string) error {
	if err := validatePath(collection, id); err != nil {
		return err
	}
	err := s.update(ctx, func(txn *badger.Txn) error {
		return txn.Delete(docKey(collection, id))
	})
	if err != nil {
		return err
	}
	s.registry.Notify(collection)
	return nil
}

// Close stops every subscription. The badger database stays open, its owner closes it.
func (s *BadgerStore) Close() error {
	s.cancel()
	s.supervisor.Stop()
	s.supervisor.Wait()
	return nil
}

func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return errors.Transient(err)
		}
		err := s.db.Update(fn)
		if errors.Is(err, badger.ErrConflict) && attempt < maxTxnAttempts {
			s.log.Debug("Badger transaction conflict, replaying", "attempt", attempt)
			continue
		}
		return mapError(err)
	}
}

func validatePath(collection, id string) error {
	if err := validateCollection(collection); err != nil {
		return err
	}
	return validateID(id)
}

func readEnvelope(txn *badger.Txn, key []byte) (envelope, bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return envelope{}, false, nil
	}
	if err != nil {
		return envelope{}, false, err
	}
	var e envelope
	err = item.Value(func(value []byte) error {
		e, err = decodeEnvelope(value)
		return err
	})
	return e, err == nil, err
}

func writeEnvelope(txn *badger.Txn, key []byte, e envelope) error {
	data, err := encodeEnvelope(e)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func (e envelope) snapshot(collection, id string) contract.Snapshot {
	fields := e.Fields
	if fields == nil {
		fields = contract.Fields{}
	}
	return contract.Snapshot{
		ID:         id,
		Collection: collection,
		Fields:     fields,
		Version:    e.Version,
		CreateTime: e.CreateTime,
		UpdateTime: e.UpdateTime,
	}
}

// mapError keeps the store's own errors and classifies everything else.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errors.ErrValidation),
		errors.Is(err, errors.ErrNotFound),
		errors.Is(err, errors.ErrConflict),
		errors.Is(err, errors.ErrAlreadyExists),
		errors.Is(err, errors.ErrTransientStore):
		return err
	case errors.Is(err, badger.ErrKeyNotFound):
		return fmt.Errorf("%w: %w", errors.ErrNotFound, err)
	case errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("%w: %w", errors.ErrConflict, err)
	default:
		return errors.Transient(err)
	}
}
