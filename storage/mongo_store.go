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

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Metadata kept next to the document fields. Field names starting with "_"
// are reserved for it.
const (
	mongoID         = "_id"
	mongoDocID      = "_docId"
	mongoParent     = "_parent"
	mongoVersion    = "_version"
	mongoCreateTime = "_createTime"
	mongoUpdateTime = "_updateTime"
)

var mongoMeta = []string{mongoID, mongoDocID, mongoParent, mongoVersion, mongoCreateTime, mongoUpdateTime}

// ConnectMongo opens a client and checks the server answers.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Transient(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Transient(err)
	}
	return client, nil
}

// MongoStore is the hosted DocumentStore.
//
// Subcollections are flattened: "chats/{chatId}/messages" lives in the mongo
// collection "chats.messages" with "_parent" set to "chats/{chatId}", and "_id"
// holds the full document path. Times are stored with millisecond precision.
type MongoStore struct {
	db         *mongo.Database
	log        *slog.Logger
	clock      contract.Clock
	registry   *runtime.Registry
	supervisor contract.ISupervisor
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewMongoStore wraps a connected database. With watch set, a change stream
// wakes subscriptions on writes made by other processes; it needs a replica set.
func NewMongoStore(db *mongo.Database, log *slog.Logger, clock contract.Clock, restartInterval time.Duration, watch bool) *MongoStore {
	ctx, cancel := context.WithCancel(context.Background())
	s := &MongoStore{
		db:         db,
		log:        log,
		clock:      clock,
		registry:   runtime.NewRegistry(),
		supervisor: runtime.NewSupervisor(log, restartInterval),
		ctx:        ctx,
		cancel:     cancel,
	}
	if watch {
		s.supervisor.Start(ctx, &ChangeWatcher{store: s})
	}
	return s
}

// location splits a collection path into the mongo collection holding it and
// the path of its parent document.
func location(collection string) (name, parent string) {
	segments := strings.Split(collection, "/")
	names := lo.Filter(segments, func(_ string, i int) bool { return i%2 == 0 })
	return strings.Join(names, "."), strings.Join(segments[:len(segments)-1], "/")
}

func (s *MongoStore) collection(collection string) *mongo.Collection {
	name, _ := location(collection)
	return s.db.Collection(name)
}

func (s *MongoStore) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

func documentPath(collection, id string) string {
	return collection + "/" + id
}

func (s *MongoStore) newDocument(collection, id string, fields contract.Fields, version int64, createTime, now time.Time) bson.M {
	_, parent := location(collection)
	doc := bson.M{}
	for k, v := range applyWrite(nil, fields, false, now) {
		doc[k] = v
	}
	doc[mongoID] = documentPath(collection, id)
	doc[mongoDocID] = id
	doc[mongoParent] = parent
	doc[mongoVersion] = version
	doc[mongoCreateTime] = createTime
	doc[mongoUpdateTime] = now
	return doc
}

func (s *MongoStore) CreateDocument(ctx context.Context, collection string, fields contract.Fields, opts ...contract.CreateOption) (string, error) {
	if err := validateCollection(collection); err != nil {
		return "", err
	}
	if err := validateFieldNames(fields); err != nil {
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

	now := s.now()
	_, err := s.collection(collection).InsertOne(ctx, s.newDocument(collection, id, fields, 1, now, now))
	if err != nil {
		return "", mapMongoError(err)
	}
	s.registry.Notify(collection)
	return id, nil
}

func (s *MongoStore) SetDocument(ctx context.Context, collection, id string, fields contract.Fields, merge bool) error {
	if err := validatePath(collection, id); err != nil {
		return err
	}
	if err := validateFieldNames(fields); err != nil {
		return err
	}
	var err error
	if merge {
		err = s.mergeDocument(ctx, collection, id, fields)
	} else {
		err = s.replaceDocument(ctx, collection, id, fields)
	}
	if err != nil {
		return err
	}
	s.registry.Notify(collection)
	return nil
}

func (s *MongoStore) mergeDocument(ctx context.Context, collection, id string, fields contract.Fields) error {
	now := s.now()
	_, parent := location(collection)
	update := updateDocument(fields, now)
	update["$setOnInsert"] = bson.M{mongoDocID: id, mongoParent: parent, mongoCreateTime: now}
	_, err := s.collection(collection).UpdateOne(ctx,
		bson.M{mongoID: documentPath(collection, id)},
		update,
		options.Update().SetUpsert(true),
	)
	return mapMongoError(err)
}

// replaceDocument swaps the whole document while keeping its create time.
// It replays when another writer got in between the read and the write.
func (s *MongoStore) replaceDocument(ctx context.Context, collection, id string, fields contract.Fields) error {
	coll := s.collection(collection)
	for attempt := 1; ; attempt++ {
		existing, err := s.GetDocument(ctx, collection, id)
		found := err == nil
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return err
		}

		now := s.now()
		if !found {
			_, err = coll.InsertOne(ctx, s.newDocument(collection, id, fields, 1, now, now))
			if err == nil {
				return nil
			}
			if !mongo.IsDuplicateKeyError(err) || attempt >= maxTxnAttempts {
				return mapMongoError(err)
			}
			continue
		}

		res, err := coll.ReplaceOne(ctx,
			bson.M{mongoID: documentPath(collection, id), mongoVersion: existing.Version},
			s.newDocument(collection, id, fields, existing.Version+1, existing.CreateTime, now),
		)
		if err != nil {
			return mapMongoError(err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
		if attempt >= maxTxnAttempts {
			return fmt.Errorf("%w: %s", errors.ErrConflict, documentPath(collection, id))
		}
	}
}

// updateDocument translates fields into update operators, transforms included.
func updateDocument(fields contract.Fields, now time.Time) bson.M {
	set := bson.M{mongoUpdateTime: now}
	addToSet := bson.M{}
	for k, v := range fields {
		switch t := v.(type) {
		case contract.ServerTimestampTransform:
			set[k] = now
		case contract.ArrayUnionTransform:
			addToSet[k] = bson.M{"$each": t.Values}
		default:
			set[k] = v
		}
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{mongoVersion: int64(1)},
	}
	if len(addToSet) > 0 {
		update["$addToSet"] = addToSet
	}
	return update
}

func (s *MongoStore) UpdateDocument(ctx context.Context, collection, id string, fields contract.Fields, opts ...contract.UpdateOption) error {
	if err := validatePath(collection, id); err != nil {
		return err
	}
	if err := validateFieldNames(fields); err != nil {
		return err
	}
	version := contract.ApplyUpdateOptions(opts...).Version
	path := documentPath(collection, id)
	filter := bson.M{mongoID: path}
	if version != nil {
		filter[mongoVersion] = *version
	}

	coll := s.collection(collection)
	res, err := coll.UpdateOne(ctx, filter, updateDocument(fields, s.now()))
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		count, err := coll.CountDocuments(ctx, bson.M{mongoID: path})
		if err != nil {
			return mapMongoError(err)
		}
		if count == 0 || version == nil {
			return fmt.Errorf("%w: %s", errors.ErrNotFound, path)
		}
		return fmt.Errorf("%w: %s is no longer at version %d", errors.ErrConflict, path, *version)
	}
	s.registry.Notify(collection)
	return nil
}

func (s *MongoStore) GetDocument(ctx context.Context, collection, id string) (contract.Snapshot, error) {
	if err := validatePath(collection, id); err != nil {
		return contract.Snapshot{}, err
	}
	var doc bson.M
	err := s.collection(collection).FindOne(ctx, bson.M{mongoID: documentPath(collection, id)}).Decode(&doc)
	if err != nil {
		return contract.Snapshot{}, mapMongoError(err)
	}
	return toSnapshot(collection, doc), nil
}

func (s *MongoStore) Query(ctx context.Context, query contract.Query) ([]contract.Snapshot, error) {
	if err := validateCollection(query.Collection); err != nil {
		return nil, err
	}
	_, parent := location(query.Collection)
	conditions := bson.A{bson.M{mongoParent: parent}}
	for _, f := range query.Filters {
		field := f.Field
		if field == contract.DocumentIDField {
			field = mongoDocID
		}
		// A scalar condition on an array field matches any element, which is array-contains.
		conditions = append(conditions, bson.M{field: f.Value})
	}
	sort := bson.D{}
	for _, o := range query.Orders {
		sort = append(sort, bson.E{Key: o.Field, Value: lo.Ternary(o.Descending, -1, 1)})
	}
	sort = append(sort, bson.E{Key: mongoDocID, Value: 1})

	findOptions := options.Find().SetSort(sort)
	if query.Limit > 0 {
		findOptions.SetLimit(int64(query.Limit))
	}
	cursor, err := s.collection(query.Collection).Find(ctx, bson.M{"$and": conditions}, findOptions)
	if err != nil {
		return nil, mapMongoError(err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapMongoError(err)
	}
	return lo.Map(docs, func(doc bson.M, _ int) contract.Snapshot {
		return toSnapshot(query.Collection, doc)
	}), nil
}

// SubscribeQuery starts a supervised subscription. It lives until the returned
// Unsubscribe is called or the store is closed, independently of ctx.
func (s *MongoStore) SubscribeQuery(ctx context.Context, query contract.Query, onSnapshot func(contract.QuerySnapshot)) (contract.Unsubscribe, error) {
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

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.Close()
			cancel()
			s.registry.Unsubscribe(subscriptionID, query.Collection)
		})
	}, nil
}

func (s *MongoStore) DeleteDocument(ctx context.Context, collection, id string) error {
	if err := validatePath(collection, id); err != nil {
		return err
	}
	_, err := s.collection(collection).DeleteOne(ctx, bson.M{mongoID: documentPath(collection, id)})
	if err != nil {
		return mapMongoError(err)
	}
	s.registry.Notify(collection)
	return nil
}

// Close stops the subscriptions and the change stream. The client stays connected.
func (s *MongoStore) Close() error {
	s.cancel()
	s.supervisor.Stop()
	s.supervisor.Wait()
	return nil
}

// notifyMongoCollection wakes every subscribed collection path stored in name.
func (s *MongoStore) notifyMongoCollection(name string) {
	for _, collection := range s.registry.Collections() {
		if mongoName, _ := location(collection); mongoName == name {
			s.registry.Notify(collection)
		}
	}
}

// ChangeWatcher follows the database change stream.
type ChangeWatcher struct {
	store *MongoStore
}

func (w *ChangeWatcher) Run(ctx context.Context) error {
	stream, err := w.store.db.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return errors.Transient(err)
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var event struct {
			NS struct {
				Coll string `bson:"coll"`
			} `bson:"ns"`
		}
		if err := stream.Decode(&event); err != nil {
			return errors.Transient(err)
		}
		w.store.notifyMongoCollection(event.NS.Coll)
	}
	if ctx.Err() != nil {
		return nil
	}
	return errors.Transient(stream.Err())
}

func validateFieldNames(fields contract.Fields) error {
	for k := range fields {
		if k == "" || strings.HasPrefix(k, "_") || strings.ContainsAny(k, ".$") {
			return fmt.Errorf("%w: field name %q", errors.ErrInvalidDocument, k)
		}
	}
	return nil
}

func toSnapshot(collection string, doc bson.M) contract.Snapshot {
	fields := contract.Fields{}
	for k, v := range doc {
		if !lo.Contains(mongoMeta, k) {
			fields[k] = fromBSON(v)
		}
	}
	id, _ := doc[mongoDocID].(string)
	createTime, _ := fromBSON(doc[mongoCreateTime]).(time.Time)
	updateTime, _ := fromBSON(doc[mongoUpdateTime]).(time.Time)
	version, _ := fromBSON(doc[mongoVersion]).(float64)
	return contract.Snapshot{
		ID:         id,
		Collection: collection,
		Fields:     fields,
		Version:    int64(version),
		CreateTime: createTime,
		UpdateTime: updateTime,
	}
}

// fromBSON gives decoded values the shapes the badger store produces.
func fromBSON(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case bson.A:
		return lo.Map(x, func(item any, _ int) any { return fromBSON(item) })
	case bson.M:
		return lo.MapValues(x, func(item any, _ string) any { return fromBSON(item) })
	case bson.D:
		res := make(map[string]any, len(x))
		for _, e := range x {
			res[e.Key] = fromBSON(e.Value)
		}
		return res
	case primitive.ObjectID:
		return x.Hex()
	default:
		return v
	}
}

func mapMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %w", errors.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", errors.ErrAlreadyExists, err)
	default:
		return mapError(err)
	}
}
