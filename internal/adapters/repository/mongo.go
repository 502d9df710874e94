package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/metrics"
)

const mongoConnectTimeout = 10 * time.Second

// MongoStore reads and writes collections of one MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and selects database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	const op = "repository.mongo.open"
	if uri == "" || database == "" {
		return nil, fmt.Errorf("%s: uri and database are required", op)
	}
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("llmevo"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) collection(c Collection) (*mongo.Collection, error) {
	if c == "" {
		return nil, ErrInvalidCollection
	}
	return s.db.Collection(string(c)), nil
}

// Find returns all documents of c, converted to plain values.
func (s *MongoStore) Find(ctx context.Context, c Collection, opts ...FindOption) (docs []model.Document, err error) {
	start := time.Now()
	defer func() { observeFind(c, start, err) }()

	coll, err := s.collection(c)
	if err != nil {
		return nil, err
	}
	o := applyFind(opts)
	fo := options.Find()
	if o.sortField != "" {
		// _id breaks ties in insertion order for ObjectIDs
		fo.SetSort(bson.D{{Key: o.sortField, Value: 1}, {Key: "_id", Value: 1}})
	}
	if o.limit > 0 {
		fo.SetLimit(o.limit)
	}

	cur, err := coll.Find(ctx, bson.D{}, fo)
	if err != nil {
		return nil, fmt.Errorf("repository.mongo.find %q: %w", c, err)
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("repository.mongo.find %q: %w", c, err)
	}
	docs = make([]model.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, PlainDocument(m))
	}
	return docs, nil
}

// InsertMany writes docs in one ordered batch.
func (s *MongoStore) InsertMany(ctx context.Context, c Collection, docs []model.Document) (int, error) {
	coll, err := s.collection(c)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	batch := make([]any, len(docs))
	for i, d := range docs {
		batch[i] = map[string]any(d)
	}
	res, err := coll.InsertMany(ctx, batch)
	if err != nil {
		observeError("insert", err)
		return 0, fmt.Errorf("repository.mongo.insert %q: %w", c, err)
	}
	metrics.RecordStoreInserted(string(c), len(res.InsertedIDs))
	return len(res.InsertedIDs), nil
}

// Drop removes the collection.
func (s *MongoStore) Drop(ctx context.Context, c Collection) error {
	coll, err := s.collection(c)
	if err != nil {
		return err
	}
	if err := coll.Drop(ctx); err != nil {
		observeError("drop", err)
		return fmt.Errorf("repository.mongo.drop %q: %w", c, err)
	}
	return nil
}

// Count returns the number of documents in c.
func (s *MongoStore) Count(ctx context.Context, c Collection) (int64, error) {
	coll, err := s.collection(c)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		observeError("count", err)
		return 0, fmt.Errorf("repository.mongo.count %q: %w", c, err)
	}
	metrics.UpdateStoreDocuments(string(c), n)
	return n, nil
}

// Ping checks the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		observeError("ping", err)
		return fmt.Errorf("repository.mongo.ping: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("repository.mongo.close: %w", err)
	}
	return nil
}
