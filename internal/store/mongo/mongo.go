// Package mongo implements the store.Store interface backed by a MongoDB
// collection. Documents use the field names of the market_maps collection:
// _id, mapData, createdAt, updatedAt.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/alfredjeanlab/marketmaps/internal/model"
	"github.com/alfredjeanlab/marketmaps/internal/store"
)

// CollectionName is the collection maps are stored in.
const CollectionName = "market_maps"

// collection is the subset of *mongo.Collection used by the store.
type collection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
}

// MongoStore implements store.Store backed by MongoDB.
type MongoStore struct {
	client *mongo.Client
	coll   collection
	now    func() time.Time
}

// Compile-time check that MongoStore implements store.Store.
var _ store.Store = (*MongoStore)(nil)

// New connects to the MongoDB deployment at uri and verifies the connection.
func New(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := newWithCollection(client.Database(database).Collection(CollectionName))
	s.client = client
	return s, nil
}

func newWithCollection(coll collection) *MongoStore {
	return &MongoStore{
		coll: coll,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// PutMap upserts the document in one round trip. createdAt is only set when
// the document is inserted.
func (s *MongoStore) PutMap(ctx context.Context, id, mapData string) (*model.MarketMap, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc document
	err := s.coll.FindOneAndUpdate(ctx, idFilter(id), upsertUpdate(mapData, s.now()), opts).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("upsert map %s: %w", id, err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) GetMap(ctx context.Context, id string) (*model.MarketMap, error) {
	var doc document
	err := s.coll.FindOne(ctx, idFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find map %s: %w", id, err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func idFilter(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}
