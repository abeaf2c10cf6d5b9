package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOptions configures [NewMongo].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// mongoRecord is the stored shape. The payload stays the JSON document so
// every backend returns the same bytes.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo stores one record per layer, keyed by layer id.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB and pings the server.
func NewMongo(ctx context.Context, opts MongoOptions) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Mongo{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

// Put upserts the record for id.
func (s *Mongo) Put(ctx context.Context, id string, data []byte) error {
	rec := mongoRecord{ID: id, Data: data, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, rec, options.Replace().SetUpsert(true))
	return mongoErr(err)
}

// Get returns the stored payload.
func (s *Mongo) Get(ctx context.Context, id string) ([]byte, bool, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, mongoErr(err)
	}
	return rec.Data, true, nil
}

// Delete removes the record for id.
func (s *Mongo) Delete(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return mongoErr(err)
}

// Name returns "mongo".
func (s *Mongo) Name() string { return "mongo" }

// Close disconnects the client.
func (s *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// mongoErr marks network failures and timeouts as retryable.
func mongoErr(err error) error {
	if err != nil && (mongo.IsNetworkError(err) || mongo.IsTimeout(err)) {
		return Retryable(err)
	}
	return err
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)
