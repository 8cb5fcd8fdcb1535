package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	zerrors "github.com/matzehuels/zonelink/pkg/errors"
)

// MongoStore keeps one document per record. Watch requires a replica set
// or sharded cluster, since it is built on change streams.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, zerrors.Wrap(zerrors.ErrCodeStoreUnavailable, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, zerrors.Wrap(zerrors.ErrCodeStoreUnavailable, err, "ping mongo")
	}
	if database == "" {
		database = "zonelink"
	}
	if collection == "" {
		collection = "connections"
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) LoadAll(ctx context.Context) ([]Record, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo load: %w", err)
	}
	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return FilterReserved(recs), nil
}

func (s *MongoStore) Save(ctx context.Context, rec Record) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo save: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

func (s *MongoStore) Watch(ctx context.Context) (<-chan []Record, error) {
	cs, err := s.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("mongo watch: %w", err)
	}

	ch := make(chan []Record, 1)
	go func() {
		defer close(ch)
		defer cs.Close(context.Background())
		for cs.Next(ctx) {
			recs, err := s.LoadAll(ctx)
			if err != nil {
				continue
			}
			publish(ch, recs)
		}
	}()
	return ch, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
