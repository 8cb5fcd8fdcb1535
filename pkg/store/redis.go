package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	zerrors "github.com/matzehuels/zonelink/pkg/errors"
)

// RedisOptions configures [NewRedis].
type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	Collection string
}

// RedisStore keeps records as JSON values in a hash keyed by record ID.
// Every write publishes the record ID on an update channel, which Watch
// subscribes to.
type RedisStore struct {
	client  *redis.Client
	hashKey string
	channel string
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, zerrors.Wrap(zerrors.ErrCodeStoreUnavailable, err, "connect to redis at %s", opts.Addr)
	}
	return NewRedisFromClient(client, opts.Collection), nil
}

// NewRedisFromClient wraps an existing client. The store owns the client
// and closes it on Close.
func NewRedisFromClient(client *redis.Client, collection string) *RedisStore {
	if collection == "" {
		collection = "connections"
	}
	prefix := "zonelink:" + collection
	return &RedisStore{
		client:  client,
		hashKey: prefix + ":connections",
		channel: prefix + ":updates",
	}
}

func (s *RedisStore) LoadAll(ctx context.Context) ([]Record, error) {
	vals, err := s.client.HGetAll(ctx, s.hashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load: %w", err)
	}
	recs := make([]Record, 0, len(vals))
	for id, v := range vals {
		var r Record
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			return nil, fmt.Errorf("redis decode %s: %w", id, err)
		}
		recs = append(recs, r)
	}
	slices.SortFunc(recs, func(a, b Record) int { return strings.Compare(a.ID, b.ID) })
	return FilterReserved(recs), nil
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis encode: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.hashKey, rec.ID, data)
		p.Publish(ctx, s.channel, rec.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, s.hashKey, id)
		p.Publish(ctx, s.channel, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

func (s *RedisStore) Watch(ctx context.Context) (<-chan []Record, error) {
	sub := s.client.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	ch := make(chan []Record, 1)
	go func() {
		defer close(ch)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
			}
			recs, err := s.LoadAll(ctx)
			if err != nil {
				continue
			}
			publish(ch, recs)
		}
	}()
	return ch, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
