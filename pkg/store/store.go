// Package store persists connection records.
//
// The world keeps its graph in memory and writes every change through a
// [Store]. Stores also push whole snapshots of the collection when it
// changes remotely, which the world applies with a full reload.
//
// # Backends
//
//   - memory: in-process, for tests and throwaway sessions
//   - file: one JSON document per collection, polled for changes
//   - redis: a hash per collection plus a pub/sub channel for change events
//   - mongo: a collection per store, watched through change streams
//
// Use [Open] to pick a backend from configuration:
//
//	s, err := store.Open(ctx, cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
// Records whose ID is [ReservedID] are never returned by any backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/zonelink/pkg/config"
)

// ReservedID marks a bookkeeping document that shares the collection with
// real connections.
const ReservedID = "39a2P8HcPR14DarKfIzD"

// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Record is the persisted form of a connection. EndTime is in Unix
// milliseconds.
type Record struct {
	ID      string `json:"id" bson:"id"`
	Start   string `json:"start" bson:"start"`
	End     string `json:"end" bson:"end"`
	Type    string `json:"type" bson:"type"`
	EndTime int64  `json:"endtime" bson:"endtime"`
}

// Expiry returns EndTime as a time.
func (r Record) Expiry() time.Time { return time.UnixMilli(r.EndTime) }

// Store is the interface for persistence backends.
type Store interface {
	// LoadAll returns every record in the collection.
	LoadAll(ctx context.Context) ([]Record, error)

	// Save inserts rec, or replaces the record with the same ID.
	Save(ctx context.Context, rec Record) error

	// Delete removes the record with the given ID. Unknown IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Watch streams the full collection whenever it changes. The channel
	// is closed when ctx is done or the store is closed. Slow readers only
	// see the latest snapshot.
	Watch(ctx context.Context) (<-chan []Record, error)

	Close() error
}

// FilterReserved drops records carrying [ReservedID]. The input slice is
// not modified.
func FilterReserved(recs []Record) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.ID != ReservedID {
			out = append(out, r)
		}
	}
	return out
}

// Open creates the backend selected by cfg and wraps it with the
// registered store hooks.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		s = NewMemory()
	case config.BackendFile:
		dir := cfg.Dir
		if dir == "" {
			dir = config.DataDir()
		}
		s, err = NewFile(dir, cfg.Collection, cfg.PollInterval)
	case config.BackendRedis:
		s, err = NewRedis(ctx, RedisOptions{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			Collection: cfg.Collection,
		})
	case config.BackendMongo:
		s, err = NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.Collection)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, cfg.Backend), nil
}

// publish hands recs to a watcher channel of capacity one, replacing a
// snapshot the reader has not picked up yet.
func publish(ch chan []Record, recs []Record) {
	select {
	case ch <- recs:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- recs:
	default:
	}
}
