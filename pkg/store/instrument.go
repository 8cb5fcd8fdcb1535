package store

import (
	"context"
	"time"

	"github.com/matzehuels/zonelink/pkg/observability"
)

type instrumented struct {
	Store
	backend string
}

// Instrument reports every operation of s to the registered store hooks
// under the given backend label.
func Instrument(s Store, backend string) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnOperation(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) LoadAll(ctx context.Context) ([]Record, error) {
	start := time.Now()
	recs, err := s.Store.LoadAll(ctx)
	s.observe(ctx, "load", start, err)
	return recs, err
}

func (s *instrumented) Save(ctx context.Context, rec Record) error {
	start := time.Now()
	err := s.Store.Save(ctx, rec)
	s.observe(ctx, "save", start, err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.Store.Delete(ctx, id)
	s.observe(ctx, "delete", start, err)
	return err
}

func (s *instrumented) Watch(ctx context.Context) (<-chan []Record, error) {
	start := time.Now()
	in, err := s.Store.Watch(ctx)
	s.observe(ctx, "watch", start, err)
	if err != nil {
		return nil, err
	}

	out := make(chan []Record, 1)
	go func() {
		defer close(out)
		for recs := range in {
			observability.Store().OnSnapshot(ctx, s.backend, len(recs))
			publish(out, recs)
		}
	}()
	return out, nil
}
