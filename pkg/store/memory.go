package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps records in process memory. Every Save and Delete
// pushes the new collection to all watchers.
type MemoryStore struct {
	mu       sync.Mutex
	records  []Record
	watchers map[string]chan []Record
	closed   bool
}

// NewMemory creates a MemoryStore holding recs.
func NewMemory(recs ...Record) *MemoryStore {
	return &MemoryStore{
		records:  slices.Clone(recs),
		watchers: make(map[string]chan []Record),
	}
}

func (s *MemoryStore) LoadAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterReserved(s.records), nil
}

func (s *MemoryStore) Save(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.IndexFunc(s.records, func(r Record) bool { return r.ID == rec.ID }); i >= 0 {
		s.records[i] = rec
	} else {
		s.records = append(s.records, rec)
	}
	s.notify()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	s.records = slices.DeleteFunc(s.records, func(r Record) bool { return r.ID == id })
	if len(s.records) != n {
		s.notify()
	}
	return nil
}

func (s *MemoryStore) Watch(ctx context.Context) (<-chan []Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []Record, 1)
	if s.closed {
		close(ch)
		return ch, nil
	}
	id := uuid.NewString()
	s.watchers[id] = ch

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if w, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(w)
		}
	}()
	return ch, nil
}

// Close closes every watcher channel.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
	s.closed = true
	return nil
}

func (s *MemoryStore) notify() {
	if len(s.watchers) == 0 {
		return
	}
	snap := FilterReserved(s.records)
	for _, ch := range s.watchers {
		publish(ch, snap)
	}
}

var _ Store = (*MemoryStore)(nil)
