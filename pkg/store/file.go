package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// DefaultPollInterval is used by [NewFile] when no interval is given.
const DefaultPollInterval = 2 * time.Second

// FileStore keeps a collection in a single JSON file. Watchers poll the
// file's modification time, so writes from other processes are picked up.
type FileStore struct {
	mu       sync.Mutex
	path     string
	interval time.Duration
}

// NewFile creates a file store writing to <dir>/<collection>.json.
func NewFile(dir, collection string, interval time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	if collection == "" {
		collection = "connections"
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &FileStore{
		path:     filepath.Join(dir, collection+".json"),
		interval: interval,
	}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) LoadAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return nil, err
	}
	return FilterReserved(recs), nil
}

func (s *FileStore) Save(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.read()
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(recs, func(r Record) bool { return r.ID == rec.ID }); i >= 0 {
		recs[i] = rec
	} else {
		recs = append(recs, rec)
	}
	return s.write(recs)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.read()
	if err != nil {
		return err
	}
	n := len(recs)
	recs = slices.DeleteFunc(recs, func(r Record) bool { return r.ID == id })
	if len(recs) == n {
		return nil
	}
	return s.write(recs)
}

func (s *FileStore) Watch(ctx context.Context) (<-chan []Record, error) {
	ch := make(chan []Record, 1)
	last := s.stamp()

	go func() {
		defer close(ch)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			cur := s.stamp()
			if cur == last {
				continue
			}
			last = cur
			recs, err := s.LoadAll(ctx)
			if err != nil {
				continue
			}
			publish(ch, recs)
		}
	}()
	return ch, nil
}

// Close is a no-op; watchers stop with their context.
func (s *FileStore) Close() error { return nil }

type fileStamp struct {
	mod  time.Time
	size int64
}

func (s *FileStore) stamp() fileStamp {
	info, err := os.Stat(s.path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{mod: info.ModTime(), size: info.Size()}
}

func (s *FileStore) read() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", s.path, err)
	}
	return recs, nil
}

func (s *FileStore) write(recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
