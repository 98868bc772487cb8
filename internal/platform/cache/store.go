package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openfpl/fantasy-platform/internal/platform/resilience"
)

type record struct {
	value   any
	expires int64
}

func (r record) expired(now int64) bool {
	return r.expires > 0 && r.expires <= now
}

// Store is an in-process TTL cache. Concurrent loads for the same key are
// collapsed through singleflight so a cold entry is fetched once.
type Store struct {
	ttl    time.Duration
	flight resilience.SingleFlight

	mu      sync.RWMutex
	records map[string]record
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		records: make(map[string]record),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if rec.expired(time.Now().UnixNano()) {
		s.mu.Lock()
		if current, still := s.records[key]; still && current.expired(time.Now().UnixNano()) {
			delete(s.records, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return rec.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	var expires int64
	if s.ttl > 0 {
		expires = time.Now().Add(s.ttl).UnixNano()
	}

	s.mu.Lock()
	s.records[key] = record{value: value, expires: expires}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, loading and storing it on a
// miss. Load errors are returned to every waiting caller and not cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		// Another caller may have filled the entry while we queued.
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
