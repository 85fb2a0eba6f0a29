package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore - кэш в памяти процесса
type MemoryStore struct {
	cache *gocache.Cache
	mu    sync.Mutex
	tags  map[string]map[string]struct{}
}

func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
		tags:  make(map[string]map[string]struct{}),
	}
	s.cache.OnEvicted(s.forget)
	return s
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, found := s.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	return value.([]byte), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(key, value, ttl)
	for _, tag := range tags {
		keys, ok := s.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) InvalidateTags(ctx context.Context, tags ...string) (int, error) {
	s.mu.Lock()
	var keys []string
	for _, tag := range tags {
		for key := range s.tags[tag] {
			keys = append(keys, key)
		}
		delete(s.tags, tag)
	}
	s.mu.Unlock()

	removed := 0
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, found := s.cache.Get(key); found {
			removed++
		}
		s.cache.Delete(key)
	}
	return removed, nil
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}

// forget - убирает истёкший ключ из индекса тегов
func (s *MemoryStore) forget(key string, _ interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tag, keys := range s.tags {
		delete(keys, key)
		if len(keys) == 0 {
			delete(s.tags, tag)
		}
	}
}
