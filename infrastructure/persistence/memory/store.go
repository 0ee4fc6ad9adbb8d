package memory

import (
	"context"
	"sync"

	"storefront/domain/storage"
)

// Store 内存键值后端，进程退出即丢失
type Store struct {
	mu      sync.RWMutex
	entries map[storage.Scope]map[string]string
}

func NewStore() *Store {
	return &Store{entries: make(map[storage.Scope]map[string]string)}
}

func (s *Store) Get(ctx context.Context, scope storage.Scope, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[scope][key]
	if !ok {
		return "", storage.ErrKeyNotFound
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, scope storage.Scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.entries[scope]
	if !ok {
		bucket = make(map[string]string)
		s.entries[scope] = bucket
	}
	bucket[key] = value
	return nil
}

func (s *Store) Remove(ctx context.Context, scope storage.Scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries[scope], key)
	return nil
}

// Len 返回作用域内的 key 数量
func (s *Store) Len(scope storage.Scope) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[scope])
}

var _ storage.Backend = (*Store)(nil)
