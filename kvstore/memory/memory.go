// Package memory is an in-process kvstore.Store, used in tests.
package memory

import (
	"context"
	"sync"
)

type Store struct {
	mu      sync.RWMutex
	entries map[string]string

	// FailSet makes every Set return this error when non-nil, so tests can
	// exercise the swallow-and-log persistence path.
	FailSet error
}

func New() *Store {
	return &Store{entries: make(map[string]string)}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSet != nil {
		return s.FailSet
	}
	s.entries[key] = value
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
