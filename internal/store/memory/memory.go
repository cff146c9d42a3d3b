package memory

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/myquran/internal/store"
)

// Store keeps records in process memory. Nothing survives a restart.
type Store struct {
	mu   sync.RWMutex
	data map[string]string

	// FailWith, when set, is returned by every operation. Tests use it to
	// simulate an unavailable backend.
	FailWith error
}

var _ store.KV = (*Store)(nil)

// New creates an empty memory store
func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailWith != nil {
		return "", false, s.FailWith
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}
	s.data[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}
	delete(s.data, key)
	return nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.FailWith
}

func (s *Store) Name() string { return store.BackendMemory }

func (s *Store) Close() error { return nil }
