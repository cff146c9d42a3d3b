package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/myquran/internal/store"
)

// KeyPrefix namespaces every key written by the service.
const KeyPrefix = "myquran:"

// Store is a KV backend over a Redis connection
type Store struct {
	client *redis.Client
}

var _ store.KV = (*Store)(nil)

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Key returns the namespaced Redis key
func Key(key string) string {
	return KeyPrefix + key
}

// Get retrieves a record. A redis.Nil reply is a miss, not an error.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, Key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores a record without expiry; bookmarks live until the user removes them.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes a record
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, Key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Name() string { return store.BackendRedis }

func (s *Store) Close() error { return s.client.Close() }
