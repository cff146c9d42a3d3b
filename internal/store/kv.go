// Package store defines the string-keyed storage backends behind the bookmark store.
package store

import "context"

// KV is a string-keyed record store, the device-local equivalent of a
// browser's local storage. Values are opaque strings.
type KV interface {
	// Get returns the value under key. found is false on a missing key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Name identifies the backend in logs and status endpoints.
	Name() string
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)
