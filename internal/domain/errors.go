package domain

import (
	"context"
	"errors"
)

var (
	// ErrNetwork covers transport failures and unexpected upstream statuses.
	ErrNetwork = errors.New("network failure")
	// ErrNotFound is returned when the upstream has no such resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for out-of-range or malformed identifiers.
	ErrInvalidInput = errors.New("invalid input")
)

const (
	KindNetwork      = "network"
	KindNotFound     = "not_found"
	KindInvalidInput = "invalid_input"
	KindInternal     = "internal"
)

// Kind classifies err into one of the error kinds surfaced to clients.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNetwork),
		errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	default:
		return KindInternal
	}
}

// Retryable reports whether the client should offer a retry.
func Retryable(err error) bool {
	return Kind(err) == KindNetwork
}
