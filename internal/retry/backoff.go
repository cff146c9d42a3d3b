// Package retry runs an operation until it succeeds, with capped exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy holds retry policy settings.
type Policy struct {
	InitialWait time.Duration // wait before the second attempt
	MaxWait     time.Duration // cap on the wait between attempts
	MaxAttempts int           // 0 = retry until ctx is done
}

// Attempt describes a failed try, passed to the OnRetry hook.
type Attempt struct {
	Number int
	Wait   time.Duration
	Err    error
}

// permanent marks an error that must not be retried.
type permanent struct{ err error }

func (p permanent) Error() string { return p.err.Error() }
func (p permanent) Unwrap() error { return p.err }

// Permanent wraps err so Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanent{err: err}
}

// sleep is swapped in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do calls fn until it returns nil, a Permanent error, the attempts run out,
// or ctx is done. The last error from fn is returned.
func Do(ctx context.Context, p Policy, onRetry func(Attempt), fn func(ctx context.Context) error) (int, error) {
	wait := p.InitialWait
	if wait <= 0 {
		wait = 100 * time.Millisecond
	}

	attempt := 0
	for {
		attempt++

		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}

		var perm permanent
		if errors.As(err, &perm) {
			return attempt, perm.err
		}
		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return attempt, err
		}

		if onRetry != nil {
			onRetry(Attempt{Number: attempt, Wait: wait, Err: err})
		}
		if sleepErr := sleep(ctx, wait); sleepErr != nil {
			return attempt, err
		}

		// Exponential backoff with cap
		wait *= 2
		if p.MaxWait > 0 && wait > p.MaxWait {
			wait = p.MaxWait
		}
	}
}
