package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/myquran/internal/logger"
)

const (
	// DefaultSessionTTL is the idle time after which a player session is dropped
	DefaultSessionTTL = 30 * time.Minute
)

// Sweeper drops sessions unused for longer than ttl. *player.Sessions implements it.
type Sweeper interface {
	Sweep(ttl time.Duration) int
	Count() int
}

// SessionCollector handles cleanup of idle player sessions
type SessionCollector struct {
	sessions Sweeper
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionCollector creates a new session collector
func NewSessionCollector(
	sessions Sweeper,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
) *SessionCollector {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	if interval <= 0 {
		interval = ttl / 2
	}

	return &SessionCollector{
		sessions: sessions,
		logger:   log.Named("session_gc"),
		interval: interval,
		ttl:      ttl,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the periodic collection
func (sc *SessionCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(sc.interval)
	go func() {
		defer close(sc.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sc.Collect()
			case <-sc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the collector and waits for its goroutine to exit. Call after Start.
// Safe to call more than once.
func (sc *SessionCollector) Stop() {
	sc.stopOnce.Do(func() { close(sc.stopCh) })
	<-sc.done
}

// Collect removes sessions idle for longer than the ttl
func (sc *SessionCollector) Collect() int {
	removed := sc.sessions.Sweep(sc.ttl)

	if removed > 0 {
		sc.logger.Info("collected idle player sessions",
			logger.Int("removed", removed),
			logger.Int("remaining", sc.sessions.Count()),
			logger.Duration("ttl", sc.ttl))
	} else {
		sc.logger.Debug("no player sessions to collect")
	}
	return removed
}
