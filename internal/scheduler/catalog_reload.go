package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/myquran/internal/logger"
)

// Refresher reloads the chapter catalogue. *reader.Reader implements it.
type Refresher interface {
	RefreshChapters(ctx context.Context) (int, error)
}

// CatalogReloader handles periodic reloading of the chapter catalogue
type CatalogReloader struct {
	refresher     Refresher
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	done          chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	mu         sync.RWMutex
	lastErr    error
	lastReload time.Time
}

// NewCatalogReloader creates a new catalogue reloader. manualTrigger may be nil.
func NewCatalogReloader(
	refresher Refresher,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CatalogReloader{
		refresher:     refresher,
		logger:        log.Named("catalog"),
		interval:      interval,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalogue once, then reloads it periodically.
// A failed initial load is logged; views fetch the list lazily meanwhile.
func (cr *CatalogReloader) Start(ctx context.Context) {
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Warn("initial catalogue load failed", logger.Error(err))
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer close(cr.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalogue",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalogue",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the reloader and waits for its goroutine to exit. Call after Start.
// Safe to call more than once.
func (cr *CatalogReloader) Stop() {
	cr.stopOnce.Do(func() { close(cr.stopCh) })
	<-cr.done
}

// Reload fetches the chapter list and replaces the catalogue
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	cr.logger.Info("reloading chapter catalogue")

	n, err := cr.refresher.RefreshChapters(ctx)

	cr.mu.Lock()
	cr.lastErr = err
	if err == nil {
		cr.lastReload = time.Now()
	}
	cr.mu.Unlock()

	if err != nil {
		return err
	}
	cr.logger.Info("loaded chapter catalogue",
		logger.Int("count", n))
	return nil
}

// Status returns the time of the last successful reload and the last error
func (cr *CatalogReloader) Status() (time.Time, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.lastReload, cr.lastErr
}
