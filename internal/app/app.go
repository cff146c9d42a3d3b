package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/myquran/internal/bookmark"
	"github.com/MrSnakeDoc/myquran/internal/config"
	"github.com/MrSnakeDoc/myquran/internal/httpserver"
	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
	"github.com/MrSnakeDoc/myquran/internal/index"
	"github.com/MrSnakeDoc/myquran/internal/logger"
	"github.com/MrSnakeDoc/myquran/internal/player"
	"github.com/MrSnakeDoc/myquran/internal/quran"
	"github.com/MrSnakeDoc/myquran/internal/reader"
	"github.com/MrSnakeDoc/myquran/internal/retry"
	"github.com/MrSnakeDoc/myquran/internal/scheduler"
	"github.com/MrSnakeDoc/myquran/internal/store"
	"github.com/MrSnakeDoc/myquran/internal/utils"
	"github.com/MrSnakeDoc/myquran/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	kv       store.KV
	reloader *scheduler.CatalogReloader
	gc       *scheduler.SessionCollector
}

// NewQuranClient builds the upstream client from cfg.
func NewQuranClient(cfg *config.Config, log logger.Logger) *quran.Client {
	return quran.New(quran.Options{
		QuranBaseURL:  cfg.QuranBaseURL,
		EquranBaseURL: cfg.EquranBaseURL,
		AudioBaseURL:  cfg.AudioBaseURL,
		UserAgent:     cfg.UserAgent,
		Timeout:       cfg.HTTPTimeout,
		MaxBodyBytes:  cfg.HTTPMaxBody,
		Retry: retry.Policy{
			InitialWait: 200 * time.Millisecond,
			MaxWait:     2 * time.Second,
			MaxAttempts: cfg.HTTPRetries,
		},
		RatePerSecond: cfg.UpstreamRate,
		RateBurst:     cfg.UpstreamBurst,
		CacheTTL:      cfg.CacheTTL,
	}, log)
}

func New(cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	// Open storage early - fail fast if unavailable
	kv, err := OpenStore(context.Background(), cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	bookmarks := bookmark.NewStore(kv, loggerClient)
	client := NewQuranClient(cfg, loggerClient)
	chapters := index.NewChapterIndex()
	views := reader.New(client, bookmarks, chapters, reader.Options{
		TranslationID: cfg.TranslationID,
		ReciterID:     cfg.ReciterID,
		SearchSize:    cfg.SearchSize,
	}, loggerClient)
	sessions := player.NewSessions()

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewCatalogReloader(views, loggerClient, cfg.CatalogRefresh, reloadTrigger)
	gc := scheduler.NewSessionCollector(sessions, loggerClient, cfg.GCInterval, cfg.SessionTTL)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		CORSOrigins:   cfg.CORSOrigins,
		APIRate:       cfg.APIRate,
		APIBurst:      cfg.APIBurst,
		Reader:        views,
		Bookmarks:     bookmarks,
		Sessions:      sessions,
		Chapters:      chapters,
		Quran:         client,
		Catalog:       reloader,
		ReloadTrigger: reloadTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   httpserver.New(cfg, loggerClient, d),
		kv:       kv,
		reloader: reloader,
		gc:       gc,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting myquran %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the chapter catalogue and start periodic refresh
	a.reloader.Start(ctx)
	a.logger.Info("catalogue reloader started",
		logger.Duration("interval", a.cfg.CatalogRefresh))

	// Start player session collector
	a.gc.Start(ctx)
	a.logger.Info("session collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("ttl", a.cfg.SessionTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.reloader.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	utils.MustClose(a.kv, a.logger, a.kv.Name()+" store")
	_ = a.logger.Sync()

	if runErr == nil {
		a.logger.Info("✅ myquran stopped cleanly")
	}
	return runErr
}
