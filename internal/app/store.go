package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/myquran/internal/config"
	"github.com/MrSnakeDoc/myquran/internal/logger"
	"github.com/MrSnakeDoc/myquran/internal/redis"
	"github.com/MrSnakeDoc/myquran/internal/store"
	"github.com/MrSnakeDoc/myquran/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/myquran/internal/store/redis"
	"github.com/MrSnakeDoc/myquran/internal/store/sqlite"
)

// OpenStore opens the bookmark backend selected by cfg.Store.
// Redis is pinged until it answers or the connect timeout elapses.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.KV, error) {
	switch cfg.Store {
	case store.BackendMemory:
		log.Warn("memory store selected, bookmarks are lost on restart")
		return memory.New(), nil

	case store.BackendRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("Redis initialized successfully")
		return redisstore.NewStore(client), nil

	case store.BackendSQLite:
		kv, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Info("sqlite store opened", logger.String("path", cfg.SQLitePath))
		return kv, nil

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
