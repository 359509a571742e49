package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"opspanel-backend/config"
	"opspanel-backend/internal/db"
)

// Open builds the Store selected by cfg.Store.Backend. The returned close
// function releases the underlying connection.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Store, func() error, error) {
	switch cfg.Store.Backend {
	case "gorm":
		gormDB, err := db.Init(&cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		return NewGormStore(gormDB), sqlDB.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Store.Redis.Addr, err)
		}
		log.Info("redis store connected", zap.String("addr", cfg.Store.Redis.Addr))
		return NewRedisStore(client, cfg.Store.Redis.KeyPrefix), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}
