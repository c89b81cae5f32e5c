// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"recipe_backend/internal/platform/config"
)

// NewRedisClient は設定からRedisクライアントを生成し、接続を確認します。
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	addr := cfg.RedisAddr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
