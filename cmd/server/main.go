package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"recipe_backend/internal/app/di"
	"recipe_backend/internal/app/router"
	"recipe_backend/internal/platform/config"
	"recipe_backend/internal/platform/db"
	"recipe_backend/internal/platform/logging"
	platformredis "recipe_backend/internal/platform/redis"
	"recipe_backend/internal/platform/validation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(os.Stdout, cfg.Log.Level); err != nil {
		log.Fatal(err)
	}
	if err := validation.Register(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.OpenDB(cfg.DB)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled {
		if tmp, err := platformredis.NewRedisClient(ctx, cfg); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	container, err := di.NewContainer(cfg, gdb, rdb)
	if err != nil {
		slog.Error("failed to wire application", "error", err)
		os.Exit(1)
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWT.Secret == "" {
		slog.Warn("JWT_SECRET is not set. Authenticated endpoints will fail; set a strong secret.")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.NewRouter(cfg, container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr, "redis", rdb != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
