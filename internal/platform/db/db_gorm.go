// Package db opens and migrates the relational store.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"recipe_backend/internal/feature/recipe/domain/entity"
	useradapters "recipe_backend/internal/feature/user/adapters"
	userentity "recipe_backend/internal/feature/user/domain/entity"
	"recipe_backend/internal/platform/config"
)

// retryInterval is the pause between connection attempts.
var retryInterval = 3 * time.Second

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the connection string for the configured driver.
func BuildDSN(cfg config.DBConfig) string {
	if cfg.Driver == "sqlite" {
		return cfg.Path + "?_foreign_keys=on"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
}

// OpenerFor returns the Opener matching the driver name.
func OpenerFor(driver string) Opener {
	return func(dsn string) (*gorm.DB, error) {
		var dialector gorm.Dialector
		if driver == "sqlite" {
			dialector = sqlite.Open(dsn)
		} else {
			dialector = postgres.Open(dsn)
		}
		return gorm.Open(dialector, &gorm.Config{TranslateError: true})
	}
}

// ConnectWithRetry keeps calling open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Models lists every table owned by the application, parents first.
func Models() []any {
	return []any{
		&userentity.User{},
		&useradapters.SessionModel{},
		&entity.Tag{},
		&entity.Ingredient{},
		&entity.Recipe{},
	}
}

// Migrate creates or updates every table, including the recipe join tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// OpenDB connects using cfg and runs migrations when enabled.
func OpenDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectWait, OpenerFor(cfg.Driver))
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		slog.Info("database migrated", "driver", cfg.Driver)
	}
	return db, nil
}
