package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipe_backend/internal/platform/config"
)

// TestBuildDSN_Postgres はPostgreSQL用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_Postgres(t *testing.T) {
	t.Parallel()

	cfg := config.DBConfig{
		Driver:   "postgres",
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
		SSLMode:  "disable",
	}

	expected := "host=localhost user=testuser password=testpass dbname=testdb port=5432 sslmode=disable TimeZone=UTC"
	assert.Equal(t, expected, BuildDSN(cfg))
}

// TestBuildDSN_SQLite はSQLite用DSNで外部キー制約が有効化されることを検証します。
func TestBuildDSN_SQLite(t *testing.T) {
	t.Parallel()

	cfg := config.DBConfig{Driver: "sqlite", Path: "./recipe.db"}

	assert.Equal(t, "./recipe.db?_foreign_keys=on", BuildDSN(cfg))
}

func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = 3 * time.Second })

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attempts)
}

func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 0, opener)

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

// TestOpenDB_SQLiteMigrates はSQLiteでの接続とマイグレーションで全テーブルが作成されることを検証します。
func TestOpenDB_SQLiteMigrates(t *testing.T) {
	cfg := config.DBConfig{
		Driver:        "sqlite",
		Path:          filepath.Join(t.TempDir(), "test.db"),
		RunMigrations: true,
		ConnectWait:   time.Second,
	}

	db, err := OpenDB(cfg)
	require.NoError(t, err)

	for _, table := range []string{"users", "sessions", "tags", "ingredients", "recipes", "recipe_tags", "recipe_ingredients"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}
