package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe_backend/internal/feature/recipe/domain/entity"
)

// mockTagRepository はテスト用のTaxonomyRepositoryモック実装です。
type mockTagRepository struct {
	listFn   func(ctx context.Context, ownerID uint, assignedOnly bool) ([]entity.Tag, error)
	createFn func(ctx context.Context, ownerID uint, name string) (*entity.Tag, error)
	calls    int
}

func (m *mockTagRepository) ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]entity.Tag, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(ctx, ownerID, assignedOnly)
	}
	return []entity.Tag{}, nil
}

func (m *mockTagRepository) Create(ctx context.Context, ownerID uint, name string) (*entity.Tag, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, name)
	}
	return &entity.Tag{ID: 1, Name: name, UserID: ownerID}, nil
}

// TestNewCachingTaxonomyRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingTaxonomyRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "taxonomy"},
		{"negative ttl uses default", -time.Minute, "tags", 5 * time.Minute, "tags"},
		{"custom values preserved", 10 * time.Minute, "ingredients", 10 * time.Minute, "ingredients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingTaxonomyRepository[entity.Tag](nil, tt.ttl, &mockTagRepository{}, tt.namespace)

			assert.Equal(t, tt.expectedTTL, repo.ttl)
			assert.Equal(t, tt.expectedNamespace, repo.namespace)
		})
	}
}

// TestCachingTaxonomyRepository_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingTaxonomyRepository_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockTagRepository{}
	repo := NewCachingTaxonomyRepository[entity.Tag](nil, time.Minute, inner, "tags")

	for i := 0; i < 2; i++ {
		_, err := repo.ListByOwner(context.Background(), 1, false)
		require.NoError(t, err)
	}
	_, err := repo.Create(context.Background(), 1, "Vegan")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

// TestCachingTaxonomyRepository_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingTaxonomyRepository_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal([]entity.Tag{{ID: 1, Name: "Vegan", UserID: 3}})
	mock.ExpectGet("tags:3:ver").SetVal("2")
	mock.ExpectGet("tags:3:v2").SetVal(string(cached))

	inner := &mockTagRepository{}
	repo := NewCachingTaxonomyRepository[entity.Tag](rdb, 5*time.Minute, inner, "tags")

	tags, err := repo.ListByOwner(context.Background(), 3, false)

	require.NoError(t, err)
	assert.Equal(t, 0, inner.calls, "inner repository should not be called on cache hit")
	require.Len(t, tags, 1)
	assert.Equal(t, "Vegan", tags[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingTaxonomyRepository_CacheMiss はキャッシュミス時にDBから取得してキャッシュに保存することを検証します。
func TestCachingTaxonomyRepository_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := []entity.Tag{{ID: 2, Name: "Dessert", UserID: 3}}
	expectedJSON, _ := json.Marshal(expected)

	mock.ExpectGet("tags:3:ver").RedisNil()
	mock.ExpectGet("tags:3:v0").RedisNil()
	mock.ExpectSet("tags:3:v0", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockTagRepository{
		listFn: func(ctx context.Context, ownerID uint, assignedOnly bool) ([]entity.Tag, error) {
			return expected, nil
		},
	}
	repo := NewCachingTaxonomyRepository[entity.Tag](rdb, 5*time.Minute, inner, "tags")

	tags, err := repo.ListByOwner(context.Background(), 3, false)

	require.NoError(t, err)
	assert.Equal(t, expected, tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingTaxonomyRepository_CorruptedCache は破損したキャッシュを削除しDBにフォールバックすることを検証します。
func TestCachingTaxonomyRepository_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := []entity.Tag{{ID: 2, Name: "Dessert", UserID: 3}}
	expectedJSON, _ := json.Marshal(expected)

	mock.ExpectGet("tags:3:ver").RedisNil()
	mock.ExpectGet("tags:3:v0").SetVal("invalid json")
	mock.ExpectDel("tags:3:v0").SetVal(1)
	mock.ExpectSet("tags:3:v0", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockTagRepository{
		listFn: func(ctx context.Context, ownerID uint, assignedOnly bool) ([]entity.Tag, error) {
			return expected, nil
		},
	}
	repo := NewCachingTaxonomyRepository[entity.Tag](rdb, 5*time.Minute, inner, "tags")

	_, err := repo.ListByOwner(context.Background(), 3, false)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingTaxonomyRepository_InnerError は内部リポジトリのエラーが伝播されることを検証します。
func TestCachingTaxonomyRepository_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	mock.ExpectGet("tags:3:ver").RedisNil()
	mock.ExpectGet("tags:3:v0").RedisNil()

	inner := &mockTagRepository{
		listFn: func(ctx context.Context, ownerID uint, assignedOnly bool) ([]entity.Tag, error) {
			return nil, expectedErr
		},
	}
	repo := NewCachingTaxonomyRepository[entity.Tag](rdb, 5*time.Minute, inner, "tags")

	_, err := repo.ListByOwner(context.Background(), 3, false)

	assert.ErrorIs(t, err, expectedErr)
}

// TestCachingTaxonomyRepository_AssignedOnlyBypassesCache はassigned_onlyの一覧がキャッシュを使わないことを検証します。
func TestCachingTaxonomyRepository_AssignedOnlyBypassesCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	var gotAssigned bool
	inner := &mockTagRepository{
		listFn: func(ctx context.Context, ownerID uint, assignedOnly bool) ([]entity.Tag, error) {
			gotAssigned = assignedOnly
			return []entity.Tag{}, nil
		},
	}
	repo := NewCachingTaxonomyRepository[entity.Tag](rdb, 5*time.Minute, inner, "tags")

	_, err := repo.ListByOwner(context.Background(), 3, true)

	require.NoError(t, err)
	assert.True(t, gotAssigned)
	assert.NoError(t, mock.ExpectationsWereMet(), "no redis commands expected")
}

// TestCachingTaxonomyRepository_CreateInvalidates は作成後に所有者のキャッシュが無効化され、次の一覧に反映されることを検証します。
func TestCachingTaxonomyRepository_CreateInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	stored := []entity.Tag{{ID: 1, Name: "Dessert", UserID: 3}}
	inner := &mockTagRepository{
		listFn: func(ctx context.Context, ownerID uint, assignedOnly bool) ([]entity.Tag, error) {
			return append([]entity.Tag(nil), stored...), nil
		},
		createFn: func(ctx context.Context, ownerID uint, name string) (*entity.Tag, error) {
			tag := entity.Tag{ID: 2, Name: name, UserID: ownerID}
			stored = append([]entity.Tag{tag}, stored...)
			return &tag, nil
		},
	}
	repo := NewCachingTaxonomyRepository[entity.Tag](rdb, time.Minute, inner, "tags")
	ctx := context.Background()

	first, err := repo.ListByOwner(ctx, 3, false)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists("tags:3:v0"))

	_, err = repo.ListByOwner(ctx, 3, false)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second listing is served from cache")

	_, err = repo.Create(ctx, 3, "Vegan")
	require.NoError(t, err)
	ver, err := mr.Get("tags:3:ver")
	require.NoError(t, err)
	assert.Equal(t, "1", ver)
	assert.False(t, mr.Exists("tags:4:ver"), "other owners are untouched")

	second, err := repo.ListByOwner(ctx, 3, false)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 2, inner.calls)
}

// TestCachingTaxonomyRepository_StaleFillAfterCreate は作成と並行して古い一覧を読んだ呼び出しが
// キャッシュを書き込んでも、次の一覧に新しいラベルが含まれることを検証します。
func TestCachingTaxonomyRepository_StaleFillAfterCreate(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var mu sync.Mutex
	stored := []entity.Tag{{ID: 1, Name: "Old", UserID: 3}}
	snapshotTaken := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	inner := &mockTagRepository{
		listFn: func(ctx context.Context, ownerID uint, assignedOnly bool) ([]entity.Tag, error) {
			mu.Lock()
			snapshot := append([]entity.Tag(nil), stored...)
			mu.Unlock()
			blocked := false
			once.Do(func() { blocked = true })
			if blocked {
				close(snapshotTaken)
				<-release
			}
			return snapshot, nil
		},
		createFn: func(ctx context.Context, ownerID uint, name string) (*entity.Tag, error) {
			mu.Lock()
			defer mu.Unlock()
			tag := entity.Tag{ID: 2, Name: name, UserID: ownerID}
			stored = append([]entity.Tag{tag}, stored...)
			return &tag, nil
		},
	}
	repo := NewCachingTaxonomyRepository[entity.Tag](rdb, time.Minute, inner, "tags")
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := repo.ListByOwner(ctx, 3, false)
		done <- err
	}()

	<-snapshotTaken
	_, err := repo.Create(ctx, 3, "New")
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)

	tags, err := repo.ListByOwner(ctx, 3, false)
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"New", "Old"}, names)
}

// TestCachingTaxonomyRepository_VersionLookupError はバージョン取得に失敗した場合に内部リポジトリへフォールバックすることを検証します。
func TestCachingTaxonomyRepository_VersionLookupError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("tags:3:ver").SetErr(errors.New("connection reset"))

	inner := &mockTagRepository{}
	repo := NewCachingTaxonomyRepository[entity.Tag](rdb, time.Minute, inner, "tags")

	_, err := repo.ListByOwner(context.Background(), 3, false)

	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingTaxonomyRepository_CreateError はCreate失敗時にキャッシュを変更しないことを検証します。
func TestCachingTaxonomyRepository_CreateError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("insert failed")
	inner := &mockTagRepository{
		createFn: func(ctx context.Context, ownerID uint, name string) (*entity.Tag, error) {
			return nil, expectedErr
		},
	}
	repo := NewCachingTaxonomyRepository[entity.Tag](rdb, time.Minute, inner, "tags")

	_, err := repo.Create(context.Background(), 3, "Vegan")

	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
