// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"recipe_backend/internal/feature/recipe/usecase"
)

// CachingTaxonomyRepository decorates a TaxonomyRepository with Redis caching.
// Only full per-owner listings are cached; assigned_only listings depend on
// recipes and always go to the inner repository.
//
// Listing keys embed a per-owner version (<ns>:<owner>:v<N>). Create bumps the
// version, so a fill that read the database before the insert can only write
// to a key no reader uses any more. Superseded keys expire after ttl.
type CachingTaxonomyRepository[T any] struct {
	inner     usecase.TaxonomyRepository[T]
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TaxonomyRepository[struct{}] = (*CachingTaxonomyRepository[struct{}])(nil)

// NewCachingTaxonomyRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "taxonomy".
// A nil rdb disables caching.
func NewCachingTaxonomyRepository[T any](rdb *redis.Client, ttl time.Duration, inner usecase.TaxonomyRepository[T], namespace string) *CachingTaxonomyRepository[T] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "taxonomy"
	}
	return &CachingTaxonomyRepository[T]{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the label and invalidates the owner's cached listing.
func (c *CachingTaxonomyRepository[T]) Create(ctx context.Context, ownerID uint, name string) (*T, error) {
	out, err := c.inner.Create(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	if c.rdb == nil {
		return out, nil
	}
	if err := c.rdb.Incr(ctx, c.versionKey(ownerID)).Err(); err != nil {
		// The entry expires after ttl anyway.
		slog.Warn("cache invalidation failed", "error", err, "namespace", c.namespace, "owner_id", ownerID)
	}
	return out, nil
}

// ListByOwner checks the cache first for full listings, then falls back to the inner repository.
func (c *CachingTaxonomyRepository[T]) ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]T, error) {
	if c.rdb == nil || assignedOnly {
		return c.inner.ListByOwner(ctx, ownerID, assignedOnly)
	}

	// The version must be read before the database.
	version, err := c.rdb.Get(ctx, c.versionKey(ownerID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("cache version lookup failed", "error", err, "namespace", c.namespace, "owner_id", ownerID)
		return c.inner.ListByOwner(ctx, ownerID, false)
	}
	key := c.cacheKey(ownerID, version)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

func (c *CachingTaxonomyRepository[T]) cacheKey(ownerID uint, version int64) string {
	return fmt.Sprintf("%s:%d:v%d", c.namespace, ownerID, version)
}

func (c *CachingTaxonomyRepository[T]) versionKey(ownerID uint) string {
	return fmt.Sprintf("%s:%d:ver", c.namespace, ownerID)
}
