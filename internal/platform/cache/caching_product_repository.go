// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

// CachingProductRepository decorates a ProductRepository with a Redis read-through cache
// for single-product reads. Every write through it invalidates the affected entry.
type CachingProductRepository struct {
	inner     usecase.ProductRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ProductRepository = (*CachingProductRepository)(nil)

// NewCachingProductRepository decorates a ProductRepository with Redis caching.
// If ttl is 0, it defaults to 30 seconds. If namespace is empty, it uses "products".
// A nil rdb disables caching.
func NewCachingProductRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ProductRepository, namespace string) *CachingProductRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if namespace == "" {
		namespace = "products"
	}
	return &CachingProductRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindByID retrieves a product, checking cache first then falling back to the database.
func (c *CachingProductRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.cacheKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Product
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// List is not cached.
func (c *CachingProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	return c.inner.List(ctx)
}

func (c *CachingProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return c.inner.Create(ctx, p)
}

// Update updates the product and drops its cache entry.
func (c *CachingProductRepository) Update(ctx context.Context, id uint, changes usecase.ProductChanges) error {
	if err := c.inner.Update(ctx, id, changes); err != nil {
		return err
	}
	_ = c.Invalidate(ctx, id) // Best effort: don't fail if cache deletion fails
	return nil
}

// Delete deletes the product and drops its cache entry.
func (c *CachingProductRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = c.Invalidate(ctx, id)
	return nil
}

// DecrementStock decrements stock and drops the cache entry.
// Used by catalog callers outside a transaction. The purchase flow decrements
// through the raw repository inside its tx and calls Invalidate after commit.
func (c *CachingProductRepository) DecrementStock(ctx context.Context, id uint, qty int) error {
	if err := c.inner.DecrementStock(ctx, id, qty); err != nil {
		return err
	}
	_ = c.Invalidate(ctx, id)
	return nil
}

// Invalidate removes the cached copy of one product.
// Writers that bypass this decorator (the purchase transaction) call it after commit.
func (c *CachingProductRepository) Invalidate(ctx context.Context, id uint) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey(id)).Err()
}

// cacheKey generates the cache key for one product.
func (c *CachingProductRepository) cacheKey(id uint) string {
	return fmt.Sprintf("%s:%d", c.namespace, id)
}
