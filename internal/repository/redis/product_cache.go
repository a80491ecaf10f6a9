package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gomart/domain"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss signals that the slug has no cached entry; callers fall back
// to the store.
var ErrCacheMiss = errors.New("cache miss")

type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
	}
}

func productKey(slug string) string {
	return fmt.Sprintf("product:slug:%s", slug)
}

func (c *ProductCache) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	val, err := c.client.Get(ctx, productKey(slug)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read product from cache: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached product: %w", err)
	}

	return &product, nil
}

func (c *ProductCache) SetProduct(ctx context.Context, product *domain.Product) error {
	jsonData, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product for cache: %w", err)
	}

	if err := c.client.Set(ctx, productKey(product.Slug), jsonData, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store product in cache: %w", err)
	}

	return nil
}

func (c *ProductCache) Invalidate(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, productKey(slug)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached product: %w", err)
	}

	return nil
}
