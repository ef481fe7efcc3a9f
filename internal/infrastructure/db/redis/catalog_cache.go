package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/borneomart/shipping-quote/internal/core/domain"
	"github.com/borneomart/shipping-quote/internal/core/ports"
)

const (
	defaultCatalogTTL = 5 * time.Minute
	catalogKey        = "shipquote:catalog:v1"
)

// CatalogCache stores the sanitized provider catalog as one JSON value.
// Key format: shipquote:catalog:v1
type CatalogCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ ports.CatalogCache = (*CatalogCache)(nil)

// NewCatalogCache wraps client. A non-positive ttl uses defaultCatalogTTL.
func NewCatalogCache(client redis.Cmdable, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get returns domain.ErrCacheMiss when no snapshot is stored.
func (c *CatalogCache) Get(ctx context.Context) ([]domain.ShippingProvider, error) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("catalog cache get: %w", err)
	}

	var providers []domain.ShippingProvider
	if err := json.Unmarshal(raw, &providers); err != nil {
		return nil, fmt.Errorf("catalog cache decode: %w", err)
	}
	return providers, nil
}

// Set stores providers until the TTL expires.
func (c *CatalogCache) Set(ctx context.Context, providers []domain.ShippingProvider) error {
	raw, err := json.Marshal(providers)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}
	if err := c.client.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("catalog cache set: %w", err)
	}
	return nil
}

// Invalidate drops the stored snapshot.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}
