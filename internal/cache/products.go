// Package cache provides a Redis read-through cache in front of product reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"product-showcase-service/internal/domain"
	"product-showcase-service/internal/monitoring"
	"product-showcase-service/internal/store"
)

const keyPrefix = "showcase:"

// ProductCache implements store.ProductReader on top of another ProductReader.
// Redis failures are logged and fall through to the underlying reader.
type ProductCache struct {
	next    store.ProductReader
	rdb     redis.Cmdable
	ttl     time.Duration
	log     zerolog.Logger
	metrics *monitoring.Metrics
}

// NewProductCache wraps next. Lookups that miss are stored for ttl.
func NewProductCache(next store.ProductReader, rdb redis.Cmdable, ttl time.Duration, log zerolog.Logger, m *monitoring.Metrics) *ProductCache {
	return &ProductCache{next: next, rdb: rdb, ttl: ttl, log: log, metrics: m}
}

func productKey(id int64) string {
	return keyPrefix + "product:" + strconv.FormatInt(id, 10)
}

func categoryKey(category string) string {
	return keyPrefix + "category:" + url.QueryEscape(category)
}

func (c *ProductCache) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var cached domain.Product
	if c.lookup(ctx, productKey(id), &cached) {
		return &cached, nil
	}

	p, err := c.next.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, productKey(id), p)
	return p, nil
}

func (c *ProductCache) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var cached []domain.Product
	if c.lookup(ctx, categoryKey(category), &cached) {
		return cached, nil
	}

	products, err := c.next.ListProductsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	c.store(ctx, categoryKey(category), products)
	return products, nil
}

// lookup decodes the value at key into dest and reports whether it was a usable hit.
func (c *ProductCache) lookup(ctx context.Context, key string, dest any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.metrics.RecordCache(monitoring.CacheMiss)
		return false
	case err != nil:
		c.metrics.RecordCache(monitoring.CacheError)
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.metrics.RecordCache(monitoring.CacheError)
		c.log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return false
	}
	c.metrics.RecordCache(monitoring.CacheHit)
	return true
}

func (c *ProductCache) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache encode failed")
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// NewClient creates a Redis client from a redis:// URL and checks connectivity.
func NewClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}
	return rdb, nil
}
