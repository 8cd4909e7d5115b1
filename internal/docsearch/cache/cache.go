// Package cache provides an advisory result cache for search pages backed
// by Redis. Every failure is logged and swallowed: a cache outage degrades
// to always-miss, never to a failed request.
package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Config names the Redis endpoint and default TTL.
type Config struct {
	Enabled               bool
	Addr                  string
	Password              string
	DB                    int
	TLSInsecureSkipVerify bool
	TTL                   time.Duration
}

// Cache wraps a Redis client. A nil *Cache (or one built from a disabled
// Config) answers every call as a miss/no-op.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New builds a Cache when cfg.Enabled, pinging the server once at
// construction. Returns (nil, nil) when disabled.
func New(cfg Config) (*Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLSInsecureSkipVerify {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Load returns the cached value for key, or (nil, false) on a miss or any
// Redis error.
func (c *Cache) Load(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("cache: get failed")
		}
		return nil, false
	}
	return val, true
}

// Store caches value under key with the configured TTL. Errors are logged
// and otherwise ignored.
func (c *Cache) Store(ctx context.Context, key string, value []byte) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: set failed")
	}
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
