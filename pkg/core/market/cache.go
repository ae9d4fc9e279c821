package market

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is the byte-level cache the client reads through. The redis
// implementation is the normal one; nopCache keeps the client usable
// when no cache is reachable.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// CacheKey builds a stable key from the endpoint and its query. The
// query is hashed so address strings never leak into key listings.
func CacheKey(endpoint, query string) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("market:%s:%s", endpoint, hex.EncodeToString(sum[:]))
}

type redisCache struct {
	rdb *redis.Client
}

// NewRedisCache connects to redis at addr. A failed ping degrades to a
// no-op cache rather than failing the caller; lookups still work, they
// just hit the upstream API every time.
func NewRedisCache(ctx context.Context, addr string) Cache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis unreachable, market cache disabled")
		return nopCache{}
	}
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("market cache read failed")
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("market cache write failed")
	}
}

// nopCache misses on every read and drops every write.
type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (nopCache) Set(context.Context, string, []byte, time.Duration) {}

// NopCache returns a cache that caches nothing.
func NopCache() Cache { return nopCache{} }
