package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a Redis cache.
type RedisConfig struct {
	Prefix     string        `env:"CACHE_PREFIX" envDefault:"cache"`
	DefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL" envDefault:"1h"`
}

// Redis is a cache stored in Redis. Keys are namespaced as "prefix:key".
type Redis[V any] struct {
	client redis.UniversalClient
	codec  Codec[V]
	cfg    RedisConfig
}

// NewRedis creates a Redis cache. A nil codec selects JSON.
//
//	pages := cache.NewRedis[[]byte](client, cache.Raw{}, cfg)
func NewRedis[V any](client redis.UniversalClient, codec Codec[V], cfg RedisConfig) *Redis[V] {
	if codec == nil {
		codec = JSON[V]{}
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = time.Hour
	}
	return &Redis[V]{client: client, codec: codec, cfg: cfg}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("cache: get %q: %w", key, err)
	}
	return r.codec.Unmarshal(data)
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.codec.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.cfg.DefaultTTL
	}
	// Redis treats 0 as "no expiration".
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Clear deletes every key under the prefix using SCAN. Without a prefix it
// flushes the current database.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.cfg.Prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	iter := r.client.Scan(ctx, 0, r.cfg.Prefix+":*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (r *Redis[V]) key(k string) string {
	if r.cfg.Prefix == "" {
		return k
	}
	return r.cfg.Prefix + ":" + k
}

var _ Cache[any] = (*Redis[any])(nil)
