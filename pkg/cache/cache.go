package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache stores values of type V by key.
//
// A positive ttl expires the entry after that duration, zero uses the
// backend's default and a negative ttl keeps the entry until it is deleted
// or evicted.
type Cache[V any] interface {
	// Get returns ErrNotFound for missing and expired keys.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Codec converts values to bytes for backends that store bytes.
type Codec[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSON is the default Codec.
type JSON[V any] struct{}

func (JSON[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (JSON[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

// Raw stores byte slices as is.
type Raw struct{}

func (Raw) Marshal(v []byte) ([]byte, error)      { return v, nil }
func (Raw) Unmarshal(data []byte) ([]byte, error) { return data, nil }

var loads singleflight.Group

// GetOrSet returns the cached value for key or computes it with fn.
// Concurrent misses for the same key on the same cache share one call to fn.
// Values are not cached when fn fails. A failure to store the computed value
// is ignored: the value is still returned.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, ttl time.Duration, fn func(ctx context.Context) (V, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err, _ := loads.Do(fmt.Sprintf("%p|%s", c, key), func() (any, error) {
		val, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, val, ttl)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
