package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/pkg/cache"
)

func newRedis(t *testing.T, prefix string) (*cache.Redis[string], *miniredis.Miniredis, goredis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedis[string](client, nil, cache.RedisConfig{Prefix: prefix}), mr, client
}

func backends(t *testing.T) map[string]cache.Cache[string] {
	t.Helper()
	mem := cache.NewMemory[string](cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = mem.Close() })
	rc, _, _ := newRedis(t, "test")
	return map[string]cache.Cache[string]{"memory": mem, "redis": rc}
}

func TestCache_Contract(t *testing.T) {
	t.Parallel()

	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			_, err := c.Get(ctx, "missing")
			require.ErrorIs(t, err, cache.ErrNotFound)

			require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
			require.NoError(t, c.Set(ctx, "b", "2", -1))
			v, err := c.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "1", v)

			require.NoError(t, c.Set(ctx, "a", "updated", 0))
			v, err = c.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "updated", v)

			require.NoError(t, c.Delete(ctx, "a"))
			require.NoError(t, c.Delete(ctx, "a"))
			_, err = c.Get(ctx, "a")
			require.ErrorIs(t, err, cache.ErrNotFound)

			require.NoError(t, c.Clear(ctx))
			_, err = c.Get(ctx, "b")
			require.ErrorIs(t, err, cache.ErrNotFound)
		})
	}
}

func TestMemory_Expiration(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[int](cache.WithCleanupInterval(0))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", 1, 10*time.Millisecond))
	require.NoError(t, c.Set(ctx, "forever", 2, -1))
	time.Sleep(20 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	require.ErrorIs(t, err, cache.ErrNotFound)
	v, err := c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestMemory_Janitor(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[int](cache.WithCleanupInterval(5 * time.Millisecond))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, time.Millisecond))
	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemory_LRU(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[int](cache.WithMaxEntries(2), cache.WithCleanupInterval(0))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "c", 3, 0))

	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound)
	assert.Equal(t, 2, c.Len())
}

func TestMemory_Close(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[int]()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Set(context.Background(), "k", 1, 0), cache.ErrClosed)
}

func TestRedis_Keys(t *testing.T) {
	t.Parallel()

	c, mr, client := newRedis(t, "pages")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "home", "hello", time.Minute))
	require.NoError(t, client.Set(ctx, "other", "x", 0).Err())
	assert.True(t, mr.Exists("pages:home"))
	assert.Equal(t, time.Minute, mr.TTL("pages:home"))

	require.NoError(t, c.Set(ctx, "default", "x", 0))
	assert.Equal(t, time.Hour, mr.TTL("pages:default"))

	mr.FastForward(2 * time.Minute)
	_, err := c.Get(ctx, "home")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Clear(ctx))
	assert.False(t, mr.Exists("pages:default"))
	assert.True(t, mr.Exists("other"))
}

func TestRedis_Codec(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	raw := cache.NewRedis[[]byte](client, cache.Raw{}, cache.RedisConfig{Prefix: "raw"})
	require.NoError(t, raw.Set(ctx, "k", []byte("<p>hi</p>"), 0))
	got, err := mr.Get("raw:k")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", got)

	type point struct{ X, Y int }
	pts := cache.NewRedis[point](client, nil, cache.RedisConfig{Prefix: "pt"})
	require.NoError(t, pts.Set(ctx, "p", point{1, 2}, 0))
	p, err := pts.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, point{1, 2}, p)

	require.NoError(t, mr.Set("pt:bad", "{"))
	_, err = pts.Get(ctx, "bad")
	require.ErrorIs(t, err, cache.ErrUnmarshal)
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	t.Run("hit", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()
		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", "cached", 0))

		v, err := cache.GetOrSet(ctx, c, "k", time.Minute, func(context.Context) (string, error) {
			t.Error("loader called on hit")
			return "", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "cached", v)
	})

	t.Run("miss stores the value", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()
		ctx := context.Background()

		v, err := cache.GetOrSet(ctx, c, "k", time.Minute, func(context.Context) (string, error) {
			return "computed", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "computed", v)

		v, err = c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "computed", v)
	})

	t.Run("error is not cached", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()
		ctx := context.Background()
		boom := errors.New("boom")

		_, err := cache.GetOrSet(ctx, c, "k", 0, func(context.Context) (string, error) {
			return "", boom
		})
		require.ErrorIs(t, err, boom)
		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("concurrent misses share one load", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()
		ctx := context.Background()

		var calls atomic.Int32
		release := make(chan struct{})
		var wg sync.WaitGroup
		for range 10 {
			wg.Go(func() {
				v, err := cache.GetOrSet(ctx, c, "k", 0, func(context.Context) (int, error) {
					calls.Add(1)
					<-release
					return 42, nil
				})
				assert.NoError(t, err)
				assert.Equal(t, 42, v)
			})
		}
		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(10 * time.Millisecond)
		close(release)
		wg.Wait()
		assert.LessOrEqual(t, calls.Load(), int32(2))
	})

	t.Run("same key on different caches", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		a := cache.NewMemory[string]()
		defer a.Close()
		b := cache.NewMemory[int]()
		defer b.Close()

		s, err := cache.GetOrSet(ctx, a, "k", 0, func(context.Context) (string, error) { return "s", nil })
		require.NoError(t, err)
		n, err := cache.GetOrSet(ctx, b, "k", 0, func(context.Context) (int, error) { return 7, nil })
		require.NoError(t, err)
		assert.Equal(t, "s", s)
		assert.Equal(t, 7, n)
	})
}
