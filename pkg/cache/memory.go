package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds a memory cache created without WithMaxEntries.
const DefaultMaxEntries = 10_000

type item[V any] struct {
	expiresAt time.Time
	value     V
}

func (i item[V]) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

// WithDefaultTTL sets the expiration used when Set gets a zero ttl.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) { o.defaultTTL = d }
}

// WithCleanupInterval sets how often expired entries are purged in the
// background. Zero disables the janitor; expired entries are then dropped
// lazily on Get.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) { o.cleanupInterval = d }
}

// WithMaxEntries sets the LRU capacity.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// Memory is a process-local cache with TTL expiration and LRU eviction.
type Memory[V any] struct {
	items *lru.Cache[string, item[V]]
	opts  memoryOptions
	done  chan struct{}
	once  sync.Once
}

// NewMemory creates an in-memory cache. Call Close to stop the janitor.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := memoryOptions{
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
		maxEntries:      DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Only fails for a non-positive size, which the options prevent.
	items, _ := lru.New[string, item[V]](o.maxEntries)

	m := &Memory[V]{items: items, opts: o, done: make(chan struct{})}
	if o.cleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	it, ok := m.items.Get(key)
	if !ok {
		return zero, ErrNotFound
	}
	if it.expired(time.Now()) {
		m.items.Remove(key)
		return zero, ErrNotFound
	}
	return it.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if m.closed() {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	it := item[V]{value: value}
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}
	m.items.Add(key, it)
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.items.Remove(key)
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.items.Purge()
	return nil
}

// Len reports the number of entries, including expired ones not yet purged.
func (m *Memory[V]) Len() int {
	return m.items.Len()
}

// Close stops the janitor. It is safe to call more than once.
func (m *Memory[V]) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

func (m *Memory[V]) closed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.purgeExpired()
		}
	}
}

func (m *Memory[V]) purgeExpired() {
	now := time.Now()
	for _, key := range m.items.Keys() {
		if it, ok := m.items.Peek(key); ok && it.expired(now) {
			m.items.Remove(key)
		}
	}
}

var _ Cache[any] = (*Memory[any])(nil)
