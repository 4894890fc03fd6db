// Package cache provides a generic key-value cache with an in-memory and a
// Redis backend.
//
// The memory backend is an LRU bounded by WithMaxEntries with per-entry TTLs;
// a janitor goroutine purges expired entries. The Redis backend encodes values
// with a Codec (JSON by default, Raw for byte slices) and namespaces keys
// with RedisConfig.Prefix.
//
// GetOrSet computes a missing value once even under concurrent misses:
//
//	html, err := cache.GetOrSet(ctx, fragments, "sidebar", 5*time.Minute,
//	    func(ctx context.Context) ([]byte, error) { return renderSidebar(ctx) })
package cache
