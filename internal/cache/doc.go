// Package cache provides a generic, thread-safe LRU cache.
//
// Cache[K, V] evicts least-recently-used entries down to 75% of its soft
// limit once that limit is exceeded, backed by an intrusive doubly-linked recency list for
// O(1) touch/evict rather than a per-eviction sort over access timestamps.
//
//	c := cache.New[string, *image.RGBA](64)
//	img := c.GetOrCreate("asset-0", decode)
//
// # Thread Safety
//
// Cache is safe for concurrent use. It must not be copied after creation
// (it contains a mutex).
package cache
