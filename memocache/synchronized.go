/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package memocache

import "sync"

// Synchronized serializes access to a Cache so it may be shared between goroutines.
// The lock is held while the compute function runs,
// so concurrent misses (even for different keys) are computed one at a time.
type Synchronized[K comparable, V any] struct {
	mu    sync.Mutex
	cache *Cache[K, V]
}

// NewSynchronized wraps the cache. The cache must not be used directly afterwards.
func NewSynchronized[K comparable, V any](cache *Cache[K, V]) *Synchronized[K, V] {
	return &Synchronized[K, V]{cache: cache}
}

// Get calls Cache.Get under the lock.
func (s *Synchronized[K, V]) Get(key K) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(key)
}

// Peek calls Cache.Peek under the lock.
func (s *Synchronized[K, V]) Peek(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Peek(key)
}

// Contains calls Cache.Contains under the lock.
func (s *Synchronized[K, V]) Contains(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Contains(key)
}

// Keys calls Cache.Keys under the lock.
func (s *Synchronized[K, V]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Keys()
}

// Len calls Cache.Len under the lock.
func (s *Synchronized[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// Cap returns the capacity of the wrapped cache.
func (s *Synchronized[K, V]) Cap() int {
	return s.cache.Cap()
}
