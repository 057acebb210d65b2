/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package memocache provides a fixed-capacity memoizing cache with LRU eviction policy and Prometheus metrics.
//
// A Cache is created with a capacity and a compute function.
// Get returns the cached value for a key or, on a miss, calls the compute function,
// stores its result as the most recently used entry and returns it.
// When the cache is full, the least recently used entry is evicted to make room.
//
// By default the eviction happens before the compute function is called.
// If the computation then fails, the cache keeps one free slot until the next miss fills it.
// Options.EvictAfterCompute changes the order so that a failed computation leaves the cache untouched.
//
// Cache is not safe for concurrent use. Use Synchronized to share a cache between goroutines.
package memocache
