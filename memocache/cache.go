/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package memocache

import (
	"errors"
	"fmt"
	"time"

	"github.com/acronis/go-memocache/internal/recency"
	"github.com/acronis/go-memocache/log"
)

// ErrInvalidArgument is returned by the constructors when the cache cannot be created with the passed arguments.
var ErrInvalidArgument = errors.New("invalid argument")

// ComputeFunc computes the value for the key on a cache miss.
// It must be deterministic: the cache never revalidates a stored value.
// A returned error is passed to the caller of Get as is.
type ComputeFunc[K comparable, V any] func(key K) (V, error)

// Infallible adapts a function that cannot fail to ComputeFunc.
func Infallible[K comparable, V any](fn func(key K) V) ComputeFunc[K, V] {
	return func(key K) (V, error) {
		return fn(key), nil
	}
}

// Options represents options for the cache.
type Options struct {
	// MetricsCollector is used to collect statistics about cache usage.
	// It can be an untyped nil, in this case, metrics will be disabled.
	// A typed nil (e.g. a nil *PrometheusMetrics) is not allowed and leads to a panic on the first Get.
	MetricsCollector MetricsCollector

	// Logger receives debug messages about evicted entries.
	// It can be nil, in this case, nothing is logged.
	Logger log.FieldLogger

	// EvictAfterCompute makes a miss on a full cache evict the least recently used entry
	// only after the compute function succeeded.
	// By default, the entry is evicted before the compute function is called.
	EvictAfterCompute bool
}

// Cache is a fixed-capacity memoizing cache with LRU eviction policy.
type Cache[K comparable, V any] struct {
	capacity          int
	computeValue      ComputeFunc[K, V]
	evictAfterCompute bool

	index   map[K]int // key -> node index in entries
	entries *recency.List[K, V]

	metricsCollector MetricsCollector
	logger           log.FieldLogger
}

// New creates a new Cache with the provided capacity and compute function.
func New[K comparable, V any](capacity int, computeValue ComputeFunc[K, V]) (*Cache[K, V], error) {
	return NewWithOpts[K, V](capacity, computeValue, Options{})
}

// NewWithOpts creates a new Cache with the provided capacity, compute function, and options.
// It returns an error wrapping ErrInvalidArgument if capacity is not positive or computeValue is nil.
func NewWithOpts[K comparable, V any](capacity int, computeValue ComputeFunc[K, V], opts Options) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be greater than 0, got %d: %w", capacity, ErrInvalidArgument)
	}
	if computeValue == nil {
		return nil, fmt.Errorf("compute function must not be nil: %w", ErrInvalidArgument)
	}
	if opts.MetricsCollector == nil {
		opts.MetricsCollector = disabledMetricsCollector
	}
	if opts.Logger == nil {
		opts.Logger = log.NewDisabledLogger()
	}

	return &Cache[K, V]{
		capacity:          capacity,
		computeValue:      computeValue,
		evictAfterCompute: opts.EvictAfterCompute,
		index:             make(map[K]int, capacity),
		entries:           recency.New[K, V](capacity),
		metricsCollector:  opts.MetricsCollector,
		logger:            opts.Logger,
	}, nil
}

// Get returns the value for the key.
// On a hit, the entry becomes the most recently used one and the compute function is not called.
// On a miss, the compute function is called exactly once and its result is stored as the most recently used entry,
// evicting the least recently used entry if the cache is full.
// If the compute function fails, its error is returned unchanged and nothing is stored.
func (c *Cache[K, V]) Get(key K) (V, error) {
	if idx, hit := c.index[key]; hit {
		c.entries.MoveToFront(idx)
		c.metricsCollector.IncHits()
		return c.entries.Value(idx), nil
	}
	c.metricsCollector.IncMisses()

	if !c.evictAfterCompute && c.isFull() {
		c.evictOldest()
	}

	value, err := c.compute(key)
	if err != nil {
		var zero V
		return zero, err
	}

	if c.evictAfterCompute && c.isFull() {
		c.evictOldest()
	}
	c.index[key] = c.entries.PushFront(key, value)
	c.metricsCollector.SetAmount(len(c.index))
	return value, nil
}

// Peek returns the value for the key without calling the compute function and without updating recency.
func (c *Cache[K, V]) Peek(key K) (value V, ok bool) {
	idx, ok := c.index[key]
	if !ok {
		return value, false
	}
	return c.entries.Value(idx), true
}

// Contains reports whether the key is cached. Recency is not updated.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.index[key]
	return ok
}

// Keys returns cached keys ordered from the most recently used to the least recently used.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.entries.Len())
	for idx := c.entries.Front(); idx != recency.Nil; idx = c.entries.Next(idx) {
		keys = append(keys, c.entries.Key(idx))
	}
	return keys
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	return len(c.index)
}

// Cap returns the maximum number of entries the cache holds.
func (c *Cache[K, V]) Cap() int {
	return c.capacity
}

func (c *Cache[K, V]) isFull() bool {
	return len(c.index) == c.capacity
}

func (c *Cache[K, V]) compute(key K) (V, error) {
	startTime := time.Now()
	value, err := c.computeValue(key)
	c.metricsCollector.ObserveComputeDuration(time.Since(startTime))
	if err != nil {
		c.metricsCollector.IncComputeFailures()
	}
	return value, err
}

func (c *Cache[K, V]) evictOldest() {
	idx := c.entries.Back()
	if idx == recency.Nil {
		return
	}
	key := c.entries.Key(idx)
	c.entries.Remove(idx)
	delete(c.index, key)

	c.metricsCollector.SetAmount(len(c.index))
	c.metricsCollector.AddEvictions(1)
	c.logger.AtLevel(log.LevelDebug, func(logFunc log.LogFunc) {
		logFunc("cache entry evicted", log.Any("key", key), log.Int("entries", len(c.index)))
	})
}
