// Package cache provides the short-lived memoization used in front of the
// upstream lookup APIs.
package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long a stored value stays fresh.
const DefaultTTL = 60 * time.Second

// Entry is one stored value. Entries are never mutated after Put; a newer Put
// for the same key replaces the whole entry.
type Entry[T any] struct {
	StoredAt time.Time
	Value    T
}

// Cache is a time-boxed map keyed by normalized query strings.
// Expiry is checked lazily on Get; stale entries stay in the map until the
// next Put for their key overwrites them.
type Cache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]Entry[T]
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func New[T any](ttl time.Duration, opts ...Option) *Cache[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		ttl:     ttl,
		now:     o.now,
		entries: make(map[string]Entry[T]),
	}
}

// NormalizeKey lowercases and trims a query so that "Word " and "word" share an entry.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Get returns the value stored under key if it is younger than the TTL.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	entry, ok := c.entries[NormalizeKey(key)]
	if !ok {
		return zero, false
	}
	if c.now().Sub(entry.StoredAt) >= c.ttl {
		return zero, false
	}
	return entry.Value, true
}

// Put stores value under key, replacing whatever was there.
func (c *Cache[T]) Put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[NormalizeKey(key)] = Entry[T]{
		StoredAt: c.now(),
		Value:    value,
	}
}

// Len counts stored entries, including stale ones that have not been overwritten yet.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
