package cache

import (
	"sync"
	"time"
)

type Entry[T any] struct {
	Data      T
	ExpiresAt time.Time
}

func (e *Entry[T]) Expired() bool {
	return !e.ExpiresAt.After(time.Now())
}

// Cache is a process-wide TTL map. Expired entries are treated as
// absent and overwritten by the next successful Set; they are not
// proactively evicted.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[T]
}

func New[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]*Entry[T]),
	}
}

func (c *Cache[T]) Get(key string) *Entry[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]

	if !ok {
		return nil
	}

	if entry.Expired() {
		return nil
	}

	return entry
}

func (c *Cache[T]) Set(key string, data T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &Entry[T]{Data: data, ExpiresAt: time.Now().Add(ttl)}
}

func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry[T])
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
