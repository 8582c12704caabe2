package test

import (
	"context"
	"sync"
	"time"

	"featuredflags/cache"
)

// RecordingCache is an in-memory cache.Cache that records writes and can be
// told to fail.
type RecordingCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration

	GetErr error
	SetErr error
	Gets   []string
	Sets   []string
}

var _ cache.Cache = (*RecordingCache)(nil)

func NewRecordingCache() *RecordingCache {
	return &RecordingCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *RecordingCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets = append(c.Gets, key)
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	val, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return val, nil
}

func (c *RecordingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sets = append(c.Sets, key)
	if c.SetErr != nil {
		return c.SetErr
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

// Put seeds an entry directly.
func (c *RecordingCache) Put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Entry returns the stored value and ttl for key.
func (c *RecordingCache) Entry(key string) ([]byte, time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.entries[key]
	return val, c.ttls[key], ok
}

func (c *RecordingCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}
