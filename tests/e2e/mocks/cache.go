package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TrackingCache is an in-memory JSON cache that counts calls. Misses return
// redis.Nil like the Redis-backed cache.
type TrackingCache struct {
	mu       sync.Mutex
	GetCalls int
	SetCalls int
	DelCalls int
	data     map[string]CacheEntry
}

type CacheEntry struct {
	Value  []byte
	Expiry time.Time
}

func NewTrackingCache() *TrackingCache {
	return &TrackingCache{
		data: make(map[string]CacheEntry),
	}
}

func (c *TrackingCache) Get(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls++
	entry, exists := c.data[key]
	if !exists || time.Now().After(entry.Expiry) {
		return redis.Nil
	}
	return json.Unmarshal(entry.Value, dest)
}

func (c *TrackingCache) Set(_ context.Context, key string, value any, exp time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetCalls++
	c.data[key] = CacheEntry{
		Value:  b,
		Expiry: time.Now().Add(exp),
	}
	return nil
}

func (c *TrackingCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DelCalls++
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// Has reports whether key holds an unexpired entry.
func (c *TrackingCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.data[key]
	return ok && time.Now().Before(entry.Expiry)
}

func (c *TrackingCache) Dels() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.DelCalls
}

func (c *TrackingCache) Close() error {
	return nil
}
