package memory

import (
	"context"
	"sync"
	"time"
)

type countItem struct {
	value     int64
	expiresAt time.Time
}

type CountCache struct {
	mu    sync.Mutex
	items map[string]countItem
	now   func() time.Time
}

func NewCountCache() *CountCache {
	return &CountCache{items: make(map[string]countItem), now: time.Now}
}

func (c *CountCache) Get(_ context.Context, key string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok || c.now().After(item.expiresAt) {
		delete(c.items, key)
		return 0, false
	}
	return item.value, true
}

func (c *CountCache) Set(_ context.Context, key string, value int64, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = countItem{value: value, expiresAt: c.now().Add(ttl)}
}

func (c *CountCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
