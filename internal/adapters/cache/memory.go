package cache

import (
	"context"
	"sync"
	"time"

	"eventmgt/internal/domain"
)

type entry struct {
	ids     []int64
	expires time.Time
}

type memoryCategoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCategoryCache returns a process local CategoryCache, used when no Redis URL is configured.
func NewMemoryCategoryCache() domain.CategoryCache {
	return &memoryCategoryCache{entries: make(map[string]entry), now: time.Now}
}

func (c *memoryCategoryCache) Get(ctx context.Context, key string) ([]int64, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || (!e.expires.IsZero() && !c.now().Before(e.expires)) {
		return nil, false, nil
	}
	return append([]int64(nil), e.ids...), true, nil
}

func (c *memoryCategoryCache) Set(ctx context.Context, key string, ids []int64, ttl time.Duration) error {
	e := entry{ids: append([]int64(nil), ids...)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}
