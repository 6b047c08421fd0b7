package cache

import (
	"context"
	"sync"
	"time"

	"gazi-tiles/internal/model"
)

// MemoryStoreCache keeps the listing in process. It serves single-instance
// deployments without Redis and tests.
type MemoryStoreCache struct {
	mu      sync.Mutex
	gen     int64
	rows    []model.StoreRow
	filled  bool
	expires time.Time
	now     func() time.Time
}

func NewMemoryStoreCache() *MemoryStoreCache {
	return &MemoryStoreCache{now: time.Now}
}

func (c *MemoryStoreCache) Generation(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *MemoryStoreCache) Get(_ context.Context, gen int64) ([]model.StoreRow, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.filled || gen != c.gen || !c.now().Before(c.expires) {
		return nil, false, nil
	}
	out := make([]model.StoreRow, len(c.rows))
	copy(out, c.rows)
	return out, true, nil
}

func (c *MemoryStoreCache) Set(_ context.Context, gen int64, rows []model.StoreRow, ttl time.Duration) error {
	if rows == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.rows = make([]model.StoreRow, len(rows))
	copy(c.rows, rows)
	c.filled = true
	c.expires = c.now().Add(ttl)
	return nil
}

func (c *MemoryStoreCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.rows = nil
	c.filled = false
	return nil
}
