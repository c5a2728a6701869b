package interpret

import (
	"context"
	"sync"

	"cloudquote/internal/domain"
)

// MemoryCache is an in-process interpretation cache keyed by the raw
// description text. Safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]domain.ResourceRequirement
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]domain.ResourceRequirement)}
}

func (c *MemoryCache) Get(_ context.Context, text string) (*domain.ResourceRequirement, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	req, ok := c.entries[text]
	if !ok {
		return nil, false
	}
	cp := req
	return &cp, true
}

func (c *MemoryCache) Put(_ context.Context, text string, req domain.ResourceRequirement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[text] = req
}

// Len returns the number of cached interpretations.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
