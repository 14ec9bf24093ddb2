package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Dosada05/bracket-board/models"
)

type memoryEntry struct {
	graph     *models.BracketGraph
	expiresAt time.Time
}

// MemoryCache is a process-local GraphCache with TTL. Graphs are shared, callers
// must not mutate what they get back.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, tournamentID int) (*models.BracketGraph, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[tournamentID]
	if !ok || (c.ttl > 0 && c.now().After(e.expiresAt)) {
		return nil, false, nil
	}
	return e.graph, true, nil
}

func (c *MemoryCache) Set(_ context.Context, tournamentID int, graph *models.BracketGraph) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tournamentID] = memoryEntry{graph: graph, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, tournamentID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tournamentID)
	return nil
}
