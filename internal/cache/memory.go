package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/bizdesk/internal/metrics"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is a single-node view cache backed by an expirable LRU.
type MemoryCache struct {
	entries     *lru.LRU[string, []byte]
	mu          sync.Mutex
	generations map[string]int64
}

// NewMemoryCache creates a cache holding at most size entries for ttl each.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size < 10 {
		size = 10
	}
	return &MemoryCache{
		entries:     lru.NewLRU[string, []byte](size, nil, ttl),
		generations: make(map[string]int64),
	}
}

var _ ViewCache = (*MemoryCache)(nil)

func (c *MemoryCache) generation(tenantID, view string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[generationKey(tenantID, view)]
}

func (c *MemoryCache) Get(_ context.Context, tenantID, view, key string, dest any) (bool, error) {
	if err := validate(tenantID, view); err != nil {
		return false, err
	}
	data, ok := c.entries.Get(entryKey(tenantID, view, c.generation(tenantID, view), key))
	if !ok {
		metrics.ViewCacheLookups.WithLabelValues("memory", "miss").Inc()
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode view: %w", err)
	}
	metrics.ViewCacheLookups.WithLabelValues("memory", "hit").Inc()
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, tenantID, view, key string, value any) error {
	if err := validate(tenantID, view); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode view: %w", err)
	}
	c.entries.Add(entryKey(tenantID, view, c.generation(tenantID, view), key), data)
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, tenantID string, views ...string) error {
	if tenantID == "" {
		return ErrInvalidKey
	}
	c.mu.Lock()
	for _, view := range views {
		c.generations[generationKey(tenantID, view)]++
	}
	c.mu.Unlock()
	for _, view := range views {
		metrics.ViewCacheInvalidations.WithLabelValues(metricView(view)).Inc()
	}
	return nil
}

func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}

// metricView drops the entity id so label cardinality stays bounded.
func metricView(view string) string {
	if i := strings.IndexByte(view, '/'); i >= 0 {
		return view[:i] + "/:id"
	}
	return view
}
