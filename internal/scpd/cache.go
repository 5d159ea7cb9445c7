package scpd

import (
	"context"
	"sync"
	"time"

	"github.com/muurk/upnpctl/internal/description"
)

// DefaultCacheTTL is how long a cached schema stays valid
const DefaultCacheTTL = 10 * time.Minute

// SchemaFetcher retrieves a schema. *Fetcher satisfies it.
type SchemaFetcher interface {
	Fetch(ctx context.Context, svc *description.Service) (*Schema, error)
}

// Cache keeps fetched schemas keyed by resolved SCPD URL. It is the only
// shared mutable state of a control point and is safe for concurrent use.
// Failed fetches are not cached.
type Cache struct {
	// Fetcher retrieves schemas on a miss
	Fetcher SchemaFetcher

	// TTL is how long an entry stays valid (0 = forever)
	TTL time.Duration

	entries map[string]cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
}

type cacheEntry struct {
	schema    *Schema
	fetchedAt time.Time
}

// NewCache creates a cache in front of f
func NewCache(f SchemaFetcher, ttl time.Duration) *Cache {
	return &Cache{
		Fetcher: f,
		TTL:     ttl,
	}
}

// Get returns the schema for svc, fetching it on a miss
func (c *Cache) Get(ctx context.Context, svc *description.Service) (*Schema, error) {
	key := cacheKey(svc)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.valid(entry) {
		return entry.schema, nil
	}

	schema, err := c.Fetcher.Fetch(ctx, svc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[string]cacheEntry)
	}
	c.entries[key] = cacheEntry{schema: schema, fetchedAt: c.clock()}
	c.mu.Unlock()

	return schema, nil
}

// Invalidate drops the cached schema of svc
func (c *Cache) Invalidate(svc *description.Service) {
	c.mu.Lock()
	delete(c.entries, cacheKey(svc))
	c.mu.Unlock()
}

// Clear drops every cached schema
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()
}

// Len returns the number of cached schemas
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) valid(e cacheEntry) bool {
	return c.TTL <= 0 || c.clock().Sub(e.fetchedAt) < c.TTL
}

func (c *Cache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func cacheKey(svc *description.Service) string {
	if loc := svc.SCPDLocation(); loc != nil {
		return loc.String()
	}
	return svc.ServiceType
}
