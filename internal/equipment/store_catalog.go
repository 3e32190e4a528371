package equipment

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/repository"
)

// CacheSchemaVersion is the current version of the cached item shape.
// Increment this when domain.Item changes to auto-invalidate old entries.
const CacheSchemaVersion = "1.0"

type cachedItemEntry struct {
	Version  string
	Item     domain.Item
	CachedAt time.Time
}

// StoreCatalog reads items from the item repository and keeps recently
// used entries in an expiring LRU cache. Misses are not cached.
type StoreCatalog struct {
	repo repository.Item
	lru  *expirable.LRU[string, *cachedItemEntry]
}

// NewStoreCatalog creates a store-backed catalog.
// size: maximum number of cached items
// ttl: time-to-live for cached entries
func NewStoreCatalog(repo repository.Item, size int, ttl time.Duration) *StoreCatalog {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &StoreCatalog{
		repo: repo,
		lru:  expirable.NewLRU[string, *cachedItemEntry](size, nil, ttl),
	}
}

// Get resolves id through the cache, falling back to the repository
func (c *StoreCatalog) Get(ctx context.Context, id string) (*domain.Item, error) {
	key := NormalizeID(id)
	if entry, ok := c.lru.Get(key); ok {
		if entry.Version == CacheSchemaVersion {
			out := entry.Item
			out.Effects = append([]domain.Effect(nil), entry.Item.Effects...)
			return &out, nil
		}
		c.lru.Remove(key)
	}

	item, err := c.repo.GetItem(ctx, key)
	if err != nil {
		return nil, err
	}
	item.ID = NormalizeID(item.ID)

	c.lru.Add(key, &cachedItemEntry{
		Version:  CacheSchemaVersion,
		Item:     *item,
		CachedAt: time.Now(),
	})
	return item, nil
}

// Invalidate drops a single cached item, typically after a catalog sync
func (c *StoreCatalog) Invalidate(id string) {
	c.lru.Remove(NormalizeID(id))
}

// Clear removes all cached entries
func (c *StoreCatalog) Clear() {
	c.lru.Purge()
}
