package cache

import (
	"context"
	"time"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/models"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// MemoryCache is the in-process backend. It is size-capped: when the cap
// is reached, expired entries are purged before the new entry is stored.
type MemoryCache struct {
	cache   *cache.Cache
	maxSize int
	logger  *logrus.Logger
}

// NewMemoryCache creates the in-process cache backend
func NewMemoryCache(cfg *config.CacheConfig, logger *logrus.Logger) *MemoryCache {
	return &MemoryCache{
		cache:   cache.New(cfg.TTL, cfg.TTL*2),
		maxSize: cfg.MaxSize,
		logger:  logger,
	}
}

// Lookup retrieves a cached response
func (c *MemoryCache) Lookup(ctx context.Context, message, userID string) (string, bool) {
	key := Fingerprint(message, userID)
	val, found := c.cache.Get(key)
	if !found {
		return "", false
	}

	entry := val.(*models.CacheEntry)
	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"age":     time.Since(entry.CreatedAt),
	}).Debug("Cache hit")
	return entry.Response, true
}

// Store caches a response, overwriting any existing entry for the key
func (c *MemoryCache) Store(ctx context.Context, message, userID, response string) error {
	if c.cache.ItemCount() >= c.maxSize {
		c.logger.Warn("Cache size limit reached, purging expired entries")
		c.cache.DeleteExpired()
	}

	key := Fingerprint(message, userID)
	c.cache.SetDefault(key, &models.CacheEntry{
		Response:  response,
		CreatedAt: time.Now(),
	})

	c.logger.WithField("user_id", userID).Debug("Response cached")
	return nil
}

// Size returns the number of live entries
func (c *MemoryCache) Size(ctx context.Context) int {
	return c.cache.ItemCount()
}

// Clear removes all cached entries
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.cache.Flush()
	c.logger.Info("Cache cleared")
	return nil
}
