package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gold-assistant-go/internal/config"
	"github.com/sirupsen/logrus"
)

const redisKeyPrefix = "chat:response:"

// RedisCache backs the response cache with redis, sharing entries across
// replicas. TTL enforcement is delegated to redis key expiry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisCache creates the redis cache backend
func NewRedisCache(cfg *config.CacheConfig, logger *logrus.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithField("addr", cfg.Redis.Addr).Info("Redis cache connected")

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// Lookup retrieves a cached response
func (c *RedisCache) Lookup(ctx context.Context, message, userID string) (string, bool) {
	key := redisKeyPrefix + Fingerprint(message, userID)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.logger.WithError(err).Warn("Redis lookup failed, treating as miss")
		return "", false
	}

	c.logger.WithField("user_id", userID).Debug("Cache hit")
	return val, true
}

// Store caches a response, overwriting any existing entry for the key
func (c *RedisCache) Store(ctx context.Context, message, userID, response string) error {
	key := redisKeyPrefix + Fingerprint(message, userID)
	if err := c.client.Set(ctx, key, response, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store response: %w", err)
	}

	c.logger.WithField("user_id", userID).Debug("Response cached")
	return nil
}

// Size counts the live response keys
func (c *RedisCache) Size(ctx context.Context) int {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			c.logger.WithError(err).Warn("Redis scan failed")
			return count
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count
		}
	}
}

// Clear removes all cached responses
func (c *RedisCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Cache cleared")
	return nil
}
