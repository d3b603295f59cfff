package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gold-assistant-go/internal/config"
	"github.com/sirupsen/logrus"
)

// Service is the response cache: it maps a fingerprint of (message, user)
// to a previously produced answer for the duration of the TTL. A valid hit
// short-circuits all further response generation, which is what prevents
// duplicate calls to the generative backend.
type Service interface {
	Lookup(ctx context.Context, message, userID string) (string, bool)
	Store(ctx context.Context, message, userID, response string) error
	Size(ctx context.Context) int
	Clear(ctx context.Context) error
}

// NewService selects a cache backend per configuration.
func NewService(cfg *config.CacheConfig, logger *logrus.Logger) (Service, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedisCache(cfg, logger)
	case "memory":
		return NewMemoryCache(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

// Fingerprint derives the cache key from the normalized message text and
// the user id. Two users asking identically-worded questions get
// independent slots.
func Fingerprint(message, userID string) string {
	normalized := strings.ToLower(strings.TrimSpace(message))
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s_%s", normalized, userID)))
	return hex.EncodeToString(hash[:])
}
