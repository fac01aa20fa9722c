package persistence

import (
	"context"

	"go.uber.org/zap"
)

const openFingerprintsKey = "escalations:open_fingerprints"

// FingerprintCache mirrors the set of open-case fingerprints in redis as a
// fast duplicate pre-check shared across instances. The case store stays
// authoritative: a cache miss or a stale entry only changes which path
// discovers the duplicate, never the outcome.
type FingerprintCache struct {
	redis  *Redis
	logger *zap.Logger
}

// NewFingerprintCache builds the cache. A nil or unconfigured redis yields a
// cache that answers "unknown" to every lookup.
func NewFingerprintCache(redis *Redis, logger *zap.Logger) *FingerprintCache {
	return &FingerprintCache{redis: redis, logger: logger}
}

// Contains reports whether the fingerprint is cached as open. It returns
// false when redis is unavailable so callers fall through to the store.
func (c *FingerprintCache) Contains(ctx context.Context, fingerprint string) bool {
	if !c.available() {
		return false
	}
	member, err := c.redis.Client.SIsMember(ctx, openFingerprintsKey, fingerprint).Result()
	if err != nil {
		c.logger.Debug("fingerprint cache lookup failed", zap.Error(err))
		return false
	}
	return member
}

// Add marks a fingerprint as belonging to an open case.
func (c *FingerprintCache) Add(ctx context.Context, fingerprint string) {
	if !c.available() {
		return
	}
	if err := c.redis.Client.SAdd(ctx, openFingerprintsKey, fingerprint).Err(); err != nil {
		c.logger.Debug("fingerprint cache add failed", zap.Error(err))
	}
}

// Remove clears a fingerprint once its case closes.
func (c *FingerprintCache) Remove(ctx context.Context, fingerprint string) {
	if !c.available() {
		return
	}
	if err := c.redis.Client.SRem(ctx, openFingerprintsKey, fingerprint).Err(); err != nil {
		c.logger.Debug("fingerprint cache remove failed", zap.Error(err))
	}
}

func (c *FingerprintCache) available() bool {
	return c != nil && c.redis != nil && c.redis.Client != nil
}
