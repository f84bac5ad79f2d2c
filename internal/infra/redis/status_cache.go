// File: internal/infra/redis/status_cache.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/infra/metrics"
	"learnhub-checkout/internal/usecase"
)

var _ usecase.StatusCache = (*StatusCache)(nil)

// StatusCache caches per-user subscription status strings, invalidated when
// a grant changes the entitlement.
type StatusCache struct {
	client *Client
	ttl    time.Duration
	log    *zerolog.Logger
}

func NewStatusCache(client *Client, ttl time.Duration, logger *zerolog.Logger) *StatusCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatusCache{client: client, ttl: ttl, log: logger}
}

func statusKey(userID string) string { return fmt.Sprintf("subscription:status:%s", userID) }

func (c *StatusCache) Get(ctx context.Context, userID string) (string, bool) {
	raw, err := c.client.Get(ctx, statusKey(userID))
	if err != nil {
		if !IsMiss(err) {
			c.log.Warn().Err(err).Msg("status cache: get failed")
		}
		metrics.IncCacheRequest(metrics.CacheSubscriptionStatus, metrics.CacheMiss)
		return "", false
	}
	metrics.IncCacheRequest(metrics.CacheSubscriptionStatus, metrics.CacheHit)
	return raw, true
}

func (c *StatusCache) Put(ctx context.Context, userID, status string) error {
	return c.client.Set(ctx, statusKey(userID), status, c.ttl)
}

func (c *StatusCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, statusKey(userID))
}
