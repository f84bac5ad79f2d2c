// File: internal/infra/redis/balance_cache.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/infra/metrics"
	"learnhub-checkout/internal/usecase"
)

var _ usecase.BalanceCache = (*BalanceCache)(nil)

// BalanceCache caches the resolved wallet balance per user. Entries are
// dropped after wallet debits; a short TTL bounds staleness from credits
// applied outside checkout.
type BalanceCache struct {
	client *Client
	ttl    time.Duration
	log    *zerolog.Logger
}

func NewBalanceCache(client *Client, ttl time.Duration, logger *zerolog.Logger) *BalanceCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &BalanceCache{client: client, ttl: ttl, log: logger}
}

func balanceKey(userID string) string { return fmt.Sprintf("wallet:balance:%s", userID) }

func (c *BalanceCache) Get(ctx context.Context, userID string) (decimal.Decimal, bool) {
	raw, err := c.client.Get(ctx, balanceKey(userID))
	if err != nil {
		if !IsMiss(err) {
			c.log.Warn().Err(err).Msg("balance cache: get failed")
		}
		metrics.IncCacheRequest(metrics.CacheWalletBalance, metrics.CacheMiss)
		return decimal.Zero, false
	}
	b, err := decimal.NewFromString(raw)
	if err != nil {
		metrics.IncCacheRequest(metrics.CacheWalletBalance, metrics.CacheMiss)
		return decimal.Zero, false
	}
	metrics.IncCacheRequest(metrics.CacheWalletBalance, metrics.CacheHit)
	return b, true
}

func (c *BalanceCache) Put(ctx context.Context, userID string, balance decimal.Decimal) error {
	return c.client.Set(ctx, balanceKey(userID), balance.String(), c.ttl)
}

func (c *BalanceCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, balanceKey(userID))
}
