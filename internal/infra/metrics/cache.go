package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequestsTotal) }

// Cache names and results reported by the redis layer.
const (
	CacheWalletBalance      = "wallet_balance"
	CacheSubscriptionStatus = "subscription_status"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Hits and misses for the wallet-balance and subscription-status caches.",
	},
	[]string{"cache", "result"},
)

func IncCacheRequest(cacheName, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}
