package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiGenerationsTotal,
		aiTokensTotal,
		aiGenerationLatencyMs,
	)
}

var (
	aiGenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_generations_total",
			Help: "Content generation calls by provider, kind, and success.",
		},
		[]string{"provider", "kind", "success"},
	)

	aiTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_total",
			Help: "Sum of total tokens per provider and generation kind.",
		},
		[]string{"provider", "kind"},
	)

	aiGenerationLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_generation_latency_ms",
			Help:    "Generation call latency distribution in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 30000, 60000},
		},
		[]string{"provider", "kind"},
	)
)

func ObserveAIGeneration(provider, kind string, dur time.Duration, tokensTotal int, success bool) {
	aiGenerationsTotal.WithLabelValues(norm(provider), norm(kind), strconv.FormatBool(success)).Inc()
	aiTokensTotal.WithLabelValues(norm(provider), norm(kind)).Add(float64(tokensTotal))
	aiGenerationLatencyMs.WithLabelValues(norm(provider), norm(kind)).Observe(float64(dur.Milliseconds()))
}
