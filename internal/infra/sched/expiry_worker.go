package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/domain/ports/repository"
	"learnhub-checkout/internal/infra/metrics"
	"learnhub-checkout/internal/usecase"
)

// ExpiryWorker periodically finishes expired subscriptions and refreshes the
// active-subscription gauges.
type ExpiryWorker struct {
	interval time.Duration
	subUC    usecase.SubscriptionUseCase
	subs     repository.SubscriptionRepository
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subUC usecase.SubscriptionUseCase, subs repository.SubscriptionRepository, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		subUC:    subUC,
		subs:     subs,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.subUC.ExpireDue(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry worker error")
			}
			if n > 0 {
				metrics.IncSubscriptionsExpired(n)
				w.log.Info().Int("count", n).Msg("expired subscriptions finished")
			}
			w.refreshGauges(ctx)
		}
	}
}

func (w *ExpiryWorker) refreshGauges(ctx context.Context) {
	counts, err := w.subs.CountActiveByPlan(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("active-by-plan gauge refresh failed")
		return
	}
	metrics.SetSubscriptionsActive(counts)
}
