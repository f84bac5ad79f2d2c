package sched

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
	"learnhub-checkout/internal/infra/redis"
	"learnhub-checkout/internal/usecase"
)

const reconcileLockTTL = 30 * time.Second

// PaymentReconciler periodically scans for stale payments and tries to
// finalize them against the gateway. This covers the optimistic overlay
// confirmations as well as cases where the process crashed mid-confirm.
type PaymentReconciler struct {
	checkout   usecase.CheckoutUseCase
	payments   repository.PaymentRepository
	notify     usecase.NotificationUseCase
	locker     redis.Locker
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a payment must be to retry
	log        *zerolog.Logger
}

func NewPaymentReconciler(
	checkout usecase.CheckoutUseCase,
	payments repository.PaymentRepository,
	notify usecase.NotificationUseCase,
	locker redis.Locker,
	interval, staleAfter time.Duration,
	logger *zerolog.Logger,
) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	recLog := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{
		checkout:   checkout,
		payments:   payments,
		notify:     notify,
		locker:     locker,
		interval:   interval,
		staleAfter: staleAfter,
		log:        &recLog,
	}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting payment reconciler")
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping payment reconciler")
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	for _, status := range []model.PaymentStatus{model.PaymentStatusPendingConfirm, model.PaymentStatusPending} {
		stale, err := w.payments.ListByStatusOlderThan(ctx, repository.NoTX, status, cutoff, 200)
		if err != nil {
			w.log.Error().Err(err).Str("status", string(status)).Msg("reconciler: list stale failed")
			continue
		}
		for _, p := range stale {
			w.reconcile(ctx, p)
		}
	}
}

// reconcile finalizes one payment under a per-payment lock so replicas never
// double-confirm.
func (w *PaymentReconciler) reconcile(ctx context.Context, p *model.Payment) {
	lockKey := "reconcile:payment:" + p.ID
	token, err := w.locker.TryLock(ctx, lockKey, reconcileLockTTL)
	if err != nil {
		return // another replica holds it, or redis is down; next tick retries
	}
	defer func() { _ = w.locker.Unlock(ctx, lockKey, token) }()

	if err := w.checkout.FinalizePendingConfirm(ctx, p); err != nil {
		w.log.Warn().Err(err).
			Str("payment_id", p.ID).
			Str("reference", p.Reference).
			Msg("reconciler: finalize failed")
		if w.notify != nil && time.Since(p.CreatedAt) > 24*time.Hour {
			w.notify.Alert(ctx, fmt.Sprintf("payment %s (%s) is stuck in %s for over a day: %v",
				p.ID, p.Gateway, p.Status, err))
		}
		return
	}
	w.log.Info().Str("payment_id", p.ID).Msg("reconciler: payment finalized")
}
