package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/usecase"
)

// NotificationWorker periodically summarizes the soon-to-expire cohort to the
// operator channel.
type NotificationWorker struct {
	interval time.Duration
	lead     time.Duration
	notifUC  usecase.NotificationUseCase
	log      *zerolog.Logger
}

func NewNotificationWorker(interval time.Duration, leadDays int, notifUC usecase.NotificationUseCase, logger *zerolog.Logger) *NotificationWorker {
	if leadDays <= 0 {
		leadDays = 3
	}
	compLog := logger.With().Str("component", "NotificationWorker").Logger()
	return &NotificationWorker{
		interval: interval,
		lead:     time.Duration(leadDays) * 24 * time.Hour,
		notifUC:  notifUC,
		log:      &compLog,
	}
}

func (w *NotificationWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting notification worker")
	// Run once on startup, then on every tick
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping notification worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *NotificationWorker) runCheck(ctx context.Context) {
	if err := w.notifUC.AlertExpiring(ctx, w.lead); err != nil {
		w.log.Error().Err(err).Msg("expiring-subscription alert failed")
	}
}
