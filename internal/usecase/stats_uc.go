// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"

	"learnhub-checkout/internal/domain/ports/repository"
)

var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase feeds the admin dashboard.
type StatsUseCase interface {
	// Revenue returns succeeded-payment totals (minor units) for the
	// current week, month and year.
	Revenue(ctx context.Context) (week, month, year int64, err error)
	ActiveByPlan(ctx context.Context) (map[string]int, error)
}

type statsUC struct {
	payments repository.PaymentRepository
	subs     repository.SubscriptionRepository
}

func NewStatsUseCase(payments repository.PaymentRepository, subs repository.SubscriptionRepository) *statsUC {
	return &statsUC{payments: payments, subs: subs}
}

func (u *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	week, err := u.payments.SumByPeriod(ctx, repository.NoTX, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	month, err := u.payments.SumByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	year, err := u.payments.SumByPeriod(ctx, repository.NoTX, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return week, month, year, nil
}

func (u *statsUC) ActiveByPlan(ctx context.Context) (map[string]int, error) {
	return u.subs.CountActiveByPlan(ctx)
}
