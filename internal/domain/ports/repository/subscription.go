package repository

import (
	"context"
	"time"

	"learnhub-checkout/internal/domain/model"
)

type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.UserSubscription) error
	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.UserSubscription, error)
	ListByUser(ctx context.Context, userID string) ([]*model.UserSubscription, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*model.UserSubscription, error)
	MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)
	CountActiveByPlan(ctx context.Context) (map[string]int, error)
}
