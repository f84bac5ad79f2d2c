// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
)

// StatusCache caches per-user subscription status; invalidated on grant.
type StatusCache interface {
	Invalidate(ctx context.Context, userID string) error
}

var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	// Grant activates a subscription for the user inside the caller's
	// transaction. It is the entitlement half of a confirmed payment.
	Grant(ctx context.Context, tx repository.Tx, userID string, plan *model.Plan) (*model.UserSubscription, error)
	ActiveForUser(ctx context.Context, userID string) (*model.UserSubscription, error)
	ListByUser(ctx context.Context, userID string) ([]*model.UserSubscription, error)
	ExpireDue(ctx context.Context) (int, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*model.UserSubscription, error)
}

type subscriptionUC struct {
	subs  repository.SubscriptionRepository
	cache StatusCache
	log   *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, cache StatusCache, logger *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{subs: subs, cache: cache, log: logger}
}

func (u *subscriptionUC) Grant(ctx context.Context, tx repository.Tx, userID string, plan *model.Plan) (*model.UserSubscription, error) {
	sub, err := model.NewUserSubscription(uuid.NewString(), userID, plan)
	if err != nil {
		return nil, err
	}
	if err := u.subs.Save(ctx, tx, sub); err != nil {
		return nil, err
	}
	if u.cache != nil {
		if err := u.cache.Invalidate(ctx, userID); err != nil {
			u.log.Warn().Err(err).Str("user_id", userID).Msg("subscription: status cache invalidation failed")
		}
	}
	return sub, nil
}

func (u *subscriptionUC) ActiveForUser(ctx context.Context, userID string) (*model.UserSubscription, error) {
	return u.subs.FindActiveByUser(ctx, repository.NoTX, userID)
}

func (u *subscriptionUC) ListByUser(ctx context.Context, userID string) ([]*model.UserSubscription, error) {
	return u.subs.ListByUser(ctx, userID)
}

func (u *subscriptionUC) ExpireDue(ctx context.Context) (int, error) {
	return u.subs.MarkExpiredBefore(ctx, time.Now())
}

func (u *subscriptionUC) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*model.UserSubscription, error) {
	return u.subs.ListExpiringBetween(ctx, from, to)
}
