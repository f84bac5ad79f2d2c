package model

import (
	"time"

	"learnhub-checkout/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusNone      SubscriptionStatus = "none"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusFinished  SubscriptionStatus = "finished"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// UserSubscription represents a user's individual subscription instance.
type UserSubscription struct {
	ID        string
	UserID    string
	PlanID    string
	Cycle     BillingCycle
	CreatedAt time.Time
	StartAt   *time.Time
	ExpiresAt *time.Time
	Status    SubscriptionStatus
}

// NewUserSubscription activates a subscription for a user immediately.
func NewUserSubscription(id, userID string, plan *Plan) (*UserSubscription, error) {
	if id == "" || userID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	expire := now.AddDate(0, 1, 0)
	if plan.Interval == BillingYearly {
		expire = now.AddDate(1, 0, 0)
	}
	return &UserSubscription{
		ID:        id,
		UserID:    userID,
		PlanID:    plan.ID,
		Cycle:     plan.Interval,
		StartAt:   &now,
		ExpiresAt: &expire,
		Status:    SubscriptionStatusActive,
		CreatedAt: now,
	}, nil
}
