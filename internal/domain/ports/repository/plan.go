package repository

import (
	"context"

	"learnhub-checkout/internal/domain/model"
)

// PlanRepository is the port for plan persistence.
type PlanRepository interface {
	Save(ctx context.Context, plan *model.Plan) error
	FindByID(ctx context.Context, id string) (*model.Plan, error)
	FindByTierAndCycle(ctx context.Context, tier string, cycle model.BillingCycle) (*model.Plan, error)
	ListAll(ctx context.Context) ([]*model.Plan, error)
	Delete(ctx context.Context, id string) error
}
