package repository

import (
	"context"

	"learnhub-checkout/internal/domain/model"
)

// GatewayRepository stores the operator-managed set of enabled gateways.
type GatewayRepository interface {
	ListEnabled(ctx context.Context) ([]model.Gateway, error)
	Upsert(ctx context.Context, gw model.Gateway, enabled bool) error
	SetPrimary(ctx context.Context, id model.GatewayID) error
}
