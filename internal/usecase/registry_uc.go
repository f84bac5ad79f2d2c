// File: internal/usecase/registry_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
)

var _ GatewayRegistry = (*gatewayRegistry)(nil)

// GatewayRegistry exposes the currently enabled gateways and the primary one.
type GatewayRegistry interface {
	ListEnabled(ctx context.Context) ([]model.Gateway, error)
	// Primary returns the first gateway flagged primary, else the first
	// enabled gateway. ok=false means no gateways are enabled — a terminal
	// "no payment methods available" condition for callers, not an error.
	Primary(ctx context.Context) (model.Gateway, bool)
	IsEnabled(ctx context.Context, id model.GatewayID) bool
}

type gatewayRegistry struct {
	gateways repository.GatewayRepository
	log      *zerolog.Logger
}

func NewGatewayRegistry(gateways repository.GatewayRepository, logger *zerolog.Logger) *gatewayRegistry {
	return &gatewayRegistry{gateways: gateways, log: logger}
}

func (r *gatewayRegistry) ListEnabled(ctx context.Context) ([]model.Gateway, error) {
	return r.gateways.ListEnabled(ctx)
}

func (r *gatewayRegistry) Primary(ctx context.Context) (model.Gateway, bool) {
	list, err := r.gateways.ListEnabled(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("gateway registry: list failed")
		return model.Gateway{}, false
	}
	return PrimaryOf(list)
}

func (r *gatewayRegistry) IsEnabled(ctx context.Context, id model.GatewayID) bool {
	list, err := r.gateways.ListEnabled(ctx)
	if err != nil {
		return false
	}
	for _, gw := range list {
		if gw.ID == id {
			return true
		}
	}
	return false
}

// PrimaryOf picks the primary gateway from an enabled set: first flagged
// primary, else first in list, else none.
func PrimaryOf(list []model.Gateway) (model.Gateway, bool) {
	for _, gw := range list {
		if gw.IsPrimary {
			return gw, true
		}
	}
	if len(list) > 0 {
		return list[0], true
	}
	return model.Gateway{}, false
}
