package repository

import (
	"context"

	"learnhub-checkout/internal/domain/model"
)

// SavedMethodRepository stores tokenized card references. ExternalReference
// is encrypted before it reaches this port.
type SavedMethodRepository interface {
	Save(ctx context.Context, m *model.SavedPaymentMethod) error
	ListByUser(ctx context.Context, userID string) ([]*model.SavedPaymentMethod, error)
	FindByID(ctx context.Context, id string) (*model.SavedPaymentMethod, error)
	Delete(ctx context.Context, id string) error
}
