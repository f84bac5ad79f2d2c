package repository

import (
	"context"
	"time"

	"learnhub-checkout/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.PaymentStatus, refID *string, paidAt *time.Time) error
	SetSubscription(ctx context.Context, tx Tx, id, subscriptionID string) error
	ListByStatusOlderThan(ctx context.Context, tx Tx, status model.PaymentStatus, olderThan time.Time, limit int) ([]*model.Payment, error)
	SumByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
