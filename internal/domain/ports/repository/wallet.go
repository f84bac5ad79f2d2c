package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain/model"
)

type WalletRepository interface {
	// Balances returns the profile and shop balances for a user; missing
	// rows read as zero.
	Balances(ctx context.Context, tx Tx, userID string) (profile, shop decimal.Decimal, err error)
	// Debit subtracts amount from the given source balance, failing if the
	// row would go negative.
	Debit(ctx context.Context, tx Tx, userID string, source model.WalletSource, amount decimal.Decimal) error
	Credit(ctx context.Context, tx Tx, userID string, source model.WalletSource, amount decimal.Decimal) error
}
