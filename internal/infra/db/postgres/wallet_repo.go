package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
)

var _ repository.WalletRepository = (*walletRepo)(nil)

type walletRepo struct{ pool *pgxpool.Pool }

func NewWalletRepo(pool *pgxpool.Pool) *walletRepo {
	return &walletRepo{pool: pool}
}

// Balances reads both source rows in one query; missing rows read as zero.
func (r *walletRepo) Balances(ctx context.Context, tx repository.Tx, userID string) (decimal.Decimal, decimal.Decimal, error) {
	const q = `SELECT source, balance::text FROM wallets WHERE user_id=$1;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	defer rows.Close()

	profile, shop := decimal.Zero, decimal.Zero
	for rows.Next() {
		var source model.WalletSource
		var raw string
		if err := rows.Scan(&source, &raw); err != nil {
			return decimal.Zero, decimal.Zero, domain.ErrReadDatabaseRow
		}
		b, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, decimal.Zero, domain.ErrReadDatabaseRow
		}
		switch source {
		case model.WalletSourceProfile:
			profile = b
		case model.WalletSourceShop:
			shop = b
		}
	}
	return profile, shop, rows.Err()
}

// Debit is guarded in SQL: the row must exist and hold enough balance, so a
// concurrent debit cannot take it negative.
func (r *walletRepo) Debit(ctx context.Context, tx repository.Tx, userID string, source model.WalletSource, amount decimal.Decimal) error {
	const q = `UPDATE wallets SET balance = balance - $3, updated_at = NOW()
WHERE user_id=$1 AND source=$2 AND balance >= $3;`
	tag, err := execSQL(ctx, r.pool, tx, q, userID, source, amount.String())
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (r *walletRepo) Credit(ctx context.Context, tx repository.Tx, userID string, source model.WalletSource, amount decimal.Decimal) error {
	const q = `
INSERT INTO wallets (user_id, source, balance, updated_at)
VALUES ($1,$2,$3,NOW())
ON CONFLICT (user_id, source) DO UPDATE SET balance = wallets.balance + $3, updated_at = NOW();`
	_, err := execSQL(ctx, r.pool, tx, q, userID, source, amount.String())
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}
