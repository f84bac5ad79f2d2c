package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
)

var _ repository.GatewayRepository = (*gatewayRepo)(nil)

type gatewayRepo struct{ pool *pgxpool.Pool }

func NewGatewayRepo(pool *pgxpool.Pool) *gatewayRepo {
	return &gatewayRepo{pool: pool}
}

func (r *gatewayRepo) ListEnabled(ctx context.Context) ([]model.Gateway, error) {
	const q = `SELECT id, is_primary, test_mode FROM gateways WHERE enabled ORDER BY created_at ASC;`
	rows, err := queryRows(ctx, r.pool, repository.NoTX, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Gateway
	for rows.Next() {
		var gw model.Gateway
		if err := rows.Scan(&gw.ID, &gw.IsPrimary, &gw.TestMode); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, gw)
	}
	return out, rows.Err()
}

func (r *gatewayRepo) Upsert(ctx context.Context, gw model.Gateway, enabled bool) error {
	const q = `
INSERT INTO gateways (id, is_primary, test_mode, enabled, created_at)
VALUES ($1,$2,$3,$4,NOW())
ON CONFLICT (id) DO UPDATE SET is_primary=$2, test_mode=$3, enabled=$4;`
	_, err := execSQL(ctx, r.pool, repository.NoTX, q, gw.ID, gw.IsPrimary, gw.TestMode, enabled)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

// SetPrimary flips the flag in one statement so two rows can never both be
// primary.
func (r *gatewayRepo) SetPrimary(ctx context.Context, id model.GatewayID) error {
	const q = `UPDATE gateways SET is_primary = (id = $1);`
	_, err := execSQL(ctx, r.pool, repository.NoTX, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}
