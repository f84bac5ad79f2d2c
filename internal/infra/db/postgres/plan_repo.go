package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
)

var _ repository.PlanRepository = (*planRepo)(nil)

type planRepo struct{ pool *pgxpool.Pool }

func NewPlanRepo(pool *pgxpool.Pool) *planRepo {
	return &planRepo{pool: pool}
}

const planColumns = `id, tier, name, price::text, billing_cycle, description, features, created_at`

func scanPlan(row interface{ Scan(...interface{}) error }) (*model.Plan, error) {
	p := &model.Plan{}
	var price string
	if err := row.Scan(&p.ID, &p.Tier, &p.Name, &price, &p.Interval, &p.Description, &p.Features, &p.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	p.Price = d
	return p, nil
}

func (r *planRepo) Save(ctx context.Context, plan *model.Plan) error {
	const q = `
INSERT INTO plans (id, tier, name, price, billing_cycle, description, features, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  tier=$2, name=$3, price=$4, billing_cycle=$5, description=$6, features=$7;`
	_, err := execSQL(ctx, r.pool, repository.NoTX, q,
		plan.ID, plan.Tier, plan.Name, plan.Price.String(), plan.Interval, plan.Description, plan.Features, plan.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *planRepo) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	q := `SELECT ` + planColumns + ` FROM plans WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, repository.NoTX, q, id)
	if err != nil {
		return nil, err
	}
	p, err := scanPlan(row)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *planRepo) FindByTierAndCycle(ctx context.Context, tier string, cycle model.BillingCycle) (*model.Plan, error) {
	q := `SELECT ` + planColumns + ` FROM plans WHERE tier=$1 AND billing_cycle=$2 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, repository.NoTX, q, tier, cycle)
	if err != nil {
		return nil, err
	}
	p, err := scanPlan(row)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *planRepo) ListAll(ctx context.Context) ([]*model.Plan, error) {
	q := `SELECT ` + planColumns + ` FROM plans ORDER BY price ASC;`
	rows, err := queryRows(ctx, r.pool, repository.NoTX, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *planRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM plans WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, repository.NoTX, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
