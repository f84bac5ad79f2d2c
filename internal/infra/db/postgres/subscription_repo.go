package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subColumns = `id, user_id, plan_id, billing_cycle, created_at, start_at, expires_at, status`

func scanSub(row interface{ Scan(...interface{}) error }) (*model.UserSubscription, error) {
	s := &model.UserSubscription{}
	if err := row.Scan(&s.ID, &s.UserID, &s.PlanID, &s.Cycle, &s.CreatedAt, &s.StartAt, &s.ExpiresAt, &s.Status); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, sub *model.UserSubscription) error {
	const q = `
INSERT INTO user_subscriptions (id, user_id, plan_id, billing_cycle, created_at, start_at, expires_at, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  plan_id=$3, billing_cycle=$4, start_at=$6, expires_at=$7, status=$8;`
	_, err := execSQL(ctx, r.pool, tx, q,
		sub.ID, sub.UserID, sub.PlanID, sub.Cycle, sub.CreatedAt, sub.StartAt, sub.ExpiresAt, sub.Status)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error) {
	q := `SELECT ` + subColumns + ` FROM user_subscriptions
WHERE user_id=$1 AND status='active' AND (expires_at IS NULL OR expires_at > NOW())
ORDER BY expires_at DESC LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	s, err := scanSub(row)
	if err != nil {
		return nil, domain.ErrNoActiveSubscription
	}
	return s, nil
}

func (r *subscriptionRepo) ListByUser(ctx context.Context, userID string) ([]*model.UserSubscription, error) {
	q := `SELECT ` + subColumns + ` FROM user_subscriptions WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, repository.NoTX, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.UserSubscription
	for rows.Next() {
		s, err := scanSub(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *subscriptionRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*model.UserSubscription, error) {
	q := `SELECT ` + subColumns + ` FROM user_subscriptions
WHERE status='active' AND expires_at > $1 AND expires_at < $2 ORDER BY expires_at ASC;`
	rows, err := queryRows(ctx, r.pool, repository.NoTX, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.UserSubscription
	for rows.Next() {
		s, err := scanSub(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *subscriptionRepo) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	const q = `UPDATE user_subscriptions SET status='finished' WHERE status='active' AND expires_at < $1;`
	tag, err := execSQL(ctx, r.pool, repository.NoTX, q, cutoff)
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}

func (r *subscriptionRepo) CountActiveByPlan(ctx context.Context) (map[string]int, error) {
	const q = `SELECT plan_id, COUNT(*) FROM user_subscriptions WHERE status='active' GROUP BY plan_id;`
	rows, err := queryRows(ctx, r.pool, repository.NoTX, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var planID string
		var n int
		if err := rows.Scan(&planID, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[planID] = n
	}
	return out, rows.Err()
}
