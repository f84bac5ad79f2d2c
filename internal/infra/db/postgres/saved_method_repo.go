package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
)

var _ repository.SavedMethodRepository = (*savedMethodRepo)(nil)

type savedMethodRepo struct{ pool *pgxpool.Pool }

func NewSavedMethodRepo(pool *pgxpool.Pool) *savedMethodRepo {
	return &savedMethodRepo{pool: pool}
}

const methodColumns = `id, user_id, display_name, last_four, expiry_date, cardholder_name, type, is_default, external_reference, created_at`

func scanMethod(row interface{ Scan(...interface{}) error }) (*model.SavedPaymentMethod, error) {
	m := &model.SavedPaymentMethod{}
	if err := row.Scan(&m.ID, &m.UserID, &m.DisplayName, &m.LastFour, &m.ExpiryDate,
		&m.CardholderName, &m.Type, &m.IsDefault, &m.ExternalReference, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *savedMethodRepo) Save(ctx context.Context, m *model.SavedPaymentMethod) error {
	const q = `
INSERT INTO saved_payment_methods (id, user_id, display_name, last_four, expiry_date, cardholder_name, type, is_default, external_reference, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  display_name=$3, last_four=$4, expiry_date=$5, cardholder_name=$6, type=$7, is_default=$8, external_reference=$9;`
	_, err := execSQL(ctx, r.pool, repository.NoTX, q,
		m.ID, m.UserID, m.DisplayName, m.LastFour, m.ExpiryDate, m.CardholderName, m.Type, m.IsDefault, m.ExternalReference, m.CreatedAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *savedMethodRepo) ListByUser(ctx context.Context, userID string) ([]*model.SavedPaymentMethod, error) {
	q := `SELECT ` + methodColumns + ` FROM saved_payment_methods WHERE user_id=$1 ORDER BY is_default DESC, created_at ASC;`
	rows, err := queryRows(ctx, r.pool, repository.NoTX, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SavedPaymentMethod
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *savedMethodRepo) FindByID(ctx context.Context, id string) (*model.SavedPaymentMethod, error) {
	q := `SELECT ` + methodColumns + ` FROM saved_payment_methods WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, repository.NoTX, q, id)
	if err != nil {
		return nil, err
	}
	m, err := scanMethod(row)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (r *savedMethodRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM saved_payment_methods WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, repository.NoTX, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
