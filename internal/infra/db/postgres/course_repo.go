package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
)

var _ repository.CourseRepository = (*courseRepo)(nil)

type courseRepo struct{ pool *pgxpool.Pool }

func NewCourseRepo(pool *pgxpool.Pool) *courseRepo {
	return &courseRepo{pool: pool}
}

func (r *courseRepo) Save(ctx context.Context, c *model.Course) error {
	const q = `
INSERT INTO courses (id, title, description, price, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET title=$2, description=$3, price=$4;`
	_, err := execSQL(ctx, r.pool, repository.NoTX, q, c.ID, c.Title, c.Description, c.Price.String(), c.CreatedAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *courseRepo) FindByID(ctx context.Context, id string) (*model.Course, error) {
	const q = `SELECT id, title, description, price::text, created_at FROM courses WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, repository.NoTX, q, id)
	if err != nil {
		return nil, err
	}
	c := &model.Course{}
	var price string
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &price, &c.CreatedAt); err != nil {
		return nil, domain.ErrNotFound
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	c.Price = d
	return c, nil
}

func (r *courseRepo) ListAll(ctx context.Context) ([]*model.Course, error) {
	const q = `SELECT id, title, description, price::text, created_at FROM courses ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, repository.NoTX, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Course
	for rows.Next() {
		c := &model.Course{}
		var price string
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &price, &c.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		c.Price = d
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *courseRepo) SaveOutline(ctx context.Context, o *model.CourseOutline) error {
	modules, err := json.Marshal(o.Modules)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO course_outlines (course_id, topic, modules, model, generated_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (course_id) DO UPDATE SET topic=$2, modules=$3, model=$4, generated_at=$5;`
	if _, err := execSQL(ctx, r.pool, repository.NoTX, q, o.CourseID, o.Topic, modules, o.Model, o.GeneratedAt); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *courseRepo) FindOutline(ctx context.Context, courseID string) (*model.CourseOutline, error) {
	const q = `SELECT course_id, topic, modules, model, generated_at FROM course_outlines WHERE course_id=$1;`
	row, err := pickRow(ctx, r.pool, repository.NoTX, q, courseID)
	if err != nil {
		return nil, err
	}
	o := &model.CourseOutline{}
	var modules []byte
	if err := row.Scan(&o.CourseID, &o.Topic, &modules, &o.Model, &o.GeneratedAt); err != nil {
		return nil, domain.ErrNotFound
	}
	if err := json.Unmarshal(modules, &o.Modules); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return o, nil
}
