package repository

import (
	"context"

	"learnhub-checkout/internal/domain/model"
)

type CourseRepository interface {
	Save(ctx context.Context, c *model.Course) error
	FindByID(ctx context.Context, id string) (*model.Course, error)
	ListAll(ctx context.Context) ([]*model.Course, error)
	SaveOutline(ctx context.Context, o *model.CourseOutline) error
	FindOutline(ctx context.Context, courseID string) (*model.CourseOutline, error)
}
