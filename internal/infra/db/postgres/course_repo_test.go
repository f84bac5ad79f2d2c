//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain/model"
)

func TestCourseRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewCourseRepo(testPool)

	course := &model.Course{
		ID:          "course-go",
		Title:       "Practical Go",
		Description: "Build real services",
		Price:       decimal.RequireFromString("89.00"),
		CreatedAt:   time.Now(),
	}

	t.Run("should save and find a course", func(t *testing.T) {
		cleanup(t)

		if err := repo.Save(ctx, course); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		found, err := repo.FindByID(ctx, course.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if !found.Price.Equal(course.Price) {
			t.Errorf("expected price %s, got %s", course.Price, found.Price)
		}
	})

	t.Run("should round-trip an outline with nested modules", func(t *testing.T) {
		cleanup(t)
		repo.Save(ctx, course)

		outline := &model.CourseOutline{
			CourseID: course.ID,
			Topic:    "Go for backend engineers",
			Modules: []model.OutlineModule{
				{Title: "Basics", Lessons: []model.OutlineLesson{
					{Title: "Syntax", Summary: "Types and control flow"},
					{Title: "Errors", Summary: "Explicit error handling", Content: "Full lesson body"},
				}},
				{Title: "Concurrency", Lessons: []model.OutlineLesson{
					{Title: "Goroutines", Summary: "Lightweight threads"},
				}},
			},
			Model:       "gpt-4o-mini",
			GeneratedAt: time.Now(),
		}
		if err := repo.SaveOutline(ctx, outline); err != nil {
			t.Fatalf("SaveOutline failed: %v", err)
		}

		found, err := repo.FindOutline(ctx, course.ID)
		if err != nil {
			t.Fatalf("FindOutline failed: %v", err)
		}
		if len(found.Modules) != 2 || len(found.Modules[0].Lessons) != 2 {
			t.Fatal("outline structure did not round-trip")
		}
		if found.Modules[0].Lessons[1].Content != "Full lesson body" {
			t.Error("lesson content did not round-trip")
		}
	})

	t.Run("should overwrite the outline for the same course", func(t *testing.T) {
		cleanup(t)
		repo.Save(ctx, course)

		first := &model.CourseOutline{CourseID: course.ID, Topic: "v1", Modules: []model.OutlineModule{{Title: "A"}}, GeneratedAt: time.Now()}
		second := &model.CourseOutline{CourseID: course.ID, Topic: "v2", Modules: []model.OutlineModule{{Title: "B"}, {Title: "C"}}, GeneratedAt: time.Now()}
		repo.SaveOutline(ctx, first)
		repo.SaveOutline(ctx, second)

		found, _ := repo.FindOutline(ctx, course.ID)
		if found.Topic != "v2" || len(found.Modules) != 2 {
			t.Error("second outline should replace the first")
		}
	})
}
