//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
)

func TestPlanRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewPlanRepo(testPool)

	t.Run("should save and find a plan", func(t *testing.T) {
		cleanup(t)

		plan, err := model.NewPlan("plan-pro-m", "pro", "Pro", decimal.RequireFromString("49.99"),
			model.BillingMonthly, "Full access", []string{"all courses", "certificates"})
		if err != nil {
			t.Fatalf("NewPlan failed: %v", err)
		}
		if err := repo.Save(ctx, plan); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		found, err := repo.FindByID(ctx, "plan-pro-m")
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if !found.Price.Equal(plan.Price) {
			t.Errorf("expected price %s, got %s", plan.Price, found.Price)
		}
		if len(found.Features) != 2 {
			t.Errorf("expected 2 features, got %d", len(found.Features))
		}

		byTier, err := repo.FindByTierAndCycle(ctx, "pro", model.BillingMonthly)
		if err != nil {
			t.Fatalf("FindByTierAndCycle failed: %v", err)
		}
		if byTier.ID != plan.ID {
			t.Errorf("expected plan %s, got %s", plan.ID, byTier.ID)
		}
	})

	t.Run("should list plans ordered by price", func(t *testing.T) {
		cleanup(t)

		pro, _ := model.NewPlan("plan-pro-m", "pro", "Pro", decimal.RequireFromString("49.99"), model.BillingMonthly, "", nil)
		basic, _ := model.NewPlan("plan-basic-m", "basic", "Basic", decimal.RequireFromString("19.99"), model.BillingMonthly, "", nil)
		repo.Save(ctx, pro)
		repo.Save(ctx, basic)

		all, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 plans, got %d", len(all))
		}
		if all[0].ID != "plan-basic-m" {
			t.Errorf("expected cheapest plan first, got %s", all[0].ID)
		}
	})

	t.Run("should reject a duplicate tier and cycle", func(t *testing.T) {
		cleanup(t)

		first, _ := model.NewPlan("plan-pro-m", "pro", "Pro", decimal.RequireFromString("49.99"), model.BillingMonthly, "", nil)
		dupe, _ := model.NewPlan("plan-pro-m2", "pro", "Pro Again", decimal.RequireFromString("59.99"), model.BillingMonthly, "", nil)
		if err := repo.Save(ctx, first); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := repo.Save(ctx, dupe); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("should delete a plan", func(t *testing.T) {
		cleanup(t)

		plan, _ := model.NewPlan("plan-pro-m", "pro", "Pro", decimal.RequireFromString("49.99"), model.BillingMonthly, "", nil)
		repo.Save(ctx, plan)

		if err := repo.Delete(ctx, plan.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := repo.Delete(ctx, plan.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound for second delete, got %v", err)
		}
	})
}
