package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/config"
	"learnhub-checkout/internal/domain/model"
	pg "learnhub-checkout/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool := pg.MustConnectPostgres(cfg.Database)
	defer pool.Close()

	planRepo := pg.NewPlanRepo(pool)
	gatewayRepo := pg.NewGatewayRepo(pool)

	// If plans already exist, do nothing
	plans, err := planRepo.ListAll(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (%s/%s, $%s)\n", p.Name, p.Tier, p.Interval, p.Price.StringFixed(2))
		}
		return
	}

	seed := []struct {
		Tier     string
		Name     string
		Price    string
		Interval model.BillingCycle
		Features []string
	}{
		{"basic", "Basic", "9.99", model.BillingMonthly, []string{"Access to free courses", "Community forum"}},
		{"basic", "Basic", "99.99", model.BillingYearly, []string{"Access to free courses", "Community forum"}},
		{"pro", "Pro", "49.99", model.BillingMonthly, []string{"All courses", "Certificates", "Offline downloads"}},
		{"pro", "Pro", "499.99", model.BillingYearly, []string{"All courses", "Certificates", "Offline downloads"}},
	}

	for _, s := range seed {
		id := fmt.Sprintf("plan-%s-%s", s.Tier, s.Interval)
		plan, err := model.NewPlan(id, s.Tier, s.Name, decimal.RequireFromString(s.Price), s.Interval, "", s.Features)
		if err != nil {
			log.Fatalf("build plan %q: %v", id, err)
		}
		if err := planRepo.Save(ctx, plan); err != nil {
			log.Fatalf("save plan %q: %v", id, err)
		}
		fmt.Printf("seeded: %s ($%s / %s)\n", id, s.Price, s.Interval)
	}

	// Enable a sensible default gateway set: stripe primary, wallet always on.
	for _, gw := range []model.Gateway{
		{ID: model.GatewayStripe, IsPrimary: true, TestMode: true},
		{ID: model.GatewayWallet},
	} {
		if err := gatewayRepo.Upsert(ctx, gw, true); err != nil {
			log.Fatalf("enable gateway %s: %v", gw.ID, err)
		}
		fmt.Printf("enabled gateway: %s\n", gw.ID)
	}
	if err := gatewayRepo.SetPrimary(ctx, model.GatewayStripe); err != nil {
		log.Fatalf("set primary gateway: %v", err)
	}

	fmt.Println("✅ Seeding complete.")
}
