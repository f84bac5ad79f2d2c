package model

import (
	"time"

	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain"
)

type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

// Plan represents a purchasable subscription tier. Price is in USD.
type Plan struct {
	ID          string
	Tier        string
	Name        string
	Price       decimal.Decimal
	Interval    BillingCycle
	Description string
	Features    []string
	CreatedAt   time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// PriceMinor returns the plan price in minor units (cents) for gateway calls.
func (p *Plan) PriceMinor() int64 {
	return p.Price.Shift(2).Round(0).IntPart()
}

// NewPlan validates and constructs a plan.
func NewPlan(id, tier, name string, price decimal.Decimal, interval BillingCycle, description string, features []string) (*Plan, error) {
	if id == "" || tier == "" || name == "" || price.IsNegative() || price.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if interval != BillingMonthly && interval != BillingYearly {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:          id,
		Tier:        tier,
		Name:        name,
		Price:       price,
		Interval:    interval,
		Description: description,
		Features:    features,
		CreatedAt:   time.Now(),
	}, nil
}
