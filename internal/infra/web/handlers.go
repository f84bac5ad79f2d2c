package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
	"learnhub-checkout/internal/usecase"
)

type planView struct {
	ID           string   `json:"id"`
	Tier         string   `json:"tier"`
	Name         string   `json:"name"`
	Price        string   `json:"price"`
	BillingCycle string   `json:"billing_cycle"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
}

func presentPlan(p *model.Plan) planView {
	return planView{
		ID:           p.ID,
		Tier:         p.Tier,
		Name:         p.Name,
		Price:        p.Price.StringFixed(2),
		BillingCycle: string(p.Interval),
		Description:  p.Description,
		Features:     p.Features,
	}
}

type planWriteRequest struct {
	ID           string   `json:"id"`
	Tier         string   `json:"tier"`
	Name         string   `json:"name"`
	Price        string   `json:"price"`
	BillingCycle string   `json:"billing_cycle"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
}

func (req *planWriteRequest) toPlan() (*model.Plan, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}
	id := req.ID
	if id == "" {
		id = fmt.Sprintf("plan-%s-%s", req.Tier, req.BillingCycle)
	}
	return model.NewPlan(id, req.Tier, req.Name, price, model.BillingCycle(req.BillingCycle), req.Description, req.Features)
}

// Handler for listing all subscription plans.
func plansListHandler(plans repository.PlanRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := plans.ListAll(r.Context())
		if err != nil {
			http.Error(w, "Failed to list plans", http.StatusInternalServerError)
			return
		}

		views := make([]planView, 0, len(all))
		for _, p := range all {
			views = append(views, presentPlan(p))
		}
		response := struct {
			Data []planView `json:"data"`
		}{Data: views}

		writeJSON(w, http.StatusOK, response)
	}
}

// Handler for creating a new subscription plan.
func plansCreateHandler(plans repository.PlanRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req planWriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		plan, err := req.toPlan()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := plans.Save(r.Context(), plan); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				http.Error(w, "A plan for this tier and billing cycle already exists", http.StatusConflict)
				return
			}
			http.Error(w, "Failed to create plan", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, presentPlan(plan))
	}
}

// plansUpdateHandler replaces an existing plan's fields. The path carries the
// plan ID; the body may omit it.
func plansUpdateHandler(plans repository.PlanRepository, id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if _, err := plans.FindByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "Failed to load plan", http.StatusInternalServerError)
			return
		}

		var req planWriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		req.ID = id

		plan, err := req.toPlan()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := plans.Save(ctx, plan); err != nil {
			http.Error(w, "Failed to update plan", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, presentPlan(plan))
	}
}

func plansDeleteHandler(plans repository.PlanRepository, id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := plans.Delete(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "Failed to delete plan", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type gatewayView struct {
	ID        string `json:"id"`
	IsPrimary bool   `json:"is_primary"`
	TestMode  bool   `json:"test_mode"`
}

func gatewaysListHandler(gateways repository.GatewayRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := gateways.ListEnabled(r.Context())
		if err != nil {
			http.Error(w, "Failed to list gateways", http.StatusInternalServerError)
			return
		}

		views := make([]gatewayView, 0, len(list))
		for _, gw := range list {
			views = append(views, gatewayView{ID: string(gw.ID), IsPrimary: gw.IsPrimary, TestMode: gw.TestMode})
		}
		response := struct {
			Data []gatewayView `json:"data"`
		}{Data: views}

		writeJSON(w, http.StatusOK, response)
	}
}

var knownGateways = map[model.GatewayID]bool{
	model.GatewayStripe:   true,
	model.GatewayPayPal:   true,
	model.GatewayPaystack: true,
	model.GatewayDodoPay:  true,
	model.GatewayVodaPay:  true,
	model.GatewayWallet:   true,
}

// gatewayUpsertHandler enables, disables or reconfigures one gateway.
func gatewayUpsertHandler(gateways repository.GatewayRepository, id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gwID := model.GatewayID(id)
		if !knownGateways[gwID] {
			http.Error(w, "Unknown gateway", http.StatusBadRequest)
			return
		}

		var req struct {
			Enabled  bool `json:"enabled"`
			TestMode bool `json:"test_mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		gw := model.Gateway{ID: gwID, TestMode: req.TestMode}
		if err := gateways.Upsert(r.Context(), gw, req.Enabled); err != nil {
			http.Error(w, "Failed to update gateway", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// gatewayPrimaryHandler flips the single primary flag to the named gateway.
func gatewayPrimaryHandler(gateways repository.GatewayRepository, id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gwID := model.GatewayID(id)
		if !knownGateways[gwID] {
			http.Error(w, "Unknown gateway", http.StatusBadRequest)
			return
		}
		if err := gateways.SetPrimary(r.Context(), gwID); err != nil {
			http.Error(w, "Failed to set primary gateway", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// statsHandler serves the dashboard numbers: revenue in minor units plus the
// active-subscription breakdown.
func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		week, month, year, err := statsUC.Revenue(ctx)
		if err != nil {
			http.Error(w, "Failed to get revenue", http.StatusInternalServerError)
			return
		}

		activeByPlan, err := statsUC.ActiveByPlan(ctx)
		if err != nil {
			http.Error(w, "Failed to get subscription totals", http.StatusInternalServerError)
			return
		}

		response := struct {
			ActiveByPlan map[string]int `json:"active_subs_by_plan"`
			Revenue      struct {
				Week  int64 `json:"week"`
				Month int64 `json:"month"`
				Year  int64 `json:"year"`
			} `json:"revenue_minor"`
		}{ActiveByPlan: activeByPlan}
		response.Revenue.Week = week
		response.Revenue.Month = month
		response.Revenue.Year = year

		writeJSON(w, http.StatusOK, response)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
