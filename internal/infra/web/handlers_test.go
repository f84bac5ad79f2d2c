//go:build !integration

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
)

// --- Handler Tests ---

func TestStatsHandler(t *testing.T) {
	statsUC := &mockStatsUC{}

	t.Run("Success", func(t *testing.T) {
		handler := statsHandler(statsUC)
		req := httptest.NewRequest("GET", "/api/v1/stats", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}

		var resp map[string]interface{}
		json.Unmarshal(rr.Body.Bytes(), &resp)
		if resp["revenue_minor"].(map[string]interface{})["month"].(float64) != 1000 {
			t.Error("handler returned wrong revenue from mock")
		}
		if resp["active_subs_by_plan"].(map[string]interface{})["plan-pro-monthly"].(float64) != 3 {
			t.Error("handler returned wrong active subscription counts")
		}
	})

	t.Run("Failure on Revenue", func(t *testing.T) {
		statsUC.RevenueError = errors.New("db error")
		handler := statsHandler(statsUC)
		req := httptest.NewRequest("GET", "/api/v1/stats", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusInternalServerError {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
		}
		statsUC.RevenueError = nil
	})

	t.Run("Failure on ActiveByPlan", func(t *testing.T) {
		statsUC.ActiveByPlanError = errors.New("db error")
		handler := statsHandler(statsUC)
		req := httptest.NewRequest("GET", "/api/v1/stats", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusInternalServerError {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
		}
		statsUC.ActiveByPlanError = nil
	})
}

func TestPlansHandlers(t *testing.T) {
	newRepo := func() *mockPlanRepo {
		pro, _ := model.NewPlan("plan-pro-monthly", "pro", "Pro", decimal.RequireFromString("49.99"), model.BillingMonthly, "", nil)
		return &mockPlanRepo{plans: map[string]*model.Plan{pro.ID: pro}}
	}

	t.Run("list success", func(t *testing.T) {
		repo := newRepo()
		handler := plansListHandler(repo)
		req := httptest.NewRequest("GET", "/api/v1/plans", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}
		var resp struct {
			Data []planView `json:"data"`
		}
		json.Unmarshal(rr.Body.Bytes(), &resp)
		if len(resp.Data) != 1 || resp.Data[0].Price != "49.99" {
			t.Errorf("unexpected plan list: %+v", resp.Data)
		}
	})

	t.Run("list failure", func(t *testing.T) {
		repo := newRepo()
		repo.ListAllError = errors.New("database error")
		handler := plansListHandler(repo)
		req := httptest.NewRequest("GET", "/api/v1/plans", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusInternalServerError {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
		}
	})

	t.Run("create success", func(t *testing.T) {
		repo := newRepo()
		handler := plansCreateHandler(repo)
		body := `{"tier":"premium","name":"Premium","price":"99.99","billing_cycle":"yearly"}`
		req := httptest.NewRequest("POST", "/api/v1/plans", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusCreated {
			t.Fatalf("handler returned wrong status code: got %v want %v (%s)", status, http.StatusCreated, rr.Body.String())
		}
		var resp planView
		json.Unmarshal(rr.Body.Bytes(), &resp)
		if resp.ID != "plan-premium-yearly" {
			t.Errorf("expected derived plan id, got %q", resp.ID)
		}
		if _, err := repo.FindByID(req.Context(), "plan-premium-yearly"); err != nil {
			t.Errorf("plan was not persisted: %v", err)
		}
	})

	t.Run("create with bad price -> 400", func(t *testing.T) {
		handler := plansCreateHandler(newRepo())
		body := `{"tier":"premium","name":"Premium","price":"lots","billing_cycle":"yearly"}`
		req := httptest.NewRequest("POST", "/api/v1/plans", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusBadRequest {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
		}
	})

	t.Run("create duplicate -> 409", func(t *testing.T) {
		repo := newRepo()
		repo.SaveError = domain.ErrAlreadyExists
		handler := plansCreateHandler(repo)
		body := `{"tier":"pro","name":"Pro","price":"49.99","billing_cycle":"monthly"}`
		req := httptest.NewRequest("POST", "/api/v1/plans", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusConflict {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusConflict)
		}
	})

	t.Run("update unknown plan -> 404", func(t *testing.T) {
		handler := plansUpdateHandler(newRepo(), "plan-missing")
		body := `{"tier":"pro","name":"Pro","price":"59.99","billing_cycle":"monthly"}`
		req := httptest.NewRequest("PUT", "/api/v1/plans/plan-missing", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusNotFound {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
		}
	})

	t.Run("update keeps path id", func(t *testing.T) {
		repo := newRepo()
		handler := plansUpdateHandler(repo, "plan-pro-monthly")
		body := `{"id":"plan-evil","tier":"pro","name":"Pro Plus","price":"59.99","billing_cycle":"monthly"}`
		req := httptest.NewRequest("PUT", "/api/v1/plans/plan-pro-monthly", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}
		updated, err := repo.FindByID(req.Context(), "plan-pro-monthly")
		if err != nil || updated.Name != "Pro Plus" {
			t.Errorf("expected in-place update, got %+v err=%v", updated, err)
		}
	})

	t.Run("delete twice -> 404", func(t *testing.T) {
		repo := newRepo()
		handler := plansDeleteHandler(repo, "plan-pro-monthly")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/v1/plans/plan-pro-monthly", nil))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rr.Code)
		}

		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/v1/plans/plan-pro-monthly", nil))
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected 404 on second delete, got %d", rr.Code)
		}
	})
}

func TestGatewayHandlers(t *testing.T) {
	newRepo := func() *mockGatewayRepo {
		return &mockGatewayRepo{gateways: map[model.GatewayID]model.Gateway{
			model.GatewayStripe: {ID: model.GatewayStripe, IsPrimary: true},
			model.GatewayPayPal: {ID: model.GatewayPayPal},
		}}
	}

	t.Run("list enabled", func(t *testing.T) {
		handler := gatewaysListHandler(newRepo())
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/gateways", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp struct {
			Data []gatewayView `json:"data"`
		}
		json.Unmarshal(rr.Body.Bytes(), &resp)
		if len(resp.Data) != 2 {
			t.Errorf("expected 2 gateways, got %d", len(resp.Data))
		}
	})

	t.Run("disable removes from enabled set", func(t *testing.T) {
		repo := newRepo()
		handler := gatewayUpsertHandler(repo, "paypal")
		req := httptest.NewRequest("PUT", "/api/v1/gateways/paypal", strings.NewReader(`{"enabled":false}`))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rr.Code)
		}
		list, _ := repo.ListEnabled(req.Context())
		if len(list) != 1 {
			t.Errorf("expected 1 enabled gateway after disable, got %d", len(list))
		}
	})

	t.Run("unknown gateway -> 400", func(t *testing.T) {
		handler := gatewayUpsertHandler(newRepo(), "bitcoin")
		req := httptest.NewRequest("PUT", "/api/v1/gateways/bitcoin", strings.NewReader(`{"enabled":true}`))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("set primary", func(t *testing.T) {
		repo := newRepo()
		handler := gatewayPrimaryHandler(repo, "paypal")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/gateways/paypal/primary", nil))

		if rr.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rr.Code)
		}
		if repo.primaryCalled != model.GatewayPayPal {
			t.Errorf("expected primary flip to paypal, got %q", repo.primaryCalled)
		}
		if repo.gateways[model.GatewayStripe].IsPrimary {
			t.Error("stripe should no longer be primary")
		}
	})
}
