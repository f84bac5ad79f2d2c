//go:build !integration

package web

import (
	"context"
	"sync"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
)

// --- Mock Repositories (Ports) ---

type mockPlanRepo struct {
	repository.PlanRepository // Embed interface for forward compatibility
	mu                        sync.Mutex
	plans                     map[string]*model.Plan
	ListAllError              error
	SaveError                 error
}

func (m *mockPlanRepo) Save(ctx context.Context, plan *model.Plan) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.plans == nil {
		m.plans = make(map[string]*model.Plan)
	}
	m.plans[plan.ID] = plan
	return nil
}

func (m *mockPlanRepo) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if plan, ok := m.plans[id]; ok {
		return plan, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockPlanRepo) ListAll(ctx context.Context) ([]*model.Plan, error) {
	if m.ListAllError != nil {
		return nil, m.ListAllError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	plans := make([]*model.Plan, 0, len(m.plans))
	for _, p := range m.plans {
		plans = append(plans, p)
	}
	return plans, nil
}

func (m *mockPlanRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.plans, id)
	return nil
}

type mockGatewayRepo struct {
	mu            sync.Mutex
	gateways      map[model.GatewayID]model.Gateway
	ListError     error
	UpsertError   error
	primaryCalled model.GatewayID
}

func (m *mockGatewayRepo) ListEnabled(ctx context.Context) ([]model.Gateway, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]model.Gateway, 0, len(m.gateways))
	for _, gw := range m.gateways {
		list = append(list, gw)
	}
	return list, nil
}

func (m *mockGatewayRepo) Upsert(ctx context.Context, gw model.Gateway, enabled bool) error {
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gateways == nil {
		m.gateways = make(map[model.GatewayID]model.Gateway)
	}
	if enabled {
		m.gateways[gw.ID] = gw
	} else {
		delete(m.gateways, gw.ID)
	}
	return nil
}

func (m *mockGatewayRepo) SetPrimary(ctx context.Context, id model.GatewayID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.primaryCalled = id
	for gid, gw := range m.gateways {
		gw.IsPrimary = gid == id
		m.gateways[gid] = gw
	}
	return nil
}

type mockStatsUC struct {
	RevenueError      error
	ActiveByPlanError error
}

func (m *mockStatsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	if m.RevenueError != nil {
		return 0, 0, 0, m.RevenueError
	}
	return 100, 1000, 10000, nil
}

func (m *mockStatsUC) ActiveByPlan(ctx context.Context) (map[string]int, error) {
	if m.ActiveByPlanError != nil {
		return nil, m.ActiveByPlanError
	}
	return map[string]int{"plan-pro-monthly": 3}, nil
}
