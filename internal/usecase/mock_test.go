//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	"learnhub-checkout/internal/domain/ports/repository"
)

// ---- Mock GatewayRepository ----

type MockGatewayRepo struct {
	mu       sync.Mutex
	Gateways []model.Gateway
	ListErr  error
}

var _ repository.GatewayRepository = (*MockGatewayRepo)(nil)

func NewMockGatewayRepo(gws ...model.Gateway) *MockGatewayRepo {
	return &MockGatewayRepo{Gateways: gws}
}

func (r *MockGatewayRepo) ListEnabled(ctx context.Context) ([]model.Gateway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	out := make([]model.Gateway, len(r.Gateways))
	copy(out, r.Gateways)
	return out, nil
}

func (r *MockGatewayRepo) Upsert(ctx context.Context, gw model.Gateway, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, g := range r.Gateways {
		if g.ID == gw.ID {
			if enabled {
				r.Gateways[i] = gw
			} else {
				r.Gateways = append(r.Gateways[:i], r.Gateways[i+1:]...)
			}
			return nil
		}
	}
	if enabled {
		r.Gateways = append(r.Gateways, gw)
	}
	return nil
}

func (r *MockGatewayRepo) SetPrimary(ctx context.Context, id model.GatewayID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Gateways {
		r.Gateways[i].IsPrimary = r.Gateways[i].ID == id
	}
	return nil
}

// ---- Mock SavedMethodRepository ----

type MockSavedMethodRepo struct {
	mu      sync.Mutex
	data    map[string]*model.SavedPaymentMethod
	ListErr error
}

var _ repository.SavedMethodRepository = (*MockSavedMethodRepo)(nil)

func NewMockSavedMethodRepo() *MockSavedMethodRepo {
	return &MockSavedMethodRepo{data: map[string]*model.SavedPaymentMethod{}}
}

func (r *MockSavedMethodRepo) Save(ctx context.Context, m *model.SavedPaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.data[m.ID] = &cp
	return nil
}

func (r *MockSavedMethodRepo) ListByUser(ctx context.Context, userID string) ([]*model.SavedPaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	var out []*model.SavedPaymentMethod
	for _, m := range r.data {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockSavedMethodRepo) FindByID(ctx context.Context, id string) (*model.SavedPaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.data[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockSavedMethodRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

// ---- Mock WalletRepository ----

type MockWalletRepo struct {
	mu      sync.Mutex
	Profile map[string]decimal.Decimal
	Shop    map[string]decimal.Decimal

	BalancesErr error
	DebitErr    error
	DebitCalls  int
	LastSource  model.WalletSource
}

var _ repository.WalletRepository = (*MockWalletRepo)(nil)

func NewMockWalletRepo() *MockWalletRepo {
	return &MockWalletRepo{Profile: map[string]decimal.Decimal{}, Shop: map[string]decimal.Decimal{}}
}

func (r *MockWalletRepo) Balances(ctx context.Context, tx repository.Tx, userID string) (decimal.Decimal, decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.BalancesErr != nil {
		return decimal.Zero, decimal.Zero, r.BalancesErr
	}
	return r.Profile[userID], r.Shop[userID], nil
}

func (r *MockWalletRepo) Debit(ctx context.Context, tx repository.Tx, userID string, source model.WalletSource, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DebitCalls++
	r.LastSource = source
	if r.DebitErr != nil {
		return r.DebitErr
	}
	bucket := r.Shop
	if source == model.WalletSourceProfile {
		bucket = r.Profile
	}
	next := bucket[userID].Sub(amount)
	if next.IsNegative() {
		return domain.ErrInsufficientBalance
	}
	bucket[userID] = next
	return nil
}

func (r *MockWalletRepo) Credit(ctx context.Context, tx repository.Tx, userID string, source model.WalletSource, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket := r.Shop
	if source == model.WalletSourceProfile {
		bucket = r.Profile
	}
	bucket[userID] = bucket[userID].Add(amount)
	return nil
}

// ---- Mock PaymentRepository ----

type MockPaymentRepo struct {
	mu    sync.Mutex
	data  map[string]*model.Payment
	byRef map[string]string

	SaveFunc         func(ctx context.Context, tx repository.Tx, p *model.Payment) error
	UpdateStatusFunc func(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus) error
	SumByPeriodFunc  func(ctx context.Context, tx repository.Tx, period string) (int64, error)
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{data: map[string]*model.Payment{}, byRef: map[string]string{}}
}

func (r *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, p)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	r.data[p.ID] = &cp
	if p.Reference != "" {
		r.byRef[p.Reference] = p.ID
	}
	return nil
}

func (r *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.data[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPaymentRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byRef[reference]; ok {
		cp := *r.data[id]
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPaymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, refID *string, paidAt *time.Time) error {
	if r.UpdateStatusFunc != nil {
		return r.UpdateStatusFunc(ctx, tx, id, status)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	if refID != nil {
		p.RefID = refID
	}
	if paidAt != nil {
		p.PaidAt = paidAt
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (r *MockPaymentRepo) SetSubscription(ctx context.Context, tx repository.Tx, id, subscriptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.SubscriptionID = &subscriptionID
	return nil
}

func (r *MockPaymentRepo) ListByStatusOlderThan(ctx context.Context, tx repository.Tx, status model.PaymentStatus, olderThan time.Time, limit int) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Payment
	for _, p := range r.data {
		if p.Status == status && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MockPaymentRepo) SumByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	if r.SumByPeriodFunc != nil {
		return r.SumByPeriodFunc(ctx, tx, period)
	}
	return 0, nil
}

// All returns a snapshot of stored payments for assertions.
func (r *MockPaymentRepo) All() []*model.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Payment
	for _, p := range r.data {
		cp := *p
		out = append(out, &cp)
	}
	return out
}

// ---- Mock PlanRepository ----

type MockPlanRepo struct {
	mu   sync.Mutex
	data map[string]*model.Plan
}

var _ repository.PlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{data: map[string]*model.Plan{}}
}

func (r *MockPlanRepo) Save(ctx context.Context, plan *model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *plan
	r.data[plan.ID] = &cp
	return nil
}

func (r *MockPlanRepo) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.data[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPlanRepo) FindByTierAndCycle(ctx context.Context, tier string, cycle model.BillingCycle) (*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.data {
		if p.Tier == tier && p.Interval == cycle {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockPlanRepo) ListAll(ctx context.Context) ([]*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Plan
	for _, p := range r.data {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MockPlanRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	data map[string]*model.UserSubscription

	SaveErr error
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{data: map[string]*model.UserSubscription{}}
}

func (r *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, sub *model.UserSubscription) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sub
	r.data[sub.ID] = &cp
	return nil
}

func (r *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.data {
		if s.UserID == userID && s.Status == model.SubscriptionStatusActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNoActiveSubscription
}

func (r *MockSubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]*model.UserSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.UserSubscription
	for _, s := range r.data {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockSubscriptionRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*model.UserSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.UserSubscription
	for _, s := range r.data {
		if s.Status != model.SubscriptionStatusActive || s.ExpiresAt == nil {
			continue
		}
		if s.ExpiresAt.After(from) && s.ExpiresAt.Before(to) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockSubscriptionRepo) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.data {
		if s.Status == model.SubscriptionStatusActive && s.ExpiresAt != nil && s.ExpiresAt.Before(cutoff) {
			s.Status = model.SubscriptionStatusFinished
			n++
		}
	}
	return n, nil
}

func (r *MockSubscriptionRepo) CountActiveByPlan(ctx context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int{}
	for _, s := range r.data {
		if s.Status == model.SubscriptionStatusActive {
			out[s.PlanID]++
		}
	}
	return out, nil
}

// ---- Mock CourseRepository ----

type MockCourseRepo struct {
	mu       sync.Mutex
	courses  map[string]*model.Course
	outlines map[string]*model.CourseOutline
}

var _ repository.CourseRepository = (*MockCourseRepo)(nil)

func NewMockCourseRepo() *MockCourseRepo {
	return &MockCourseRepo{courses: map[string]*model.Course{}, outlines: map[string]*model.CourseOutline{}}
}

func (r *MockCourseRepo) Save(ctx context.Context, c *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *MockCourseRepo) FindByID(ctx context.Context, id string) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockCourseRepo) ListAll(ctx context.Context) ([]*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Course
	for _, c := range r.courses {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MockCourseRepo) SaveOutline(ctx context.Context, o *model.CourseOutline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.outlines[o.CourseID] = &cp
	return nil
}

func (r *MockCourseRepo) FindOutline(ctx context.Context, courseID string) (*model.CourseOutline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.outlines[courseID]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

// WithTx runs the function immediately with NoTX by default; assign
// WithTxFunc to verify transactional behavior.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- Mock gateway adapters ----

type MockIntentGateway struct {
	mu sync.Mutex

	CreateCalls  int
	ConfirmCalls int
	LastMethod   string

	CreateIntentFunc  func(ctx context.Context, amountMinor int64, currency, description string, meta map[string]string) (string, string, error)
	ConfirmIntentFunc func(ctx context.Context, intentID, paymentMethodRef string, handleActions bool) (string, error)
	SupportsPR        bool
}

var _ adapter.IntentGateway = (*MockIntentGateway)(nil)

func (g *MockIntentGateway) Name() model.GatewayID { return model.GatewayStripe }

func (g *MockIntentGateway) CreateIntent(ctx context.Context, amountMinor int64, currency, description string, meta map[string]string) (string, string, error) {
	g.mu.Lock()
	g.CreateCalls++
	g.mu.Unlock()
	if g.CreateIntentFunc != nil {
		return g.CreateIntentFunc(ctx, amountMinor, currency, description, meta)
	}
	id := "pi_" + uuid.NewString()[:8]
	return id, id + "_secret", nil
}

func (g *MockIntentGateway) ConfirmIntent(ctx context.Context, intentID, paymentMethodRef string, handleActions bool) (string, error) {
	g.mu.Lock()
	g.ConfirmCalls++
	g.LastMethod = paymentMethodRef
	g.mu.Unlock()
	if g.ConfirmIntentFunc != nil {
		return g.ConfirmIntentFunc(ctx, intentID, paymentMethodRef, handleActions)
	}
	return "ch_" + intentID, nil
}

func (g *MockIntentGateway) SupportsPaymentRequest(ctx context.Context) bool { return g.SupportsPR }

type MockRedirectGateway struct {
	ID          model.GatewayID
	CreateCalls int
	Err         error
}

var _ adapter.RedirectGateway = (*MockRedirectGateway)(nil)

func (g *MockRedirectGateway) Name() model.GatewayID { return g.ID }

func (g *MockRedirectGateway) CreateOrder(ctx context.Context, order adapter.RedirectOrder) (string, string, error) {
	g.CreateCalls++
	if g.Err != nil {
		return "", "", g.Err
	}
	id := "order_" + uuid.NewString()[:8]
	return id, "https://approve.example/" + id, nil
}

type MockWidgetGateway struct {
	VerifyFunc func(ctx context.Context, reference string, expectedMinor int64) (string, error)
}

var _ adapter.WidgetGateway = (*MockWidgetGateway)(nil)

func (g *MockWidgetGateway) Name() model.GatewayID { return model.GatewayPaystack }

func (g *MockWidgetGateway) VerifyReference(ctx context.Context, reference string, expectedMinor int64) (string, error) {
	if g.VerifyFunc != nil {
		return g.VerifyFunc(ctx, reference, expectedMinor)
	}
	return "ps_" + reference, nil
}

type MockOverlayGateway struct {
	Settled    bool
	LookupErr  error
	CreateErr  error
	LookupRefs int
}

var _ adapter.OverlayGateway = (*MockOverlayGateway)(nil)

func (g *MockOverlayGateway) Name() model.GatewayID { return model.GatewayDodoPay }

func (g *MockOverlayGateway) CreateSession(ctx context.Context, sess adapter.OverlaySession) (string, string, error) {
	if g.CreateErr != nil {
		return "", "", g.CreateErr
	}
	id := "dodo_" + uuid.NewString()[:8]
	return id, "https://checkout.example/" + id, nil
}

func (g *MockOverlayGateway) LookupPayment(ctx context.Context, sessionID string) (string, bool, error) {
	g.LookupRefs++
	if g.LookupErr != nil {
		return "", false, g.LookupErr
	}
	return "dodo_ref_" + sessionID, g.Settled, nil
}

// MockSheet records payment-request sheet completions.
type MockSheet struct {
	mu       sync.Mutex
	Statuses []string
}

var _ adapter.SheetCompleter = (*MockSheet)(nil)

func (s *MockSheet) Complete(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Statuses = append(s.Statuses, status)
}

// ---- Mock AI / notification adapters ----

type MockContentGenerator struct {
	JSONFunc func(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error)
	TextFunc func(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error)
}

var _ adapter.ContentGenerator = (*MockContentGenerator)(nil)

func (g *MockContentGenerator) Provider() string { return "mock" }

func (g *MockContentGenerator) GenerateJSON(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error) {
	if g.JSONFunc != nil {
		return g.JSONFunc(ctx, system, prompt, maxTokens)
	}
	return "{}", adapter.Usage{}, nil
}

func (g *MockContentGenerator) GenerateText(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error) {
	if g.TextFunc != nil {
		return g.TextFunc(ctx, system, prompt, maxTokens)
	}
	return "lesson body", adapter.Usage{TotalTokens: 10}, nil
}

type MockMailer struct {
	mu   sync.Mutex
	Sent []string // "to|subject"
	Err  error
}

var _ adapter.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, to+"|"+subject)
	return nil
}

type MockAlertNotifier struct {
	mu       sync.Mutex
	Messages []string
}

var _ adapter.AlertNotifier = (*MockAlertNotifier)(nil)

func (m *MockAlertNotifier) Alert(ctx context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, message)
	return nil
}

var errBoom = errors.New("boom")

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
