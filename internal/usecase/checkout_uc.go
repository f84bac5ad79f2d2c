// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	"learnhub-checkout/internal/domain/ports/repository"
	"learnhub-checkout/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
)

// Gateways bundles the per-family adapters the orchestrator drives.
type Gateways struct {
	Intent    adapter.IntentGateway                       // stripe family: card, saved card, payment-request
	Redirects map[model.GatewayID]adapter.RedirectGateway // paypal, vodapay
	Widget    adapter.WidgetGateway                       // paystack
	Overlay   adapter.OverlayGateway                      // dodopay
}

var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutUseCase drives the per-method sub-protocols. Every operation that
// can fail resolves to a failed receipt rather than an error: the receipt is
// the terminal UI state and the system of record for what the user saw.
type CheckoutUseCase interface {
	// Begin loads gateway/saved-method/wallet state and returns a checkout
	// with the initial method selection computed. ErrNoGatewaysEnabled means
	// the caller must present a terminal "no payment methods available"
	// state instead.
	Begin(ctx context.Context, userID, email, name string, plan *model.Plan) (*Checkout, error)

	CreateIntent(ctx context.Context, userID string, plan *model.Plan) (*model.CheckoutSession, error)
	ConfirmCard(ctx context.Context, userID string, plan *model.Plan, intentID, paymentMethodRef string, handleActions bool, label string) *model.PaymentReceipt
	PayWithWallet(ctx context.Context, userID string, plan *model.Plan) *model.PaymentReceipt
	CreateRedirectOrder(ctx context.Context, userID, email string, plan *model.Plan, gw model.GatewayID, returnURL, cancelURL string) *model.CheckoutOutcome
	BeginWidget(ctx context.Context, userID, email string, plan *model.Plan) *model.CheckoutOutcome
	VerifyWidget(ctx context.Context, reference string) *model.PaymentReceipt
	CreateOverlaySession(ctx context.Context, userID, email, name string, plan *model.Plan) *model.CheckoutOutcome
	CompleteOverlay(ctx context.Context, reference string) *model.PaymentReceipt
	FinalizePendingConfirm(ctx context.Context, p *model.Payment) error
}

type checkoutUC struct {
	registry GatewayRegistry
	methods  SavedMethodUseCase
	wallet   WalletUseCase
	subs     SubscriptionUseCase
	payments repository.PaymentRepository
	plans    repository.PlanRepository
	tm       repository.TransactionManager
	gws      Gateways
	log      *zerolog.Logger
}

func NewCheckoutUseCase(
	registry GatewayRegistry,
	methods SavedMethodUseCase,
	wallet WalletUseCase,
	subs SubscriptionUseCase,
	payments repository.PaymentRepository,
	plans repository.PlanRepository,
	tm repository.TransactionManager,
	gws Gateways,
	logger *zerolog.Logger,
) *checkoutUC {
	return &checkoutUC{
		registry: registry,
		methods:  methods,
		wallet:   wallet,
		subs:     subs,
		payments: payments,
		plans:    plans,
		tm:       tm,
		gws:      gws,
		log:      logger,
	}
}

// paymentReference builds a widget/overlay reference. The sub_<millis> shape
// is what the embedded widget expects; the ULID suffix keeps two checkouts in
// the same millisecond distinct.
func paymentReference() string {
	return fmt.Sprintf("sub_%d_%s", time.Now().UnixMilli(), ulid.Make().String())
}

func (u *checkoutUC) Begin(ctx context.Context, userID, email, name string, plan *model.Plan) (*Checkout, error) {
	if plan.IsZero() || userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	// Explicit initialization pipeline: gateways, then saved methods, then
	// the default selection over both.
	gateways, err := u.registry.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	saved := u.methods.List(ctx, userID)

	sel, err := InitialSelection(gateways, saved)
	if err != nil {
		return nil, err
	}
	metrics.IncCheckoutSelection(string(sel.Kind))

	return &Checkout{
		uc:     u,
		userID: userID,
		email:  email,
		name:   name,
		plan:   plan,
		sel:    sel,
	}, nil
}

// newPayment persists the money-trail row for a freshly created intent/order.
func (u *checkoutUC) newPayment(ctx context.Context, userID string, plan *model.Plan, gw model.GatewayID, reference string, status model.PaymentStatus) (*model.Payment, error) {
	now := time.Now()
	p := &model.Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		PlanID:      plan.ID,
		Gateway:     gw,
		AmountMinor: plan.PriceMinor(),
		Currency:    "USD",
		Reference:   reference,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
		Description: fmt.Sprintf("%s plan (%s)", plan.Name, plan.Interval),
	}
	if err := u.payments.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	metrics.IncPayment(string(status))
	return p, nil
}

func (u *checkoutUC) CreateIntent(ctx context.Context, userID string, plan *model.Plan) (*model.CheckoutSession, error) {
	if u.gws.Intent == nil {
		return nil, domain.ErrNoGatewaysEnabled
	}
	intentID, clientSecret, err := u.gws.Intent.CreateIntent(ctx, plan.PriceMinor(), "usd",
		fmt.Sprintf("%s plan (%s)", plan.Name, plan.Interval),
		map[string]string{"plan_tier": plan.Tier, "billing_cycle": string(plan.Interval), "user_id": userID})
	if err != nil {
		return nil, err
	}
	if _, err := u.newPayment(ctx, userID, plan, u.gws.Intent.Name(), intentID, model.PaymentStatusInitiated); err != nil {
		return nil, err
	}
	return &model.CheckoutSession{
		ID:           uuid.NewString(),
		PlanTier:     plan.Tier,
		BillingCycle: plan.Interval,
		Gateway:      u.gws.Intent.Name(),
		IntentID:     intentID,
		ClientSecret: clientSecret,
		Status:       model.CheckoutAwaitingConfirmation,
		CreatedAt:    time.Now(),
	}, nil
}

// ConfirmCard runs confirm-with-gateway then confirm-on-backend. A gateway
// failure never reaches the backend confirm; a gateway success without a
// backend confirmation is still a failed receipt, because entitlement is
// gated on the backend's own success.
func (u *checkoutUC) ConfirmCard(ctx context.Context, userID string, plan *model.Plan, intentID, paymentMethodRef string, handleActions bool, label string) *model.PaymentReceipt {
	p, err := u.payments.FindByReference(ctx, repository.NoTX, intentID)
	if err != nil {
		return model.FailedReceipt(label, plan.Name, "payment session not found", plan.Price)
	}

	providerRef, err := u.gws.Intent.ConfirmIntent(ctx, intentID, paymentMethodRef, handleActions)
	if err != nil {
		// Gateway-reported declines pass through verbatim.
		u.failPayment(ctx, p.ID)
		return model.FailedReceipt(label, plan.Name, err.Error(), plan.Price)
	}

	txID, err := u.confirmBackend(ctx, p, userID, plan, providerRef)
	if err != nil {
		u.log.Error().Err(err).Str("payment_id", p.ID).Msg("checkout: backend confirm failed after gateway success")
		return model.FailedReceipt(label, plan.Name, "payment could not be recorded; you have not been charged twice — contact support", plan.Price)
	}
	return model.SuccessReceipt(txID, label, plan.Name, plan.Price)
}

func (u *checkoutUC) PayWithWallet(ctx context.Context, userID string, plan *model.Plan) *model.PaymentReceipt {
	label := MethodLabel(model.MethodSystemWallet)
	balance := u.wallet.Balance(ctx, userID)

	// Client-side guard: the shortfall message is produced before any
	// gateway or storage call.
	if !HasSufficientBalance(balance, plan.Price) {
		shortfall := plan.Price.Sub(balance)
		msg := fmt.Sprintf("Insufficient wallet balance. You need $%s more to complete this purchase.", shortfall.StringFixed(2))
		return model.FailedReceipt(label, plan.Name, msg, plan.Price)
	}

	paymentID := uuid.NewString()
	now := time.Now()
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.wallet.Debit(ctx, tx, userID, plan.Price); err != nil {
			return err
		}
		p := &model.Payment{
			ID:          paymentID,
			UserID:      userID,
			PlanID:      plan.ID,
			Gateway:     model.GatewayWallet,
			AmountMinor: plan.PriceMinor(),
			Currency:    "USD",
			Reference:   paymentReference(),
			Status:      model.PaymentStatusSucceeded,
			CreatedAt:   now,
			UpdatedAt:   now,
			PaidAt:      &now,
			Description: fmt.Sprintf("%s plan (%s) via wallet", plan.Name, plan.Interval),
		}
		if err := u.payments.Save(ctx, tx, p); err != nil {
			return err
		}
		sub, err := u.subs.Grant(ctx, tx, userID, plan)
		if err != nil {
			return err
		}
		return u.payments.SetSubscription(ctx, tx, paymentID, sub.ID)
	})
	if err != nil {
		metrics.IncPayment(string(model.PaymentStatusFailed))
		return model.FailedReceipt(label, plan.Name, "wallet payment failed: "+err.Error(), plan.Price)
	}

	// The debit changed both cached views; drop them so the next screen
	// reflects the new balance and subscription status.
	_ = u.wallet.Invalidate(ctx, userID)

	metrics.IncPayment(string(model.PaymentStatusSucceeded))
	metrics.AddPaymentRevenue("USD", plan.PriceMinor())
	return model.SuccessReceipt(paymentID, label, plan.Name, plan.Price)
}

func (u *checkoutUC) CreateRedirectOrder(ctx context.Context, userID, email string, plan *model.Plan, gw model.GatewayID, returnURL, cancelURL string) *model.CheckoutOutcome {
	label := MethodLabel(methodForGateway(gw))
	rg, ok := u.gws.Redirects[gw]
	if !ok {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, plan.Name, "gateway not configured", plan.Price)}
	}
	orderID, approvalURL, err := rg.CreateOrder(ctx, adapter.RedirectOrder{
		AmountMinor:   plan.PriceMinor(),
		Currency:      "USD",
		Description:   fmt.Sprintf("%s plan (%s)", plan.Name, plan.Interval),
		ReturnURL:     returnURL,
		CancelURL:     cancelURL,
		CustomerEmail: email,
	})
	if err != nil {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, plan.Name, err.Error(), plan.Price)}
	}
	if _, err := u.newPayment(ctx, userID, plan, gw, orderID, model.PaymentStatusPending); err != nil {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, plan.Name, err.Error(), plan.Price)}
	}
	// Control leaves for the gateway's approval page; the receipt for this
	// path is produced after the user lands back on the return URL.
	return &model.CheckoutOutcome{RedirectURL: approvalURL}
}

func (u *checkoutUC) BeginWidget(ctx context.Context, userID, email string, plan *model.Plan) *model.CheckoutOutcome {
	label := MethodLabel(model.MethodPaystack)
	if u.gws.Widget == nil {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, plan.Name, "gateway not configured", plan.Price)}
	}
	ref := paymentReference()
	if _, err := u.newPayment(ctx, userID, plan, u.gws.Widget.Name(), ref, model.PaymentStatusPending); err != nil {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, plan.Name, err.Error(), plan.Price)}
	}
	return &model.CheckoutOutcome{Reference: ref}
}

// VerifyWidget finalizes a widget payment: the widget's client-side success
// callback is not trusted until the reference verifies server-side.
func (u *checkoutUC) VerifyWidget(ctx context.Context, reference string) *model.PaymentReceipt {
	label := MethodLabel(model.MethodPaystack)
	p, err := u.payments.FindByReference(ctx, repository.NoTX, reference)
	if err != nil {
		return model.FailedReceipt(label, "", "unknown payment reference", decimal.Zero)
	}
	plan, err := u.plans.FindByID(ctx, p.PlanID)
	if err != nil {
		return model.FailedReceipt(label, "", "plan not found", decimal.Zero)
	}

	providerRef, err := u.gws.Widget.VerifyReference(ctx, reference, p.AmountMinor)
	if err != nil {
		u.failPayment(ctx, p.ID)
		return model.FailedReceipt(label, plan.Name, err.Error(), plan.Price)
	}

	txID, err := u.confirmBackend(ctx, p, p.UserID, plan, providerRef)
	if err != nil {
		return model.FailedReceipt(label, plan.Name, "payment verification could not be recorded", plan.Price)
	}
	return model.SuccessReceipt(txID, label, plan.Name, plan.Price)
}

func (u *checkoutUC) CreateOverlaySession(ctx context.Context, userID, email, name string, plan *model.Plan) *model.CheckoutOutcome {
	label := MethodLabel(model.MethodDodoPay)
	if u.gws.Overlay == nil {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, plan.Name, "gateway not configured", plan.Price)}
	}
	sessionID, checkoutURL, err := u.gws.Overlay.CreateSession(ctx, adapter.OverlaySession{
		AmountMinor:        plan.PriceMinor(),
		Currency:           "USD",
		ProductName:        plan.Name,
		ProductDescription: plan.Description,
		ProductType:        "subscription",
		BillingInterval:    string(plan.Interval),
		CustomerEmail:      email,
		CustomerName:       name,
		OverlayMode:        true,
	})
	if err != nil {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, plan.Name, err.Error(), plan.Price)}
	}
	if _, err := u.newPayment(ctx, userID, plan, u.gws.Overlay.Name(), sessionID, model.PaymentStatusPending); err != nil {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, plan.Name, err.Error(), plan.Price)}
	}
	return &model.CheckoutOutcome{CheckoutURL: checkoutURL}
}

// CompleteOverlay handles the overlay's local redirect event. The vendor
// event already implies capture, so the user sees success immediately; the
// payment is parked in pending_confirm and the reconciler drives the backend
// confirmation to a terminal state.
func (u *checkoutUC) CompleteOverlay(ctx context.Context, reference string) *model.PaymentReceipt {
	label := MethodLabel(model.MethodDodoPay)
	p, err := u.payments.FindByReference(ctx, repository.NoTX, reference)
	if err != nil {
		return model.FailedReceipt(label, "", "unknown checkout session", decimal.Zero)
	}
	plan, err := u.plans.FindByID(ctx, p.PlanID)
	if err != nil {
		return model.FailedReceipt(label, "", "plan not found", decimal.Zero)
	}

	if err := u.payments.UpdateStatus(ctx, repository.NoTX, p.ID, model.PaymentStatusPendingConfirm, nil, nil); err != nil {
		u.log.Error().Err(err).Str("payment_id", p.ID).Msg("checkout: overlay pending_confirm write failed")
	}
	metrics.IncPayment(string(model.PaymentStatusPendingConfirm))
	return model.SuccessReceipt(p.Reference, label, plan.Name, plan.Price)
}

// FinalizePendingConfirm is the reconciler entry point for stale payments.
// Dispatch follows the gateway family the payment was created on: overlay
// sessions are looked up at their provider, widget references re-verified,
// and abandoned redirect orders (which the vendor expires on its side) are
// closed locally. A payment is only ever settled by its own gateway.
func (u *checkoutUC) FinalizePendingConfirm(ctx context.Context, p *model.Payment) error {
	switch {
	case u.gws.Overlay != nil && p.Gateway == u.gws.Overlay.Name():
		return u.finalizeOverlay(ctx, p)
	case u.gws.Widget != nil && p.Gateway == u.gws.Widget.Name():
		return u.finalizeWidget(ctx, p)
	}
	if _, ok := u.gws.Redirects[p.Gateway]; ok {
		return u.expireRedirectOrder(ctx, p)
	}
	return fmt.Errorf("payment %s on gateway %s cannot be reconciled: %w", p.ID, p.Gateway, domain.ErrInvalidArgument)
}

func (u *checkoutUC) finalizeOverlay(ctx context.Context, p *model.Payment) error {
	providerRef, settled, err := u.gws.Overlay.LookupPayment(ctx, p.Reference)
	if err != nil {
		return err
	}
	if !settled {
		return nil // not terminal yet; next tick retries
	}
	plan, err := u.plans.FindByID(ctx, p.PlanID)
	if err != nil {
		return err
	}
	_, err = u.confirmBackend(ctx, p, p.UserID, plan, providerRef)
	return err
}

func (u *checkoutUC) finalizeWidget(ctx context.Context, p *model.Payment) error {
	providerRef, err := u.gws.Widget.VerifyReference(ctx, p.Reference, p.AmountMinor)
	if err != nil {
		return err
	}
	plan, err := u.plans.FindByID(ctx, p.PlanID)
	if err != nil {
		return err
	}
	_, err = u.confirmBackend(ctx, p, p.UserID, plan, providerRef)
	return err
}

// expireRedirectOrder closes the local row for a redirect order whose
// approval page was never completed.
func (u *checkoutUC) expireRedirectOrder(ctx context.Context, p *model.Payment) error {
	if err := u.payments.UpdateStatus(ctx, repository.NoTX, p.ID, model.PaymentStatusCancelled, nil, nil); err != nil {
		return err
	}
	metrics.IncPayment(string(model.PaymentStatusCancelled))
	return nil
}

// confirmBackend is the single place a payment becomes an entitlement: mark
// the payment succeeded and grant the subscription in one transaction.
func (u *checkoutUC) confirmBackend(ctx context.Context, p *model.Payment, userID string, plan *model.Plan, providerRef string) (string, error) {
	now := time.Now()
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.payments.UpdateStatus(ctx, tx, p.ID, model.PaymentStatusSucceeded, &providerRef, &now); err != nil {
			return err
		}
		sub, err := u.subs.Grant(ctx, tx, userID, plan)
		if err != nil {
			return err
		}
		return u.payments.SetSubscription(ctx, tx, p.ID, sub.ID)
	})
	if err != nil {
		metrics.IncPayment(string(model.PaymentStatusFailed))
		return "", err
	}
	metrics.IncPayment(string(model.PaymentStatusSucceeded))
	metrics.AddPaymentRevenue(p.Currency, p.AmountMinor)
	return p.Reference, nil
}

func (u *checkoutUC) failPayment(ctx context.Context, id string) {
	if err := u.payments.UpdateStatus(ctx, repository.NoTX, id, model.PaymentStatusFailed, nil, nil); err != nil {
		u.log.Warn().Err(err).Str("payment_id", id).Msg("checkout: failed-status write failed")
	}
	metrics.IncPayment(string(model.PaymentStatusFailed))
}

// ---------------------------------------------------------------------------
// Checkout: one modal lifecycle
// ---------------------------------------------------------------------------

// SubmitInput carries the per-submission client artifacts: the tokenized
// payment method from the card element or payment-request sheet, and the
// sheet completer for the payment-request flow.
type SubmitInput struct {
	PaymentMethodRef string
	Sheet            adapter.SheetCompleter
}

// Checkout holds the state of one checkout lifecycle: the current method
// selection, the lazily created gateway session, and the processing guard.
// It is not shared between users; the mutex orders selection changes against
// submissions from UI event handlers.
type Checkout struct {
	uc     *checkoutUC
	userID string
	email  string
	name   string
	plan   *model.Plan

	mu        sync.Mutex
	sel       model.MethodSelection
	session   *model.CheckoutSession
	succeeded bool
	onSuccess func(view ReceiptView)

	processing atomic.Bool
}

func (c *Checkout) Plan() *model.Plan { return c.plan }

func (c *Checkout) Selection() model.MethodSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

// OnSuccess registers a callback fired exactly once, after the success
// receipt has been rendered.
func (c *Checkout) OnSuccess(fn func(view ReceiptView)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSuccess = fn
}

// Select replaces the current selection unconditionally. Any in-flight
// session tied to the previous selection is orphaned: the orchestrator never
// resumes it, and its eventual resolution cannot touch the new selection's
// state.
func (c *Checkout) Select(sel model.MethodSelection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sel != c.sel {
		c.session = nil
	}
	c.sel = sel
}

// Submit runs the sub-protocol for the current selection. It never returns
// an error: every failure path is a failed receipt. The processing flag is
// taken synchronously before any asynchronous work and released in a defer
// so no failure can leave the checkout stuck in "processing".
func (c *Checkout) Submit(ctx context.Context, in SubmitInput) *model.CheckoutOutcome {
	if !c.processing.CompareAndSwap(false, true) {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(
			MethodLabel(c.Selection().Kind), c.plan.Name, domain.ErrCheckoutInProgress.Error(), c.plan.Price)}
	}
	defer c.processing.Store(false)

	c.mu.Lock()
	sel := c.sel
	session := c.session
	c.mu.Unlock()

	var out *model.CheckoutOutcome
	switch sel.Kind {
	case model.MethodCard:
		out = c.submitCard(ctx, sel, session, in.PaymentMethodRef, false)
	case model.MethodSavedCard:
		out = c.submitSavedCard(ctx, sel, session)
	case model.MethodPaymentRequest:
		out = c.submitPaymentRequest(ctx, sel, session, in)
	case model.MethodPayPal:
		out = c.uc.CreateRedirectOrder(ctx, c.userID, c.email, c.plan, model.GatewayPayPal,
			c.returnURL("success"), c.returnURL("cancelled"))
	case model.MethodVodaPay:
		out = c.uc.CreateRedirectOrder(ctx, c.userID, c.email, c.plan, model.GatewayVodaPay,
			c.returnURL("success"), c.returnURL("cancelled"))
	case model.MethodPaystack:
		out = c.uc.BeginWidget(ctx, c.userID, c.email, c.plan)
	case model.MethodDodoPay:
		out = c.uc.CreateOverlaySession(ctx, c.userID, c.email, c.name, c.plan)
	case model.MethodSystemWallet:
		out = &model.CheckoutOutcome{Receipt: c.uc.PayWithWallet(ctx, c.userID, c.plan)}
	default:
		out = &model.CheckoutOutcome{Receipt: model.FailedReceipt(
			string(sel.Kind), c.plan.Name, domain.ErrInvalidArgument.Error(), c.plan.Price)}
	}

	c.finish(sel, out)
	return out
}

// ensureSession lazily creates the intent session for the given selection,
// at most once per selection episode: switching away and back starts fresh.
func (c *Checkout) ensureSession(ctx context.Context, sel model.MethodSelection, session *model.CheckoutSession) (*model.CheckoutSession, error) {
	if session != nil && !session.Terminal() {
		return session, nil
	}
	created, err := c.uc.CreateIntent(ctx, c.userID, c.plan)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	// Store only if the selection has not moved on while we were creating;
	// an orphaned session must not leak into the new selection's state.
	if c.sel == sel {
		c.session = created
	}
	c.mu.Unlock()
	return created, nil
}

func (c *Checkout) submitCard(ctx context.Context, sel model.MethodSelection, session *model.CheckoutSession, paymentMethodRef string, handleActions bool) *model.CheckoutOutcome {
	label := MethodLabel(sel.Kind)
	s, err := c.ensureSession(ctx, sel, session)
	if err != nil {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, c.plan.Name, err.Error(), c.plan.Price)}
	}
	receipt := c.uc.ConfirmCard(ctx, c.userID, c.plan, s.IntentID, paymentMethodRef, handleActions, label)
	return &model.CheckoutOutcome{Receipt: receipt}
}

func (c *Checkout) submitSavedCard(ctx context.Context, sel model.MethodSelection, session *model.CheckoutSession) *model.CheckoutOutcome {
	label := MethodLabel(sel.Kind)
	saved, err := c.uc.methods.Resolve(ctx, sel.SavedMethodID)
	if err != nil {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, c.plan.Name, "saved card unavailable", c.plan.Price)}
	}
	if saved.LastFour != "" {
		label = "Card ending in " + saved.LastFour
	}
	return c.submitCardWithLabel(ctx, sel, session, saved.ExternalReference, false, label)
}

// submitPaymentRequest drives the browser payment sheet flow. The sheet is
// completed exactly once: a single linear sequence with one terminal
// completion call, per the payment-request API contract.
func (c *Checkout) submitPaymentRequest(ctx context.Context, sel model.MethodSelection, session *model.CheckoutSession, in SubmitInput) *model.CheckoutOutcome {
	label := MethodLabel(sel.Kind)
	if c.uc.gws.Intent == nil || !c.uc.gws.Intent.SupportsPaymentRequest(ctx) {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, c.plan.Name, "payment request not available", c.plan.Price)}
	}

	// handleActions=false: no redirect-based authentication inside the sheet.
	out := c.submitCardWithLabel(ctx, sel, session, in.PaymentMethodRef, false, label)

	if in.Sheet != nil {
		if out.Receipt != nil && out.Receipt.Status == model.ReceiptSuccess {
			in.Sheet.Complete("success")
		} else {
			in.Sheet.Complete("fail")
		}
	}
	return out
}

func (c *Checkout) submitCardWithLabel(ctx context.Context, sel model.MethodSelection, session *model.CheckoutSession, paymentMethodRef string, handleActions bool, label string) *model.CheckoutOutcome {
	s, err := c.ensureSession(ctx, sel, session)
	if err != nil {
		return &model.CheckoutOutcome{Receipt: model.FailedReceipt(label, c.plan.Name, err.Error(), c.plan.Price)}
	}
	receipt := c.uc.ConfirmCard(ctx, c.userID, c.plan, s.IntentID, paymentMethodRef, handleActions, label)
	return &model.CheckoutOutcome{Receipt: receipt}
}

// finish applies terminal bookkeeping: session status, metrics, the
// once-only success callback. Outcomes for selections that were switched
// away mid-flight do not touch current state.
func (c *Checkout) finish(sel model.MethodSelection, out *model.CheckoutOutcome) {
	outcome := "redirect"
	if out.Receipt != nil {
		outcome = string(out.Receipt.Status)
	}
	metrics.IncCheckoutSubmission(string(sel.Kind), outcome)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sel != sel {
		return // abandoned flow; no cross-talk with the new selection
	}
	if out.Receipt != nil && c.session != nil {
		if out.Receipt.Status == model.ReceiptSuccess {
			c.session.Status = model.CheckoutSucceeded
		} else {
			c.session.Status = model.CheckoutFailed
			c.session.ErrorMessage = out.Receipt.FailureMessage
		}
	}
	if out.Receipt != nil && out.Receipt.Status == model.ReceiptSuccess && !c.succeeded {
		c.succeeded = true
		if c.onSuccess != nil {
			view := PresentReceipt(out.Receipt)
			c.onSuccess(view)
		}
	}
}

// Retry discards terminal state and returns to method selection. The
// previous receipt is dropped; nothing is retried automatically.
func (c *Checkout) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
}

func (c *Checkout) returnURL(marker string) string {
	return fmt.Sprintf("/plans/%s?payment=%s", c.plan.Tier, marker)
}
