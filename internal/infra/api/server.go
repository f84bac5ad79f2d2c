package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	types "github.com/oapi-codegen/runtime/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"learnhub-checkout/internal/config"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
	"learnhub-checkout/internal/infra/logging"
	"learnhub-checkout/internal/infra/metrics"
	"learnhub-checkout/internal/infra/redis"
	"learnhub-checkout/internal/usecase"
)

// submit endpoints share one per-user budget; this closes the double-click
// race before the in-process flag is even reached.
const (
	submitLimit  = 5
	submitWindow = 10 * time.Second
)

// RateLimiter is satisfied by the redis limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Server is the public checkout API.
type Server struct {
	cfg      config.ServerConfig
	checkout usecase.CheckoutUseCase
	wallet   usecase.WalletUseCase
	methods  usecase.SavedMethodUseCase
	registry usecase.GatewayRegistry
	plans    repository.PlanRepository
	notify   usecase.NotificationUseCase
	limiter  RateLimiter
	log      *zerolog.Logger
}

func NewServer(
	cfg config.ServerConfig,
	checkout usecase.CheckoutUseCase,
	wallet usecase.WalletUseCase,
	methods usecase.SavedMethodUseCase,
	registry usecase.GatewayRegistry,
	plans repository.PlanRepository,
	notify usecase.NotificationUseCase,
	limiter RateLimiter,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		cfg:      cfg,
		checkout: checkout,
		wallet:   wallet,
		methods:  methods,
		registry: registry,
		plans:    plans,
		notify:   notify,
		limiter:  limiter,
		log:      logger,
	}
}

// Router assembles the chi routing tree. userSecret guards everything under
// /api except health and metrics.
func (s *Server) Router(userSecret string) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return Chain(next, TraceID(s.log), RequestLog(s.log), Recover(s.log), Timeout(30*time.Second), UserAuth(userSecret))
		})

		r.Get("/gateways", s.handleListGateways)
		r.Get("/shop/wallet", s.handleWalletBalance)
		r.Get("/payment-methods", s.handleListMethods)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/subscriptions/create", s.handleCreate)
			r.Post("/subscriptions/confirm", s.handleConfirm)
			r.Post("/paypal/subscription", s.handlePayPal)
			r.Post("/paystack/verify-subscription", s.handlePaystackVerify)
			r.Post("/dodopay/checkout-session", s.handleDodoSession)
			r.Post("/dodopay/complete", s.handleDodoComplete)
			r.Post("/vodapay/initialize", s.handleVodaPay)
		})
	})

	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		id, _ := IdentityFrom(r.Context())
		ok, err := s.limiter.Allow(r.Context(), redis.SubmitKey(id.UserID), submitLimit, submitWindow)
		if err != nil {
			// Limiter outage must not block checkout.
			logging.With(r.Context(), s.log).Warn().Err(err).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			metrics.IncCheckoutRateLimited()
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"success": false, "error": "too many payment attempts, slow down"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- request/response shapes ---

type planRef struct {
	PlanTier     string `json:"planType"`
	BillingCycle string `json:"billingCycle"`
}

type receiptJSON struct {
	TransactionID string `json:"transactionId"`
	Date          string `json:"date"`
	PaymentMethod string `json:"paymentMethod"`
	Total         string `json:"total"`
	PlanName      string `json:"planName"`
}

func presentJSON(view usecase.ReceiptView) receiptJSON {
	return receiptJSON{
		TransactionID: view.TransactionID,
		Date:          view.Date,
		PaymentMethod: view.PaymentMethod,
		Total:         view.Total,
		PlanName:      view.PlanName,
	}
}

func (s *Server) resolvePlan(w http.ResponseWriter, r *http.Request, ref planRef) (*model.Plan, bool) {
	plan, err := s.plans.FindByTierAndCycle(r.Context(), ref.PlanTier, model.BillingCycle(ref.BillingCycle))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "unknown plan"})
		return nil, false
	}
	return plan, true
}

func decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "malformed request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// --- handlers ---

func (s *Server) handleListGateways(w http.ResponseWriter, r *http.Request) {
	gws, err := s.registry.ListEnabled(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "gateways unavailable"})
		return
	}
	type gwJSON struct {
		ID        string `json:"id"`
		IsPrimary bool   `json:"isPrimary"`
		TestMode  bool   `json:"testMode"`
	}
	out := make([]gwJSON, 0, len(gws))
	for _, gw := range gws {
		out = append(out, gwJSON{ID: string(gw.ID), IsPrimary: gw.IsPrimary, TestMode: gw.TestMode})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleWalletBalance fails open: a wallet outage renders as a zero balance,
// never as a broken checkout.
func (s *Server) handleWalletBalance(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	balance := s.wallet.Balance(r.Context(), id.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"balance": balance.StringFixed(2)})
}

// handleListMethods fails open to an empty list.
func (s *Server) handleListMethods(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	list := s.methods.List(r.Context(), id.UserID)
	type methodJSON struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		LastFour    string `json:"lastFour"`
		ExpiryDate  string `json:"expiryDate"`
		Type        string `json:"type"`
		IsDefault   bool   `json:"isDefault"`
	}
	out := make([]methodJSON, 0, len(list))
	for _, m := range list {
		// The gateway token reference never leaves the backend.
		out = append(out, methodJSON{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			LastFour:    m.LastFour,
			ExpiryDate:  m.ExpiryDate,
			Type:        m.Type,
			IsDefault:   m.IsDefault,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req planRef
	if !decode(w, r, &req) {
		return
	}
	plan, ok := s.resolvePlan(w, r, req)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())

	sess, err := s.checkout.CreateIntent(r.Context(), id.UserID, plan)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"clientSecret":    sess.ClientSecret,
		"paymentIntentId": sess.IntentID,
	})
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		planRef
		PaymentIntentID string `json:"paymentIntentId"`
		PaymentMethodID string `json:"paymentMethodId"`
		PaymentRequest  bool   `json:"paymentRequest"`
		Label           string `json:"label"`
	}
	if !decode(w, r, &req) {
		return
	}
	plan, ok := s.resolvePlan(w, r, req.planRef)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())

	label := req.Label
	if label == "" {
		label = usecase.MethodLabel(model.MethodCard)
	}
	// The payment-request sheet cannot follow redirect authentication.
	handleActions := !req.PaymentRequest

	receipt := s.checkout.ConfirmCard(r.Context(), id.UserID, plan, req.PaymentIntentID, req.PaymentMethodID, handleActions, label)
	s.respondReceipt(w, r, receipt, id.Email)
}

func (s *Server) handlePayPal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		planRef
		ReturnURL string `json:"returnUrl"`
		CancelURL string `json:"cancelUrl"`
	}
	if !decode(w, r, &req) {
		return
	}
	plan, ok := s.resolvePlan(w, r, req.planRef)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())

	out := s.checkout.CreateRedirectOrder(r.Context(), id.UserID, id.Email, plan, model.GatewayPayPal, req.ReturnURL, req.CancelURL)
	if out.Receipt != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": out.Receipt.FailureMessage})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"links":   []map[string]string{{"rel": "approve", "href": out.RedirectURL}},
	})
}

func (s *Server) handleVodaPay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		planRef
		UserEmail types.Email `json:"userEmail"`
		ReturnURL string      `json:"returnUrl"`
		CancelURL string      `json:"cancelUrl"`
	}
	if !decode(w, r, &req) {
		return
	}
	plan, ok := s.resolvePlan(w, r, req.planRef)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())

	email := string(req.UserEmail)
	if email == "" {
		email = id.Email
	}
	out := s.checkout.CreateRedirectOrder(r.Context(), id.UserID, email, plan, model.GatewayVodaPay, req.ReturnURL, req.CancelURL)
	if out.Receipt != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": out.Receipt.FailureMessage})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "checkoutUrl": out.RedirectURL})
}

func (s *Server) handlePaystackVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reference string `json:"reference"`
	}
	if !decode(w, r, &req) {
		return
	}
	id, _ := IdentityFrom(r.Context())

	receipt := s.checkout.VerifyWidget(r.Context(), req.Reference)
	s.respondReceipt(w, r, receipt, id.Email)
}

func (s *Server) handleDodoSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		planRef
		UserEmail types.Email `json:"userEmail"`
		UserName  string      `json:"userName"`
	}
	if !decode(w, r, &req) {
		return
	}
	plan, ok := s.resolvePlan(w, r, req.planRef)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())

	email := string(req.UserEmail)
	if email == "" {
		email = id.Email
	}
	name := req.UserName
	if name == "" {
		name = id.Name
	}
	out := s.checkout.CreateOverlaySession(r.Context(), id.UserID, email, name, plan)
	if out.Receipt != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": out.Receipt.FailureMessage})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "checkoutUrl": out.CheckoutURL})
}

// handleDodoComplete accepts the overlay's redirect event. The response is
// optimistic; the reconciler finalizes the provider-side state.
func (s *Server) handleDodoComplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if !decode(w, r, &req) {
		return
	}
	id, _ := IdentityFrom(r.Context())

	receipt := s.checkout.CompleteOverlay(r.Context(), req.SessionID)
	s.respondReceipt(w, r, receipt, id.Email)
}

func (s *Server) respondReceipt(w http.ResponseWriter, r *http.Request, receipt *model.PaymentReceipt, email string) {
	view := usecase.PresentReceipt(receipt)
	if view.Succeeded {
		s.notify.SendReceipt(r.Context(), email, view)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "receipt": presentJSON(view)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": view.Message, "receipt": presentJSON(view)})
}

// Run serves until ctx is done.
func (s *Server) Run(userSecret string) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.log.Info().Str("addr", addr).Msg("checkout api listening")
	return http.ListenAndServe(addr, s.Router(userSecret))
}
