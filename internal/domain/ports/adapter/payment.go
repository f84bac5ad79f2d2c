package adapter

import (
	"context"

	"learnhub-checkout/internal/domain/model"
)

// IntentGateway is the port for card-processor style providers that use a
// create-then-confirm payment intent protocol (Stripe family).
type IntentGateway interface {
	Name() model.GatewayID

	// CreateIntent opens a payment intent and returns its id and the client
	// secret handed to the card element / payment-request sheet.
	CreateIntent(ctx context.Context, amountMinor int64, currency, description string, meta map[string]string) (intentID, clientSecret string, err error)

	// ConfirmIntent confirms an intent with a tokenized payment method.
	// handleActions=false suppresses redirect-based authentication steps
	// (required for the payment-request sheet flow).
	ConfirmIntent(ctx context.Context, intentID, paymentMethodRef string, handleActions bool) (providerRef string, err error)

	// SupportsPaymentRequest probes whether the browser payment-request
	// surface (Apple/Google Pay) can be offered.
	SupportsPaymentRequest(ctx context.Context) bool
}

// RedirectOrder describes an order for full-page redirect providers.
type RedirectOrder struct {
	AmountMinor   int64
	Currency      string
	Description   string
	ReturnURL     string
	CancelURL     string
	CustomerEmail string
}

// RedirectGateway is the port for providers that approve off-site
// (PayPal, VodaPay): the outcome of creation is an approval URL.
type RedirectGateway interface {
	Name() model.GatewayID
	CreateOrder(ctx context.Context, order RedirectOrder) (orderID, approvalURL string, err error)
}

// WidgetGateway is the port for embedded-widget providers (Paystack): the
// widget runs client-side against a pre-agreed reference which the backend
// verifies before declaring success.
type WidgetGateway interface {
	Name() model.GatewayID
	VerifyReference(ctx context.Context, reference string, expectedMinor int64) (providerRef string, err error)
}

// OverlaySession describes a dynamic checkout session for overlay providers.
type OverlaySession struct {
	AmountMinor        int64
	Currency           string
	ProductName        string
	ProductDescription string
	ProductType        string
	BillingInterval    string
	CustomerEmail      string
	CustomerName       string
	OverlayMode        bool // suppress the vendor success page; emit a local redirect event instead
}

// OverlayGateway is the port for in-page overlay providers (DodoPay).
// Implementations own their initialization; construction is idempotent.
type OverlayGateway interface {
	Name() model.GatewayID
	CreateSession(ctx context.Context, sess OverlaySession) (sessionID, checkoutURL string, err error)
	// LookupPayment resolves the provider-side state of a session, used by
	// the reconciler to finalize optimistic accepts.
	LookupPayment(ctx context.Context, sessionID string) (providerRef string, settled bool, err error)
}

// SheetCompleter reports the outcome back to a browser payment-request
// sheet. Complete must be called exactly once per submission.
type SheetCompleter interface {
	Complete(status string) // "success" or "fail"
}
