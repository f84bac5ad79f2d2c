package model

import "time"

type CheckoutStatus string

const (
	CheckoutIdle                 CheckoutStatus = "idle"
	CheckoutCreating             CheckoutStatus = "creating"
	CheckoutAwaitingConfirmation CheckoutStatus = "awaiting_confirmation"
	CheckoutConfirming           CheckoutStatus = "confirming"
	CheckoutSucceeded            CheckoutStatus = "succeeded"
	CheckoutFailed               CheckoutStatus = "failed"
)

// CheckoutSession tracks one lazily-created gateway intent/session. Lifetime
// is bounded to a single checkout; switching methods orphans it.
type CheckoutSession struct {
	ID           string
	PlanTier     string
	BillingCycle BillingCycle
	Gateway      GatewayID
	IntentID     string
	ClientSecret string
	CheckoutURL  string
	Status       CheckoutStatus
	ErrorMessage string
	CreatedAt    time.Time
}

func (s *CheckoutSession) Terminal() bool {
	return s != nil && (s.Status == CheckoutSucceeded || s.Status == CheckoutFailed)
}

// CheckoutOutcome is the normalized result of one submission. Exactly one of
// Receipt or RedirectURL is set on success; failures always carry a failed
// Receipt. Reference/ClientSecret/CheckoutURL feed the widget and overlay
// flows where the gateway finishes client-side.
type CheckoutOutcome struct {
	Receipt      *PaymentReceipt
	RedirectURL  string
	Reference    string
	ClientSecret string
	CheckoutURL  string
}
