package model

import "time"

type PaymentStatus string

const (
	PaymentStatusInitiated      PaymentStatus = "initiated"       // intent/order created on provider side
	PaymentStatusPending        PaymentStatus = "pending"         // handed to gateway; awaiting confirmation
	PaymentStatusPendingConfirm PaymentStatus = "pending_confirm" // overlay accepted optimistically; reconciler must finalize
	PaymentStatusSucceeded      PaymentStatus = "succeeded"       // backend-confirmed
	PaymentStatusFailed         PaymentStatus = "failed"
	PaymentStatusCancelled      PaymentStatus = "cancelled"
)

// Payment records the external payment intent/transaction (the money trail,
// separate from the entitlement in UserSubscription).
type Payment struct {
	ID          string
	UserID      string
	PlanID      string
	Gateway     GatewayID
	AmountMinor int64 // minor units (cents) to avoid float errors
	Currency    string
	Reference   string // gateway intent id / order id / widget reference
	RefID       *string
	Status      PaymentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PaidAt      *time.Time
	Description string
	Meta        map[string]interface{}

	// Set once the subscription is granted.
	SubscriptionID *string
}
