package model

import "time"

// SavedPaymentMethod is a tokenized card reference. ExternalReference is the
// gateway-side token id, stored encrypted; raw PANs never enter the system.
type SavedPaymentMethod struct {
	ID                string
	UserID            string
	DisplayName       string
	LastFour          string
	ExpiryDate        string
	CardholderName    string
	Type              string
	IsDefault         bool
	ExternalReference string
	CreatedAt         time.Time
}

// MethodKind is the closed set of checkout method families. New gateways are
// a compile-visible addition here plus an orchestrator branch.
type MethodKind string

const (
	MethodCard           MethodKind = "card"
	MethodSavedCard      MethodKind = "saved_card"
	MethodPayPal         MethodKind = "paypal"
	MethodPaystack       MethodKind = "paystack"
	MethodDodoPay        MethodKind = "dodopay"
	MethodVodaPay        MethodKind = "vodapay"
	MethodSystemWallet   MethodKind = "system_wallet"
	MethodPaymentRequest MethodKind = "payment_request" // Apple/Google Pay sheet
)

// MethodSelection is a tagged value: exactly one method family, with the
// saved-method id carried only for saved_card.
type MethodSelection struct {
	Kind          MethodKind
	SavedMethodID string
}

func SelectMethod(kind MethodKind) MethodSelection {
	return MethodSelection{Kind: kind}
}

func SelectSavedCard(savedMethodID string) MethodSelection {
	return MethodSelection{Kind: MethodSavedCard, SavedMethodID: savedMethodID}
}
