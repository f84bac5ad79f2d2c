// File: internal/usecase/receipt.go
package usecase

import (
	"learnhub-checkout/internal/domain/model"
)

// ReceiptView is the rendered summary shown to the user. Derivation is pure;
// the underlying receipt record is never mutated.
type ReceiptView struct {
	TransactionID string
	Date          string
	PaymentMethod string
	Total         string
	PlanName      string
	Succeeded     bool
	Message       string
}

const displayTxIDLen = 12

// PresentReceipt renders a PaymentReceipt for display. Transaction ids
// longer than 12 characters are truncated to their last 12 characters;
// this is cosmetic only, the stored receipt keeps the full id.
func PresentReceipt(r *model.PaymentReceipt) ReceiptView {
	txID := r.TransactionID
	if len(txID) > displayTxIDLen {
		txID = txID[len(txID)-displayTxIDLen:]
	}
	return ReceiptView{
		TransactionID: txID,
		Date:          r.Date.Format("January 2, 2006"),
		PaymentMethod: r.PaymentMethodLabel,
		Total:         "$" + r.Total.StringFixed(2),
		PlanName:      r.PlanName,
		Succeeded:     r.Status == model.ReceiptSuccess,
		Message:       r.FailureMessage,
	}
}
