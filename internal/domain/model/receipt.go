package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceiptStatus string

const (
	ReceiptSuccess ReceiptStatus = "success"
	ReceiptFailed  ReceiptStatus = "failed"
)

// PaymentReceipt is the terminal, write-once summary of a payment attempt.
// It is the system of record for what the user is shown; a gateway-side
// success without a backend confirmation never becomes a success receipt.
type PaymentReceipt struct {
	TransactionID      string
	Date               time.Time
	PaymentMethodLabel string
	Total              decimal.Decimal
	PlanName           string
	Status             ReceiptStatus
	FailureMessage     string
}

func SuccessReceipt(txID, methodLabel, planName string, total decimal.Decimal) *PaymentReceipt {
	return &PaymentReceipt{
		TransactionID:      txID,
		Date:               time.Now(),
		PaymentMethodLabel: methodLabel,
		Total:              total,
		PlanName:           planName,
		Status:             ReceiptSuccess,
	}
}

func FailedReceipt(methodLabel, planName, message string, total decimal.Decimal) *PaymentReceipt {
	return &PaymentReceipt{
		Date:               time.Now(),
		PaymentMethodLabel: methodLabel,
		Total:              total,
		PlanName:           planName,
		Status:             ReceiptFailed,
		FailureMessage:     message,
	}
}
