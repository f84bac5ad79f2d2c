//go:build !integration

package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/usecase"
)

func TestPresentReceipt(t *testing.T) {
	t.Run("long transaction ids are display-truncated to the last 12", func(t *testing.T) {
		// --- Arrange ---
		r := model.SuccessReceipt("pi_3Oq8Z2K7xyzAB12345", "Card", "Pro", decimal.RequireFromString("49.99"))

		// --- Act ---
		view := usecase.PresentReceipt(r)

		// --- Assert ---
		if view.TransactionID != "K7xyzAB12345" {
			t.Fatalf("expected last-12 truncation, got %q", view.TransactionID)
		}
		// The record keeps the full id; truncation is cosmetic only.
		if r.TransactionID != "pi_3Oq8Z2K7xyzAB12345" {
			t.Fatalf("receipt record was mutated: %q", r.TransactionID)
		}
	})

	t.Run("short transaction ids are shown in full", func(t *testing.T) {
		r := model.SuccessReceipt("wallet-123", "Wallet balance", "Pro", decimal.NewFromInt(10))

		view := usecase.PresentReceipt(r)
		if view.TransactionID != "wallet-123" {
			t.Fatalf("expected untouched id, got %q", view.TransactionID)
		}
	})

	t.Run("renders currency and date formats", func(t *testing.T) {
		r := model.SuccessReceipt("tx", "PayPal", "Premium", decimal.RequireFromString("129.9"))
		r.Date = time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)

		view := usecase.PresentReceipt(r)
		if view.Total != "$129.90" {
			t.Fatalf("expected $129.90, got %q", view.Total)
		}
		if view.Date != "March 7, 2026" {
			t.Fatalf("expected long date, got %q", view.Date)
		}
		if !view.Succeeded {
			t.Fatal("expected success view")
		}
	})

	t.Run("failed receipts carry the failure message through", func(t *testing.T) {
		r := model.FailedReceipt("Card", "Pro", "Your card was declined.", decimal.NewFromInt(49))

		view := usecase.PresentReceipt(r)
		if view.Succeeded {
			t.Fatal("expected failed view")
		}
		if view.Message != "Your card was declined." {
			t.Fatalf("expected verbatim decline message, got %q", view.Message)
		}
	})
}
