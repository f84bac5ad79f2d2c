//go:build !integration

package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
	"learnhub-checkout/internal/usecase"
)

func TestNotificationUseCase_CountExpiring(t *testing.T) {
	ctx := context.Background()

	// --- Arrange ---
	subs := NewMockSubscriptionRepo()
	soon := time.Now().Add(48 * time.Hour)
	far := time.Now().AddDate(0, 1, 0)
	_ = subs.Save(ctx, repository.NoTX, &model.UserSubscription{
		ID: "s1", UserID: "u1", Status: model.SubscriptionStatusActive, ExpiresAt: &soon,
	})
	_ = subs.Save(ctx, repository.NoTX, &model.UserSubscription{
		ID: "s2", UserID: "u2", Status: model.SubscriptionStatusActive, ExpiresAt: &far,
	})
	uc := usecase.NewNotificationUseCase(subs, &MockMailer{}, &MockAlertNotifier{}, newTestLogger())

	// --- Act ---
	n, err := uc.CountExpiring(ctx, 72*time.Hour)

	// --- Assert ---
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expiring, got %d", n)
	}
}

func TestNotificationUseCase_AlertExpiring(t *testing.T) {
	ctx := context.Background()

	t.Run("alerts when subscriptions are expiring", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		soon := time.Now().Add(time.Hour)
		_ = subs.Save(ctx, repository.NoTX, &model.UserSubscription{
			ID: "s1", UserID: "u1", Status: model.SubscriptionStatusActive, ExpiresAt: &soon,
		})
		alerts := &MockAlertNotifier{}
		uc := usecase.NewNotificationUseCase(subs, &MockMailer{}, alerts, newTestLogger())

		if err := uc.AlertExpiring(ctx, 24*time.Hour); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(alerts.Messages) != 1 {
			t.Fatalf("expected one alert, got %v", alerts.Messages)
		}
	})

	t.Run("stays quiet when nothing expires", func(t *testing.T) {
		alerts := &MockAlertNotifier{}
		uc := usecase.NewNotificationUseCase(NewMockSubscriptionRepo(), &MockMailer{}, alerts, newTestLogger())

		if err := uc.AlertExpiring(ctx, 24*time.Hour); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(alerts.Messages) != 0 {
			t.Fatalf("expected no alerts, got %v", alerts.Messages)
		}
	})
}

func TestNotificationUseCase_SendReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("mails the rendered receipt", func(t *testing.T) {
		// --- Arrange ---
		mailer := &MockMailer{}
		uc := usecase.NewNotificationUseCase(NewMockSubscriptionRepo(), mailer, &MockAlertNotifier{}, newTestLogger())
		view := usecase.ReceiptView{
			TransactionID: "K7xyzAB12345", Date: "March 7, 2026",
			PaymentMethod: "Card", Total: "$49.99", PlanName: "Pro", Succeeded: true,
		}

		// --- Act ---
		uc.SendReceipt(ctx, "u1@example.com", view)

		// --- Assert ---
		if len(mailer.Sent) != 1 || !strings.HasPrefix(mailer.Sent[0], "u1@example.com|") {
			t.Fatalf("unexpected mail log: %v", mailer.Sent)
		}
	})

	t.Run("mail failure is swallowed", func(t *testing.T) {
		mailer := &MockMailer{Err: errBoom}
		uc := usecase.NewNotificationUseCase(NewMockSubscriptionRepo(), mailer, &MockAlertNotifier{}, newTestLogger())

		uc.SendReceipt(ctx, "u1@example.com", usecase.ReceiptView{}) // must not panic or error
	})
}
