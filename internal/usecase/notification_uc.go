// File: internal/usecase/notification_uc.go
package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/domain/ports/adapter"
	"learnhub-checkout/internal/domain/ports/repository"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

type NotificationUseCase interface {
	// SendReceipt mails the rendered receipt to the buyer. Failures are
	// logged, not surfaced: mail must never fail a completed checkout.
	SendReceipt(ctx context.Context, email string, view ReceiptView)

	// SendRenewalReminder mails an upcoming-renewal notice.
	SendRenewalReminder(ctx context.Context, email, planName string, expiresAt time.Time) error

	// CountExpiring returns how many active subscriptions expire within the
	// lead window.
	CountExpiring(ctx context.Context, lead time.Duration) (int, error)

	// AlertExpiring summarizes the expiring cohort to the operator channel.
	AlertExpiring(ctx context.Context, lead time.Duration) error

	// Alert forwards an operational message to the operator channel.
	Alert(ctx context.Context, message string)
}

const receiptMailTmpl = `<h2>Payment received</h2>
<p>Thanks for subscribing to the <strong>{{.PlanName}}</strong> plan.</p>
<table>
  <tr><td>Transaction</td><td>{{.TransactionID}}</td></tr>
  <tr><td>Date</td><td>{{.Date}}</td></tr>
  <tr><td>Payment method</td><td>{{.PaymentMethod}}</td></tr>
  <tr><td>Total</td><td>{{.Total}}</td></tr>
</table>`

const reminderMailTmpl = `<h2>Your subscription renews soon</h2>
<p>Your <strong>{{.PlanName}}</strong> plan expires on {{.ExpiresAt}}.
Renew from your account page to keep access.</p>`

type notificationUC struct {
	subs     repository.SubscriptionRepository
	mailer   adapter.Mailer
	alerts   adapter.AlertNotifier
	receipt  *template.Template
	reminder *template.Template
	log      *zerolog.Logger
}

func NewNotificationUseCase(
	subs repository.SubscriptionRepository,
	mailer adapter.Mailer,
	alerts adapter.AlertNotifier,
	logger *zerolog.Logger,
) *notificationUC {
	return &notificationUC{
		subs:     subs,
		mailer:   mailer,
		alerts:   alerts,
		receipt:  template.Must(template.New("receipt").Parse(receiptMailTmpl)),
		reminder: template.Must(template.New("reminder").Parse(reminderMailTmpl)),
		log:      logger,
	}
}

func (n *notificationUC) SendReceipt(ctx context.Context, email string, view ReceiptView) {
	if n.mailer == nil || email == "" {
		return
	}
	var body bytes.Buffer
	if err := n.receipt.Execute(&body, view); err != nil {
		n.log.Error().Err(err).Msg("notify: receipt template failed")
		return
	}
	if err := n.mailer.Send(ctx, email, "Your payment receipt", body.String()); err != nil {
		n.log.Warn().Err(err).Str("to", email).Msg("notify: receipt mail failed")
	}
}

func (n *notificationUC) SendRenewalReminder(ctx context.Context, email, planName string, expiresAt time.Time) error {
	var body bytes.Buffer
	data := struct {
		PlanName  string
		ExpiresAt string
	}{PlanName: planName, ExpiresAt: expiresAt.Format("January 2, 2006")}
	if err := n.reminder.Execute(&body, data); err != nil {
		return fmt.Errorf("render reminder: %w", err)
	}
	return n.mailer.Send(ctx, email, "Your subscription renews soon", body.String())
}

func (n *notificationUC) CountExpiring(ctx context.Context, lead time.Duration) (int, error) {
	now := time.Now()
	items, err := n.subs.ListExpiringBetween(ctx, now, now.Add(lead))
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (n *notificationUC) AlertExpiring(ctx context.Context, lead time.Duration) error {
	count, err := n.CountExpiring(ctx, lead)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d subscription(s) expire within %s", count, lead)
	return n.alerts.Alert(ctx, msg)
}

func (n *notificationUC) Alert(ctx context.Context, message string) {
	if n.alerts == nil {
		return
	}
	if err := n.alerts.Alert(ctx, message); err != nil {
		n.log.Warn().Err(err).Msg("notify: operator alert failed")
	}
}
