package adapter

import "context"

// Mailer sends transactional mail (receipts, renewal reminders).
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// AlertNotifier delivers operator alerts (stuck reconciliations, gateway
// outages) out of band.
type AlertNotifier interface {
	Alert(ctx context.Context, message string) error
}
