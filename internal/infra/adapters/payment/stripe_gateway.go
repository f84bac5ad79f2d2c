package payment

import (
	"context"
	"errors"
	"time"

	stripe "github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/client"

	"learnhub-checkout/internal/config"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	"learnhub-checkout/internal/infra/metrics"
)

var _ adapter.IntentGateway = (*StripeGateway)(nil)

// StripeGateway implements the create-then-confirm intent protocol on the
// Stripe PaymentIntents API.
type StripeGateway struct {
	api            *client.API
	publishableKey string
}

func NewStripeGateway(cfg config.StripeConfig) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key empty")
	}
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeGateway{api: api, publishableKey: cfg.PublishableKey}, nil
}

func (s *StripeGateway) Name() model.GatewayID { return model.GatewayStripe }

func (s *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency, description string, meta map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountMinor),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}
	params.Context = ctx
	for k, v := range meta {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	pi, err := s.api.PaymentIntents.New(params)
	metrics.ObserveGatewayRequest(string(model.GatewayStripe), "create_intent", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return "", "", gatewayMessage(err)
	}
	return pi.ID, pi.ClientSecret, nil
}

func (s *StripeGateway) ConfirmIntent(ctx context.Context, intentID, paymentMethodRef string, handleActions bool) (string, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodRef),
	}
	params.Context = ctx
	if !handleActions {
		// The payment-request sheet cannot follow redirects; fail fast on
		// any authentication step instead.
		params.ErrorOnRequiresAction = stripe.Bool(true)
	}

	start := time.Now()
	pi, err := s.api.PaymentIntents.Confirm(intentID, params)
	metrics.ObserveGatewayRequest(string(model.GatewayStripe), "confirm_intent", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return "", gatewayMessage(err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", errors.New("payment was not completed")
	}
	if pi.Charges != nil && len(pi.Charges.Data) > 0 {
		return pi.Charges.Data[0].ID, nil
	}
	return pi.ID, nil
}

// SupportsPaymentRequest reports whether the browser sheet can be offered:
// the client element needs the publishable key to mount.
func (s *StripeGateway) SupportsPaymentRequest(ctx context.Context) bool {
	return s.publishableKey != ""
}

// gatewayMessage surfaces Stripe's human-readable decline message so it can
// be shown on the receipt verbatim.
func gatewayMessage(err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) && sErr.Msg != "" {
		return errors.New(sErr.Msg)
	}
	return err
}
