package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"learnhub-checkout/internal/config"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	"learnhub-checkout/internal/infra/metrics"
)

var _ adapter.RedirectGateway = (*VodaPayGateway)(nil)

// VodaPayGateway initializes a hosted payment page and hands back its URL.
type VodaPayGateway struct {
	merchantID string
	apiKey     string
	sandbox    bool
	client     *http.Client
}

func NewVodaPayGateway(cfg config.VodaPayConfig) (*VodaPayGateway, error) {
	if cfg.MerchantID == "" || cfg.APIKey == "" {
		return nil, errors.New("vodapay credentials empty")
	}
	return &VodaPayGateway{
		merchantID: cfg.MerchantID,
		apiKey:     cfg.APIKey,
		sandbox:    cfg.Sandbox,
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *VodaPayGateway) Name() model.GatewayID { return model.GatewayVodaPay }

func (g *VodaPayGateway) endpoint(path string) string {
	base := "https://api.vodapay.vodacom.co.za"
	if g.sandbox {
		base = "https://sandbox.vodapay.vodacom.co.za"
	}
	return base + path
}

func (g *VodaPayGateway) CreateOrder(ctx context.Context, order adapter.RedirectOrder) (string, string, error) {
	payload := map[string]any{
		"merchant_id":  g.merchantID,
		"amount":       order.AmountMinor,
		"currency":     order.Currency,
		"description":  order.Description,
		"return_url":   order.ReturnURL,
		"cancel_url":   order.CancelURL,
		"customer_email": order.CustomerEmail,
	}
	b, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint("/v1/payments/initialize"), bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.ObserveGatewayRequest(string(model.GatewayVodaPay), "initialize", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("vodapay initialize http %d", resp.StatusCode)
	}
	var out struct {
		PaymentID  string `json:"payment_id"`
		PaymentURL string `json:"payment_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", err
	}
	if out.PaymentID == "" || out.PaymentURL == "" {
		return "", "", errors.New("vodapay initialize response incomplete")
	}
	return out.PaymentID, out.PaymentURL, nil
}
