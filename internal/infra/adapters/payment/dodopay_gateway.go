package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"learnhub-checkout/internal/config"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	"learnhub-checkout/internal/infra/metrics"
)

var _ adapter.OverlayGateway = (*DodoPayGateway)(nil)

// DodoPayGateway creates dynamic checkout sessions for the in-page overlay.
// Session creation is deferred until first use and performed once; repeat
// construction with the same config is safe.
type DodoPayGateway struct {
	apiKey   string
	testMode bool

	initOnce sync.Once
	client   *http.Client
}

func NewDodoPayGateway(cfg config.DodoPayConfig) (*DodoPayGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("dodopay api key empty")
	}
	return &DodoPayGateway{apiKey: cfg.APIKey, testMode: cfg.TestMode}, nil
}

func (g *DodoPayGateway) Name() model.GatewayID { return model.GatewayDodoPay }

func (g *DodoPayGateway) init() {
	g.initOnce.Do(func() {
		g.client = &http.Client{Timeout: 20 * time.Second}
	})
}

func (g *DodoPayGateway) endpoint(path string) string {
	base := "https://live.dodopayments.com"
	if g.testMode {
		base = "https://test.dodopayments.com"
	}
	return base + path
}

func (g *DodoPayGateway) CreateSession(ctx context.Context, sess adapter.OverlaySession) (string, string, error) {
	g.init()

	payload := map[string]any{
		"amount":   sess.AmountMinor,
		"currency": sess.Currency,
		"product": map[string]any{
			"name":        sess.ProductName,
			"description": sess.ProductDescription,
			"type":        sess.ProductType,
		},
		"billing_interval": sess.BillingInterval,
		"customer": map[string]string{
			"email": sess.CustomerEmail,
			"name":  sess.CustomerName,
		},
		// Overlay mode suppresses the vendor success page; the page listens
		// for the overlay's redirect event instead.
		"overlay": sess.OverlayMode,
	}
	b, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint("/checkouts"), bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.ObserveGatewayRequest(string(model.GatewayDodoPay), "create_session", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("dodopay create session http %d", resp.StatusCode)
	}
	var out struct {
		SessionID   string `json:"session_id"`
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", err
	}
	if out.SessionID == "" || out.CheckoutURL == "" {
		return "", "", errors.New("dodopay session response incomplete")
	}
	return out.SessionID, out.CheckoutURL, nil
}

func (g *DodoPayGateway) LookupPayment(ctx context.Context, sessionID string) (string, bool, error) {
	g.init()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint("/payments/"+url.PathEscape(sessionID)), nil)
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.ObserveGatewayRequest(string(model.GatewayDodoPay), "lookup_payment", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("dodopay lookup http %d", resp.StatusCode)
	}
	var out struct {
		PaymentID string `json:"payment_id"`
		Status    string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, err
	}
	return out.PaymentID, out.Status == "succeeded", nil
}
