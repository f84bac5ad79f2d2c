package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"learnhub-checkout/internal/config"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	"learnhub-checkout/internal/infra/metrics"
)

var _ adapter.RedirectGateway = (*PayPalGateway)(nil)

// PayPalGateway implements the redirect flow on the Orders v2 REST API.
type PayPalGateway struct {
	clientID string
	secret   string
	sandbox  bool
	client   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalGateway(cfg config.PayPalConfig) (*PayPalGateway, error) {
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, errors.New("paypal credentials empty")
	}
	return &PayPalGateway{
		clientID: cfg.ClientID,
		secret:   cfg.Secret,
		sandbox:  cfg.Sandbox,
		client:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (p *PayPalGateway) Name() model.GatewayID { return model.GatewayPayPal }

func (p *PayPalGateway) endpoint(path string) string {
	base := "https://api-m.paypal.com"
	if p.sandbox {
		base = "https://api-m.sandbox.paypal.com"
	}
	return base + path
}

// token returns a cached client-credentials token, refreshing with a minute
// of slack before expiry.
func (p *PayPalGateway) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accessToken != "" && time.Now().Before(p.tokenExpiry.Add(-time.Minute)) {
		return p.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint("/v1/oauth2/token"), strings.NewReader(form.Encode()))
	req.SetBasicAuth(p.clientID, p.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token http %d", resp.StatusCode)
	}
	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("paypal token response empty")
	}
	p.accessToken = out.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	return p.accessToken, nil
}

func (p *PayPalGateway) CreateOrder(ctx context.Context, order adapter.RedirectOrder) (string, string, error) {
	tok, err := p.token(ctx)
	if err != nil {
		return "", "", err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"description": order.Description,
			"amount": map[string]string{
				"currency_code": order.Currency,
				"value":         majorUnits(order.AmountMinor),
			},
		}},
		"application_context": map[string]string{
			"return_url":  order.ReturnURL,
			"cancel_url":  order.CancelURL,
			"user_action": "PAY_NOW",
		},
	}
	b, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint("/v2/checkout/orders"), bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)

	start := time.Now()
	resp, err := p.client.Do(req)
	metrics.ObserveGatewayRequest(string(model.GatewayPayPal), "create_order", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("paypal create order http %d", resp.StatusCode)
	}
	var out struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", err
	}
	for _, l := range out.Links {
		if l.Rel == "approve" {
			return out.ID, l.Href, nil
		}
	}
	return "", "", errors.New("paypal order has no approval link")
}

// majorUnits renders cents as the "12.34" string the Orders API expects.
func majorUnits(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
