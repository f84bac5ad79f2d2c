package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"learnhub-checkout/internal/config"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	"learnhub-checkout/internal/infra/metrics"
)

var _ adapter.WidgetGateway = (*PaystackGateway)(nil)

// PaystackGateway verifies references agreed with the embedded inline widget.
// The widget charges client-side; nothing is trusted until the backend
// verify call confirms both status and amount.
type PaystackGateway struct {
	secretKey string
	publicKey string
	client    *http.Client
}

func NewPaystackGateway(cfg config.PaystackConfig) (*PaystackGateway, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("paystack secret key empty")
	}
	return &PaystackGateway{
		secretKey: cfg.SecretKey,
		publicKey: cfg.PublicKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *PaystackGateway) Name() model.GatewayID { return model.GatewayPaystack }

// PublicKey is handed to the browser to mount the widget.
func (g *PaystackGateway) PublicKey() string { return g.publicKey }

func (g *PaystackGateway) VerifyReference(ctx context.Context, reference string, expectedMinor int64) (string, error) {
	if reference == "" {
		return "", errors.New("empty reference")
	}
	endpoint := "https://api.paystack.co/transaction/verify/" + url.PathEscape(reference)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.ObserveGatewayRequest(string(model.GatewayPaystack), "verify", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paystack verify http %d", resp.StatusCode)
	}

	var out struct {
		Status bool `json:"status"`
		Data   struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
			Amount int64  `json:"amount"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if !out.Status || out.Data.Status != "success" {
		return "", errors.New("payment verification failed")
	}
	if out.Data.Amount != expectedMinor {
		return "", fmt.Errorf("amount mismatch: expected %d got %d", expectedMinor, out.Data.Amount)
	}
	return fmt.Sprintf("%d", out.Data.ID), nil
}
