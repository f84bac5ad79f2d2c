package payment

import (
	"context"
	"fmt"
	"sync"

	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
)

var (
	_ adapter.IntentGateway   = (*NoopGateway)(nil)
	_ adapter.RedirectGateway = (*NoopGateway)(nil)
	_ adapter.WidgetGateway   = (*NoopGateway)(nil)
	_ adapter.OverlayGateway  = (*NoopGateway)(nil)
)

// NoopGateway is an in-memory gateway for dev mode and tests. Every flow
// succeeds; amounts are remembered so widget verification can check them.
type NoopGateway struct {
	id model.GatewayID

	mu      sync.Mutex
	seq     int64
	amounts map[string]int64 // intent/session id -> minor units
}

func NewNoopGateway(id model.GatewayID) *NoopGateway {
	return &NoopGateway{id: id, amounts: make(map[string]int64)}
}

func (g *NoopGateway) Name() model.GatewayID { return g.id }

func (g *NoopGateway) next(prefix string) string {
	g.seq++
	return fmt.Sprintf("%s-%s-%d", prefix, g.id, g.seq)
}

func (g *NoopGateway) CreateIntent(ctx context.Context, amountMinor int64, currency, description string, meta map[string]string) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next("intent")
	g.amounts[id] = amountMinor
	return id, "secret-" + id, nil
}

func (g *NoopGateway) ConfirmIntent(ctx context.Context, intentID, paymentMethodRef string, handleActions bool) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.amounts[intentID]; !ok {
		return "", fmt.Errorf("noop: unknown intent %s", intentID)
	}
	return "charge-" + intentID, nil
}

func (g *NoopGateway) SupportsPaymentRequest(ctx context.Context) bool { return true }

func (g *NoopGateway) CreateOrder(ctx context.Context, order adapter.RedirectOrder) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next("order")
	g.amounts[id] = order.AmountMinor
	return id, "https://example.test/approve/" + id, nil
}

func (g *NoopGateway) VerifyReference(ctx context.Context, reference string, expectedMinor int64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if amt, ok := g.amounts[reference]; ok && amt != expectedMinor {
		return "", fmt.Errorf("noop: amount mismatch: expected %d got %d", amt, expectedMinor)
	}
	return "ref-" + reference, nil
}

func (g *NoopGateway) CreateSession(ctx context.Context, sess adapter.OverlaySession) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next("session")
	g.amounts[id] = sess.AmountMinor
	return id, "https://example.test/checkout/" + id, nil
}

func (g *NoopGateway) LookupPayment(ctx context.Context, sessionID string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.amounts[sessionID]; !ok {
		return "", false, nil
	}
	return "ref-" + sessionID, true, nil
}
