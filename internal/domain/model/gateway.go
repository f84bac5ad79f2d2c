package model

type GatewayID string

const (
	GatewayStripe   GatewayID = "stripe"
	GatewayPayPal   GatewayID = "paypal"
	GatewayPaystack GatewayID = "paystack"
	GatewayDodoPay  GatewayID = "dodopay"
	GatewayVodaPay  GatewayID = "vodapay"
	GatewayWallet   GatewayID = "wallet"
)

// Gateway is one operator-enabled payment processor. At most one gateway
// should be flagged primary per enabled set; the registry does not enforce
// this and picks the first flagged row.
type Gateway struct {
	ID        GatewayID
	IsPrimary bool
	TestMode  bool
}
