package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletSource string

const (
	WalletSourceProfile WalletSource = "profile"
	WalletSourceShop    WalletSource = "shop"
)

// Wallet is one balance row per (user, source). The usable checkout balance
// is resolved across sources by the wallet use case.
type Wallet struct {
	UserID    string
	Source    WalletSource
	Balance   decimal.Decimal
	UpdatedAt time.Time
}
