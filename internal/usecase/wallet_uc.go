// File: internal/usecase/wallet_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
)

// BalanceCache caches resolved balances; invalidated after wallet debits.
type BalanceCache interface {
	Get(ctx context.Context, userID string) (decimal.Decimal, bool)
	Put(ctx context.Context, userID string, balance decimal.Decimal) error
	Invalidate(ctx context.Context, userID string) error
}

var _ WalletUseCase = (*walletUC)(nil)

type WalletUseCase interface {
	// Balance returns the usable checkout balance. Fetch failures read as
	// zero so checkout degrades instead of erroring.
	Balance(ctx context.Context, userID string) decimal.Decimal
	// Debit takes amount from the richer source first within a transaction.
	Debit(ctx context.Context, tx repository.Tx, userID string, amount decimal.Decimal) error
	Invalidate(ctx context.Context, userID string) error
}

type walletUC struct {
	wallets repository.WalletRepository
	cache   BalanceCache
	log     *zerolog.Logger
}

func NewWalletUseCase(wallets repository.WalletRepository, cache BalanceCache, logger *zerolog.Logger) *walletUC {
	return &walletUC{wallets: wallets, cache: cache, log: logger}
}

// ResolveBalance is the usable balance across the two wallet sources:
// max(profile, shop). Inputs default to zero upstream on fetch failure.
func ResolveBalance(profile, shop decimal.Decimal) decimal.Decimal {
	if profile.GreaterThan(shop) {
		return profile
	}
	return shop
}

// HasSufficientBalance allows exact-balance payments (non-strict inequality).
func HasSufficientBalance(balance, price decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(price)
}

func (u *walletUC) Balance(ctx context.Context, userID string) decimal.Decimal {
	if u.cache != nil {
		if b, ok := u.cache.Get(ctx, userID); ok {
			return b
		}
	}
	profile, shop, err := u.wallets.Balances(ctx, repository.NoTX, userID)
	if err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("wallet: balance fetch failed, reading as zero")
		return decimal.Zero
	}
	balance := ResolveBalance(profile, shop)
	if u.cache != nil {
		_ = u.cache.Put(ctx, userID, balance)
	}
	return balance
}

func (u *walletUC) Debit(ctx context.Context, tx repository.Tx, userID string, amount decimal.Decimal) error {
	profile, shop, err := u.wallets.Balances(ctx, tx, userID)
	if err != nil {
		return err
	}
	source := model.WalletSourceShop
	if profile.GreaterThan(shop) {
		source = model.WalletSourceProfile
	}
	return u.wallets.Debit(ctx, tx, userID, source, amount)
}

func (u *walletUC) Invalidate(ctx context.Context, userID string) error {
	if u.cache == nil {
		return nil
	}
	return u.cache.Invalidate(ctx, userID)
}
