// File: internal/usecase/selection.go
package usecase

import (
	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
)

// InitialSelection computes the default payment method once gateway and
// saved-method data have loaded, as an explicit pipeline:
//  1. saved methods exist AND stripe enabled  -> saved_card (default-or-first)
//  2. primary gateway is stripe               -> card
//  3. otherwise                               -> the primary gateway's own tag
//
// No enabled gateways means there is no valid initial state; callers must
// surface a terminal "no payment methods available" screen instead of
// invoking the orchestrator.
func InitialSelection(gateways []model.Gateway, saved []*model.SavedPaymentMethod) (model.MethodSelection, error) {
	stripeEnabled := false
	for _, gw := range gateways {
		if gw.ID == model.GatewayStripe {
			stripeEnabled = true
			break
		}
	}

	if stripeEnabled && len(saved) > 0 {
		return model.SelectSavedCard(DefaultSavedMethod(saved).ID), nil
	}

	primary, ok := PrimaryOf(gateways)
	if !ok {
		return model.MethodSelection{}, domain.ErrNoGatewaysEnabled
	}
	if primary.ID == model.GatewayStripe {
		return model.SelectMethod(model.MethodCard), nil
	}
	return model.SelectMethod(methodForGateway(primary.ID)), nil
}

func methodForGateway(id model.GatewayID) model.MethodKind {
	switch id {
	case model.GatewayPayPal:
		return model.MethodPayPal
	case model.GatewayPaystack:
		return model.MethodPaystack
	case model.GatewayDodoPay:
		return model.MethodDodoPay
	case model.GatewayVodaPay:
		return model.MethodVodaPay
	case model.GatewayWallet:
		return model.MethodSystemWallet
	default:
		return model.MethodCard
	}
}

// GatewayForMethod maps a method family back to the gateway that serves it.
func GatewayForMethod(kind model.MethodKind) model.GatewayID {
	switch kind {
	case model.MethodCard, model.MethodSavedCard, model.MethodPaymentRequest:
		return model.GatewayStripe
	case model.MethodPayPal:
		return model.GatewayPayPal
	case model.MethodPaystack:
		return model.GatewayPaystack
	case model.MethodDodoPay:
		return model.GatewayDodoPay
	case model.MethodVodaPay:
		return model.GatewayVodaPay
	case model.MethodSystemWallet:
		return model.GatewayWallet
	default:
		return model.GatewayStripe
	}
}

// MethodLabel is the human-readable receipt label for a method family.
func MethodLabel(kind model.MethodKind) string {
	switch kind {
	case model.MethodCard:
		return "Card"
	case model.MethodSavedCard:
		return "Saved card"
	case model.MethodPayPal:
		return "PayPal"
	case model.MethodPaystack:
		return "Paystack"
	case model.MethodDodoPay:
		return "Card"
	case model.MethodVodaPay:
		return "VodaPay"
	case model.MethodSystemWallet:
		return "Wallet balance"
	case model.MethodPaymentRequest:
		return "Apple / Google Pay"
	default:
		return string(kind)
	}
}
