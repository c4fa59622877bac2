// Package mobilemoney implements the manual mobile-money flow: no gateway is
// contacted, the customer transfers to a configured account and the operator
// reconciles using the returned reference.
package mobilemoney

import (
	"context"
	"strings"

	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment/domain"
)

const (
	ProviderMTN    = "mtn"
	ProviderOrange = "orange"
)

// Adapter synthesizes payment instructions from configured account numbers.
type Adapter struct {
	accounts map[string]string
}

// New builds the adapter from configured per-provider accounts. Providers
// with empty account numbers are left unconfigured rather than registered.
func New(cfg config.PaymentConfig) *Adapter {
	accounts := make(map[string]string, 2)
	if cfg.MTNAccount != "" {
		accounts[ProviderMTN] = cfg.MTNAccount
	}
	if cfg.OrangeAccount != "" {
		accounts[ProviderOrange] = cfg.OrangeAccount
	}
	return &Adapter{accounts: accounts}
}

func (a *Adapter) Name() string { return "mobile_money" }

// InitializeCharge returns transfer instructions for the requested
// sub-provider.
func (a *Adapter) InitializeCharge(_ context.Context, req domain.ChargeRequest) (*domain.Instructions, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	account, ok := a.accounts[provider]
	if !ok {
		return nil, domain.ErrUnsupportedProvider
	}

	return &domain.Instructions{
		Type:      "mobile_money",
		Provider:  provider,
		Account:   account,
		Currency:  req.Currency,
		AmountUSD: req.AmountUSD,
		Reference: req.Reference,
	}, nil
}
