package mobilemoney

import (
	"context"
	"errors"
	"testing"

	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment/domain"
)

func TestInitializeChargeMTN(t *testing.T) {
	adapter := New(config.PaymentConfig{MTNAccount: "650000001", OrangeAccount: "690000002"})

	instructions, err := adapter.InitializeCharge(context.Background(), domain.ChargeRequest{
		AmountUSD: 5,
		Currency:  "USD",
		Provider:  "mtn",
		Reference: "farmpro_123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instructions.Type != "mobile_money" || instructions.Provider != "mtn" {
		t.Fatalf("unexpected instructions: %+v", instructions)
	}
	if instructions.Account != "650000001" {
		t.Fatalf("expected configured account, got %s", instructions.Account)
	}
	if instructions.AmountUSD != 5 || instructions.Reference != "farmpro_123" {
		t.Fatalf("unexpected amount/reference: %+v", instructions)
	}
}

func TestInitializeChargeNormalizesProvider(t *testing.T) {
	adapter := New(config.PaymentConfig{OrangeAccount: "690000002"})

	instructions, err := adapter.InitializeCharge(context.Background(), domain.ChargeRequest{
		Provider: " Orange ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instructions.Provider != "orange" {
		t.Fatalf("expected normalized provider, got %s", instructions.Provider)
	}
}

func TestInitializeChargeUnsupportedProvider(t *testing.T) {
	adapter := New(config.PaymentConfig{MTNAccount: "650000001"})

	_, err := adapter.InitializeCharge(context.Background(), domain.ChargeRequest{Provider: "vodafone"})
	if !errors.Is(err, domain.ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestInitializeChargeUnconfiguredAccount(t *testing.T) {
	// Orange has no account configured, so it behaves as unsupported.
	adapter := New(config.PaymentConfig{MTNAccount: "650000001"})

	_, err := adapter.InitializeCharge(context.Background(), domain.ChargeRequest{Provider: "orange"})
	if !errors.Is(err, domain.ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
}
