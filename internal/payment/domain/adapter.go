package domain

import "context"

// Method identifies how a subscriber pays.
type Method string

const (
	MethodMobileMoney Method = "mobile_money"
	MethodCard        Method = "card"
	MethodFlutterwave Method = "flutterwave"
	MethodPaystack    Method = "paystack"
)

// ChargeRequest asks an adapter to prepare a charge for one subscription.
type ChargeRequest struct {
	AmountUSD     float64
	Currency      string
	CustomerName  string
	CustomerEmail string

	// Reference is the correlation reference the gateway echoes back in
	// webhook payloads (prefix + subscription id).
	Reference string

	// Provider selects the sub-provider for methods that have one
	// (mtn/orange for mobile money).
	Provider string

	// RedirectURL is where hosted checkout sends the customer afterwards.
	RedirectURL string
}

// Instructions tells the customer how to complete payment. Mobile money
// yields an account number, hosted checkout yields a URL.
type Instructions struct {
	Type        string  `json:"type"`
	Provider    string  `json:"provider"`
	Account     string  `json:"account,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	AmountUSD   float64 `json:"amount_usd,omitempty"`
	Reference   string  `json:"reference"`
	CheckoutURL string  `json:"checkout_url,omitempty"`
}

// ChargeAdapter prepares a charge against one payment gateway.
type ChargeAdapter interface {
	// Name tags errors and events with the gateway identity.
	Name() string
	// InitializeCharge validates configuration, contacts the gateway when
	// one is involved, and returns payment instructions.
	InitializeCharge(ctx context.Context, req ChargeRequest) (*Instructions, error)
}
