package domain

import (
	"context"
	"errors"
)

var (
	ErrMissingCustomer      = errors.New("missing_customer")
	ErrMissingPaymentMethod = errors.New("missing_payment_method")
	ErrNotFound             = errors.New("subscription_not_found")
)

// CreateRequest asks for a new subscription.
type CreateRequest struct {
	PlanID          string
	CustomerName    string
	CustomerEmail   string
	PaymentMethod   string
	PaymentProvider string

	// RedirectURL overrides the configured hosted-checkout landing page,
	// typically derived from the inbound request's host.
	RedirectURL string
}

// WebhookOutcome describes what a webhook delivery did. Deliveries are always
// acknowledged; the outcome records whether a transition happened.
type WebhookOutcome struct {
	Matched        bool
	SubscriptionID string
	Status         Status
	Transitioned   bool
}

// Service owns the subscription lifecycle.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Subscription, error)
	ApplyWebhook(ctx context.Context, payload []byte) (*WebhookOutcome, error)
	Get(ctx context.Context, id string) (*Subscription, error)
	List(ctx context.Context) ([]Subscription, error)
	Events(ctx context.Context, id string) ([]PaymentEvent, error)
}
