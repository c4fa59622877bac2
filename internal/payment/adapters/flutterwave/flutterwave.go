// Package flutterwave initializes hosted-checkout payments against the
// Flutterwave v3 API. Completion arrives later via webhook.
package flutterwave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment/domain"
)

const name = "flutterwave"

// Adapter issues one payments call per charge.
type Adapter struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func New(cfg config.PaymentConfig) *Adapter {
	return &Adapter{
		secretKey: cfg.FlutterwaveSecretKey,
		baseURL:   cfg.FlutterwaveBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient overrides the HTTP client, used for instrumentation and tests.
func (a *Adapter) SetHTTPClient(client *http.Client) { a.httpClient = client }

func (a *Adapter) Name() string { return name }

type paymentRequest struct {
	TxRef          string          `json:"tx_ref"`
	Amount         float64         `json:"amount"`
	Currency       string          `json:"currency"`
	RedirectURL    string          `json:"redirect_url,omitempty"`
	Customer       paymentCustomer `json:"customer"`
	PaymentOptions string          `json:"payment_options"`
}

type paymentCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type paymentResponse struct {
	Status string `json:"status"`
	Data   struct {
		Link string `json:"link"`
	} `json:"data"`
}

// InitializeCharge creates a payment link. Missing credentials are reported
// before any network activity.
func (a *Adapter) InitializeCharge(ctx context.Context, req domain.ChargeRequest) (*domain.Instructions, error) {
	if a.secretKey == "" {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotConfigured)
	}

	body, err := json.Marshal(paymentRequest{
		TxRef:       req.Reference,
		Amount:      req.AmountUSD,
		Currency:    req.Currency,
		RedirectURL: req.RedirectURL,
		Customer: paymentCustomer{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
		},
		PaymentOptions: "card",
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v3/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.secretKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewGatewayError(name, "", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewGatewayError(name, "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewGatewayError(name, string(respBody), nil)
	}

	var parsed paymentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, domain.NewGatewayError(name, string(respBody), err)
	}

	return &domain.Instructions{
		Type:        name,
		Provider:    name,
		Reference:   req.Reference,
		CheckoutURL: parsed.Data.Link,
	}, nil
}
