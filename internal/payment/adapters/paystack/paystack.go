// Package paystack initializes hosted-checkout transactions against the
// Paystack API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment/domain"
)

const name = "paystack"

// fallbackEmail is used when the customer supplied no address; Paystack
// requires one on every transaction.
const fallbackEmail = "noemail@farmpro.local"

// Adapter issues one transaction-initialize call per charge.
type Adapter struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func New(cfg config.PaymentConfig) *Adapter {
	return &Adapter{
		secretKey: cfg.PaystackSecretKey,
		baseURL:   cfg.PaystackBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient overrides the HTTP client, used for instrumentation and tests.
func (a *Adapter) SetHTTPClient(client *http.Client) { a.httpClient = client }

func (a *Adapter) Name() string { return name }

type initializeRequest struct {
	// Amount is in the currency's minor unit.
	Amount    int64  `json:"amount"`
	Email     string `json:"email"`
	Reference string `json:"reference"`
}

type initializeResponse struct {
	Status bool `json:"status"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitializeCharge creates a checkout session. Missing credentials are
// reported before any network activity.
func (a *Adapter) InitializeCharge(ctx context.Context, req domain.ChargeRequest) (*domain.Instructions, error) {
	if a.secretKey == "" {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotConfigured)
	}

	email := req.CustomerEmail
	if email == "" {
		email = fallbackEmail
	}

	body, err := json.Marshal(initializeRequest{
		Amount:    int64(math.Round(req.AmountUSD * 100)),
		Email:     email,
		Reference: req.Reference,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/transaction/initialize", bytes.NewReader(body))
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

	var parsed initializeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, domain.NewGatewayError(name, string(respBody), err)
	}

	return &domain.Instructions{
		Type:        name,
		Provider:    name,
		Reference:   req.Reference,
		CheckoutURL: parsed.Data.AuthorizationURL,
	}, nil
}
