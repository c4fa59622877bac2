package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured       = errors.New("not_configured")
	ErrUnsupportedMethod   = errors.New("unsupported_payment_method")
	ErrUnsupportedProvider = errors.New("unsupported_mobile_money_provider")
)

// GatewayError carries a provider's failure response untouched, tagged with
// the adapter that produced it.
type GatewayError struct {
	Provider string
	Details  string
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Details)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return e.Provider + ": gateway error"
}

func (e *GatewayError) Unwrap() error { return e.Err }

// NewGatewayError tags a failure with the provider name.
func NewGatewayError(provider, details string, err error) *GatewayError {
	return &GatewayError{Provider: provider, Details: details, Err: err}
}

// AsGatewayError unwraps a GatewayError if the chain contains one.
func AsGatewayError(err error) (*GatewayError, bool) {
	var gw *GatewayError
	if errors.As(err, &gw) {
		return gw, true
	}
	return nil, false
}
