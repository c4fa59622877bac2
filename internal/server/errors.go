package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	campaigndomain "github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	paymentdomain "github.com/regobertatangangwatangie-eng/farmpro/internal/payment/domain"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/plan"
	subscriptiondomain "github.com/regobertatangangwatangie-eng/farmpro/internal/subscription/domain"
)

// apiError is the transport error envelope. Status drives the HTTP code and
// is not serialized.
type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *apiError) Error() string { return e.Message }

var (
	ErrUnauthorized = &apiError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthorized",
		Message: "authentication required",
	}
	ErrNotFound = &apiError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "resource not found",
	}
	ErrTooManyRequests = &apiError{
		Status:  http.StatusTooManyRequests,
		Code:    "rate_limited",
		Message: "too many requests",
	}
)

func invalidRequestError() *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "request body could not be parsed",
	}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// AbortWithError terminates the request with the envelope that matches err.
// Domain sentinels translate to client errors; gateway and provider failures
// surface as 502 with the upstream detail; everything else is a 500.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.Status, gin.H{"error": api})
		return
	}

	if status, code, ok := classifyDomainError(err); ok {
		c.AbortWithStatusJSON(status, gin.H{"error": &apiError{
			Status:  status,
			Code:    code,
			Message: err.Error(),
		}})
		return
	}

	var gateway *paymentdomain.GatewayError
	if errors.As(err, &gateway) {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": &apiError{
			Status:  http.StatusBadGateway,
			Code:    "gateway_error",
			Message: gateway.Error(),
		}})
		return
	}
	var provider *campaigndomain.ProviderError
	if errors.As(err, &provider) {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": &apiError{
			Status:  http.StatusBadGateway,
			Code:    "provider_error",
			Message: provider.Error(),
		}})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": &apiError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "internal server error",
	}})
}

func classifyDomainError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, plan.ErrInvalidPlan):
		return http.StatusBadRequest, "invalid_plan", true
	case errors.Is(err, subscriptiondomain.ErrMissingCustomer):
		return http.StatusBadRequest, "missing_customer", true
	case errors.Is(err, subscriptiondomain.ErrMissingPaymentMethod):
		return http.StatusBadRequest, "missing_payment_method", true
	case errors.Is(err, subscriptiondomain.ErrNotFound):
		return http.StatusNotFound, "subscription_not_found", true
	case errors.Is(err, campaigndomain.ErrMissingFields):
		return http.StatusBadRequest, "missing_fields", true
	case errors.Is(err, campaigndomain.ErrAdNotFound):
		return http.StatusNotFound, "ad_not_found", true
	case errors.Is(err, paymentdomain.ErrUnsupportedMethod):
		return http.StatusBadRequest, "unsupported_payment_method", true
	case errors.Is(err, paymentdomain.ErrUnsupportedProvider):
		return http.StatusBadRequest, "unsupported_provider", true
	case errors.Is(err, paymentdomain.ErrNotConfigured):
		return http.StatusServiceUnavailable, "gateway_not_configured", true
	default:
		return 0, "", false
	}
}
