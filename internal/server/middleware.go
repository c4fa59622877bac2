package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/regobertatangangwatangie-eng/farmpro/internal/observability/context"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/observability/tracing"
	"go.opentelemetry.io/otel/propagation"
)

// requestContext assigns every request an id and threads it through the
// request context for log correlation. Inbound trace headers are extracted so
// outgoing provider calls chain to the caller's trace.
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		ctx := tracing.ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		c.Request = c.Request.WithContext(obscontext.WithRequestID(ctx, requestID))
		c.Header("X-Request-Id", requestID)
		c.Next()
	}
}

// requireAdmin guards operator endpoints with the configured admin token.
// Both the X-Admin-Token header and a bearer token are accepted.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("X-Admin-Token"))
		if token == "" {
			authz := strings.TrimSpace(c.GetHeader("Authorization"))
			if rest, ok := strings.CutPrefix(authz, "Bearer "); ok {
				token = strings.TrimSpace(rest)
			}
		}
		if s.cfg.AdminToken == "" || !constantTimeEqual(token, s.cfg.AdminToken) {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// rateLimited applies the per-IP webhook rate limit.
func (s *Server) rateLimited() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.webhookLimiter.Allow(c.ClientIP()) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// checkWebhookSignature validates the gateway's webhook signature header.
// Flutterwave sends the shared secret in verif-hash; x-flw-signature is an
// accepted alias.
func (s *Server) checkWebhookSignature(c *gin.Context) error {
	if s.cfg.WebhookSecret == "" {
		return newValidationError("", "webhook_not_configured", "no webhook secret configured")
	}
	signature := strings.TrimSpace(c.GetHeader("verif-hash"))
	if signature == "" {
		signature = strings.TrimSpace(c.GetHeader("x-flw-signature"))
	}
	if !constantTimeEqual(signature, s.cfg.WebhookSecret) {
		return &apiError{
			Status:  http.StatusUnauthorized,
			Code:    "invalid_signature",
			Message: "webhook signature mismatch",
		}
	}
	return nil
}

func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
