package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/regobertatangangwatangie-eng/farmpro/internal/observability/context"
	subscriptiondomain "github.com/regobertatangangwatangie-eng/farmpro/internal/subscription/domain"
	"go.uber.org/zap"
)

type createSubscriptionRequest struct {
	Plan     string `json:"plan"`
	Customer struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"customer"`
	Payment struct {
		Method   string `json:"method"`
		Provider string `json:"provider"`
	} `json:"payment"`
}

func (s *Server) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sub, err := s.subscriptionSvc.Create(c.Request.Context(), subscriptiondomain.CreateRequest{
		PlanID:          strings.TrimSpace(req.Plan),
		CustomerName:    strings.TrimSpace(req.Customer.Name),
		CustomerEmail:   strings.TrimSpace(req.Customer.Email),
		PaymentMethod:   strings.TrimSpace(req.Payment.Method),
		PaymentProvider: strings.TrimSpace(req.Payment.Provider),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

func (s *Server) GetSubscription(c *gin.Context) {
	sub, err := s.subscriptionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// FlutterwaveCheckout is the landing endpoint for hosted-checkout redirects.
// Activation happens through the webhook, not here; the response just points
// the customer at the verify endpoint.
func (s *Server) FlutterwaveCheckout(c *gin.Context) {
	sub, err := s.subscriptionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Flutterwave redirect received. Check subscription status via verify endpoint.",
		"subscription": sub,
	})
}

// PaymentWebhook ingests gateway payment notifications. Once the signature
// passes, the delivery is acknowledged no matter what the payload contains.
func (s *Server) PaymentWebhook(c *gin.Context) {
	if err := s.checkWebhookSignature(c); err != nil {
		AbortWithError(c, err)
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	outcome, err := s.subscriptionSvc.ApplyWebhook(c.Request.Context(), payload)
	if err != nil {
		s.log.Error("payment webhook",
			zap.String("request_id", obscontext.RequestIDFromGin(c)),
			zap.Error(err))
		AbortWithError(c, err)
		return
	}
	if outcome.Matched {
		s.log.Info("payment webhook processed",
			zap.String("request_id", obscontext.RequestIDFromGin(c)),
			zap.String("subscription_id", outcome.SubscriptionID),
			zap.String("status", string(outcome.Status)),
			zap.Bool("transitioned", outcome.Transitioned))
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) AdminListSubscriptions(c *gin.Context) {
	items, err := s.subscriptionSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) AdminSubscriptionEvents(c *gin.Context) {
	items, err := s.subscriptionSvc.Events(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
