package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	campaigndomain "github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	obscontext "github.com/regobertatangangwatangie-eng/farmpro/internal/observability/context"
	"go.uber.org/zap"
)

type createAdRequest struct {
	Name      string         `json:"name"`
	Platform  string         `json:"platform"`
	Objective string         `json:"objective"`
	Budget    float64        `json:"budget"`
	Payload   map[string]any `json:"payload"`
}

func (s *Server) CreateAd(c *gin.Context) {
	var req createAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.campaignSvc.CreateAd(c.Request.Context(), campaigndomain.CreateAdRequest{
		Name:      req.Name,
		Platform:  req.Platform,
		Objective: req.Objective,
		Budget:    req.Budget,
		Payload:   req.Payload,
	})
	if err != nil {
		if result != nil && result.Ad != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "ad_create_failed",
				"details": err.Error(),
				"ad":      result.Ad,
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"ad": result.Ad}
	if result.Note != "" {
		resp["note"] = result.Note
	}
	c.JSON(http.StatusOK, resp)
}

type createFullAdRequest struct {
	Name          string         `json:"name"`
	Platform      string         `json:"platform"`
	Objective     string         `json:"objective"`
	DailyBudget   float64        `json:"daily_budget"`
	CreativeTitle string         `json:"creative_title"`
	CreativeBody  string         `json:"creative_body"`
	ImageURL      string         `json:"image_url"`
	Targeting     map[string]any `json:"targeting"`
}

func (s *Server) CreateFullAd(c *gin.Context) {
	var req createFullAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.campaignSvc.CreateFullAd(c.Request.Context(), campaigndomain.CreateFullAdRequest{
		Name:          req.Name,
		Platform:      req.Platform,
		Objective:     req.Objective,
		DailyBudget:   req.DailyBudget,
		CreativeTitle: req.CreativeTitle,
		CreativeBody:  req.CreativeBody,
		ImageURL:      req.ImageURL,
		Targeting:     req.Targeting,
	})
	if err != nil {
		// Partial runs persisted an error-status ad; surface it with the
		// failure detail instead of a bare envelope.
		if result != nil && result.Ad != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "full_flow_failed",
				"details": err.Error(),
				"ad":      result.Ad,
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"ad": result.Ad}
	if result.Components != nil {
		resp["components"] = result.Components
	}
	if result.Note != "" {
		resp["note"] = result.Note
	}
	c.JSON(http.StatusOK, resp)
}

type multiPlatformRequest struct {
	Name      string   `json:"name"`
	Platforms []string `json:"platforms"`
	Budget    float64  `json:"budget"`
	Objective string   `json:"objective"`
}

func (s *Server) MultiPlatformAds(c *gin.Context) {
	var req multiPlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.campaignSvc.MultiPlatform(c.Request.Context(), campaigndomain.MultiPlatformRequest{
		Name:      req.Name,
		Platforms: req.Platforms,
		Budget:    req.Budget,
		Objective: req.Objective,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AdEventsWebhook ingests ad platform notifications. The sender is always
// acknowledged; unattributable payloads are dropped after logging.
func (s *Server) AdEventsWebhook(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		body = map[string]any{}
	}
	source := c.GetHeader("X-Event-Source")
	if source == "" {
		source = "unknown"
	}

	if err := s.campaignSvc.IngestAdEvent(c.Request.Context(), campaigndomain.AdEventInput{
		Source: source,
		Body:   body,
	}); err != nil {
		s.log.Warn("ad event webhook",
			zap.String("request_id", obscontext.RequestIDFromGin(c)),
			zap.String("source", source),
			zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdPaystackWebhook receives ad payment notifications from Paystack.
func (s *Server) AdPaystackWebhook(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		body = map[string]any{}
	}

	if err := s.campaignSvc.IngestAdEvent(c.Request.Context(), campaigndomain.AdEventInput{
		Source: "paystack-direct",
		Body:   body,
	}); err != nil {
		s.log.Warn("paystack ad webhook",
			zap.String("request_id", obscontext.RequestIDFromGin(c)),
			zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) ListAds(c *gin.Context) {
	items, err := s.campaignSvc.ListAds(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) AdminListAds(c *gin.Context) {
	items, err := s.campaignSvc.ListAds(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) AdEvents(c *gin.Context) {
	adID := c.Param("id")
	items, err := s.campaignSvc.Events(c.Request.Context(), adID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ad_id": adID, "events": items})
}

func (s *Server) AdPerformance(c *gin.Context) {
	adID := c.Param("id")
	perf, err := s.campaignSvc.Performance(c.Request.Context(), adID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ad_id":       adID,
		"ad":          perf.Ad,
		"events":      perf.Events,
		"performance": perf.Summary,
	})
}
