package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type testCleanupRequest struct {
	Prefix string `json:"prefix"`
}

// TestCleanup deletes fixture data created by end-to-end test runs. The
// endpoint does not exist in production.
func (s *Server) TestCleanup(c *gin.Context) {
	if s.cfg.IsProduction() {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req testCleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		AbortWithError(c, newValidationError("prefix", "required", "prefix is required"))
		return
	}

	ctx := c.Request.Context()
	if err := s.deleteSubscriptionData(ctx, prefix); err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.deleteAdData(ctx, prefix); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) deleteSubscriptionData(ctx context.Context, prefix string) error {
	like := prefix + "%"
	var ids []int64
	if err := s.db.WithContext(ctx).
		Table("subscriptions").
		Select("id").
		Where("customer_name LIKE ?", like).
		Scan(&ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Exec(`DELETE FROM payment_events WHERE subscription_id IN ?`, ids).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Exec(`DELETE FROM subscriptions WHERE id IN ?`, ids).Error
}

func (s *Server) deleteAdData(ctx context.Context, prefix string) error {
	like := prefix + "%"
	var ids []string
	if err := s.db.WithContext(ctx).
		Table("ads").
		Select("CAST(id AS TEXT)").
		Where("name LIKE ?", like).
		Scan(&ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Exec(`DELETE FROM ad_events WHERE ad_id IN ?`, ids).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Exec(`DELETE FROM ads WHERE CAST(id AS TEXT) IN ?`, ids).Error
}
