package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(startedAt).Seconds(),
	})
}

func (s *Server) Info(c *gin.Context) {
	hostname, _ := os.Hostname()
	c.JSON(http.StatusOK, gin.H{
		"service":     "farmpro-backend",
		"hostname":    hostname,
		"environment": s.cfg.Environment,
	})
}

// ListFarms serves the demo farm directory used by the mobile app's landing
// screen.
func (s *Server) ListFarms(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{"id": 1, "name": "Sunrise Farm", "location": "Douala"},
		{"id": 2, "name": "Green Valley", "location": "Yaounde"},
	})
}

func (s *Server) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.List())
}
