package handlers

import (
	"net/http"
	"time"

	"catalog-svc/services"

	"github.com/gin-gonic/gin"
)

const serviceVersion = "1.0.0"

// HealthCheck reports liveness plus whether real AI generation is
// configured.
func HealthCheck(insights *services.InsightService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   serviceVersion,
			"aiEnabled": insights.Enabled(),
		})
	}
}
